package format

type assoc int

const (
	assocLeft assoc = iota
	assocRight
)

type opInfo struct {
	prec  int
	assoc assoc
}

// Binary operator precedence, lowest first. Unary operators bind at
// unaryPrecedence, between the multiplicative operators and "^".
var operators = map[string]opInfo{
	"or":  {1, assocLeft},
	"and": {2, assocLeft},
	"<":   {3, assocLeft},
	">":   {3, assocLeft},
	"<=":  {3, assocLeft},
	">=":  {3, assocLeft},
	"~=":  {3, assocLeft},
	"==":  {3, assocLeft},
	"|":   {4, assocLeft},
	"~":   {5, assocLeft},
	"&":   {6, assocLeft},
	"<<":  {7, assocLeft},
	">>":  {7, assocLeft},
	"..":  {8, assocRight},
	"+":   {9, assocLeft},
	"-":   {9, assocLeft},
	"*":   {10, assocLeft},
	"/":   {10, assocLeft},
	"//":  {10, assocLeft},
	"%":   {10, assocLeft},
	"^":   {12, assocRight},
}

const unaryPrecedence = 11

// precedence returns the binding power of a binary operator, or 0.
func precedence(op string) int {
	return operators[op].prec
}

func isRightAssoc(op string) bool {
	info, ok := operators[op]
	return ok && info.assoc == assocRight
}

var (
	equalityOperators       = map[string]bool{"==": true, "~=": true}
	multiplicativeOperators = map[string]bool{"*": true, "/": true, "//": true, "%": true}
)

// shouldFlatten reports whether a chain "x op y parentOp z" may be printed
// without parentheses around the inner pair.
func shouldFlatten(op, parentOp string) bool {
	if precedence(op) != precedence(parentOp) {
		return false
	}
	// x ^ y ^ z is x ^ (y ^ z)
	if parentOp == "^" {
		return false
	}
	// x == y == z is (x == y) == z
	if equalityOperators[parentOp] && equalityOperators[op] {
		return false
	}
	// x * y % z is (x * y) % z
	if (op == "%" && multiplicativeOperators[parentOp]) || (parentOp == "%" && multiplicativeOperators[op]) {
		return false
	}
	return true
}
