package format

import "strings"

// normalizeString rewrites a quoted string literal to the configured quote
// character. The preferred quote loses when the content contains more of it
// than of the other quote. Long-bracket strings are returned unchanged.
func normalizeString(raw string, style QuoteStyle) string {
	if len(raw) < 2 || style == QuotePreserve {
		return raw
	}
	quote := raw[0]
	if quote != '"' && quote != '\'' {
		return raw
	}
	content := raw[1 : len(raw)-1]

	preferred, alternate := byte('"'), byte('\'')
	if style == QuoteSingle {
		preferred, alternate = alternate, preferred
	}
	enclosing := preferred
	if strings.Count(content, string(preferred)) > strings.Count(content, string(alternate)) {
		enclosing = alternate
	}
	return makeString(content, enclosing)
}

// makeString requotes content with the given quote: escapes of the other
// quote are dropped and bare occurrences of the enclosing quote escaped.
// Every other escape sequence is kept as written.
func makeString(content string, enclosing byte) string {
	other := byte('"')
	if enclosing == '"' {
		other = '\''
	}

	var sb strings.Builder
	sb.Grow(len(content) + 2)
	sb.WriteByte(enclosing)
	for i := 0; i < len(content); i++ {
		ch := content[i]
		switch {
		case ch == '\\' && i+1 < len(content):
			next := content[i+1]
			if next != other {
				sb.WriteByte('\\')
			}
			sb.WriteByte(next)
			i++
		case ch == enclosing:
			sb.WriteByte('\\')
			sb.WriteByte(ch)
		default:
			sb.WriteByte(ch)
		}
	}
	sb.WriteByte(enclosing)
	return sb.String()
}
