package format

import "strings"

// Raw-text scanning helpers. The syntax tree records where nodes start and
// end but not the whitespace and comments between them; these functions
// look at the source around a node to recover blank lines and comment
// placement. All of them return idx unchanged when nothing matches, so
// applying one twice is the same as applying it once.

var (
	spaceSeqs      = []string{" ", "\t"}
	newlineSeqs    = []string{"\r\n", "\n"}
	terminatorSeqs = []string{" ", "\t", ";", ","}
)

// skipOnce skips one occurrence of the first sequence that matches at idx.
func skipOnce(text string, idx int, seqs []string, backwards bool) int {
	if idx < 0 || idx > len(text) {
		return idx
	}
	for _, seq := range seqs {
		if backwards {
			if idx >= len(seq) && text[idx-len(seq):idx] == seq {
				return idx - len(seq)
			}
			continue
		}
		if strings.HasPrefix(text[idx:], seq) {
			return idx + len(seq)
		}
	}
	return idx
}

// skipMany skips sequences until none matches.
func skipMany(text string, idx int, seqs []string, backwards bool) int {
	for {
		next := skipOnce(text, idx, seqs, backwards)
		if next == idx {
			return idx
		}
		idx = next
	}
}

func skipSpaces(text string, idx int, backwards bool) int {
	return skipMany(text, idx, spaceSeqs, backwards)
}

func skipNewline(text string, idx int, backwards bool) int {
	return skipOnce(text, idx, newlineSeqs, backwards)
}

// skipToLineEnd skips spaces and statement or field terminators.
func skipToLineEnd(text string, idx int) int {
	return skipMany(text, idx, terminatorSeqs, false)
}

// skipTrailingComment skips a line comment starting at idx up to, not
// including, the newline that ends it.
func skipTrailingComment(text string, idx int) int {
	if idx < 0 || idx > len(text) || !strings.HasPrefix(text[idx:], "--") {
		return idx
	}
	if end := strings.IndexAny(text[idx:], "\r\n"); end >= 0 {
		return idx + end
	}
	return len(text)
}

// hasNewline reports whether only spaces separate idx from a newline.
func hasNewline(text string, idx int, backwards bool) bool {
	end := skipSpaces(text, idx, backwards)
	return skipNewline(text, end, backwards) != end
}

func hasNewlineInRange(text string, start, end int) bool {
	if start < 0 {
		start = 0
	}
	if end > len(text) {
		end = len(text)
	}
	if start >= end {
		return false
	}
	return strings.Contains(text[start:end], "\n")
}

// isNextLineEmpty reports whether the line after the one holding idx is
// blank. Terminators and a trailing line comment on the current line are
// skipped first.
func isNextLineEmpty(text string, idx int) bool {
	idx = skipToLineEnd(text, idx)
	idx = skipTrailingComment(text, idx)
	idx = skipNewline(text, idx, false)
	return idx < len(text) && hasNewline(text, idx, false)
}

// isPreviousLineEmpty reports whether the line before the one holding idx
// is blank.
func isPreviousLineEmpty(text string, idx int) bool {
	idx = skipSpaces(text, idx, true)
	idx = skipNewline(text, idx, true)
	idx = skipSpaces(text, idx, true)
	return skipNewline(text, idx, true) != idx
}
