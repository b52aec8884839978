package token

import (
	"unicode"
	"unicode/utf8"
)

// Span locates one token inside the text it was scanned from.
// Offsets are byte positions; End is exclusive.
type Span struct {
	Start int
	End   int
}

// Tokenize scans the text into token spans. A token is a maximal run
// of non-whitespace runes. The scan is deterministic and stateless:
// identical text always yields identical spans.
func Tokenize(text string) []Span {
	var spans []Span
	start := -1

	for i, r := range text {
		if unicode.IsSpace(r) {
			if start >= 0 {
				spans = append(spans, Span{Start: start, End: i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		spans = append(spans, Span{Start: start, End: len(text)})
	}
	return spans
}

// Count returns the number of tokens in the text without allocating
// spans.
func Count(text string) int {
	count := 0
	inToken := false

	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if unicode.IsSpace(r) {
			inToken = false
		} else if !inToken {
			inToken = true
			count++
		}
		i += size
	}
	return count
}
