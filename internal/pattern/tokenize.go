package pattern

import (
	"strings"
	"unicode"
)

// minKeywordLen is the shortest token worth indexing; anything of length 2
// or less is noise ("a", "di", "is").
const minKeywordLen = 3

// Keywords splits text on whitespace, lowercases each token, trims leading
// and trailing non-alphanumeric runes, and drops tokens shorter than three
// characters. This one tokenizer feeds both pattern analysis and chat
// keyword extraction so the two stay in agreement.
func Keywords(text string) []string {
	var words []string
	for _, raw := range strings.Fields(text) {
		w := strings.TrimFunc(strings.ToLower(raw), func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if len(w) >= minKeywordLen {
			words = append(words, w)
		}
	}
	return words
}
