package lexicon

import (
	"regexp"
	"unicode"
)

// reWord matches a run of letters together with any combining marks,
// so accented Greek in decomposed form stays in one token.
var reWord = regexp.MustCompile(`[\p{L}\p{Mn}]+`)

// Tokenize splits a passage into word tokens, in document order,
// keeping only tokens that contain at least one Greek letter. Latin
// words, numbers and punctuation are skipped; apparatus text and page
// references in scanned sources are mostly Latin, so this filter keeps
// the resolver from chasing them.
func Tokenize(text string) []string {
	var tokens []string
	for _, tok := range reWord.FindAllString(text, -1) {
		if containsGreek(tok) {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

func containsGreek(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Greek, r) {
			return true
		}
	}
	return false
}
