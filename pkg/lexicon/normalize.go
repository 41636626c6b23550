package lexicon

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFD and drops every combining mark, which
// removes accents, breathing marks, iota subscripts and diaereses in a
// single pass.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize reduces a Greek surface form to its canonical lookup key:
// lowercased, all diacritics stripped, final sigma folded to medial,
// restricted to the 24-letter base alphabet. Anything outside the base
// alphabet (Latin letters, digits, punctuation) is dropped rather than
// rejected, so the function is total. It is also idempotent:
// Normalize(Normalize(x)) == Normalize(x) for every x.
func Normalize(s string) string {
	folded, _, err := transform.String(stripMarks, strings.ToLower(s))
	if err != nil {
		// The chain never fails on valid UTF-8; invalid bytes fall
		// through to the alphabet filter below.
		folded = strings.ToLower(s)
	}

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if r == 'ς' {
			r = 'σ'
		}
		if r >= 'α' && r <= 'ω' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
