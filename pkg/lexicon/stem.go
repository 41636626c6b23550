package lexicon

// inflectionalSuffixes are common Greek endings stripped before a
// contains-search, longest first so e.g. -ουσιν wins over -ιν.
// The list is deliberately coarse: the stem search is a late fallback
// tier and over-stripping only widens an already fuzzy net.
var inflectionalSuffixes = []string{
	"ουσιν", "ομενοσ", "ομενη", "ομενον",
	"ουσι", "ουσα", "οντεσ", "οντων", "εται", "ονται",
	"ειν", "εισ", "ειτε", "ετε", "εσθαι",
	"ων", "ουσ", "οισ", "αισ", "ησ", "ασ", "οσ", "ον", "ου", "αι", "οι",
	"ει", "ησι",
	"α", "η", "ε", "ω", "ο",
}

// minStemRunes guards against stripping a short word down to noise.
const minStemRunes = 3

// Stem strips one inflectional suffix from a normalized key, returning
// the key unchanged when no suffix applies or stripping would leave
// fewer than three letters.
func Stem(key string) string {
	runes := []rune(key)
	for _, suf := range inflectionalSuffixes {
		sr := []rune(suf)
		if len(runes)-len(sr) < minStemRunes {
			continue
		}
		if string(runes[len(runes)-len(sr):]) == suf {
			return string(runes[:len(runes)-len(sr)])
		}
	}
	return key
}
