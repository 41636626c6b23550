package lexicon

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultMinContent is the minimum number of runes an entry needs to
// count as substantive. Anything shorter that is not a reference is
// considered malformed scrape output.
const DefaultMinContent = 10

// refMarkers are the cross-reference markers used by the source
// dictionary. The Dutch "zie" is what the scraper produces for
// verwijzings-lemmas; "βλ." and a leading arrow occur in older entries.
var refMarkers = []*regexp.Regexp{
	regexp.MustCompile(`^\s*zie\s+(.+)`),
	regexp.MustCompile(`^\s*βλ\.\s*(.+)`),
	regexp.MustCompile(`^\s*→\s*(.+)`),
}

// Classifier labels raw entry text. The zero value uses
// DefaultMinContent.
type Classifier struct {
	// MinContent is the substantive-content threshold in runes.
	MinContent int
}

// Classify labels entry text and, for references, extracts the raw
// target lemma mention. Classification runs before any length-based
// filtering: a short "zie X" entry is a reference, not malformed.
func (c Classifier) Classify(text string) (EntryKind, string) {
	trimmed := strings.TrimSpace(text)

	for _, re := range refMarkers {
		if m := re.FindStringSubmatch(trimmed); m != nil {
			return ReferenceOnly, firstWord(m[1])
		}
	}

	min := c.MinContent
	if min <= 0 {
		min = DefaultMinContent
	}
	if utf8.RuneCountInString(trimmed) < min {
		return Malformed, ""
	}
	return Substantive, ""
}

// Classify labels entry text using the default thresholds.
func Classify(text string) (EntryKind, string) {
	return Classifier{}.Classify(text)
}

// firstWord trims a reference target down to the lemma mention itself,
// dropping trailing commentary ("zie λέγω, aor." → "λέγω").
func firstWord(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, " \t,.;·:("); i > 0 {
		s = s[:i]
	}
	return strings.TrimRight(s, ".,;·:")
}
