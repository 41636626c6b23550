// Package lexicon holds the domain model of the Greek dictionary graph
// and the pure text logic applied to it: normalization, tokenization,
// entry classification and the static fallback table.
package lexicon

// EntryKind classifies a dictionary entry's text.
type EntryKind int

const (
	// Substantive entries carry real definitional content.
	Substantive EntryKind = iota
	// ReferenceOnly entries merely point at another lemma ("zie X").
	ReferenceOnly
	// Malformed entries are too short to define anything and are not references.
	Malformed
)

func (k EntryKind) String() string {
	switch k {
	case Substantive:
		return "substantive"
	case ReferenceOnly:
		return "reference"
	case Malformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Entry is one definitional text block attached to a Lemma within a
// single dictionary.
type Entry struct {
	Lemma string    // headword display text, diacritics intact
	Key   string    // normalized lookup key of the headword
	Text  string    // raw entry text
	Kind  EntryKind // classification of Text
	// Target is the raw lemma mention a ReferenceOnly entry points at.
	// Empty for other kinds.
	Target string
}
