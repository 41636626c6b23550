package lexicon

// fallbackEntry is a hand-curated definition for an ultra-high-frequency
// function word. These words open most sentences and clauses; leaving
// them unresolved would flag nearly every passage in the QA report, so
// a small fixed table backs up the dictionary as a last resort.
type fallbackEntry struct {
	lemma string
	text  string
}

// staticFallbacks maps normalized keys to curated entries. The glosses
// are Dutch, matching the source dictionary. The table is finite and
// consulted only after every store-backed tier has missed.
var staticFallbacks = map[string]fallbackEntry{
	"ο":     {"ὁ, ἡ, τό", "bepaald lidwoord: de, het; vaak met aanwijzende kracht bij Homerus"},
	"και":   {"καί", "voegwoord: en, ook, zelfs; καὶ ... καί zowel ... als"},
	"δε":    {"δέ", "partikel (tweede positie): maar, en, echter; vaak na μέν"},
	"μεν":   {"μέν", "partikel (tweede positie): enerzijds, weliswaar; gevolgd door δέ"},
	"γαρ":   {"γάρ", "redengevend partikel (tweede positie): want, immers, namelijk"},
	"ου":    {"οὐ", "ontkenning bij feiten: niet; οὐκ voor klinker, οὐχ voor spiritus asper"},
	"ουκ":   {"οὐκ", "ontkenning bij feiten: niet (vorm van οὐ voor klinker)"},
	"ουχ":   {"οὐχ", "ontkenning bij feiten: niet (vorm van οὐ voor spiritus asper)"},
	"μη":    {"μή", "ontkenning bij wens, verbod en voorwaarde: niet; dat niet, opdat niet"},
	"αλλα":  {"ἀλλά", "tegenstellend voegwoord: maar, doch, integendeel"},
	"τε":    {"τε", "enclitisch voegwoord: en; τε ... καί zowel ... als"},
	"ουν":   {"οὖν", "gevolgtrekkend partikel (tweede positie): dus, derhalve, nu"},
	"ει":    {"εἰ", "voegwoord: indien, als; of (in indirecte vraag)"},
	"αν":    {"ἄν", "modaal partikel bij potentialis en irrealis; onvertaald"},
	"ωσ":    {"ὡς", "als, zoals, dat, opdat, omdat; bij superlatief: zo ... mogelijk"},
	"οτι":   {"ὅτι", "voegwoord: dat, omdat; voor superlatief: zo ... mogelijk"},
}

// StaticFallback returns the curated entry for a normalized key, if the
// key belongs to the fixed function-word set.
func StaticFallback(key string) (Entry, bool) {
	fb, ok := staticFallbacks[key]
	if !ok {
		return Entry{}, false
	}
	return Entry{
		Lemma: fb.lemma,
		Key:   key,
		Text:  fb.text,
		Kind:  Substantive,
	}, true
}

// IsFunctionWord reports whether a normalized key belongs to the static
// fallback word class. The QA report uses it to flag critical words
// that still ended up unresolved.
func IsFunctionWord(key string) bool {
	_, ok := staticFallbacks[key]
	return ok
}
