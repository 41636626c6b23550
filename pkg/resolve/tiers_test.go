package resolve

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hellenike/lexis/pkg/store"
)

func newTestSession(t *testing.T, fs *fakeStore, opts Options) *Session {
	t.Helper()
	opts.Dictionary = "testdict"
	return NewSession(fs, opts)
}

func resolveOne(t *testing.T, s *Session, form string) Result {
	t.Helper()
	results := s.ResolveAll(context.Background(), []string{form})
	require.Len(t, results, 1)
	return results[0]
}

func TestExactSubstantiveMatch(t *testing.T) {
	fs := newFakeStore()
	entry := "λόγος, ὁ: woord, rede, verhaal, bericht, godsspraak"
	require.Greater(t, len([]rune(entry)), 20)
	fs.addEntry("λογοσ", "λόγος", entry)

	s := newTestSession(t, fs, Options{})
	res := resolveOne(t, s, "λόγος")

	assert.Equal(t, ExactSubstantive, res.Provenance)
	require.NotNil(t, res.Entry)
	assert.Equal(t, entry, res.Entry.Text)
	assert.Equal(t, "λογοσ", res.Key)
	assert.Equal(t, "λόγος", res.Form)
}

func TestLongestEntryWinsTieBreak(t *testing.T) {
	fs := newFakeStore()
	short := "ἀρχή, ἡ: begin, oorsprong van iets"
	long := "ἀρχή, ἡ: begin, oorsprong; heerschappij, macht, overheid, ambt; rijk"
	fs.addEntry("αρχη", "ἀρχή", short)
	fs.addEntry("αρχη", "ἀρχή", long)

	s := newTestSession(t, fs, Options{})
	res := resolveOne(t, s, "ἀρχή")

	assert.Equal(t, ExactSubstantive, res.Provenance)
	assert.Equal(t, long, res.Entry.Text)
}

func TestShortSubstantiveFallsToExactAny(t *testing.T) {
	fs := newFakeStore()
	// Above the malformed threshold (10) but below tier 1's 20.
	fs.addEntry("μικροσ", "μικρός", "μικρός: klein")

	s := newTestSession(t, fs, Options{})
	res := resolveOne(t, s, "μικρός")

	assert.Equal(t, ExactAny, res.Provenance)
	assert.Equal(t, "μικρός: klein", res.Entry.Text)
}

func TestMalformedEntriesNeverReturned(t *testing.T) {
	fs := newFakeStore()
	fs.addEntry("κακκ", "κακκ", "##")

	s := newTestSession(t, fs, Options{})
	res := resolveOne(t, s, "κακκ")

	assert.Equal(t, Unresolved, res.Provenance)
	assert.Equal(t, ReasonNotFound, res.Reason)
	assert.Nil(t, res.Entry)
}

func TestReferenceChainResolves(t *testing.T) {
	fs := newFakeStore()
	fs.addEntry("ο", "ὅ", "zie ὁ")
	article := "ὁ, ἡ, τό: bepaald lidwoord; bij Homerus ook aanwijzend"
	fs.lemma["ὁ"] = []store.Hit{{Lemma: "ὁ", Key: "ο", Text: article}}

	s := newTestSession(t, fs, Options{})
	res := resolveOne(t, s, "ο")

	assert.Equal(t, ExactSubstantive, res.Provenance)
	require.NotNil(t, res.Entry)
	assert.Equal(t, article, res.Entry.Text)
	assert.Equal(t, []string{"ὁ"}, fs.lemmaCalls)
}

func TestReferenceCycleReported(t *testing.T) {
	fs := newFakeStore()
	fs.addEntry("βραχυ", "βραχύ", "zie βραχύς")
	fs.lemma["βραχύς"] = []store.Hit{{Lemma: "βραχύς", Key: "βραχυσ", Text: "zie βραχύ"}}
	fs.lemma["βραχύ"] = []store.Hit{{Lemma: "βραχύ", Key: "βραχυ", Text: "zie βραχύς"}}

	s := newTestSession(t, fs, Options{})
	res := resolveOne(t, s, "βραχύ")

	assert.Equal(t, Unresolved, res.Provenance)
	assert.Equal(t, ReasonReferenceCycle, res.Reason)
}

func TestReferenceDepthExceeded(t *testing.T) {
	fs := newFakeStore()
	fs.addEntry("πρωτ", "πρωτ", "zie δευτ")
	fs.lemma["δευτ"] = []store.Hit{{Lemma: "δευτ", Key: "δευτ", Text: "zie τριτ"}}
	fs.lemma["τριτ"] = []store.Hit{{Lemma: "τριτ", Key: "τριτ", Text: "zie τεταρτ"}}
	fs.lemma["τεταρτ"] = []store.Hit{{Lemma: "τεταρτ", Key: "τεταρτ", Text: "zie πεμπτ"}}
	fs.lemma["πεμπτ"] = []store.Hit{{Lemma: "πεμπτ", Key: "πεμπτ", Text: "ver weg: een echt artikel, nooit bereikt"}}

	s := newTestSession(t, fs, Options{MaxHops: 3})
	res := resolveOne(t, s, "πρωτ")

	assert.Equal(t, Unresolved, res.Provenance)
	assert.Equal(t, ReasonReferenceDepth, res.Reason)
}

func TestStemSearchUniqueMatch(t *testing.T) {
	fs := newFakeStore()
	entry := "τύραννος, ὁ: alleenheerser, tiran, onbeperkt vorst"
	fs.contains["τυρανν"] = []store.Hit{{Lemma: "τύραννος", Key: "τυραννοσ", Text: entry}}

	s := newTestSession(t, fs, Options{})
	res := resolveOne(t, s, "τυράννους")

	assert.Equal(t, ContainsStem, res.Provenance)
	require.NotNil(t, res.Entry)
	assert.Equal(t, entry, res.Entry.Text)
}

func TestAmbiguousStemMatchIsAMiss(t *testing.T) {
	fs := newFakeStore()
	fs.contains["τυρανν"] = []store.Hit{
		{Lemma: "τύραννος", Key: "τυραννοσ", Text: "τύραννος, ὁ: alleenheerser, tiran"},
		{Lemma: "τυραννίς", Key: "τυραννισ", Text: "τυραννίς, ἡ: alleenheerschappij, tirannie"},
	}

	s := newTestSession(t, fs, Options{})
	res := resolveOne(t, s, "τυράννους")

	assert.Equal(t, Unresolved, res.Provenance)
	assert.Equal(t, ReasonAmbiguousStem, res.Reason)
}

func TestStaticFallbackLastResort(t *testing.T) {
	fs := newFakeStore()

	s := newTestSession(t, fs, Options{})
	res := resolveOne(t, s, "γάρ")

	assert.Equal(t, StaticFallback, res.Provenance)
	require.NotNil(t, res.Entry)
	assert.Equal(t, "γάρ", res.Entry.Lemma)
	assert.True(t, strings.Contains(res.Entry.Text, "want"))
}

func TestExactBeatsStaticFallback(t *testing.T) {
	fs := newFakeStore()
	entry := "καί: en, ook, zelfs; καὶ γάρ want ook; verbindt woorden en zinnen"
	fs.addEntry("και", "καί", entry)

	s := newTestSession(t, fs, Options{})
	res := resolveOne(t, s, "καί")

	assert.Equal(t, ExactSubstantive, res.Provenance)
	assert.Equal(t, entry, res.Entry.Text)
}

func TestUnknownKeyUnresolved(t *testing.T) {
	fs := newFakeStore()

	s := newTestSession(t, fs, Options{})
	res := resolveOne(t, s, "ξψζαβγ")

	assert.Equal(t, Unresolved, res.Provenance)
	assert.Equal(t, ReasonNotFound, res.Reason)
	assert.Nil(t, res.Entry)
}

func TestExactTimeoutEscalatesToLaterTiers(t *testing.T) {
	fs := newFakeStore()
	fs.exactErr = context.DeadlineExceeded
	fs.addEntry("γαρ", "γάρ", "γάρ: want, immers; dit artikel blijft onbereikbaar")

	s := newTestSession(t, fs, Options{})
	res := resolveOne(t, s, "γάρ")

	// Tiers 1-3 miss on the timeout; the static fallback still answers.
	assert.Equal(t, StaticFallback, res.Provenance)
}
