package cachedb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hellenike/lexis/pkg/lexicon"
	"github.com/hellenike/lexis/pkg/resolve"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func resolved(form, key, lemma, text string, p resolve.Provenance) *resolve.Result {
	kind, target := lexicon.Classify(text)
	return &resolve.Result{
		Form: form,
		Key:  key,
		Entry: &lexicon.Entry{
			Lemma:  lemma,
			Key:    key,
			Text:   text,
			Kind:   kind,
			Target: target,
		},
		Provenance: p,
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	in := resolved("λόγος", "λογοσ", "λόγος",
		"λόγος, ὁ: woord, rede, verhaal, bericht", resolve.ExactSubstantive)
	require.NoError(t, db.Put(ctx, in))

	out, ok, err := db.Get(ctx, "λογοσ")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, in.Form, out.Form)
	assert.Equal(t, in.Key, out.Key)
	assert.Equal(t, in.Provenance, out.Provenance)
	require.NotNil(t, out.Entry)
	assert.Equal(t, in.Entry.Lemma, out.Entry.Lemma)
	assert.Equal(t, in.Entry.Text, out.Entry.Text)
	assert.Equal(t, lexicon.Substantive, out.Entry.Kind)
}

func TestGetMissingKey(t *testing.T) {
	db := openTestDB(t)

	_, ok, err := db.Get(context.Background(), "αγνωστοσ")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUnresolvedNotPersisted(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.Put(ctx, &resolve.Result{
		Form:       "ξψζ",
		Key:        "ξψζ",
		Provenance: resolve.Unresolved,
		Reason:     resolve.ReasonNotFound,
	}))

	n, err := db.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestBetterProvenanceReplacesStoredRow(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	stemmed := resolved("τυράννους", "τυραννουσ", "τύραννος",
		"τύραννος, ὁ: alleenheerser, tiran", resolve.ContainsStem)
	exact := resolved("τυράννους", "τυραννουσ", "τύραννος",
		"τύραννος, ὁ: alleenheerser, tiran, onbeperkt vorst", resolve.ExactSubstantive)

	require.NoError(t, db.Put(ctx, stemmed))
	require.NoError(t, db.Put(ctx, exact))

	out, ok, err := db.Get(ctx, "τυραννουσ")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, resolve.ExactSubstantive, out.Provenance)

	// A worse provenance never downgrades the stored row.
	require.NoError(t, db.Put(ctx, stemmed))
	out, _, err = db.Get(ctx, "τυραννουσ")
	require.NoError(t, err)
	assert.Equal(t, resolve.ExactSubstantive, out.Provenance)
}

func TestReferenceTargetSurvivesRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	// A result whose winning entry text happens to be a reference should
	// come back classified the same way.
	in := resolved("ο", "ο", "ὁ, ἡ, τό",
		"bepaald lidwoord: de, het; vaak met aanwijzende kracht", resolve.StaticFallback)
	require.NoError(t, db.Put(ctx, in))

	out, ok, err := db.Get(ctx, "ο")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, resolve.StaticFallback, out.Provenance)
	assert.Equal(t, lexicon.Substantive, out.Entry.Kind)
}
