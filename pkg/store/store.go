// Package store defines the narrow query contract against the lexicon
// graph and its Neo4j implementation. The resolution engine only ever
// needs two read shapes: a batched exact lookup on normalized keys and
// a bounded contains-search on a stem.
package store

import (
	"context"
	"errors"
)

// MaxBatchKeys is the hard ceiling on keys per exact-lookup round trip,
// imposed by the calling side's transport limits.
const MaxBatchKeys = 10

// Hit is the projection every query returns: the headword as displayed,
// its normalized key, and one entry text. A lemma with several entries
// produces several hits.
type Hit struct {
	Lemma string
	Key   string
	Text  string
}

// Store is the read contract over the lexicon graph. Implementations
// must be safe for concurrent use; both operations are side-effect-free
// and idempotent.
type Store interface {
	// LookupExact returns, for each requested normalized key, every
	// entry of every lemma whose normalized form equals that key within
	// the named dictionary, ordered by descending entry-text length.
	// len(keys) must not exceed MaxBatchKeys. Keys with no match are
	// simply absent from the result map.
	LookupExact(ctx context.Context, dictionary string, keys []string) (map[string][]Hit, error)

	// LookupLemma returns every entry of lemmas matching one mention:
	// either the display text equals the mention verbatim or the
	// normalized form equals the mention's normalized key. Reference
	// chains use it so that an accented target like "ὁ" can select its
	// own article even when a bare homograph shares the normalized key.
	LookupLemma(ctx context.Context, dictionary string, mention string) ([]Hit, error)

	// LookupContains returns up to limit entries of lemmas whose
	// normalized form contains stem as a substring, ordered by
	// descending entry-text length.
	LookupContains(ctx context.Context, dictionary string, stem string, limit int) ([]Hit, error)
}

// ErrUnavailable marks a transport or connection failure that persisted
// through the bounded retry budget. Callers surface it per key instead
// of failing the whole run.
var ErrUnavailable = errors.New("lexicon store unavailable")

// ErrTooManyKeys is returned when a caller exceeds MaxBatchKeys.
var ErrTooManyKeys = errors.New("too many keys in one batch")

// IsUnavailable reports whether err is a store-unavailable failure.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// IsTimeout reports whether err is a deadline expiry. Timeouts are
// treated as a miss for the querying tier, not as a fatal failure.
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}
