package resolve

import (
	"context"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/hellenike/lexis/pkg/lexicon"
	"github.com/hellenike/lexis/pkg/store"
)

// DefaultSubstantiveMinLen is the entry-text length (in runes) above
// which an exact substantive match is accepted outright in tier 1.
const DefaultSubstantiveMinLen = 20

// Resolver applies the tiered fallback chain to one normalized key at a
// time. The batch scheduler supplies the exact-match hits for tiers 1-3
// so that a whole batch of keys costs one store round trip; only the
// stem tier and reference chains issue further queries.
type Resolver struct {
	store             store.Store
	dictionary        string
	classifier        lexicon.Classifier
	substantiveMinLen int
	maxHops           int
	containsLimit     int
	storeTimeout      time.Duration
	log               *slog.Logger
}

// resolveKey walks the tiers in order and stops at the first success.
// exact holds the batched exact-match hits for this key; nil means the
// exact lookup missed (or timed out, which escalates the same way).
func (r *Resolver) resolveKey(ctx context.Context, key string, exact []store.Hit) *Result {
	entries := r.classifyHits(exact)
	missReason := ReasonNotFound

	// Tier 1: substantive exact match with enough content.
	if best := longestSubstantive(entries, r.substantiveMinLen); best != nil {
		return &Result{Key: key, Entry: best, Provenance: ExactSubstantive}
	}

	// Tier 2: substantive exact match of any length. Malformed entries
	// are never returned; filtering them out is the point of
	// classifying.
	if best := longestSubstantive(entries, 0); best != nil {
		return &Result{Key: key, Entry: best, Provenance: ExactAny}
	}

	// Tier 3: follow reference-only entries to their target lemma.
	for _, e := range entries {
		if e.Kind != lexicon.ReferenceOnly {
			continue
		}
		target, reason := r.followReference(ctx, e)
		if target != nil {
			return &Result{Key: key, Entry: target, Provenance: ExactSubstantive}
		}
		if reason == ReasonReferenceCycle || reason == ReasonReferenceDepth {
			missReason = reason
		}
	}

	// Tier 4: stem search, accepted only on a unique substantive hit.
	if entry, reason := r.stemSearch(ctx, key); entry != nil {
		return &Result{Key: key, Entry: entry, Provenance: ContainsStem}
	} else if reason == ReasonAmbiguousStem && missReason == ReasonNotFound {
		missReason = reason
	}

	// Tier 5: curated function-word table.
	if fb, ok := lexicon.StaticFallback(key); ok {
		return &Result{Key: key, Entry: &fb, Provenance: StaticFallback}
	}

	return &Result{Key: key, Provenance: Unresolved, Reason: missReason}
}

// stemSearch runs the contains tier. More than one substantive
// candidate means the stem was too generic, and the tier reports an
// ambiguous miss rather than guessing.
func (r *Resolver) stemSearch(ctx context.Context, key string) (*lexicon.Entry, Reason) {
	stem := lexicon.Stem(key)
	if utf8.RuneCountInString(stem) < 3 {
		return nil, ReasonNotFound
	}

	callCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	hits, err := r.store.LookupContains(callCtx, r.dictionary, stem, r.containsLimit)
	if err != nil {
		if store.IsTimeout(err) {
			r.log.Debug("stem search timed out", "key", key, "stem", stem)
		} else {
			r.log.Warn("stem search failed", "key", key, "error", err)
		}
		return nil, ReasonNotFound
	}

	var candidates []lexicon.Entry
	for _, e := range r.classifyHits(hits) {
		if e.Kind == lexicon.Substantive {
			candidates = append(candidates, e)
		}
	}
	switch len(candidates) {
	case 0:
		return nil, ReasonNotFound
	case 1:
		return &candidates[0], ReasonNone
	default:
		return nil, ReasonAmbiguousStem
	}
}

// lookupMention fetches entries for a single lemma mention, used by
// reference chains outside the batched path.
func (r *Resolver) lookupMention(ctx context.Context, mention string) ([]lexicon.Entry, error) {
	callCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	hits, err := r.store.LookupLemma(callCtx, r.dictionary, mention)
	if err != nil {
		return nil, err
	}
	return r.classifyHits(hits), nil
}

func (r *Resolver) classifyHits(hits []store.Hit) []lexicon.Entry {
	if len(hits) == 0 {
		return nil
	}
	entries := make([]lexicon.Entry, 0, len(hits))
	for _, h := range hits {
		kind, target := r.classifier.Classify(h.Text)
		entries = append(entries, lexicon.Entry{
			Lemma:  h.Lemma,
			Key:    h.Key,
			Text:   h.Text,
			Kind:   kind,
			Target: target,
		})
	}
	return entries
}

func (r *Resolver) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.storeTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.storeTimeout)
}

// longestSubstantive picks the substantive entry with the longest text
// strictly above minLen runes. Longer entries are assumed more
// complete, which settles ties among homographs deterministically.
func longestSubstantive(entries []lexicon.Entry, minLen int) *lexicon.Entry {
	var best *lexicon.Entry
	bestLen := minLen
	for i := range entries {
		e := &entries[i]
		if e.Kind != lexicon.Substantive {
			continue
		}
		if n := utf8.RuneCountInString(e.Text); n > bestLen {
			best, bestLen = e, n
		}
	}
	return best
}
