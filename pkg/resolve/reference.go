package resolve

import (
	"context"

	"github.com/hellenike/lexis/pkg/lexicon"
)

// DefaultMaxHops bounds reference-chain traversal. Scraped dictionary
// data contains reference pairs that point at each other, so the chain
// keeps a visited set and a hop budget instead of dereferencing blindly.
const DefaultMaxHops = 3

// followReference chases a reference-only entry to a substantive one.
// Each hop looks the target mention up by its display form as well as
// its normalized key: an accented mention like "ὁ" must be able to
// select its own article even when a bare homograph shares the
// normalized key. A hop that would revisit an already-seen key is a
// cycle; running out of hops is a depth failure.
func (r *Resolver) followReference(ctx context.Context, start lexicon.Entry) (*lexicon.Entry, Reason) {
	visited := map[string]struct{}{start.Key: {}}
	mention := start.Target

	for hop := 0; hop < r.maxHops; hop++ {
		key := lexicon.Normalize(mention)
		if key == "" {
			return nil, ReasonNotFound
		}
		visited[key] = struct{}{}

		entries, err := r.lookupMention(ctx, mention)
		if err != nil {
			// A failing hop is a miss for this chain, never fatal to
			// the key being resolved.
			r.log.Warn("reference lookup failed", "mention", mention, "error", err)
			return nil, ReasonNotFound
		}

		if best := longestSubstantive(entries, 0); best != nil {
			return best, ReasonNone
		}

		next := ""
		for _, e := range entries {
			if e.Kind == lexicon.ReferenceOnly && e.Target != "" {
				next = e.Target
				break
			}
		}
		if next == "" {
			return nil, ReasonNotFound
		}
		if _, seen := visited[lexicon.Normalize(next)]; seen {
			r.log.Debug("reference cycle", "start", start.Key, "at", next)
			return nil, ReasonReferenceCycle
		}
		mention = next
	}

	r.log.Debug("reference depth exceeded", "start", start.Key, "maxHops", r.maxHops)
	return nil, ReasonReferenceDepth
}
