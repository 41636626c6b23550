// Package resolve implements the lexical resolution engine: the tiered
// fallback matcher, reference-chain expansion, the session cache and
// the batch scheduler that drives bounded concurrent lookups.
package resolve

import (
	"fmt"

	"github.com/hellenike/lexis/pkg/lexicon"
)

// Provenance records which tier produced a result. The numeric order is
// the tier rank: when two concurrent resolutions of one key disagree,
// the lower value wins.
type Provenance uint8

const (
	// ExactSubstantive is a direct (or reference-chain) exact match on
	// a substantive entry.
	ExactSubstantive Provenance = iota + 1
	// ExactAny is an exact match on a substantive entry below the
	// preferred length threshold.
	ExactAny
	// ContainsStem is a unique substantive match from the stem search.
	ContainsStem
	// StaticFallback comes from the curated function-word table.
	StaticFallback
	// Unresolved means every tier missed; Reason says why.
	Unresolved
)

var provenanceNames = map[Provenance]string{
	ExactSubstantive: "exact_substantive",
	ExactAny:         "exact_any",
	ContainsStem:     "contains_stem",
	StaticFallback:   "static_fallback",
	Unresolved:       "unresolved",
}

func (p Provenance) String() string {
	if s, ok := provenanceNames[p]; ok {
		return s
	}
	return fmt.Sprintf("provenance(%d)", uint8(p))
}

// MarshalText makes provenance tags readable in JSON output.
func (p Provenance) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Reason explains an Unresolved result.
type Reason uint8

const (
	ReasonNone Reason = iota
	// ReasonNotFound: no tier produced a candidate.
	ReasonNotFound
	// ReasonReferenceCycle: a "zie X" chain revisited a key.
	ReasonReferenceCycle
	// ReasonReferenceDepth: a reference chain exceeded the hop budget.
	ReasonReferenceDepth
	// ReasonAmbiguousStem: the stem search returned more than one
	// substantive candidate.
	ReasonAmbiguousStem
	// ReasonStoreUnavailable: the batch's store call failed after
	// retries.
	ReasonStoreUnavailable
	// ReasonCancelled: the run was cancelled before this key's batch
	// was dispatched.
	ReasonCancelled
)

var reasonNames = map[Reason]string{
	ReasonNone:             "",
	ReasonNotFound:         "not_found",
	ReasonReferenceCycle:   "reference_cycle",
	ReasonReferenceDepth:   "reference_depth_exceeded",
	ReasonAmbiguousStem:    "ambiguous_stem_match",
	ReasonStoreUnavailable: "store_unavailable",
	ReasonCancelled:        "cancelled",
}

func (r Reason) String() string {
	if s, ok := reasonNames[r]; ok {
		return s
	}
	return fmt.Sprintf("reason(%d)", uint8(r))
}

// MarshalText makes reason codes readable in JSON output.
func (r Reason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Result is the outcome of resolving one surface form. Results are
// created once, cached by normalized key and never mutated afterwards.
type Result struct {
	// Form is the surface form as submitted, diacritics intact.
	Form string `json:"form"`
	// Key echoes the normalized key for traceability.
	Key string `json:"key"`
	// Entry is nil when Provenance is Unresolved.
	Entry      *lexicon.Entry `json:"entry,omitempty"`
	Provenance Provenance     `json:"provenance"`
	Reason     Reason         `json:"reason,omitempty"`
}

// Resolved reports whether the result carries an entry.
func (r Result) Resolved() bool {
	return r.Provenance != Unresolved && r.Entry != nil
}
