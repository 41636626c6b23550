package resolve

import (
	"sort"

	"github.com/hellenike/lexis/pkg/lexicon"
)

// Report summarizes a session for quality assurance. The downstream
// analysis cares most about critical function words that ended up
// unresolved: those almost always indicate a store or data problem
// rather than a genuinely unknown word.
type Report struct {
	// Keys is the number of distinct normalized keys resolved.
	Keys int `json:"keys"`
	// ByProvenance counts keys per resolution tier.
	ByProvenance map[Provenance]int `json:"by_provenance"`
	// Unresolved lists every unresolved key, sorted.
	Unresolved []string `json:"unresolved,omitempty"`
	// UnresolvedFunctionWords lists unresolved keys that belong to the
	// static fallback word class. Under normal operation this is
	// always empty, since the fallback tier catches them.
	UnresolvedFunctionWords []string `json:"unresolved_function_words,omitempty"`
}

// Report summarizes everything resolved so far in this session.
func (s *Session) Report() Report {
	rep := Report{ByProvenance: make(map[Provenance]int)}
	for _, res := range s.cache.Snapshot() {
		rep.Keys++
		rep.ByProvenance[res.Provenance]++
		if res.Provenance == Unresolved {
			rep.Unresolved = append(rep.Unresolved, res.Key)
			if lexicon.IsFunctionWord(res.Key) {
				rep.UnresolvedFunctionWords = append(rep.UnresolvedFunctionWords, res.Key)
			}
		}
	}
	sort.Strings(rep.Unresolved)
	sort.Strings(rep.UnresolvedFunctionWords)
	return rep
}
