package resolve

import (
	"context"
	"sync"
	"time"

	"github.com/hellenike/lexis/pkg/store"
)

// fakeStore is an in-memory Store with call recording, so tests can
// assert on batching, deduplication and failure isolation.
type fakeStore struct {
	mu sync.Mutex

	exact    map[string][]store.Hit // by normalized key
	lemma    map[string][]store.Hit // by raw mention
	contains map[string][]store.Hit // by stem

	// exactErr fails every LookupExact call when set.
	exactErr error
	// failKeys fails any LookupExact batch containing one of these keys
	// with store.ErrUnavailable.
	failKeys map[string]bool
	// delay is applied to every LookupExact call.
	delay time.Duration

	exactCalls  [][]string
	lemmaCalls  []string
	containCall []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		exact:    make(map[string][]store.Hit),
		lemma:    make(map[string][]store.Hit),
		contains: make(map[string][]store.Hit),
	}
}

func (f *fakeStore) addEntry(key, lemma, text string) {
	f.exact[key] = append(f.exact[key], store.Hit{Lemma: lemma, Key: key, Text: text})
}

func (f *fakeStore) LookupExact(ctx context.Context, dictionary string, keys []string) (map[string][]store.Hit, error) {
	f.mu.Lock()
	f.exactCalls = append(f.exactCalls, append([]string(nil), keys...))
	failed := false
	for _, k := range keys {
		if f.failKeys[k] {
			failed = true
		}
	}
	err := f.exactErr
	delay := f.delay
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	if failed {
		return nil, store.ErrUnavailable
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string][]store.Hit)
	for _, k := range keys {
		if hits, ok := f.exact[k]; ok {
			out[k] = append([]store.Hit(nil), hits...)
		}
	}
	return out, nil
}

func (f *fakeStore) LookupLemma(ctx context.Context, dictionary string, mention string) ([]store.Hit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lemmaCalls = append(f.lemmaCalls, mention)
	return append([]store.Hit(nil), f.lemma[mention]...), nil
}

func (f *fakeStore) LookupContains(ctx context.Context, dictionary string, stem string, limit int) ([]store.Hit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.containCall = append(f.containCall, stem)
	hits := f.contains[stem]
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return append([]store.Hit(nil), hits...), nil
}

func (f *fakeStore) exactCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.exactCalls)
}

func (f *fakeStore) timesQueried(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, call := range f.exactCalls {
		for _, k := range call {
			if k == key {
				n++
			}
		}
	}
	return n
}
