package resolve

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/hellenike/lexis/pkg/lexicon"
	"github.com/hellenike/lexis/pkg/store"
)

const (
	// DefaultBatchSize is the number of keys per exact-lookup round
	// trip. The transport between the orchestrating caller and this
	// engine only carries small batches; store.MaxBatchKeys is the
	// hard ceiling.
	DefaultBatchSize = 6
	// DefaultConcurrency is the number of batches in flight at once.
	DefaultConcurrency = 4
	// DefaultContainsLimit bounds stem-search result counts.
	DefaultContainsLimit = 3
)

// PersistentCache is an optional cache that outlives a session, checked
// between the session cache and the store. pkg/cachedb implements it on
// SQLite. Errors are logged and otherwise ignored: a broken warm cache
// must never fail a resolution run.
type PersistentCache interface {
	Get(ctx context.Context, key string) (*Result, bool, error)
	Put(ctx context.Context, res *Result) error
}

// Options configures a Session. The zero value of every field selects
// the documented default.
type Options struct {
	// Dictionary is the exact dictionary name every query is scoped to.
	Dictionary string
	// BatchSize is the number of keys per store round trip (max
	// store.MaxBatchKeys).
	BatchSize int
	// Concurrency is the number of simultaneously in-flight batches.
	Concurrency int
	// MaxHops bounds reference-chain traversal.
	MaxHops int
	// SubstantiveMinLen is the tier-1 entry-length threshold in runes.
	SubstantiveMinLen int
	// MinContent is the classifier's malformed-entry threshold in runes.
	MinContent int
	// ContainsLimit bounds stem-search results.
	ContainsLimit int
	// StoreTimeout is the per-store-call deadline; expiry is a tier
	// miss, not a failure. Zero disables the deadline.
	StoreTimeout time.Duration
	// Persistent, when set, warms the session cache and records new
	// resolutions.
	Persistent PersistentCache
	Logger     *slog.Logger
}

// Session owns one analysis run's resolution state: the write-once
// result cache and the resolver configuration. A Session is safe for
// concurrent use; discard it at session teardown.
type Session struct {
	resolver    *Resolver
	cache       *Cache
	persistent  PersistentCache
	batchSize   int
	concurrency int64
	log         *slog.Logger
}

// NewSession creates a resolution session against the given store.
func NewSession(st store.Store, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if batchSize > store.MaxBatchKeys {
		batchSize = store.MaxBatchKeys
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	maxHops := opts.MaxHops
	if maxHops <= 0 {
		maxHops = DefaultMaxHops
	}
	minLen := opts.SubstantiveMinLen
	if minLen <= 0 {
		minLen = DefaultSubstantiveMinLen
	}
	containsLimit := opts.ContainsLimit
	if containsLimit <= 0 {
		containsLimit = DefaultContainsLimit
	}

	return &Session{
		resolver: &Resolver{
			store:             st,
			dictionary:        opts.Dictionary,
			classifier:        lexicon.Classifier{MinContent: opts.MinContent},
			substantiveMinLen: minLen,
			maxHops:           maxHops,
			containsLimit:     containsLimit,
			storeTimeout:      opts.StoreTimeout,
			log:               logger,
		},
		cache:       NewCache(),
		persistent:  opts.Persistent,
		batchSize:   batchSize,
		concurrency: int64(concurrency),
		log:         logger,
	}
}

// ResolveAll resolves an ordered sequence of surface forms. The result
// slice always has exactly one element per input form, in input order,
// whatever order the underlying batches complete in. Failures are
// scoped to single keys or batches and reported per result; ResolveAll
// itself never fails.
//
// Cancelling ctx stops new batches from being dispatched; batches
// already in flight run to completion, and forms whose batch never ran
// come back Unresolved with reason "cancelled".
func (s *Session) ResolveAll(ctx context.Context, forms []string) []Result {
	keys := make([]string, len(forms))
	for i, form := range forms {
		keys[i] = lexicon.Normalize(form)
	}

	pending := s.collectPending(ctx, keys)
	s.dispatch(ctx, pending)

	results := make([]Result, len(forms))
	for i, form := range forms {
		results[i] = s.assemble(ctx, form, keys[i])
	}
	return results
}

// ResolveText tokenizes a Greek passage and resolves every token in
// document order.
func (s *Session) ResolveText(ctx context.Context, text string) []Result {
	return s.ResolveAll(ctx, lexicon.Tokenize(text))
}

// collectPending deduplicates keys, drops the ones already answered by
// the session cache or warm cache, and returns the remainder in
// first-appearance order.
func (s *Session) collectPending(ctx context.Context, keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	var pending []string
	for _, key := range keys {
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if _, ok := s.cache.Get(key); ok {
			continue
		}
		if s.warmLookup(ctx, key) {
			continue
		}
		pending = append(pending, key)
	}
	return pending
}

// dispatch partitions keys into batches and runs them with bounded
// concurrency. Batches already started are allowed to finish after
// cancellation, so their store calls run on a context detached from
// the caller's cancel signal (per-call timeouts still apply).
func (s *Session) dispatch(ctx context.Context, pending []string) {
	if len(pending) == 0 {
		return
	}

	sem := semaphore.NewWeighted(s.concurrency)
	var wg sync.WaitGroup
	detached := context.WithoutCancel(ctx)

	for start := 0; start < len(pending); start += s.batchSize {
		if ctx.Err() != nil {
			s.log.Info("resolution cancelled, skipping remaining batches",
				"remaining", len(pending)-start)
			break
		}
		end := min(start+s.batchSize, len(pending))
		batch := pending[start:end]

		if err := sem.Acquire(ctx, 1); err != nil {
			s.log.Info("resolution cancelled while waiting for a batch slot",
				"remaining", len(pending)-start)
			break
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)
			s.runBatch(detached, batch)
		}()
	}
	wg.Wait()
}

// runBatch issues one exact lookup for a batch of keys and walks the
// tier chain for each. A store outage marks only this batch's keys
// unresolved; a timeout just means tiers 1-3 missed and the later
// tiers still get their chance.
func (s *Session) runBatch(ctx context.Context, batch []string) {
	callCtx, cancel := s.resolver.withTimeout(ctx)
	defer cancel()

	hits, err := s.resolver.store.LookupExact(callCtx, s.resolver.dictionary, batch)
	switch {
	case err == nil:
	case store.IsTimeout(err):
		s.log.Warn("batch exact lookup timed out, escalating to later tiers", "keys", len(batch))
		hits = nil
	case store.IsUnavailable(err):
		s.log.Error("batch failed, store unavailable", "keys", len(batch), "error", err)
		for _, key := range batch {
			s.cache.Put(&Result{Key: key, Provenance: Unresolved, Reason: ReasonStoreUnavailable})
		}
		return
	default:
		s.log.Error("batch exact lookup failed", "keys", len(batch), "error", err)
		hits = nil
	}

	for _, key := range batch {
		res := s.resolver.resolveKey(ctx, key, hits[key])
		winner := s.cache.Put(res)
		if winner == res {
			s.warmStore(ctx, res)
		}
	}
}

// assemble copies the cached result for one input position. A key with
// no cached result was never dispatched, which only happens on
// cancellation.
func (s *Session) assemble(ctx context.Context, form, key string) Result {
	if key == "" {
		return Result{Form: form, Key: key, Provenance: Unresolved, Reason: ReasonNotFound}
	}
	if cached, ok := s.cache.Get(key); ok {
		res := *cached
		res.Form = form
		return res
	}
	reason := ReasonNotFound
	if ctx.Err() != nil {
		reason = ReasonCancelled
	}
	return Result{Form: form, Key: key, Provenance: Unresolved, Reason: reason}
}

func (s *Session) warmLookup(ctx context.Context, key string) bool {
	if s.persistent == nil {
		return false
	}
	res, ok, err := s.persistent.Get(ctx, key)
	if err != nil {
		s.log.Warn("persistent cache read failed", "key", key, "error", err)
		return false
	}
	if !ok {
		return false
	}
	s.cache.Put(res)
	return true
}

func (s *Session) warmStore(ctx context.Context, res *Result) {
	if s.persistent == nil || !res.Resolved() {
		return
	}
	if err := s.persistent.Put(ctx, res); err != nil {
		s.log.Warn("persistent cache write failed", "key", res.Key, "error", err)
	}
}
