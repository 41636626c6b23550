package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cenkalti/backoff/v4"
	"github.com/hellenike/lexis/pkg/lexicon"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// The importer builds the graph as
// (Lemma)-[:HAS_ENTRY]->(Entry)-[:BELONGS_TO]->(Dictionary) with the
// accent-free form stored on Lemma.text_no_accents. The engine's
// normalizer additionally folds final sigma, so the queries apply the
// same fold to the stored field; both sides of every comparison go
// through identical normalization.
const (
	cypherExact = `
MATCH (l:Lemma)-[:HAS_ENTRY]->(e:Entry)-[:BELONGS_TO]->(d:Dictionary {name: $dictionary})
WHERE replace(l.text_no_accents, 'ς', 'σ') IN $keys
RETURN l.text AS lemma, replace(l.text_no_accents, 'ς', 'σ') AS key, e.text AS text
ORDER BY size(e.text) DESC`

	cypherLemma = `
MATCH (l:Lemma)-[:HAS_ENTRY]->(e:Entry)-[:BELONGS_TO]->(d:Dictionary {name: $dictionary})
WHERE l.text = $mention OR replace(l.text_no_accents, 'ς', 'σ') = $key
RETURN l.text AS lemma, replace(l.text_no_accents, 'ς', 'σ') AS key, e.text AS text
ORDER BY size(e.text) DESC`

	cypherContains = `
MATCH (l:Lemma)-[:HAS_ENTRY]->(e:Entry)-[:BELONGS_TO]->(d:Dictionary {name: $dictionary})
WHERE replace(l.text_no_accents, 'ς', 'σ') CONTAINS $stem
RETURN l.text AS lemma, replace(l.text_no_accents, 'ς', 'σ') AS key, e.text AS text
ORDER BY size(e.text) DESC
LIMIT $limit`

	cypherVerify = `
MATCH (d:Dictionary {name: $dictionary})
OPTIONAL MATCH (l:Lemma)-[:HAS_ENTRY]->(e:Entry)-[:BELONGS_TO]->(d)
RETURN count(DISTINCT d) AS dictionaries, count(DISTINCT l) AS lemmas, count(DISTINCT e) AS entries`
)

// Neo4jStore issues the query contract against a Neo4j lexicon graph.
type Neo4jStore struct {
	driver     neo4j.DriverWithContext
	database   string
	maxRetries uint64
	log        *slog.Logger
}

// Neo4jOptions configures a Neo4jStore connection.
type Neo4jOptions struct {
	URI      string
	User     string
	Password string
	// Database is the Neo4j database name; empty selects the default.
	Database string
	// MaxRetries bounds connection-failure retries per operation.
	MaxRetries int
	Logger     *slog.Logger
}

// NewNeo4j connects to Neo4j and verifies connectivity before
// returning. Close the store when done.
func NewNeo4j(ctx context.Context, opts Neo4jOptions) (*Neo4jStore, error) {
	driver, err := neo4j.NewDriverWithContext(opts.URI, neo4j.BasicAuth(opts.User, opts.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("verify neo4j connectivity: %w: %w", ErrUnavailable, err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	retries := opts.MaxRetries
	if retries <= 0 {
		retries = 2
	}
	return &Neo4jStore{
		driver:     driver,
		database:   opts.Database,
		maxRetries: uint64(retries),
		log:        logger,
	}, nil
}

// Close releases the underlying driver.
func (s *Neo4jStore) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

// LookupExact implements Store.
func (s *Neo4jStore) LookupExact(ctx context.Context, dictionary string, keys []string) (map[string][]Hit, error) {
	if len(keys) > MaxBatchKeys {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyKeys, len(keys), MaxBatchKeys)
	}
	hits, err := s.query(ctx, cypherExact, map[string]any{
		"dictionary": dictionary,
		"keys":       keys,
	})
	if err != nil {
		return nil, err
	}
	byKey := make(map[string][]Hit, len(keys))
	for _, h := range hits {
		byKey[h.Key] = append(byKey[h.Key], h)
	}
	return byKey, nil
}

// LookupLemma implements Store.
func (s *Neo4jStore) LookupLemma(ctx context.Context, dictionary string, mention string) ([]Hit, error) {
	return s.query(ctx, cypherLemma, map[string]any{
		"dictionary": dictionary,
		"mention":    mention,
		"key":        lexicon.Normalize(mention),
	})
}

// LookupContains implements Store.
func (s *Neo4jStore) LookupContains(ctx context.Context, dictionary string, stem string, limit int) ([]Hit, error) {
	if limit <= 0 {
		limit = 3
	}
	return s.query(ctx, cypherContains, map[string]any{
		"dictionary": dictionary,
		"stem":       stem,
		"limit":      limit,
	})
}

// LexiconStats summarizes the graph shape for one dictionary.
type LexiconStats struct {
	Dictionaries int64
	Lemmas       int64
	Entries      int64
}

// Verify counts the Dictionary, Lemma and Entry nodes reachable for the
// named dictionary, mirroring the import-verification step of the data
// pipeline. A zero dictionary count means the import never ran.
func (s *Neo4jStore) Verify(ctx context.Context, dictionary string) (LexiconStats, error) {
	var stats LexiconStats
	records, err := s.run(ctx, cypherVerify, map[string]any{"dictionary": dictionary})
	if err != nil {
		return stats, err
	}
	if len(records) == 0 {
		return stats, nil
	}
	rec := records[0]
	stats.Dictionaries, _ = recordInt(rec, "dictionaries")
	stats.Lemmas, _ = recordInt(rec, "lemmas")
	stats.Entries, _ = recordInt(rec, "entries")
	return stats, nil
}

// query runs a read query with bounded retry and maps the records to
// hits.
func (s *Neo4jStore) query(ctx context.Context, cypher string, params map[string]any) ([]Hit, error) {
	records, err := s.run(ctx, cypher, params)
	if err != nil {
		return nil, err
	}
	hits := make([]Hit, 0, len(records))
	for _, rec := range records {
		var h Hit
		h.Lemma, _ = recordString(rec, "lemma")
		h.Key, _ = recordString(rec, "key")
		h.Text, _ = recordString(rec, "text")
		hits = append(hits, h)
	}
	return hits, nil
}

// run executes a read transaction, retrying connectivity failures with
// exponential backoff up to maxRetries. Deadline expiry is never
// retried: the caller treats it as a miss for the current tier.
func (s *Neo4jStore) run(ctx context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error) {
	operation := func() ([]*neo4j.Record, error) {
		records, err := s.runOnce(ctx, cypher, params)
		switch {
		case err == nil:
			return records, nil
		case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
			return nil, backoff.Permanent(err)
		case neo4j.IsConnectivityError(err):
			s.log.Warn("lexicon store connectivity failure, retrying", "error", err)
			return nil, err
		default:
			return nil, backoff.Permanent(err)
		}
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), s.maxRetries), ctx)
	records, err := backoff.RetryWithData(operation, policy)
	if err != nil {
		if neo4j.IsConnectivityError(err) {
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		return nil, err
	}
	return records, nil
}

func (s *Neo4jStore) runOnce(ctx context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: s.database,
		AccessMode:   neo4j.AccessModeRead,
	})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.([]*neo4j.Record), nil
}

func recordString(rec *neo4j.Record, field string) (string, bool) {
	v, ok := rec.Get(field)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func recordInt(rec *neo4j.Record, field string) (int64, bool) {
	v, ok := rec.Get(field)
	if !ok {
		return 0, false
	}
	n, ok := v.(int64)
	return n, ok
}
