// Package cachedb persists resolved entries in SQLite so repeated
// analysis runs over the same corpus skip the graph store entirely for
// known words. It implements resolve.PersistentCache; the session cache
// stays authoritative within a run, this layer only warms it.
//
// Unresolved results are deliberately not persisted: a store outage or
// a gap in the lexicon should be retried on the next run.
package cachedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hellenike/lexis/pkg/lexicon"
	"github.com/hellenike/lexis/pkg/resolve"
)

// DB is a SQLite-backed persistent resolution cache.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the cache database at path and applies
// migrations. Use ":memory:" for an ephemeral cache in tests.
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	if err := migrate(conn); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("migrate cache db: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close releases the underlying connection.
func (d *DB) Close() error {
	return d.conn.Close()
}

func migrate(conn *sql.DB) error {
	for _, stmt := range strings.Split(migrationsSQL, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := conn.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Get implements resolve.PersistentCache.
func (d *DB) Get(ctx context.Context, key string) (*resolve.Result, bool, error) {
	row := d.conn.QueryRowContext(ctx,
		`SELECT form, lemma, lemma_key, entry_text, provenance FROM resolutions WHERE key = ?`, key)

	var form, lemma, lemmaKey, text string
	var provenance int
	if err := row.Scan(&form, &lemma, &lemmaKey, &text, &provenance); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read cached resolution: %w", err)
	}

	kind, target := lexicon.Classify(text)
	return &resolve.Result{
		Form: form,
		Key:  key,
		Entry: &lexicon.Entry{
			Lemma:  lemma,
			Key:    lemmaKey,
			Text:   text,
			Kind:   kind,
			Target: target,
		},
		Provenance: resolve.Provenance(provenance),
	}, true, nil
}

// Put implements resolve.PersistentCache. A better (lower-ranked)
// provenance replaces an existing row; anything else leaves the stored
// resolution alone, mirroring the session cache's write-once rule.
func (d *DB) Put(ctx context.Context, res *resolve.Result) error {
	if !res.Resolved() {
		return nil
	}
	_, err := d.conn.ExecContext(ctx,
		`INSERT INTO resolutions (key, form, lemma, lemma_key, entry_text, provenance)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
		   form = excluded.form,
		   lemma = excluded.lemma,
		   lemma_key = excluded.lemma_key,
		   entry_text = excluded.entry_text,
		   provenance = excluded.provenance
		 WHERE excluded.provenance < resolutions.provenance`,
		res.Key, res.Form, res.Entry.Lemma, res.Entry.Key, res.Entry.Text, int(res.Provenance))
	if err != nil {
		return fmt.Errorf("store resolution: %w", err)
	}
	return nil
}

// Len returns the number of cached resolutions.
func (d *DB) Len(ctx context.Context) (int, error) {
	var n int
	err := d.conn.QueryRowContext(ctx, `SELECT count(*) FROM resolutions`).Scan(&n)
	return n, err
}
