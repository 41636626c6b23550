package cachedb

// migrationsSQL is applied statement by statement at open time. The
// schema is tiny on purpose: one row per normalized key, holding the
// winning resolution.
const migrationsSQL = `
CREATE TABLE IF NOT EXISTS resolutions (
	key TEXT PRIMARY KEY,
	form TEXT NOT NULL DEFAULT '',
	lemma TEXT NOT NULL,
	lemma_key TEXT NOT NULL,
	entry_text TEXT NOT NULL,
	provenance INTEGER NOT NULL,
	resolved_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_resolutions_provenance ON resolutions(provenance)
`
