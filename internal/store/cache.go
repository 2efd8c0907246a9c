// Package store implements the on-disk cache for fetched market data.
// Only raw provider payloads are cached; analysis results are never stored.
package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// Cache is a TTL'd payload cache keyed by ticker and payload kind, backed by
// modernc.org/sqlite.
type Cache struct {
	db *sql.DB
}

// Open opens (or creates) the cache database at the given path and
// configures WAL mode.
func Open(dsn string) (*Cache, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "cache: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "cache: exec %s", pragma)
		}
	}
	return &Cache{db: db}, nil
}

const cacheMigration = `
CREATE TABLE IF NOT EXISTS payload_cache (
	ticker     TEXT NOT NULL,
	kind       TEXT NOT NULL,
	payload    TEXT NOT NULL,
	fetched_at DATETIME NOT NULL,
	PRIMARY KEY (ticker, kind)
);

CREATE INDEX IF NOT EXISTS idx_payload_cache_fetched_at ON payload_cache(fetched_at);
`

// Migrate creates the cache schema.
func (c *Cache) Migrate(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, cacheMigration)
	return eris.Wrap(err, "cache: migrate")
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the cached payload for (ticker, kind) if one exists and is
// younger than maxAge. A miss is not an error.
func (c *Cache) Get(ctx context.Context, ticker, kind string, maxAge time.Duration) ([]byte, bool, error) {
	var payload string
	var fetchedAt time.Time

	err := c.db.QueryRowContext(ctx,
		`SELECT payload, fetched_at FROM payload_cache WHERE ticker = ? AND kind = ?`,
		ticker, kind,
	).Scan(&payload, &fetchedAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, eris.Wrap(err, "cache: get")
	}

	if time.Since(fetchedAt) > maxAge {
		return nil, false, nil
	}
	return []byte(payload), true, nil
}

// Put upserts a payload for (ticker, kind), stamping it with the current
// time.
func (c *Cache) Put(ctx context.Context, ticker, kind string, payload []byte) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO payload_cache (ticker, kind, payload, fetched_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (ticker, kind) DO UPDATE SET payload = excluded.payload, fetched_at = excluded.fetched_at`,
		ticker, kind, string(payload), time.Now().UTC(),
	)
	return eris.Wrap(err, "cache: put")
}

// Prune deletes entries older than maxAge and returns the number removed.
func (c *Cache) Prune(ctx context.Context, maxAge time.Duration) (int64, error) {
	res, err := c.db.ExecContext(ctx,
		`DELETE FROM payload_cache WHERE fetched_at < ?`,
		time.Now().UTC().Add(-maxAge),
	)
	if err != nil {
		return 0, eris.Wrap(err, "cache: prune")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, eris.Wrap(err, "cache: rows affected")
	}
	return n, nil
}
