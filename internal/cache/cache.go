// Package cache persists BLZ-compressed payloads between rebuilds, keyed by
// entry name and a hash of the raw bytes, so unmodified resources are not
// recompressed on every run.
package cache

import (
	"bytes"
	"context"
	"crypto/sha256"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS blz_cache (
	name       TEXT PRIMARY KEY,
	raw_hash   BLOB NOT NULL,
	compressed BLOB NOT NULL
);`

// Cache is a SQLite-backed compression cache.
type Cache struct {
	db   *sql.DB
	path string
}

// DefaultPath returns the cache database location under the user's home
// directory, falling back to the working directory.
func DefaultPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".texarc", "cache", "blz.db")
	}
	return filepath.Join(homeDir, ".texarc", "cache", "blz.db")
}

// Open opens (creating if needed) the cache database at path.
func Open(path string) (*Cache, error) {
	if path == "" {
		return nil, fmt.Errorf("cache path cannot be empty")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	connStr := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=%d",
		path, (30 * time.Second).Milliseconds())

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening cache database %s: %w", path, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("testing cache database connection: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}

	return &Cache{db: db, path: path}, nil
}

// Close closes the cache database connection.
func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}

	err := c.db.Close()
	c.db = nil

	if err != nil {
		return fmt.Errorf("closing cache database: %w", err)
	}
	return nil
}

// HashPayload returns the key hash for a raw payload.
func HashPayload(raw []byte) []byte {
	sum := sha256.Sum256(raw)
	return sum[:]
}

// Lookup returns the cached compressed bytes for an entry, provided the raw
// payload hash still matches. The second return reports a hit.
func (c *Cache) Lookup(ctx context.Context, name string, rawHash []byte) ([]byte, bool, error) {
	if c.db == nil {
		return nil, false, fmt.Errorf("cache database is closed")
	}

	var gotHash, compressed []byte
	row := c.db.QueryRowContext(ctx,
		`SELECT raw_hash, compressed FROM blz_cache WHERE name = ?`, name)
	if err := row.Scan(&gotHash, &compressed); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("querying cache for %q: %w", name, err)
	}

	if !bytes.Equal(gotHash, rawHash) {
		return nil, false, nil
	}
	return compressed, true, nil
}

// Store upserts the compressed bytes for an entry.
func (c *Cache) Store(ctx context.Context, name string, rawHash, compressed []byte) error {
	if c.db == nil {
		return fmt.Errorf("cache database is closed")
	}

	_, err := c.db.ExecContext(ctx,
		`INSERT INTO blz_cache (name, raw_hash, compressed) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET raw_hash = excluded.raw_hash, compressed = excluded.compressed`,
		name, rawHash, compressed)
	if err != nil {
		return fmt.Errorf("storing cache entry %q: %w", name, err)
	}
	return nil
}
