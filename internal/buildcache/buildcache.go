// Package buildcache memoizes compiled objects keyed by a hash of their
// source text, so rebuilding unchanged c0 sources skips translation
// entirely. It is grounded on the teacher's internal/database connection
// manager, narrowed from a general-purpose multi-driver SQL facade down
// to the one schema this toolchain needs.
package buildcache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Cache is a sqlite-backed store of (source hash) -> (compiled object
// bytes, build id, timestamp). One Cache wraps one database file; the
// CLI driver opens it once per process.
type Cache struct {
	db *sql.DB
}

// Open opens (creating if necessary) the cache database at path and
// ensures its schema exists.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("buildcache: open: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("buildcache: ping: %w", err)
	}
	db.SetMaxOpenConns(1) // sqlite writers must be serialized

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("buildcache: schema: %w", err)
	}
	return &Cache{db: db}, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS objects (
	source_hash TEXT PRIMARY KEY,
	build_id    TEXT NOT NULL,
	object      BLOB NOT NULL,
	created_at  TIMESTAMP NOT NULL
);
`

// Key hashes source into the digest used as the cache's primary key.
func Key(source []byte) string {
	sum := sha256.Sum256(source)
	return hex.EncodeToString(sum[:])
}

// Lookup returns the cached object bytes for a source hash, if present.
func (c *Cache) Lookup(hash string) (object []byte, buildID string, ok bool, err error) {
	row := c.db.QueryRow(`SELECT build_id, object FROM objects WHERE source_hash = ?`, hash)
	err = row.Scan(&buildID, &object)
	if err == sql.ErrNoRows {
		return nil, "", false, nil
	}
	if err != nil {
		return nil, "", false, fmt.Errorf("buildcache: lookup: %w", err)
	}
	return object, buildID, true, nil
}

// Store records a freshly compiled object under hash, tagging it with a
// fresh build id so CLI diagnostics can report which build produced a
// given cached artifact.
func (c *Cache) Store(hash string, object []byte) (buildID string, err error) {
	buildID = uuid.NewString()
	_, err = c.db.Exec(
		`INSERT INTO objects (source_hash, build_id, object, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(source_hash) DO UPDATE SET build_id = excluded.build_id, object = excluded.object, created_at = excluded.created_at`,
		hash, buildID, object, time.Now(),
	)
	if err != nil {
		return "", fmt.Errorf("buildcache: store: %w", err)
	}
	return buildID, nil
}

// Close releases the underlying database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}
