// Package cache stores transformed output keyed by file identity, so
// repeated skims of unchanged files skip parsing entirely. Entries are keyed
// by sha256(canonical path | mtime | mode); a file edit changes the mtime
// and therefore the key, which is the whole invalidation story.
//
// A cache failure must never fail a transform: callers treat errors here as
// misses and move on.
package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"goskim/internal/skim"
)

const schema = `
CREATE TABLE IF NOT EXISTS entries (
	key                TEXT PRIMARY KEY,
	path               TEXT NOT NULL,
	mtime_unix         INTEGER NOT NULL,
	mode               TEXT NOT NULL,
	content            TEXT NOT NULL,
	original_tokens    INTEGER,
	transformed_tokens INTEGER,
	created_at         INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_entries_path_mode ON entries(path, mode);
`

// Entry is a cached transform result.
type Entry struct {
	Content           string
	OriginalTokens    int
	TransformedTokens int
	HasTokens         bool
}

// Cache is a sqlite-backed transform cache. Safe for concurrent use.
type Cache struct {
	db *sql.DB
}

// DefaultPath returns the default cache database location,
// $XDG_CACHE_HOME/goskim/cache.db (or the platform equivalent).
func DefaultPath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("determine cache directory: %w", err)
	}
	return filepath.Join(dir, "goskim", "cache.db"), nil
}

// Open opens (creating if needed) the cache database at path. An empty path
// selects DefaultPath.
func Open(path string) (*Cache, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize cache schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the cached entry for path at its current mtime, or a miss.
// Stale rows for the same path and mode are deleted best-effort.
func (c *Cache) Get(path string, mode skim.Mode) (*Entry, bool) {
	mtime, canonical, err := fileIdentity(path)
	if err != nil {
		return nil, false
	}

	key := entryKey(canonical, mtime, mode)

	var (
		entry Entry
		orig  sql.NullInt64
		trans sql.NullInt64
	)
	row := c.db.QueryRow(
		`SELECT content, original_tokens, transformed_tokens FROM entries WHERE key = ?`, key)
	if err := row.Scan(&entry.Content, &orig, &trans); err != nil {
		// Miss. Drop rows for older mtimes of this file so the table
		// does not accumulate one row per edit.
		_, _ = c.db.Exec(
			`DELETE FROM entries WHERE path = ? AND mode = ? AND mtime_unix != ?`,
			canonical, string(mode), mtime)
		return nil, false
	}

	if orig.Valid && trans.Valid {
		entry.OriginalTokens = int(orig.Int64)
		entry.TransformedTokens = int(trans.Int64)
		entry.HasTokens = true
	}
	return &entry, true
}

// Put stores a transform result for path at its current mtime. Token counts
// are optional; pass hasTokens=false when they were not computed.
func (c *Cache) Put(path string, mode skim.Mode, content string, origTokens, transTokens int, hasTokens bool) error {
	mtime, canonical, err := fileIdentity(path)
	if err != nil {
		return err
	}

	key := entryKey(canonical, mtime, mode)

	var orig, trans sql.NullInt64
	if hasTokens {
		orig = sql.NullInt64{Int64: int64(origTokens), Valid: true}
		trans = sql.NullInt64{Int64: int64(transTokens), Valid: true}
	}

	_, err = c.db.Exec(
		`INSERT OR REPLACE INTO entries
		 (key, path, mtime_unix, mode, content, original_tokens, transformed_tokens, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		key, canonical, mtime, string(mode), content, orig, trans, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

// Clear removes every cached entry and reports how many were removed.
func (c *Cache) Clear() (int64, error) {
	res, err := c.db.Exec(`DELETE FROM entries`)
	if err != nil {
		return 0, fmt.Errorf("clear cache: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear cache: %w", err)
	}
	return n, nil
}

// fileIdentity resolves a path to its canonical form and current mtime.
func fileIdentity(path string) (int64, string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, "", err
	}

	canonical, err := filepath.Abs(path)
	if err != nil {
		return 0, "", err
	}
	if resolved, err := filepath.EvalSymlinks(canonical); err == nil {
		canonical = resolved
	}

	return info.ModTime().Unix(), canonical, nil
}

func entryKey(canonical string, mtime int64, mode skim.Mode) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%d|%s", canonical, mtime, mode)))
	return hex.EncodeToString(sum[:])
}
