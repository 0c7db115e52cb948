// Package sqlite is the Store backed by a single-table SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	stderrors "errors"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/KirkDiggler/dnd-mcp/internal/errors"
	"github.com/KirkDiggler/dnd-mcp/internal/pkg/clock"
)

const (
	backendName = "sqlite"
	// FileName is the database file created inside the directory
	FileName = "campaigns.sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	expires_at INTEGER NOT NULL DEFAULT 0
)`

// Config configures the sqlite store
type Config struct {
	Directory string
	Clock     clock.Clock
}

// Validate validates the config
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("Directory", c.Directory, vb)
	return vb.Build()
}

// Store persists values in SQLite
type Store struct {
	sqlDB *sql.DB
	clock clock.Clock
}

// Open opens (and creates) the database and its table.
func Open(ctx context.Context, cfg *Config) (*Store, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	dir := filepath.Clean(cfg.Directory)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.StorageUnavailable(err, backendName, "open").WithMeta("directory", dir)
	}

	dsn := filepath.Join(dir, FileName) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.StorageUnavailable(err, backendName, "open").WithMeta("directory", dir)
	}
	// A single connection serializes writers; values are whole records so
	// there is no contention worth a pool.
	sqlDB.SetMaxOpenConns(1)

	if _, err := sqlDB.ExecContext(ctx, schema); err != nil {
		_ = sqlDB.Close()
		return nil, errors.StorageUnavailable(err, backendName, "open").WithMeta("directory", dir)
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}
	return &Store{sqlDB: sqlDB, clock: c}, nil
}

// Get reads a live value
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT value FROM kv WHERE key = ? AND (expires_at = 0 OR expires_at > ?)`,
		key, s.now()).Scan(&value)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFoundf("key %s not found", key).WithMeta(errors.MetaKey, key)
	}
	if err != nil {
		return nil, unavailable(err, "get", key)
	}
	return value, nil
}

// Set upserts key
func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	var expiresAt int64
	if ttl > 0 {
		expiresAt = s.clock.Now().Add(ttl).UnixMilli()
	}
	if value == nil {
		value = []byte{}
	}

	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO kv (key, value, expires_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`,
		key, value, expiresAt)
	if err != nil {
		return unavailable(err, "set", key)
	}
	return nil
}

// Delete removes key
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return unavailable(err, "delete", key)
	}
	return nil
}

// Exists reports whether key holds a live value
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	var n int
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM kv WHERE key = ? AND (expires_at = 0 OR expires_at > ?)`,
		key, s.now()).Scan(&n)
	if err != nil {
		return false, unavailable(err, "exists", key)
	}
	return n > 0, nil
}

// Keys lists live keys under prefix in lexical order
func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT key FROM kv WHERE substr(key, 1, ?) = ? AND (expires_at = 0 OR expires_at > ?) ORDER BY key`,
		len(prefix), prefix, s.now())
	if err != nil {
		return nil, unavailable(err, "keys", prefix)
	}
	defer func() { _ = rows.Close() }()

	keys := make([]string, 0)
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, unavailable(err, "keys", prefix)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(err, "keys", prefix)
	}
	return keys, nil
}

// PurgeExpired deletes expired rows and returns how many were removed.
func (s *Store) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM kv WHERE expires_at != 0 AND expires_at <= ?`, s.now())
	if err != nil {
		return 0, unavailable(err, "purge", "")
	}
	return res.RowsAffected()
}

// Close closes the SQLite handle
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) now() int64 {
	return s.clock.Now().UnixMilli()
}

func unavailable(err error, op, key string) *errors.Error {
	return errors.StorageUnavailable(err, backendName, op).WithMeta(errors.MetaKey, key)
}
