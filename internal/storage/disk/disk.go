// Package disk is the file-backed Store, a single bbolt database under the
// configured directory.
package disk

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/KirkDiggler/dnd-mcp/internal/errors"
	"github.com/KirkDiggler/dnd-mcp/internal/pkg/clock"
)

const (
	backendName = "disk"
	// FileName is the database file created inside the directory
	FileName  = "campaigns.db"
	keyBucket = "kv"
)

// envelope is the on-disk record. ExpiresAt is unix milliseconds, 0 for none.
type envelope struct {
	Value     []byte `json:"value"`
	ExpiresAt int64  `json:"expires_at,omitempty"`
}

func (e envelope) expired(now time.Time) bool {
	return e.ExpiresAt != 0 && now.UnixMilli() >= e.ExpiresAt
}

// Config configures the disk store
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

// Store persists values in bbolt
type Store struct {
	db    *bbolt.DB
	clock clock.Clock
}

// Open creates the directory if needed and opens the database file.
func Open(cfg *Config) (*Store, error) {
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

	db, err := bbolt.Open(filepath.Join(dir, FileName), 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.StorageUnavailable(err, backendName, "open").WithMeta("directory", dir)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(keyBucket))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.StorageUnavailable(err, backendName, "open").WithMeta("directory", dir)
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}

	return &Store{db: db, clock: c}, nil
}

// Get reads key. Expired records are removed on the way out.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable(err, "get", key)
	}

	var raw []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		// bbolt values are only valid inside the transaction
		if v := tx.Bucket([]byte(keyBucket)).Get([]byte(key)); v != nil {
			raw = bytes.Clone(v)
		}
		return nil
	})
	if err != nil {
		return nil, unavailable(err, "get", key)
	}

	var env envelope
	found := raw != nil
	if found {
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, errors.WrapWithCodef(err, errors.CodeDataLoss, "corrupt envelope at %s", key).
				WithMeta(errors.MetaBackend, backendName).
				WithMeta(errors.MetaKey, key)
		}
	}

	if found && env.expired(s.clock.Now()) {
		if err := s.Delete(ctx, key); err != nil {
			return nil, err
		}
		found = false
	}
	if !found {
		return nil, errors.NotFoundf("key %s not found", key).WithMeta(errors.MetaKey, key)
	}
	return env.Value, nil
}

// Set writes key inside a single transaction
func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return unavailable(err, "set", key)
	}

	env := envelope{Value: value}
	if ttl > 0 {
		env.ExpiresAt = s.clock.Now().Add(ttl).UnixMilli()
	}
	payload, err := json.Marshal(env)
	if err != nil {
		return errors.Wrap(err, "marshal envelope")
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(keyBucket)).Put([]byte(key), payload)
	})
	if err != nil {
		return unavailable(err, "set", key)
	}
	return nil
}

// Delete removes key
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return unavailable(err, "delete", key)
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(keyBucket)).Delete([]byte(key))
	})
	if err != nil {
		return unavailable(err, "delete", key)
	}
	return nil
}

// Exists reports whether key holds a live value
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.Get(ctx, key)
	if errors.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Keys lists live keys under prefix in byte order
func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable(err, "keys", prefix)
	}

	now := s.clock.Now()
	keys := make([]string, 0)
	err := s.db.View(func(tx *bbolt.Tx) error {
		cursor := tx.Bucket([]byte(keyBucket)).Cursor()
		p := []byte(prefix)
		for k, v := cursor.Seek(p); k != nil && bytes.HasPrefix(k, p); k, v = cursor.Next() {
			// an undecodable envelope is still listed so it can be found and repaired
			var env envelope
			if err := json.Unmarshal(v, &env); err != nil || !env.expired(now) {
				keys = append(keys, string(k))
			}
		}
		return nil
	})
	if err != nil {
		return nil, unavailable(err, "keys", prefix)
	}
	return keys, nil
}

// Close closes the database file
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location
func (s *Store) Path() string {
	return s.db.Path()
}

func unavailable(err error, op, key string) *errors.Error {
	return errors.StorageUnavailable(err, backendName, op).WithMeta(errors.MetaKey, key)
}
