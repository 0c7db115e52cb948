// Package redisstore is the distributed Store backend over go-redis.
package redisstore

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/KirkDiggler/dnd-mcp/internal/errors"
	"github.com/KirkDiggler/dnd-mcp/internal/redis"
)

const (
	backendName = "redis"
	scanCount   = 100
)

// Config holds the redis store dependencies
type Config struct {
	Client redis.Client
}

// Validate validates the config
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Client == nil {
		vb.RequiredField("Client")
	}
	return vb.Build()
}

// Store maps Store calls onto plain redis strings
type Store struct {
	client redis.Client
}

// New creates a redis-backed store
func New(cfg *Config) (*Store, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &Store{client: cfg.Client}, nil
}

// Ping checks connectivity
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return unavailable(err, "ping", "")
	}
	return nil
}

// Get reads key
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, key).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, errors.NotFoundf("key %s not found", key).WithMeta(errors.MetaKey, key)
	}
	if err != nil {
		return nil, unavailable(err, "get", key)
	}
	return value, nil
}

// Set writes key with SET ... EX when ttl is positive
func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return unavailable(err, "set", key)
	}
	return nil
}

// Delete removes key
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return unavailable(err, "delete", key)
	}
	return nil
}

// Exists reports whether key is present
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, unavailable(err, "exists", key)
	}
	return n > 0, nil
}

// Keys scans for keys under prefix. Order follows the server's scan order.
func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	keys := make([]string, 0)
	iter := s.client.Scan(ctx, 0, prefix+"*", scanCount).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, unavailable(err, "keys", prefix)
	}
	return keys, nil
}

// Close closes the client
func (s *Store) Close() error {
	return s.client.Close()
}

func unavailable(err error, op, key string) *errors.Error {
	return errors.StorageUnavailable(err, backendName, op).WithMeta(errors.MetaKey, key)
}
