// Package memory is the in-process Store backend. Values do not survive a
// restart.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/KirkDiggler/dnd-mcp/internal/errors"
	"github.com/KirkDiggler/dnd-mcp/internal/pkg/clock"
)

const backendName = "memory"

type entry struct {
	value     []byte
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// Config holds dependencies for the memory store
type Config struct {
	Clock clock.Clock
}

// Store is a map guarded by a RWMutex
type Store struct {
	mu     sync.RWMutex
	data   map[string]entry
	clock  clock.Clock
	closed bool
}

// New creates an empty store. A nil config uses the real clock.
func New(cfg *Config) *Store {
	c := clock.New()
	if cfg != nil && cfg.Clock != nil {
		c = cfg.Clock
	}
	return &Store{
		data:  make(map[string]entry),
		clock: c,
	}
}

// Get returns a copy of the stored value
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := s.check(ctx, key, "get"); err != nil {
		return nil, err
	}

	s.mu.RLock()
	e, ok := s.data[key]
	s.mu.RUnlock()

	if !ok || e.expired(s.clock.Now()) {
		return nil, errors.NotFoundf("key %s not found", key).WithMeta(errors.MetaKey, key)
	}
	return append([]byte(nil), e.value...), nil
}

// Set stores a copy of value
func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.check(ctx, key, "set"); err != nil {
		return err
	}

	e := entry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiresAt = s.clock.Now().Add(ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = e
	return nil
}

// Delete removes key
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.check(ctx, key, "delete"); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// Exists reports whether key holds a live value
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	if err := s.check(ctx, key, "exists"); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.data[key]
	return ok && !e.expired(s.clock.Now()), nil
}

// Keys lists live keys with the given prefix in lexical order
func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	if err := s.check(ctx, prefix, "keys"); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0)
	for k, e := range s.data {
		if strings.HasPrefix(k, prefix) && !e.expired(now) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Close drops all data; later calls fail as unavailable
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.data = make(map[string]entry)
	return nil
}

func (s *Store) check(ctx context.Context, key, op string) error {
	if err := ctx.Err(); err != nil {
		return errors.StorageUnavailable(err, backendName, op).WithMeta(errors.MetaKey, key)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return errors.Unavailable("store is closed").
			WithMeta(errors.MetaBackend, backendName).
			WithMeta(errors.MetaOp, op).
			WithMeta(errors.MetaKey, key)
	}
	return nil
}
