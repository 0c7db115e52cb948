// Package storage defines the campaign key/value store and the decorators
// and factory around it. Backends live in subpackages and satisfy Store
// without importing this package.
package storage

import (
	"context"
	"time"
)

//go:generate mockgen -destination=mock/mock_store.go -package=storagemock github.com/KirkDiggler/dnd-mcp/internal/storage Store,Scanner

// Store is the uniform contract every backend satisfies.
//
// Get returns a NOT_FOUND error for keys that were never written or have
// expired. Backend failures, including context cancellation, are reported as
// UNAVAILABLE with backend, key and op metadata. A successful Set is visible
// to any Get issued after it returns.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	// Set writes value under key; ttl 0 means no expiry
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes key; deleting an absent key is not an error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Close() error
}

// Scanner lists live keys under a prefix. Every backend in this module
// implements it; maintenance commands use it.
type Scanner interface {
	Keys(ctx context.Context, prefix string) ([]string, error)
}
