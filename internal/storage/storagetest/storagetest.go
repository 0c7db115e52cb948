// Package storagetest holds the behavior suite every Store backend must pass.
package storagetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/dnd-mcp/internal/errors"
	"github.com/KirkDiggler/dnd-mcp/internal/storage"
)

// Harness is one freshly built backend under test.
type Harness struct {
	Store storage.Store
	// Advance moves the backend's notion of time forward
	Advance func(d time.Duration)
}

// Factory builds a new, empty backend for each subtest.
type Factory func(t *testing.T) Harness

// Run executes the conformance suite against the backend built by factory.
func Run(t *testing.T, factory Factory) {
	t.Helper()

	t.Run("round trip", func(t *testing.T) {
		h := factory(t)
		ctx := context.Background()
		value := []byte(`{"name":"Thorin","hp":11}`)

		require.NoError(t, h.Store.Set(ctx, "5e_mcp:user:default:campaign:c1:character", value, 0))
		got, err := h.Store.Get(ctx, "5e_mcp:user:default:campaign:c1:character")
		require.NoError(t, err)
		assert.Equal(t, value, got)
	})

	t.Run("never written key is not found", func(t *testing.T) {
		h := factory(t)
		_, err := h.Store.Get(context.Background(), "missing")
		require.Error(t, err)
		assert.True(t, errors.IsNotFound(err))
		assert.False(t, errors.IsStorageUnavailable(err))
	})

	t.Run("overwrite is last writer wins", func(t *testing.T) {
		h := factory(t)
		ctx := context.Background()
		require.NoError(t, h.Store.Set(ctx, "k", []byte("one"), 0))
		require.NoError(t, h.Store.Set(ctx, "k", []byte("two"), 0))

		got, err := h.Store.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("two"), got)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		h := factory(t)
		ctx := context.Background()
		require.NoError(t, h.Store.Set(ctx, "k", []byte("v"), 0))
		require.NoError(t, h.Store.Delete(ctx, "k"))
		require.NoError(t, h.Store.Delete(ctx, "k"))
		require.NoError(t, h.Store.Delete(ctx, "never-there"))

		_, err := h.Store.Get(ctx, "k")
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("exists", func(t *testing.T) {
		h := factory(t)
		ctx := context.Background()

		ok, err := h.Store.Exists(ctx, "k")
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, h.Store.Set(ctx, "k", []byte("v"), 0))
		ok, err = h.Store.Exists(ctx, "k")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("ttl expiry", func(t *testing.T) {
		h := factory(t)
		ctx := context.Background()
		require.NoError(t, h.Store.Set(ctx, "short", []byte("v"), 2*time.Second))
		require.NoError(t, h.Store.Set(ctx, "forever", []byte("v"), 0))

		_, err := h.Store.Get(ctx, "short")
		require.NoError(t, err)

		h.Advance(3 * time.Second)

		_, err = h.Store.Get(ctx, "short")
		assert.True(t, errors.IsNotFound(err))
		ok, err := h.Store.Exists(ctx, "short")
		require.NoError(t, err)
		assert.False(t, ok)

		_, err = h.Store.Get(ctx, "forever")
		assert.NoError(t, err)
	})

	t.Run("keys by prefix", func(t *testing.T) {
		h := factory(t)
		scanner, ok := h.Store.(storage.Scanner)
		require.True(t, ok, "backend must implement storage.Scanner")

		ctx := context.Background()
		for _, k := range []string{"p:user:a:campaign:x:character", "p:user:a:campaign:x:inventory", "p:user:b:campaign:y:character", "other"} {
			require.NoError(t, h.Store.Set(ctx, k, []byte("v"), 0))
		}

		keys, err := scanner.Keys(ctx, "p:user:a:")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"p:user:a:campaign:x:character", "p:user:a:campaign:x:inventory"}, keys)
	})

	t.Run("empty value", func(t *testing.T) {
		h := factory(t)
		ctx := context.Background()
		require.NoError(t, h.Store.Set(ctx, "empty", []byte{}, 0))

		got, err := h.Store.Get(ctx, "empty")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("canceled context is unavailable", func(t *testing.T) {
		h := factory(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := h.Store.Get(ctx, "k")
		require.Error(t, err)
		assert.True(t, errors.IsStorageUnavailable(err), "got %v", err)
		assert.NotEmpty(t, errors.GetMeta(err)[errors.MetaBackend])
	})

	t.Run("concurrent campaigns", func(t *testing.T) {
		h := factory(t)
		ctx := context.Background()

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				key := fmt.Sprintf("p:user:default:campaign:c%d:character", i)
				assert.NoError(t, h.Store.Set(ctx, key, []byte(fmt.Sprintf("v%d", i)), 0))
			}(i)
		}
		wg.Wait()

		for i := 0; i < 8; i++ {
			got, err := h.Store.Get(ctx, fmt.Sprintf("p:user:default:campaign:c%d:character", i))
			require.NoError(t, err)
			assert.Equal(t, fmt.Sprintf("v%d", i), string(got))
		}
	})
}
