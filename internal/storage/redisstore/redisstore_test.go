package redisstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/dnd-mcp/internal/errors"
	"github.com/KirkDiggler/dnd-mcp/internal/redis"
	"github.com/KirkDiggler/dnd-mcp/internal/storage/redisstore"
	"github.com/KirkDiggler/dnd-mcp/internal/storage/storagetest"
)

func TestConformance(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storagetest.Harness {
		mr := miniredis.RunT(t)
		client, err := redis.NewClient(mr.Addr(), nil)
		require.NoError(t, err)

		s, err := redisstore.New(&redisstore.Config{Client: client})
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })

		return storagetest.Harness{Store: s, Advance: mr.FastForward}
	})
}

func TestUsesRedisTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := redis.NewClient(mr.Addr(), nil)
	require.NoError(t, err)
	s, err := redisstore.New(&redisstore.Config{Client: client})
	require.NoError(t, err)

	require.NoError(t, s.Set(context.Background(), "k", []byte("v"), 90*time.Second))
	assert.Equal(t, "v", mustGet(t, mr, "k"))
	assert.Positive(t, mr.TTL("k"))
}

func TestUnreachableServerIsUnavailable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client, err := redis.NewClient(mr.Addr(), &redis.Options{MaxRetries: -1})
	require.NoError(t, err)
	s, err := redisstore.New(&redisstore.Config{Client: client})
	require.NoError(t, err)

	mr.Close()

	_, err = s.Get(context.Background(), "k")
	require.Error(t, err)
	assert.True(t, errors.IsStorageUnavailable(err))
	assert.False(t, errors.IsNotFound(err))
	assert.Equal(t, "redis", errors.GetMeta(err)[errors.MetaBackend])
	assert.True(t, errors.CodeUnavailable.Retryable())
}

func TestNewRequiresClient(t *testing.T) {
	_, err := redisstore.New(&redisstore.Config{})
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func mustGet(t *testing.T, mr *miniredis.Miniredis, key string) string {
	t.Helper()
	v, err := mr.Get(key)
	require.NoError(t, err)
	return v
}
