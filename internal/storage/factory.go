package storage

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/dnd-mcp/internal/config"
	"github.com/KirkDiggler/dnd-mcp/internal/errors"
	"github.com/KirkDiggler/dnd-mcp/internal/pkg/clock"
	"github.com/KirkDiggler/dnd-mcp/internal/redis"
	"github.com/KirkDiggler/dnd-mcp/internal/storage/disk"
	"github.com/KirkDiggler/dnd-mcp/internal/storage/memory"
	"github.com/KirkDiggler/dnd-mcp/internal/storage/redisstore"
	"github.com/KirkDiggler/dnd-mcp/internal/storage/sqlite"
)

// Deps are optional collaborators for New. Zero values are replaced with
// production defaults.
type Deps struct {
	Clock clock.Clock
	// RedisClient overrides the client built from config
	RedisClient redis.Client
}

// New builds the configured backend and wraps it with encryption when a key
// is configured.
func New(ctx context.Context, cfg config.Storage, deps Deps) (Store, error) {
	if deps.Clock == nil {
		deps.Clock = clock.New()
	}

	var (
		store Store
		err   error
	)
	switch cfg.Backend {
	case config.BackendMemory, "":
		store = memory.New(&memory.Config{Clock: deps.Clock})
	case config.BackendDisk:
		store, err = disk.Open(&disk.Config{Directory: cfg.DiskDirectory, Clock: deps.Clock})
	case config.BackendSQLite:
		store, err = sqlite.Open(ctx, &sqlite.Config{Directory: cfg.DiskDirectory, Clock: deps.Clock})
	case config.BackendRedis:
		store, err = newRedis(ctx, cfg.Redis, deps.RedisClient)
	default:
		return nil, errors.InvalidArgumentf("unknown storage backend %q", cfg.Backend).
			WithMeta("field", "STORAGE_BACKEND")
	}
	if err != nil {
		return nil, err
	}

	key, err := cfg.DecodedEncryptionKey()
	if err != nil {
		_ = store.Close()
		return nil, errors.InvalidArgument(err.Error()).WithMeta("field", "STORAGE_ENCRYPTION_KEY")
	}
	if key != nil {
		encrypted, err := NewEncrypted(store, key)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		store = encrypted
	}

	slog.InfoContext(ctx, "storage ready",
		"backend", cfg.Backend,
		"encrypted", key != nil,
		"namespace", cfg.NamespacePrefix)

	return store, nil
}

func newRedis(ctx context.Context, cfg config.Redis, client redis.Client) (Store, error) {
	if client == nil {
		var err error
		client, err = redis.NewFromConfig(cfg)
		if err != nil {
			return nil, errors.InvalidArgument(err.Error())
		}
	}

	store, err := redisstore.New(&redisstore.Config{Client: client})
	if err != nil {
		return nil, err
	}
	if err := store.Ping(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}
