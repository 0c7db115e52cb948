package character

import (
	"context"
	"time"

	"github.com/KirkDiggler/dnd-mcp/internal/entities"
	"github.com/KirkDiggler/dnd-mcp/internal/errors"
	"github.com/KirkDiggler/dnd-mcp/internal/keyspace"
	"github.com/KirkDiggler/dnd-mcp/internal/repositories/record"
	"github.com/KirkDiggler/dnd-mcp/internal/storage"
)

// Config contains configuration for the store-backed character repository.
type Config struct {
	Store    storage.Store
	Resolver *keyspace.Resolver
	TTL      time.Duration
}

// Validate validates the Config.
func (cfg *Config) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	vb := errors.NewValidationBuilder()
	if cfg.Store == nil {
		vb.RequiredField("Store")
	}
	if cfg.Resolver == nil {
		vb.RequiredField("Resolver")
	}
	return vb.Build()
}

type storeRepository struct {
	records *record.Record[entities.Character]
}

// NewRepository creates a character repository over a storage backend
func NewRepository(cfg *Config) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	records, err := record.New[entities.Character](&record.Config{
		Store:    cfg.Store,
		Resolver: cfg.Resolver,
		Kind:     keyspace.KindCharacter,
		TTL:      cfg.TTL,
	})
	if err != nil {
		return nil, err
	}

	return &storeRepository{records: records}, nil
}

func (r *storeRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	v, err := r.records.Load(ctx, input.Ref)
	if err != nil {
		return nil, err
	}
	return &GetOutput{Character: v}, nil
}

func (r *storeRepository) Save(ctx context.Context, input SaveInput) (*SaveOutput, error) {
	if input.Character == nil {
		return nil, errors.InvalidArgument("character cannot be nil")
	}
	if err := r.records.Save(ctx, input.Ref, input.Character); err != nil {
		return nil, err
	}
	return &SaveOutput{Character: input.Character}, nil
}

func (r *storeRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if err := r.records.Delete(ctx, input.Ref); err != nil {
		return nil, err
	}
	return &DeleteOutput{}, nil
}
