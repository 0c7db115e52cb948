// Package record stores one JSON document per campaign record kind. The
// per-kind repositories are thin typed layers over it.
package record

import (
	"context"
	"encoding/json"
	"time"

	"github.com/KirkDiggler/dnd-mcp/internal/errors"
	"github.com/KirkDiggler/dnd-mcp/internal/keyspace"
	"github.com/KirkDiggler/dnd-mcp/internal/storage"
)

// Config holds the dependencies of a Record
type Config struct {
	Store    storage.Store
	Resolver *keyspace.Resolver
	Kind     keyspace.Kind
	// TTL applied on every save; 0 keeps records forever
	TTL time.Duration
}

// Validate validates the config
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Store == nil {
		vb.RequiredField("Store")
	}
	if c.Resolver == nil {
		vb.RequiredField("Resolver")
	}
	errors.ValidateRequired("Kind", string(c.Kind), vb)
	if c.TTL < 0 {
		vb.InvalidField("TTL", "must not be negative")
	}
	return vb.Build()
}

// Record loads and saves values of T under one key kind
type Record[T any] struct {
	store    storage.Store
	resolver *keyspace.Resolver
	kind     keyspace.Kind
	ttl      time.Duration
}

// New creates a Record
func New[T any](cfg *Config) (*Record[T], error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &Record[T]{
		store:    cfg.Store,
		resolver: cfg.Resolver,
		kind:     cfg.Kind,
		ttl:      cfg.TTL,
	}, nil
}

// Key resolves the storage key of ref
func (r *Record[T]) Key(ref keyspace.Ref) (string, error) {
	return r.resolver.Resolve(ref, r.kind)
}

// Load reads the record of ref. Absent records are errors.NotFound.
func (r *Record[T]) Load(ctx context.Context, ref keyspace.Ref) (*T, error) {
	key, err := r.Key(ref)
	if err != nil {
		return nil, err
	}

	data, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NotFoundf("%s not found for campaign %s", r.kind, ref.CampaignID).
				WithMeta("kind", string(r.kind)).
				WithMeta("campaign_id", ref.CampaignID)
		}
		return nil, errors.Wrapf(err, "failed to load %s", r.kind)
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, errors.WrapWithCodef(err, errors.CodeDataLoss, "failed to unmarshal %s", r.kind).
			WithMeta(errors.MetaKey, key)
	}
	return &v, nil
}

// Save writes v as the whole record of ref
func (r *Record[T]) Save(ctx context.Context, ref keyspace.Ref, v *T) error {
	if v == nil {
		return errors.InvalidArgumentf("%s cannot be nil", r.kind)
	}
	key, err := r.Key(ref)
	if err != nil {
		return err
	}

	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal %s", r.kind)
	}

	if err := r.store.Set(ctx, key, data, r.ttl); err != nil {
		return errors.Wrapf(err, "failed to save %s", r.kind)
	}
	return nil
}

// Delete removes the record of ref. Deleting an absent record succeeds.
func (r *Record[T]) Delete(ctx context.Context, ref keyspace.Ref) error {
	key, err := r.Key(ref)
	if err != nil {
		return err
	}
	if err := r.store.Delete(ctx, key); err != nil {
		return errors.Wrapf(err, "failed to delete %s", r.kind)
	}
	return nil
}

// Exists reports whether ref has a record
func (r *Record[T]) Exists(ctx context.Context, ref keyspace.Ref) (bool, error) {
	key, err := r.Key(ref)
	if err != nil {
		return false, err
	}
	ok, err := r.store.Exists(ctx, key)
	if err != nil {
		return false, errors.Wrapf(err, "failed to check %s", r.kind)
	}
	return ok, nil
}
