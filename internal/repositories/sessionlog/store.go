package sessionlog

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/KirkDiggler/dnd-mcp/internal/entities"
	"github.com/KirkDiggler/dnd-mcp/internal/errors"
	"github.com/KirkDiggler/dnd-mcp/internal/keyspace"
	"github.com/KirkDiggler/dnd-mcp/internal/repositories/record"
	"github.com/KirkDiggler/dnd-mcp/internal/storage"
)

const legacyDateLayout = "2006-01-02"

// Config contains configuration for the store-backed session log repository.
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
	store    storage.Store
	resolver *keyspace.Resolver
	records  *record.Record[entities.SessionLog]
}

// NewRepository creates a session log repository over a storage backend
func NewRepository(cfg *Config) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	records, err := record.New[entities.SessionLog](&record.Config{
		Store:    cfg.Store,
		Resolver: cfg.Resolver,
		Kind:     keyspace.KindSessionLog,
		TTL:      cfg.TTL,
	})
	if err != nil {
		return nil, err
	}

	return &storeRepository{
		store:    cfg.Store,
		resolver: cfg.Resolver,
		records:  records,
	}, nil
}

func (r *storeRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	log, err := r.records.Load(ctx, input.Ref)
	if err == nil {
		return &GetOutput{Log: log}, nil
	}
	if !errors.IsNotFound(err) {
		return nil, err
	}

	legacy, lerr := r.migrateLegacy(ctx, input.Ref)
	if lerr != nil {
		return nil, lerr
	}
	if legacy == nil {
		return nil, err
	}
	return &GetOutput{Log: legacy, Migrated: true}, nil
}

func (r *storeRepository) Save(ctx context.Context, input SaveInput) (*SaveOutput, error) {
	if input.Log == nil {
		return nil, errors.InvalidArgument("session log cannot be nil")
	}
	if err := r.records.Save(ctx, input.Ref, input.Log); err != nil {
		return nil, err
	}
	return &SaveOutput{Log: input.Log}, nil
}

func (r *storeRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if err := r.records.Delete(ctx, input.Ref); err != nil {
		return nil, err
	}
	if err := r.store.Delete(ctx, r.resolver.LegacySessionKey(input.Ref.CampaignID)); err != nil {
		return nil, errors.Wrap(err, "failed to delete legacy session history")
	}
	return &DeleteOutput{}, nil
}

type legacyEntry struct {
	Date    string `json:"date"`
	Summary string `json:"summary"`
}

// migrateLegacy converts history kept as {"session_N": {date, summary}}
// under the unnamespaced key. It returns nil when there is nothing to migrate.
func (r *storeRepository) migrateLegacy(ctx context.Context, ref keyspace.Ref) (*entities.SessionLog, error) {
	legacyKey := r.resolver.LegacySessionKey(ref.CampaignID)
	data, err := r.store.Get(ctx, legacyKey)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to read legacy session history")
	}

	var raw map[string]legacyEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		slog.WarnContext(ctx, "Ignoring unreadable legacy session history",
			"campaign_id", ref.CampaignID,
			"key", legacyKey,
			"error", err)
		return nil, nil
	}

	log := convertLegacy(raw)
	if err := r.records.Save(ctx, ref, log); err != nil {
		return nil, err
	}
	if err := r.store.Delete(ctx, legacyKey); err != nil {
		return nil, errors.Wrap(err, "failed to delete legacy session history")
	}

	slog.InfoContext(ctx, "Migrated legacy session history",
		"campaign_id", ref.CampaignID,
		"user_id", ref.UserID,
		"entries", len(log.Entries))

	return log, nil
}

func convertLegacy(raw map[string]legacyEntry) *entities.SessionLog {
	type numbered struct {
		n     int
		id    string
		entry legacyEntry
	}
	items := make([]numbered, 0, len(raw))
	for id, entry := range raw {
		n, err := strconv.Atoi(strings.TrimPrefix(id, "session_"))
		if err != nil {
			n = len(raw) + 1
		}
		items = append(items, numbered{n: n, id: id, entry: entry})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].n != items[j].n {
			return items[i].n < items[j].n
		}
		return items[i].id < items[j].id
	})

	log := &entities.SessionLog{NextID: 1}
	for _, it := range items {
		at, _ := time.Parse(legacyDateLayout, it.entry.Date)
		log.Append(it.entry.Summary, at)
	}
	return log
}
