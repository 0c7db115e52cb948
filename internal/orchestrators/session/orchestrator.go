// Package session implements the session log orchestrator and campaign
// lifecycle operations
package session

//go:generate mockgen -destination=mock/mock_service.go -package=sessionmock github.com/KirkDiggler/dnd-mcp/internal/orchestrators/session Service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/KirkDiggler/dnd-mcp/internal/entities"
	"github.com/KirkDiggler/dnd-mcp/internal/errors"
	"github.com/KirkDiggler/dnd-mcp/internal/keyspace"
	"github.com/KirkDiggler/dnd-mcp/internal/pkg/clock"
	"github.com/KirkDiggler/dnd-mcp/internal/repositories/character"
	"github.com/KirkDiggler/dnd-mcp/internal/repositories/encounters"
	"github.com/KirkDiggler/dnd-mcp/internal/repositories/inventory"
	"github.com/KirkDiggler/dnd-mcp/internal/repositories/sessionlog"
)

const maxSummaryLength = 10000

// Service defines the interface for session operations
type Service interface {
	// Append records a summary and returns its entry
	Append(ctx context.Context, input *AppendInput) (*AppendOutput, error)

	// List returns the campaign history oldest first
	List(ctx context.Context, input *ListInput) (*ListOutput, error)

	// DeleteCampaign removes every record owned by a campaign
	DeleteCampaign(ctx context.Context, input *DeleteCampaignInput) (*DeleteCampaignOutput, error)
}

// Config holds the dependencies for the session orchestrator
type Config struct {
	SessionLogRepo sessionlog.Repository
	CharacterRepo  character.Repository
	EncounterRepo  encounters.Repository
	InventoryRepo  inventory.Repository
	Clock          clock.Clock
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config is required")
	}
	vb := errors.NewValidationBuilder()

	if c.SessionLogRepo == nil {
		vb.RequiredField("SessionLogRepo")
	}
	if c.CharacterRepo == nil {
		vb.RequiredField("CharacterRepo")
	}
	if c.EncounterRepo == nil {
		vb.RequiredField("EncounterRepo")
	}
	if c.InventoryRepo == nil {
		vb.RequiredField("InventoryRepo")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}

	return vb.Build()
}

type orchestrator struct {
	sessionLogRepo sessionlog.Repository
	characterRepo  character.Repository
	encounterRepo  encounters.Repository
	inventoryRepo  inventory.Repository
	clock          clock.Clock
}

// NewOrchestrator creates a new session orchestrator
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		sessionLogRepo: cfg.SessionLogRepo,
		characterRepo:  cfg.CharacterRepo,
		encounterRepo:  cfg.EncounterRepo,
		inventoryRepo:  cfg.InventoryRepo,
		clock:          cfg.Clock,
	}, nil
}

func (o *orchestrator) Append(ctx context.Context, input *AppendInput) (*AppendOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	summary := strings.TrimSpace(input.Summary)
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("summary", summary, vb)
	errors.ValidateMaxLength("summary", summary, maxSummaryLength, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	log, _, err := o.load(ctx, input.Ref)
	if err != nil {
		return nil, err
	}

	entry := log.Append(summary, o.clock.Now())
	if _, err := o.sessionLogRepo.Save(ctx, sessionlog.SaveInput{Ref: input.Ref, Log: log}); err != nil {
		return nil, errors.Wrap(err, "failed to save session log")
	}

	slog.InfoContext(ctx, "Session summary recorded",
		"campaign_id", input.Ref.CampaignID,
		"user_id", input.Ref.UserID,
		"entry_id", entry.ID,
	)

	return &AppendOutput{Entry: entry}, nil
}

func (o *orchestrator) List(ctx context.Context, input *ListInput) (*ListOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	log, migrated, err := o.load(ctx, input.Ref)
	if err != nil {
		return nil, err
	}

	return &ListOutput{Entries: log.Entries, Migrated: migrated}, nil
}

func (o *orchestrator) DeleteCampaign(ctx context.Context, input *DeleteCampaignInput) (*DeleteCampaignOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	ref := input.Ref

	if _, err := o.characterRepo.Delete(ctx, character.DeleteInput{Ref: ref}); err != nil {
		return nil, errors.Wrap(err, "failed to delete character")
	}
	if _, err := o.encounterRepo.Delete(ctx, encounters.DeleteInput{Ref: ref}); err != nil {
		return nil, errors.Wrap(err, "failed to delete encounter")
	}
	if _, err := o.sessionLogRepo.Delete(ctx, sessionlog.DeleteInput{Ref: ref}); err != nil {
		return nil, errors.Wrap(err, "failed to delete session log")
	}
	if _, err := o.inventoryRepo.Delete(ctx, inventory.DeleteInput{Ref: ref}); err != nil {
		return nil, errors.Wrap(err, "failed to delete inventory")
	}

	slog.InfoContext(ctx, "Campaign deleted",
		"campaign_id", ref.CampaignID,
		"user_id", ref.UserID,
	)

	return &DeleteCampaignOutput{
		CampaignID: ref.CampaignID,
		Deleted:    append([]keyspace.Kind(nil), keyspace.AllKinds...),
	}, nil
}

// load returns an empty log for a campaign without history
func (o *orchestrator) load(ctx context.Context, ref keyspace.Ref) (*entities.SessionLog, bool, error) {
	out, err := o.sessionLogRepo.Get(ctx, sessionlog.GetInput{Ref: ref})
	if err != nil {
		if errors.IsNotFound(err) {
			return &entities.SessionLog{NextID: 1, Entries: []entities.SessionEntry{}}, false, nil
		}
		return nil, false, errors.Wrap(err, "failed to load session log")
	}
	return out.Log, out.Migrated, nil
}
