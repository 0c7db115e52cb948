// Package encounters persists the campaign's current encounter
package encounters

//go:generate mockgen -destination=mock/mock_repository.go -package=encountermock github.com/KirkDiggler/dnd-mcp/internal/repositories/encounters Repository

import (
	"context"

	"github.com/KirkDiggler/dnd-mcp/internal/entities"
	"github.com/KirkDiggler/dnd-mcp/internal/keyspace"
)

// Repository defines the interface for encounter persistence
type Repository interface {
	// Get retrieves the encounter of a campaign
	// Returns errors.InvalidArgument for an invalid campaign ref
	// Returns errors.NotFound if the campaign has no encounter
	// Returns errors.Unavailable for storage failures
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Save replaces the encounter of a campaign
	// Returns errors.InvalidArgument for validation failures
	// Returns errors.Unavailable for storage failures
	Save(ctx context.Context, input SaveInput) (*SaveOutput, error)

	// Delete removes the encounter of a campaign; deleting nothing succeeds
	// Returns errors.Unavailable for storage failures
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)
}

// GetInput defines the input for getting an encounter
type GetInput struct {
	Ref keyspace.Ref
}

// GetOutput defines the output for getting an encounter
type GetOutput struct {
	Encounter *entities.Encounter
}

// SaveInput defines the input for saving an encounter
type SaveInput struct {
	Ref       keyspace.Ref
	Encounter *entities.Encounter
}

// SaveOutput defines the output for saving an encounter
type SaveOutput struct {
	Encounter *entities.Encounter
}

// DeleteInput defines the input for deleting an encounter
type DeleteInput struct {
	Ref keyspace.Ref
}

// DeleteOutput defines the output for deleting an encounter
type DeleteOutput struct{}
