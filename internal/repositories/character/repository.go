// Package character persists the campaign's player character
package character

//go:generate mockgen -destination=mock/mock_repository.go -package=charactermock github.com/KirkDiggler/dnd-mcp/internal/repositories/character Repository

import (
	"context"

	"github.com/KirkDiggler/dnd-mcp/internal/entities"
	"github.com/KirkDiggler/dnd-mcp/internal/keyspace"
)

// Repository defines the interface for character persistence
type Repository interface {
	// Get retrieves the character of a campaign
	// Returns errors.InvalidArgument for an invalid campaign ref
	// Returns errors.NotFound if the campaign has no character
	// Returns errors.Unavailable for storage failures
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Save replaces the character of a campaign
	// Returns errors.InvalidArgument for validation failures
	// Returns errors.Unavailable for storage failures
	Save(ctx context.Context, input SaveInput) (*SaveOutput, error)

	// Delete removes the character of a campaign; deleting nothing succeeds
	// Returns errors.Unavailable for storage failures
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)
}

// GetInput defines the input for getting a character
type GetInput struct {
	Ref keyspace.Ref
}

// GetOutput defines the output for getting a character
type GetOutput struct {
	Character *entities.Character
}

// SaveInput defines the input for saving a character
type SaveInput struct {
	Ref       keyspace.Ref
	Character *entities.Character
}

// SaveOutput defines the output for saving a character
type SaveOutput struct {
	Character *entities.Character
}

// DeleteInput defines the input for deleting a character
type DeleteInput struct {
	Ref keyspace.Ref
}

// DeleteOutput defines the output for deleting a character
type DeleteOutput struct{}
