// Package inventory persists the player character's inventory
package inventory

//go:generate mockgen -destination=mock/mock_repository.go -package=inventorymock github.com/KirkDiggler/dnd-mcp/internal/repositories/inventory Repository

import (
	"context"

	"github.com/KirkDiggler/dnd-mcp/internal/entities"
	"github.com/KirkDiggler/dnd-mcp/internal/keyspace"
)

// Repository defines the interface for inventory persistence
type Repository interface {
	// Get retrieves the inventory of a campaign
	// Returns errors.InvalidArgument for an invalid campaign ref
	// Returns errors.NotFound if the campaign has no inventory
	// Returns errors.Unavailable for storage failures
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Save replaces the inventory of a campaign
	// Returns errors.InvalidArgument for validation failures
	// Returns errors.Unavailable for storage failures
	Save(ctx context.Context, input SaveInput) (*SaveOutput, error)

	// Delete removes the inventory of a campaign; deleting nothing succeeds
	// Returns errors.Unavailable for storage failures
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)
}

// GetInput defines the input for getting an inventory
type GetInput struct {
	Ref keyspace.Ref
}

// GetOutput defines the output for getting an inventory
type GetOutput struct {
	Inventory *entities.Inventory
}

// SaveInput defines the input for saving an inventory
type SaveInput struct {
	Ref       keyspace.Ref
	Inventory *entities.Inventory
}

// SaveOutput defines the output for saving an inventory
type SaveOutput struct {
	Inventory *entities.Inventory
}

// DeleteInput defines the input for deleting an inventory
type DeleteInput struct {
	Ref keyspace.Ref
}

// DeleteOutput defines the output for deleting an inventory
type DeleteOutput struct{}
