// Package sessionlog persists the ordered session summaries of a campaign
package sessionlog

//go:generate mockgen -destination=mock/mock_repository.go -package=sessionlogmock github.com/KirkDiggler/dnd-mcp/internal/repositories/sessionlog Repository

import (
	"context"

	"github.com/KirkDiggler/dnd-mcp/internal/entities"
	"github.com/KirkDiggler/dnd-mcp/internal/keyspace"
)

// Repository defines the interface for session log persistence
type Repository interface {
	// Get retrieves the session log of a campaign, migrating history kept
	// under the legacy key on first read.
	// Returns errors.NotFound if the campaign has no history
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Save replaces the session log of a campaign
	Save(ctx context.Context, input SaveInput) (*SaveOutput, error)

	// Delete removes the session log and any legacy copy
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)
}

// GetInput defines the input for getting a session log
type GetInput struct {
	Ref keyspace.Ref
}

// GetOutput defines the output for getting a session log
type GetOutput struct {
	Log *entities.SessionLog
	// Migrated is set when the log was converted from the legacy key
	Migrated bool
}

// SaveInput defines the input for saving a session log
type SaveInput struct {
	Ref keyspace.Ref
	Log *entities.SessionLog
}

// SaveOutput defines the output for saving a session log
type SaveOutput struct {
	Log *entities.SessionLog
}

// DeleteInput defines the input for deleting a session log
type DeleteInput struct {
	Ref keyspace.Ref
}

// DeleteOutput defines the output for deleting a session log
type DeleteOutput struct{}
