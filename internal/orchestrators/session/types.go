package session

import (
	"github.com/KirkDiggler/dnd-mcp/internal/entities"
	"github.com/KirkDiggler/dnd-mcp/internal/keyspace"
)

// AppendInput defines the request for recording a session summary
type AppendInput struct {
	Ref     keyspace.Ref
	Summary string
}

// AppendOutput defines the response for recording a session summary
type AppendOutput struct {
	Entry entities.SessionEntry
}

// ListInput defines the request for reading session history
type ListInput struct {
	Ref keyspace.Ref
}

// ListOutput defines the response for reading session history
type ListOutput struct {
	// Entries are oldest first
	Entries []entities.SessionEntry
	// Migrated is set when the history was converted from the legacy key
	Migrated bool
}

// DeleteCampaignInput defines the request for deleting a campaign
type DeleteCampaignInput struct {
	Ref keyspace.Ref
}

// DeleteCampaignOutput defines the response for deleting a campaign
type DeleteCampaignOutput struct {
	CampaignID string
	// Deleted lists the record kinds removed
	Deleted []keyspace.Kind
}
