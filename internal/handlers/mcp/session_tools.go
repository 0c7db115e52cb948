package mcp

import (
	"context"

	"github.com/KirkDiggler/dnd-mcp/internal/orchestrators/session"
)

// SaveSessionInput is the input of save_session_summary
type SaveSessionInput struct {
	UserID     string `json:"user_id,omitempty" jsonschema:"owner of the campaign; defaults to default"`
	CampaignID string `json:"campaign_id" jsonschema:"campaign identifier (letters, digits, underscore)"`
	Summary    string `json:"summary" jsonschema:"what happened this session"`
}

// SaveSessionResult is the output of save_session_summary
type SaveSessionResult struct {
	Entry SessionEntryView `json:"entry"`
}

// SessionHistoryResult is the output of load_session_history
type SessionHistoryResult struct {
	Entries []SessionEntryView `json:"entries"`
	// Migrated is set when a legacy history record was converted
	Migrated bool `json:"migrated,omitempty"`
}

// DeleteCampaignResult is the output of delete_campaign_data
type DeleteCampaignResult struct {
	CampaignID string   `json:"campaign_id"`
	Deleted    []string `json:"deleted"`
}

func (s *Server) registerSessionTools() {
	addTool(s.server, "save_session_summary",
		"Appends a session summary to the campaign history",
		s.saveSessionSummary)
	addTool(s.server, "load_session_history",
		"Returns the campaign history oldest first",
		s.loadSessionHistory)
	addTool(s.server, "delete_campaign_data",
		"Deletes the character, encounter, inventory and history of a campaign",
		s.deleteCampaignData)
}

func (s *Server) saveSessionSummary(ctx context.Context, in SaveSessionInput) (SaveSessionResult, error) {
	out, err := s.sessions.Append(ctx, &session.AppendInput{
		Ref:     campaignRef(in.UserID, in.CampaignID),
		Summary: in.Summary,
	})
	if err != nil {
		return SaveSessionResult{}, err
	}
	return SaveSessionResult{
		Entry: SessionEntryView{ID: out.Entry.ID, RecordedAt: formatTime(out.Entry.RecordedAt), Summary: out.Entry.Summary},
	}, nil
}

func (s *Server) loadSessionHistory(ctx context.Context, in CampaignInput) (SessionHistoryResult, error) {
	out, err := s.sessions.List(ctx, &session.ListInput{Ref: campaignRef(in.UserID, in.CampaignID)})
	if err != nil {
		return SessionHistoryResult{}, err
	}
	return SessionHistoryResult{Entries: sessionEntryViews(out.Entries), Migrated: out.Migrated}, nil
}

func (s *Server) deleteCampaignData(ctx context.Context, in CampaignInput) (DeleteCampaignResult, error) {
	out, err := s.sessions.DeleteCampaign(ctx, &session.DeleteCampaignInput{Ref: campaignRef(in.UserID, in.CampaignID)})
	if err != nil {
		return DeleteCampaignResult{}, err
	}

	deleted := make([]string, 0, len(out.Deleted))
	for _, k := range out.Deleted {
		deleted = append(deleted, string(k))
	}
	return DeleteCampaignResult{CampaignID: out.CampaignID, Deleted: deleted}, nil
}
