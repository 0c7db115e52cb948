package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/dnd-mcp/internal/entities"
	"github.com/KirkDiggler/dnd-mcp/internal/errors"
	"github.com/KirkDiggler/dnd-mcp/internal/keyspace"
	"github.com/KirkDiggler/dnd-mcp/internal/orchestrators/session"
	"github.com/KirkDiggler/dnd-mcp/internal/repositories/character"
	"github.com/KirkDiggler/dnd-mcp/internal/repositories/encounters"
	"github.com/KirkDiggler/dnd-mcp/internal/repositories/inventory"
	"github.com/KirkDiggler/dnd-mcp/internal/testutils"
)

type OrchestratorTestSuite struct {
	suite.Suite
	ctx          context.Context
	ref          keyspace.Ref
	repos        *testutils.TestRepositories
	orchestrator session.Service
}

func (s *OrchestratorTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.ref = testutils.TestRef()
	s.repos = testutils.CreateTestRepositories(s.T())

	o, err := session.NewOrchestrator(&session.Config{
		SessionLogRepo: s.repos.SessionLog,
		CharacterRepo:  s.repos.Characters,
		EncounterRepo:  s.repos.Encounters,
		InventoryRepo:  s.repos.Inventory,
		Clock:          s.repos.Clock,
	})
	s.Require().NoError(err)
	s.orchestrator = o
}

func (s *OrchestratorTestSuite) TestNewOrchestratorValidatesConfig() {
	_, err := session.NewOrchestrator(&session.Config{})
	s.Require().Error(err)
	s.True(errors.IsValidation(err))
}

func (s *OrchestratorTestSuite) TestAppendAssignsIncreasingIDs() {
	first, err := s.orchestrator.Append(s.ctx, &session.AppendInput{Ref: s.ref, Summary: "Met the innkeeper."})
	s.Require().NoError(err)
	s.Equal(1, first.Entry.ID)
	s.Equal(testutils.TestTime, first.Entry.RecordedAt)

	s.repos.Clock.Advance(time.Hour)
	second, err := s.orchestrator.Append(s.ctx, &session.AppendInput{Ref: s.ref, Summary: "  Cleared the cellar.  "})
	s.Require().NoError(err)
	s.Equal(2, second.Entry.ID)
	s.Equal("Cleared the cellar.", second.Entry.Summary)

	out, err := s.orchestrator.List(s.ctx, &session.ListInput{Ref: s.ref})
	s.Require().NoError(err)
	s.Require().Len(out.Entries, 2)
	s.Equal("Met the innkeeper.", out.Entries[0].Summary)
	s.Equal("Cleared the cellar.", out.Entries[1].Summary)
	s.False(out.Migrated)
}

func (s *OrchestratorTestSuite) TestAppendValidation() {
	_, err := s.orchestrator.Append(s.ctx, &session.AppendInput{Ref: s.ref, Summary: "   "})
	s.Require().Error(err)
	s.True(errors.IsValidation(err))

	_, err = s.orchestrator.Append(s.ctx, &session.AppendInput{
		Ref:     keyspace.Ref{CampaignID: "bad campaign!"},
		Summary: "Hello",
	})
	s.Require().Error(err)
	s.True(errors.IsValidation(err))
}

func (s *OrchestratorTestSuite) TestListEmpty() {
	out, err := s.orchestrator.List(s.ctx, &session.ListInput{Ref: s.ref})
	s.Require().NoError(err)
	s.Empty(out.Entries)
}

func (s *OrchestratorTestSuite) TestListMigratesLegacyHistory() {
	legacy := `{"session_2":{"date":"2024-03-02","summary":"Second"},"session_1":{"date":"2024-03-01","summary":"First"}}`
	key := s.repos.Resolver.LegacySessionKey(s.ref.CampaignID)
	s.Require().NoError(s.repos.Store.Set(s.ctx, key, []byte(legacy), 0))

	out, err := s.orchestrator.List(s.ctx, &session.ListInput{Ref: s.ref})
	s.Require().NoError(err)
	s.True(out.Migrated)
	s.Require().Len(out.Entries, 2)
	s.Equal("First", out.Entries[0].Summary)
	s.Equal(1, out.Entries[0].ID)

	exists, err := s.repos.Store.Exists(s.ctx, key)
	s.Require().NoError(err)
	s.False(exists)

	appended, err := s.orchestrator.Append(s.ctx, &session.AppendInput{Ref: s.ref, Summary: "Third"})
	s.Require().NoError(err)
	s.Equal(3, appended.Entry.ID)
}

func (s *OrchestratorTestSuite) TestDeleteCampaign() {
	other := keyspace.Ref{CampaignID: "other_campaign"}
	for _, ref := range []keyspace.Ref{s.ref, other} {
		_, err := s.repos.Characters.Save(s.ctx, character.SaveInput{Ref: ref, Character: testutils.CreateTestFighter()})
		s.Require().NoError(err)
		_, err = s.repos.Inventory.Save(s.ctx, inventory.SaveInput{Ref: ref, Inventory: testutils.CreateTestInventory()})
		s.Require().NoError(err)
		_, err = s.repos.Encounters.Save(s.ctx, encounters.SaveInput{Ref: ref, Encounter: &entities.Encounter{
			ID: "enc_1", Status: entities.EncounterActive, Round: 1,
		}})
		s.Require().NoError(err)
		_, err = s.orchestrator.Append(s.ctx, &session.AppendInput{Ref: ref, Summary: "Began."})
		s.Require().NoError(err)
	}
	legacyKey := s.repos.Resolver.LegacySessionKey(s.ref.CampaignID)
	s.Require().NoError(s.repos.Store.Set(s.ctx, legacyKey, []byte(`{}`), 0))

	out, err := s.orchestrator.DeleteCampaign(s.ctx, &session.DeleteCampaignInput{Ref: s.ref})
	s.Require().NoError(err)
	s.Equal(testutils.TestCampaignID, out.CampaignID)
	s.ElementsMatch(keyspace.AllKinds, out.Deleted)

	_, err = s.repos.Characters.Get(s.ctx, character.GetInput{Ref: s.ref})
	s.True(errors.IsNotFound(err))
	_, err = s.repos.Inventory.Get(s.ctx, inventory.GetInput{Ref: s.ref})
	s.True(errors.IsNotFound(err))
	_, err = s.repos.Encounters.Get(s.ctx, encounters.GetInput{Ref: s.ref})
	s.True(errors.IsNotFound(err))
	exists, err := s.repos.Store.Exists(s.ctx, legacyKey)
	s.Require().NoError(err)
	s.False(exists)

	history, err := s.orchestrator.List(s.ctx, &session.ListInput{Ref: s.ref})
	s.Require().NoError(err)
	s.Empty(history.Entries)

	_, err = s.repos.Characters.Get(s.ctx, character.GetInput{Ref: other})
	s.Require().NoError(err)
	otherHistory, err := s.orchestrator.List(s.ctx, &session.ListInput{Ref: other})
	s.Require().NoError(err)
	s.Len(otherHistory.Entries, 1)

	_, err = s.orchestrator.DeleteCampaign(s.ctx, &session.DeleteCampaignInput{Ref: s.ref})
	s.Require().NoError(err)
}

func TestOrchestratorSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}
