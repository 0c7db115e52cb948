package character_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/dnd-mcp/internal/engine"
	"github.com/KirkDiggler/dnd-mcp/internal/entities"
	"github.com/KirkDiggler/dnd-mcp/internal/errors"
	"github.com/KirkDiggler/dnd-mcp/internal/keyspace"
	"github.com/KirkDiggler/dnd-mcp/internal/repositories/character"
	"github.com/KirkDiggler/dnd-mcp/internal/storage"
	"github.com/KirkDiggler/dnd-mcp/internal/storage/memory"
	"github.com/KirkDiggler/dnd-mcp/internal/storage/redisstore"
	"github.com/KirkDiggler/dnd-mcp/internal/testutils"
)

type CharacterRepositoryTestSuite struct {
	suite.Suite
	ctx      context.Context
	newStore func() storage.Store
	repo     character.Repository
}

func TestCharacterRepositoryMemory(t *testing.T) {
	suite.Run(t, &CharacterRepositoryTestSuite{
		newStore: func() storage.Store { return memory.New(nil) },
	})
}

func TestCharacterRepositoryRedis(t *testing.T) {
	s := &CharacterRepositoryTestSuite{}
	s.newStore = func() storage.Store {
		client, _ := testutils.CreateTestRedisClient(s.T())
		store, err := redisstore.New(&redisstore.Config{Client: client})
		s.Require().NoError(err)
		return store
	}
	suite.Run(t, s)
}

func (s *CharacterRepositoryTestSuite) SetupTest() {
	s.ctx = context.Background()
	resolver, err := keyspace.NewResolver(&keyspace.Config{Prefix: "5e_mcp"})
	s.Require().NoError(err)

	repo, err := character.NewRepository(&character.Config{
		Store:    s.newStore(),
		Resolver: resolver,
	})
	s.Require().NoError(err)
	s.repo = repo
}

func (s *CharacterRepositoryTestSuite) TestNewRepositoryValidation() {
	_, err := character.NewRepository(nil)
	s.True(errors.IsInvalidArgument(err))

	_, err = character.NewRepository(&character.Config{})
	s.True(errors.IsValidation(err))
}

func (s *CharacterRepositoryTestSuite) TestSaveAndGet() {
	ref := keyspace.Ref{UserID: "alice", CampaignID: "tomb"}
	c := testutils.CreateTestWizard()

	_, err := s.repo.Save(s.ctx, character.SaveInput{Ref: ref, Character: c})
	s.Require().NoError(err)

	out, err := s.repo.Get(s.ctx, character.GetInput{Ref: ref})
	s.Require().NoError(err)
	s.Equal(c, out.Character)
}

func (s *CharacterRepositoryTestSuite) TestEmptyListsSurviveRoundTrip() {
	ref := keyspace.Ref{CampaignID: "tomb"}
	c := testutils.CreateTestWizard()
	_, err := engine.PrepareSpells(c, nil)
	s.Require().NoError(err)
	c.Conditions = []entities.Condition{}
	c.Features = []entities.Feature{}

	_, err = s.repo.Save(s.ctx, character.SaveInput{Ref: ref, Character: c})
	s.Require().NoError(err)

	out, err := s.repo.Get(s.ctx, character.GetInput{Ref: ref})
	s.Require().NoError(err)
	s.Equal(c, out.Character)
	s.NotNil(out.Character.Spellcasting.Prepared)
}

func (s *CharacterRepositoryTestSuite) TestCampaignsAreIsolated() {
	a := keyspace.Ref{UserID: "alice", CampaignID: "tomb"}
	b := keyspace.Ref{UserID: "bob", CampaignID: "tomb"}

	_, err := s.repo.Save(s.ctx, character.SaveInput{Ref: a, Character: testutils.CreateTestFighter()})
	s.Require().NoError(err)

	_, err = s.repo.Get(s.ctx, character.GetInput{Ref: b})
	s.True(errors.IsNotFound(err))
}

func (s *CharacterRepositoryTestSuite) TestDelete() {
	ref := keyspace.Ref{CampaignID: "tomb"}
	_, err := s.repo.Save(s.ctx, character.SaveInput{Ref: ref, Character: testutils.CreateTestFighter()})
	s.Require().NoError(err)

	_, err = s.repo.Delete(s.ctx, character.DeleteInput{Ref: ref})
	s.Require().NoError(err)

	_, err = s.repo.Get(s.ctx, character.GetInput{Ref: ref})
	s.True(errors.IsNotFound(err))

	_, err = s.repo.Delete(s.ctx, character.DeleteInput{Ref: ref})
	s.NoError(err)
}

func (s *CharacterRepositoryTestSuite) TestSaveNil() {
	_, err := s.repo.Save(s.ctx, character.SaveInput{Ref: keyspace.Ref{CampaignID: "tomb"}})
	s.True(errors.IsInvalidArgument(err))
}
