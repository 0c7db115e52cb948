package record_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/dnd-mcp/internal/errors"
	"github.com/KirkDiggler/dnd-mcp/internal/keyspace"
	"github.com/KirkDiggler/dnd-mcp/internal/repositories/record"
	"github.com/KirkDiggler/dnd-mcp/internal/storage/memory"
	storagemock "github.com/KirkDiggler/dnd-mcp/internal/storage/mock"
)

type doc struct {
	Name string `json:"name"`
	HP   int    `json:"hp"`
}

type RecordTestSuite struct {
	suite.Suite
	ctx      context.Context
	resolver *keyspace.Resolver
	ref      keyspace.Ref
}

func TestRecordSuite(t *testing.T) {
	suite.Run(t, new(RecordTestSuite))
}

func (s *RecordTestSuite) SetupTest() {
	s.ctx = context.Background()
	resolver, err := keyspace.NewResolver(&keyspace.Config{Prefix: "5e_mcp"})
	s.Require().NoError(err)
	s.resolver = resolver
	s.ref = keyspace.Ref{CampaignID: "crypt"}
}

func (s *RecordTestSuite) newRecord(cfg record.Config) *record.Record[doc] {
	r, err := record.New[doc](&cfg)
	s.Require().NoError(err)
	return r
}

func (s *RecordTestSuite) TestConfigValidation() {
	_, err := record.New[doc](nil)
	s.True(errors.IsInvalidArgument(err))

	_, err = record.New[doc](&record.Config{Kind: keyspace.KindCharacter})
	s.Require().Error(err)
	s.Contains(err.Error(), "Store")
	s.Contains(err.Error(), "Resolver")
}

func (s *RecordTestSuite) TestRoundTrip() {
	store := memory.New(nil)
	r := s.newRecord(record.Config{Store: store, Resolver: s.resolver, Kind: keyspace.KindCharacter})

	s.Require().NoError(r.Save(s.ctx, s.ref, &doc{Name: "Thorin", HP: 11}))

	got, err := r.Load(s.ctx, s.ref)
	s.Require().NoError(err)
	s.Equal(&doc{Name: "Thorin", HP: 11}, got)

	raw, err := store.Get(s.ctx, "5e_mcp:user:default:campaign:crypt:character")
	s.Require().NoError(err)
	s.JSONEq(`{"name":"Thorin","hp":11}`, string(raw))

	exists, err := r.Exists(s.ctx, s.ref)
	s.Require().NoError(err)
	s.True(exists)
}

func (s *RecordTestSuite) TestLoadMissing() {
	r := s.newRecord(record.Config{Store: memory.New(nil), Resolver: s.resolver, Kind: keyspace.KindEncounter})

	_, err := r.Load(s.ctx, s.ref)
	s.True(errors.IsNotFound(err))
	s.Equal("encounter", errors.GetMeta(err)["kind"])
}

func (s *RecordTestSuite) TestCorruptValueIsDataLoss() {
	store := memory.New(nil)
	r := s.newRecord(record.Config{Store: store, Resolver: s.resolver, Kind: keyspace.KindCharacter})
	key, err := r.Key(s.ref)
	s.Require().NoError(err)
	s.Require().NoError(store.Set(s.ctx, key, []byte("{not json"), 0))

	_, err = r.Load(s.ctx, s.ref)
	s.True(errors.IsDataLoss(err))
}

func (s *RecordTestSuite) TestInvalidRefNeverTouchesStore() {
	ctrl := gomock.NewController(s.T())
	r := s.newRecord(record.Config{Store: storagemock.NewMockStore(ctrl), Resolver: s.resolver, Kind: keyspace.KindCharacter})

	err := r.Save(s.ctx, keyspace.Ref{CampaignID: "../etc"}, &doc{})
	s.True(errors.IsValidation(err))
}

func (s *RecordTestSuite) TestStorageFailurePropagates() {
	ctrl := gomock.NewController(s.T())
	store := storagemock.NewMockStore(ctrl)
	r := s.newRecord(record.Config{Store: store, Resolver: s.resolver, Kind: keyspace.KindInventory, TTL: time.Hour})

	store.EXPECT().
		Set(s.ctx, "5e_mcp:user:default:campaign:crypt:inventory", gomock.Any(), time.Hour).
		Return(errors.StorageUnavailable(context.DeadlineExceeded, "redis", "set"))

	err := r.Save(s.ctx, s.ref, &doc{Name: "pack"})
	s.True(errors.IsStorageUnavailable(err))
	s.Equal("redis", errors.GetMeta(err)[errors.MetaBackend])
}

func (s *RecordTestSuite) TestDeleteMissingSucceeds() {
	r := s.newRecord(record.Config{Store: memory.New(nil), Resolver: s.resolver, Kind: keyspace.KindSessionLog})
	s.NoError(r.Delete(s.ctx, s.ref))
}
