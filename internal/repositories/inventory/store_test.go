package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/dnd-mcp/internal/entities"
	"github.com/KirkDiggler/dnd-mcp/internal/errors"
	"github.com/KirkDiggler/dnd-mcp/internal/keyspace"
	"github.com/KirkDiggler/dnd-mcp/internal/repositories/inventory"
	"github.com/KirkDiggler/dnd-mcp/internal/storage/memory"
	storagemock "github.com/KirkDiggler/dnd-mcp/internal/storage/mock"
	"github.com/KirkDiggler/dnd-mcp/internal/testutils"
)

func newResolver(t *testing.T, distributed bool) *keyspace.Resolver {
	t.Helper()
	r, err := keyspace.NewResolver(&keyspace.Config{Prefix: "5e_mcp", Distributed: distributed})
	require.NoError(t, err)
	return r
}

func TestInventoryRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo, err := inventory.NewRepository(&inventory.Config{Store: memory.New(nil), Resolver: newResolver(t, false)})
	require.NoError(t, err)

	ref := keyspace.Ref{UserID: "alice", CampaignID: "tomb"}
	inv := testutils.CreateTestInventory()
	inv.Equipped[entities.SlotArmor] = "chain_mail"

	_, err = repo.Save(ctx, inventory.SaveInput{Ref: ref, Inventory: inv})
	require.NoError(t, err)

	out, err := repo.Get(ctx, inventory.GetInput{Ref: ref})
	require.NoError(t, err)
	assert.Equal(t, inv, out.Inventory)
}

func TestInventoryRepository_ReservedCampaignOnSharedBackend(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := storagemock.NewMockStore(ctrl)

	repo, err := inventory.NewRepository(&inventory.Config{Store: store, Resolver: newResolver(t, true)})
	require.NoError(t, err)

	_, err = repo.Get(context.Background(), inventory.GetInput{Ref: keyspace.Ref{CampaignID: "default"}})
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
	assert.Equal(t, errors.ReasonReservedCampaignID, errors.Reason(err))
}
