package resources_test

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	contentmock "github.com/KirkDiggler/dnd-mcp/internal/clients/content/mock"
	"github.com/KirkDiggler/dnd-mcp/internal/errors"
	"github.com/KirkDiggler/dnd-mcp/internal/orchestrators/resources"
	"github.com/KirkDiggler/dnd-mcp/internal/pkg/clock"
	charrepo "github.com/KirkDiggler/dnd-mcp/internal/repositories/character"
	charactermock "github.com/KirkDiggler/dnd-mcp/internal/repositories/character/mock"
	encountermock "github.com/KirkDiggler/dnd-mcp/internal/repositories/encounters/mock"
	"github.com/KirkDiggler/dnd-mcp/internal/repositories/inventory"
	inventorymock "github.com/KirkDiggler/dnd-mcp/internal/repositories/inventory/mock"
	"github.com/KirkDiggler/dnd-mcp/internal/testutils"
)

type mockedOrchestrator struct {
	service    resources.Service
	characters *charactermock.MockRepository
	inventory  *inventorymock.MockRepository
	content    *contentmock.MockClient
}

func newMockedOrchestrator(t *testing.T) *mockedOrchestrator {
	ctrl := gomock.NewController(t)
	m := &mockedOrchestrator{
		characters: charactermock.NewMockRepository(ctrl),
		inventory:  inventorymock.NewMockRepository(ctrl),
		content:    contentmock.NewMockClient(ctrl),
	}

	o, err := resources.NewOrchestrator(&resources.Config{
		CharacterRepo: m.characters,
		InventoryRepo: m.inventory,
		EncounterRepo: encountermock.NewMockRepository(ctrl),
		Content:       m.content,
		Roller:        testutils.NewScriptedRoller(),
		Clock:         clock.NewManual(testutils.TestTime),
	})
	require.NoError(t, err)
	m.service = o
	return m
}

func (m *mockedOrchestrator) expectCharacter(ctx context.Context) {
	m.characters.EXPECT().
		Get(ctx, charrepo.GetInput{Ref: testutils.TestRef()}).
		Return(&charrepo.GetOutput{Character: testutils.CreateTestFighter()}, nil)
}

func TestOrchestrator_RemoveGold_StorageUnavailable(t *testing.T) {
	ctx := context.Background()
	ref := testutils.TestRef()
	redisDown := errors.StorageUnavailable(stderrors.New("connection refused"), "redis", "set")

	t.Run("failed save surfaces unchanged", func(t *testing.T) {
		m := newMockedOrchestrator(t)
		m.expectCharacter(ctx)
		m.inventory.EXPECT().
			Get(ctx, inventory.GetInput{Ref: ref}).
			Return(&inventory.GetOutput{Inventory: testutils.CreateTestInventory()}, nil)
		m.inventory.EXPECT().
			Save(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, input inventory.SaveInput) (*inventory.SaveOutput, error) {
				assert.Equal(t, 5, input.Inventory.Gold)
				return nil, redisDown
			})

		_, err := m.service.RemoveGold(ctx, &resources.GoldInput{Ref: ref, Amount: 5})
		require.Error(t, err)
		assert.True(t, errors.IsStorageUnavailable(err))
		assert.False(t, errors.HasReason(err, errors.ReasonInsufficientFunds))
		assert.Equal(t, "redis", errors.GetMeta(err)[errors.MetaBackend])
	})

	t.Run("failed load is not an empty purse", func(t *testing.T) {
		m := newMockedOrchestrator(t)
		m.expectCharacter(ctx)
		m.inventory.EXPECT().
			Get(ctx, inventory.GetInput{Ref: ref}).
			Return(nil, redisDown)

		_, err := m.service.RemoveGold(ctx, &resources.GoldInput{Ref: ref, Amount: 5})
		require.Error(t, err)
		assert.True(t, errors.IsStorageUnavailable(err))
	})
}

func TestOrchestrator_GetInventory_StorageUnavailable(t *testing.T) {
	ctx := context.Background()
	ref := testutils.TestRef()
	m := newMockedOrchestrator(t)

	m.expectCharacter(ctx)
	m.inventory.EXPECT().
		Get(ctx, inventory.GetInput{Ref: ref}).
		Return(nil, errors.StorageUnavailable(stderrors.New("i/o timeout"), "redis", "get"))

	_, err := m.service.GetInventory(ctx, &resources.GetInventoryInput{Ref: ref})
	require.Error(t, err)
	assert.True(t, errors.IsStorageUnavailable(err))
}

func TestOrchestrator_AddItem_ContentUnavailable(t *testing.T) {
	ctx := context.Background()
	ref := testutils.TestRef()
	m := newMockedOrchestrator(t)

	m.expectCharacter(ctx)
	m.inventory.EXPECT().
		Get(ctx, inventory.GetInput{Ref: ref}).
		Return(&inventory.GetOutput{Inventory: testutils.CreateTestInventory()}, nil)
	m.content.EXPECT().
		LookupItem(ctx, "Rope").
		Return(nil, errors.Unavailable("content api timed out"))

	_, err := m.service.AddItem(ctx, &resources.AddItemInput{Ref: ref, Name: "Rope"})
	require.Error(t, err)
	assert.True(t, errors.IsStorageUnavailable(err))
}
