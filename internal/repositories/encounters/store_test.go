package encounters_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/dnd-mcp/internal/entities"
	"github.com/KirkDiggler/dnd-mcp/internal/errors"
	"github.com/KirkDiggler/dnd-mcp/internal/keyspace"
	"github.com/KirkDiggler/dnd-mcp/internal/pkg/clock"
	"github.com/KirkDiggler/dnd-mcp/internal/repositories/encounters"
	"github.com/KirkDiggler/dnd-mcp/internal/storage/memory"
	"github.com/KirkDiggler/dnd-mcp/internal/testutils"
)

func TestEncounterRepository(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewManual(testutils.TestTime)
	resolver, err := keyspace.NewResolver(&keyspace.Config{Prefix: "5e_mcp"})
	require.NoError(t, err)

	repo, err := encounters.NewRepository(&encounters.Config{
		Store:    memory.New(&memory.Config{Clock: clk}),
		Resolver: resolver,
		TTL:      time.Hour,
	})
	require.NoError(t, err)

	ref := keyspace.Ref{CampaignID: "goblin_cave"}
	enc := &entities.Encounter{
		ID:     "enc_1",
		Status: entities.EncounterActive,
		Round:  1,
		Combatants: []entities.Combatant{
			testutils.CreateTestGoblin("goblin_1"),
			testutils.CreateTestGoblin("goblin_2"),
		},
		StartedAt: testutils.TestTime,
	}

	t.Run("save and get", func(t *testing.T) {
		_, err := repo.Save(ctx, encounters.SaveInput{Ref: ref, Encounter: enc})
		require.NoError(t, err)

		out, err := repo.Get(ctx, encounters.GetInput{Ref: ref})
		require.NoError(t, err)
		assert.Equal(t, enc.Combatants, out.Encounter.Combatants)
		assert.Equal(t, entities.EncounterActive, out.Encounter.Status)
	})

	t.Run("expires with the configured ttl", func(t *testing.T) {
		clk.Advance(2 * time.Hour)

		_, err := repo.Get(ctx, encounters.GetInput{Ref: ref})
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("reserved campaign is allowed on a local backend", func(t *testing.T) {
		_, err := repo.Save(ctx, encounters.SaveInput{Ref: keyspace.Ref{CampaignID: "default"}, Encounter: enc})
		assert.NoError(t, err)
	})
}
