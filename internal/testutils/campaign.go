package testutils

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/dnd-mcp/internal/keyspace"
	"github.com/KirkDiggler/dnd-mcp/internal/pkg/clock"
	"github.com/KirkDiggler/dnd-mcp/internal/repositories/character"
	"github.com/KirkDiggler/dnd-mcp/internal/repositories/encounters"
	"github.com/KirkDiggler/dnd-mcp/internal/repositories/inventory"
	"github.com/KirkDiggler/dnd-mcp/internal/repositories/sessionlog"
	"github.com/KirkDiggler/dnd-mcp/internal/storage/memory"
)

// TestRepositories bundles every campaign repository over one memory store
type TestRepositories struct {
	Store      *memory.Store
	Resolver   *keyspace.Resolver
	Clock      *clock.Manual
	Characters character.Repository
	Encounters encounters.Repository
	Inventory  inventory.Repository
	SessionLog sessionlog.Repository
}

// TestRef is the campaign ref fixtures are stored under
func TestRef() keyspace.Ref {
	return keyspace.Ref{CampaignID: TestCampaignID}
}

// CreateTestRepositories wires all repositories to a fresh memory store
// whose clock is frozen at TestTime
func CreateTestRepositories(t *testing.T) *TestRepositories {
	t.Helper()

	clk := clock.NewManual(TestTime)
	store := memory.New(&memory.Config{Clock: clk})
	t.Cleanup(func() {
		_ = store.Close()
	})

	resolver, err := keyspace.NewResolver(&keyspace.Config{Prefix: "test"})
	require.NoError(t, err)

	chars, err := character.NewRepository(&character.Config{Store: store, Resolver: resolver})
	require.NoError(t, err)
	encs, err := encounters.NewRepository(&encounters.Config{Store: store, Resolver: resolver})
	require.NoError(t, err)
	inv, err := inventory.NewRepository(&inventory.Config{Store: store, Resolver: resolver})
	require.NoError(t, err)
	logs, err := sessionlog.NewRepository(&sessionlog.Config{Store: store, Resolver: resolver})
	require.NoError(t, err)

	return &TestRepositories{
		Store:      store,
		Resolver:   resolver,
		Clock:      clk,
		Characters: chars,
		Encounters: encs,
		Inventory:  inv,
		SessionLog: logs,
	}
}
