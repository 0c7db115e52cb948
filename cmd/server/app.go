package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/KirkDiggler/dnd-mcp/internal/clients/content"
	"github.com/KirkDiggler/dnd-mcp/internal/config"
	"github.com/KirkDiggler/dnd-mcp/internal/errors"
	mcphandler "github.com/KirkDiggler/dnd-mcp/internal/handlers/mcp"
	"github.com/KirkDiggler/dnd-mcp/internal/keyspace"
	charorchestrator "github.com/KirkDiggler/dnd-mcp/internal/orchestrators/character"
	diceorchestrator "github.com/KirkDiggler/dnd-mcp/internal/orchestrators/dice"
	"github.com/KirkDiggler/dnd-mcp/internal/orchestrators/encounter"
	"github.com/KirkDiggler/dnd-mcp/internal/orchestrators/resources"
	"github.com/KirkDiggler/dnd-mcp/internal/orchestrators/session"
	"github.com/KirkDiggler/dnd-mcp/internal/pkg/clock"
	"github.com/KirkDiggler/dnd-mcp/internal/pkg/idgen"
	charrepo "github.com/KirkDiggler/dnd-mcp/internal/repositories/character"
	"github.com/KirkDiggler/dnd-mcp/internal/repositories/encounters"
	"github.com/KirkDiggler/dnd-mcp/internal/repositories/inventory"
	"github.com/KirkDiggler/dnd-mcp/internal/repositories/sessionlog"
	"github.com/KirkDiggler/dnd-mcp/internal/storage"
)

// storeDeps is the storage layer shared by serve and keys
type storeDeps struct {
	store    storage.Store
	resolver *keyspace.Resolver
}

func openStore(ctx context.Context, cfg config.Config, clk clock.Clock) (*storeDeps, error) {
	store, err := storage.New(ctx, cfg.Storage, storage.Deps{Clock: clk})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open storage")
	}

	resolver, err := keyspace.NewResolver(&keyspace.Config{
		Prefix:      cfg.Storage.NamespacePrefix,
		Distributed: cfg.Storage.Distributed(),
	})
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return &storeDeps{store: store, resolver: resolver}, nil
}

// app is the fully wired server
type app struct {
	*storeDeps
	mcp *mcphandler.Server
}

func newApp(ctx context.Context, cfg config.Config) (*app, error) {
	clk := clock.New()

	deps, err := openStore(ctx, cfg, clk)
	if err != nil {
		return nil, err
	}

	a, err := wireApp(cfg, deps, clk)
	if err != nil {
		_ = deps.store.Close()
		return nil, err
	}
	return a, nil
}

// recordTTL is the expiry applied when saving a record of kind. Only the
// encounter is cache-like; the character, inventory and history outlive it.
func recordTTL(cfg config.Storage, kind keyspace.Kind) time.Duration {
	if kind == keyspace.KindEncounter {
		return cfg.DefaultTTL
	}
	return 0
}

func wireApp(cfg config.Config, deps *storeDeps, clk clock.Clock) (*app, error) {
	ttl := func(kind keyspace.Kind) time.Duration { return recordTTL(cfg.Storage, kind) }

	characterRepo, err := charrepo.NewRepository(&charrepo.Config{Store: deps.store, Resolver: deps.resolver, TTL: ttl(keyspace.KindCharacter)})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create character repository")
	}
	encounterRepo, err := encounters.NewRepository(&encounters.Config{Store: deps.store, Resolver: deps.resolver, TTL: ttl(keyspace.KindEncounter)})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create encounter repository")
	}
	inventoryRepo, err := inventory.NewRepository(&inventory.Config{Store: deps.store, Resolver: deps.resolver, TTL: ttl(keyspace.KindInventory)})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create inventory repository")
	}
	sessionLogRepo, err := sessionlog.NewRepository(&sessionlog.Config{Store: deps.store, Resolver: deps.resolver, TTL: ttl(keyspace.KindSessionLog)})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create session log repository")
	}

	lookup, err := content.New(&content.Config{Content: cfg.Content, Logger: slog.Default()})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create content client")
	}

	characters, err := charorchestrator.NewOrchestrator(&charorchestrator.Config{
		CharacterRepo: characterRepo,
		InventoryRepo: inventoryRepo,
		EncounterRepo: encounterRepo,
		Content:       lookup,
		Clock:         clk,
		IDGenerator:   idgen.NewUUID("char"),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create character orchestrator")
	}

	encounterService, err := encounter.NewOrchestrator(&encounter.Config{
		CharacterRepo: characterRepo,
		EncounterRepo: encounterRepo,
		InventoryRepo: inventoryRepo,
		Content:       lookup,
		Clock:         clk,
		IDGenerator:   idgen.NewUUID("enc"),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create encounter orchestrator")
	}

	resourceService, err := resources.NewOrchestrator(&resources.Config{
		CharacterRepo: characterRepo,
		InventoryRepo: inventoryRepo,
		EncounterRepo: encounterRepo,
		Content:       lookup,
		Clock:         clk,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create resource orchestrator")
	}

	sessionService, err := session.NewOrchestrator(&session.Config{
		SessionLogRepo: sessionLogRepo,
		CharacterRepo:  characterRepo,
		EncounterRepo:  encounterRepo,
		InventoryRepo:  inventoryRepo,
		Clock:          clk,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create session orchestrator")
	}

	diceService, err := diceorchestrator.NewOrchestrator(&diceorchestrator.Config{
		IDGenerator: idgen.NewUUID("roll"),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create dice orchestrator")
	}

	server, err := mcphandler.NewServer(&mcphandler.Config{
		Version:          version,
		CharacterService: characters,
		EncounterService: encounterService,
		ResourceService:  resourceService,
		SessionService:   sessionService,
		DiceService:      diceService,
		Content:          lookup,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create MCP server")
	}

	return &app{storeDeps: deps, mcp: server}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}
