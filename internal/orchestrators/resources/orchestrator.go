// Package resources implements the resource and progression orchestrator:
// inventory, currency, spellcasting, rest, conditions and class features.
package resources

//go:generate mockgen -destination=mock/mock_service.go -package=resourcesmock github.com/KirkDiggler/dnd-mcp/internal/orchestrators/resources Service

import (
	"context"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/dnd-mcp/internal/clients/content"
	"github.com/KirkDiggler/dnd-mcp/internal/engine"
	"github.com/KirkDiggler/dnd-mcp/internal/entities"
	"github.com/KirkDiggler/dnd-mcp/internal/errors"
	"github.com/KirkDiggler/dnd-mcp/internal/keyspace"
	"github.com/KirkDiggler/dnd-mcp/internal/pkg/clock"
	"github.com/KirkDiggler/dnd-mcp/internal/repositories/character"
	"github.com/KirkDiggler/dnd-mcp/internal/repositories/encounters"
	"github.com/KirkDiggler/dnd-mcp/internal/repositories/inventory"
)

// Service defines the interface for resource operations
type Service interface {
	// GetInventory reads the items, equipment and gold of a campaign
	GetInventory(ctx context.Context, input *GetInventoryInput) (*GetInventoryOutput, error)

	// AddItem adds a stack of an item, attaching SRD weapon or armor data
	AddItem(ctx context.Context, input *AddItemInput) (*AddItemOutput, error)

	// RemoveItem removes copies of an item, unequipping the last one
	RemoveItem(ctx context.Context, input *RemoveItemInput) (*RemoveItemOutput, error)

	// Equip puts an owned item into an equipment slot
	Equip(ctx context.Context, input *EquipInput) (*EquipOutput, error)

	// Unequip empties an equipment slot
	Unequip(ctx context.Context, input *UnequipInput) (*UnequipOutput, error)

	// AddGold increases the gold balance
	AddGold(ctx context.Context, input *GoldInput) (*GoldOutput, error)

	// RemoveGold decreases the gold balance
	RemoveGold(ctx context.Context, input *GoldInput) (*GoldOutput, error)

	// CastSpell spends a spell slot and tracks concentration
	CastSpell(ctx context.Context, input *CastSpellInput) (*CastSpellOutput, error)

	// PrepareSpells replaces the prepared spell list
	PrepareSpells(ctx context.Context, input *PrepareSpellsInput) (*PrepareSpellsOutput, error)

	// GetSpellSlots reads the spellcasting state
	GetSpellSlots(ctx context.Context, input *GetSpellSlotsInput) (*GetSpellSlotsOutput, error)

	// Rest applies a short or long rest
	Rest(ctx context.Context, input *RestInput) (*RestOutput, error)

	// UseHitDice spends hit dice to heal
	UseHitDice(ctx context.Context, input *UseHitDiceInput) (*UseHitDiceOutput, error)

	// ManageConditions applies, removes or lists conditions
	ManageConditions(ctx context.Context, input *ManageConditionsInput) (*ManageConditionsOutput, error)

	// UseFeature spends one use of a class feature
	UseFeature(ctx context.Context, input *UseFeatureInput) (*UseFeatureOutput, error)
}

// Config holds the dependencies for the resources orchestrator
type Config struct {
	CharacterRepo character.Repository
	InventoryRepo inventory.Repository
	EncounterRepo encounters.Repository
	Content       content.Client
	// Roller defaults to the rpg-toolkit crypto roller
	Roller dice.Roller
	Clock  clock.Clock
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config is required")
	}
	vb := errors.NewValidationBuilder()

	if c.CharacterRepo == nil {
		vb.RequiredField("CharacterRepo")
	}
	if c.InventoryRepo == nil {
		vb.RequiredField("InventoryRepo")
	}
	if c.EncounterRepo == nil {
		vb.RequiredField("EncounterRepo")
	}
	if c.Content == nil {
		vb.RequiredField("Content")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}

	return vb.Build()
}

type orchestrator struct {
	characterRepo character.Repository
	inventoryRepo inventory.Repository
	encounterRepo encounters.Repository
	content       content.Client
	dice          *engine.Dice
	clock         clock.Clock
}

// NewOrchestrator creates a new resources orchestrator
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		characterRepo: cfg.CharacterRepo,
		inventoryRepo: cfg.InventoryRepo,
		encounterRepo: cfg.EncounterRepo,
		content:       cfg.Content,
		dice:          engine.NewDice(cfg.Roller),
		clock:         cfg.Clock,
	}, nil
}

func (o *orchestrator) loadCharacter(ctx context.Context, ref keyspace.Ref) (*entities.Character, error) {
	out, err := o.characterRepo.Get(ctx, character.GetInput{Ref: ref})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load character")
	}
	return out.Character, nil
}

func (o *orchestrator) saveCharacter(ctx context.Context, ref keyspace.Ref, c *entities.Character) error {
	c.UpdatedAt = o.clock.Now()
	if _, err := o.characterRepo.Save(ctx, character.SaveInput{Ref: ref, Character: c}); err != nil {
		return errors.Wrap(err, "failed to save character")
	}
	return nil
}

// loadInventory returns a fresh inventory sized to c when none was stored
func (o *orchestrator) loadInventory(ctx context.Context, ref keyspace.Ref, c *entities.Character) (*entities.Inventory, error) {
	out, err := o.inventoryRepo.Get(ctx, inventory.GetInput{Ref: ref})
	if err != nil {
		if errors.IsNotFound(err) {
			return entities.NewInventory(engine.CarryCapacity(c.Scores.Strength)), nil
		}
		return nil, errors.Wrap(err, "failed to load inventory")
	}
	return out.Inventory, nil
}

func (o *orchestrator) saveInventory(ctx context.Context, ref keyspace.Ref, inv *entities.Inventory) error {
	if _, err := o.inventoryRepo.Save(ctx, inventory.SaveInput{Ref: ref, Inventory: inv}); err != nil {
		return errors.Wrap(err, "failed to save inventory")
	}
	return nil
}

// activeEncounter returns nil when the campaign is not in combat
func (o *orchestrator) activeEncounter(ctx context.Context, ref keyspace.Ref) (*entities.Encounter, error) {
	out, err := o.encounterRepo.Get(ctx, encounters.GetInput{Ref: ref})
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to load encounter")
	}
	if out.Encounter.Status != entities.EncounterActive {
		return nil, nil
	}
	return out.Encounter, nil
}

func (o *orchestrator) saveEncounter(ctx context.Context, ref keyspace.Ref, enc *entities.Encounter) error {
	if _, err := o.encounterRepo.Save(ctx, encounters.SaveInput{Ref: ref, Encounter: enc}); err != nil {
		return errors.Wrap(err, "failed to save encounter")
	}
	return nil
}

// syncEncounter mirrors HP and AC onto the player's roster entry, if in combat
func (o *orchestrator) syncEncounter(ctx context.Context, ref keyspace.Ref, c *entities.Character) error {
	enc, err := o.activeEncounter(ctx, ref)
	if err != nil || enc == nil {
		return err
	}
	p, ok := enc.Player()
	if !ok {
		return nil
	}
	engine.SyncPlayerCombatant(c, p)
	return o.saveEncounter(ctx, ref, enc)
}
