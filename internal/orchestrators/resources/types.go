package resources

import (
	"github.com/KirkDiggler/dnd-mcp/internal/clients/content"
	"github.com/KirkDiggler/dnd-mcp/internal/engine"
	"github.com/KirkDiggler/dnd-mcp/internal/entities"
	"github.com/KirkDiggler/dnd-mcp/internal/keyspace"
)

// GetInventoryInput defines the request for reading the inventory
type GetInventoryInput struct {
	Ref keyspace.Ref
}

// GetInventoryOutput defines the response for reading the inventory
type GetInventoryOutput struct {
	Inventory *entities.Inventory
	// Stored is false when the character has never held anything
	Stored bool
}

// AddItemInput defines the request for adding an item
type AddItemInput struct {
	Ref  keyspace.Ref
	Name string
	// Quantity defaults to 1
	Quantity int
}

// AddItemOutput defines the response for adding an item
type AddItemOutput struct {
	Item      entities.Item
	Inventory *entities.Inventory
	// Source is dnd5eapi, catalog or custom
	Source string
}

// RemoveItemInput defines the request for removing an item
type RemoveItemInput struct {
	Ref  keyspace.Ref
	Name string
	// Quantity defaults to 1 and is capped at the owned amount
	Quantity int
}

// RemoveItemOutput defines the response for removing an item
type RemoveItemOutput struct {
	ItemID    string
	Removed   int
	Remaining int
	// Unequipped is set when the last copy left an equipment slot
	Unequipped entities.Slot
	AC         int
	Inventory  *entities.Inventory
}

// EquipInput defines the request for equipping an item
type EquipInput struct {
	Ref  keyspace.Ref
	Item string
	Slot string
	// Replace allows swapping out whatever occupies the slot
	Replace bool
}

// EquipOutput defines the response for equipping an item
type EquipOutput struct {
	Slot     entities.Slot
	ItemID   string
	Replaced string
	AC       int
}

// UnequipInput defines the request for emptying a slot
type UnequipInput struct {
	Ref  keyspace.Ref
	Slot string
}

// UnequipOutput defines the response for emptying a slot
type UnequipOutput struct {
	Slot   entities.Slot
	ItemID string
	AC     int
}

// GoldInput defines the request for adding or removing gold
type GoldInput struct {
	Ref    keyspace.Ref
	Amount int
}

// GoldOutput defines the response for adding or removing gold
type GoldOutput struct {
	Previous int
	Balance  int
}

// CastSpellInput defines the request for casting a spell
type CastSpellInput struct {
	Ref  keyspace.Ref
	Name string
	// Level is the slot level to cast at; nil uses the spell's own level
	Level *int
	// Concentration overrides the looked-up concentration flag
	Concentration *bool
}

// CastSpellOutput defines the response for casting a spell
type CastSpellOutput struct {
	Result *engine.CastResult
	// Spell is nil when the content lookup had no match
	Spell *content.SpellInfo
	Slots map[int]entities.SpellSlot
}

// PrepareSpellsInput defines the request for replacing the prepared list
type PrepareSpellsInput struct {
	Ref   keyspace.Ref
	Names []string
}

// PrepareSpellsOutput defines the response for replacing the prepared list
type PrepareSpellsOutput struct {
	Prepared []string
	// Unknown lists names the content lookup could not find
	Unknown []string
}

// GetSpellSlotsInput defines the request for reading spellcasting state
type GetSpellSlotsInput struct {
	Ref keyspace.Ref
}

// GetSpellSlotsOutput defines the response for reading spellcasting state
type GetSpellSlotsOutput struct {
	Caster        bool
	Ability       entities.Ability
	Slots         map[int]entities.SpellSlot
	Prepared      []string
	Concentration string
	PactMagic     bool
}

// RestInput defines the request for resting
type RestInput struct {
	Ref  keyspace.Ref
	Kind string
}

// RestOutput defines the response for resting
type RestOutput struct {
	Summary   *engine.RestSummary
	Character *entities.Character
}

// UseHitDiceInput defines the request for spending hit dice
type UseHitDiceInput struct {
	Ref   keyspace.Ref
	Count int
}

// UseHitDiceOutput defines the response for spending hit dice
type UseHitDiceOutput struct {
	Rolls     []int
	Healed    int
	CurrentHP int
	MaxHP     int
	Remaining int
}

// Condition actions
const (
	ConditionApply  = "apply"
	ConditionRemove = "remove"
	ConditionCheck  = "check"
)

// ManageConditionsInput defines the request for managing conditions
type ManageConditionsInput struct {
	Ref keyspace.Ref
	// Action is apply, remove or check
	Action    string
	Condition string
	// Duration in rounds; 0 never expires
	Duration int
	// Levels is used by exhaustion
	Levels int
	// TargetID names a roster member of the active encounter; empty means
	// the player character
	TargetID string
}

// ManageConditionsOutput defines the response for managing conditions
type ManageConditionsOutput struct {
	TargetID   string
	Action     string
	Condition  string
	Present    bool
	Changed    bool
	Conditions []entities.Condition
	// EndedConcentration is set when removing concentration dropped a spell
	EndedConcentration string
}

// UseFeatureInput defines the request for using a class feature
type UseFeatureInput struct {
	Ref  keyspace.Ref
	Name string
}

// UseFeatureOutput defines the response for using a class feature
type UseFeatureOutput struct {
	Feature entities.Feature
}
