package encounter

import (
	"github.com/KirkDiggler/dnd-mcp/internal/engine"
	"github.com/KirkDiggler/dnd-mcp/internal/entities"
	"github.com/KirkDiggler/dnd-mcp/internal/keyspace"
)

// StartCombatInput defines the request for starting combat
type StartCombatInput struct {
	Ref keyspace.Ref
	// Entities are monster references such as "Goblin" or "2 Wolves"
	Entities []string
}

// StartCombatOutput defines the response for starting combat
type StartCombatOutput struct {
	Encounter *entities.Encounter
	// Fallbacks lists references that got the generic stat block
	Fallbacks []string
}

// RollInitiativeInput defines the request for rolling initiative
type RollInitiativeInput struct {
	Ref keyspace.Ref
}

// InitiativeRoll is one participant's initiative roll
type InitiativeRoll struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Natural  int    `json:"natural"`
	Modifier int    `json:"modifier"`
	Total    int    `json:"total"`
}

// RollInitiativeOutput defines the response for rolling initiative
type RollInitiativeOutput struct {
	Rolls []InitiativeRoll
	Order *TurnOrder
}

// GetInitiativeOrderInput defines the request for reading the turn order
type GetInitiativeOrderInput struct {
	Ref keyspace.Ref
}

// GetInitiativeOrderOutput defines the response for reading the turn order
type GetInitiativeOrderOutput struct {
	Order *TurnOrder
}

// TurnEntry is one roster row of the turn order
type TurnEntry struct {
	ID         string                   `json:"id"`
	Name       string                   `json:"name"`
	Kind       entities.CombatantKind   `json:"kind"`
	Initiative int                      `json:"initiative"`
	HP         int                      `json:"hp"`
	MaxHP      int                      `json:"max_hp"`
	TempHP     int                      `json:"temp_hp,omitempty"`
	AC         int                      `json:"ac"`
	Status     entities.CombatantStatus `json:"status"`
	Conditions []entities.Condition     `json:"conditions,omitempty"`
	Current    bool                     `json:"current"`
}

// TurnOrder is the roster in initiative order with the current-turn marker
type TurnOrder struct {
	EncounterID      string      `json:"encounter_id"`
	Round            int         `json:"round"`
	InitiativeRolled bool        `json:"initiative_rolled"`
	CurrentID        string      `json:"current_id"`
	Entries          []TurnEntry `json:"entries"`
}

// MakeAttackInput defines the request for resolving an attack
type MakeAttackInput struct {
	Ref        keyspace.Ref
	AttackerID string
	TargetID   string
	// Weapon names an attack, inventory weapon or monster action. Empty picks
	// the attacker's default.
	Weapon       string
	Advantage    bool
	Disadvantage bool
}

// MakeAttackOutput defines the response for resolving an attack. Damage is
// rolled but not applied.
type MakeAttackOutput struct {
	AttackerID   string
	AttackerName string
	TargetID     string
	TargetName   string
	Weapon       string
	Roll         *engine.D20Result
	AttackBonus  int
	Total        int
	TargetAC     int
	Hit          bool
	Critical     bool
	// Damage is nil on a miss
	Damage     *engine.RollResult
	DamageType string
}

// NextTurnInput defines the request for advancing the turn
type NextTurnInput struct {
	Ref keyspace.Ref
}

// ExpiredCondition names a condition that ran out at the end of a round
type ExpiredCondition struct {
	ParticipantID string `json:"participant_id"`
	Condition     string `json:"condition"`
}

// NextTurnOutput defines the response for advancing the turn
type NextTurnOutput struct {
	Round    int
	NewRound bool
	Current  *entities.Combatant
	Expired  []ExpiredCondition
}

// EndCombatInput defines the request for ending combat
type EndCombatInput struct {
	Ref keyspace.Ref
}

// EndCombatOutput defines the response for ending combat
type EndCombatOutput struct {
	// Ended is false when there was no active encounter
	Ended       bool
	EncounterID string
	Rounds      int
	Survivors   []string
	Defeated    []string
}

// SuggestEncounterInput defines the request for suggesting an encounter
type SuggestEncounterInput struct {
	Ref        keyspace.Ref
	Difficulty string
	// Level overrides the character's level when positive
	Level int
}

// SuggestedMonster is a stat block generated from the CR table
type SuggestedMonster struct {
	Name  string         `json:"name"`
	CR    string         `json:"cr"`
	Stats engine.CRStats `json:"stats"`
}

// SuggestEncounterOutput defines the response for suggesting an encounter
type SuggestEncounterOutput struct {
	Level      int
	Difficulty engine.Difficulty
	TargetCR   float64
	Monsters   []SuggestedMonster
	// Rated is the band the suggestion actually lands in
	Rated engine.Difficulty
}
