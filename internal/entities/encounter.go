package entities

import (
	"time"

	"github.com/KirkDiggler/rpg-toolkit/core"
)

// EncounterStatus is active or ended
type EncounterStatus string

// Encounter statuses
const (
	EncounterActive EncounterStatus = "active"
	EncounterEnded  EncounterStatus = "ended"
)

// CombatantKind distinguishes the player from monsters
type CombatantKind string

// Combatant kinds
const (
	CombatantPlayer  CombatantKind = "player"
	CombatantMonster CombatantKind = "monster"
)

// CombatantStatus is derived from HP after every change
type CombatantStatus string

// Combatant statuses
const (
	StatusActive      CombatantStatus = "active"
	StatusUnconscious CombatantStatus = "unconscious"
	StatusDead        CombatantStatus = "dead"
)

// Combatant is one roster member of an encounter
type Combatant struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Kind        CombatantKind   `json:"kind"`
	Initiative  int             `json:"initiative"`
	HP          int             `json:"hp"`
	MaxHP       int             `json:"max_hp"`
	TempHP      int             `json:"temp_hp"`
	AC          int             `json:"ac"`
	DexMod      int             `json:"dex_mod"`
	AttackBonus int             `json:"attack_bonus"`
	DamageDice  string          `json:"damage_dice,omitempty"`
	DamageType  string          `json:"damage_type,omitempty"`
	CR          float64         `json:"cr,omitempty"`
	Conditions  []Condition     `json:"conditions"`
	Status      CombatantStatus `json:"status"`
}

var _ core.Entity = (*Combatant)(nil)

// GetID implements core.Entity
func (c *Combatant) GetID() string { return c.ID }

// GetType implements core.Entity
func (c *Combatant) GetType() string { return string(c.Kind) }

// Alive reports whether the combatant can take a turn
func (c *Combatant) Alive() bool { return c.HP > 0 }

// Encounter is the active combat of a campaign
type Encounter struct {
	ID               string          `json:"id"`
	Status           EncounterStatus `json:"status"`
	Round            int             `json:"round"`
	Combatants       []Combatant     `json:"combatants"`
	TurnIndex        int             `json:"turn_index"`
	InitiativeRolled bool            `json:"initiative_rolled"`
	StartedAt        time.Time       `json:"started_at"`
}

// Find returns the roster member with id
func (e *Encounter) Find(id string) (*Combatant, bool) {
	for i := range e.Combatants {
		if e.Combatants[i].ID == id {
			return &e.Combatants[i], true
		}
	}
	return nil, false
}

// Player returns the player combatant
func (e *Encounter) Player() (*Combatant, bool) {
	for i := range e.Combatants {
		if e.Combatants[i].Kind == CombatantPlayer {
			return &e.Combatants[i], true
		}
	}
	return nil, false
}

// Current returns the combatant whose turn it is
func (e *Encounter) Current() (*Combatant, bool) {
	if e.TurnIndex < 0 || e.TurnIndex >= len(e.Combatants) {
		return nil, false
	}
	return &e.Combatants[e.TurnIndex], true
}

// AnyAlive reports whether at least one combatant has HP
func (e *Encounter) AnyAlive() bool {
	for i := range e.Combatants {
		if e.Combatants[i].Alive() {
			return true
		}
	}
	return false
}
