package entities

import (
	"time"

	"github.com/KirkDiggler/rpg-toolkit/core"
)

// EntityTypeCharacter is the core.Entity type of the player character
const EntityTypeCharacter = "character"

// HPMethod selects how hit points above level 1 are gained
type HPMethod string

// HP methods
const (
	HPMethodAverage HPMethod = "average"
	HPMethodRoll    HPMethod = "roll"
)

// RestKind is short or long
type RestKind string

// Rest kinds
const (
	RestShort RestKind = "short"
	RestLong  RestKind = "long"
)

// HitDice is the pool of hit dice of a single size
type HitDice struct {
	Die     int `json:"die"`
	Max     int `json:"max"`
	Current int `json:"current"`
}

// DeathSaves tracks the death-save sub-state entered at 0 HP
type DeathSaves struct {
	Successes int  `json:"successes"`
	Failures  int  `json:"failures"`
	Stable    bool `json:"stable"`
	Dead      bool `json:"dead"`
}

// Reset clears all death save progress
func (d *DeathSaves) Reset() {
	*d = DeathSaves{}
}

// SpellSlot is one level of spell slots
type SpellSlot struct {
	Max     int `json:"max"`
	Current int `json:"current"`
}

// Spellcasting is present on caster classes only
type Spellcasting struct {
	Ability       Ability           `json:"ability"`
	Slots         map[int]SpellSlot `json:"slots"`
	Prepared      []string          `json:"prepared"`
	Concentration string            `json:"concentration,omitempty"`
	// PactMagic marks warlock slots: one slot level that moves up with the
	// class level
	PactMagic bool `json:"pact_magic,omitempty"`
}

// Condition is an applied status with a duration in rounds. A duration of
// zero or less never expires on its own.
type Condition struct {
	Name     string `json:"name"`
	Duration int    `json:"duration"`
	Level    int    `json:"level,omitempty"`
}

// Feature is a class feature with limited uses
type Feature struct {
	Name     string   `json:"name"`
	Uses     int      `json:"uses"`
	Max      int      `json:"max"`
	ResetsOn RestKind `json:"resets_on"`
}

// Attack is a prepared attack on the character sheet
type Attack struct {
	Name       string  `json:"name"`
	Ability    Ability `json:"ability"`
	DamageDice string  `json:"damage_dice"`
	DamageType string  `json:"damage_type,omitempty"`
	Proficient bool    `json:"proficient"`
}

// Character is the player character of a campaign
type Character struct {
	ID                 string        `json:"id"`
	Name               string        `json:"name"`
	Race               string        `json:"race"`
	Class              string        `json:"class"`
	Background         string        `json:"background"`
	Level              int           `json:"level"`
	XP                 int           `json:"xp"`
	Scores             AbilityScores `json:"scores"`
	MaxHP              int           `json:"max_hp"`
	CurrentHP          int           `json:"current_hp"`
	TempHP             int           `json:"temp_hp"`
	AC                 int           `json:"ac"`
	Speed              int           `json:"speed"`
	ProficiencyBonus   int           `json:"proficiency_bonus"`
	HitDice            HitDice       `json:"hit_dice"`
	DeathSaves         DeathSaves    `json:"death_saves"`
	SkillProficiencies []string      `json:"skill_proficiencies"`
	SaveProficiencies  []Ability     `json:"save_proficiencies"`
	Attacks            []Attack      `json:"attacks"`
	Spellcasting       *Spellcasting `json:"spellcasting,omitempty"`
	Conditions         []Condition   `json:"conditions"`
	Features           []Feature     `json:"features"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

var _ core.Entity = (*Character)(nil)

// GetID implements core.Entity
func (c *Character) GetID() string { return c.ID }

// GetType implements core.Entity
func (c *Character) GetType() string { return EntityTypeCharacter }

// Unconscious reports whether the character is at 0 HP and not dead
func (c *Character) Unconscious() bool {
	return c.CurrentHP == 0 && !c.DeathSaves.Dead
}

// Condition returns the named condition, if applied
func (c *Character) Condition(name string) (*Condition, bool) {
	for i := range c.Conditions {
		if c.Conditions[i].Name == name {
			return &c.Conditions[i], true
		}
	}
	return nil, false
}

// Feature returns the named feature, if the character has it
func (c *Character) Feature(name string) (*Feature, bool) {
	for i := range c.Features {
		if c.Features[i].Name == name {
			return &c.Features[i], true
		}
	}
	return nil, false
}

// ProficientIn reports skill proficiency
func (c *Character) ProficientIn(skill string) bool {
	for _, s := range c.SkillProficiencies {
		if s == skill {
			return true
		}
	}
	return false
}

// ProficientSave reports saving throw proficiency
func (c *Character) ProficientSave(a Ability) bool {
	for _, s := range c.SaveProficiencies {
		if s == a {
			return true
		}
	}
	return false
}
