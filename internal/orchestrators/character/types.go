package character

import (
	"github.com/KirkDiggler/dnd-mcp/internal/engine"
	"github.com/KirkDiggler/dnd-mcp/internal/entities"
	"github.com/KirkDiggler/dnd-mcp/internal/keyspace"
)

// CreateCharacterInput defines the request for creating a character
type CreateCharacterInput struct {
	Ref        keyspace.Ref
	Name       string
	Race       string
	Class      string
	Background string
	Scores     entities.AbilityScores
	// Level defaults to 1
	Level int
	// HitDie defaults to the class hit die
	HitDie   int
	HPMethod entities.HPMethod
	// Skills are added to the background's skill proficiencies
	Skills []string
}

// CreateCharacterOutput defines the response for creating a character
type CreateCharacterOutput struct {
	Character *entities.Character
	Inventory *entities.Inventory
}

// GetCharacterInput defines the request for getting a character
type GetCharacterInput struct {
	Ref keyspace.Ref
}

// GetCharacterOutput defines the response for getting a character
type GetCharacterOutput struct {
	Character *entities.Character
}

// UpdateHPInput defines the request for changing hit points
type UpdateHPInput struct {
	Ref    keyspace.Ref
	Amount int
	Kind   engine.HPKind
	// TargetID names a roster member of the active encounter; empty means
	// the player character
	TargetID string
	// Critical marks damage from a critical hit
	Critical bool
}

// UpdateHPOutput defines the response for changing hit points
type UpdateHPOutput struct {
	TargetID   string
	TargetName string
	Change     *engine.HPChange
	// Character is set when the player character changed
	Character *entities.Character
	// Combatant is set when a roster member changed
	Combatant *entities.Combatant
}

// UpdateStatInput defines the request for setting an ability score
type UpdateStatInput struct {
	Ref     keyspace.Ref
	Ability string
	Value   int
}

// UpdateStatOutput defines the response for setting an ability score
type UpdateStatOutput struct {
	Ability   entities.Ability
	Previous  int
	Character *entities.Character
}

// AddExperienceInput defines the request for awarding experience
type AddExperienceInput struct {
	Ref keyspace.Ref
	XP  int
}

// AddExperienceOutput defines the response for awarding experience
type AddExperienceOutput struct {
	LeveledUp bool
	Level     int
	Character *entities.Character
}

// RecalculateACInput defines the request for recomputing armor class
type RecalculateACInput struct {
	Ref keyspace.Ref
}

// RecalculateACOutput defines the response for recomputing armor class
type RecalculateACOutput struct {
	Previous int
	AC       int
}

// MakeCheckInput defines the request for an ability or skill check
type MakeCheckInput struct {
	Ref          keyspace.Ref
	Skill        string
	DC           int
	Advantage    bool
	Disadvantage bool
}

// MakeSavingThrowInput defines the request for a saving throw
type MakeSavingThrowInput struct {
	Ref          keyspace.Ref
	Ability      string
	DC           int
	Advantage    bool
	Disadvantage bool
}

// CheckOutput is the result of a check or saving throw
type CheckOutput struct {
	Bonus *engine.CheckBonus
	Roll  *engine.D20Result
	Total int
	DC    int
	// Success is nil when no DC was given
	Success *bool
	// Disadvantaged is set when exhaustion imposed disadvantage
	Disadvantaged bool
}

// MakeDeathSaveInput defines the request for a death saving throw
type MakeDeathSaveInput struct {
	Ref keyspace.Ref
}

// MakeDeathSaveOutput defines the response for a death saving throw
type MakeDeathSaveOutput struct {
	Natural    int
	Outcome    engine.DeathSaveOutcome
	DeathSaves entities.DeathSaves
	CurrentHP  int
}

// StabilizeInput defines the request for stabilizing a dying character
type StabilizeInput struct {
	Ref keyspace.Ref
}

// StabilizeOutput defines the response for stabilizing a dying character
type StabilizeOutput struct {
	Character *entities.Character
}
