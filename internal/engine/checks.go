package engine

import (
	"github.com/KirkDiggler/dnd-mcp/internal/entities"
	"github.com/KirkDiggler/dnd-mcp/internal/errors"
)

// CheckBonus is the modifier breakdown of an ability or skill check
type CheckBonus struct {
	Skill      string           `json:"skill,omitempty"`
	Ability    entities.Ability `json:"ability"`
	Modifier   int              `json:"modifier"`
	Proficient bool             `json:"proficient"`
	Total      int              `json:"total_bonus"`
}

// CheckBonusFor resolves a skill or ability name against c
func CheckBonusFor(c *entities.Character, skillOrAbility string) (*CheckBonus, error) {
	if a, ok := entities.ParseAbility(skillOrAbility); ok {
		mod := Modifier(c.Scores.Get(a))
		return &CheckBonus{Ability: a, Modifier: mod, Total: mod}, nil
	}

	skill := entities.NormalizeSkill(skillOrAbility)
	a, ok := entities.Skills[skill]
	if !ok {
		return nil, errors.InvalidArgumentf("unknown skill or ability: %q", skillOrAbility).
			WithMeta("field", "skill")
	}
	b := &CheckBonus{Skill: skill, Ability: a, Modifier: Modifier(c.Scores.Get(a))}
	b.Proficient = c.ProficientIn(skill)
	b.Total = b.Modifier
	if b.Proficient {
		b.Total += c.ProficiencyBonus
	}
	return b, nil
}

// SaveBonusFor resolves a saving throw bonus against c
func SaveBonusFor(c *entities.Character, ability string) (*CheckBonus, error) {
	a, ok := entities.ParseAbility(ability)
	if !ok {
		return nil, errors.InvalidArgumentf("unknown ability: %q", ability).
			WithMeta("field", "ability")
	}
	b := &CheckBonus{Ability: a, Modifier: Modifier(c.Scores.Get(a))}
	b.Proficient = c.ProficientSave(a)
	b.Total = b.Modifier
	if b.Proficient {
		b.Total += c.ProficiencyBonus
	}
	return b, nil
}

// DeathSaveOutcome names what a death save did
type DeathSaveOutcome string

// Death save outcomes
const (
	DeathSaveSuccess  DeathSaveOutcome = "success"
	DeathSaveFailure  DeathSaveOutcome = "failure"
	DeathSaveStable   DeathSaveOutcome = "stable"
	DeathSaveDead     DeathSaveOutcome = "dead"
	DeathSaveRevived  DeathSaveOutcome = "revived"
	DeathSaveCritFail DeathSaveOutcome = "critical_failure"
)

// ApplyDeathSave records a natural d20 death save on c. A 1 counts as two
// failures, a 20 restores 1 HP and clears the saves, 10 or more succeeds.
// Three successes stabilize and three failures kill.
func ApplyDeathSave(c *entities.Character, natural int) (DeathSaveOutcome, error) {
	if err := CheckDying(c); err != nil {
		return "", err
	}
	if c.DeathSaves.Stable {
		return DeathSaveStable, nil
	}

	outcome := DeathSaveSuccess
	switch {
	case natural == 20:
		c.DeathSaves.Reset()
		c.CurrentHP = 1
		return DeathSaveRevived, nil
	case natural == 1:
		c.DeathSaves.Failures += 2
		outcome = DeathSaveCritFail
	case natural >= 10:
		c.DeathSaves.Successes++
	default:
		c.DeathSaves.Failures++
		outcome = DeathSaveFailure
	}

	if c.DeathSaves.Failures >= 3 {
		c.DeathSaves.Failures = 3
		c.DeathSaves.Dead = true
		return DeathSaveDead, nil
	}
	if c.DeathSaves.Successes >= 3 {
		c.DeathSaves.Successes = 3
		c.DeathSaves.Stable = true
		return DeathSaveStable, nil
	}
	return outcome, nil
}

// CheckDying fails unless c is at 0 HP and still alive
func CheckDying(c *entities.Character) error {
	if c.DeathSaves.Dead {
		return errors.InvalidStatef(errors.ReasonCharacterDead, "%s is dead", c.Name)
	}
	if c.CurrentHP > 0 {
		return errors.FailedPreconditionf("%s is not dying", c.Name).WithReason(errors.ReasonNotDying)
	}
	return nil
}

// Stabilize marks a dying character stable without healing
func Stabilize(c *entities.Character) error {
	if err := CheckDying(c); err != nil {
		return err
	}
	c.DeathSaves = entities.DeathSaves{Stable: true}
	return nil
}
