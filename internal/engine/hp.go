package engine

import (
	"github.com/KirkDiggler/dnd-mcp/internal/entities"
	"github.com/KirkDiggler/dnd-mcp/internal/errors"
)

// HPKind selects how ApplyHPDelta interprets the amount
type HPKind string

// HP delta kinds
const (
	HPDamage    HPKind = "damage"
	HPHealing   HPKind = "healing"
	HPMax       HPKind = "max"
	HPTemporary HPKind = "temporary"
)

// ParseHPKind accepts the kinds above plus "heal" and "temp"
func ParseHPKind(s string) (HPKind, bool) {
	switch s {
	case "damage":
		return HPDamage, true
	case "healing", "heal":
		return HPHealing, true
	case "max":
		return HPMax, true
	case "temporary", "temp":
		return HPTemporary, true
	}
	return "", false
}

// HPChange describes what an HP delta did
type HPChange struct {
	Previous    int                 `json:"previous_hp"`
	Current     int                 `json:"current_hp"`
	Max         int                 `json:"max_hp"`
	Temp        int                 `json:"temp_hp"`
	Absorbed    int                 `json:"absorbed_by_temp_hp"`
	Unconscious bool                `json:"unconscious"`
	Dead        bool                `json:"dead"`
	DeathSaves  entities.DeathSaves `json:"death_saves"`
}

func validateHPDelta(amount int, kind HPKind) error {
	vb := errors.NewValidationBuilder()
	errors.ValidateNonNegative("amount", amount, vb)
	errors.ValidateEnum("kind", string(kind),
		[]string{string(HPDamage), string(HPHealing), string(HPMax), string(HPTemporary)}, vb)
	if kind == HPMax {
		errors.ValidatePositive("amount", amount, vb)
	}
	return vb.Build()
}

// ApplyHPDelta mutates a character's hit points.
//
// Damage drains temporary HP first, then current HP, which stops at 0 and
// puts the character into the death-save sub-state. Remaining damage of at
// least max HP at that point kills outright. Damage taken while already at
// 0 HP adds a death-save failure, two on a critical hit. Healing is capped
// at max HP and clears death saves when it brings the character up from 0.
// Max replaces max HP and clamps current HP; temporary replaces the buffer.
func ApplyHPDelta(c *entities.Character, amount int, kind HPKind, critical bool) (*HPChange, error) {
	if err := validateHPDelta(amount, kind); err != nil {
		return nil, err
	}
	if c.DeathSaves.Dead && (kind == HPDamage || kind == HPHealing) && amount > 0 {
		return nil, errors.InvalidStatef(errors.ReasonCharacterDead, "%s is dead", c.Name)
	}

	change := &HPChange{Previous: c.CurrentHP}

	switch kind {
	case HPDamage:
		absorbed := min(c.TempHP, amount)
		c.TempHP -= absorbed
		change.Absorbed = absorbed
		remaining := amount - absorbed

		switch {
		case remaining == 0:
		case c.CurrentHP == 0:
			if remaining >= c.MaxHP {
				c.DeathSaves.Dead = true
				break
			}
			c.DeathSaves.Stable = false
			c.DeathSaves.Failures += 1
			if critical {
				c.DeathSaves.Failures += 1
			}
			if c.DeathSaves.Failures >= 3 {
				c.DeathSaves.Failures = 3
				c.DeathSaves.Dead = true
			}
		case remaining >= c.CurrentHP:
			overflow := remaining - c.CurrentHP
			c.CurrentHP = 0
			c.DeathSaves.Reset()
			if overflow >= c.MaxHP {
				c.DeathSaves.Dead = true
			}
		default:
			c.CurrentHP -= remaining
		}

	case HPHealing:
		if amount > 0 && c.CurrentHP == 0 {
			c.DeathSaves.Reset()
		}
		c.CurrentHP = min(c.MaxHP, c.CurrentHP+amount)

	case HPMax:
		c.MaxHP = amount
		c.CurrentHP = min(c.CurrentHP, c.MaxHP)

	case HPTemporary:
		c.TempHP = amount
	}

	change.Current = c.CurrentHP
	change.Max = c.MaxHP
	change.Temp = c.TempHP
	change.Unconscious = c.Unconscious()
	change.Dead = c.DeathSaves.Dead
	change.DeathSaves = c.DeathSaves
	return change, nil
}

// ApplyCombatantHPDelta mutates a roster member. Monsters at 0 HP are dead;
// the player is unconscious and tracked through the character record.
func ApplyCombatantHPDelta(cb *entities.Combatant, amount int, kind HPKind) (*HPChange, error) {
	if err := validateHPDelta(amount, kind); err != nil {
		return nil, err
	}

	change := &HPChange{Previous: cb.HP}
	switch kind {
	case HPDamage:
		absorbed := min(cb.TempHP, amount)
		cb.TempHP -= absorbed
		change.Absorbed = absorbed
		cb.HP = max(0, cb.HP-(amount-absorbed))
	case HPHealing:
		if cb.Status == entities.StatusDead && amount > 0 {
			return nil, errors.InvalidStatef(errors.ReasonCharacterDead, "%s is dead", cb.Name)
		}
		cb.HP = min(cb.MaxHP, cb.HP+amount)
	case HPMax:
		cb.MaxHP = amount
		cb.HP = min(cb.HP, cb.MaxHP)
	case HPTemporary:
		cb.TempHP = amount
	}
	UpdateCombatantStatus(cb)

	change.Current = cb.HP
	change.Max = cb.MaxHP
	change.Temp = cb.TempHP
	change.Unconscious = cb.Status == entities.StatusUnconscious
	change.Dead = cb.Status == entities.StatusDead
	return change, nil
}

// UpdateCombatantStatus derives status from HP
func UpdateCombatantStatus(cb *entities.Combatant) {
	switch {
	case cb.HP > 0:
		cb.Status = entities.StatusActive
	case cb.Kind == entities.CombatantMonster:
		cb.Status = entities.StatusDead
	case cb.Status != entities.StatusDead:
		cb.Status = entities.StatusUnconscious
	}
}

// SyncPlayerCombatant copies the character's HP into its roster entry
func SyncPlayerCombatant(c *entities.Character, cb *entities.Combatant) {
	cb.HP = c.CurrentHP
	cb.MaxHP = c.MaxHP
	cb.TempHP = c.TempHP
	cb.AC = c.AC
	if c.DeathSaves.Dead {
		cb.Status = entities.StatusDead
		return
	}
	UpdateCombatantStatus(cb)
}
