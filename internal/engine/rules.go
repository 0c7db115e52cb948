package engine

import (
	"github.com/KirkDiggler/dnd-mcp/internal/entities"
	"github.com/KirkDiggler/dnd-mcp/internal/errors"
)

// MaxLevel is the highest character level
const MaxLevel = 20

// xpThresholds[i] is the cumulative XP needed for level i+1
var xpThresholds = []int{
	0, 300, 900, 2700, 6500, 14000, 23000, 34000, 48000, 64000,
	85000, 100000, 120000, 140000, 165000, 195000, 225000, 265000, 305000, 355000,
}

// Modifier returns floor((score-10)/2)
func Modifier(score int) int {
	d := score - 10
	if d < 0 {
		return (d - 1) / 2
	}
	return d / 2
}

// ProficiencyBonus returns the level-derived bonus: +2 at 1-4 up to +6 at 17-20
func ProficiencyBonus(level int) int {
	if level < 1 {
		level = 1
	}
	return 2 + (level-1)/4
}

// LevelForXP returns the highest level whose threshold xp has reached
func LevelForXP(xp int) int {
	level := 1
	for i, threshold := range xpThresholds {
		if xp >= threshold {
			level = i + 1
		}
	}
	return level
}

// XPForLevel returns the cumulative threshold of level
func XPForLevel(level int) int {
	if level < 1 {
		return 0
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	return xpThresholds[level-1]
}

// AverageHitDie is the fixed per-level gain of a die: die/2 + 1
func AverageHitDie(die int) int {
	return die/2 + 1
}

// MaxHPFor computes maximum hit points. Level 1 takes the full die; each
// further level takes the average or the next value from rolls. Every level
// contributes at least 1.
func MaxHPFor(hitDie, level, conMod int, method entities.HPMethod, rolls []int) int {
	hp := max(1, hitDie+conMod)
	for l := 2; l <= level; l++ {
		gain := AverageHitDie(hitDie)
		if method == entities.HPMethodRoll && len(rolls) >= l-1 {
			gain = rolls[l-2]
		}
		hp += max(1, gain+conMod)
	}
	return hp
}

// AddExperience adds xp and applies any level-ups it crosses: level,
// proficiency bonus, hit dice and spell slot maxima. Max HP is left to an
// explicit ApplyHPDelta(HPMax) call.
func AddExperience(c *entities.Character, xp int) (leveledUp bool, newLevel int, err error) {
	if xp < 0 {
		vb := errors.NewValidationBuilder()
		errors.ValidateNonNegative("xp", xp, vb)
		return false, c.Level, vb.Build()
	}

	c.XP += xp
	target := LevelForXP(c.XP)
	if target <= c.Level {
		return false, c.Level, nil
	}

	gained := target - c.Level
	c.Level = target
	c.ProficiencyBonus = ProficiencyBonus(target)
	c.HitDice.Max += gained
	c.HitDice.Current += gained
	if c.HitDice.Current > c.HitDice.Max {
		c.HitDice.Current = c.HitDice.Max
	}

	if c.Spellcasting != nil {
		GrowSpellSlots(c.Spellcasting, SpellSlotsFor(c.Class, target))
	}

	return true, target, nil
}
