package engine

import (
	"github.com/KirkDiggler/dnd-mcp/internal/entities"
	"github.com/KirkDiggler/dnd-mcp/internal/errors"
)

// RestSummary reports what a rest restored
type RestSummary struct {
	Kind              entities.RestKind `json:"kind"`
	HPRestored        int               `json:"hp_restored"`
	HitDiceRestored   int               `json:"hit_dice_restored"`
	SlotsRestored     bool              `json:"spell_slots_restored"`
	FeaturesRestored  []string          `json:"features_restored,omitempty"`
	ExhaustionReduced bool              `json:"exhaustion_reduced"`
}

// ParseRestKind accepts short or long
func ParseRestKind(s string) (entities.RestKind, error) {
	switch entities.RestKind(s) {
	case entities.RestShort, entities.RestLong:
		return entities.RestKind(s), nil
	}
	vb := errors.NewValidationBuilder()
	errors.ValidateEnum("rest_type", s, []string{string(entities.RestShort), string(entities.RestLong)}, vb)
	return "", vb.Build()
}

// Rest applies a short or long rest to c.
//
// A short rest restores short-rest features only; spell slots wait for a
// long rest, pact slots included. A long rest restores everything: HP to max, temp HP cleared, every
// slot and feature, half the hit dice (at least one), one exhaustion level
// and the death saves.
func Rest(c *entities.Character, kind entities.RestKind) *RestSummary {
	summary := &RestSummary{Kind: kind}

	for i := range c.Features {
		f := &c.Features[i]
		if f.Uses >= f.Max {
			continue
		}
		if kind == entities.RestLong || f.ResetsOn == entities.RestShort {
			f.Uses = f.Max
			summary.FeaturesRestored = append(summary.FeaturesRestored, f.Name)
		}
	}

	if kind == entities.RestShort {
		return summary
	}

	summary.HPRestored = c.MaxHP - c.CurrentHP
	c.CurrentHP = c.MaxHP
	c.TempHP = 0
	c.DeathSaves.Reset()

	if c.Spellcasting != nil {
		RestoreSpellSlots(c.Spellcasting)
		c.Spellcasting.Concentration = ""
		summary.SlotsRestored = true
	}

	before := c.HitDice.Current
	c.HitDice.Current = min(c.HitDice.Max, c.HitDice.Current+max(1, c.HitDice.Max/2))
	summary.HitDiceRestored = c.HitDice.Current - before

	var had bool
	c.Conditions, had = RemoveCondition(c.Conditions, ConditionExhaustion, 1)
	summary.ExhaustionReduced = had
	c.Conditions, _ = RemoveCondition(c.Conditions, ConditionConcentrating, 0)

	return summary
}

// SpendHitDice spends count hit dice, rolling each plus CON (at least 1 per
// die), and heals c up to max HP. It returns the individual rolls and the
// HP actually gained.
func SpendHitDice(c *entities.Character, d *Dice, count int) (rolls []int, healed int, err error) {
	vb := errors.NewValidationBuilder()
	errors.ValidatePositive("count", count, vb)
	if err := vb.Build(); err != nil {
		return nil, 0, err
	}
	if c.DeathSaves.Dead {
		return nil, 0, errors.InvalidStatef(errors.ReasonCharacterDead, "%s is dead", c.Name)
	}
	if c.HitDice.Current <= 0 {
		return nil, 0, errors.InvalidStatef(errors.ReasonNoHitDice, "%s has no hit dice remaining", c.Name)
	}

	count = min(count, c.HitDice.Current)
	conMod := Modifier(c.Scores.Constitution)
	gain := 0
	for i := 0; i < count; i++ {
		r, err := d.Die(c.HitDice.Die)
		if err != nil {
			return nil, 0, err
		}
		rolls = append(rolls, r)
		gain += max(1, r+conMod)
	}

	c.HitDice.Current -= count
	before := c.CurrentHP
	if before == 0 && gain > 0 {
		c.DeathSaves.Reset()
	}
	c.CurrentHP = min(c.MaxHP, c.CurrentHP+gain)
	return rolls, c.CurrentHP - before, nil
}
