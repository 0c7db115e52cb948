package engine

import (
	"sort"
	"strings"

	"github.com/KirkDiggler/dnd-mcp/internal/entities"
	"github.com/KirkDiggler/dnd-mcp/internal/errors"
)

// CastResult reports the slot a spell consumed
type CastResult struct {
	Spell              string `json:"spell"`
	SlotLevel          int    `json:"slot_level"`
	SlotsRemaining     int    `json:"slots_remaining"`
	Concentration      bool   `json:"concentration"`
	EndedConcentration string `json:"ended_concentration,omitempty"`
}

// CastSpell spends the lowest available slot at or above level. Cantrips
// (level 0) spend nothing. When the prepared list is non-empty the spell
// must be on it. A failed cast leaves the slots untouched.
func CastSpell(c *entities.Character, spell string, level int, concentration bool) (*CastResult, error) {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("spell_name", spell, vb)
	errors.ValidateRange("spell_level", level, 0, 9, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	sc := c.Spellcasting
	if sc == nil {
		return nil, errors.InvalidStatef(errors.ReasonNoSlotAvailable, "%s cannot cast spells", c.Name).
			WithMeta("spell_level", level)
	}
	if len(sc.Prepared) > 0 && !isPrepared(sc.Prepared, spell) {
		return nil, errors.InvalidStatef(errors.ReasonSpellNotPrepared, "%s is not prepared", spell).
			WithMeta("spell", spell)
	}

	res := &CastResult{Spell: spell, Concentration: concentration}
	if level > 0 {
		slotLevel := 0
		for _, lvl := range slotLevels(sc) {
			if lvl >= level && sc.Slots[lvl].Current > 0 {
				slotLevel = lvl
				break
			}
		}
		if slotLevel == 0 {
			return nil, errors.InvalidStatef(errors.ReasonNoSlotAvailable, "no spell slot of level %d or higher available", level).
				WithMeta("spell_level", level)
		}
		slot := sc.Slots[slotLevel]
		slot.Current--
		sc.Slots[slotLevel] = slot
		res.SlotLevel = slotLevel
		res.SlotsRemaining = slot.Current
	}

	if concentration {
		if sc.Concentration != "" {
			res.EndedConcentration = sc.Concentration
		}
		sc.Concentration = spell
		c.Conditions = ApplyCondition(c.Conditions, ConditionConcentrating, 0, 0)
	}
	return res, nil
}

// PrepareSpells replaces the prepared list, dropping blanks and duplicates
func PrepareSpells(c *entities.Character, names []string) ([]string, error) {
	if c.Spellcasting == nil {
		return nil, errors.FailedPreconditionf("%s cannot cast spells", c.Name)
	}
	seen := map[string]bool{}
	prepared := []string{}
	for _, n := range names {
		n = strings.TrimSpace(n)
		key := strings.ToLower(n)
		if n == "" || seen[key] {
			continue
		}
		seen[key] = true
		prepared = append(prepared, n)
	}
	c.Spellcasting.Prepared = prepared
	return prepared, nil
}

// EndConcentration clears the concentration target and returns it
func EndConcentration(c *entities.Character) string {
	if c.Spellcasting == nil || c.Spellcasting.Concentration == "" {
		return ""
	}
	ended := c.Spellcasting.Concentration
	c.Spellcasting.Concentration = ""
	c.Conditions, _ = RemoveCondition(c.Conditions, ConditionConcentrating, 0)
	return ended
}

func slotLevels(sc *entities.Spellcasting) []int {
	levels := make([]int, 0, len(sc.Slots))
	for lvl := range sc.Slots {
		levels = append(levels, lvl)
	}
	sort.Ints(levels)
	return levels
}

func isPrepared(prepared []string, spell string) bool {
	for _, p := range prepared {
		if strings.EqualFold(p, spell) {
			return true
		}
	}
	return false
}
