package engine

import (
	"strings"

	"github.com/KirkDiggler/dnd-mcp/internal/entities"
)

// ClassInfo is the rules data the engine needs about a class
type ClassInfo struct {
	HitDie         int
	Saves          []entities.Ability
	CastingAbility entities.Ability
	Caster         casterKind
}

type casterKind int

const (
	casterNone casterKind = iota
	casterFull
	casterHalf
	casterPact
)

var classes = map[string]ClassInfo{
	"barbarian": {HitDie: 12, Saves: []entities.Ability{entities.AbilityStrength, entities.AbilityConstitution}},
	"bard":      {HitDie: 8, Saves: []entities.Ability{entities.AbilityDexterity, entities.AbilityCharisma}, CastingAbility: entities.AbilityCharisma, Caster: casterFull},
	"cleric":    {HitDie: 8, Saves: []entities.Ability{entities.AbilityWisdom, entities.AbilityCharisma}, CastingAbility: entities.AbilityWisdom, Caster: casterFull},
	"druid":     {HitDie: 8, Saves: []entities.Ability{entities.AbilityIntelligence, entities.AbilityWisdom}, CastingAbility: entities.AbilityWisdom, Caster: casterFull},
	"fighter":   {HitDie: 10, Saves: []entities.Ability{entities.AbilityStrength, entities.AbilityConstitution}},
	"monk":      {HitDie: 8, Saves: []entities.Ability{entities.AbilityStrength, entities.AbilityDexterity}},
	"paladin":   {HitDie: 10, Saves: []entities.Ability{entities.AbilityWisdom, entities.AbilityCharisma}, CastingAbility: entities.AbilityCharisma, Caster: casterHalf},
	"ranger":    {HitDie: 10, Saves: []entities.Ability{entities.AbilityStrength, entities.AbilityDexterity}, CastingAbility: entities.AbilityWisdom, Caster: casterHalf},
	"rogue":     {HitDie: 8, Saves: []entities.Ability{entities.AbilityDexterity, entities.AbilityIntelligence}},
	"sorcerer":  {HitDie: 6, Saves: []entities.Ability{entities.AbilityConstitution, entities.AbilityCharisma}, CastingAbility: entities.AbilityCharisma, Caster: casterFull},
	"warlock":   {HitDie: 8, Saves: []entities.Ability{entities.AbilityWisdom, entities.AbilityCharisma}, CastingAbility: entities.AbilityCharisma, Caster: casterPact},
	"wizard":    {HitDie: 6, Saves: []entities.Ability{entities.AbilityIntelligence, entities.AbilityWisdom}, CastingAbility: entities.AbilityIntelligence, Caster: casterFull},
}

// Class returns rules data for a class name; unknown classes get a d8 and
// no spellcasting.
func Class(name string) (ClassInfo, bool) {
	info, ok := classes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return ClassInfo{HitDie: 8}, false
	}
	return info, true
}

// IsCaster reports whether the class casts spells
func (c ClassInfo) IsCaster() bool { return c.Caster != casterNone }

// PactMagic reports warlock-style slots
func (c ClassInfo) PactMagic() bool { return c.Caster == casterPact }

// fullCasterSlots[level-1][slotLevel-1]
var fullCasterSlots = [20][9]int{
	{2}, {3}, {4, 2}, {4, 3}, {4, 3, 2},
	{4, 3, 3}, {4, 3, 3, 1}, {4, 3, 3, 2}, {4, 3, 3, 3, 1}, {4, 3, 3, 3, 2},
	{4, 3, 3, 3, 2, 1}, {4, 3, 3, 3, 2, 1}, {4, 3, 3, 3, 2, 1, 1}, {4, 3, 3, 3, 2, 1, 1}, {4, 3, 3, 3, 2, 1, 1, 1},
	{4, 3, 3, 3, 2, 1, 1, 1}, {4, 3, 3, 3, 2, 1, 1, 1, 1}, {4, 3, 3, 3, 3, 1, 1, 1, 1}, {4, 3, 3, 3, 3, 2, 1, 1, 1}, {4, 3, 3, 3, 3, 2, 2, 1, 1},
}

// pactSlots[level-1] = {count, slot level}
var pactSlots = [20][2]int{
	{1, 1}, {2, 1}, {2, 2}, {2, 2}, {2, 3}, {2, 3}, {2, 4}, {2, 4}, {2, 5}, {2, 5},
	{3, 5}, {3, 5}, {3, 5}, {3, 5}, {3, 5}, {3, 5}, {4, 5}, {4, 5}, {4, 5}, {4, 5},
}

// SpellSlotsFor returns slot maxima by slot level for class at level.
// Half casters use the full-caster row of half their level, rounded down.
func SpellSlotsFor(class string, level int) map[int]int {
	info, _ := Class(class)
	level = min(max(level, 1), MaxLevel)

	out := map[int]int{}
	switch info.Caster {
	case casterFull:
		for i, n := range fullCasterSlots[level-1] {
			if n > 0 {
				out[i+1] = n
			}
		}
	case casterHalf:
		if level < 2 {
			return out
		}
		for i, n := range fullCasterSlots[level/2-1] {
			if n > 0 {
				out[i+1] = n
			}
		}
	case casterPact:
		p := pactSlots[level-1]
		out[p[1]] = p[0]
	}
	return out
}

// NewSpellcasting builds full slots for a caster, or nil for non-casters.
func NewSpellcasting(class string, level int) *entities.Spellcasting {
	info, _ := Class(class)
	if !info.IsCaster() {
		return nil
	}
	sc := &entities.Spellcasting{
		Ability:   info.CastingAbility,
		Slots:     map[int]entities.SpellSlot{},
		PactMagic: info.PactMagic(),
	}
	for lvl, n := range SpellSlotsFor(class, level) {
		sc.Slots[lvl] = entities.SpellSlot{Max: n, Current: n}
	}
	return sc
}

// GrowSpellSlots moves slot maxima to table, keeping spent slots spent.
// Levels missing from table are removed.
func GrowSpellSlots(sc *entities.Spellcasting, table map[int]int) {
	spent := 0
	for lvl, slot := range sc.Slots {
		if _, ok := table[lvl]; !ok {
			spent += slot.Max - slot.Current
			delete(sc.Slots, lvl)
		}
	}
	for lvl, total := range table {
		slot := sc.Slots[lvl]
		used := slot.Max - slot.Current + spent
		spent = 0
		slot.Max = total
		slot.Current = max(0, total-used)
		sc.Slots[lvl] = slot
	}
}

// RestoreSpellSlots refills every slot
func RestoreSpellSlots(sc *entities.Spellcasting) {
	if sc == nil {
		return
	}
	for lvl, slot := range sc.Slots {
		slot.Current = slot.Max
		sc.Slots[lvl] = slot
	}
}
