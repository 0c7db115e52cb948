package mcp

import (
	"sort"
	"time"

	"github.com/KirkDiggler/dnd-mcp/internal/engine"
	"github.com/KirkDiggler/dnd-mcp/internal/entities"
)

// Tool outputs carry RFC 3339 strings and slices instead of time.Time and
// int-keyed maps so their JSON schemas can be inferred.

// SpellSlotView is one level of spell slots
type SpellSlotView struct {
	Level   int `json:"level"`
	Max     int `json:"max"`
	Current int `json:"current"`
}

// SpellcastingView is the spellcasting block of a character
type SpellcastingView struct {
	Ability       string          `json:"ability"`
	Slots         []SpellSlotView `json:"slots"`
	Prepared      []string        `json:"prepared,omitempty"`
	Concentration string          `json:"concentration,omitempty"`
	PactMagic     bool            `json:"pact_magic,omitempty"`
}

// CharacterView is the full character sheet
type CharacterView struct {
	ID                 string                 `json:"id"`
	Name               string                 `json:"name"`
	Race               string                 `json:"race"`
	Class              string                 `json:"class"`
	Background         string                 `json:"background,omitempty"`
	Level              int                    `json:"level"`
	XP                 int                    `json:"xp"`
	Scores             entities.AbilityScores `json:"scores"`
	Modifiers          map[string]int         `json:"modifiers"`
	MaxHP              int                    `json:"max_hp"`
	CurrentHP          int                    `json:"current_hp"`
	TempHP             int                    `json:"temp_hp"`
	AC                 int                    `json:"ac"`
	Speed              int                    `json:"speed"`
	ProficiencyBonus   int                    `json:"proficiency_bonus"`
	HitDice            entities.HitDice       `json:"hit_dice"`
	DeathSaves         entities.DeathSaves    `json:"death_saves"`
	SkillProficiencies []string               `json:"skill_proficiencies,omitempty"`
	SaveProficiencies  []string               `json:"save_proficiencies,omitempty"`
	Attacks            []entities.Attack      `json:"attacks,omitempty"`
	Spellcasting       *SpellcastingView      `json:"spellcasting,omitempty"`
	Conditions         []entities.Condition   `json:"conditions,omitempty"`
	Features           []entities.Feature     `json:"features,omitempty"`
	CreatedAt          string                 `json:"created_at"`
	UpdatedAt          string                 `json:"updated_at"`
}

// ItemView is one inventory stack
type ItemView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Kind     string `json:"kind"`
	// Slot is set when the item is equipped
	Slot   string                `json:"slot,omitempty"`
	Weapon *entities.WeaponStats `json:"weapon,omitempty"`
	Armor  *entities.ArmorStats  `json:"armor,omitempty"`
}

// InventoryView is the item and currency ledger
type InventoryView struct {
	Items         []ItemView        `json:"items"`
	Equipped      map[string]string `json:"equipped"`
	Gold          int               `json:"gold"`
	CarryCapacity int               `json:"carry_capacity"`
}

// EncounterView is the combat state
type EncounterView struct {
	ID               string               `json:"id"`
	Status           string               `json:"status"`
	Round            int                  `json:"round"`
	InitiativeRolled bool                 `json:"initiative_rolled"`
	CurrentID        string               `json:"current_id,omitempty"`
	Combatants       []entities.Combatant `json:"combatants"`
	StartedAt        string               `json:"started_at"`
}

// SessionEntryView is one recorded session summary
type SessionEntryView struct {
	ID         int    `json:"id"`
	RecordedAt string `json:"recorded_at"`
	Summary    string `json:"summary"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func slotViews(slots map[int]entities.SpellSlot) []SpellSlotView {
	out := make([]SpellSlotView, 0, len(slots))
	for lvl, slot := range slots {
		out = append(out, SpellSlotView{Level: lvl, Max: slot.Max, Current: slot.Current})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Level < out[j].Level })
	return out
}

func characterView(c *entities.Character) CharacterView {
	if c == nil {
		return CharacterView{}
	}
	v := CharacterView{
		ID:                 c.ID,
		Name:               c.Name,
		Race:               c.Race,
		Class:              c.Class,
		Background:         c.Background,
		Level:              c.Level,
		XP:                 c.XP,
		Scores:             c.Scores,
		Modifiers:          make(map[string]int, len(entities.Abilities)),
		MaxHP:              c.MaxHP,
		CurrentHP:          c.CurrentHP,
		TempHP:             c.TempHP,
		AC:                 c.AC,
		Speed:              c.Speed,
		ProficiencyBonus:   c.ProficiencyBonus,
		HitDice:            c.HitDice,
		DeathSaves:         c.DeathSaves,
		SkillProficiencies: c.SkillProficiencies,
		Attacks:            c.Attacks,
		Conditions:         c.Conditions,
		Features:           c.Features,
		CreatedAt:          formatTime(c.CreatedAt),
		UpdatedAt:          formatTime(c.UpdatedAt),
	}
	for _, a := range entities.Abilities {
		v.Modifiers[string(a)] = engine.Modifier(c.Scores.Get(a))
	}
	for _, a := range c.SaveProficiencies {
		v.SaveProficiencies = append(v.SaveProficiencies, string(a))
	}
	if sc := c.Spellcasting; sc != nil {
		v.Spellcasting = &SpellcastingView{
			Ability:       string(sc.Ability),
			Slots:         slotViews(sc.Slots),
			Prepared:      sc.Prepared,
			Concentration: sc.Concentration,
			PactMagic:     sc.PactMagic,
		}
	}
	return v
}

func inventoryView(inv *entities.Inventory) InventoryView {
	if inv == nil {
		return InventoryView{Items: []ItemView{}, Equipped: map[string]string{}}
	}
	v := InventoryView{
		Items:         make([]ItemView, 0, len(inv.Items)),
		Equipped:      make(map[string]string, len(inv.Equipped)),
		Gold:          inv.Gold,
		CarryCapacity: inv.CarryCapacity,
	}
	for slot, id := range inv.Equipped {
		v.Equipped[string(slot)] = id
	}
	for _, it := range inv.Items {
		iv := ItemView{
			ID:       it.ID,
			Name:     it.Name,
			Quantity: it.Quantity,
			Kind:     string(it.Kind),
			Weapon:   it.Weapon,
			Armor:    it.Armor,
		}
		if slot, ok := inv.SlotOf(it.ID); ok {
			iv.Slot = string(slot)
		}
		v.Items = append(v.Items, iv)
	}
	return v
}

func encounterView(enc *entities.Encounter) EncounterView {
	if enc == nil {
		return EncounterView{Combatants: []entities.Combatant{}}
	}
	v := EncounterView{
		ID:               enc.ID,
		Status:           string(enc.Status),
		Round:            enc.Round,
		InitiativeRolled: enc.InitiativeRolled,
		Combatants:       enc.Combatants,
		StartedAt:        formatTime(enc.StartedAt),
	}
	if enc.InitiativeRolled {
		if cur, ok := enc.Current(); ok {
			v.CurrentID = cur.ID
		}
	}
	return v
}

func sessionEntryViews(entries []entities.SessionEntry) []SessionEntryView {
	out := make([]SessionEntryView, 0, len(entries))
	for _, e := range entries {
		out = append(out, SessionEntryView{ID: e.ID, RecordedAt: formatTime(e.RecordedAt), Summary: e.Summary})
	}
	return out
}
