package entities

import (
	"strings"
	"unicode"
)

// ItemKind classifies inventory items
type ItemKind string

// Item kinds
const (
	ItemKindWeapon ItemKind = "weapon"
	ItemKindArmor  ItemKind = "armor"
	ItemKindShield ItemKind = "shield"
	ItemKindGear   ItemKind = "gear"
)

// ArmorCategory drives how DEX contributes to AC
type ArmorCategory string

// Armor categories
const (
	ArmorLight  ArmorCategory = "light"
	ArmorMedium ArmorCategory = "medium"
	ArmorHeavy  ArmorCategory = "heavy"
)

// Slot is an equipment slot
type Slot string

// Equipment slots
const (
	SlotMainHand Slot = "main_hand"
	SlotOffHand  Slot = "off_hand"
	SlotArmor    Slot = "armor"
)

// Slots lists the valid equipment slots
var Slots = []Slot{SlotMainHand, SlotOffHand, SlotArmor}

// ParseSlot validates a slot name
func ParseSlot(s string) (Slot, bool) {
	for _, slot := range Slots {
		if string(slot) == s {
			return slot, true
		}
	}
	return "", false
}

// AffectsDefense reports whether equipping into the slot can change AC
func (s Slot) AffectsDefense() bool {
	return s == SlotArmor || s == SlotOffHand
}

// WeaponStats is the combat data of a weapon
type WeaponStats struct {
	DamageDice string   `json:"damage_dice"`
	DamageType string   `json:"damage_type,omitempty"`
	Category   string   `json:"category,omitempty"`
	Properties []string `json:"properties"`
}

// HasProperty reports a weapon property such as finesse or ammunition
func (w *WeaponStats) HasProperty(p string) bool {
	for _, prop := range w.Properties {
		if strings.EqualFold(prop, p) {
			return true
		}
	}
	return false
}

// Finesse weapons may use STR or DEX
func (w *WeaponStats) Finesse() bool { return w.HasProperty("finesse") }

// Ranged weapons use DEX
func (w *WeaponStats) Ranged() bool {
	return strings.Contains(strings.ToLower(w.Category), "ranged") ||
		w.HasProperty("ammunition")
}

// ArmorStats is the defensive data of armor or a shield
type ArmorStats struct {
	Category ArmorCategory `json:"category,omitempty"`
	BaseAC   int           `json:"base_ac"`
}

// Item is a stack of one item in the inventory
type Item struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Quantity int          `json:"quantity"`
	Kind     ItemKind     `json:"kind"`
	Weapon   *WeaponStats `json:"weapon,omitempty"`
	Armor    *ArmorStats  `json:"armor,omitempty"`
}

// Inventory is the campaign's item and currency ledger
type Inventory struct {
	Items         []Item          `json:"items"`
	Equipped      map[Slot]string `json:"equipped"`
	Gold          int             `json:"gold"`
	CarryCapacity int             `json:"carry_capacity"`
}

// NewInventory returns an empty inventory with the given capacity
func NewInventory(capacity int) *Inventory {
	return &Inventory{
		Items:         []Item{},
		Equipped:      map[Slot]string{},
		CarryCapacity: capacity,
	}
}

// Find returns the item matching an id or a case-insensitive name
func (inv *Inventory) Find(nameOrID string) (*Item, bool) {
	id := ItemID(nameOrID)
	for i := range inv.Items {
		if inv.Items[i].ID == id {
			return &inv.Items[i], true
		}
	}
	return nil, false
}

// EquippedItem returns the item in slot
func (inv *Inventory) EquippedItem(slot Slot) (*Item, bool) {
	id, ok := inv.Equipped[slot]
	if !ok || id == "" {
		return nil, false
	}
	return inv.Find(id)
}

// SlotOf returns the slot an item is equipped in
func (inv *Inventory) SlotOf(itemID string) (Slot, bool) {
	for _, slot := range Slots {
		if inv.Equipped[slot] == itemID {
			return slot, true
		}
	}
	return "", false
}

// Remove drops the item stack at id
func (inv *Inventory) Remove(id string) {
	for i := range inv.Items {
		if inv.Items[i].ID == id {
			inv.Items = append(inv.Items[:i], inv.Items[i+1:]...)
			return
		}
	}
}

// ItemID derives the stable id of an item from its name
func ItemID(name string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastUnderscore = false
		case !lastUnderscore && b.Len() > 0:
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}
