package content

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/fadedpez/dnd5e-api/clients/dnd5e"
	dndentities "github.com/fadedpez/dnd5e-api/entities"

	"github.com/KirkDiggler/dnd-mcp/internal/entities"
)

var (
	slugPattern   = regexp.MustCompile(`[^a-z0-9-]+`)
	hyphenPattern = regexp.MustCompile(`-+`)
)

// generateSlug turns a display name into a dnd5eapi index
func generateSlug(s string) string {
	slug := strings.ToLower(strings.TrimSpace(s))
	slug = strings.ReplaceAll(slug, " ", "-")
	slug = slugPattern.ReplaceAllString(slug, "-")
	slug = hyphenPattern.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

func convertSpell(spell *dndentities.Spell) *SpellInfo {
	info := &SpellInfo{
		Key:           spell.Key,
		Name:          spell.Name,
		Level:         spell.SpellLevel,
		CastingTime:   spell.CastingTime,
		Range:         spell.Range,
		Duration:      spell.Duration,
		Concentration: spell.Concentration,
		Ritual:        spell.Ritual,
		Source:        SourceAPI,
	}
	if spell.SpellSchool != nil {
		info.School = spell.SpellSchool.Name
	}
	for _, class := range spell.SpellClasses {
		if class != nil {
			info.Classes = append(info.Classes, strings.ToLower(class.Name))
		}
	}
	return info
}

func convertEquipment(equipment dnd5e.EquipmentInterface) *ItemInfo {
	switch eq := equipment.(type) {
	case *dndentities.Weapon:
		info := &ItemInfo{
			Key:    eq.Key,
			Name:   eq.Name,
			Kind:   entities.ItemKindWeapon,
			Cost:   formatCost(eq.Cost),
			Source: SourceAPI,
			Weapon: &entities.WeaponStats{
				Category: strings.TrimSpace(eq.WeaponCategory + " " + eq.WeaponRange),
			},
		}
		if eq.Damage != nil {
			info.Weapon.DamageDice = eq.Damage.DamageDice
			if eq.Damage.DamageType != nil {
				info.Weapon.DamageType = strings.ToLower(eq.Damage.DamageType.Name)
			}
		}
		for _, prop := range eq.Properties {
			if prop != nil {
				info.Weapon.Properties = append(info.Weapon.Properties, prop.Name)
			}
		}
		return info

	case *dndentities.Armor:
		info := &ItemInfo{
			Key:    eq.Key,
			Name:   eq.Name,
			Kind:   entities.ItemKindArmor,
			Cost:   formatCost(eq.Cost),
			Source: SourceAPI,
			Armor:  &entities.ArmorStats{},
		}
		if eq.ArmorClass != nil {
			info.Armor.BaseAC = eq.ArmorClass.Base
		}
		switch strings.ToLower(eq.ArmorCategory) {
		case "shield":
			info.Kind = entities.ItemKindShield
		case "light":
			info.Armor.Category = entities.ArmorLight
		case "medium":
			info.Armor.Category = entities.ArmorMedium
		case "heavy":
			info.Armor.Category = entities.ArmorHeavy
		}
		return info

	case *dndentities.Equipment:
		info := &ItemInfo{
			Key:    eq.Key,
			Name:   eq.Name,
			Kind:   entities.ItemKindGear,
			Cost:   formatCost(eq.Cost),
			Source: SourceAPI,
		}
		// some API versions list the shield as plain equipment
		if eq.Key == "shield" {
			info.Kind = entities.ItemKindShield
			info.Armor = &entities.ArmorStats{BaseAC: 2}
		}
		return info
	}
	return nil
}

func formatCost(cost *dndentities.Cost) string {
	if cost == nil {
		return ""
	}
	return fmt.Sprintf("%d %s", cost.Quantity, cost.Unit)
}
