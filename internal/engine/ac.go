package engine

import "github.com/KirkDiggler/dnd-mcp/internal/entities"

const (
	unarmoredBase = 10
	shieldBonus   = 2
	mediumDexCap  = 2
)

// ArmorClass computes AC from DEX and the equipped armor and shield. It
// reads nothing but its inputs, so repeated calls agree.
func ArmorClass(scores entities.AbilityScores, inv *entities.Inventory) int {
	dex := Modifier(scores.Dexterity)
	ac := unarmoredBase + dex

	if inv == nil {
		return ac
	}

	if armor, ok := inv.EquippedItem(entities.SlotArmor); ok && armor.Armor != nil {
		switch armor.Armor.Category {
		case entities.ArmorHeavy:
			ac = armor.Armor.BaseAC
		case entities.ArmorMedium:
			ac = armor.Armor.BaseAC + min(dex, mediumDexCap)
		default:
			ac = armor.Armor.BaseAC + dex
		}
	}

	if offHand, ok := inv.EquippedItem(entities.SlotOffHand); ok && offHand.Kind == entities.ItemKindShield {
		bonus := shieldBonus
		if offHand.Armor != nil && offHand.Armor.BaseAC > 0 {
			bonus = offHand.Armor.BaseAC
		}
		ac += bonus
	}

	return ac
}

// RecalculateAC stores the computed AC on c and returns it
func RecalculateAC(c *entities.Character, inv *entities.Inventory) int {
	c.AC = ArmorClass(c.Scores, inv)
	return c.AC
}

// CarryCapacity is STR x 15
func CarryCapacity(strength int) int {
	return strength * 15
}
