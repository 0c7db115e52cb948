package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KirkDiggler/dnd-mcp/internal/entities"
	"github.com/KirkDiggler/dnd-mcp/internal/testutils"
)

func TestArmorClass(t *testing.T) {
	scores := testutils.CreateTestAbilityScores() // DEX 14 (+2)

	t.Run("unarmored", func(t *testing.T) {
		assert.Equal(t, 12, ArmorClass(scores, nil))
		assert.Equal(t, 12, ArmorClass(scores, entities.NewInventory(0)))
	})

	t.Run("heavy armor ignores dex", func(t *testing.T) {
		inv := testutils.CreateTestInventory()
		inv.Equipped[entities.SlotArmor] = "chain_mail"
		assert.Equal(t, 16, ArmorClass(scores, inv))
	})

	t.Run("shield adds two", func(t *testing.T) {
		inv := testutils.CreateTestInventory()
		inv.Equipped[entities.SlotArmor] = "chain_mail"
		inv.Equipped[entities.SlotOffHand] = "shield"
		assert.Equal(t, 18, ArmorClass(scores, inv))
	})

	t.Run("light armor adds full dex", func(t *testing.T) {
		inv := entities.NewInventory(0)
		inv.Items = append(inv.Items, entities.Item{
			ID: "leather_armor", Name: "Leather Armor", Quantity: 1, Kind: entities.ItemKindArmor,
			Armor: &entities.ArmorStats{Category: entities.ArmorLight, BaseAC: 11},
		})
		inv.Equipped[entities.SlotArmor] = "leather_armor"
		assert.Equal(t, 13, ArmorClass(scores, inv))
	})

	t.Run("medium armor caps dex at two", func(t *testing.T) {
		inv := entities.NewInventory(0)
		inv.Items = append(inv.Items, entities.Item{
			ID: "scale_mail", Name: "Scale Mail", Quantity: 1, Kind: entities.ItemKindArmor,
			Armor: &entities.ArmorStats{Category: entities.ArmorMedium, BaseAC: 14},
		})
		inv.Equipped[entities.SlotArmor] = "scale_mail"

		nimble := scores
		nimble.Dexterity = 18
		assert.Equal(t, 16, ArmorClass(nimble, inv))
	})

	t.Run("weapon in the off hand adds nothing", func(t *testing.T) {
		inv := testutils.CreateTestInventory()
		inv.Equipped[entities.SlotOffHand] = "longsword"
		assert.Equal(t, 12, ArmorClass(scores, inv))
	})
}

func TestRecalculateAC_Idempotent(t *testing.T) {
	c := testutils.CreateTestFighter()
	inv := testutils.CreateTestInventory()
	inv.Equipped[entities.SlotArmor] = "chain_mail"

	first := RecalculateAC(c, inv)
	second := RecalculateAC(c, inv)

	assert.Equal(t, 16, first)
	assert.Equal(t, first, second)
	assert.Equal(t, 16, c.AC)
}

func TestCarryCapacity(t *testing.T) {
	assert.Equal(t, 225, CarryCapacity(15))
}
