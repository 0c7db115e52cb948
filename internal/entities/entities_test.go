package entities_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/dnd-mcp/internal/entities"
)

func TestItemID(t *testing.T) {
	testCases := map[string]string{
		"Longsword":          "longsword",
		"  Chain Mail ":      "chain_mail",
		"Potion of Healing!": "potion_of_healing",
		"chain_mail":         "chain_mail",
		"Dungeoneer's Pack":  "dungeoneer_s_pack",
	}
	for in, want := range testCases {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, entities.ItemID(in))
		})
	}
}

func TestInventoryLookups(t *testing.T) {
	inv := entities.NewInventory(150)
	inv.Items = append(inv.Items,
		entities.Item{ID: "longsword", Name: "Longsword", Quantity: 1, Kind: entities.ItemKindWeapon},
		entities.Item{ID: "shield", Name: "Shield", Quantity: 1, Kind: entities.ItemKindShield},
	)
	inv.Equipped[entities.SlotOffHand] = "shield"

	item, ok := inv.Find("LONGSWORD")
	require.True(t, ok)
	assert.Equal(t, "Longsword", item.Name)

	equipped, ok := inv.EquippedItem(entities.SlotOffHand)
	require.True(t, ok)
	assert.Equal(t, "shield", equipped.ID)

	slot, ok := inv.SlotOf("shield")
	require.True(t, ok)
	assert.Equal(t, entities.SlotOffHand, slot)

	inv.Remove("longsword")
	_, ok = inv.Find("longsword")
	assert.False(t, ok)
}

func TestSessionLogIDsAreMonotonic(t *testing.T) {
	var log entities.SessionLog
	at := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	first := log.Append("arrived at Phandalin", at)
	second := log.Append("cleared the hideout", at)

	assert.Equal(t, 1, first.ID)
	assert.Equal(t, 2, second.ID)
	assert.Equal(t, 3, log.NextID)
}

func TestCharacterRoundTripsThroughJSON(t *testing.T) {
	c := entities.Character{
		ID:     "char_1",
		Name:   "Thorin",
		Level:  3,
		Scores: entities.AbilityScores{Strength: 16, Dexterity: 12, Constitution: 14, Intelligence: 8, Wisdom: 10, Charisma: 10},
		Spellcasting: &entities.Spellcasting{
			Ability: entities.AbilityWisdom,
			Slots:   map[int]entities.SpellSlot{1: {Max: 4, Current: 2}, 2: {Max: 2, Current: 2}},
		},
		Conditions: []entities.Condition{{Name: "poisoned", Duration: 3}},
		CreatedAt:  time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	}

	raw, err := json.Marshal(c)
	require.NoError(t, err)

	var back entities.Character
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, c, back)
}

func TestParseAbility(t *testing.T) {
	a, ok := entities.ParseAbility("Dexterity")
	require.True(t, ok)
	assert.Equal(t, entities.AbilityDexterity, a)

	_, ok = entities.ParseAbility("luck")
	assert.False(t, ok)
}
