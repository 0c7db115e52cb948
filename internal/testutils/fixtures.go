package testutils

import (
	"time"

	"github.com/KirkDiggler/dnd-mcp/internal/entities"
)

const (
	// TestCharacterName is the default character name for test fixtures
	TestCharacterName = "Thorin Oakenshield"

	// TestCampaignID is the campaign most fixtures live in
	TestCampaignID = "test_campaign"
)

// TestTime is the fixed instant fixtures are stamped with
var TestTime = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

// CreateTestAbilityScores creates standard array ability scores
func CreateTestAbilityScores() entities.AbilityScores {
	return entities.AbilityScores{
		Strength:     15,
		Dexterity:    14,
		Constitution: 13,
		Intelligence: 12,
		Wisdom:       10,
		Charisma:     8,
	}
}

// CreateTestFighter creates a level 1 fighter: d10, CON +1, 11 HP, AC 12
func CreateTestFighter() *entities.Character {
	return &entities.Character{
		ID:               "char_test_001",
		Name:             TestCharacterName,
		Race:             "dwarf",
		Class:            "fighter",
		Background:       "soldier",
		Level:            1,
		Scores:           CreateTestAbilityScores(),
		MaxHP:            11,
		CurrentHP:        11,
		AC:               12,
		Speed:            25,
		ProficiencyBonus: 2,
		HitDice:          entities.HitDice{Die: 10, Max: 1, Current: 1},
		SaveProficiencies: []entities.Ability{
			entities.AbilityStrength, entities.AbilityConstitution,
		},
		SkillProficiencies: []string{"athletics", "perception"},
		Attacks: []entities.Attack{
			{Name: "Longsword", Ability: entities.AbilityStrength, DamageDice: "1d8", DamageType: "slashing", Proficient: true},
		},
		Features: []entities.Feature{
			{Name: "Second Wind", Uses: 1, Max: 1, ResetsOn: entities.RestShort},
		},
		CreatedAt: TestTime,
		UpdatedAt: TestTime,
	}
}

// CreateTestWizard creates a level 5 wizard with full slots
func CreateTestWizard() *entities.Character {
	return &entities.Character{
		ID:         "char_test_002",
		Name:       "Gandalf the Grey",
		Race:       "human",
		Class:      "wizard",
		Background: "sage",
		Level:      5,
		XP:         6500,
		Scores: entities.AbilityScores{
			Strength:     8,
			Dexterity:    14,
			Constitution: 13,
			Intelligence: 16,
			Wisdom:       15,
			Charisma:     12,
		},
		MaxHP:            27,
		CurrentHP:        27,
		AC:               12,
		Speed:            30,
		ProficiencyBonus: 3,
		HitDice:          entities.HitDice{Die: 6, Max: 5, Current: 5},
		SaveProficiencies: []entities.Ability{
			entities.AbilityIntelligence, entities.AbilityWisdom,
		},
		Spellcasting: &entities.Spellcasting{
			Ability: entities.AbilityIntelligence,
			Slots: map[int]entities.SpellSlot{
				1: {Max: 4, Current: 4},
				2: {Max: 3, Current: 3},
				3: {Max: 2, Current: 2},
			},
		},
		CreatedAt: TestTime,
		UpdatedAt: TestTime,
	}
}

// CreateTestInventory creates an inventory holding a longsword, chain mail and a shield
func CreateTestInventory() *entities.Inventory {
	inv := entities.NewInventory(225)
	inv.Gold = 10
	inv.Items = append(inv.Items,
		entities.Item{
			ID: "longsword", Name: "Longsword", Quantity: 1, Kind: entities.ItemKindWeapon,
			Weapon: &entities.WeaponStats{DamageDice: "1d8", DamageType: "slashing", Category: "Martial Melee", Properties: []string{"Versatile"}},
		},
		entities.Item{
			ID: "chain_mail", Name: "Chain Mail", Quantity: 1, Kind: entities.ItemKindArmor,
			Armor: &entities.ArmorStats{Category: entities.ArmorHeavy, BaseAC: 16},
		},
		entities.Item{
			ID: "shield", Name: "Shield", Quantity: 1, Kind: entities.ItemKindShield,
			Armor: &entities.ArmorStats{BaseAC: 2},
		},
	)
	return inv
}

// CreateTestGoblin creates a CR 1/4 goblin combatant
func CreateTestGoblin(id string) entities.Combatant {
	return entities.Combatant{
		ID:          id,
		Name:        "Goblin",
		Kind:        entities.CombatantMonster,
		HP:          7,
		MaxHP:       7,
		AC:          15,
		DexMod:      2,
		AttackBonus: 4,
		DamageDice:  "1d6+2",
		DamageType:  "slashing",
		CR:          0.25,
		Status:      entities.StatusActive,
	}
}
