package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/dnd-mcp/internal/entities"
	"github.com/KirkDiggler/dnd-mcp/internal/errors"
	"github.com/KirkDiggler/dnd-mcp/internal/testutils"
)

func TestModifier(t *testing.T) {
	tests := []struct {
		score int
		want  int
	}{
		{1, -5},
		{8, -1},
		{9, -1},
		{10, 0},
		{11, 0},
		{16, 3},
		{20, 5},
		{30, 10},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Modifier(tt.score), "score %d", tt.score)
	}
}

func TestProficiencyBonus(t *testing.T) {
	want := map[int]int{1: 2, 4: 2, 5: 3, 8: 3, 9: 4, 12: 4, 13: 5, 16: 5, 17: 6, 20: 6}
	for level, bonus := range want {
		assert.Equal(t, bonus, ProficiencyBonus(level), "level %d", level)
	}
}

func TestLevelForXP(t *testing.T) {
	assert.Equal(t, 1, LevelForXP(0))
	assert.Equal(t, 1, LevelForXP(299))
	assert.Equal(t, 2, LevelForXP(300))
	assert.Equal(t, 5, LevelForXP(6500))
	assert.Equal(t, 20, LevelForXP(355000))
	assert.Equal(t, 20, LevelForXP(1_000_000))
	assert.Equal(t, 2700, XPForLevel(4))
}

func TestMaxHPFor(t *testing.T) {
	t.Run("level 1 fighter takes the full die", func(t *testing.T) {
		assert.Equal(t, 11, MaxHPFor(10, 1, 1, entities.HPMethodAverage, nil))
	})

	t.Run("later levels use the average", func(t *testing.T) {
		// 6+1, then (4+1) x 4
		assert.Equal(t, 27, MaxHPFor(6, 5, 1, entities.HPMethodAverage, nil))
	})

	t.Run("rolled levels use the supplied rolls", func(t *testing.T) {
		assert.Equal(t, 10+2+3, MaxHPFor(10, 3, 0, entities.HPMethodRoll, []int{2, 3}))
	})

	t.Run("each level contributes at least one", func(t *testing.T) {
		assert.Equal(t, 3, MaxHPFor(6, 3, -5, entities.HPMethodAverage, nil))
	})
}

func TestAddExperience(t *testing.T) {
	t.Run("crossing a threshold levels up", func(t *testing.T) {
		c := testutils.CreateTestFighter()

		leveled, level, err := AddExperience(c, 300)
		require.NoError(t, err)

		assert.True(t, leveled)
		assert.Equal(t, 2, level)
		assert.Equal(t, 2, c.Level)
		assert.Equal(t, 2, c.HitDice.Max)
		assert.Equal(t, 2, c.HitDice.Current)
		assert.Equal(t, 11, c.MaxHP, "max HP is left to the caller")
	})

	t.Run("multiple levels at once", func(t *testing.T) {
		c := testutils.CreateTestFighter()

		_, level, err := AddExperience(c, 6500)
		require.NoError(t, err)

		assert.Equal(t, 5, level)
		assert.Equal(t, 3, c.ProficiencyBonus)
		assert.Equal(t, 5, c.HitDice.Max)
	})

	t.Run("below the next threshold", func(t *testing.T) {
		c := testutils.CreateTestFighter()

		leveled, level, err := AddExperience(c, 100)
		require.NoError(t, err)

		assert.False(t, leveled)
		assert.Equal(t, 1, level)
		assert.Equal(t, 100, c.XP)
	})

	t.Run("negative xp", func(t *testing.T) {
		c := testutils.CreateTestFighter()

		_, _, err := AddExperience(c, -5)
		require.Error(t, err)
		assert.True(t, errors.IsValidation(err))
	})

	t.Run("casters gain slots and keep spent ones spent", func(t *testing.T) {
		c := testutils.CreateTestWizard()
		slot := c.Spellcasting.Slots[1]
		slot.Current = 2
		c.Spellcasting.Slots[1] = slot

		_, level, err := AddExperience(c, 14000-c.XP)
		require.NoError(t, err)

		assert.Equal(t, 6, level)
		assert.Equal(t, entities.SpellSlot{Max: 3, Current: 3}, c.Spellcasting.Slots[3])
		assert.Equal(t, entities.SpellSlot{Max: 4, Current: 2}, c.Spellcasting.Slots[1])
	})
}

func TestSpellSlotsFor(t *testing.T) {
	assert.Equal(t, map[int]int{1: 2}, SpellSlotsFor("Wizard", 1))
	assert.Equal(t, map[int]int{1: 4, 2: 3, 3: 2}, SpellSlotsFor("cleric", 5))
	assert.Empty(t, SpellSlotsFor("paladin", 1))
	assert.Equal(t, map[int]int{1: 2}, SpellSlotsFor("paladin", 2))
	assert.Equal(t, map[int]int{3: 2}, SpellSlotsFor("warlock", 5))
	assert.Empty(t, SpellSlotsFor("fighter", 10))
}

func TestNewSpellcasting(t *testing.T) {
	assert.Nil(t, NewSpellcasting("rogue", 3))

	sc := NewSpellcasting("warlock", 2)
	require.NotNil(t, sc)
	assert.True(t, sc.PactMagic)
	assert.Equal(t, entities.AbilityCharisma, sc.Ability)
	assert.Equal(t, entities.SpellSlot{Max: 2, Current: 2}, sc.Slots[1])
}

func TestGrowSpellSlots_PactLevelMoves(t *testing.T) {
	sc := &entities.Spellcasting{Slots: map[int]entities.SpellSlot{1: {Max: 2, Current: 1}}}

	GrowSpellSlots(sc, SpellSlotsFor("warlock", 3))

	assert.Len(t, sc.Slots, 1)
	assert.Equal(t, entities.SpellSlot{Max: 2, Current: 1}, sc.Slots[2])
}
