package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/dnd-mcp/internal/errors"
	"github.com/KirkDiggler/dnd-mcp/internal/testutils"
)

func TestParseNotation(t *testing.T) {
	tests := []struct {
		in   string
		want Notation
	}{
		{"2d6", Notation{Count: 2, Size: 6}},
		{"1d20+5", Notation{Count: 1, Size: 20, Modifier: 5}},
		{"d8", Notation{Count: 1, Size: 8}},
		{"3D4 - 1", Notation{Count: 3, Size: 4, Modifier: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseNotation(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "abc", "0d6", "2d1", "1d20+", "101d6"} {
		t.Run("invalid "+bad, func(t *testing.T) {
			_, err := ParseNotation(bad)
			require.Error(t, err)
			assert.True(t, errors.IsInvalidArgument(err))
		})
	}
}

func TestNotationString(t *testing.T) {
	assert.Equal(t, "2d6+3", Notation{Count: 2, Size: 6, Modifier: 3}.String())
	assert.Equal(t, "1d8-1", Notation{Count: 1, Size: 8, Modifier: -1}.String())
	assert.Equal(t, "1d20", Notation{Count: 1, Size: 20}.String())
}

func TestDiceRoll(t *testing.T) {
	t.Run("adds the modifier", func(t *testing.T) {
		d := NewDice(testutils.NewScriptedRoller(3, 4))

		res, err := d.RollString("2d6+2", false)
		require.NoError(t, err)

		assert.Equal(t, []int{3, 4}, res.Rolls)
		assert.Equal(t, 9, res.Total)
	})

	t.Run("critical doubles dice not modifier", func(t *testing.T) {
		d := NewDice(testutils.NewScriptedRoller(3, 5))

		res, err := d.RollString("1d8+2", true)
		require.NoError(t, err)

		assert.Len(t, res.Rolls, 2)
		assert.Equal(t, 10, res.Total)
		assert.True(t, res.Critical)
	})

	t.Run("drop lowest", func(t *testing.T) {
		d := NewDice(testutils.NewScriptedRoller(4, 1, 6, 5))

		res, err := d.RollDropLowest(Notation{Count: 4, Size: 6}, 1)
		require.NoError(t, err)

		assert.Equal(t, []int{1}, res.Dropped)
		assert.Equal(t, []int{4, 6, 5}, res.Rolls)
		assert.Equal(t, 15, res.Total)
	})

	t.Run("roller failure", func(t *testing.T) {
		d := NewDice(testutils.NewScriptedRoller())

		_, err := d.RollString("1d6", false)
		assert.Error(t, err)
	})
}

func TestD20(t *testing.T) {
	t.Run("straight roll", func(t *testing.T) {
		res, err := NewDice(testutils.NewScriptedRoller(11)).D20(false, false)
		require.NoError(t, err)
		assert.Equal(t, 11, res.Natural)
		assert.Len(t, res.Rolls, 1)
	})

	t.Run("advantage takes the higher", func(t *testing.T) {
		res, err := NewDice(testutils.NewScriptedRoller(5, 17)).D20(true, false)
		require.NoError(t, err)
		assert.Equal(t, 17, res.Natural)
	})

	t.Run("disadvantage takes the lower", func(t *testing.T) {
		res, err := NewDice(testutils.NewScriptedRoller(5, 17)).D20(false, true)
		require.NoError(t, err)
		assert.Equal(t, 5, res.Natural)
	})

	t.Run("both cancel", func(t *testing.T) {
		roller := testutils.NewScriptedRoller(9, 20)
		res, err := NewDice(roller).D20(true, true)
		require.NoError(t, err)
		assert.Equal(t, 9, res.Natural)
		assert.Equal(t, 1, roller.Remaining())
	})
}

func TestNewDice_DefaultRoller(t *testing.T) {
	res, err := NewDice(nil).RollString("3d6", false)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, res.Total, 3)
	assert.LessOrEqual(t, res.Total, 18)
}
