package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/dnd-mcp/internal/entities"
	"github.com/KirkDiggler/dnd-mcp/internal/errors"
)

func TestNormalizeCondition(t *testing.T) {
	name, err := NormalizeCondition(" Poisoned ")
	require.NoError(t, err)
	assert.Equal(t, "poisoned", name)

	_, err = NormalizeCondition("sleepy")
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestApplyCondition(t *testing.T) {
	t.Run("refreshes to the longer duration", func(t *testing.T) {
		conds := ApplyCondition(nil, "poisoned", 3, 0)
		conds = ApplyCondition(conds, "poisoned", 5, 0)
		conds = ApplyCondition(conds, "poisoned", 2, 0)

		require.Len(t, conds, 1)
		assert.Equal(t, 5, conds[0].Duration)
	})

	t.Run("indefinite wins", func(t *testing.T) {
		conds := ApplyCondition(nil, "prone", 3, 0)
		conds = ApplyCondition(conds, "prone", 0, 0)

		assert.Equal(t, 0, conds[0].Duration)
	})

	t.Run("exhaustion stacks to six", func(t *testing.T) {
		conds := ApplyCondition(nil, ConditionExhaustion, 0, 2)
		assert.Equal(t, 2, conds[0].Level)

		conds = ApplyCondition(conds, ConditionExhaustion, 0, 5)
		assert.Equal(t, MaxExhaustion, conds[0].Level)
	})
}

func TestRemoveCondition(t *testing.T) {
	conds := []entities.Condition{
		{Name: "poisoned", Duration: 2},
		{Name: ConditionExhaustion, Level: 3},
	}

	conds, removed := RemoveCondition(conds, ConditionExhaustion, 1)
	assert.True(t, removed)
	require.Len(t, conds, 2)
	assert.Equal(t, 2, conds[1].Level)

	conds, removed = RemoveCondition(conds, ConditionExhaustion, 2)
	assert.True(t, removed)
	assert.Len(t, conds, 1)

	_, removed = RemoveCondition(conds, "blinded", 0)
	assert.False(t, removed)
}

func TestTickConditions(t *testing.T) {
	conds := []entities.Condition{
		{Name: "poisoned", Duration: 1},
		{Name: "prone", Duration: 0},
		{Name: "frightened", Duration: 3},
	}

	kept, expired := TickConditions(conds)

	assert.Equal(t, []string{"poisoned"}, expired)
	assert.Equal(t, []entities.Condition{
		{Name: "prone", Duration: 0},
		{Name: "frightened", Duration: 2},
	}, kept)
}
