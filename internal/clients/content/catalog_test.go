package content

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/dnd-mcp/internal/entities"
)

func TestLoadCatalog(t *testing.T) {
	c, err := LoadCatalog()
	require.NoError(t, err)

	names := c.MonsterNames()
	assert.Contains(t, names, "Goblin")
	assert.Contains(t, names, "Troll")

	for _, m := range c.monsters {
		assert.NotEmpty(t, m.Actions, m.Name)
		assert.Positive(t, m.HP, m.Name)
		assert.Positive(t, m.AC, m.Name)
	}

	dagger, ok := c.Item("Daggers")
	require.True(t, ok)
	assert.Equal(t, entities.ItemKindWeapon, dagger.Kind)
	assert.True(t, dagger.Weapon.Finesse())

	bow, ok := c.Item("longbow")
	require.True(t, ok)
	assert.True(t, bow.Weapon.Ranged())

	rope, ok := c.Item("rope")
	require.True(t, ok)
	assert.Equal(t, entities.ItemKindGear, rope.Kind)
	assert.Nil(t, rope.Weapon)
}

func TestParseCatalogRejectsBadYAML(t *testing.T) {
	_, err := parseCatalog([]byte("monsters: [unterminated"))
	require.Error(t, err)
}

func TestParseCRRange(t *testing.T) {
	tests := []struct {
		in      string
		lo, hi  float64
		wantErr bool
	}{
		{in: "", lo: 0, hi: math.MaxFloat64},
		{in: "0-1", lo: 0, hi: 1},
		{in: "1/4-2", lo: 0.25, hi: 2},
		{in: "3", lo: 3, hi: 3},
		{in: " 1/2 ", lo: 0.5, hi: 0.5},
		{in: "2-1", wantErr: true},
		{in: "x", wantErr: true},
		{in: "1/0", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			lo, hi, err := ParseCRRange(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.lo, lo)
			assert.Equal(t, tc.hi, hi)
		})
	}
}

func TestGenerateSlug(t *testing.T) {
	assert.Equal(t, "magic-missile", generateSlug("Magic Missile"))
	assert.Equal(t, "rope-hempen-50-feet", generateSlug("Rope, Hempen (50 feet)"))
	assert.Equal(t, "shield", generateSlug("  Shield "))
}
