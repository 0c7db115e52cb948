package engine

import (
	"sort"

	"github.com/KirkDiggler/dnd-mcp/internal/entities"
)

// SortInitiative orders the roster by initiative, highest first. Ties keep
// their existing roster order.
func SortInitiative(roster []entities.Combatant) {
	sort.SliceStable(roster, func(i, j int) bool {
		return roster[i].Initiative > roster[j].Initiative
	})
}

// FirstLiving returns the index of the first participant with HP left, or
// -1 when nobody is alive.
func FirstLiving(roster []entities.Combatant) int {
	for i := range roster {
		if roster[i].Alive() {
			return i
		}
	}
	return -1
}

// NextLiving returns the index after from that holds a living participant,
// wrapping past the end. wrapped reports whether the search passed the end
// of the roster. ok is false when nobody is alive.
func NextLiving(roster []entities.Combatant, from int) (next int, wrapped, ok bool) {
	n := len(roster)
	for step := 1; step <= n; step++ {
		idx := from + step
		if idx >= n {
			wrapped = true
			idx -= n
		}
		if roster[idx].Alive() {
			return idx, wrapped, true
		}
	}
	return -1, false, false
}
