package testutils

import (
	"fmt"
	"sync"

	"github.com/KirkDiggler/rpg-toolkit/dice"
)

var _ dice.Roller = (*ScriptedRoller)(nil)

// ScriptedRoller returns queued values in order. When the queue runs dry it
// returns Fallback, or an error when Fallback is 0. Values larger than the
// requested die are clamped to the die size.
type ScriptedRoller struct {
	mu       sync.Mutex
	values   []int
	Fallback int
	Calls    []int
}

// NewScriptedRoller queues values
func NewScriptedRoller(values ...int) *ScriptedRoller {
	return &ScriptedRoller{values: values}
}

// Push queues more values
func (r *ScriptedRoller) Push(values ...int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, values...)
}

// Remaining reports how many queued values are left
func (r *ScriptedRoller) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.values)
}

// Roll returns the next queued value
func (r *ScriptedRoller) Roll(size int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.next(size)
}

// RollN returns the next count queued values
func (r *ScriptedRoller) RollN(count, size int) ([]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]int, 0, count)
	for i := 0; i < count; i++ {
		v, err := r.next(size)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (r *ScriptedRoller) next(size int) (int, error) {
	if size <= 0 {
		return 0, fmt.Errorf("invalid die size: %d", size)
	}
	r.Calls = append(r.Calls, size)
	if len(r.values) == 0 {
		if r.Fallback == 0 {
			return 0, fmt.Errorf("scripted roller exhausted rolling d%d", size)
		}
		return min(r.Fallback, size), nil
	}
	v := r.values[0]
	r.values = r.values[1:]
	return min(max(v, 1), size), nil
}
