package engine

import (
	"sort"
	"strings"

	"github.com/KirkDiggler/dnd-mcp/internal/entities"
	"github.com/KirkDiggler/dnd-mcp/internal/errors"
)

// Condition names with special handling
const (
	ConditionExhaustion    = "exhaustion"
	ConditionConcentrating = "concentrating"

	MaxExhaustion = 6
)

var validConditions = map[string]bool{
	"blinded":       true,
	"charmed":       true,
	"deafened":      true,
	"frightened":    true,
	"grappled":      true,
	"incapacitated": true,
	"invisible":     true,
	"paralyzed":     true,
	"petrified":     true,
	"poisoned":      true,
	"prone":         true,
	"restrained":    true,
	"stunned":       true,
	"unconscious":   true,

	ConditionExhaustion:    true,
	ConditionConcentrating: true,
}

// ConditionNames returns the accepted names, sorted
func ConditionNames() []string {
	names := make([]string, 0, len(validConditions))
	for n := range validConditions {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// NormalizeCondition lowercases name and checks it against the 5e list
func NormalizeCondition(name string) (string, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if !validConditions[n] {
		vb := errors.NewValidationBuilder()
		errors.ValidateEnum("condition", n, ConditionNames(), vb)
		return "", vb.Build()
	}
	return n, nil
}

// ApplyCondition adds a condition or refreshes it to the longer duration.
// Exhaustion stacks levels up to MaxExhaustion. A duration of 0 or less
// never expires.
func ApplyCondition(conds []entities.Condition, name string, duration, levels int) []entities.Condition {
	for i := range conds {
		c := &conds[i]
		if c.Name != name {
			continue
		}
		if name == ConditionExhaustion {
			c.Level = min(MaxExhaustion, c.Level+max(1, levels))
			return conds
		}
		switch {
		case duration <= 0 || c.Duration <= 0:
			c.Duration = 0
		case duration > c.Duration:
			c.Duration = duration
		}
		return conds
	}

	cond := entities.Condition{Name: name, Duration: max(0, duration)}
	if name == ConditionExhaustion {
		cond.Duration = 0
		cond.Level = min(MaxExhaustion, max(1, levels))
	}
	return append(conds, cond)
}

// RemoveCondition drops a condition. Exhaustion loses levels instead and
// disappears at 0. The bool reports whether anything was present.
func RemoveCondition(conds []entities.Condition, name string, levels int) ([]entities.Condition, bool) {
	for i := range conds {
		if conds[i].Name != name {
			continue
		}
		if name == ConditionExhaustion && levels > 0 && conds[i].Level > levels {
			conds[i].Level -= levels
			return conds, true
		}
		return append(conds[:i], conds[i+1:]...), true
	}
	return conds, false
}

// TickConditions decrements timed conditions by one round and drops those
// reaching 0. It returns the names that expired.
func TickConditions(conds []entities.Condition) ([]entities.Condition, []string) {
	var expired []string
	kept := conds[:0]
	for _, c := range conds {
		if c.Duration > 0 {
			c.Duration--
			if c.Duration == 0 {
				expired = append(expired, c.Name)
				continue
			}
		}
		kept = append(kept, c)
	}
	return kept, expired
}
