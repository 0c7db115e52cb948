package dice

import "github.com/KirkDiggler/dnd-mcp/internal/engine"

// Roll is one identified roll
type Roll struct {
	RollID      string             `json:"roll_id"`
	Result      *engine.RollResult `json:"result"`
	Description string             `json:"description,omitempty"`
}

// RollDiceInput defines the request for rolling dice
type RollDiceInput struct {
	Notation     string
	Advantage    bool
	Disadvantage bool
	Description  string
}

// RollDiceOutput defines the response for rolling dice
type RollDiceOutput struct {
	Roll *Roll
}

// RollAbilityScoresInput defines the request for rolling ability scores
type RollAbilityScoresInput struct {
	// Method is MethodStandard or MethodClassic; empty means standard
	Method string
}

// RollAbilityScoresOutput defines the response for rolling ability scores
type RollAbilityScoresOutput struct {
	Method string
	Rolls  []*Roll
}

// Scores returns the totals in roll order
func (o *RollAbilityScoresOutput) Scores() []int {
	out := make([]int, len(o.Rolls))
	for i, r := range o.Rolls {
		out[i] = r.Result.Total
	}
	return out
}
