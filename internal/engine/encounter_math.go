package engine

import (
	"fmt"
	"strings"

	"github.com/KirkDiggler/dnd-mcp/internal/errors"
)

// Difficulty is an encounter difficulty band
type Difficulty string

// Difficulty bands
const (
	DifficultyTrivial Difficulty = "trivial"
	DifficultyEasy    Difficulty = "easy"
	DifficultyMedium  Difficulty = "medium"
	DifficultyHard    Difficulty = "hard"
	DifficultyDeadly  Difficulty = "deadly"
)

var difficultyMultiplier = map[Difficulty]float64{
	DifficultyEasy:   0.3,
	DifficultyMedium: 0.6,
	DifficultyHard:   0.9,
	DifficultyDeadly: 1.2,
}

const minSuggestedCR = 0.125

// ParseDifficulty accepts easy, medium, hard or deadly
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := difficultyMultiplier[d]; !ok {
		vb := errors.NewValidationBuilder()
		errors.ValidateEnum("difficulty", string(d), []string{"easy", "medium", "hard", "deadly"}, vb)
		return "", vb.Build()
	}
	return d, nil
}

// TargetCR is the total challenge rating suited to a party level
func TargetCR(level int, d Difficulty) float64 {
	return max(minSuggestedCR, float64(max(1, level))*difficultyMultiplier[d])
}

// EvaluateDifficulty classifies totalCR against a party level
func EvaluateDifficulty(level int, totalCR float64) Difficulty {
	ratio := totalCR / float64(max(1, level))
	switch {
	case ratio < 0.25:
		return DifficultyTrivial
	case ratio < 0.5:
		return DifficultyEasy
	case ratio < 0.8:
		return DifficultyMedium
	case ratio <= 1.2:
		return DifficultyHard
	}
	return DifficultyDeadly
}

// CRStats are the baseline numbers of a monster of a challenge rating
type CRStats struct {
	CR          float64 `json:"cr"`
	AC          int     `json:"ac"`
	HP          int     `json:"hp"`
	AttackBonus int     `json:"attack_bonus"`
	DamageDice  string  `json:"damage_dice"`
	XP          int     `json:"xp"`
}

var crTable = []CRStats{
	{CR: 0.125, AC: 12, HP: 7, AttackBonus: 3, DamageDice: "1d4+1", XP: 25},
	{CR: 0.25, AC: 13, HP: 11, AttackBonus: 3, DamageDice: "1d6+1", XP: 50},
	{CR: 0.5, AC: 13, HP: 22, AttackBonus: 4, DamageDice: "1d8+2", XP: 100},
	{CR: 1, AC: 13, HP: 33, AttackBonus: 4, DamageDice: "1d10+2", XP: 200},
	{CR: 2, AC: 13, HP: 45, AttackBonus: 4, DamageDice: "2d6+3", XP: 450},
	{CR: 3, AC: 13, HP: 60, AttackBonus: 4, DamageDice: "2d8+3", XP: 700},
	{CR: 4, AC: 14, HP: 75, AttackBonus: 5, DamageDice: "2d10+3", XP: 1100},
	{CR: 5, AC: 15, HP: 90, AttackBonus: 6, DamageDice: "3d8+4", XP: 1800},
}

// StatsForCR returns the highest table row not above cr
func StatsForCR(cr float64) CRStats {
	best := crTable[0]
	for _, row := range crTable {
		if row.CR <= cr {
			best = row
		}
	}
	return best
}

// FormatCR renders fractional ratings as 1/8, 1/4 and 1/2
func FormatCR(cr float64) string {
	switch cr {
	case 0.125:
		return "1/8"
	case 0.25:
		return "1/4"
	case 0.5:
		return "1/2"
	}
	return fmt.Sprintf("%g", cr)
}
