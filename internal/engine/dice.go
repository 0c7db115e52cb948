package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/dnd-mcp/internal/errors"
)

const (
	maxDiceCount = 100
	maxDieSize   = 1000
)

// Regex for dice notation like "2d6", "1d20+5", "d8-1"
var diceNotationRegex = regexp.MustCompile(`^(\d*)d(\d+)\s*(?:([+-])\s*(\d+))?$`)

// Notation is a parsed NdS+M expression
type Notation struct {
	Count    int
	Size     int
	Modifier int
}

// String renders n back to canonical notation
func (n Notation) String() string {
	switch {
	case n.Modifier > 0:
		return fmt.Sprintf("%dd%d+%d", n.Count, n.Size, n.Modifier)
	case n.Modifier < 0:
		return fmt.Sprintf("%dd%d%d", n.Count, n.Size, n.Modifier)
	}
	return fmt.Sprintf("%dd%d", n.Count, n.Size)
}

// ParseNotation parses dice notation. A missing count means one die.
func ParseNotation(s string) (Notation, error) {
	matches := diceNotationRegex.FindStringSubmatch(strings.ToLower(strings.TrimSpace(s)))
	if matches == nil {
		return Notation{}, errors.InvalidArgumentf("invalid dice notation: %q (expected format: NdS+M)", s).
			WithMeta("field", "notation")
	}

	n := Notation{Count: 1}
	if matches[1] != "" {
		n.Count, _ = strconv.Atoi(matches[1])
	}
	n.Size, _ = strconv.Atoi(matches[2])
	if matches[4] != "" {
		n.Modifier, _ = strconv.Atoi(matches[4])
		if matches[3] == "-" {
			n.Modifier = -n.Modifier
		}
	}

	if n.Count < 1 || n.Count > maxDiceCount || n.Size < 2 || n.Size > maxDieSize {
		return Notation{}, errors.InvalidArgumentf("dice out of range: %q", s).
			WithMeta("field", "notation")
	}
	return n, nil
}

// RollResult is the outcome of rolling a notation
type RollResult struct {
	Notation string `json:"notation"`
	Rolls    []int  `json:"rolls"`
	Dropped  []int  `json:"dropped,omitempty"`
	Modifier int    `json:"modifier"`
	Total    int    `json:"total"`
	Critical bool   `json:"critical,omitempty"`
}

// D20Result is a d20 test roll with advantage handling
type D20Result struct {
	Rolls   []int `json:"rolls"`
	Natural int   `json:"natural"`
}

// Dice rolls through an injected rpg-toolkit roller
type Dice struct {
	roller dice.Roller
}

// NewDice wraps roller; nil means the toolkit's crypto-backed default.
func NewDice(roller dice.Roller) *Dice {
	if roller == nil {
		roller = dice.DefaultRoller
	}
	return &Dice{roller: roller}
}

// Roll rolls n. A critical roll doubles the dice, never the modifier.
func (d *Dice) Roll(n Notation, critical bool) (*RollResult, error) {
	count := n.Count
	if critical {
		count *= 2
	}
	rolls, err := d.roller.RollN(count, n.Size)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to roll %s", n)
	}

	total := n.Modifier
	for _, r := range rolls {
		total += r
	}
	return &RollResult{
		Notation: n.String(),
		Rolls:    rolls,
		Modifier: n.Modifier,
		Total:    total,
		Critical: critical,
	}, nil
}

// RollString parses and rolls notation
func (d *Dice) RollString(notation string, critical bool) (*RollResult, error) {
	n, err := ParseNotation(notation)
	if err != nil {
		return nil, err
	}
	return d.Roll(n, critical)
}

// RollDropLowest rolls n and drops the lowest drop dice from the total
func (d *Dice) RollDropLowest(n Notation, drop int) (*RollResult, error) {
	res, err := d.Roll(n, false)
	if err != nil {
		return nil, err
	}
	if drop <= 0 || drop >= len(res.Rolls) {
		return res, nil
	}

	kept := append([]int(nil), res.Rolls...)
	for i := 0; i < drop; i++ {
		lowest := 0
		for j := range kept {
			if kept[j] < kept[lowest] {
				lowest = j
			}
		}
		res.Dropped = append(res.Dropped, kept[lowest])
		res.Total -= kept[lowest]
		kept = append(kept[:lowest], kept[lowest+1:]...)
	}
	res.Rolls = kept
	return res, nil
}

// D20 rolls one d20, or two when exactly one of advantage and disadvantage
// is set. Both cancel out.
func (d *Dice) D20(advantage, disadvantage bool) (*D20Result, error) {
	if advantage == disadvantage {
		r, err := d.roller.Roll(20)
		if err != nil {
			return nil, errors.Wrap(err, "failed to roll d20")
		}
		return &D20Result{Rolls: []int{r}, Natural: r}, nil
	}

	rolls, err := d.roller.RollN(2, 20)
	if err != nil {
		return nil, errors.Wrap(err, "failed to roll d20")
	}
	natural := max(rolls[0], rolls[1])
	if disadvantage {
		natural = min(rolls[0], rolls[1])
	}
	return &D20Result{Rolls: rolls, Natural: natural}, nil
}

// Die rolls a single die of size
func (d *Dice) Die(size int) (int, error) {
	r, err := d.roller.Roll(size)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to roll d%d", size)
	}
	return r, nil
}
