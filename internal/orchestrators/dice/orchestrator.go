// Package dice implements the dice orchestrator for free-form and ability score rolls
package dice

//go:generate mockgen -destination=mock/mock_service.go -package=dicemock github.com/KirkDiggler/dnd-mcp/internal/orchestrators/dice Service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/dnd-mcp/internal/engine"
	"github.com/KirkDiggler/dnd-mcp/internal/errors"
	"github.com/KirkDiggler/dnd-mcp/internal/pkg/idgen"
)

// Dice rolling methods for ability scores
const (
	MethodStandard = "4d6_drop_lowest"
	MethodClassic  = "3d6"
)

// Service defines the interface for dice operations
type Service interface {
	// RollDice rolls an NdM+K expression. Advantage and disadvantage apply to
	// single-d20 expressions only.
	RollDice(ctx context.Context, input *RollDiceInput) (*RollDiceOutput, error)

	// RollAbilityScores rolls six ability scores
	RollAbilityScores(ctx context.Context, input *RollAbilityScoresInput) (*RollAbilityScoresOutput, error)
}

// Config holds the dependencies for the dice orchestrator
type Config struct {
	// Roller defaults to the rpg-toolkit crypto roller
	Roller      dice.Roller
	IDGenerator idgen.Generator
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config is required")
	}
	vb := errors.NewValidationBuilder()

	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}

	return vb.Build()
}

type orchestrator struct {
	dice  *engine.Dice
	idGen idgen.Generator
}

// NewOrchestrator creates a new dice orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		dice:  engine.NewDice(cfg.Roller),
		idGen: cfg.IDGenerator,
	}, nil
}

// RollDice rolls dice using the specified notation
func (o *orchestrator) RollDice(ctx context.Context, input *RollDiceInput) (*RollDiceOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Notation == "" {
		return nil, errors.InvalidArgument("dice notation is required").WithMeta("field", "notation")
	}

	notation, err := engine.ParseNotation(input.Notation)
	if err != nil {
		return nil, err
	}

	var result *engine.RollResult
	if notation.Count == 1 && notation.Size == 20 && input.Advantage != input.Disadvantage {
		d20, err := o.dice.D20(input.Advantage, input.Disadvantage)
		if err != nil {
			return nil, errors.Wrap(err, "failed to roll dice")
		}
		result = &engine.RollResult{
			Notation: notation.String(),
			Rolls:    d20.Rolls,
			Modifier: notation.Modifier,
			Total:    d20.Natural + notation.Modifier,
		}
	} else {
		result, err = o.dice.Roll(notation, false)
		if err != nil {
			return nil, errors.Wrap(err, "failed to roll dice")
		}
	}

	roll := &Roll{
		RollID:      o.idGen.Generate(),
		Result:      result,
		Description: input.Description,
	}

	slog.InfoContext(ctx, "Dice rolled",
		"notation", result.Notation,
		"total", result.Total,
		"roll_id", roll.RollID,
	)

	return &RollDiceOutput{Roll: roll}, nil
}

// RollAbilityScores rolls six scores by the requested method
func (o *orchestrator) RollAbilityScores(ctx context.Context, input *RollAbilityScoresInput) (*RollAbilityScoresOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	method := input.Method
	if method == "" {
		method = MethodStandard
	}

	var (
		notation engine.Notation
		drop     int
	)
	switch method {
	case MethodStandard:
		notation = engine.Notation{Count: 4, Size: 6}
		drop = 1
	case MethodClassic:
		notation = engine.Notation{Count: 3, Size: 6}
	default:
		return nil, errors.InvalidArgumentf("unsupported rolling method: %s", method).
			WithMeta("field", "method")
	}

	rolls := make([]*Roll, 0, 6)
	for i := 0; i < 6; i++ {
		result, err := o.dice.RollDropLowest(notation, drop)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to roll ability score %d", i+1)
		}
		rolls = append(rolls, &Roll{
			RollID:      o.idGen.Generate(),
			Result:      result,
			Description: fmt.Sprintf("Ability Score %d (%s)", i+1, method),
		})
	}

	slog.InfoContext(ctx, "Ability scores rolled",
		"method", method,
		"rolls_count", len(rolls),
	)

	return &RollAbilityScoresOutput{Method: method, Rolls: rolls}, nil
}
