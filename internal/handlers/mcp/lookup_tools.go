package mcp

import (
	"context"

	"github.com/KirkDiggler/dnd-mcp/internal/clients/content"
	"github.com/KirkDiggler/dnd-mcp/internal/engine"
	"github.com/KirkDiggler/dnd-mcp/internal/errors"
	"github.com/KirkDiggler/dnd-mcp/internal/orchestrators/dice"
)

// RollDiceInput is the input of roll_dice
type RollDiceInput struct {
	Notation      string `json:"notation,omitempty" jsonschema:"dice notation such as 2d6+3 or d20-1"`
	Advantage     bool   `json:"advantage,omitempty" jsonschema:"roll a d20 with advantage"`
	Disadvantage  bool   `json:"disadvantage,omitempty" jsonschema:"roll a d20 with disadvantage"`
	Description   string `json:"description,omitempty" jsonschema:"what the roll is for"`
	AbilityScores bool   `json:"ability_scores,omitempty" jsonschema:"roll a full set of six ability scores instead"`
	Method        string `json:"method,omitempty" jsonschema:"ability score method: 4d6_drop_lowest or 3d6"`
}

// RollDiceResult is the output of roll_dice
type RollDiceResult struct {
	Roll   *dice.Roll   `json:"roll,omitempty"`
	Method string       `json:"method,omitempty"`
	Rolls  []*dice.Roll `json:"rolls,omitempty"`
	Scores []int        `json:"scores,omitempty"`
}

// LookupMonsterInput is the input of lookup_monster
type LookupMonsterInput struct {
	Name    string `json:"name" jsonschema:"monster name"`
	CRRange string `json:"cr_range,omitempty" jsonschema:"challenge rating or range such as 1/4-2"`
}

// LookupMonsterResult is the output of lookup_monster
type LookupMonsterResult struct {
	Monster content.StatBlock `json:"monster"`
}

// LookupSpellInput is the input of lookup_spell
type LookupSpellInput struct {
	Name  string `json:"name" jsonschema:"spell name"`
	Level *int   `json:"level,omitempty" jsonschema:"required spell level"`
	Class string `json:"class,omitempty" jsonschema:"class that must be able to learn the spell"`
}

// LookupSpellResult is the output of lookup_spell
type LookupSpellResult struct {
	Spell content.SpellInfo `json:"spell"`
}

// LookupItemInput is the input of lookup_item
type LookupItemInput struct {
	Name string `json:"name" jsonschema:"item name"`
}

// LookupItemResult is the output of lookup_item
type LookupItemResult struct {
	Item content.ItemInfo `json:"item"`
}

// ModifierInput is the input of calculate_modifier
type ModifierInput struct {
	Score int `json:"score" jsonschema:"ability score from 1 to 30"`
}

// ModifierResult is the output of calculate_modifier
type ModifierResult struct {
	Score    int `json:"score"`
	Modifier int `json:"modifier"`
}

// ProficiencyInput is the input of get_proficiency_bonus
type ProficiencyInput struct {
	Level int `json:"level" jsonschema:"character level from 1 to 20"`
}

// ProficiencyResult is the output of get_proficiency_bonus
type ProficiencyResult struct {
	Level int `json:"level"`
	Bonus int `json:"bonus"`
}

func (s *Server) registerLookupTools() {
	addTool(s.server, "calculate_modifier",
		"Returns the modifier of an ability score",
		calculateModifier)
	addTool(s.server, "get_proficiency_bonus",
		"Returns the proficiency bonus of a character level",
		proficiencyBonus)
	addTool(s.server, "roll_dice",
		"Rolls dice in standard notation, or a set of ability scores",
		s.rollDice)
	addTool(s.server, "lookup_monster",
		"Looks up an SRD monster stat block",
		s.lookupMonster)
	addTool(s.server, "lookup_spell",
		"Looks up an SRD spell",
		s.lookupSpell)
	addTool(s.server, "lookup_item",
		"Looks up SRD equipment",
		s.lookupItem)
}

func calculateModifier(_ context.Context, in ModifierInput) (ModifierResult, error) {
	vb := errors.NewValidationBuilder()
	errors.ValidateRange("score", in.Score, 1, 30, vb)
	if err := vb.Build(); err != nil {
		return ModifierResult{}, err
	}
	return ModifierResult{Score: in.Score, Modifier: engine.Modifier(in.Score)}, nil
}

func proficiencyBonus(_ context.Context, in ProficiencyInput) (ProficiencyResult, error) {
	vb := errors.NewValidationBuilder()
	errors.ValidateRange("level", in.Level, 1, engine.MaxLevel, vb)
	if err := vb.Build(); err != nil {
		return ProficiencyResult{}, err
	}
	return ProficiencyResult{Level: in.Level, Bonus: engine.ProficiencyBonus(in.Level)}, nil
}

func (s *Server) rollDice(ctx context.Context, in RollDiceInput) (RollDiceResult, error) {
	if in.AbilityScores {
		out, err := s.dice.RollAbilityScores(ctx, &dice.RollAbilityScoresInput{Method: in.Method})
		if err != nil {
			return RollDiceResult{}, err
		}
		return RollDiceResult{Method: out.Method, Rolls: out.Rolls, Scores: out.Scores()}, nil
	}

	out, err := s.dice.RollDice(ctx, &dice.RollDiceInput{
		Notation:     in.Notation,
		Advantage:    in.Advantage,
		Disadvantage: in.Disadvantage,
		Description:  in.Description,
	})
	if err != nil {
		return RollDiceResult{}, err
	}
	return RollDiceResult{Roll: out.Roll}, nil
}

func (s *Server) lookupMonster(ctx context.Context, in LookupMonsterInput) (LookupMonsterResult, error) {
	m, err := s.content.LookupMonster(ctx, in.Name, in.CRRange)
	if err != nil {
		return LookupMonsterResult{}, err
	}
	return LookupMonsterResult{Monster: *m}, nil
}

func (s *Server) lookupSpell(ctx context.Context, in LookupSpellInput) (LookupSpellResult, error) {
	spell, err := s.content.LookupSpell(ctx, in.Name, in.Level, in.Class)
	if err != nil {
		return LookupSpellResult{}, err
	}
	return LookupSpellResult{Spell: *spell}, nil
}

func (s *Server) lookupItem(ctx context.Context, in LookupItemInput) (LookupItemResult, error) {
	item, err := s.content.LookupItem(ctx, in.Name)
	if err != nil {
		return LookupItemResult{}, err
	}
	return LookupItemResult{Item: *item}, nil
}
