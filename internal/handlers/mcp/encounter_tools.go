package mcp

import (
	"context"

	"github.com/KirkDiggler/dnd-mcp/internal/engine"
	"github.com/KirkDiggler/dnd-mcp/internal/entities"
	"github.com/KirkDiggler/dnd-mcp/internal/orchestrators/encounter"
)

// StartCombatInput is the input of start_combat
type StartCombatInput struct {
	UserID     string   `json:"user_id,omitempty" jsonschema:"owner of the campaign; defaults to default"`
	CampaignID string   `json:"campaign_id" jsonschema:"campaign identifier (letters, digits, underscore)"`
	Entities   []string `json:"entities" jsonschema:"monster references such as Goblin or 2 Wolves"`
}

// StartCombatResult is the output of start_combat
type StartCombatResult struct {
	Encounter EncounterView `json:"encounter"`
	Fallbacks []string      `json:"fallbacks,omitempty"`
}

// RollInitiativeResult is the output of roll_initiative_for_all
type RollInitiativeResult struct {
	Rolls []encounter.InitiativeRoll `json:"rolls"`
	Order encounter.TurnOrder        `json:"order"`
}

// TurnOrderResult is the output of get_initiative_order
type TurnOrderResult struct {
	Order encounter.TurnOrder `json:"order"`
}

// MakeAttackInput is the input of make_attack
type MakeAttackInput struct {
	UserID       string `json:"user_id,omitempty" jsonschema:"owner of the campaign; defaults to default"`
	CampaignID   string `json:"campaign_id" jsonschema:"campaign identifier (letters, digits, underscore)"`
	AttackerID   string `json:"attacker_id" jsonschema:"participant id of the attacker"`
	TargetID     string `json:"target_id" jsonschema:"participant id of the target"`
	Weapon       string `json:"weapon,omitempty" jsonschema:"attack, weapon or monster action name; empty picks the default"`
	Advantage    bool   `json:"advantage,omitempty" jsonschema:"roll with advantage"`
	Disadvantage bool   `json:"disadvantage,omitempty" jsonschema:"roll with disadvantage"`
}

// MakeAttackResult is the output of make_attack. Damage is not applied.
type MakeAttackResult struct {
	AttackerID   string             `json:"attacker_id"`
	AttackerName string             `json:"attacker_name"`
	TargetID     string             `json:"target_id"`
	TargetName   string             `json:"target_name"`
	Weapon       string             `json:"weapon"`
	Rolls        []int              `json:"rolls"`
	Natural      int                `json:"natural"`
	AttackBonus  int                `json:"attack_bonus"`
	Total        int                `json:"total"`
	TargetAC     int                `json:"target_ac"`
	Hit          bool               `json:"hit"`
	Critical     bool               `json:"critical"`
	Damage       *engine.RollResult `json:"damage,omitempty"`
	DamageType   string             `json:"damage_type,omitempty"`
}

// NextTurnResult is the output of next_turn
type NextTurnResult struct {
	Round    int                          `json:"round"`
	NewRound bool                         `json:"new_round"`
	Current  *entities.Combatant          `json:"current,omitempty"`
	Expired  []encounter.ExpiredCondition `json:"expired,omitempty"`
}

// EndCombatResult is the output of end_combat
type EndCombatResult struct {
	Ended       bool     `json:"ended"`
	EncounterID string   `json:"encounter_id,omitempty"`
	Rounds      int      `json:"rounds"`
	Survivors   []string `json:"survivors,omitempty"`
	Defeated    []string `json:"defeated,omitempty"`
}

// SuggestEncounterInput is the input of suggest_encounter
type SuggestEncounterInput struct {
	UserID     string `json:"user_id,omitempty" jsonschema:"owner of the campaign; defaults to default"`
	CampaignID string `json:"campaign_id" jsonschema:"campaign identifier (letters, digits, underscore)"`
	Difficulty string `json:"difficulty,omitempty" jsonschema:"easy, medium, hard or deadly; defaults to medium"`
	Level      int    `json:"level,omitempty" jsonschema:"party level; defaults to the character's level"`
}

// SuggestEncounterResult is the output of suggest_encounter
type SuggestEncounterResult struct {
	Level      int                          `json:"level"`
	Difficulty string                       `json:"difficulty"`
	TargetCR   float64                      `json:"target_cr"`
	Monsters   []encounter.SuggestedMonster `json:"monsters"`
	Rated      string                       `json:"rated"`
}

func (s *Server) registerEncounterTools() {
	addTool(s.server, "start_combat",
		"Starts an encounter with the player character and the named monsters",
		s.startCombat)
	addTool(s.server, "roll_initiative_for_all",
		"Rolls initiative for every participant and sorts the turn order",
		s.rollInitiative)
	addTool(s.server, "get_initiative_order",
		"Returns the turn order with the current-turn marker",
		s.getInitiativeOrder)
	addTool(s.server, "make_attack",
		"Resolves an attack roll and rolls damage on a hit; damage is applied separately with update_hp",
		s.makeAttack)
	addTool(s.server, "next_turn",
		"Advances to the next living participant, starting a new round after the last",
		s.nextTurn)
	addTool(s.server, "end_combat",
		"Ends the active encounter and reports survivors and defeated participants",
		s.endCombat)
	addTool(s.server, "suggest_encounter",
		"Suggests monsters for a difficulty at the character's level",
		s.suggestEncounter)
}

func (s *Server) startCombat(ctx context.Context, in StartCombatInput) (StartCombatResult, error) {
	out, err := s.encounters.StartCombat(ctx, &encounter.StartCombatInput{
		Ref:      campaignRef(in.UserID, in.CampaignID),
		Entities: in.Entities,
	})
	if err != nil {
		return StartCombatResult{}, err
	}
	return StartCombatResult{Encounter: encounterView(out.Encounter), Fallbacks: out.Fallbacks}, nil
}

func (s *Server) rollInitiative(ctx context.Context, in CampaignInput) (RollInitiativeResult, error) {
	out, err := s.encounters.RollInitiativeForAll(ctx, &encounter.RollInitiativeInput{Ref: campaignRef(in.UserID, in.CampaignID)})
	if err != nil {
		return RollInitiativeResult{}, err
	}
	res := RollInitiativeResult{Rolls: out.Rolls}
	if out.Order != nil {
		res.Order = *out.Order
	}
	return res, nil
}

func (s *Server) getInitiativeOrder(ctx context.Context, in CampaignInput) (TurnOrderResult, error) {
	out, err := s.encounters.GetInitiativeOrder(ctx, &encounter.GetInitiativeOrderInput{Ref: campaignRef(in.UserID, in.CampaignID)})
	if err != nil {
		return TurnOrderResult{}, err
	}
	var res TurnOrderResult
	if out.Order != nil {
		res.Order = *out.Order
	}
	return res, nil
}

func (s *Server) makeAttack(ctx context.Context, in MakeAttackInput) (MakeAttackResult, error) {
	out, err := s.encounters.MakeAttack(ctx, &encounter.MakeAttackInput{
		Ref:          campaignRef(in.UserID, in.CampaignID),
		AttackerID:   in.AttackerID,
		TargetID:     in.TargetID,
		Weapon:       in.Weapon,
		Advantage:    in.Advantage,
		Disadvantage: in.Disadvantage,
	})
	if err != nil {
		return MakeAttackResult{}, err
	}

	res := MakeAttackResult{
		AttackerID:   out.AttackerID,
		AttackerName: out.AttackerName,
		TargetID:     out.TargetID,
		TargetName:   out.TargetName,
		Weapon:       out.Weapon,
		AttackBonus:  out.AttackBonus,
		Total:        out.Total,
		TargetAC:     out.TargetAC,
		Hit:          out.Hit,
		Critical:     out.Critical,
		Damage:       out.Damage,
		DamageType:   out.DamageType,
	}
	if out.Roll != nil {
		res.Rolls = out.Roll.Rolls
		res.Natural = out.Roll.Natural
	}
	return res, nil
}

func (s *Server) nextTurn(ctx context.Context, in CampaignInput) (NextTurnResult, error) {
	out, err := s.encounters.NextTurn(ctx, &encounter.NextTurnInput{Ref: campaignRef(in.UserID, in.CampaignID)})
	if err != nil {
		return NextTurnResult{}, err
	}
	return NextTurnResult{
		Round:    out.Round,
		NewRound: out.NewRound,
		Current:  out.Current,
		Expired:  out.Expired,
	}, nil
}

func (s *Server) endCombat(ctx context.Context, in CampaignInput) (EndCombatResult, error) {
	out, err := s.encounters.EndCombat(ctx, &encounter.EndCombatInput{Ref: campaignRef(in.UserID, in.CampaignID)})
	if err != nil {
		return EndCombatResult{}, err
	}
	return EndCombatResult{
		Ended:       out.Ended,
		EncounterID: out.EncounterID,
		Rounds:      out.Rounds,
		Survivors:   out.Survivors,
		Defeated:    out.Defeated,
	}, nil
}

func (s *Server) suggestEncounter(ctx context.Context, in SuggestEncounterInput) (SuggestEncounterResult, error) {
	out, err := s.encounters.SuggestEncounter(ctx, &encounter.SuggestEncounterInput{
		Ref:        campaignRef(in.UserID, in.CampaignID),
		Difficulty: in.Difficulty,
		Level:      in.Level,
	})
	if err != nil {
		return SuggestEncounterResult{}, err
	}
	return SuggestEncounterResult{
		Level:      out.Level,
		Difficulty: string(out.Difficulty),
		TargetCR:   out.TargetCR,
		Monsters:   out.Monsters,
		Rated:      string(out.Rated),
	}, nil
}
