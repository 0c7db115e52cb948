package mcp

import (
	"context"
	"strings"

	"github.com/KirkDiggler/dnd-mcp/internal/engine"
	"github.com/KirkDiggler/dnd-mcp/internal/entities"
	"github.com/KirkDiggler/dnd-mcp/internal/orchestrators/character"
)

// CampaignInput is the input of tools that only need the campaign
type CampaignInput struct {
	UserID     string `json:"user_id,omitempty" jsonschema:"owner of the campaign; defaults to default"`
	CampaignID string `json:"campaign_id" jsonschema:"campaign identifier (letters, digits, underscore)"`
}

// CreateCharacterInput is the input of create_character
type CreateCharacterInput struct {
	UserID       string   `json:"user_id,omitempty" jsonschema:"owner of the campaign; defaults to default"`
	CampaignID   string   `json:"campaign_id" jsonschema:"campaign identifier (letters, digits, underscore)"`
	Name         string   `json:"name" jsonschema:"character name"`
	Race         string   `json:"race" jsonschema:"character race"`
	Class        string   `json:"class" jsonschema:"character class, e.g. fighter or wizard"`
	Background   string   `json:"background,omitempty" jsonschema:"background; grants its skill proficiencies"`
	Strength     int      `json:"strength" jsonschema:"strength score 1-20"`
	Dexterity    int      `json:"dexterity" jsonschema:"dexterity score 1-20"`
	Constitution int      `json:"constitution" jsonschema:"constitution score 1-20"`
	Intelligence int      `json:"intelligence" jsonschema:"intelligence score 1-20"`
	Wisdom       int      `json:"wisdom" jsonschema:"wisdom score 1-20"`
	Charisma     int      `json:"charisma" jsonschema:"charisma score 1-20"`
	Level        int      `json:"level,omitempty" jsonschema:"starting level 1-20; defaults to 1"`
	HitDie       int      `json:"hit_die,omitempty" jsonschema:"hit die size; defaults to the class hit die"`
	HPMethod     string   `json:"hp_method,omitempty" jsonschema:"average or roll; defaults to average"`
	Skills       []string `json:"skills,omitempty" jsonschema:"extra skill proficiencies"`
}

// CharacterResult carries a character sheet
type CharacterResult struct {
	Character CharacterView `json:"character"`
}

// CreateCharacterResult is the output of create_character
type CreateCharacterResult struct {
	Character CharacterView `json:"character"`
	Inventory InventoryView `json:"inventory"`
}

// UpdateHPInput is the input of update_hp
type UpdateHPInput struct {
	UserID     string `json:"user_id,omitempty" jsonschema:"owner of the campaign; defaults to default"`
	CampaignID string `json:"campaign_id" jsonschema:"campaign identifier (letters, digits, underscore)"`
	Amount     int    `json:"amount" jsonschema:"non-negative amount of the change"`
	Kind       string `json:"kind" jsonschema:"damage, healing, max or temporary"`
	TargetID   string `json:"target_id,omitempty" jsonschema:"encounter participant id; empty means the player character"`
	Critical   bool   `json:"critical,omitempty" jsonschema:"damage came from a critical hit"`
}

// UpdateHPResult is the output of update_hp
type UpdateHPResult struct {
	TargetID   string          `json:"target_id"`
	TargetName string          `json:"target_name"`
	Change     engine.HPChange `json:"change"`
	Status     string          `json:"status,omitempty"`
}

// UpdateStatInput is the input of update_stat
type UpdateStatInput struct {
	UserID     string `json:"user_id,omitempty" jsonschema:"owner of the campaign; defaults to default"`
	CampaignID string `json:"campaign_id" jsonschema:"campaign identifier (letters, digits, underscore)"`
	Ability    string `json:"ability" jsonschema:"ability name or abbreviation"`
	Value      int    `json:"value" jsonschema:"new score 1-30"`
}

// UpdateStatResult is the output of update_stat
type UpdateStatResult struct {
	Ability   string        `json:"ability"`
	Previous  int           `json:"previous"`
	Character CharacterView `json:"character"`
}

// AddExperienceInput is the input of add_experience
type AddExperienceInput struct {
	UserID     string `json:"user_id,omitempty" jsonschema:"owner of the campaign; defaults to default"`
	CampaignID string `json:"campaign_id" jsonschema:"campaign identifier (letters, digits, underscore)"`
	XP         int    `json:"xp" jsonschema:"experience points to award"`
}

// AddExperienceResult is the output of add_experience
type AddExperienceResult struct {
	LeveledUp bool          `json:"leveled_up"`
	Level     int           `json:"level"`
	Character CharacterView `json:"character"`
}

// CalculateACResult is the output of calculate_ac
type CalculateACResult struct {
	Previous int `json:"previous"`
	AC       int `json:"ac"`
}

// CheckInput is the input of make_check and make_saving_throw
type CheckInput struct {
	UserID       string `json:"user_id,omitempty" jsonschema:"owner of the campaign; defaults to default"`
	CampaignID   string `json:"campaign_id" jsonschema:"campaign identifier (letters, digits, underscore)"`
	Name         string `json:"name" jsonschema:"skill or ability for checks, ability for saving throws"`
	DC           int    `json:"dc,omitempty" jsonschema:"difficulty class; 0 reports the total only"`
	Advantage    bool   `json:"advantage,omitempty" jsonschema:"roll with advantage"`
	Disadvantage bool   `json:"disadvantage,omitempty" jsonschema:"roll with disadvantage"`
}

// CheckResult is the output of make_check and make_saving_throw
type CheckResult struct {
	Bonus         engine.CheckBonus `json:"bonus"`
	Rolls         []int             `json:"rolls"`
	Natural       int               `json:"natural"`
	Total         int               `json:"total"`
	DC            int               `json:"dc,omitempty"`
	Success       *bool             `json:"success,omitempty"`
	Disadvantaged bool              `json:"disadvantaged_by_exhaustion,omitempty"`
}

// DeathSaveResult is the output of make_death_save
type DeathSaveResult struct {
	Natural    int                 `json:"natural,omitempty"`
	Outcome    string              `json:"outcome"`
	DeathSaves entities.DeathSaves `json:"death_saves"`
	CurrentHP  int                 `json:"current_hp"`
}

func (s *Server) registerCharacterTools() {
	addTool(s.server, "create_character",
		"Creates the campaign's player character, replacing any existing one, with starting gear",
		s.createCharacter)
	addTool(s.server, "get_character",
		"Returns the full character sheet",
		s.getCharacter)
	addTool(s.server, "update_hp",
		"Applies damage, healing, a new max HP or temporary HP to the character or an encounter participant",
		s.updateHP)
	addTool(s.server, "update_stat",
		"Sets one ability score and recomputes what depends on it",
		s.updateStat)
	addTool(s.server, "add_experience",
		"Awards experience and levels the character up when thresholds are crossed",
		s.addExperience)
	addTool(s.server, "calculate_ac",
		"Recomputes armor class from DEX and equipped armor and shield",
		s.calculateAC)
	addTool(s.server, "make_check",
		"Rolls a skill or ability check",
		s.makeCheck)
	addTool(s.server, "make_saving_throw",
		"Rolls a saving throw",
		s.makeSavingThrow)
	addTool(s.server, "make_death_save",
		"Rolls a death saving throw for a character at 0 HP",
		s.makeDeathSave)
	addTool(s.server, "stabilize_character",
		"Stabilizes a dying character",
		s.stabilizeCharacter)
}

func (s *Server) createCharacter(ctx context.Context, in CreateCharacterInput) (CreateCharacterResult, error) {
	out, err := s.characters.CreateCharacter(ctx, &character.CreateCharacterInput{
		Ref:        campaignRef(in.UserID, in.CampaignID),
		Name:       in.Name,
		Race:       in.Race,
		Class:      in.Class,
		Background: in.Background,
		Scores: entities.AbilityScores{
			Strength:     in.Strength,
			Dexterity:    in.Dexterity,
			Constitution: in.Constitution,
			Intelligence: in.Intelligence,
			Wisdom:       in.Wisdom,
			Charisma:     in.Charisma,
		},
		Level:    in.Level,
		HitDie:   in.HitDie,
		HPMethod: entities.HPMethod(strings.ToLower(in.HPMethod)),
		Skills:   in.Skills,
	})
	if err != nil {
		return CreateCharacterResult{}, err
	}
	return CreateCharacterResult{
		Character: characterView(out.Character),
		Inventory: inventoryView(out.Inventory),
	}, nil
}

func (s *Server) getCharacter(ctx context.Context, in CampaignInput) (CharacterResult, error) {
	out, err := s.characters.GetCharacter(ctx, &character.GetCharacterInput{Ref: campaignRef(in.UserID, in.CampaignID)})
	if err != nil {
		return CharacterResult{}, err
	}
	return CharacterResult{Character: characterView(out.Character)}, nil
}

func (s *Server) updateHP(ctx context.Context, in UpdateHPInput) (UpdateHPResult, error) {
	kind, ok := engine.ParseHPKind(strings.ToLower(strings.TrimSpace(in.Kind)))
	if !ok {
		// the engine reports the allowed kinds
		kind = engine.HPKind(in.Kind)
	}

	out, err := s.characters.UpdateHP(ctx, &character.UpdateHPInput{
		Ref:      campaignRef(in.UserID, in.CampaignID),
		Amount:   in.Amount,
		Kind:     kind,
		TargetID: in.TargetID,
		Critical: in.Critical,
	})
	if err != nil {
		return UpdateHPResult{}, err
	}

	res := UpdateHPResult{TargetID: out.TargetID, TargetName: out.TargetName}
	if out.Change != nil {
		res.Change = *out.Change
	}
	if out.Combatant != nil {
		res.Status = string(out.Combatant.Status)
	}
	return res, nil
}

func (s *Server) updateStat(ctx context.Context, in UpdateStatInput) (UpdateStatResult, error) {
	out, err := s.characters.UpdateStat(ctx, &character.UpdateStatInput{
		Ref:     campaignRef(in.UserID, in.CampaignID),
		Ability: in.Ability,
		Value:   in.Value,
	})
	if err != nil {
		return UpdateStatResult{}, err
	}
	return UpdateStatResult{
		Ability:   string(out.Ability),
		Previous:  out.Previous,
		Character: characterView(out.Character),
	}, nil
}

func (s *Server) addExperience(ctx context.Context, in AddExperienceInput) (AddExperienceResult, error) {
	out, err := s.characters.AddExperience(ctx, &character.AddExperienceInput{
		Ref: campaignRef(in.UserID, in.CampaignID),
		XP:  in.XP,
	})
	if err != nil {
		return AddExperienceResult{}, err
	}
	return AddExperienceResult{
		LeveledUp: out.LeveledUp,
		Level:     out.Level,
		Character: characterView(out.Character),
	}, nil
}

func (s *Server) calculateAC(ctx context.Context, in CampaignInput) (CalculateACResult, error) {
	out, err := s.characters.RecalculateAC(ctx, &character.RecalculateACInput{Ref: campaignRef(in.UserID, in.CampaignID)})
	if err != nil {
		return CalculateACResult{}, err
	}
	return CalculateACResult{Previous: out.Previous, AC: out.AC}, nil
}

func (s *Server) makeCheck(ctx context.Context, in CheckInput) (CheckResult, error) {
	out, err := s.characters.MakeCheck(ctx, &character.MakeCheckInput{
		Ref:          campaignRef(in.UserID, in.CampaignID),
		Skill:        in.Name,
		DC:           in.DC,
		Advantage:    in.Advantage,
		Disadvantage: in.Disadvantage,
	})
	if err != nil {
		return CheckResult{}, err
	}
	return checkResult(out), nil
}

func (s *Server) makeSavingThrow(ctx context.Context, in CheckInput) (CheckResult, error) {
	out, err := s.characters.MakeSavingThrow(ctx, &character.MakeSavingThrowInput{
		Ref:          campaignRef(in.UserID, in.CampaignID),
		Ability:      in.Name,
		DC:           in.DC,
		Advantage:    in.Advantage,
		Disadvantage: in.Disadvantage,
	})
	if err != nil {
		return CheckResult{}, err
	}
	return checkResult(out), nil
}

func checkResult(out *character.CheckOutput) CheckResult {
	res := CheckResult{
		Total:         out.Total,
		DC:            out.DC,
		Success:       out.Success,
		Disadvantaged: out.Disadvantaged,
	}
	if out.Bonus != nil {
		res.Bonus = *out.Bonus
	}
	if out.Roll != nil {
		res.Rolls = out.Roll.Rolls
		res.Natural = out.Roll.Natural
	}
	return res
}

func (s *Server) makeDeathSave(ctx context.Context, in CampaignInput) (DeathSaveResult, error) {
	out, err := s.characters.MakeDeathSave(ctx, &character.MakeDeathSaveInput{Ref: campaignRef(in.UserID, in.CampaignID)})
	if err != nil {
		return DeathSaveResult{}, err
	}
	return DeathSaveResult{
		Natural:    out.Natural,
		Outcome:    string(out.Outcome),
		DeathSaves: out.DeathSaves,
		CurrentHP:  out.CurrentHP,
	}, nil
}

func (s *Server) stabilizeCharacter(ctx context.Context, in CampaignInput) (CharacterResult, error) {
	out, err := s.characters.Stabilize(ctx, &character.StabilizeInput{Ref: campaignRef(in.UserID, in.CampaignID)})
	if err != nil {
		return CharacterResult{}, err
	}
	return CharacterResult{Character: characterView(out.Character)}, nil
}
