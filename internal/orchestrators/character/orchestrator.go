// Package character implements the character orchestrator: creation, hit
// points, ability scores, experience, armor class and d20 tests.
package character

//go:generate mockgen -destination=mock/mock_service.go -package=charactermock github.com/KirkDiggler/dnd-mcp/internal/orchestrators/character Service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/dnd-mcp/internal/clients/content"
	"github.com/KirkDiggler/dnd-mcp/internal/engine"
	"github.com/KirkDiggler/dnd-mcp/internal/entities"
	"github.com/KirkDiggler/dnd-mcp/internal/errors"
	"github.com/KirkDiggler/dnd-mcp/internal/keyspace"
	"github.com/KirkDiggler/dnd-mcp/internal/pkg/clock"
	"github.com/KirkDiggler/dnd-mcp/internal/pkg/idgen"
	characterrepo "github.com/KirkDiggler/dnd-mcp/internal/repositories/character"
	"github.com/KirkDiggler/dnd-mcp/internal/repositories/encounters"
	"github.com/KirkDiggler/dnd-mcp/internal/repositories/inventory"
)

// Default speed in feet when a race does not say otherwise
const defaultSpeed = 30

// starterItems every new character receives
var starterItems = []struct {
	name     string
	quantity int
}{
	{name: "Rations", quantity: 5},
	{name: "Torch", quantity: 1},
}

// Service defines the interface for character operations
type Service interface {
	// CreateCharacter replaces the campaign's character and inventory
	CreateCharacter(ctx context.Context, input *CreateCharacterInput) (*CreateCharacterOutput, error)

	// GetCharacter returns the campaign's character
	GetCharacter(ctx context.Context, input *GetCharacterInput) (*GetCharacterOutput, error)

	// UpdateHP applies damage, healing, a new maximum or temporary HP to the
	// character or to a member of the active encounter
	UpdateHP(ctx context.Context, input *UpdateHPInput) (*UpdateHPOutput, error)

	// UpdateStat sets one ability score
	UpdateStat(ctx context.Context, input *UpdateStatInput) (*UpdateStatOutput, error)

	// AddExperience awards experience and applies level-ups
	AddExperience(ctx context.Context, input *AddExperienceInput) (*AddExperienceOutput, error)

	// RecalculateAC recomputes armor class from scores and equipment
	RecalculateAC(ctx context.Context, input *RecalculateACInput) (*RecalculateACOutput, error)

	// MakeCheck rolls an ability or skill check
	MakeCheck(ctx context.Context, input *MakeCheckInput) (*CheckOutput, error)

	// MakeSavingThrow rolls a saving throw
	MakeSavingThrow(ctx context.Context, input *MakeSavingThrowInput) (*CheckOutput, error)

	// MakeDeathSave rolls a death saving throw for a dying character
	MakeDeathSave(ctx context.Context, input *MakeDeathSaveInput) (*MakeDeathSaveOutput, error)

	// Stabilize makes a dying character stable
	Stabilize(ctx context.Context, input *StabilizeInput) (*StabilizeOutput, error)
}

// Config holds the dependencies for the character orchestrator
type Config struct {
	CharacterRepo characterrepo.Repository
	InventoryRepo inventory.Repository
	EncounterRepo encounters.Repository
	Content       content.Client
	// Roller defaults to the rpg-toolkit crypto roller
	Roller      dice.Roller
	Clock       clock.Clock
	IDGenerator idgen.Generator
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config is required")
	}
	vb := errors.NewValidationBuilder()

	if c.CharacterRepo == nil {
		vb.RequiredField("CharacterRepo")
	}
	if c.InventoryRepo == nil {
		vb.RequiredField("InventoryRepo")
	}
	if c.EncounterRepo == nil {
		vb.RequiredField("EncounterRepo")
	}
	if c.Content == nil {
		vb.RequiredField("Content")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}

	return vb.Build()
}

type orchestrator struct {
	characterRepo characterrepo.Repository
	inventoryRepo inventory.Repository
	encounterRepo encounters.Repository
	content       content.Client
	dice          *engine.Dice
	clock         clock.Clock
	idGen         idgen.Generator
}

// NewOrchestrator creates a new character orchestrator
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		characterRepo: cfg.CharacterRepo,
		inventoryRepo: cfg.InventoryRepo,
		encounterRepo: cfg.EncounterRepo,
		content:       cfg.Content,
		dice:          engine.NewDice(cfg.Roller),
		clock:         cfg.Clock,
		idGen:         cfg.IDGenerator,
	}, nil
}

func validateCreate(input *CreateCharacterInput) error {
	vb := errors.NewValidationBuilder()

	errors.ValidateRequired("name", input.Name, vb)
	errors.ValidateRequired("race", input.Race, vb)
	errors.ValidateRequired("class", input.Class, vb)
	for _, a := range entities.Abilities {
		errors.ValidateRange("scores."+string(a), input.Scores.Get(a), 1, 20, vb)
	}
	errors.ValidateRange("level", input.Level, 1, engine.MaxLevel, vb)
	switch input.HitDie {
	case 6, 8, 10, 12:
	default:
		vb.InvalidField("hit_die", "must be one of d6, d8, d10, d12")
	}
	errors.ValidateEnum("hp_method", string(input.HPMethod),
		[]string{string(entities.HPMethodAverage), string(entities.HPMethodRoll)}, vb)
	for _, skill := range input.Skills {
		if _, ok := entities.Skills[entities.NormalizeSkill(skill)]; !ok {
			vb.Fieldf("skills", "unknown skill %q", skill)
		}
	}

	return vb.Build()
}

func (o *orchestrator) CreateCharacter(ctx context.Context, input *CreateCharacterInput) (*CreateCharacterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	classInfo, _ := engine.Class(input.Class)
	if input.Level == 0 {
		input.Level = 1
	}
	if input.HitDie == 0 {
		input.HitDie = classInfo.HitDie
	}
	if input.HPMethod == "" {
		input.HPMethod = entities.HPMethodAverage
	}
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	var rolls []int
	if input.HPMethod == entities.HPMethodRoll {
		for l := 2; l <= input.Level; l++ {
			r, err := o.dice.Die(input.HitDie)
			if err != nil {
				return nil, err
			}
			rolls = append(rolls, r)
		}
	}
	conMod := engine.Modifier(input.Scores.Constitution)
	maxHP := engine.MaxHPFor(input.HitDie, input.Level, conMod, input.HPMethod, rolls)

	now := o.clock.Now()
	c := &entities.Character{
		ID:                 o.idGen.Generate(),
		Name:               strings.TrimSpace(input.Name),
		Race:               strings.TrimSpace(input.Race),
		Class:              strings.ToLower(strings.TrimSpace(input.Class)),
		Background:         strings.TrimSpace(input.Background),
		Level:              input.Level,
		XP:                 engine.XPForLevel(input.Level),
		Scores:             input.Scores,
		MaxHP:              maxHP,
		CurrentHP:          maxHP,
		Speed:              defaultSpeed,
		ProficiencyBonus:   engine.ProficiencyBonus(input.Level),
		HitDice:            entities.HitDice{Die: input.HitDie, Max: input.Level, Current: input.Level},
		SaveProficiencies:  append([]entities.Ability(nil), classInfo.Saves...),
		SkillProficiencies: mergeSkills(engine.BackgroundSkills(input.Background), input.Skills),
		Spellcasting:       engine.NewSpellcasting(input.Class, input.Level),
		Features:           engine.StartingFeatures(input.Class, input.Level, input.Scores),
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	inv := entities.NewInventory(engine.CarryCapacity(input.Scores.Strength))
	for _, starter := range starterItems {
		inv.Items = append(inv.Items, o.resolveItem(ctx, starter.name, starter.quantity))
	}
	engine.RecalculateAC(c, inv)

	if _, err := o.characterRepo.Save(ctx, characterrepo.SaveInput{Ref: input.Ref, Character: c}); err != nil {
		return nil, errors.Wrap(err, "failed to save character")
	}
	if _, err := o.inventoryRepo.Save(ctx, inventory.SaveInput{Ref: input.Ref, Inventory: inv}); err != nil {
		return nil, errors.Wrap(err, "failed to save inventory")
	}

	slog.InfoContext(ctx, "Character created",
		"campaign_id", input.Ref.CampaignID,
		"user_id", input.Ref.UserID,
		"character_id", c.ID,
		"class", c.Class,
		"level", c.Level,
		"max_hp", c.MaxHP,
		"ac", c.AC,
	)

	return &CreateCharacterOutput{Character: c, Inventory: inv}, nil
}

// resolveItem attaches SRD data to a starter item; unknown items are gear
func (o *orchestrator) resolveItem(ctx context.Context, name string, quantity int) entities.Item {
	info, err := o.content.LookupItem(ctx, name)
	if err != nil {
		slog.DebugContext(ctx, "Starter item not in content, adding as gear",
			"item", name,
			"error", err)
		return entities.Item{
			ID:       entities.ItemID(name),
			Name:     name,
			Quantity: quantity,
			Kind:     entities.ItemKindGear,
		}
	}
	return info.ToItem(quantity)
}

func mergeSkills(lists ...[]string) []string {
	seen := map[string]bool{}
	var out []string
	for _, list := range lists {
		for _, s := range list {
			s = entities.NormalizeSkill(s)
			if s == "" || seen[s] {
				continue
			}
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func (o *orchestrator) GetCharacter(ctx context.Context, input *GetCharacterInput) (*GetCharacterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	c, err := o.load(ctx, input.Ref)
	if err != nil {
		return nil, err
	}
	return &GetCharacterOutput{Character: c}, nil
}

func (o *orchestrator) UpdateHP(ctx context.Context, input *UpdateHPInput) (*UpdateHPOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	c, err := o.load(ctx, input.Ref)
	if err != nil {
		return nil, err
	}
	enc, err := o.activeEncounter(ctx, input.Ref)
	if err != nil {
		return nil, err
	}

	target := strings.TrimSpace(input.TargetID)
	if target != "" && target != c.ID {
		if enc == nil {
			return nil, errors.InvalidState(errors.ReasonNotInEncounter,
				"no active encounter; hit points can only target the character")
		}
		cb, ok := enc.Find(target)
		if !ok {
			return nil, errors.NotFoundf("participant %q is not in the encounter", target).
				WithReason(errors.ReasonUnknownParticipant).
				WithMeta("participant_id", target)
		}
		if cb.Kind == entities.CombatantMonster {
			change, err := engine.ApplyCombatantHPDelta(cb, input.Amount, input.Kind)
			if err != nil {
				return nil, err
			}
			if err := o.saveEncounter(ctx, input.Ref, enc); err != nil {
				return nil, err
			}
			slog.InfoContext(ctx, "Combatant HP updated",
				"campaign_id", input.Ref.CampaignID,
				"encounter_id", enc.ID,
				"participant_id", cb.ID,
				"kind", input.Kind,
				"amount", input.Amount,
				"hp", cb.HP,
				"status", cb.Status,
			)
			return &UpdateHPOutput{TargetID: cb.ID, TargetName: cb.Name, Change: change, Combatant: cb}, nil
		}
	}

	change, err := engine.ApplyHPDelta(c, input.Amount, input.Kind, input.Critical)
	if err != nil {
		return nil, err
	}
	if err := o.save(ctx, input.Ref, c); err != nil {
		return nil, err
	}

	out := &UpdateHPOutput{TargetID: c.ID, TargetName: c.Name, Change: change, Character: c}
	if enc != nil {
		if p, ok := enc.Player(); ok {
			engine.SyncPlayerCombatant(c, p)
			if err := o.saveEncounter(ctx, input.Ref, enc); err != nil {
				return nil, err
			}
			out.TargetID = p.ID
			out.Combatant = p
		}
	}

	slog.InfoContext(ctx, "Character HP updated",
		"campaign_id", input.Ref.CampaignID,
		"character_id", c.ID,
		"kind", input.Kind,
		"amount", input.Amount,
		"hp", c.CurrentHP,
		"max_hp", c.MaxHP,
		"temp_hp", c.TempHP,
	)

	return out, nil
}

func (o *orchestrator) UpdateStat(ctx context.Context, input *UpdateStatInput) (*UpdateStatOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	ability, ok := entities.ParseAbility(input.Ability)
	vb := errors.NewValidationBuilder()
	if !ok {
		vb.InvalidField("ability", "must be one of str, dex, con, int, wis, cha")
	}
	errors.ValidateRange("value", input.Value, 1, 30, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	c, err := o.load(ctx, input.Ref)
	if err != nil {
		return nil, err
	}

	previous := c.Scores.Get(ability)
	c.Scores.Set(ability, input.Value)

	if ability == entities.AbilityDexterity {
		inv, err := o.loadInventory(ctx, input.Ref, c)
		if err != nil {
			return nil, err
		}
		engine.RecalculateAC(c, inv)
	}
	if ability == entities.AbilityStrength {
		if err := o.updateCarryCapacity(ctx, input.Ref, c); err != nil {
			return nil, err
		}
	}

	if err := o.save(ctx, input.Ref, c); err != nil {
		return nil, err
	}
	if err := o.syncEncounter(ctx, input.Ref, c); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Ability score updated",
		"campaign_id", input.Ref.CampaignID,
		"ability", ability,
		"previous", previous,
		"value", input.Value,
	)

	return &UpdateStatOutput{Ability: ability, Previous: previous, Character: c}, nil
}

func (o *orchestrator) updateCarryCapacity(ctx context.Context, ref keyspace.Ref, c *entities.Character) error {
	inv, err := o.loadInventory(ctx, ref, c)
	if err != nil {
		return err
	}
	inv.CarryCapacity = engine.CarryCapacity(c.Scores.Strength)
	if _, err := o.inventoryRepo.Save(ctx, inventory.SaveInput{Ref: ref, Inventory: inv}); err != nil {
		return errors.Wrap(err, "failed to save inventory")
	}
	return nil
}

func (o *orchestrator) AddExperience(ctx context.Context, input *AddExperienceInput) (*AddExperienceOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	vb := errors.NewValidationBuilder()
	errors.ValidatePositive("xp", input.XP, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	c, err := o.load(ctx, input.Ref)
	if err != nil {
		return nil, err
	}

	leveledUp, level, err := engine.AddExperience(c, input.XP)
	if err != nil {
		return nil, err
	}
	if err := o.save(ctx, input.Ref, c); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Experience added",
		"campaign_id", input.Ref.CampaignID,
		"xp", input.XP,
		"total_xp", c.XP,
		"level", level,
		"leveled_up", leveledUp,
	)

	return &AddExperienceOutput{LeveledUp: leveledUp, Level: level, Character: c}, nil
}

func (o *orchestrator) RecalculateAC(ctx context.Context, input *RecalculateACInput) (*RecalculateACOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	c, err := o.load(ctx, input.Ref)
	if err != nil {
		return nil, err
	}
	inv, err := o.loadInventory(ctx, input.Ref, c)
	if err != nil {
		return nil, err
	}

	previous := c.AC
	ac := engine.RecalculateAC(c, inv)
	if ac != previous {
		if err := o.save(ctx, input.Ref, c); err != nil {
			return nil, err
		}
		if err := o.syncEncounter(ctx, input.Ref, c); err != nil {
			return nil, err
		}
	}

	return &RecalculateACOutput{Previous: previous, AC: ac}, nil
}

func (o *orchestrator) MakeCheck(ctx context.Context, input *MakeCheckInput) (*CheckOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := validateDC(input.DC); err != nil {
		return nil, err
	}

	c, err := o.load(ctx, input.Ref)
	if err != nil {
		return nil, err
	}
	bonus, err := engine.CheckBonusFor(c, input.Skill)
	if err != nil {
		return nil, err
	}

	// exhaustion 1+ imposes disadvantage on ability checks
	disadvantage := input.Disadvantage
	exhausted := exhaustionLevel(c) >= 1
	if exhausted {
		disadvantage = true
	}
	return o.rollTest(bonus, input.DC, input.Advantage, disadvantage, exhausted && !input.Disadvantage)
}

func (o *orchestrator) MakeSavingThrow(ctx context.Context, input *MakeSavingThrowInput) (*CheckOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := validateDC(input.DC); err != nil {
		return nil, err
	}

	c, err := o.load(ctx, input.Ref)
	if err != nil {
		return nil, err
	}
	bonus, err := engine.SaveBonusFor(c, input.Ability)
	if err != nil {
		return nil, err
	}

	// exhaustion 3+ imposes disadvantage on saving throws
	disadvantage := input.Disadvantage
	exhausted := exhaustionLevel(c) >= 3
	if exhausted {
		disadvantage = true
	}
	return o.rollTest(bonus, input.DC, input.Advantage, disadvantage, exhausted && !input.Disadvantage)
}

func validateDC(dc int) error {
	vb := errors.NewValidationBuilder()
	errors.ValidateRange("dc", dc, 0, 40, vb)
	return vb.Build()
}

func exhaustionLevel(c *entities.Character) int {
	if cond, ok := c.Condition(engine.ConditionExhaustion); ok {
		return max(1, cond.Level)
	}
	return 0
}

func (o *orchestrator) rollTest(bonus *engine.CheckBonus, dc int, adv, disadv, imposed bool) (*CheckOutput, error) {
	roll, err := o.dice.D20(adv, disadv)
	if err != nil {
		return nil, err
	}
	out := &CheckOutput{
		Bonus:         bonus,
		Roll:          roll,
		Total:         roll.Natural + bonus.Total,
		DC:            dc,
		Disadvantaged: imposed,
	}
	if dc > 0 {
		success := out.Total >= dc
		out.Success = &success
	}
	return out, nil
}

func (o *orchestrator) MakeDeathSave(ctx context.Context, input *MakeDeathSaveInput) (*MakeDeathSaveOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	c, err := o.load(ctx, input.Ref)
	if err != nil {
		return nil, err
	}
	if err := engine.CheckDying(c); err != nil {
		return nil, err
	}

	natural := 0
	if !c.DeathSaves.Stable {
		natural, err = o.dice.Die(20)
		if err != nil {
			return nil, err
		}
	}
	outcome, err := engine.ApplyDeathSave(c, natural)
	if err != nil {
		return nil, err
	}
	if err := o.save(ctx, input.Ref, c); err != nil {
		return nil, err
	}
	if err := o.syncEncounter(ctx, input.Ref, c); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Death save rolled",
		"campaign_id", input.Ref.CampaignID,
		"natural", natural,
		"outcome", outcome,
		"successes", c.DeathSaves.Successes,
		"failures", c.DeathSaves.Failures,
	)

	return &MakeDeathSaveOutput{
		Natural:    natural,
		Outcome:    outcome,
		DeathSaves: c.DeathSaves,
		CurrentHP:  c.CurrentHP,
	}, nil
}

func (o *orchestrator) Stabilize(ctx context.Context, input *StabilizeInput) (*StabilizeOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	c, err := o.load(ctx, input.Ref)
	if err != nil {
		return nil, err
	}
	if err := engine.Stabilize(c); err != nil {
		return nil, err
	}
	if err := o.save(ctx, input.Ref, c); err != nil {
		return nil, err
	}
	return &StabilizeOutput{Character: c}, nil
}

func (o *orchestrator) load(ctx context.Context, ref keyspace.Ref) (*entities.Character, error) {
	out, err := o.characterRepo.Get(ctx, characterrepo.GetInput{Ref: ref})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load character")
	}
	return out.Character, nil
}

func (o *orchestrator) save(ctx context.Context, ref keyspace.Ref, c *entities.Character) error {
	c.UpdatedAt = o.clock.Now()
	if _, err := o.characterRepo.Save(ctx, characterrepo.SaveInput{Ref: ref, Character: c}); err != nil {
		return errors.Wrap(err, "failed to save character")
	}
	return nil
}

// loadInventory returns an empty inventory when none was stored
func (o *orchestrator) loadInventory(ctx context.Context, ref keyspace.Ref, c *entities.Character) (*entities.Inventory, error) {
	out, err := o.inventoryRepo.Get(ctx, inventory.GetInput{Ref: ref})
	if err != nil {
		if errors.IsNotFound(err) {
			return entities.NewInventory(engine.CarryCapacity(c.Scores.Strength)), nil
		}
		return nil, errors.Wrap(err, "failed to load inventory")
	}
	return out.Inventory, nil
}

// activeEncounter returns nil when the campaign is not in combat
func (o *orchestrator) activeEncounter(ctx context.Context, ref keyspace.Ref) (*entities.Encounter, error) {
	out, err := o.encounterRepo.Get(ctx, encounters.GetInput{Ref: ref})
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to load encounter")
	}
	if out.Encounter.Status != entities.EncounterActive {
		return nil, nil
	}
	return out.Encounter, nil
}

func (o *orchestrator) saveEncounter(ctx context.Context, ref keyspace.Ref, enc *entities.Encounter) error {
	if _, err := o.encounterRepo.Save(ctx, encounters.SaveInput{Ref: ref, Encounter: enc}); err != nil {
		return errors.Wrap(err, "failed to save encounter")
	}
	return nil
}

// syncEncounter mirrors the character onto its roster entry, if in combat
func (o *orchestrator) syncEncounter(ctx context.Context, ref keyspace.Ref, c *entities.Character) error {
	enc, err := o.activeEncounter(ctx, ref)
	if err != nil || enc == nil {
		return err
	}
	p, ok := enc.Player()
	if !ok {
		return nil
	}
	engine.SyncPlayerCombatant(c, p)
	return o.saveEncounter(ctx, ref, enc)
}
