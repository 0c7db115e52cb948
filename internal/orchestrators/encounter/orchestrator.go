// Package encounter implements the encounter orchestrator: the turn-based
// combat state machine of a campaign
package encounter

//go:generate mockgen -destination=mock/mock_service.go -package=encountermock github.com/KirkDiggler/dnd-mcp/internal/orchestrators/encounter Service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/KirkDiggler/rpg-toolkit/core"
	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/dnd-mcp/internal/clients/content"
	"github.com/KirkDiggler/dnd-mcp/internal/engine"
	"github.com/KirkDiggler/dnd-mcp/internal/entities"
	"github.com/KirkDiggler/dnd-mcp/internal/errors"
	"github.com/KirkDiggler/dnd-mcp/internal/keyspace"
	"github.com/KirkDiggler/dnd-mcp/internal/pkg/clock"
	"github.com/KirkDiggler/dnd-mcp/internal/pkg/idgen"
	"github.com/KirkDiggler/dnd-mcp/internal/repositories/character"
	"github.com/KirkDiggler/dnd-mcp/internal/repositories/encounters"
	"github.com/KirkDiggler/dnd-mcp/internal/repositories/inventory"
)

const (
	// maxGroupSize caps a single "N Monsters" reference
	maxGroupSize = 20

	// fallbackCR is used for monsters the content lookup does not know
	fallbackCR = 1.0

	unarmedStrike = "Unarmed Strike"
)

var quantityPrefix = regexp.MustCompile(`^(\d+)\s*[x×]?\s+(.+)$`)

// Service defines the interface for encounter operations
type Service interface {
	// StartCombat creates the campaign's active encounter
	StartCombat(ctx context.Context, input *StartCombatInput) (*StartCombatOutput, error)

	// RollInitiativeForAll rolls and sorts initiative for the whole roster
	RollInitiativeForAll(ctx context.Context, input *RollInitiativeInput) (*RollInitiativeOutput, error)

	// GetInitiativeOrder returns the roster with the current-turn marker
	GetInitiativeOrder(ctx context.Context, input *GetInitiativeOrderInput) (*GetInitiativeOrderOutput, error)

	// MakeAttack resolves an attack roll and rolls damage without applying it
	MakeAttack(ctx context.Context, input *MakeAttackInput) (*MakeAttackOutput, error)

	// NextTurn advances to the next living participant
	NextTurn(ctx context.Context, input *NextTurnInput) (*NextTurnOutput, error)

	// EndCombat ends the active encounter; without one it does nothing
	EndCombat(ctx context.Context, input *EndCombatInput) (*EndCombatOutput, error)

	// SuggestEncounter proposes a monster sized to the character's level
	SuggestEncounter(ctx context.Context, input *SuggestEncounterInput) (*SuggestEncounterOutput, error)
}

// Config holds the dependencies for the encounter orchestrator
type Config struct {
	CharacterRepo character.Repository
	EncounterRepo encounters.Repository
	InventoryRepo inventory.Repository
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
	if c.EncounterRepo == nil {
		vb.RequiredField("EncounterRepo")
	}
	if c.InventoryRepo == nil {
		vb.RequiredField("InventoryRepo")
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
	characterRepo character.Repository
	encounterRepo encounters.Repository
	inventoryRepo inventory.Repository
	content       content.Client
	dice          *engine.Dice
	clock         clock.Clock
	idGen         idgen.Generator
}

// NewOrchestrator creates a new encounter orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		characterRepo: cfg.CharacterRepo,
		encounterRepo: cfg.EncounterRepo,
		inventoryRepo: cfg.InventoryRepo,
		content:       cfg.Content,
		dice:          engine.NewDice(cfg.Roller),
		clock:         cfg.Clock,
		idGen:         cfg.IDGenerator,
	}, nil
}

// monsterRef is a parsed "N Name" roster reference
type monsterRef struct {
	raw      string
	name     string
	quantity int
}

func parseMonsterRefs(refs []string) ([]monsterRef, error) {
	vb := errors.NewValidationBuilder()
	var out []monsterRef
	for i, raw := range refs {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			vb.Field(fmt.Sprintf("entities[%d]", i), "must not be empty")
			continue
		}
		ref := monsterRef{raw: raw, name: raw, quantity: 1}
		if m := quantityPrefix.FindStringSubmatch(raw); m != nil {
			n, _ := strconv.Atoi(m[1])
			if n < 1 || n > maxGroupSize {
				vb.Fieldf(fmt.Sprintf("entities[%d]", i), "quantity must be between 1 and %d", maxGroupSize)
				continue
			}
			ref.name = strings.TrimSpace(m[2])
			ref.quantity = n
		}
		if entities.ItemID(ref.name) == "" {
			vb.Field(fmt.Sprintf("entities[%d]", i), "must contain a letter or digit")
			continue
		}
		out = append(out, ref)
	}
	return out, vb.Build()
}

// StartCombat builds the roster from the character and the referenced monsters
func (o *orchestrator) StartCombat(ctx context.Context, input *StartCombatInput) (*StartCombatOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	refs, err := parseMonsterRefs(input.Entities)
	if err != nil {
		return nil, err
	}

	existing, err := o.activeEncounter(ctx, input.Ref)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.InvalidState(errors.ReasonEncounterAlreadyActive,
			"an encounter is already active; end it first").
			WithMeta("encounter_id", existing.ID)
	}

	c, err := o.loadCharacter(ctx, input.Ref)
	if err != nil {
		return nil, err
	}

	player := entities.Combatant{
		ID:     c.ID,
		Name:   c.Name,
		Kind:   entities.CombatantPlayer,
		DexMod: engine.Modifier(c.Scores.Dexterity),
	}
	engine.SyncPlayerCombatant(c, &player)

	enc := &entities.Encounter{
		ID:         o.idGen.Generate(),
		Status:     entities.EncounterActive,
		Round:      1,
		Combatants: []entities.Combatant{player},
		StartedAt:  o.clock.Now(),
	}

	taken := map[string]bool{player.ID: true}
	counters := map[string]int{}
	var fallbacks []string

	for _, ref := range refs {
		// the player may be listed by id or name
		if strings.EqualFold(ref.name, c.ID) || strings.EqualFold(ref.name, c.Name) {
			continue
		}

		block, err := o.content.LookupMonster(ctx, ref.name, "")
		if err != nil {
			if !errors.IsNotFound(err) {
				return nil, errors.Wrapf(err, "failed to look up monster %q", ref.name)
			}
			slog.WarnContext(ctx, "Unknown monster, using generic stat block",
				"campaign_id", input.Ref.CampaignID,
				"monster", ref.name,
				"cr", fallbackCR,
			)
			block = fallbackBlock(ref.name)
			fallbacks = append(fallbacks, ref.raw)
		}

		base := entities.ItemID(block.Name)
		for i := 0; i < ref.quantity; i++ {
			id := nextID(base, counters, taken)
			enc.Combatants = append(enc.Combatants, combatantFromBlock(id, block))
		}
	}

	if err := o.saveEncounter(ctx, input.Ref, enc); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Combat started",
		"campaign_id", input.Ref.CampaignID,
		"user_id", input.Ref.UserID,
		"encounter_id", enc.ID,
		"combatants", len(enc.Combatants),
		"fallbacks", len(fallbacks),
	)

	return &StartCombatOutput{Encounter: enc, Fallbacks: fallbacks}, nil
}

func nextID(base string, counters map[string]int, taken map[string]bool) string {
	for {
		counters[base]++
		id := fmt.Sprintf("%s_%d", base, counters[base])
		if !taken[id] {
			taken[id] = true
			return id
		}
	}
}

func fallbackBlock(name string) *content.StatBlock {
	stats := engine.StatsForCR(fallbackCR)
	return &content.StatBlock{
		Name: name,
		CR:   stats.CR,
		XP:   stats.XP,
		AC:   stats.AC,
		HP:   stats.HP,
		Scores: entities.AbilityScores{
			Strength: 10, Dexterity: 10, Constitution: 10,
			Intelligence: 10, Wisdom: 10, Charisma: 10,
		},
		Actions: []content.Action{
			{Name: "Attack", AttackBonus: stats.AttackBonus, Damage: stats.DamageDice},
		},
	}
}

func combatantFromBlock(id string, block *content.StatBlock) entities.Combatant {
	cb := entities.Combatant{
		ID:     id,
		Name:   block.Name,
		Kind:   entities.CombatantMonster,
		HP:     block.HP,
		MaxHP:  block.HP,
		AC:     block.AC,
		DexMod: block.DexMod(),
		CR:     block.CR,
		Status: entities.StatusActive,
	}
	if action, ok := block.PrimaryAction(); ok {
		cb.AttackBonus = action.AttackBonus
		cb.DamageDice = action.Damage
		cb.DamageType = action.DamageType
	}
	return cb
}

// RollInitiativeForAll rolls d20 + DEX for every participant and sorts the roster
func (o *orchestrator) RollInitiativeForAll(ctx context.Context, input *RollInitiativeInput) (*RollInitiativeOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	enc, err := o.requireEncounter(ctx, input.Ref)
	if err != nil {
		return nil, err
	}

	// the character's DEX may have changed since combat started
	if p, ok := enc.Player(); ok {
		c, err := o.loadCharacter(ctx, input.Ref)
		if err != nil {
			return nil, err
		}
		p.DexMod = engine.Modifier(c.Scores.Dexterity)
		engine.SyncPlayerCombatant(c, p)
	}

	rolls := make([]InitiativeRoll, 0, len(enc.Combatants))
	for i := range enc.Combatants {
		cb := &enc.Combatants[i]
		natural, err := o.dice.Die(20)
		if err != nil {
			return nil, err
		}
		cb.Initiative = natural + cb.DexMod
		rolls = append(rolls, initiativeRoll(cb, natural, cb.DexMod))
	}

	engine.SortInitiative(enc.Combatants)
	enc.TurnIndex = max(0, engine.FirstLiving(enc.Combatants))
	enc.InitiativeRolled = true

	if err := o.saveEncounter(ctx, input.Ref, enc); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Initiative rolled",
		"campaign_id", input.Ref.CampaignID,
		"encounter_id", enc.ID,
		"first", enc.Combatants[enc.TurnIndex].ID,
	)

	return &RollInitiativeOutput{Rolls: rolls, Order: turnOrder(enc)}, nil
}

func initiativeRoll(e core.Entity, natural, modifier int) InitiativeRoll {
	roll := InitiativeRoll{
		ID:       e.GetID(),
		Kind:     e.GetType(),
		Natural:  natural,
		Modifier: modifier,
		Total:    natural + modifier,
	}
	if cb, ok := e.(*entities.Combatant); ok {
		roll.Name = cb.Name
	}
	return roll
}

// GetInitiativeOrder reads the turn order without changing anything
func (o *orchestrator) GetInitiativeOrder(ctx context.Context, input *GetInitiativeOrderInput) (*GetInitiativeOrderOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	enc, err := o.requireEncounter(ctx, input.Ref)
	if err != nil {
		return nil, err
	}
	return &GetInitiativeOrderOutput{Order: turnOrder(enc)}, nil
}

func turnOrder(enc *entities.Encounter) *TurnOrder {
	order := &TurnOrder{
		EncounterID:      enc.ID,
		Round:            enc.Round,
		InitiativeRolled: enc.InitiativeRolled,
		Entries:          make([]TurnEntry, 0, len(enc.Combatants)),
	}
	for i, cb := range enc.Combatants {
		current := i == enc.TurnIndex
		if current {
			order.CurrentID = cb.ID
		}
		order.Entries = append(order.Entries, TurnEntry{
			ID:         cb.ID,
			Name:       cb.Name,
			Kind:       cb.Kind,
			Initiative: cb.Initiative,
			HP:         cb.HP,
			MaxHP:      cb.MaxHP,
			TempHP:     cb.TempHP,
			AC:         cb.AC,
			Status:     cb.Status,
			Conditions: cb.Conditions,
			Current:    current,
		})
	}
	return order
}

// attackProfile is everything needed to roll one attack
type attackProfile struct {
	name        string
	attackBonus int
	// damage is nil for a flat unarmed strike
	damage     *engine.Notation
	flatDamage int
	damageType string
}

// MakeAttack rolls to hit and, on a hit, rolls damage. Nothing is persisted.
func (o *orchestrator) MakeAttack(ctx context.Context, input *MakeAttackInput) (*MakeAttackOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("attacker_id", input.AttackerID, vb)
	errors.ValidateRequired("target_id", input.TargetID, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	enc, err := o.requireEncounter(ctx, input.Ref)
	if err != nil {
		return nil, err
	}
	attacker, err := findParticipant(enc, input.AttackerID)
	if err != nil {
		return nil, err
	}
	target, err := findParticipant(enc, input.TargetID)
	if err != nil {
		return nil, err
	}

	var profile *attackProfile
	if attacker.Kind == entities.CombatantPlayer {
		profile, err = o.playerAttack(ctx, input.Ref, input.Weapon)
	} else {
		profile, err = o.monsterAttack(ctx, attacker, input.Weapon)
	}
	if err != nil {
		return nil, err
	}

	roll, err := o.dice.D20(input.Advantage, input.Disadvantage)
	if err != nil {
		return nil, err
	}

	out := &MakeAttackOutput{
		AttackerID:   attacker.ID,
		AttackerName: attacker.Name,
		TargetID:     target.ID,
		TargetName:   target.Name,
		Weapon:       profile.name,
		Roll:         roll,
		AttackBonus:  profile.attackBonus,
		Total:        roll.Natural + profile.attackBonus,
		TargetAC:     target.AC,
		DamageType:   profile.damageType,
	}
	switch roll.Natural {
	case 20:
		out.Hit = true
		out.Critical = true
	case 1:
		out.Hit = false
	default:
		out.Hit = out.Total >= target.AC
	}

	if out.Hit {
		if profile.damage == nil {
			out.Damage = &engine.RollResult{
				Notation: strconv.Itoa(profile.flatDamage),
				Modifier: profile.flatDamage,
				Total:    max(0, profile.flatDamage),
				Critical: out.Critical,
			}
		} else {
			dmg, err := o.dice.Roll(*profile.damage, out.Critical)
			if err != nil {
				return nil, err
			}
			dmg.Total = max(0, dmg.Total)
			out.Damage = dmg
		}
	}

	slog.InfoContext(ctx, "Attack resolved",
		"campaign_id", input.Ref.CampaignID,
		"encounter_id", enc.ID,
		"attacker_id", attacker.ID,
		"target_id", target.ID,
		"weapon", profile.name,
		"natural", roll.Natural,
		"total", out.Total,
		"hit", out.Hit,
		"critical", out.Critical,
	)

	return out, nil
}

func findParticipant(enc *entities.Encounter, id string) (*entities.Combatant, error) {
	cb, ok := enc.Find(strings.TrimSpace(id))
	if !ok {
		return nil, errors.NotFoundf("participant %q is not in the encounter", id).
			WithReason(errors.ReasonUnknownParticipant).
			WithMeta("participant_id", id)
	}
	return cb, nil
}

// playerAttack resolves the weapon from the attack list, then the inventory.
// Without a weapon name it uses the main hand weapon, the first listed attack
// or an unarmed strike, in that order.
func (o *orchestrator) playerAttack(ctx context.Context, ref keyspace.Ref, weapon string) (*attackProfile, error) {
	c, err := o.loadCharacter(ctx, ref)
	if err != nil {
		return nil, err
	}
	inv, err := o.loadInventory(ctx, ref)
	if err != nil {
		return nil, err
	}

	weapon = strings.TrimSpace(weapon)
	if weapon != "" {
		for _, atk := range c.Attacks {
			if strings.EqualFold(atk.Name, weapon) {
				return profileFromAttack(c, atk)
			}
		}
		if item, ok := inv.Find(weapon); ok && item.Weapon != nil {
			return profileFromWeapon(c, item)
		}
		if strings.EqualFold(weapon, unarmedStrike) || strings.EqualFold(weapon, "unarmed") {
			return unarmed(c), nil
		}
		return nil, errors.NotFoundf("%s has no weapon or attack named %q", c.Name, weapon).
			WithMeta("weapon", weapon)
	}

	if item, ok := inv.EquippedItem(entities.SlotMainHand); ok && item.Weapon != nil {
		return profileFromWeapon(c, item)
	}
	if len(c.Attacks) > 0 {
		return profileFromAttack(c, c.Attacks[0])
	}
	return unarmed(c), nil
}

func profileFromAttack(c *entities.Character, atk entities.Attack) (*attackProfile, error) {
	ability := atk.Ability
	if ability == "" {
		ability = entities.AbilityStrength
	}
	mod := engine.Modifier(c.Scores.Get(ability))
	bonus := mod
	if atk.Proficient {
		bonus += c.ProficiencyBonus
	}
	n, err := engine.ParseNotation(atk.DamageDice)
	if err != nil {
		return nil, errors.Wrapf(err, "attack %q has bad damage dice", atk.Name)
	}
	n.Modifier += mod
	return &attackProfile{name: atk.Name, attackBonus: bonus, damage: &n, damageType: atk.DamageType}, nil
}

// profileFromWeapon treats owned weapons as proficient
func profileFromWeapon(c *entities.Character, item *entities.Item) (*attackProfile, error) {
	str := engine.Modifier(c.Scores.Strength)
	dex := engine.Modifier(c.Scores.Dexterity)
	mod := str
	switch {
	case item.Weapon.Finesse():
		mod = max(str, dex)
	case item.Weapon.Ranged():
		mod = dex
	}
	n, err := engine.ParseNotation(item.Weapon.DamageDice)
	if err != nil {
		return nil, errors.Wrapf(err, "weapon %q has bad damage dice", item.Name)
	}
	n.Modifier += mod
	return &attackProfile{
		name:        item.Name,
		attackBonus: mod + c.ProficiencyBonus,
		damage:      &n,
		damageType:  item.Weapon.DamageType,
	}, nil
}

func unarmed(c *entities.Character) *attackProfile {
	str := engine.Modifier(c.Scores.Strength)
	return &attackProfile{
		name:        unarmedStrike,
		attackBonus: str + c.ProficiencyBonus,
		flatDamage:  1 + str,
		damageType:  "bludgeoning",
	}
}

// monsterAttack uses the roster entry; a named action is looked up in content
func (o *orchestrator) monsterAttack(ctx context.Context, cb *entities.Combatant, weapon string) (*attackProfile, error) {
	profile := &attackProfile{
		name:        "Attack",
		attackBonus: cb.AttackBonus,
		damageType:  cb.DamageType,
	}
	damage := cb.DamageDice

	if weapon = strings.TrimSpace(weapon); weapon != "" {
		block, err := o.content.LookupMonster(ctx, cb.Name, "")
		if err == nil {
			for _, action := range block.Actions {
				if strings.Contains(strings.ToLower(action.Name), strings.ToLower(weapon)) {
					profile.name = action.Name
					profile.attackBonus = action.AttackBonus
					profile.damageType = action.DamageType
					damage = action.Damage
					break
				}
			}
		} else {
			slog.DebugContext(ctx, "Monster actions unavailable, using roster attack",
				"participant_id", cb.ID,
				"error", err)
		}
	}

	if damage == "" {
		profile.flatDamage = 1
		return profile, nil
	}
	n, err := engine.ParseNotation(damage)
	if err != nil {
		return nil, errors.Wrapf(err, "%s has bad damage dice", cb.Name)
	}
	profile.damage = &n
	return profile, nil
}

// NextTurn moves to the next living participant. Passing the end of the
// roster starts a new round and ticks every condition duration, including
// the ones stored on the character.
func (o *orchestrator) NextTurn(ctx context.Context, input *NextTurnInput) (*NextTurnOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	enc, err := o.requireEncounter(ctx, input.Ref)
	if err != nil {
		return nil, err
	}

	next, wrapped, ok := engine.NextLiving(enc.Combatants, enc.TurnIndex)
	if !ok {
		return nil, errors.InvalidState(errors.ReasonNoLivingParticipants,
			"no living participants remain; end the encounter").
			WithMeta("encounter_id", enc.ID)
	}

	out := &NextTurnOutput{NewRound: wrapped}
	if wrapped {
		enc.Round++
		for i := range enc.Combatants {
			cb := &enc.Combatants[i]
			var expired []string
			cb.Conditions, expired = engine.TickConditions(cb.Conditions)
			for _, name := range expired {
				out.Expired = append(out.Expired, ExpiredCondition{ParticipantID: cb.ID, Condition: name})
			}
		}

		expired, err := o.tickCharacterConditions(ctx, input.Ref)
		if err != nil {
			return nil, err
		}
		if p, ok := enc.Player(); ok {
			for _, name := range expired {
				out.Expired = append(out.Expired, ExpiredCondition{ParticipantID: p.ID, Condition: name})
			}
		}
	}
	enc.TurnIndex = next

	if err := o.saveEncounter(ctx, input.Ref, enc); err != nil {
		return nil, err
	}

	current := enc.Combatants[next]
	out.Round = enc.Round
	out.Current = &current

	slog.InfoContext(ctx, "Turn advanced",
		"campaign_id", input.Ref.CampaignID,
		"encounter_id", enc.ID,
		"round", enc.Round,
		"current", current.ID,
		"new_round", wrapped,
	)

	return out, nil
}

func (o *orchestrator) tickCharacterConditions(ctx context.Context, ref keyspace.Ref) ([]string, error) {
	out, err := o.characterRepo.Get(ctx, character.GetInput{Ref: ref})
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to load character")
	}
	c := out.Character
	if len(c.Conditions) == 0 {
		return nil, nil
	}

	var expired []string
	c.Conditions, expired = engine.TickConditions(c.Conditions)
	c.UpdatedAt = o.clock.Now()
	if _, err := o.characterRepo.Save(ctx, character.SaveInput{Ref: ref, Character: c}); err != nil {
		return nil, errors.Wrap(err, "failed to save character")
	}
	return expired, nil
}

// EndCombat deletes the active encounter record
func (o *orchestrator) EndCombat(ctx context.Context, input *EndCombatInput) (*EndCombatOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	enc, err := o.activeEncounter(ctx, input.Ref)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return &EndCombatOutput{Ended: false}, nil
	}

	enc.Status = entities.EncounterEnded
	out := &EndCombatOutput{Ended: true, EncounterID: enc.ID, Rounds: enc.Round}
	for _, cb := range enc.Combatants {
		if cb.Kind != entities.CombatantMonster {
			continue
		}
		if cb.Alive() {
			out.Survivors = append(out.Survivors, cb.ID)
		} else {
			out.Defeated = append(out.Defeated, cb.ID)
		}
	}

	if _, err := o.encounterRepo.Delete(ctx, encounters.DeleteInput{Ref: input.Ref}); err != nil {
		return nil, errors.Wrap(err, "failed to delete encounter")
	}

	slog.InfoContext(ctx, "Combat ended",
		"campaign_id", input.Ref.CampaignID,
		"encounter_id", enc.ID,
		"rounds", enc.Round,
		"defeated", len(out.Defeated),
	)

	return out, nil
}

// SuggestEncounter sizes a generated monster to the level and difficulty
func (o *orchestrator) SuggestEncounter(ctx context.Context, input *SuggestEncounterInput) (*SuggestEncounterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	difficulty := engine.DifficultyMedium
	if strings.TrimSpace(input.Difficulty) != "" {
		d, err := engine.ParseDifficulty(input.Difficulty)
		if err != nil {
			return nil, err
		}
		difficulty = d
	}

	level := input.Level
	if level == 0 {
		c, err := o.loadCharacter(ctx, input.Ref)
		if err != nil {
			return nil, err
		}
		level = c.Level
	}
	vb := errors.NewValidationBuilder()
	errors.ValidateRange("level", level, 1, engine.MaxLevel, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	target := engine.TargetCR(level, difficulty)
	stats := engine.StatsForCR(target)

	return &SuggestEncounterOutput{
		Level:      level,
		Difficulty: difficulty,
		TargetCR:   target,
		Monsters: []SuggestedMonster{{
			Name:  fmt.Sprintf("Random Creature (CR %s)", engine.FormatCR(stats.CR)),
			CR:    engine.FormatCR(stats.CR),
			Stats: stats,
		}},
		Rated: engine.EvaluateDifficulty(level, stats.CR),
	}, nil
}

func (o *orchestrator) loadCharacter(ctx context.Context, ref keyspace.Ref) (*entities.Character, error) {
	out, err := o.characterRepo.Get(ctx, character.GetInput{Ref: ref})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load character")
	}
	return out.Character, nil
}

func (o *orchestrator) loadInventory(ctx context.Context, ref keyspace.Ref) (*entities.Inventory, error) {
	out, err := o.inventoryRepo.Get(ctx, inventory.GetInput{Ref: ref})
	if err != nil {
		if errors.IsNotFound(err) {
			return entities.NewInventory(0), nil
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

func (o *orchestrator) requireEncounter(ctx context.Context, ref keyspace.Ref) (*entities.Encounter, error) {
	enc, err := o.activeEncounter(ctx, ref)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return nil, errors.InvalidState(errors.ReasonNotInEncounter, "no active encounter; start combat first")
	}
	return enc, nil
}

func (o *orchestrator) saveEncounter(ctx context.Context, ref keyspace.Ref, enc *entities.Encounter) error {
	if _, err := o.encounterRepo.Save(ctx, encounters.SaveInput{Ref: ref, Encounter: enc}); err != nil {
		return errors.Wrap(err, "failed to save encounter")
	}
	return nil
}
