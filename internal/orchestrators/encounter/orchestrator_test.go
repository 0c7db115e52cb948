package encounter_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/dnd-mcp/internal/clients/content"
	"github.com/KirkDiggler/dnd-mcp/internal/config"
	"github.com/KirkDiggler/dnd-mcp/internal/engine"
	"github.com/KirkDiggler/dnd-mcp/internal/entities"
	"github.com/KirkDiggler/dnd-mcp/internal/errors"
	"github.com/KirkDiggler/dnd-mcp/internal/keyspace"
	"github.com/KirkDiggler/dnd-mcp/internal/orchestrators/encounter"
	"github.com/KirkDiggler/dnd-mcp/internal/pkg/idgen"
	"github.com/KirkDiggler/dnd-mcp/internal/repositories/character"
	"github.com/KirkDiggler/dnd-mcp/internal/repositories/encounters"
	"github.com/KirkDiggler/dnd-mcp/internal/repositories/inventory"
	"github.com/KirkDiggler/dnd-mcp/internal/testutils"
)

type OrchestratorTestSuite struct {
	suite.Suite
	ctx          context.Context
	ref          keyspace.Ref
	repos        *testutils.TestRepositories
	roller       *testutils.ScriptedRoller
	fighter      *entities.Character
	orchestrator encounter.Service
}

func (s *OrchestratorTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.ref = testutils.TestRef()
	s.repos = testutils.CreateTestRepositories(s.T())
	s.roller = testutils.NewScriptedRoller()

	lookup, err := content.New(&content.Config{Content: config.Content{APIEnabled: false}})
	s.Require().NoError(err)

	o, err := encounter.NewOrchestrator(&encounter.Config{
		CharacterRepo: s.repos.Characters,
		EncounterRepo: s.repos.Encounters,
		InventoryRepo: s.repos.Inventory,
		Content:       lookup,
		Roller:        s.roller,
		Clock:         s.repos.Clock,
		IDGenerator:   idgen.NewSequential("enc"),
	})
	s.Require().NoError(err)
	s.orchestrator = o

	s.fighter = testutils.CreateTestFighter()
	s.saveCharacter()
}

func (s *OrchestratorTestSuite) saveCharacter() {
	_, err := s.repos.Characters.Save(s.ctx, character.SaveInput{Ref: s.ref, Character: s.fighter})
	s.Require().NoError(err)
}

func (s *OrchestratorTestSuite) start(monsters ...string) *entities.Encounter {
	out, err := s.orchestrator.StartCombat(s.ctx, &encounter.StartCombatInput{Ref: s.ref, Entities: monsters})
	s.Require().NoError(err)
	return out.Encounter
}

func (s *OrchestratorTestSuite) stored() *entities.Encounter {
	out, err := s.repos.Encounters.Get(s.ctx, encounters.GetInput{Ref: s.ref})
	s.Require().NoError(err)
	return out.Encounter
}

func (s *OrchestratorTestSuite) save(enc *entities.Encounter) {
	_, err := s.repos.Encounters.Save(s.ctx, encounters.SaveInput{Ref: s.ref, Encounter: enc})
	s.Require().NoError(err)
}

func (s *OrchestratorTestSuite) TestStartCombat() {
	out, err := s.orchestrator.StartCombat(s.ctx, &encounter.StartCombatInput{
		Ref:      s.ref,
		Entities: []string{"Goblin", "2 Wolves", "Beholder"},
	})
	s.Require().NoError(err)

	enc := out.Encounter
	s.Equal("enc_1", enc.ID)
	s.Equal(entities.EncounterActive, enc.Status)
	s.Equal(1, enc.Round)
	s.Equal(testutils.TestTime, enc.StartedAt)
	s.Equal([]string{"Beholder"}, out.Fallbacks)

	ids := make([]string, 0, len(enc.Combatants))
	for _, cb := range enc.Combatants {
		ids = append(ids, cb.ID)
	}
	s.Equal([]string{s.fighter.ID, "goblin_1", "wolf_1", "wolf_2", "beholder_1"}, ids)

	player, ok := enc.Player()
	s.Require().True(ok)
	s.Equal(11, player.HP)
	s.Equal(2, player.DexMod)

	goblin, _ := enc.Find("goblin_1")
	s.Equal(15, goblin.AC)
	s.Equal(7, goblin.HP)
	s.Equal("1d6+2", goblin.DamageDice)

	beholder, _ := enc.Find("beholder_1")
	fallback := engine.StatsForCR(1)
	s.Equal(fallback.HP, beholder.HP)
	s.Equal(fallback.AC, beholder.AC)

	s.Equal(enc.ID, s.stored().ID)
}

func (s *OrchestratorTestSuite) TestStartCombatAlreadyActive() {
	s.start("Goblin")

	_, err := s.orchestrator.StartCombat(s.ctx, &encounter.StartCombatInput{Ref: s.ref, Entities: []string{"Orc"}})
	s.Require().Error(err)
	s.True(errors.IsInvalidState(err))
	s.True(errors.HasReason(err, errors.ReasonEncounterAlreadyActive))
}

func (s *OrchestratorTestSuite) TestStartCombatValidation() {
	s.Run("needs a character", func() {
		_, err := s.orchestrator.StartCombat(s.ctx, &encounter.StartCombatInput{
			Ref:      keyspace.Ref{CampaignID: "empty_campaign"},
			Entities: []string{"Goblin"},
		})
		s.Require().Error(err)
		s.True(errors.IsNotFound(err))
	})

	s.Run("rejects oversized groups", func() {
		_, err := s.orchestrator.StartCombat(s.ctx, &encounter.StartCombatInput{
			Ref:      s.ref,
			Entities: []string{"50 Goblins"},
		})
		s.Require().Error(err)
		s.True(errors.IsValidation(err))
	})

	s.Run("rejects names without letters or digits", func() {
		for _, name := range []string{"!!", "2 ??"} {
			_, err := s.orchestrator.StartCombat(s.ctx, &encounter.StartCombatInput{
				Ref:      s.ref,
				Entities: []string{name},
			})
			s.Require().Error(err, name)
			s.True(errors.IsValidation(err), name)
		}
		_, err := s.repos.Encounters.Get(s.ctx, encounters.GetInput{Ref: s.ref})
		s.True(errors.IsNotFound(err))
	})
}

func (s *OrchestratorTestSuite) TestRollInitiativeForAll() {
	s.start("Goblin")

	// fighter 10+2, goblin 15+2
	s.roller.Push(10, 15)
	out, err := s.orchestrator.RollInitiativeForAll(s.ctx, &encounter.RollInitiativeInput{Ref: s.ref})
	s.Require().NoError(err)

	s.Require().Len(out.Rolls, 2)
	s.Equal(12, out.Rolls[0].Total)
	s.Equal(string(entities.CombatantPlayer), out.Rolls[0].Kind)
	s.Equal("goblin_1", out.Order.Entries[0].ID)
	s.Equal("goblin_1", out.Order.CurrentID)
	s.True(out.Order.InitiativeRolled)

	enc := s.stored()
	s.True(enc.InitiativeRolled)
	s.Equal(0, enc.TurnIndex)
}

func (s *OrchestratorTestSuite) TestInitiativeTiesKeepRosterOrder() {
	s.start("Goblin")

	s.roller.Push(10, 10)
	_, err := s.orchestrator.RollInitiativeForAll(s.ctx, &encounter.RollInitiativeInput{Ref: s.ref})
	s.Require().NoError(err)

	for i := 0; i < 3; i++ {
		out, err := s.orchestrator.GetInitiativeOrder(s.ctx, &encounter.GetInitiativeOrderInput{Ref: s.ref})
		s.Require().NoError(err)
		s.Equal(s.fighter.ID, out.Order.Entries[0].ID)
		s.Equal("goblin_1", out.Order.Entries[1].ID)
		s.True(out.Order.Entries[0].Current)
	}
}

func (s *OrchestratorTestSuite) TestNextTurnWrapsOnce() {
	s.start("Goblin")
	s.roller.Push(15, 5)
	_, err := s.orchestrator.RollInitiativeForAll(s.ctx, &encounter.RollInitiativeInput{Ref: s.ref})
	s.Require().NoError(err)

	first, err := s.orchestrator.NextTurn(s.ctx, &encounter.NextTurnInput{Ref: s.ref})
	s.Require().NoError(err)
	s.Equal(1, first.Round)
	s.False(first.NewRound)
	s.Equal("goblin_1", first.Current.ID)

	second, err := s.orchestrator.NextTurn(s.ctx, &encounter.NextTurnInput{Ref: s.ref})
	s.Require().NoError(err)
	s.Equal(2, second.Round)
	s.True(second.NewRound)
	s.Equal(s.fighter.ID, second.Current.ID)
}

func (s *OrchestratorTestSuite) TestNextTurnSkipsTheFallen() {
	enc := s.start("3 Goblins")
	enc.Combatants[2].HP = 0
	enc.Combatants[2].Status = entities.StatusDead
	s.save(enc)

	out, err := s.orchestrator.NextTurn(s.ctx, &encounter.NextTurnInput{Ref: s.ref})
	s.Require().NoError(err)
	s.Equal("goblin_1", out.Current.ID)

	out, err = s.orchestrator.NextTurn(s.ctx, &encounter.NextTurnInput{Ref: s.ref})
	s.Require().NoError(err)
	s.Equal("goblin_3", out.Current.ID)
	s.Equal(1, out.Round)
}

func (s *OrchestratorTestSuite) TestNextTurnTicksConditions() {
	s.fighter.Conditions = []entities.Condition{{Name: "poisoned", Duration: 1}}
	s.saveCharacter()

	enc := s.start("Goblin")
	enc.Combatants[1].Conditions = []entities.Condition{{Name: "frightened", Duration: 2}}
	s.save(enc)

	_, err := s.orchestrator.NextTurn(s.ctx, &encounter.NextTurnInput{Ref: s.ref})
	s.Require().NoError(err)
	out, err := s.orchestrator.NextTurn(s.ctx, &encounter.NextTurnInput{Ref: s.ref})
	s.Require().NoError(err)

	s.True(out.NewRound)
	s.Equal([]encounter.ExpiredCondition{{ParticipantID: s.fighter.ID, Condition: "poisoned"}}, out.Expired)

	goblin, _ := s.stored().Find("goblin_1")
	s.Equal(1, goblin.Conditions[0].Duration)

	c, err := s.repos.Characters.Get(s.ctx, character.GetInput{Ref: s.ref})
	s.Require().NoError(err)
	s.Empty(c.Character.Conditions)
}

func (s *OrchestratorTestSuite) TestNextTurnWithNobodyAlive() {
	enc := s.start("Goblin")
	for i := range enc.Combatants {
		enc.Combatants[i].HP = 0
	}
	s.save(enc)

	_, err := s.orchestrator.NextTurn(s.ctx, &encounter.NextTurnInput{Ref: s.ref})
	s.Require().Error(err)
	s.True(errors.HasReason(err, errors.ReasonNoLivingParticipants))
}

func (s *OrchestratorTestSuite) TestMakeAttack() {
	s.start("Goblin")

	s.Run("listed attack hits on meeting AC", func() {
		s.roller.Push(11, 5)
		out, err := s.orchestrator.MakeAttack(s.ctx, &encounter.MakeAttackInput{
			Ref: s.ref, AttackerID: s.fighter.ID, TargetID: "goblin_1", Weapon: "longsword",
		})
		s.Require().NoError(err)
		s.Equal("Longsword", out.Weapon)
		s.Equal(4, out.AttackBonus)
		s.Equal(15, out.Total)
		s.True(out.Hit)
		s.False(out.Critical)
		s.Equal(7, out.Damage.Total)
		s.Equal("slashing", out.DamageType)
	})

	s.Run("natural twenty doubles dice not modifier", func() {
		s.roller.Push(20, 3, 4)
		out, err := s.orchestrator.MakeAttack(s.ctx, &encounter.MakeAttackInput{
			Ref: s.ref, AttackerID: s.fighter.ID, TargetID: "goblin_1",
		})
		s.Require().NoError(err)
		s.True(out.Critical)
		s.Equal([]int{3, 4}, out.Damage.Rolls)
		s.Equal(9, out.Damage.Total)
	})

	s.Run("natural one misses", func() {
		s.roller.Push(1)
		out, err := s.orchestrator.MakeAttack(s.ctx, &encounter.MakeAttackInput{
			Ref: s.ref, AttackerID: s.fighter.ID, TargetID: "goblin_1",
		})
		s.Require().NoError(err)
		s.False(out.Hit)
		s.Nil(out.Damage)
	})

	s.Run("monster uses its named action", func() {
		s.roller.Push(8, 6)
		out, err := s.orchestrator.MakeAttack(s.ctx, &encounter.MakeAttackInput{
			Ref: s.ref, AttackerID: "goblin_1", TargetID: s.fighter.ID, Weapon: "scimitar",
		})
		s.Require().NoError(err)
		s.Equal("Scimitar", out.Weapon)
		s.Equal(12, out.Total)
		s.Equal(12, out.TargetAC)
		s.True(out.Hit)
		s.Equal(8, out.Damage.Total)
	})

	s.Run("damage is not applied", func() {
		goblin, _ := s.stored().Find("goblin_1")
		s.Equal(7, goblin.HP)
	})

	s.Run("unknown participant", func() {
		_, err := s.orchestrator.MakeAttack(s.ctx, &encounter.MakeAttackInput{
			Ref: s.ref, AttackerID: s.fighter.ID, TargetID: "goblin_9",
		})
		s.Require().Error(err)
		s.True(errors.IsNotFound(err))
		s.Equal("goblin_9", errors.GetMeta(err)["participant_id"])
	})

	s.Run("unknown weapon", func() {
		_, err := s.orchestrator.MakeAttack(s.ctx, &encounter.MakeAttackInput{
			Ref: s.ref, AttackerID: s.fighter.ID, TargetID: "goblin_1", Weapon: "vorpal sword",
		})
		s.Require().Error(err)
		s.True(errors.IsNotFound(err))
	})
}

func (s *OrchestratorTestSuite) TestMakeAttackWithFinesseWeapon() {
	s.fighter.Attacks = nil
	s.fighter.Scores.Dexterity = 18
	s.saveCharacter()

	inv := entities.NewInventory(225)
	inv.Items = append(inv.Items, entities.Item{
		ID: "dagger", Name: "Dagger", Quantity: 1, Kind: entities.ItemKindWeapon,
		Weapon: &entities.WeaponStats{DamageDice: "1d4", DamageType: "piercing", Properties: []string{"Finesse"}},
	})
	inv.Equipped[entities.SlotMainHand] = "dagger"
	_, err := s.repos.Inventory.Save(s.ctx, inventory.SaveInput{Ref: s.ref, Inventory: inv})
	s.Require().NoError(err)

	s.start("Goblin")
	s.roller.Push(10, 2)
	out, err := s.orchestrator.MakeAttack(s.ctx, &encounter.MakeAttackInput{
		Ref: s.ref, AttackerID: s.fighter.ID, TargetID: "goblin_1",
	})
	s.Require().NoError(err)
	s.Equal("Dagger", out.Weapon)
	// DEX +4 beats STR +2, plus proficiency
	s.Equal(6, out.AttackBonus)
	s.True(out.Hit)
	s.Equal(6, out.Damage.Total)
}

func (s *OrchestratorTestSuite) TestRequiresEncounter() {
	_, err := s.orchestrator.GetInitiativeOrder(s.ctx, &encounter.GetInitiativeOrderInput{Ref: s.ref})
	s.Require().Error(err)
	s.True(errors.HasReason(err, errors.ReasonNotInEncounter))

	_, err = s.orchestrator.NextTurn(s.ctx, &encounter.NextTurnInput{Ref: s.ref})
	s.Require().Error(err)
	s.True(errors.IsInvalidState(err))
}

func (s *OrchestratorTestSuite) TestEndCombat() {
	enc := s.start("2 Goblins")
	enc.Combatants[1].HP = 0
	s.save(enc)

	out, err := s.orchestrator.EndCombat(s.ctx, &encounter.EndCombatInput{Ref: s.ref})
	s.Require().NoError(err)
	s.True(out.Ended)
	s.Equal([]string{"goblin_1"}, out.Defeated)
	s.Equal([]string{"goblin_2"}, out.Survivors)

	_, err = s.repos.Encounters.Get(s.ctx, encounters.GetInput{Ref: s.ref})
	s.True(errors.IsNotFound(err))

	again, err := s.orchestrator.EndCombat(s.ctx, &encounter.EndCombatInput{Ref: s.ref})
	s.Require().NoError(err)
	s.False(again.Ended)

	// a fresh encounter can start afterwards
	s.start("Orc")
}

func (s *OrchestratorTestSuite) TestSuggestEncounter() {
	out, err := s.orchestrator.SuggestEncounter(s.ctx, &encounter.SuggestEncounterInput{Ref: s.ref})
	s.Require().NoError(err)
	s.Equal(1, out.Level)
	s.Equal(engine.DifficultyMedium, out.Difficulty)
	s.InDelta(0.6, out.TargetCR, 0.0001)
	s.Require().Len(out.Monsters, 1)
	s.Equal("1/2", out.Monsters[0].CR)
	s.Equal(engine.DifficultyMedium, out.Rated)

	hard, err := s.orchestrator.SuggestEncounter(s.ctx, &encounter.SuggestEncounterInput{
		Ref: s.ref, Difficulty: "Hard", Level: 5,
	})
	s.Require().NoError(err)
	s.Equal(4.0, hard.Monsters[0].Stats.CR)
	s.Equal(engine.DifficultyHard, hard.Rated)

	_, err = s.orchestrator.SuggestEncounter(s.ctx, &encounter.SuggestEncounterInput{Ref: s.ref, Difficulty: "impossible"})
	s.Require().Error(err)
	s.True(errors.IsValidation(err))
}

func TestOrchestratorTestSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}
