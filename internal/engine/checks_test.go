package engine

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/dnd-mcp/internal/entities"
	"github.com/KirkDiggler/dnd-mcp/internal/errors"
	"github.com/KirkDiggler/dnd-mcp/internal/testutils"
)

type ChecksTestSuite struct {
	suite.Suite
	character *entities.Character
}

func TestChecksSuite(t *testing.T) {
	suite.Run(t, new(ChecksTestSuite))
}

func (s *ChecksTestSuite) SetupTest() {
	s.character = testutils.CreateTestFighter()
}

func (s *ChecksTestSuite) TestSkillBonus() {
	s.Run("proficient skill adds proficiency", func() {
		b, err := CheckBonusFor(s.character, "Athletics")
		s.Require().NoError(err)
		s.Equal(entities.AbilityStrength, b.Ability)
		s.True(b.Proficient)
		s.Equal(2+2, b.Total)
	})

	s.Run("unproficient skill uses the modifier", func() {
		b, err := CheckBonusFor(s.character, "sleight of hand")
		s.Require().NoError(err)
		s.Equal("sleight_of_hand", b.Skill)
		s.False(b.Proficient)
		s.Equal(2, b.Total)
	})

	s.Run("raw ability", func() {
		b, err := CheckBonusFor(s.character, "charisma")
		s.Require().NoError(err)
		s.Equal(-1, b.Total)
	})

	s.Run("unknown", func() {
		_, err := CheckBonusFor(s.character, "juggling")
		s.True(errors.IsInvalidArgument(err))
	})
}

func (s *ChecksTestSuite) TestSaveBonus() {
	b, err := SaveBonusFor(s.character, "con")
	s.Require().NoError(err)
	s.True(b.Proficient)
	s.Equal(1+2, b.Total)

	b, err = SaveBonusFor(s.character, "wis")
	s.Require().NoError(err)
	s.False(b.Proficient)
	s.Equal(0, b.Total)
}

func (s *ChecksTestSuite) TestDeathSaves() {
	s.character.CurrentHP = 0

	outcome, err := ApplyDeathSave(s.character, 12)
	s.Require().NoError(err)
	s.Equal(DeathSaveSuccess, outcome)

	outcome, err = ApplyDeathSave(s.character, 1)
	s.Require().NoError(err)
	s.Equal(DeathSaveCritFail, outcome)
	s.Equal(2, s.character.DeathSaves.Failures)

	outcome, err = ApplyDeathSave(s.character, 4)
	s.Require().NoError(err)
	s.Equal(DeathSaveDead, outcome)
	s.True(s.character.DeathSaves.Dead)

	_, err = ApplyDeathSave(s.character, 15)
	s.Equal(errors.ReasonCharacterDead, errors.Reason(err))
}

func (s *ChecksTestSuite) TestThreeSuccessesStabilize() {
	s.character.CurrentHP = 0

	for i := 0; i < 3; i++ {
		_, err := ApplyDeathSave(s.character, 10)
		s.Require().NoError(err)
	}

	s.True(s.character.DeathSaves.Stable)
	outcome, err := ApplyDeathSave(s.character, 2)
	s.Require().NoError(err)
	s.Equal(DeathSaveStable, outcome)
}

func (s *ChecksTestSuite) TestNatural20Revives() {
	s.character.CurrentHP = 0
	s.character.DeathSaves.Failures = 2

	outcome, err := ApplyDeathSave(s.character, 20)
	s.Require().NoError(err)

	s.Equal(DeathSaveRevived, outcome)
	s.Equal(1, s.character.CurrentHP)
	s.Equal(entities.DeathSaves{}, s.character.DeathSaves)
}

func (s *ChecksTestSuite) TestNotDying() {
	_, err := ApplyDeathSave(s.character, 12)
	s.Equal(errors.ReasonNotDying, errors.Reason(err))

	s.Equal(errors.ReasonNotDying, errors.Reason(Stabilize(s.character)))
}

func (s *ChecksTestSuite) TestStabilize() {
	s.character.CurrentHP = 0
	s.character.DeathSaves.Failures = 2

	s.Require().NoError(Stabilize(s.character))

	s.True(s.character.DeathSaves.Stable)
	s.Equal(0, s.character.DeathSaves.Failures)
}
