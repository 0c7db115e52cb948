package errors_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/dnd-mcp/internal/errors"
)

type ValidationTestSuite struct {
	suite.Suite
}

func TestValidationSuite(t *testing.T) {
	suite.Run(t, new(ValidationTestSuite))
}

func (s *ValidationTestSuite) TestValidationErrorIsOrdered() {
	err := errors.NewValidationBuilder().
		Field("wisdom", "must be between 1 and 20").
		RequiredField("charisma").
		Fieldf("level", "must be between %d and %d", 1, 20).
		Build()
	s.Require().Error(err)

	s.Assert().Equal(
		"INVALID_ARGUMENT: validation failed: charisma: is required; level: must be between 1 and 20; wisdom: must be between 1 and 20",
		err.Error())
	s.Assert().Equal(errors.CodeInvalidArgument, errors.GetCode(err))
	s.Assert().True(errors.IsValidation(err))
	s.Assert().NotNil(errors.GetMeta(err)[errors.MetaValidationErrors])
}

func (s *ValidationTestSuite) TestValidationBuilderNoErrors() {
	vb := errors.NewValidationBuilder()
	s.Assert().False(vb.HasErrors())
	s.Assert().Nil(vb.Build())
}

func (s *ValidationTestSuite) TestValidateRequired() {
	testCases := []struct {
		name      string
		value     string
		shouldErr bool
	}{
		{"valid value", "Thorin", false},
		{"empty string", "", true},
		{"whitespace only", "   ", true},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			vb := errors.NewValidationBuilder()
			errors.ValidateRequired("name", tc.value, vb)
			err := vb.Build()
			if tc.shouldErr {
				s.Assert().Error(err)
			} else {
				s.Assert().NoError(err)
			}
		})
	}
}

func (s *ValidationTestSuite) TestFieldHelpers() {
	vb := errors.NewValidationBuilder()
	errors.ValidateRange("level", 25, 1, 20, vb)
	errors.ValidateRange("strength", 15, 1, 20, vb)
	errors.ValidateNonNegative("amount", -3, vb)
	errors.ValidatePositive("count", 0, vb)
	errors.ValidateEnum("hit_die", "d7", []string{"d6", "d8", "d10", "d12"}, vb)
	errors.ValidateMaxLength("name", "an extremely long character name", 10, vb)
	errors.ValidatePattern("campaign_id", "bad-id", regexp.MustCompile(`^[A-Za-z0-9_]+$`), vb)
	errors.ValidatePattern("user_id", "", regexp.MustCompile(`^[A-Za-z0-9_]+$`), vb)

	err := vb.Build()
	s.Require().Error(err)

	fields := errors.GetMeta(err)[errors.MetaValidationErrors].(map[string][]string)
	s.Assert().Contains(fields["level"][0], "must be between 1 and 20")
	s.Assert().NotContains(fields, "strength")
	s.Assert().Equal("must not be negative", fields["amount"][0])
	s.Assert().Equal("must be positive", fields["count"][0])
	s.Assert().Contains(fields["hit_die"][0], "must be one of: d6, d8, d10, d12")
	s.Assert().Contains(fields["name"][0], "no more than 10")
	s.Assert().Contains(fields, "campaign_id")
	s.Assert().NotContains(fields, "user_id")
}
