package errors_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/dnd-mcp/internal/errors"
)

type ErrorsTestSuite struct {
	suite.Suite
}

func TestErrorsSuite(t *testing.T) {
	suite.Run(t, new(ErrorsTestSuite))
}

func (s *ErrorsTestSuite) TestNewError() {
	testCases := []struct {
		name     string
		code     errors.Code
		message  string
		expected string
	}{
		{
			name:     "not found error",
			code:     errors.CodeNotFound,
			message:  "character not found",
			expected: "NOT_FOUND: character not found",
		},
		{
			name:     "invalid argument error",
			code:     errors.CodeInvalidArgument,
			message:  "invalid input",
			expected: "INVALID_ARGUMENT: invalid input",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			err := errors.New(tc.code, tc.message)
			s.Assert().Equal(tc.expected, err.Error())
			s.Assert().Equal(tc.code, err.Code)
			s.Assert().Equal(tc.message, err.Message)
		})
	}
}

func (s *ErrorsTestSuite) TestWrapPreservesCodeAndCopiesMeta() {
	base := errors.NotFound("record not found").WithMeta("campaign_id", "c1")
	wrapped := errors.Wrap(base, "character not found")

	s.Assert().Equal(errors.CodeNotFound, wrapped.Code)
	s.Assert().Equal("c1", wrapped.Meta["campaign_id"])

	wrapped.WithMeta("extra", true)
	s.Assert().NotContains(base.Meta, "extra")
}

func (s *ErrorsTestSuite) TestWrapPlainError() {
	baseErr := fmt.Errorf("disk full")
	wrapped := errors.Wrap(baseErr, "failed to save")

	s.Assert().Equal(errors.CodeInternal, wrapped.Code)
	s.Assert().Equal(baseErr, wrapped.Unwrap())
	s.Assert().Nil(errors.Wrap(nil, "nothing"))
	s.Assert().Nil(errors.WrapWithCode(nil, errors.CodeNotFound, "nothing"))
}

func (s *ErrorsTestSuite) TestCategories() {
	testCases := []struct {
		code     errors.Code
		expected errors.Category
	}{
		{errors.CodeNotFound, errors.CategoryNotFound},
		{errors.CodeFailedPrecondition, errors.CategoryInvalidState},
		{errors.CodeUnavailable, errors.CategoryStorageUnavailable},
		{errors.CodeInvalidArgument, errors.CategoryValidation},
		{errors.CodeDataLoss, errors.CategoryInternal},
		{errors.CodeInternal, errors.CategoryInternal},
	}

	for _, tc := range testCases {
		s.Run(string(tc.code), func() {
			s.Assert().Equal(tc.expected, tc.code.Category())
		})
	}

	s.Assert().True(errors.CodeUnavailable.Retryable())
	s.Assert().False(errors.CodeFailedPrecondition.Retryable())
}

func (s *ErrorsTestSuite) TestInvalidStateReason() {
	err := errors.InvalidState(errors.ReasonSlotOccupied, "main_hand is occupied")
	wrapped := errors.Wrap(err, "equip failed")

	s.Assert().True(errors.IsInvalidState(wrapped))
	s.Assert().Equal(errors.ReasonSlotOccupied, errors.Reason(wrapped))
	s.Assert().True(errors.HasReason(wrapped, errors.ReasonSlotOccupied))
	s.Assert().False(errors.HasReason(wrapped, errors.ReasonNoHitDice))
	s.Assert().False(errors.HasReason(nil, errors.ReasonSlotOccupied))

	s.Assert().True(errors.Is(wrapped, errors.InvalidState(errors.ReasonSlotOccupied, "")))
	s.Assert().False(errors.Is(wrapped, errors.InvalidState(errors.ReasonNoHitDice, "")))
	s.Assert().True(errors.Is(wrapped, errors.FailedPrecondition("any")))
}

func (s *ErrorsTestSuite) TestStorageUnavailable() {
	cause := fmt.Errorf("connection refused")
	err := errors.StorageUnavailable(cause, "redis", "get").WithMeta(errors.MetaKey, "k")

	s.Assert().True(errors.IsStorageUnavailable(err))
	s.Assert().Equal("redis", err.Meta[errors.MetaBackend])
	s.Assert().Equal("get", err.Meta[errors.MetaOp])
	s.Assert().Equal("k", err.Meta[errors.MetaKey])
	s.Assert().ErrorIs(err, cause)
	s.Assert().Nil(errors.StorageUnavailable(nil, "redis", "get"))
}

func (s *ErrorsTestSuite) TestGetHelpers() {
	err := errors.NotFound("user friendly message").WithMeta("key", "value")
	wrapped := errors.Wrap(err, "wrapped message")
	stdErr := fmt.Errorf("standard error")

	s.Assert().Equal(errors.CodeNotFound, errors.GetCode(wrapped))
	s.Assert().Equal(errors.CodeInternal, errors.GetCode(stdErr))
	s.Assert().Equal(errors.CodeOK, errors.GetCode(nil))

	s.Assert().Equal("value", errors.GetMeta(wrapped)["key"])
	s.Assert().Nil(errors.GetMeta(stdErr))

	s.Assert().True(errors.IsNotFound(wrapped))
	s.Assert().False(errors.IsInvalidState(nil))
	s.Assert().False(errors.IsStorageUnavailable(nil))
}
