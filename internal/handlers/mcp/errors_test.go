package mcp

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/dnd-mcp/internal/errors"
)

func TestToolErrorRoundTrip(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		code     string
		category errors.Category
	}{
		{
			name:     "not found",
			err:      errors.NotFound("character not found"),
			code:     "NOT_FOUND",
			category: errors.CategoryNotFound,
		},
		{
			name:     "plain error is internal",
			err:      stderrors.New("boom"),
			code:     "INTERNAL",
			category: errors.CategoryInternal,
		},
		{
			name:     "wrapped storage failure",
			err:      errors.Wrap(errors.Unavailable("redis is down"), "failed to load character"),
			code:     "UNAVAILABLE",
			category: errors.CategoryStorageUnavailable,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rendered := toolError(context.Background(), "get_character", tc.err)

			payload, err := ParseToolError(rendered.Error())
			require.NoError(t, err)
			assert.Equal(t, tc.code, payload.Code)
			assert.Equal(t, string(tc.category), payload.Category)
			assert.Equal(t, tc.err.Error(), payload.Message)
		})
	}
}

func TestToolErrorCarriesReason(t *testing.T) {
	err := errors.FailedPrecondition("combat is already running").
		WithMeta(errors.MetaReason, errors.ReasonEncounterAlreadyActive)

	payload, perr := ParseToolError(toolError(context.Background(), "start_combat", err).Error())
	require.NoError(t, perr)
	assert.Equal(t, errors.ReasonEncounterAlreadyActive, payload.Meta[errors.MetaReason])
}

func TestParseToolErrorRejectsPlainText(t *testing.T) {
	_, err := ParseToolError("something went wrong")
	require.Error(t, err)
}
