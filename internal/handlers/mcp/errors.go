package mcp

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/KirkDiggler/dnd-mcp/internal/errors"
)

// ErrorPayload is the JSON body of a failed tool call
type ErrorPayload struct {
	Code     string                 `json:"code"`
	Category string                 `json:"category"`
	Message  string                 `json:"message"`
	Meta     map[string]interface{} `json:"meta,omitempty"`
}

// callError renders as the JSON payload so the SDK puts it verbatim into
// the tool result text
type callError struct {
	payload ErrorPayload
}

func (e *callError) Error() string {
	data, err := json.Marshal(e.payload)
	if err != nil {
		return e.payload.Message
	}
	return string(data)
}

func toolError(ctx context.Context, tool string, err error) error {
	code := errors.GetCode(err)
	payload := ErrorPayload{
		Code:     code.String(),
		Category: string(code.Category()),
		Message:  err.Error(),
		Meta:     errors.GetMeta(err),
	}

	if errors.IsInternal(err) || errors.IsStorageUnavailable(err) || errors.IsDataLoss(err) {
		slog.ErrorContext(ctx, "Tool call failed", "tool", tool, "code", payload.Code, "error", err)
	} else {
		slog.DebugContext(ctx, "Tool call rejected", "tool", tool, "code", payload.Code, "error", err)
	}

	return &callError{payload: payload}
}

// ParseToolError decodes the text of a failed tool result
func ParseToolError(text string) (*ErrorPayload, error) {
	var p ErrorPayload
	if err := json.Unmarshal([]byte(text), &p); err != nil {
		return nil, errors.Wrap(err, "tool error is not a structured payload")
	}
	return &p, nil
}
