package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/playmat/internal/document"
	"github.com/rpggio/playmat/internal/domain/editor"
	"github.com/rpggio/playmat/internal/domain/project"
	"github.com/rpggio/playmat/internal/raster"
)

// ErrUnknownMethod indicates a call to a tool that does not exist.
var ErrUnknownMethod = errors.New("unknown method")

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes. Unknown errors map to nil.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, editor.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error(), RecoveryHint: "Values must be finite and positive where noted"}
	case errors.Is(err, project.ErrZoneNotFound):
		return &APIError{Code: "ZONE_NOT_FOUND", Message: "zone not found", RecoveryHint: "Call get_project for current zone ids"}
	case errors.Is(err, project.ErrNoBackground):
		return &APIError{Code: "NO_BACKGROUND", Message: "no background placed", RecoveryHint: "Call set_background first"}
	case errors.Is(err, editor.ErrNothingSelected):
		return &APIError{Code: "NOTHING_SELECTED", Message: "no zone selected", RecoveryHint: "Call select first"}
	case errors.Is(err, editor.ErrClipboardEmpty):
		return &APIError{Code: "CLIPBOARD_EMPTY", Message: "clipboard is empty", RecoveryHint: "Call copy_zone first"}
	case errors.Is(err, editor.ErrGestureActive):
		return &APIError{Code: "GESTURE_ACTIVE", Message: "gesture already in progress", RecoveryHint: "Call commit_gesture or cancel_gesture"}
	case errors.Is(err, editor.ErrNoGesture):
		return &APIError{Code: "NO_GESTURE", Message: "no gesture in progress", RecoveryHint: "Call begin_gesture first"}
	case errors.Is(err, editor.ErrNotInGesture):
		return &APIError{Code: "NOT_IN_GESTURE", Message: "object is not part of the gesture"}
	case errors.Is(err, editor.ErrClosed):
		return &APIError{Code: "SESSION_CLOSED", Message: "editor session closed"}
	case errors.Is(err, document.ErrNotObject), errors.Is(err, document.ErrMalformed):
		return &APIError{Code: "INVALID_DOCUMENT", Message: err.Error(), RecoveryHint: "Pass a JSON object as document"}
	case errors.Is(err, raster.ErrTooLarge):
		return &APIError{Code: "EXPORT_TOO_LARGE", Message: err.Error(), RecoveryHint: "Lower export_dpi or the mat size"}
	default:
		return nil
	}
}
