package document

import (
	"errors"
	"strings"
)

var (
	// ErrNotObject indicates the input is not a JSON object.
	ErrNotObject = errors.New("document is not a JSON object")
	// ErrMalformed indicates the input is not valid JSON.
	ErrMalformed = errors.New("malformed document")
)

// FieldError describes one rejected document field. The field keeps the
// value it had before decoding.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Reason
}

// ValidationErrors lists every rejected field of a decoded document.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, fe := range v {
		parts[i] = fe.Error()
	}
	return strings.Join(parts, "; ")
}

// Err returns v as an error, or nil when nothing was rejected.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}
