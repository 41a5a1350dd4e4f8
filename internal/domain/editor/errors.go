package editor

import "errors"

var (
	// ErrInvalidInput indicates a rejected numeric or enumerated value. State
	// is left unchanged.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNothingSelected indicates the operation needs a selected zone.
	ErrNothingSelected = errors.New("no zone selected")
	// ErrClipboardEmpty indicates paste was called before copy.
	ErrClipboardEmpty = errors.New("clipboard is empty")
	// ErrGestureActive indicates a gesture is already in progress.
	ErrGestureActive = errors.New("gesture already in progress")
	// ErrNoGesture indicates no gesture is in progress.
	ErrNoGesture = errors.New("no gesture in progress")
	// ErrNotInGesture indicates the object is not part of the current gesture.
	ErrNotInGesture = errors.New("object is not part of the gesture")
	// ErrClosed indicates the session has been closed.
	ErrClosed = errors.New("session closed")
)
