package workflow

import "errors"

var (
	// ErrInvalidTransition is returned when a trigger is not permitted from the current state
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrInvalidState is returned when a state is not valid
	ErrInvalidState = errors.New("invalid state")

	// ErrPermissionDenied is returned when the acting principal fails a transition guard
	ErrPermissionDenied = errors.New("permission denied for transition")
)
