package prompt

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("prompt: aborted")
	// ErrCancelled is returned when the user leaves the wizard from a
	// navigation menu without submitting.
	ErrCancelled = errors.New("prompt: application cancelled")
)
