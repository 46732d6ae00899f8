package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoOptions is returned when a select field has nothing to choose from.
	ErrNoOptions = errors.New("tui: select field has no options")
	// ErrTooManyAttempts stops a session whose submits keep failing.
	ErrTooManyAttempts = errors.New("tui: too many failed attempts")
)
