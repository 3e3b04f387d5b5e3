package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C) or chose to quit.
	ErrAborted = errors.New("tui: aborted")
	// ErrMissingEngine is returned when the runner is built without an engine.
	ErrMissingEngine = errors.New("tui: engine is required")
	// ErrMissingDefinition is returned when the runner is built without a
	// compiled definition.
	ErrMissingDefinition = errors.New("tui: compiled definition is required")
)
