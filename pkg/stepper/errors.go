package stepper

import "errors"

var (
	// ErrOutOfRange is returned when a tab index does not exist.
	ErrOutOfRange = errors.New("stepper: tab index out of range")
	// ErrTabInvalid is returned when the current tab blocks a transition.
	ErrTabInvalid = errors.New("stepper: tab is invalid")
	// ErrFormInvalid is returned when submission finds at least one invalid tab.
	ErrFormInvalid = errors.New("stepper: form is invalid")
	// ErrAtFirstTab is returned by Previous on the first tab.
	ErrAtFirstTab = errors.New("stepper: already at first tab")
	// ErrAtLastTab is returned by Next on the last tab; submission handles it.
	ErrAtLastTab = errors.New("stepper: already at last tab")
	// ErrNotLastTab is returned when Submit is called before the last tab.
	ErrNotLastTab = errors.New("stepper: submit is only allowed from the last tab")
	// ErrTabLocked is returned when jumping to a click-disabled tab.
	ErrTabLocked = errors.New("stepper: tab is locked")
	// ErrNotReached is returned when jumping past the highest reached tab.
	ErrNotReached = errors.New("stepper: tab has not been reached")
	// ErrAlreadySubmitted is returned when the form was already submitted.
	ErrAlreadySubmitted = errors.New("stepper: form already submitted")
	// ErrEmptyField is returned when a field name is blank.
	ErrEmptyField = errors.New("stepper: field name is required")
)
