package wizard

import "errors"

var (
	// ErrSubmitDisabled is returned when Submit arrives while the submit
	// control would be disabled (terms not accepted or no plan selected).
	ErrSubmitDisabled = errors.New("wizard: submit disabled")
	// ErrUnknownField is returned by SetText for names outside TextFields.
	ErrUnknownField = errors.New("wizard: unknown text field")
	// ErrUnknownPlan is returned by SetPlan for values outside Plans.
	ErrUnknownPlan = errors.New("wizard: unknown plan")
	// ErrUnknownEvent is returned when decoding an unsupported event type.
	ErrUnknownEvent = errors.New("wizard: unknown event")
	// ErrInactiveField is returned by CheckView for fields outside the
	// active view.
	ErrInactiveField = errors.New("wizard: field not in active view")
	// ErrInvalidStep signals a State whose Step is not a defined variant.
	ErrInvalidStep = errors.New("wizard: invalid step")
)
