package wizard

import "fmt"

// Effect tells the caller what a reduced event requires beyond the new state.
type Effect int

const (
	// EffectNone means the state change is the whole outcome.
	EffectNone Effect = iota
	// EffectAdvance means the wizard moved from the account to the payment step.
	EffectAdvance
	// EffectFinalizeSignup means a free plan sign-up is complete.
	EffectFinalizeSignup
	// EffectFinalizePayment means the payment step was submitted.
	EffectFinalizePayment
)

func (e Effect) String() string {
	switch e {
	case EffectNone:
		return "none"
	case EffectAdvance:
		return "advance"
	case EffectFinalizeSignup:
		return "finalize_signup"
	case EffectFinalizePayment:
		return "finalize_payment"
	default:
		return fmt.Sprintf("effect(%d)", int(e))
	}
}

// Finalizes reports whether the effect ends the flow.
func (e Effect) Finalizes() bool {
	return e == EffectFinalizeSignup || e == EffectFinalizePayment
}

// Reduce applies event to state and returns the resulting state and effect.
// On error the original state is returned unchanged.
func Reduce(state State, event Event) (State, Effect, error) {
	if !state.Step.Valid() {
		return state, EffectNone, fmt.Errorf("%w: %d", ErrInvalidStep, int(state.Step))
	}

	switch ev := event.(type) {
	case SetText:
		draft, ok := state.Draft.withText(ev.Field, ev.Value)
		if !ok {
			return state, EffectNone, fmt.Errorf("%w: %q", ErrUnknownField, ev.Field)
		}
		next := state
		next.Draft = draft
		return next, EffectNone, nil

	case SetPlan:
		plan, ok := ParsePlan(string(ev.Plan))
		if !ok {
			return state, EffectNone, fmt.Errorf("%w: %q", ErrUnknownPlan, ev.Plan)
		}
		next := state
		next.Draft.Plan = plan
		return next, EffectNone, nil

	case SetAgreeTerms:
		next := state
		next.Draft.AgreeTerms = ev.Agreed
		return next, EffectNone, nil

	case Submit:
		return submit(state)

	case nil:
		return state, EffectNone, fmt.Errorf("%w: nil event", ErrUnknownEvent)

	default:
		return state, EffectNone, fmt.Errorf("%w: %T", ErrUnknownEvent, event)
	}
}

// ReduceAll applies events in order, stopping at the first error. The effect
// of the last applied event is returned.
func ReduceAll(state State, events ...Event) (State, Effect, error) {
	effect := EffectNone
	for _, event := range events {
		next, eff, err := Reduce(state, event)
		if err != nil {
			return state, effect, err
		}
		state, effect = next, eff
	}
	return state, effect, nil
}

func submit(state State) (State, Effect, error) {
	if !CanSubmit(state) {
		return state, EffectNone, ErrSubmitDisabled
	}

	if state.Step == StepPayment {
		return state, EffectFinalizePayment, nil
	}

	if state.Draft.Plan.IsPaid() {
		next := state
		next.Step = StepPayment
		return next, EffectAdvance, nil
	}
	return state, EffectFinalizeSignup, nil
}

// CanSubmit mirrors the submit control's enabled state. The account step
// requires accepted terms and a selected plan; the payment step has no gate.
func CanSubmit(state State) bool {
	if state.Step == StepPayment {
		return true
	}
	return state.Draft.AgreeTerms && state.Draft.Plan != PlanNone
}
