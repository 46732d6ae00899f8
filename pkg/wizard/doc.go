// Package wizard holds the sign-up flow as an explicit state value plus a pure
// reducer. A State pairs the active Step with the SignupDraft being edited;
// Reduce applies one Event and reports the Effect front ends must carry out
// (advance to payment, finalize a free sign-up, finalize a payment).
//
// The package has no rendering or transport dependencies so the whole flow can
// be exercised from tests, the HTTP component, or the terminal prompts.
package wizard
