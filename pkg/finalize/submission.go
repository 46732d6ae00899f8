package finalize

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-signup/pkg/wizard"
)

// Kind distinguishes free sign-ups from paid subscriptions.
type Kind string

const (
	KindSignup  Kind = "signup"
	KindPayment Kind = "payment"
)

// Submission is the record handed to a Sink. Draft holds raw values so sinks
// can forward them; its JSON form is always redacted.
type Submission struct {
	ID          string
	Kind        Kind
	Effect      wizard.Effect
	Draft       wizard.Draft
	Diagnostics []wizard.Diagnostic
	SubmittedAt time.Time
}

// NewSubmission builds the record for a finalize effect.
func NewSubmission(effect wizard.Effect, state wizard.State) (Submission, error) {
	var kind Kind
	switch effect {
	case wizard.EffectFinalizeSignup:
		kind = KindSignup
	case wizard.EffectFinalizePayment:
		kind = KindPayment
	default:
		return Submission{}, fmt.Errorf("finalize: effect %s does not finalize", effect)
	}
	return Submission{
		ID:          uuid.NewString(),
		Kind:        kind,
		Effect:      effect,
		Draft:       state.Draft,
		Diagnostics: wizard.Diagnose(state.Draft),
		SubmittedAt: time.Now().UTC(),
	}, nil
}

type submissionJSON struct {
	ID          string              `json:"id"`
	Kind        Kind                `json:"kind"`
	Plan        wizard.Plan         `json:"plan"`
	Draft       wizard.Draft        `json:"draft"`
	Diagnostics []wizard.Diagnostic `json:"diagnostics,omitempty"`
	SubmittedAt time.Time           `json:"submittedAt"`
}

// MarshalJSON emits the submission with secrets redacted.
func (s Submission) MarshalJSON() ([]byte, error) {
	return json.Marshal(submissionJSON{
		ID:          s.ID,
		Kind:        s.Kind,
		Plan:        s.Draft.Plan,
		Draft:       s.Draft.Redacted(),
		Diagnostics: s.Diagnostics,
		SubmittedAt: s.SubmittedAt,
	})
}
