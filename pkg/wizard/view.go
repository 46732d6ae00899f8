package wizard

// View selects which subset of the draft is presented.
type View int

const (
	ViewAccount View = iota + 1
	ViewPayment
)

func (v View) String() string {
	switch v {
	case ViewAccount:
		return "account"
	case ViewPayment:
		return "payment"
	default:
		return "unknown"
	}
}

// SelectView maps a state to the view that presents it.
func SelectView(state State) View {
	if state.Step == StepPayment {
		return ViewPayment
	}
	return ViewAccount
}

// ViewFields lists the fields a view presents, in display order.
func ViewFields(view View) []Field {
	switch view {
	case ViewPayment:
		return []Field{FieldCardNumber, FieldCardExpiry, FieldCardCVC}
	default:
		return []Field{
			FieldFirstName,
			FieldLastName,
			FieldEmail,
			FieldPassword,
			FieldConfirmPassword,
			FieldPlan,
			FieldAgreeTerms,
		}
	}
}

// SubmitAction identifies the submit control variant.
type SubmitAction int

const (
	ActionSignUp SubmitAction = iota + 1
	ActionProceedToPayment
	ActionCompletePayment
)

// Key is the catalog message key for the action label.
func (a SubmitAction) Key() string {
	switch a {
	case ActionProceedToPayment:
		return "action.proceed_to_payment"
	case ActionCompletePayment:
		return "action.complete_payment"
	default:
		return "action.sign_up"
	}
}

// Label is the untranslated control label.
func (a SubmitAction) Label() string {
	switch a {
	case ActionProceedToPayment:
		return "Proceed to Payment"
	case ActionCompletePayment:
		return "Complete Payment"
	default:
		return "Sign Up"
	}
}

// SubmitActionFor derives the submit control variant from step and plan.
// With no plan selected the account step shows the sign-up label, matching a
// disabled control that has not been told about a paid plan yet.
func SubmitActionFor(state State) SubmitAction {
	if state.Step == StepPayment {
		return ActionCompletePayment
	}
	if state.Draft.Plan.IsPaid() {
		return ActionProceedToPayment
	}
	return ActionSignUp
}

// SubmitLabel returns "Sign Up", "Proceed to Payment" or "Complete Payment".
func SubmitLabel(state State) string {
	return SubmitActionFor(state).Label()
}

// Diagnostic is a non-blocking observation about a draft.
type Diagnostic string

const (
	// DiagnosticPasswordMismatch flags a confirm password that differs from
	// the password. It is reported, never enforced.
	DiagnosticPasswordMismatch Diagnostic = "password_mismatch"
)

// Diagnose reports observations that the flow deliberately does not enforce.
func Diagnose(draft Draft) []Diagnostic {
	var out []Diagnostic
	if draft.Password != draft.ConfirmPassword {
		out = append(out, DiagnosticPasswordMismatch)
	}
	return out
}
