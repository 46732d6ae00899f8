package wizard

import "strings"

// Plan identifies a subscription tier. The zero value means no plan has been
// selected yet.
type Plan string

const (
	PlanNone     Plan = ""
	PlanFree     Plan = "free"
	PlanPremium  Plan = "premium"
	PlanUltimate Plan = "ultimate"
)

// Plans lists the selectable tiers in display order.
func Plans() []Plan {
	return []Plan{PlanFree, PlanPremium, PlanUltimate}
}

// ParsePlan maps the exact wire value of a plan to a Plan. Unknown values
// report false.
func ParsePlan(raw string) (Plan, bool) {
	switch Plan(raw) {
	case PlanNone:
		return PlanNone, true
	case PlanFree:
		return PlanFree, true
	case PlanPremium:
		return PlanPremium, true
	case PlanUltimate:
		return PlanUltimate, true
	default:
		return PlanNone, false
	}
}

// NormalizePlan trims and lower-cases raw input from a form, event payload or
// catalog file. Decoders call it before handing the value to Reduce.
func NormalizePlan(raw string) Plan {
	return Plan(strings.ToLower(strings.TrimSpace(raw)))
}

// IsPaid reports whether the plan requires the payment step.
func (p Plan) IsPaid() bool {
	return p == PlanPremium || p == PlanUltimate
}

// Field names a draft attribute. Values match the form input names.
type Field string

const (
	FieldFirstName       Field = "firstName"
	FieldLastName        Field = "lastName"
	FieldEmail           Field = "email"
	FieldPassword        Field = "password"
	FieldConfirmPassword Field = "confirmPassword"
	FieldPlan            Field = "plan"
	FieldAgreeTerms      Field = "agreeTerms"
	FieldCardNumber      Field = "cardNumber"
	FieldCardExpiry      Field = "cardExpiry"
	FieldCardCVC         Field = "cardCVC"
)

// TextFields lists every field that accepts free text.
func TextFields() []Field {
	return []Field{
		FieldFirstName,
		FieldLastName,
		FieldEmail,
		FieldPassword,
		FieldConfirmPassword,
		FieldCardNumber,
		FieldCardExpiry,
		FieldCardCVC,
	}
}

// IsText reports whether the field is set through SetText.
func (f Field) IsText() bool {
	for _, candidate := range TextFields() {
		if candidate == f {
			return true
		}
	}
	return false
}

// IsSecret reports whether the field value must never be echoed or logged.
func (f Field) IsSecret() bool {
	switch f {
	case FieldPassword, FieldConfirmPassword, FieldCardNumber, FieldCardExpiry, FieldCardCVC:
		return true
	default:
		return false
	}
}

// Draft is the in-memory record of everything the user is entering.
// ConfirmPassword is collected but never compared against Password; see
// Diagnose.
type Draft struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Plan            Plan   `json:"plan"`
	AgreeTerms      bool   `json:"agreeTerms"`
	CardNumber      string `json:"cardNumber"`
	CardExpiry      string `json:"cardExpiry"`
	CardCVC         string `json:"cardCVC"`
}

// Text returns the value of a text field.
func (d Draft) Text(field Field) (string, bool) {
	switch field {
	case FieldFirstName:
		return d.FirstName, true
	case FieldLastName:
		return d.LastName, true
	case FieldEmail:
		return d.Email, true
	case FieldPassword:
		return d.Password, true
	case FieldConfirmPassword:
		return d.ConfirmPassword, true
	case FieldCardNumber:
		return d.CardNumber, true
	case FieldCardExpiry:
		return d.CardExpiry, true
	case FieldCardCVC:
		return d.CardCVC, true
	default:
		return "", false
	}
}

func (d Draft) withText(field Field, value string) (Draft, bool) {
	switch field {
	case FieldFirstName:
		d.FirstName = value
	case FieldLastName:
		d.LastName = value
	case FieldEmail:
		d.Email = value
	case FieldPassword:
		d.Password = value
	case FieldConfirmPassword:
		d.ConfirmPassword = value
	case FieldCardNumber:
		d.CardNumber = value
	case FieldCardExpiry:
		d.CardExpiry = value
	case FieldCardCVC:
		d.CardCVC = value
	default:
		return d, false
	}
	return d, true
}

// Redacted returns a copy safe for logs: passwords are blanked out, card data
// is reduced to the last four digits.
func (d Draft) Redacted() Draft {
	out := d
	out.Password = mask(d.Password)
	out.ConfirmPassword = mask(d.ConfirmPassword)
	out.CardNumber = lastFour(d.CardNumber)
	out.CardExpiry = mask(d.CardExpiry)
	out.CardCVC = mask(d.CardCVC)
	return out
}

func mask(value string) string {
	if value == "" {
		return ""
	}
	return "[redacted]"
}

func lastFour(number string) string {
	digits := make([]rune, 0, len(number))
	for _, r := range number {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	if len(digits) == 0 {
		return mask(number)
	}
	if len(digits) > 4 {
		digits = digits[len(digits)-4:]
	}
	return "****" + string(digits)
}

// Step is the two-valued indicator selecting which part of the draft is shown.
// The zero value is invalid; use NewState.
type Step int

const (
	StepAccount Step = iota + 1
	StepPayment
)

// Number reports the 1-based position shown to users.
func (s Step) Number() int {
	return int(s)
}

func (s Step) String() string {
	switch s {
	case StepAccount:
		return "account"
	case StepPayment:
		return "payment"
	default:
		return "unknown"
	}
}

// Valid reports whether s is one of the defined steps.
func (s Step) Valid() bool {
	return s == StepAccount || s == StepPayment
}

// State is the full wizard state for one form session.
type State struct {
	Step  Step  `json:"step"`
	Draft Draft `json:"draft"`
}

// NewState returns the initial state: account step, empty draft.
func NewState() State {
	return State{Step: StepAccount}
}
