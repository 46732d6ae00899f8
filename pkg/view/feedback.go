package view

import (
	"errors"
	"net/http"

	"github.com/goliatone/go-signup/pkg/finalize"
	"github.com/goliatone/go-signup/pkg/model"
	"github.com/goliatone/go-signup/pkg/render"
	"github.com/goliatone/go-signup/pkg/wizard"
)

// Feedback is the user-facing rendition of a failed submit.
type Feedback struct {
	Status int
	Fields map[string][]string
	Form   []string
}

type statusCoder interface {
	StatusCode() int
}

// Feedback translates err into localized messages placed on the fields of
// form. Validation paths that match no field become form-level messages.
func (b *Builder) Feedback(form model.FormModel, err error, locale string) Feedback {
	out := Feedback{Status: http.StatusInternalServerError}
	if err == nil {
		out.Status = http.StatusOK
		return out
	}

	var coder statusCoder
	if errors.As(err, &coder) {
		out.Status = coder.StatusCode()
	}

	var (
		validation *finalize.ValidationError
		declined   *finalize.PaymentDeclinedError
		network    *finalize.NetworkError
	)
	switch {
	case errors.Is(err, wizard.ErrSubmitDisabled):
		out.Status = http.StatusUnprocessableEntity
		out.Form = []string{b.catalog.T(locale, "error.submit_disabled")}

	case errors.Is(err, wizard.ErrUnknownPlan), errors.Is(err, wizard.ErrUnknownField):
		out.Status = http.StatusBadRequest
		out.Fields = b.requiredFor(form, err, locale)
		if len(out.Fields) == 0 {
			out.Form = []string{b.catalog.T(locale, "error.validation")}
		}

	case errors.As(err, &validation):
		mapped := render.MapErrorPayload(form, validation.Fields)
		out.Fields = mapped.Fields
		out.Form = render.MergeFormErrors(mapped.Form, validation.Form...)
		if len(out.Fields) == 0 && len(out.Form) == 0 {
			out.Form = []string{b.catalog.T(locale, "error.validation")}
		}

	case errors.As(err, &declined):
		out.Form = []string{b.catalog.T(locale, "error.payment_declined", declined.Reason)}

	case errors.As(err, &network):
		out.Form = []string{b.catalog.T(locale, "error.network")}

	default:
		out.Form = []string{b.catalog.T(locale, "error.network")}
	}
	return out
}

// requiredFor flags the plan field when the rejected value was a plan.
func (b *Builder) requiredFor(form model.FormModel, err error, locale string) map[string][]string {
	if !errors.Is(err, wizard.ErrUnknownPlan) {
		return nil
	}
	if _, ok := form.Field(string(wizard.FieldPlan)); !ok {
		return nil
	}
	return map[string][]string{
		string(wizard.FieldPlan): {b.catalog.T(locale, "error.required")},
	}
}
