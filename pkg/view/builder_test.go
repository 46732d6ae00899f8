package view_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-signup/pkg/model"
	"github.com/goliatone/go-signup/pkg/testsupport"
	"github.com/goliatone/go-signup/pkg/view"
	"github.com/goliatone/go-signup/pkg/wizard"
)

func fieldNames(form model.FormModel) []string {
	names := make([]string, 0, len(form.Fields))
	for _, field := range form.Fields {
		names = append(names, field.Name)
	}
	return names
}

func TestBuild_AccountView(t *testing.T) {
	builder := view.NewBuilder(nil)
	state := wizard.State{Step: wizard.StepAccount, Draft: testsupport.SampleDraft(wizard.PlanFree)}

	form, err := builder.Build(state, "en")
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	want := []string{"firstName", "lastName", "email", "password", "confirmPassword", "plan", "agreeTerms"}
	if diff := cmp.Diff(want, fieldNames(form)); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}

	hints := map[string]string{
		view.HintTitle:       "Create your account",
		view.HintSubtitle:    "Start your journey to better health with Quick Med",
		view.HintSubmitLabel: "Sign Up",
		view.HintSubmitOff:   "false",
		view.HintFooterNote:  "Already have an account?",
		view.HintFooterLink:  "Log in",
		view.HintFooterHref:  "/login",
		view.HintHomeHref:    "/",
		view.HintHomeLabel:   "Back to Home",
		view.HintBrandName:   "Quick Med",
		view.HintStep:        "1",
		view.HintEventsHref:  "/signup/events",
	}
	for key, want := range hints {
		if got := form.Hint(key); got != want {
			t.Fatalf("hint %q = %q, want %q", key, got, want)
		}
	}

	first, _ := form.Field("firstName")
	if first.Label != "First Name" || first.Placeholder != "John" || first.Value != "John" || !first.Required {
		t.Fatalf("unexpected firstName field %+v", first)
	}
	email, _ := form.Field("email")
	if email.InputType != model.InputEmail {
		t.Fatalf("email input type = %q", email.InputType)
	}
	terms, _ := form.Field("agreeTerms")
	if terms.InputType != model.InputCheckbox || terms.Value != true {
		t.Fatalf("unexpected terms field %+v", terms)
	}
	if terms.UIHints[view.FieldHintLink] != "terms and conditions" || terms.UIHints[view.FieldHintLinkHref] != "#" {
		t.Fatalf("unexpected terms link hints %+v", terms.UIHints)
	}
}

func TestBuild_NeverEchoesSecrets(t *testing.T) {
	builder := view.NewBuilder(nil)
	draft := testsupport.SampleDraft(wizard.PlanPremium)

	for _, state := range []wizard.State{
		{Step: wizard.StepAccount, Draft: draft},
		{Step: wizard.StepPayment, Draft: draft},
	} {
		form, err := builder.Build(state, "en")
		if err != nil {
			t.Fatalf("build: %v", err)
		}
		for _, field := range form.Fields {
			if wizard.Field(field.Name).IsSecret() && field.Value != nil {
				t.Fatalf("secret field %s carries value %v", field.Name, field.Value)
			}
		}
	}
}

func TestBuild_PlanOptions(t *testing.T) {
	form, err := view.NewBuilder(nil).Build(wizard.NewState(), "es")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	plan, ok := form.Field("plan")
	if !ok {
		t.Fatalf("plan field missing")
	}
	want := []model.Option{
		{Value: "free", Label: "Plan Inicial Gratis"},
		{Value: "premium", Label: "Plan Premium (10 $/mes)"},
		{Value: "ultimate", Label: "Plan Salud Total (30 $/mes)"},
	}
	if diff := cmp.Diff(want, plan.Options); diff != "" {
		t.Fatalf("plan options mismatch (-want +got):\n%s", diff)
	}
	if plan.Placeholder != "Selecciona un plan" || plan.Value != "" {
		t.Fatalf("unexpected plan field %+v", plan)
	}
	if form.Hint(view.HintSubmitOff) != "true" {
		t.Fatalf("submit should be disabled for an empty draft")
	}
	if form.Hint(view.HintSubmitLabel) != "Registrarse" {
		t.Fatalf("submit label = %q", form.Hint(view.HintSubmitLabel))
	}
}

func TestBuild_SubmitLabelFollowsPlan(t *testing.T) {
	builder := view.NewBuilder(nil)
	cases := []struct {
		state wizard.State
		label string
		off   string
	}{
		{wizard.State{Step: wizard.StepAccount, Draft: testsupport.SampleDraft(wizard.PlanFree)}, "Sign Up", "false"},
		{wizard.State{Step: wizard.StepAccount, Draft: testsupport.SampleDraft(wizard.PlanUltimate)}, "Proceed to Payment", "false"},
		{wizard.State{Step: wizard.StepAccount, Draft: wizard.Draft{Plan: wizard.PlanPremium}}, "Proceed to Payment", "true"},
		{testsupport.PaymentState(wizard.PlanPremium), "Complete Payment", "false"},
	}
	for _, tc := range cases {
		form, err := builder.Build(tc.state, "en")
		if err != nil {
			t.Fatalf("build: %v", err)
		}
		if got := form.Hint(view.HintSubmitLabel); got != tc.label {
			t.Fatalf("label = %q, want %q", got, tc.label)
		}
		if got := form.Hint(view.HintSubmitOff); got != tc.off {
			t.Fatalf("disabled = %q, want %q", got, tc.off)
		}
	}
}

func TestBuild_PaymentView(t *testing.T) {
	form, err := view.NewBuilder(nil, view.WithEndpoint("/join")).Build(testsupport.PaymentState(wizard.PlanPremium), "")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if diff := cmp.Diff([]string{"cardNumber", "cardExpiry", "cardCVC"}, fieldNames(form)); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}
	if form.Endpoint != "/join" || form.Method != "POST" {
		t.Fatalf("unexpected endpoint %s %s", form.Method, form.Endpoint)
	}
	if form.Hint(view.HintTitle) != "Payment Information" || form.Hint(view.HintFooterNote) != "Secure payment powered by Stripe" {
		t.Fatalf("unexpected payment chrome %+v", form.UIHints)
	}
	if form.Hint(view.HintFooterLink) != "" {
		t.Fatalf("payment view should not link to login")
	}
	if form.Metadata["locale"] != "en" {
		t.Fatalf("empty locale should resolve to default, got %q", form.Metadata["locale"])
	}
	expiry, _ := form.Field("cardExpiry")
	if expiry.Placeholder != "MM/YY" || expiry.UIHints[view.FieldHintAutocomplete] != "cc-exp" {
		t.Fatalf("unexpected expiry field %+v", expiry)
	}
}

func TestBuild_InvalidStep(t *testing.T) {
	_, err := view.NewBuilder(nil).Build(wizard.State{}, "en")
	if !errors.Is(err, wizard.ErrInvalidStep) {
		t.Fatalf("expected ErrInvalidStep, got %v", err)
	}
}

func TestBuild_Decorators(t *testing.T) {
	decorated := view.NewBuilder(nil, view.WithDecorators(model.DecoratorFunc(func(form *model.FormModel) error {
		form.UIHints["layout.titleKey"] = "payment.title"
		return nil
	})))
	form, err := decorated.Build(wizard.NewState(), "en")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if form.Hint(view.HintTitle) != "Payment Information" {
		t.Fatalf("decorator should run before localization, got %q", form.Hint(view.HintTitle))
	}

	failing := view.NewBuilder(nil, view.WithDecorators(model.DecoratorFunc(func(*model.FormModel) error {
		return errors.New("boom")
	})))
	if _, err := failing.Build(wizard.NewState(), "en"); err == nil {
		t.Fatalf("expected decorator error")
	}
}

func TestCompletion(t *testing.T) {
	builder := view.NewBuilder(nil)

	signup, err := builder.Completion(wizard.EffectFinalizeSignup, wizard.State{Step: wizard.StepAccount, Draft: testsupport.SampleDraft(wizard.PlanFree)}, "en")
	if err != nil {
		t.Fatalf("completion: %v", err)
	}
	if signup.Hint(view.HintView) != view.ViewComplete || len(signup.Fields) != 0 {
		t.Fatalf("unexpected completion model %+v", signup)
	}
	if signup.Hint(view.HintTitle) != "Welcome to Quick Med" || signup.Hint(view.HintSubtitle) != "Your account for john@example.com is ready." {
		t.Fatalf("unexpected signup copy %+v", signup.UIHints)
	}

	payment, err := builder.Completion(wizard.EffectFinalizePayment, testsupport.PaymentState(wizard.PlanUltimate), "en")
	if err != nil {
		t.Fatalf("completion: %v", err)
	}
	if got := payment.Hint(view.HintSubtitle); got != "Thanks! Your Ultimate Health Plan ($30/month) subscription is active." {
		t.Fatalf("unexpected payment copy %q", got)
	}

	if _, err := builder.Completion(wizard.EffectAdvance, wizard.NewState(), "en"); err == nil {
		t.Fatalf("expected error for non-finalize effect")
	}
}
