package view

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-signup/pkg/catalog"
	"github.com/goliatone/go-signup/pkg/model"
	"github.com/goliatone/go-signup/pkg/render"
	"github.com/goliatone/go-signup/pkg/wizard"
)

const (
	defaultEndpoint = "/signup"
	defaultMethod   = "POST"
)

// Option customises a Builder.
type Option func(*Builder)

// WithEndpoint sets the form action URL.
func WithEndpoint(endpoint string) Option {
	return func(b *Builder) {
		if trimmed := strings.TrimSpace(endpoint); trimmed != "" {
			b.endpoint = trimmed
		}
	}
}

// WithDecorators appends decorators run after the canonical model is built
// and before localization.
func WithDecorators(decorators ...model.Decorator) Option {
	return func(b *Builder) {
		for _, d := range decorators {
			if d != nil {
				b.decorators = append(b.decorators, d)
			}
		}
	}
}

// Builder produces form models for wizard states.
type Builder struct {
	catalog    *catalog.Catalog
	endpoint   string
	decorators []model.Decorator
}

// NewBuilder returns a builder backed by cat, or the embedded catalog when
// cat is nil.
func NewBuilder(cat *catalog.Catalog, opts ...Option) *Builder {
	if cat == nil {
		cat = catalog.Default()
	}
	b := &Builder{
		catalog:  cat,
		endpoint: defaultEndpoint,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Catalog exposes the backing catalog.
func (b *Builder) Catalog() *catalog.Catalog {
	return b.catalog
}

// Build returns the localized model for the view selected by state. Secret
// values (passwords, card data) are never copied into the model.
func (b *Builder) Build(state wizard.State, locale string) (model.FormModel, error) {
	if !state.Step.Valid() {
		return model.FormModel{}, fmt.Errorf("view: %w: %d", wizard.ErrInvalidStep, int(state.Step))
	}

	selected := wizard.SelectView(state)
	form := model.FormModel{
		ID:       "signup-" + selected.String(),
		Endpoint: b.endpoint,
		Method:   defaultMethod,
		UIHints:  b.chrome(),
		Metadata: map[string]string{
			"view":   selected.String(),
			"step":   strconv.Itoa(state.Step.Number()),
			"plan":   string(state.Draft.Plan),
			"locale": locale,
		},
	}

	action := wizard.SubmitActionFor(state)
	form.UIHints[HintView] = selected.String()
	form.UIHints[HintStep] = strconv.Itoa(state.Step.Number())
	form.UIHints[HintSubmitAction] = strings.TrimPrefix(action.Key(), "action.")
	form.UIHints[HintSubmitKey] = action.Key()
	form.UIHints[HintSubmitLabel] = action.Label()
	form.UIHints[HintSubmitOff] = strconv.FormatBool(!wizard.CanSubmit(state))
	form.UIHints[HintEventsHref] = b.endpoint + "/events"

	switch selected {
	case wizard.ViewPayment:
		form.UIHints[HintTitleKey] = "payment.title"
		form.UIHints[HintSubtitleKey] = "payment.subtitle"
		form.UIHints[HintFooterNoteKey] = "footer.secure_payment"
		form.UIHints[HintFooterIcon] = "credit-card"
	default:
		form.UIHints[HintTitleKey] = "account.title"
		form.UIHints[HintSubtitleKey] = "account.subtitle"
		form.UIHints[HintFooterNoteKey] = "footer.login_prompt"
		form.UIHints[HintFooterLinkKey] = "footer.login_link"
		form.UIHints[HintFooterHref] = b.catalog.Links().Login
	}

	for _, name := range wizard.ViewFields(selected) {
		field, err := b.field(name, state.Draft)
		if err != nil {
			return model.FormModel{}, err
		}
		form.Fields = append(form.Fields, field)
	}

	if err := b.decorate(&form); err != nil {
		return model.FormModel{}, err
	}
	b.localize(&form, locale)
	return form, nil
}

// Completion returns the confirmation model shown after a successful
// finalize. effect must be one of the finalize effects.
func (b *Builder) Completion(effect wizard.Effect, state wizard.State, locale string) (model.FormModel, error) {
	if !effect.Finalizes() {
		return model.FormModel{}, fmt.Errorf("view: completion requires a finalize effect, got %s", effect)
	}

	form := model.FormModel{
		ID:      "signup-" + ViewComplete,
		Method:  "GET",
		UIHints: b.chrome(),
		Metadata: map[string]string{
			"view":   ViewComplete,
			"effect": effect.String(),
			"plan":   string(state.Draft.Plan),
			"locale": locale,
		},
	}
	form.UIHints[HintView] = ViewComplete
	form.Endpoint = b.catalog.Links().Home

	if effect == wizard.EffectFinalizePayment {
		planLabel := string(state.Draft.Plan)
		if plan, ok := b.catalog.Plan(state.Draft.Plan); ok {
			planLabel = b.catalog.T(locale, plan.LabelKey)
		}
		form.UIHints[HintTitleKey] = "complete.payment.title"
		form.UIHints[HintSubtitle] = b.catalog.T(locale, "complete.payment.message", planLabel)
	} else {
		form.UIHints[HintTitleKey] = "complete.signup.title"
		form.UIHints[HintSubtitle] = b.catalog.T(locale, "complete.signup.message", state.Draft.Email)
	}

	if err := b.decorate(&form); err != nil {
		return model.FormModel{}, err
	}
	b.localize(&form, locale)
	return form, nil
}

func (b *Builder) chrome() map[string]string {
	brand := b.catalog.Brand()
	return map[string]string{
		HintBrandName:    brand.Name,
		HintBrandIcon:    brand.Icon,
		HintHomeHref:     b.catalog.Links().Home,
		HintHomeLabelKey: "nav.back_home",
		HintCopyrightKey: "footer.copyright",
	}
}

func (b *Builder) field(name wizard.Field, draft wizard.Draft) (model.Field, error) {
	field := model.Field{
		Name:      string(name),
		Type:      model.FieldTypeString,
		InputType: model.InputText,
		Required:  true,
		UIHints: map[string]string{
			"labelKey": "field." + string(name) + ".label",
		},
	}
	if name.IsSecret() {
		field.UIHints[FieldHintSecret] = "true"
	}

	switch name {
	case wizard.FieldFirstName, wizard.FieldLastName, wizard.FieldEmail,
		wizard.FieldCardNumber, wizard.FieldCardExpiry, wizard.FieldCardCVC:
		field.UIHints["placeholderKey"] = "field." + string(name) + ".placeholder"
	}

	switch name {
	case wizard.FieldFirstName:
		field.UIHints[FieldHintAutocomplete] = "given-name"
		field.UIHints[FieldHintGroup] = "name"
	case wizard.FieldLastName:
		field.UIHints[FieldHintAutocomplete] = "family-name"
		field.UIHints[FieldHintGroup] = "name"
	case wizard.FieldEmail:
		field.InputType = model.InputEmail
		field.UIHints[FieldHintAutocomplete] = "email"
	case wizard.FieldPassword, wizard.FieldConfirmPassword:
		field.InputType = model.InputPassword
		field.UIHints[FieldHintAutocomplete] = "new-password"
	case wizard.FieldCardNumber:
		field.UIHints[FieldHintAutocomplete] = "cc-number"
	case wizard.FieldCardExpiry:
		field.UIHints[FieldHintAutocomplete] = "cc-exp"
		field.UIHints[FieldHintGroup] = "card-meta"
	case wizard.FieldCardCVC:
		field.UIHints[FieldHintAutocomplete] = "cc-csc"
		field.UIHints[FieldHintGroup] = "card-meta"
	case wizard.FieldPlan:
		field.InputType = model.InputSelect
		field.UIHints["placeholderKey"] = "field.plan.placeholder"
		field.UIHints[render.FieldOptionsKeyPrefixHint] = "plan."
		for _, plan := range b.catalog.Plans() {
			field.Options = append(field.Options, model.Option{
				Value: string(plan.ID),
				Label: b.catalog.T(b.catalog.DefaultLocale(), plan.LabelKey),
			})
		}
		field.Value = string(draft.Plan)
		return field, nil
	case wizard.FieldAgreeTerms:
		field.Type = model.FieldTypeBoolean
		field.InputType = model.InputCheckbox
		field.UIHints[FieldHintLinkKey] = "field.agreeTerms.link"
		field.UIHints[FieldHintLinkHref] = b.catalog.Links().Terms
		field.Value = draft.AgreeTerms
		return field, nil
	default:
		return model.Field{}, fmt.Errorf("view: %w: %q", wizard.ErrUnknownField, name)
	}

	if !name.IsSecret() {
		value, _ := draft.Text(name)
		field.Value = value
	}
	return field, nil
}

func (b *Builder) decorate(form *model.FormModel) error {
	var errs []error
	for _, d := range b.decorators {
		if err := d.Decorate(form); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("view: decorate: %w", errors.Join(errs...))
	}
	return nil
}

func (b *Builder) localize(form *model.FormModel, locale string) {
	if strings.TrimSpace(locale) == "" {
		locale = b.catalog.DefaultLocale()
	}
	form.Metadata["locale"] = locale
	render.LocalizeFormModel(form, render.RenderOptions{
		Locale:     locale,
		Translator: b.catalog,
	})
}
