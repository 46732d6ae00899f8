package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-signup/pkg/model"
	"github.com/goliatone/go-signup/pkg/render"
	"github.com/goliatone/go-signup/pkg/view"
)

// Renderer implements render.Renderer for terminal sessions. Each field of
// the model becomes one prompt; the answers are serialized as the output.
type Renderer struct {
	driver       PromptDriver
	outputFormat OutputFormat
	theme        Theme
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) *Renderer {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		theme: Theme{
			TitlePrefix: "== ",
			InfoPrefix:  "",
			ErrorPrefix: "! ",
		},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	return r
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Render prompts for every field of form and serializes the answers.
func (r *Renderer) Render(ctx context.Context, form model.FormModel, opts render.RenderOptions) ([]byte, error) {
	values, err := r.Collect(ctx, form, opts)
	if err != nil {
		return nil, err
	}
	return r.serialize(values)
}

// Collect prompts for every field of form and returns the raw answers keyed
// by field name: strings for text and select fields, booleans for checkboxes.
func (r *Renderer) Collect(ctx context.Context, form model.FormModel, opts render.RenderOptions) (map[string]any, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if opts.Translator != nil {
		form = cloneForm(form)
		render.LocalizeFormModel(&form, opts)
	}

	if err := r.header(ctx, form, opts.FormErrors); err != nil {
		return nil, err
	}

	values := make(map[string]any, len(form.Fields))
	for _, field := range form.Fields {
		for _, message := range opts.Errors[field.Name] {
			if err := r.driver.Info(ctx, r.theme.ErrorPrefix+field.Label+": "+message); err != nil {
				return nil, err
			}
		}
		value, err := r.promptField(ctx, field, opts.Values)
		if err != nil {
			return nil, fmt.Errorf("tui: prompt %s: %w", field.Name, err)
		}
		values[field.Name] = value
	}
	return values, nil
}

// Message prints a line through the driver using the info prefix.
func (r *Renderer) Message(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.InfoPrefix+msg)
}

func (r *Renderer) header(ctx context.Context, form model.FormModel, formErrors []string) error {
	if title := form.Hint(view.HintTitle); title != "" {
		if err := r.driver.Info(ctx, r.theme.TitlePrefix+title); err != nil {
			return err
		}
	}
	if subtitle := form.Hint(view.HintSubtitle); subtitle != "" {
		if err := r.Message(ctx, subtitle); err != nil {
			return err
		}
	}
	for _, message := range formErrors {
		if err := r.driver.Info(ctx, r.theme.ErrorPrefix+message); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) promptField(ctx context.Context, field model.Field, prefill map[string]any) (any, error) {
	label := displayLabel(field)
	secret := strings.EqualFold(field.UIHints[view.FieldHintSecret], "true") || field.InputType == model.InputPassword

	switch field.InputType {
	case model.InputCheckbox:
		if link := field.UIHints[view.FieldHintLink]; link != "" {
			label = strings.TrimSpace(label + " " + link)
		}
		return r.driver.Confirm(ctx, ConfirmConfig{
			Message: label,
			Default: boolValue(lookup(field, prefill)),
			Help:    field.UIHints[view.FieldHintLinkHref],
		})

	case model.InputSelect:
		if len(field.Options) == 0 {
			return nil, ErrNoOptions
		}
		labels := make([]string, len(field.Options))
		defaultIndex := 0
		current := stringValue(lookup(field, prefill))
		for i, option := range field.Options {
			labels[i] = option.Label
			if option.Value == current {
				defaultIndex = i
			}
		}
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      label,
			Options:      labels,
			DefaultIndex: defaultIndex,
			Help:         field.Placeholder,
		})
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(field.Options) {
			return nil, fmt.Errorf("tui: selection %d out of range", idx)
		}
		return field.Options[idx].Value, nil
	}

	cfg := InputConfig{Message: label, Help: field.Placeholder}
	if secret {
		return r.driver.Password(ctx, cfg)
	}
	cfg.Default = stringValue(lookup(field, prefill))
	return r.driver.Input(ctx, cfg)
}

func (r *Renderer) serialize(values map[string]any) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		form := url.Values{}
		for key, value := range values {
			form.Set(key, stringValue(value))
		}
		return []byte(form.Encode()), nil

	case OutputFormatPrettyText:
		keys := make([]string, 0, len(values))
		for key := range values {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		var b strings.Builder
		for _, key := range keys {
			fmt.Fprintf(&b, "%s: %s\n", key, stringValue(values[key]))
		}
		return []byte(b.String()), nil

	default:
		out, err := json.MarshalIndent(values, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("tui: encode values: %w", err)
		}
		return out, nil
	}
}

func displayLabel(field model.Field) string {
	if label := strings.TrimSpace(field.Label); label != "" {
		return label
	}
	return field.Name
}

func lookup(field model.Field, prefill map[string]any) any {
	if value, ok := prefill[field.Name]; ok {
		return value
	}
	return field.Value
}

func stringValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

func boolValue(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		parsed, _ := strconv.ParseBool(v)
		return parsed
	default:
		return false
	}
}

func cloneForm(form model.FormModel) model.FormModel {
	out := form
	out.UIHints = cloneStrings(form.UIHints)
	out.Fields = make([]model.Field, len(form.Fields))
	for i, field := range form.Fields {
		field.UIHints = cloneStrings(field.UIHints)
		field.Options = append([]model.Option(nil), field.Options...)
		out.Fields[i] = field
	}
	return out
}

func cloneStrings(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
