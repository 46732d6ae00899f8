package render

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-signup/pkg/model"
)

// Translator resolves a message key for a locale. Args are applied with
// fmt-style verbs when the message contains any.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// MissingTranslationHandler decides the text shown when a key cannot be
// resolved. args may carry a map with a "default" entry holding the fallback.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

// ErrMissingTranslator is passed to MissingTranslationHandler when no
// Translator was configured.
var ErrMissingTranslator = errors.New("render: translator is not configured")

const (
	hintKeySuffix = "Key"

	fieldLabelKeyHint       = "labelKey"
	fieldPlaceholderKeyHint = "placeholderKey"
	fieldDescriptionKeyHint = "descriptionKey"

	// FieldOptionsKeyPrefixHint names the message prefix used to translate
	// option labels: prefix + option value.
	FieldOptionsKeyPrefixHint = "optionsKeyPrefix"
)

// LocalizeFormModel mutates the supplied form model in place, translating any
// `*Key` hints into the value they name: form hint "layout.titleKey" fills
// "layout.title", field hint "labelKey" fills Label, and so on. Existing
// values act as fallbacks.
func LocalizeFormModel(form *model.FormModel, opts RenderOptions) {
	if form == nil {
		return
	}

	onMissing := opts.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}

	localizeHints(form.UIHints, opts.Locale, opts.Translator, onMissing)
	for i := range form.Fields {
		localizeField(&form.Fields[i], opts.Locale, opts.Translator, onMissing)
	}
}

func localizeHints(hints map[string]string, locale string, t Translator, onMissing MissingTranslationHandler) {
	if len(hints) == 0 {
		return
	}
	keys := make([]string, 0, len(hints))
	for name := range hints {
		if strings.HasSuffix(name, hintKeySuffix) && len(name) > len(hintKeySuffix) {
			keys = append(keys, name)
		}
	}
	sort.Strings(keys)
	for _, name := range keys {
		key := strings.TrimSpace(hints[name])
		if key == "" {
			continue
		}
		target := strings.TrimSuffix(name, hintKeySuffix)
		hints[target] = translate(locale, key, strings.TrimSpace(hints[target]), t, onMissing)
	}
}

func localizeField(field *model.Field, locale string, t Translator, onMissing MissingTranslationHandler) {
	if field == nil || len(field.UIHints) == 0 {
		return
	}

	if key := strings.TrimSpace(field.UIHints[fieldLabelKeyHint]); key != "" {
		field.Label = translate(locale, key, strings.TrimSpace(field.Label), t, onMissing)
	}
	if key := strings.TrimSpace(field.UIHints[fieldPlaceholderKeyHint]); key != "" {
		field.Placeholder = translate(locale, key, strings.TrimSpace(field.Placeholder), t, onMissing)
	}
	if key := strings.TrimSpace(field.UIHints[fieldDescriptionKeyHint]); key != "" {
		field.Description = translate(locale, key, strings.TrimSpace(field.Description), t, onMissing)
	}
	if prefix := strings.TrimSpace(field.UIHints[FieldOptionsKeyPrefixHint]); prefix != "" {
		for i := range field.Options {
			option := &field.Options[i]
			option.Label = translate(locale, prefix+option.Value, strings.TrimSpace(option.Label), t, onMissing)
		}
	}

	rest := make(map[string]string, len(field.UIHints))
	for name, value := range field.UIHints {
		switch name {
		case fieldLabelKeyHint, fieldPlaceholderKeyHint, fieldDescriptionKeyHint:
			continue
		}
		rest[name] = value
	}
	localizeHints(rest, locale, t, onMissing)
	for name, value := range rest {
		field.UIHints[name] = value
	}
}

func translate(locale, key, fallback string, t Translator, onMissing MissingTranslationHandler) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}

	if t == nil {
		return onMissing(locale, key, []any{map[string]any{"default": fallback}}, ErrMissingTranslator)
	}

	result, err := t.Translate(locale, key)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}
	return onMissing(locale, key, []any{map[string]any{"default": fallback}}, err)
}

// missingTranslationDefault returns the fallback passed through args, or the
// key itself when there is none.
func missingTranslationDefault(_ string, key string, args []any, _ error) string {
	for _, arg := range args {
		values, ok := arg.(map[string]any)
		if !ok {
			continue
		}
		if fallback := strings.TrimSpace(anyToString(values["default"])); fallback != "" {
			return fallback
		}
	}
	return key
}

func anyToString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
