package render

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-signup/pkg/model"
)

// ErrorMapping splits an error payload into field-level and form-level
// messages keyed by the field names used throughout the render pipeline.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// MergeFormErrors concatenates and normalises multiple form-level error
// slices, trimming whitespace and removing duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// MapErrorPayload normalises error payloads keyed by JSON pointers
// ("/body/email"), dotted paths ("payload.first_name") or bare names into the
// form's field names. Matching ignores case, underscores and dashes so
// snake_case backends map onto camelCase inputs. Unknown paths are treated as
// form-level errors so messages are not lost.
func MapErrorPayload(form model.FormModel, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{
		Fields: make(map[string][]string),
	}
	if len(payload) == 0 {
		mapping.Fields = nil
		return mapping
	}

	index := make(map[string]string, len(form.Fields))
	for _, field := range form.Fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			continue
		}
		index[foldName(name)] = name
	}

	for rawPath, messages := range payload {
		normalized := normalizeMessages(messages)
		if len(normalized) == 0 {
			continue
		}

		name, ok := mapErrorPath(rawPath, index)
		if !ok {
			mapping.Form = append(mapping.Form, normalized...)
			continue
		}
		mapping.Fields[name] = append(mapping.Fields[name], normalized...)
	}

	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

func mapErrorPath(raw string, index map[string]string) (string, bool) {
	if isFormLevelKey(raw) {
		return "", false
	}

	segments := dropWrapperSegments(parsePathSegments(raw))
	// The innermost named segment wins: "/plan/0" maps to "plan".
	for i := len(segments) - 1; i >= 0; i-- {
		if _, err := strconv.Atoi(segments[i]); err == nil {
			continue
		}
		if name, ok := index[foldName(segments[i])]; ok {
			return name, true
		}
	}
	return "", false
}

func parsePathSegments(path string) []string {
	clean := strings.TrimSpace(path)
	clean = strings.TrimLeft(clean, "#$/.")
	replacer := strings.NewReplacer("[", ".", "]", "", "//", "/")
	clean = replacer.Replace(clean)
	clean = strings.Trim(clean, "./")
	if clean == "" {
		return nil
	}

	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})

	out := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.TrimSpace(part)
		if segment == "" {
			continue
		}
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		out = append(out, segment)
	}
	return out
}

func dropWrapperSegments(segments []string) []string {
	wrappers := map[string]struct{}{
		"body":       {},
		"request":    {},
		"payload":    {},
		"data":       {},
		"attributes": {},
		"draft":      {},
	}

	out := segments
	for len(out) > 0 {
		if _, ok := wrappers[strings.ToLower(out[0])]; ok {
			out = out[1:]
			continue
		}
		break
	}
	return out
}

func foldName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer("_", "", "-", "").Replace(name)
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "base", "__all__", "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}
