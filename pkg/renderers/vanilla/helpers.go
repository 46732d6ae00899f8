package vanilla

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-signup/pkg/model"
	"github.com/goliatone/go-signup/pkg/render"
)

type fieldView struct {
	Name         string       `json:"name"`
	ID           string       `json:"id"`
	InputType    string       `json:"input_type"`
	Label        string       `json:"label"`
	Placeholder  string       `json:"placeholder"`
	Required     bool         `json:"required"`
	Value        string       `json:"value"`
	Checked      bool         `json:"checked"`
	Autocomplete string       `json:"autocomplete"`
	Link         string       `json:"link"`
	LinkHref     string       `json:"link_href"`
	Options      []optionView `json:"options"`
	Errors       []string     `json:"errors"`
	Live         bool         `json:"live"`
	group        string
}

type optionView struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

func controlID(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}
	return "fg-" + trimmed
}

// buildFieldView merges the field with per-request values and errors. Fields
// hinted as secret never carry a value, whatever the caller supplies.
func buildFieldView(field model.Field, opts render.RenderOptions) fieldView {
	view := fieldView{
		Name:         field.Name,
		ID:           controlID(field.Name),
		InputType:    field.InputType,
		Label:        field.Label,
		Placeholder:  field.Placeholder,
		Required:     field.Required,
		Autocomplete: field.UIHints["autocomplete"],
		Link:         field.UIHints["link"],
		LinkHref:     field.UIHints["linkHref"],
		Errors:       opts.Errors[field.Name],
		group:        field.UIHints["group"],
	}
	if view.InputType == "" {
		view.InputType = model.InputText
	}

	value := field.Value
	if override, ok := opts.Values[field.Name]; ok {
		value = override
	}
	if field.UIHints["secret"] == "true" {
		value = nil
	} else {
		view.Live = true
	}

	switch field.InputType {
	case model.InputCheckbox:
		view.Checked = truthy(value)
	default:
		view.Value = stringValue(value)
	}

	for _, option := range field.Options {
		view.Options = append(view.Options, optionView{
			Value:    option.Value,
			Label:    option.Label,
			Selected: option.Value != "" && option.Value == view.Value,
		})
	}
	return view
}

// groupRows places adjacent fields sharing a group hint on one row.
func groupRows(fields []fieldView) [][]fieldView {
	var rows [][]fieldView
	for _, field := range fields {
		last := len(rows) - 1
		if last >= 0 && field.group != "" && rows[last][0].group == field.group {
			rows[last] = append(rows[last], field)
			continue
		}
		rows = append(rows, []fieldView{field})
	}
	return rows
}

func truthy(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "on", "1", "yes":
			return true
		}
	}
	return false
}

func stringValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
