package model

// FieldType is the simplified enum for form-friendly field kinds.
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeBoolean FieldType = "boolean"
)

// Input types understood by the built-in renderers.
const (
	InputText     = "text"
	InputEmail    = "email"
	InputPassword = "password"
	InputSelect   = "select"
	InputCheckbox = "checkbox"
)

// Option is a selectable value for enumerated fields.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Field models an individual input inside a form. Struct fields are annotated
// so renderers can serialise them directly when needed.
type Field struct {
	Name        string            `json:"name"`
	Type        FieldType         `json:"type"`
	InputType   string            `json:"inputType"`
	Required    bool              `json:"required"`
	Label       string            `json:"label,omitempty"`
	Placeholder string            `json:"placeholder,omitempty"`
	Description string            `json:"description,omitempty"`
	Value       any               `json:"value,omitempty"`
	Options     []Option          `json:"options,omitempty"`
	UIHints     map[string]string `json:"uiHints,omitempty"`
}

// FormModel is the top-level representation renderers consume.
type FormModel struct {
	ID       string            `json:"id"`
	Endpoint string            `json:"endpoint"`
	Method   string            `json:"method"`
	Fields   []Field           `json:"fields"`
	UIHints  map[string]string `json:"uiHints,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Field looks up a field by name.
func (f FormModel) Field(name string) (Field, bool) {
	for _, field := range f.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// Hint returns a form-level UI hint.
func (f FormModel) Hint(key string) string {
	if f.UIHints == nil {
		return ""
	}
	return f.UIHints[key]
}
