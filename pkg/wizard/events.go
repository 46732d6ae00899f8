package wizard

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// Event is a single user interaction applied by Reduce.
type Event interface {
	eventName() string
}

// SetText replaces one text field of the draft.
type SetText struct {
	Field Field
	Value string
}

// SetPlan replaces the selected plan.
type SetPlan struct {
	Plan Plan
}

// SetAgreeTerms toggles the terms acceptance flag.
type SetAgreeTerms struct {
	Agreed bool
}

// Submit asks the step transition logic to advance or finalize.
type Submit struct{}

func (SetText) eventName() string       { return "setText" }
func (SetPlan) eventName() string       { return "setPlan" }
func (SetAgreeTerms) eventName() string { return "setAgreeTerms" }
func (Submit) eventName() string        { return "submit" }

// EventName reports the wire name of an event ("setText", "submit", ...).
func EventName(event Event) string {
	if event == nil {
		return ""
	}
	return event.eventName()
}

// EventPayload is the JSON shape accepted by DecodeEvent.
type EventPayload struct {
	Type   string `json:"type"`
	Field  string `json:"field,omitempty"`
	Value  string `json:"value,omitempty"`
	Plan   string `json:"plan,omitempty"`
	Agreed bool   `json:"agreed,omitempty"`
}

// DecodeEvent turns a JSON payload into an Event. Plan values are normalized
// here; field and plan names are checked later by Reduce.
func DecodeEvent(raw []byte) (Event, error) {
	var payload EventPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("wizard: decode event: %w", err)
	}
	return payload.Event()
}

// Event converts the payload into its typed Event.
func (p EventPayload) Event() (Event, error) {
	switch strings.TrimSpace(p.Type) {
	case "setText":
		return SetText{Field: Field(strings.TrimSpace(p.Field)), Value: p.Value}, nil
	case "setPlan":
		return SetPlan{Plan: NormalizePlan(p.Plan)}, nil
	case "setAgreeTerms":
		return SetAgreeTerms{Agreed: p.Agreed}, nil
	case "submit":
		return Submit{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, p.Type)
	}
}

// EventsForView converts submitted control values for a view into events, in
// display order. Keys that are absent leave the draft untouched, except the
// terms checkbox: an unchecked box is never submitted, so absence clears it.
func EventsForView(view View, values map[string]string) []Event {
	var events []Event
	for _, field := range ViewFields(view) {
		value, ok := values[string(field)]
		switch {
		case field == FieldAgreeTerms:
			events = append(events, SetAgreeTerms{Agreed: ok && isChecked(value)})
		case !ok:
			continue
		case field == FieldPlan:
			events = append(events, SetPlan{Plan: NormalizePlan(value)})
		default:
			events = append(events, SetText{Field: field, Value: value})
		}
	}
	return events
}

// FieldOf reports the draft field an event writes. Submit writes none.
func FieldOf(event Event) (Field, bool) {
	switch ev := event.(type) {
	case SetText:
		return ev.Field, true
	case SetPlan:
		return FieldPlan, true
	case SetAgreeTerms:
		return FieldAgreeTerms, true
	default:
		return "", false
	}
}

// CheckView rejects events that write a field the view does not present.
func CheckView(view View, events ...Event) error {
	for _, event := range events {
		field, ok := FieldOf(event)
		if !ok {
			continue
		}
		if !slices.Contains(ViewFields(view), field) {
			return fmt.Errorf("%w: %q on %s view", ErrInactiveField, field, view)
		}
	}
	return nil
}

func isChecked(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "false", "off", "0", "no":
		return false
	default:
		return true
	}
}
