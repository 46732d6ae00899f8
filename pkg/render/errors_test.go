package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-signup/pkg/model"
	"github.com/goliatone/go-signup/pkg/render"
)

func TestMapErrorPayload_PointersAndAliases(t *testing.T) {
	form := model.FormModel{
		Fields: []model.Field{
			{Name: "firstName"},
			{Name: "email"},
			{Name: "plan"},
			{Name: "cardNumber"},
		},
	}

	payload := map[string][]string{
		"/body/first_name":     {"First name is required"},
		"payload.email":        {" Email invalid ", "Email invalid"},
		"$.draft.plan[0]":      {"Plan must be one of free, premium, ultimate"},
		"/card_number":         {"Card declined"},
		"non_field_errors":     {"Form level error"},
		"request/body/unknown": {"Should fall back to form errors"},
		"":                     {"Unscoped form error"},
	}

	mapped := render.MapErrorPayload(form, payload)

	wantFields := map[string][]string{
		"firstName":  {"First name is required"},
		"email":      {"Email invalid"},
		"plan":       {"Plan must be one of free, premium, ultimate"},
		"cardNumber": {"Card declined"},
	}
	if diff := cmp.Diff(wantFields, mapped.Fields); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}

	wantForm := []string{"Form level error", "Should fall back to form errors", "Unscoped form error"}
	if diff := cmp.Diff(wantForm, mapped.Form, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
}

func TestMapErrorPayload_Empty(t *testing.T) {
	mapped := render.MapErrorPayload(model.FormModel{}, nil)
	if mapped.Fields != nil || mapped.Form != nil {
		t.Fatalf("expected empty mapping, got %#v", mapped)
	}
}

func TestMergeFormErrors(t *testing.T) {
	merged := render.MergeFormErrors([]string{" First ", "Second"}, "Second", "third", "  ")
	want := []string{"First", "Second", "third"}

	if diff := cmp.Diff(want, merged); diff != "" {
		t.Fatalf("merged form errors mismatch (-want +got):\n%s", diff)
	}
}
