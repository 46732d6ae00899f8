package testsupport

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-signup/pkg/wizard"
)

// SampleDraft returns a fully populated draft for the given plan. Card fields
// use the well-known test number so payment flows render realistic values.
func SampleDraft(plan wizard.Plan) wizard.Draft {
	return wizard.Draft{
		FirstName:       "John",
		LastName:        "Doe",
		Email:           "john@example.com",
		Password:        "s3cret-pass",
		ConfirmPassword: "s3cret-pass",
		Plan:            plan,
		AgreeTerms:      true,
		CardNumber:      "4242 4242 4242 4242",
		CardExpiry:      "12/30",
		CardCVC:         "123",
	}
}

// PaymentState returns a state parked on the payment step for plan.
func PaymentState(plan wizard.Plan) wizard.State {
	draft := SampleDraft(plan)
	draft.CardNumber, draft.CardExpiry, draft.CardCVC = "", "", ""
	return wizard.State{Step: wizard.StepPayment, Draft: draft}
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	writeFile(t, path, data)
	return true
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
