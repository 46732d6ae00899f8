package finalize

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// ValidationError carries field violations keyed by payload path (JSON
// pointer or backend field name) plus form-level messages. Callers map the
// paths onto form fields with render.MapErrorPayload.
type ValidationError struct {
	Fields map[string][]string
	Form   []string
}

func (e *ValidationError) Error() string {
	paths := make([]string, 0, len(e.Fields))
	for path := range e.Fields {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	if len(paths) == 0 {
		return "finalize: validation failed: " + strings.Join(e.Form, "; ")
	}
	return "finalize: validation failed: " + strings.Join(paths, ", ")
}

// StatusCode reports the HTTP status the failure maps to.
func (e *ValidationError) StatusCode() int { return http.StatusUnprocessableEntity }

// PaymentDeclinedError reports a backend refusal to charge the card.
type PaymentDeclinedError struct {
	Reason string
}

func (e *PaymentDeclinedError) Error() string {
	if e.Reason == "" {
		return "finalize: payment declined"
	}
	return "finalize: payment declined: " + e.Reason
}

// StatusCode reports the HTTP status the failure maps to.
func (e *PaymentDeclinedError) StatusCode() int { return http.StatusPaymentRequired }

// NetworkError wraps transport failures and 5xx responses.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("finalize: %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// StatusCode reports the HTTP status the failure maps to.
func (e *NetworkError) StatusCode() int { return http.StatusBadGateway }
