package finalize_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-signup/pkg/contract"
	"github.com/goliatone/go-signup/pkg/finalize"
	"github.com/goliatone/go-signup/pkg/testsupport"
	"github.com/goliatone/go-signup/pkg/wizard"
)

func newSink(t *testing.T, url string) *finalize.HTTPSink {
	t.Helper()
	c, err := contract.Load(context.Background())
	if err != nil {
		t.Fatalf("load contract: %v", err)
	}
	sink, err := finalize.NewHTTPSink(url, c)
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}
	return sink
}

func TestHTTPSink_PostsAccount(t *testing.T) {
	var got map[string]any
	var path, idempotency string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		idempotency = r.Header.Get("Idempotency-Key")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	sub := mustSubmission(t, wizard.EffectFinalizeSignup, testsupport.SampleDraft(wizard.PlanFree))
	if err := newSink(t, server.URL+"/").Finalize(context.Background(), sub); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	if path != "/accounts" || idempotency != sub.ID {
		t.Fatalf("unexpected request %s (key %q)", path, idempotency)
	}
	account, _ := got["account"].(map[string]any)
	want := map[string]any{
		"first_name":  "John",
		"last_name":   "Doe",
		"email":       "john@example.com",
		"password":    "s3cret-pass",
		"plan":        "free",
		"agree_terms": true,
	}
	if diff := cmp.Diff(want, account); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestHTTPSink_ContractViolationSkipsNetwork(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	draft := testsupport.SampleDraft(wizard.PlanPremium)
	draft.CardNumber = ""
	sub := mustSubmission(t, wizard.EffectFinalizePayment, draft)

	err := newSink(t, server.URL).Finalize(context.Background(), sub)
	var verr *finalize.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Fields["/payment/card_number"]) == 0 {
		t.Fatalf("expected card number violation, got %v", verr.Fields)
	}
	if verr.StatusCode() != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", verr.StatusCode())
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Fatalf("backend should not be called")
	}
}

func TestHTTPSink_MapsBackendFailures(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "validation",
			status: http.StatusUnprocessableEntity,
			body:   `{"message":"email taken","errors":{"account.email":["already registered"]}}`,
			check: func(t *testing.T, err error) {
				var verr *finalize.ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
				if diff := cmp.Diff([]string{"already registered"}, verr.Fields["account.email"]); diff != "" {
					t.Fatalf("fields mismatch (-want +got):\n%s", diff)
				}
				if diff := cmp.Diff([]string{"email taken"}, verr.Form); diff != "" {
					t.Fatalf("form mismatch (-want +got):\n%s", diff)
				}
			},
		},
		{
			name:   "declined",
			status: http.StatusPaymentRequired,
			body:   `{"reason":"insufficient funds"}`,
			check: func(t *testing.T, err error) {
				var declined *finalize.PaymentDeclinedError
				if !errors.As(err, &declined) || declined.Reason != "insufficient funds" {
					t.Fatalf("expected PaymentDeclinedError, got %v", err)
				}
				if declined.StatusCode() != http.StatusPaymentRequired {
					t.Fatalf("status = %d", declined.StatusCode())
				}
			},
		},
		{
			name:   "server error",
			status: http.StatusServiceUnavailable,
			check: func(t *testing.T, err error) {
				var netErr *finalize.NetworkError
				if !errors.As(err, &netErr) || netErr.Op != contract.OpCreateSubscription {
					t.Fatalf("expected NetworkError, got %v", err)
				}
				if netErr.StatusCode() != http.StatusBadGateway {
					t.Fatalf("status = %d", netErr.StatusCode())
				}
			},
		},
		{
			name:   "unexpected",
			status: http.StatusConflict,
			check: func(t *testing.T, err error) {
				if err == nil {
					t.Fatalf("expected error")
				}
				var netErr *finalize.NetworkError
				if errors.As(err, &netErr) {
					t.Fatalf("409 is not a network error")
				}
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			sub := mustSubmission(t, wizard.EffectFinalizePayment, testsupport.SampleDraft(wizard.PlanPremium))
			tc.check(t, newSink(t, server.URL).Finalize(context.Background(), sub))
		})
	}
}

func TestHTTPSink_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	sub := mustSubmission(t, wizard.EffectFinalizeSignup, testsupport.SampleDraft(wizard.PlanFree))
	err := newSink(t, url).Finalize(context.Background(), sub)
	var netErr *finalize.NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
}

func TestNewHTTPSink_RequiresConfig(t *testing.T) {
	c, err := contract.Load(context.Background())
	if err != nil {
		t.Fatalf("load contract: %v", err)
	}
	if _, err := finalize.NewHTTPSink("", c); err == nil {
		t.Fatalf("expected error for empty base URL")
	}
	if _, err := finalize.NewHTTPSink("http://backend", nil); err == nil {
		t.Fatalf("expected error for nil contract")
	}
}
