package finalize

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-signup/pkg/contract"
)

const maxErrorBody = 1 << 20

// HTTPOption configures an HTTPSink.
type HTTPOption func(*HTTPSink)

// WithHTTPClient overrides the client used for backend calls.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(s *HTTPSink) {
		if client != nil {
			s.client = client
		}
	}
}

// WithSinkLogger attaches a logger for request outcomes.
func WithSinkLogger(logger *zap.Logger) HTTPOption {
	return func(s *HTTPSink) {
		if logger != nil {
			s.logger = logger.Named("finalize.http")
		}
	}
}

// HTTPSink validates submissions against the contract and POSTs them as JSON
// to the backend operation serving the submission kind.
type HTTPSink struct {
	baseURL  string
	contract *contract.Contract
	client   *http.Client
	logger   *zap.Logger
}

// NewHTTPSink returns a sink targeting baseURL.
func NewHTTPSink(baseURL string, c *contract.Contract, opts ...HTTPOption) (*HTTPSink, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("finalize: backend base URL is required")
	}
	if c == nil {
		return nil, errors.New("finalize: contract is required")
	}
	s := &HTTPSink{
		baseURL:  baseURL,
		contract: c,
		client:   &http.Client{Timeout: 10 * time.Second},
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

type errorResponse struct {
	Message string              `json:"message"`
	Reason  string              `json:"reason"`
	Errors  map[string][]string `json:"errors"`
}

// Finalize validates and forwards the submission. Contract violations never
// reach the network.
func (s *HTTPSink) Finalize(ctx context.Context, submission Submission) error {
	opID, ok := contract.OperationFor(submission.Effect)
	if !ok {
		return fmt.Errorf("finalize: no backend operation for %s", submission.Effect)
	}
	op, ok := s.contract.Operation(opID)
	if !ok {
		return fmt.Errorf("finalize: %w: %q", contract.ErrUnknownOperation, opID)
	}
	payload, _ := contract.PayloadFor(submission.Effect, submission.Draft)

	if err := s.contract.Validate(opID, payload); err != nil {
		var violation *contract.ViolationError
		if errors.As(err, &violation) {
			return &ValidationError{Fields: violation.Violations}
		}
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("finalize: encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, op.Method, s.baseURL+op.Path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("finalize: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Idempotency-Key", submission.ID)

	resp, err := s.client.Do(req)
	if err != nil {
		return &NetworkError{Op: opID, Err: err}
	}
	defer resp.Body.Close()

	s.logger.Info("backend responded",
		zap.String("operation", opID),
		zap.String("submission_id", submission.ID),
		zap.Int("status", resp.StatusCode),
	)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	case resp.StatusCode >= 500:
		return &NetworkError{Op: opID, Err: fmt.Errorf("backend status %d", resp.StatusCode)}
	}

	var decoded errorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxErrorBody)).Decode(&decoded); err != nil && !errors.Is(err, io.EOF) {
		s.logger.Warn("undecodable error body", zap.String("operation", opID), zap.Error(err))
	}

	switch resp.StatusCode {
	case http.StatusUnprocessableEntity:
		verr := &ValidationError{Fields: decoded.Errors}
		if decoded.Message != "" {
			verr.Form = []string{decoded.Message}
		}
		return verr
	case http.StatusPaymentRequired:
		reason := decoded.Reason
		if reason == "" {
			reason = decoded.Message
		}
		return &PaymentDeclinedError{Reason: reason}
	default:
		return fmt.Errorf("finalize: %s: unexpected status %d", opID, resp.StatusCode)
	}
}
