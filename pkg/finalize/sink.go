package finalize

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/goliatone/go-signup/pkg/wizard"
)

// Sink receives finalized submissions.
type Sink interface {
	Finalize(ctx context.Context, submission Submission) error
}

// SinkFunc adapts a function into a Sink.
type SinkFunc func(ctx context.Context, submission Submission) error

// Finalize calls the underlying function.
func (fn SinkFunc) Finalize(ctx context.Context, submission Submission) error {
	return fn(ctx, submission)
}

// LogSink records submissions as structured log entries. It never fails.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink returns a sink writing to logger (a no-op logger when nil).
func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger.Named("finalize")}
}

// Finalize logs the redacted submission. Diagnostics are logged at warn level.
func (s *LogSink) Finalize(ctx context.Context, submission Submission) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fields := []zap.Field{
		zap.String("submission_id", submission.ID),
		zap.String("kind", string(submission.Kind)),
		zap.String("plan", string(submission.Draft.Plan)),
		zap.Object("draft", redactedDraft(submission.Draft.Redacted())),
	}
	s.logger.Info("signup finalized", fields...)

	if len(submission.Diagnostics) > 0 {
		names := make([]string, 0, len(submission.Diagnostics))
		for _, d := range submission.Diagnostics {
			names = append(names, string(d))
		}
		s.logger.Warn("signup diagnostics",
			zap.String("submission_id", submission.ID),
			zap.Strings("diagnostics", names),
		)
	}
	return nil
}

type redactedDraft wizard.Draft

func (d redactedDraft) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("firstName", d.FirstName)
	enc.AddString("lastName", d.LastName)
	enc.AddString("email", d.Email)
	enc.AddString("password", d.Password)
	enc.AddString("confirmPassword", d.ConfirmPassword)
	enc.AddString("plan", string(d.Plan))
	enc.AddBool("agreeTerms", d.AgreeTerms)
	enc.AddString("cardNumber", d.CardNumber)
	enc.AddString("cardExpiry", d.CardExpiry)
	enc.AddString("cardCVC", d.CardCVC)
	return nil
}
