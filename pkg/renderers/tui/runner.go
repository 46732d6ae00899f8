package tui

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-signup/pkg/finalize"
	"github.com/goliatone/go-signup/pkg/render"
	"github.com/goliatone/go-signup/pkg/view"
	"github.com/goliatone/go-signup/pkg/wizard"
)

const defaultMaxAttempts = 5

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLocale selects the message locale (the catalog default when empty).
func WithLocale(locale string) RunnerOption {
	return func(r *Runner) {
		if locale != "" {
			r.locale = locale
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) RunnerOption {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger.Named("tui")
		}
	}
}

// WithMaxAttempts caps consecutive failed submits before giving up.
func WithMaxAttempts(n int) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.maxAttempts = n
		}
	}
}

// Runner drives the wizard from a terminal: it renders the active view as
// prompts, feeds the answers to the reducer and hands finalized drafts to
// the sink.
type Runner struct {
	builder     *view.Builder
	renderer    *Renderer
	sink        finalize.Sink
	logger      *zap.Logger
	locale      string
	maxAttempts int
}

// NewRunner wires a runner. A nil sink falls back to a log sink.
func NewRunner(builder *view.Builder, renderer *Renderer, sink finalize.Sink, opts ...RunnerOption) *Runner {
	if builder == nil {
		builder = view.NewBuilder(nil)
	}
	if renderer == nil {
		renderer = New()
	}
	r := &Runner{
		builder:     builder,
		renderer:    renderer,
		logger:      zap.NewNop(),
		locale:      builder.Catalog().DefaultLocale(),
		maxAttempts: defaultMaxAttempts,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	if sink == nil {
		sink = finalize.NewLogSink(r.logger)
	}
	r.sink = sink
	return r
}

// Run walks the flow until a submission is finalized, the context ends or
// the prompt is aborted.
func (r *Runner) Run(ctx context.Context) (finalize.Submission, error) {
	state := wizard.NewState()
	var feedback view.Feedback
	failures := 0

	for {
		if err := ctx.Err(); err != nil {
			return finalize.Submission{}, err
		}
		if failures >= r.maxAttempts {
			return finalize.Submission{}, ErrTooManyAttempts
		}

		form, err := r.builder.Build(state, r.locale)
		if err != nil {
			return finalize.Submission{}, err
		}

		answers, err := r.renderer.Collect(ctx, form, render.RenderOptions{
			Locale:     r.locale,
			Errors:     feedback.Fields,
			FormErrors: feedback.Form,
		})
		if err != nil {
			return finalize.Submission{}, err
		}

		events := wizard.EventsForView(wizard.SelectView(state), stringAnswers(answers))
		filled, _, err := wizard.ReduceAll(state, events...)
		if err != nil {
			feedback = r.builder.Feedback(form, err, r.locale)
			failures++
			continue
		}
		state = filled

		next, effect, err := wizard.Reduce(state, wizard.Submit{})
		if err != nil {
			r.logger.Debug("submit rejected", zap.Error(err))
			feedback = r.builder.Feedback(form, err, r.locale)
			failures++
			continue
		}
		state = next
		feedback = view.Feedback{}

		switch {
		case effect == wizard.EffectAdvance:
			r.logger.Debug("advanced", zap.String("step", state.Step.String()))
			failures = 0
			continue

		case effect.Finalizes():
			submission, err := finalize.NewSubmission(effect, state)
			if err != nil {
				return finalize.Submission{}, err
			}
			if err := r.sink.Finalize(ctx, submission); err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return finalize.Submission{}, err
				}
				r.logger.Warn("finalize failed", zap.String("submission_id", submission.ID), zap.Error(err))
				feedback = r.builder.Feedback(form, err, r.locale)
				failures++
				continue
			}
			if err := r.complete(ctx, effect, state); err != nil {
				return submission, err
			}
			return submission, nil

		default:
			return finalize.Submission{}, fmt.Errorf("tui: unexpected effect %s", effect)
		}
	}
}

func (r *Runner) complete(ctx context.Context, effect wizard.Effect, state wizard.State) error {
	done, err := r.builder.Completion(effect, state, r.locale)
	if err != nil {
		return err
	}
	if title := done.Hint(view.HintTitle); title != "" {
		if err := r.renderer.driver.Info(ctx, r.renderer.theme.TitlePrefix+title); err != nil {
			return err
		}
	}
	return r.renderer.Message(ctx, done.Hint(view.HintSubtitle))
}

func stringAnswers(answers map[string]any) map[string]string {
	out := make(map[string]string, len(answers))
	for key, value := range answers {
		out[key] = stringValue(value)
	}
	return out
}
