// Package signup wires the catalog, session store, submission sink and front
// ends of the Quick Med sign-up flow behind one entry point.
package signup

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	component "github.com/goliatone/go-signup/components/signup"
	"github.com/goliatone/go-signup/pkg/catalog"
	"github.com/goliatone/go-signup/pkg/contract"
	"github.com/goliatone/go-signup/pkg/finalize"
	"github.com/goliatone/go-signup/pkg/render"
	"github.com/goliatone/go-signup/pkg/renderers/tui"
	"github.com/goliatone/go-signup/pkg/renderers/vanilla"
	"github.com/goliatone/go-signup/pkg/session"
	"github.com/goliatone/go-signup/pkg/view"
)

// RenderOptions describes per-request overrides that renderers can use to
// prefill values or surface server-side validation errors.
type RenderOptions = render.RenderOptions

// Submission is the record handed to a Sink once the flow finalizes.
type Submission = finalize.Submission

// Sink receives finalized submissions.
type Sink = finalize.Sink

// Option configures a Service.
type Option func(*Service)

// WithCatalog replaces the embedded catalog.
func WithCatalog(cat *catalog.Catalog) Option {
	return func(s *Service) {
		if cat != nil {
			s.catalog = cat
		}
	}
}

// WithSink replaces the default log sink.
func WithSink(sink Sink) Option {
	return func(s *Service) {
		if sink != nil {
			s.sink = sink
		}
	}
}

// WithLogger attaches a logger shared by every part of the service.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSessionTTL sets the idle lifetime of HTTP sessions.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) { s.sessionTTL = ttl }
}

// WithSweepInterval sets how often expired sessions are evicted.
func WithSweepInterval(interval time.Duration) Option {
	return func(s *Service) { s.sweepEvery = interval }
}

// WithRenderer registers an extra page renderer. Select it with
// WithRendererName.
func WithRenderer(renderer render.Renderer) Option {
	return func(s *Service) {
		if renderer != nil {
			s.extraRenderers = append(s.extraRenderers, renderer)
		}
	}
}

// WithRendererName selects the registered renderer serving HTTP pages.
func WithRendererName(name string) Option {
	return func(s *Service) { s.rendererName = name }
}

// WithTemplateDir layers page template overrides from dir over the bundled
// templates.
func WithTemplateDir(dir string) Option {
	return func(s *Service) { s.templateDir = dir }
}

// WithComponentOptions forwards options to the HTTP component.
func WithComponentOptions(fns ...component.OptionFn) Option {
	return func(s *Service) {
		s.componentOpts = append(s.componentOpts, fns...)
	}
}

// Service owns the shared pieces both front ends use.
type Service struct {
	catalog       *catalog.Catalog
	sink          Sink
	logger        *zap.Logger
	sessionTTL    time.Duration
	sweepEvery    time.Duration
	componentOpts []component.OptionFn

	extraRenderers []render.Renderer
	rendererName   string
	templateDir    string

	store     *session.Store
	renderers *render.Registry
}

// New builds a service. Without options it uses the embedded catalog, an
// in-memory session store, a log sink and the vanilla page renderer.
func New(opts ...Option) (*Service, error) {
	s := &Service{
		catalog: catalog.Default(),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.sink == nil {
		s.sink = finalize.NewLogSink(s.logger)
	}
	s.store = session.NewStore(
		session.WithTTL(s.sessionTTL),
		session.WithSweepInterval(s.sweepEvery),
		session.WithLogger(s.logger),
	)

	s.renderers = render.NewRegistry()
	page, err := vanilla.New(
		vanilla.WithTranslator(s.catalog),
		vanilla.WithIcons(s.catalog),
		vanilla.WithTemplatesDir(s.templateDir),
	)
	if err != nil {
		return nil, fmt.Errorf("signup: build page renderer: %w", err)
	}
	if err := s.renderers.Register(page); err != nil {
		return nil, err
	}
	for _, r := range s.extraRenderers {
		if err := s.renderers.Register(r); err != nil {
			return nil, fmt.Errorf("signup: %w", err)
		}
	}
	if _, err := s.renderers.Resolve(s.rendererName); err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}
	return s, nil
}

// Catalog exposes the copy and plan catalog in use.
func (s *Service) Catalog() *catalog.Catalog { return s.catalog }

// Renderers lists the registered page renderers.
func (s *Service) Renderers() []string { return s.renderers.List() }

// Store exposes the session store backing the HTTP front end.
func (s *Service) Store() *session.Store { return s.store }

// RegisterRoutes mounts the HTTP front end under basePath.
func (s *Service) RegisterRoutes(mux component.Mux, basePath string) ([]string, error) {
	page, err := s.renderers.Resolve(s.rendererName)
	if err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}
	fns := append([]component.OptionFn{
		component.WithRenderer(page),
		component.WithCatalog(s.catalog),
		component.WithStore(s.store),
		component.WithSink(s.sink),
		component.WithLogger(s.logger),
	}, s.componentOpts...)
	return component.RegisterRoutes(mux, basePath, fns...)
}

// Handler returns a mux with the HTTP front end mounted under basePath.
func (s *Service) Handler(basePath string) (http.Handler, error) {
	mux := http.NewServeMux()
	if _, err := s.RegisterRoutes(mux, basePath); err != nil {
		return nil, err
	}
	return mux, nil
}

// RunSweeper evicts expired sessions until ctx is cancelled.
func (s *Service) RunSweeper(ctx context.Context) error {
	return s.store.Run(ctx)
}

// Prompt runs the terminal front end to completion.
func (s *Service) Prompt(ctx context.Context, locale string, opts ...tui.Option) (Submission, error) {
	runner := tui.NewRunner(
		view.NewBuilder(s.catalog),
		tui.New(opts...),
		s.sink,
		tui.WithLocale(locale),
		tui.WithLogger(s.logger),
	)
	return runner.Run(ctx)
}

// NewBackendSink returns an HTTP sink validating against the embedded
// contract, or a log sink when backendURL is empty.
func NewBackendSink(ctx context.Context, backendURL string, timeout time.Duration, logger *zap.Logger) (Sink, error) {
	if backendURL == "" {
		return finalize.NewLogSink(logger), nil
	}
	c, err := contract.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("signup: load contract: %w", err)
	}
	opts := []finalize.HTTPOption{finalize.WithSinkLogger(logger)}
	if timeout > 0 {
		opts = append(opts, finalize.WithHTTPClient(&http.Client{Timeout: timeout}))
	}
	return finalize.NewHTTPSink(backendURL, c, opts...)
}
