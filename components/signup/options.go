package signup

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-signup/pkg/catalog"
	"github.com/goliatone/go-signup/pkg/finalize"
	"github.com/goliatone/go-signup/pkg/render"
	"github.com/goliatone/go-signup/pkg/session"
)

const (
	defaultRoutePath    = "/signup"
	defaultCookieName   = "signup_session"
	defaultMaxBodyBytes = 64 << 10
)

type GuardFunc func(r *http.Request) error

type Options struct {
	RoutePath    string
	CookieName   string
	SecureCookie bool
	MaxBodyBytes int64
	ThemeVariant string
	Guard        GuardFunc

	Catalog  *catalog.Catalog
	Renderer render.Renderer
	Store    *session.Store
	Sink     finalize.Sink
	Logger   *zap.Logger
	// FinalizeTimeout bounds each sink call; zero keeps the request context.
	FinalizeTimeout time.Duration
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		RoutePath:    defaultRoutePath,
		CookieName:   defaultCookieName,
		MaxBodyBytes: defaultMaxBodyBytes,
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.RoutePath == "" {
		opts.RoutePath = defaultRoutePath
	}
	if opts.CookieName == "" {
		opts.CookieName = defaultCookieName
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}
	if opts.Catalog == nil {
		opts.Catalog = catalog.Default()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Store == nil {
		opts.Store = session.NewStore(session.WithLogger(opts.Logger))
	}
	if opts.Sink == nil {
		opts.Sink = finalize.NewLogSink(opts.Logger)
	}
	return opts
}

func WithRoutePath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RoutePath = path
	}
}

func WithCookieName(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.CookieName = name
	}
}

func WithSecureCookie(secure bool) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.SecureCookie = secure
	}
}

func WithMaxBodyBytes(limit int64) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MaxBodyBytes = limit
	}
}

func WithThemeVariant(variant string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.ThemeVariant = variant
	}
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Guard = guard
	}
}

func WithCatalog(cat *catalog.Catalog) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Catalog = cat
	}
}

func WithRenderer(renderer render.Renderer) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Renderer = renderer
	}
}

func WithStore(store *session.Store) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Store = store
	}
}

func WithSink(sink finalize.Sink) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Sink = sink
	}
}

func WithLogger(logger *zap.Logger) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Logger = logger
	}
}

func WithFinalizeTimeout(timeout time.Duration) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.FinalizeTimeout = timeout
	}
}
