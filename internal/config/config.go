// Package config reads the sign-up service settings from SIGNUP_* environment
// variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap/zapcore"
)

// Config holds process settings. Command-line flags override these values.
type Config struct {
	Addr            string        `env:"SIGNUP_ADDR"             envDefault:":8080"`
	BasePath        string        `env:"SIGNUP_BASE_PATH"        envDefault:""`
	RoutePath       string        `env:"SIGNUP_ROUTE_PATH"       envDefault:"/signup"`
	Locale          string        `env:"SIGNUP_LOCALE"           envDefault:""`
	ThemeVariant    string        `env:"SIGNUP_THEME_VARIANT"    envDefault:""`
	CatalogPath     string        `env:"SIGNUP_CATALOG_PATH"     envDefault:""`
	TemplateDir     string        `env:"SIGNUP_TEMPLATE_DIR"     envDefault:""`
	BackendURL      string        `env:"SIGNUP_BACKEND_URL"      envDefault:""`
	BackendTimeout  time.Duration `env:"SIGNUP_BACKEND_TIMEOUT"  envDefault:"10s"`
	SessionTTL      time.Duration `env:"SIGNUP_SESSION_TTL"      envDefault:"30m"`
	SweepInterval   time.Duration `env:"SIGNUP_SWEEP_INTERVAL"   envDefault:"1m"`
	SecureCookie    bool          `env:"SIGNUP_SECURE_COOKIE"    envDefault:"false"`
	ShutdownTimeout time.Duration `env:"SIGNUP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	LogLevel        string        `env:"SIGNUP_LOG_LEVEL"        envDefault:"info"`
	LogFormat       string        `env:"SIGNUP_LOG_FORMAT"       envDefault:"json"`
}

// Load parses the process environment.
func Load() (Config, error) {
	return parse(env.Options{})
}

// LoadFrom parses the supplied variables instead of the process environment.
func LoadFrom(vars map[string]string) (Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that parse but cannot be used.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("config: SIGNUP_ADDR is empty"))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("config: SIGNUP_SESSION_TTL must be positive"))
	}
	if c.SweepInterval <= 0 {
		errs = append(errs, errors.New("config: SIGNUP_SWEEP_INTERVAL must be positive"))
	}
	if c.BackendURL != "" {
		u, err := url.Parse(c.BackendURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("config: SIGNUP_BACKEND_URL %q is not an absolute URL", c.BackendURL))
		}
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("config: SIGNUP_LOG_FORMAT %q must be json or console", c.LogFormat))
	}
	return errors.Join(errs...)
}

// Level parses LogLevel.
func (c Config) Level() (zapcore.Level, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("config: SIGNUP_LOG_LEVEL: %w", err)
	}
	return level, nil
}
