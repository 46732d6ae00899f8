package config

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zapcore"
)

func TestLoadFromDefaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Config{
		Addr:            ":8080",
		RoutePath:       "/signup",
		BackendTimeout:  10 * time.Second,
		SessionTTL:      30 * time.Minute,
		SweepInterval:   time.Minute,
		ShutdownTimeout: 10 * time.Second,
		LogLevel:        "info",
		LogFormat:       "json",
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFromOverrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"SIGNUP_ADDR":          "127.0.0.1:9000",
		"SIGNUP_BASE_PATH":     "/app",
		"SIGNUP_BACKEND_URL":   "https://api.example.com",
		"SIGNUP_SESSION_TTL":   "5m",
		"SIGNUP_SECURE_COOKIE": "true",
		"SIGNUP_LOG_LEVEL":     "debug",
		"SIGNUP_THEME_VARIANT": "dark",
		"SIGNUP_TEMPLATE_DIR":  "/srv/templates",
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != "127.0.0.1:9000" || cfg.BasePath != "/app" || cfg.ThemeVariant != "dark" || cfg.TemplateDir != "/srv/templates" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.SessionTTL != 5*time.Minute || !cfg.SecureCookie {
		t.Fatalf("unexpected session settings %+v", cfg)
	}
	if level, _ := cfg.Level(); level != zapcore.DebugLevel {
		t.Fatalf("level = %s", level)
	}
}

func TestLoadFromErrors(t *testing.T) {
	cases := []struct {
		name string
		vars map[string]string
		want string
	}{
		{"bad duration", map[string]string{"SIGNUP_SESSION_TTL": "soon"}, "config: parse env:"},
		{"negative ttl", map[string]string{"SIGNUP_SESSION_TTL": "-1m"}, "SIGNUP_SESSION_TTL must be positive"},
		{"relative backend", map[string]string{"SIGNUP_BACKEND_URL": "/api"}, "SIGNUP_BACKEND_URL"},
		{"bad level", map[string]string{"SIGNUP_LOG_LEVEL": "loud"}, "SIGNUP_LOG_LEVEL"},
		{"bad format", map[string]string{"SIGNUP_LOG_FORMAT": "xml"}, "SIGNUP_LOG_FORMAT"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadFrom(tc.vars)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}
