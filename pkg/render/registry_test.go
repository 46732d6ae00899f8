package render_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-signup/pkg/model"
	"github.com/goliatone/go-signup/pkg/render"
)

type namedRenderer string

func (n namedRenderer) Name() string        { return string(n) }
func (n namedRenderer) ContentType() string { return "text/plain" }
func (n namedRenderer) Render(context.Context, model.FormModel, render.RenderOptions) ([]byte, error) {
	return []byte(n), nil
}

func TestRegistry_RegisterResolveAndDefault(t *testing.T) {
	registry := render.NewRegistry()

	if _, err := registry.Resolve(""); err == nil {
		t.Fatalf("expected error resolving from empty registry")
	}

	registry.MustRegister(namedRenderer("vanilla"))
	registry.MustRegister(namedRenderer("tui"))

	if err := registry.Register(namedRenderer("vanilla")); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if err := registry.Register(namedRenderer(" ")); err == nil {
		t.Fatalf("expected empty name error")
	}

	got, err := registry.Resolve("")
	if err != nil {
		t.Fatalf("resolve default: %v", err)
	}
	if got.Name() != "vanilla" {
		t.Fatalf("expected first registered renderer as default, got %q", got.Name())
	}

	if err := registry.SetDefault("tui"); err != nil {
		t.Fatalf("set default: %v", err)
	}
	if got, _ := registry.Resolve(""); got.Name() != "tui" {
		t.Fatalf("expected tui default, got %q", got.Name())
	}
	if err := registry.SetDefault("preact"); err == nil {
		t.Fatalf("expected error for unknown default")
	}

	if diff := cmp.Diff([]string{"tui", "vanilla"}, registry.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
	if !registry.Has("tui") || registry.Has("preact") {
		t.Fatalf("unexpected Has results")
	}
}
