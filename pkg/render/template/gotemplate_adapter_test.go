package template_test

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-signup/pkg/render/template/gotemplate"
	"github.com/goliatone/go-signup/pkg/testsupport"
)

//go:embed testdata/templates/*.tmpl
var embeddedTemplates embed.FS

func TestEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, w)
	})
	assertGolden(t, "hello.golden", result, written)
}

func TestEngine_GlobalContext(t *testing.T) {
	engine := newEngine(t)
	if err := engine.GlobalContext(map[string]any{
		"settings": map[string]any{"env": "staging"},
	}); err != nil {
		t.Fatalf("global context: %v", err)
	}

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("use-global", nil, w)
	})
	assertGolden(t, "use-global.golden", result, written)
}

func TestEngine_RegisterFilter(t *testing.T) {
	engine := newEngine(t)
	err := engine.RegisterFilter("shout", func(input any, _ any) (any, error) {
		if input == nil {
			return "", nil
		}
		return fmt.Sprintf("%s!", strings.ToUpper(fmt.Sprint(input))), nil
	})
	if err != nil {
		t.Fatalf("register filter: %v", err)
	}

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("use-filter", map[string]any{"name": "Ada"}, w)
	})
	assertGolden(t, "use-filter.golden", result, written)

	if err := engine.RegisterFilter("shout", func(input any, _ any) (any, error) { return input, nil }); err == nil {
		t.Fatalf("expected duplicate filter registration to fail")
	}
}

func TestEngine_RenderStringUsesJSONNames(t *testing.T) {
	engine := newEngine(t)

	type plan struct {
		ID    string `json:"id"`
		Label string `json:"label"`
	}
	data := map[string]any{"plan": plan{ID: "premium", Label: "Premium"}}

	got, err := engine.Render("{{ plan.label }} ({{ plan.id }})", data)
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if got != "Premium (premium)" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngine_FieldIDFilter(t *testing.T) {
	engine := newEngine(t)

	got, err := engine.RenderString("{{ name|field_id }}|{{ blank|field_id }}", map[string]any{
		"name":  "card.number",
		"blank": "",
	})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if got != "fg-card-number|" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngine_TemplateFuncGlobals(t *testing.T) {
	templatesFS, err := fs.Sub(embeddedTemplates, "testdata/templates")
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}
	engine, err := gotemplate.New(
		gotemplate.WithFS(templatesFS),
		gotemplate.WithTemplateFunc(map[string]any{
			"greet": func(name string) string { return "hi " + name },
		}),
	)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	got, err := engine.RenderString(`{{ greet("Ada") }}`, nil)
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if got != "hi Ada" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestNew_RequiresSource(t *testing.T) {
	if _, err := gotemplate.New(); err == nil {
		t.Fatalf("expected error without base dir or fs")
	}
}

func TestEngine_MissingTemplate(t *testing.T) {
	engine := newEngine(t)
	if _, err := engine.RenderTemplate("nope", nil); err == nil {
		t.Fatalf("expected error for missing template")
	}
}

func assertGolden(t *testing.T, name, result, written string) {
	t.Helper()
	path := filepath.Join("testdata", name)
	if testsupport.WriteMaybeGolden(t, path, []byte(result)) {
		return
	}
	want := testsupport.MustReadGoldenString(t, path)
	if result != want {
		t.Fatalf("render template mismatch result\nwant: %q\n got: %q", want, result)
	}
	if written != want {
		t.Fatalf("render template mismatch writer\nwant: %q\n got: %q", want, written)
	}
}

func newEngine(t *testing.T) *gotemplate.Engine {
	t.Helper()

	templatesFS, err := fs.Sub(embeddedTemplates, "testdata/templates")
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}

	engine, err := gotemplate.New(gotemplate.WithFS(templatesFS))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}
