package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"strings"

	"github.com/goliatone/go-signup/pkg/model"
	"github.com/goliatone/go-signup/pkg/render"
	rendertemplate "github.com/goliatone/go-signup/pkg/render/template"
	gotemplate "github.com/goliatone/go-signup/pkg/render/template/gotemplate"
)

const pageTemplate = "templates/page.tmpl"

// IconSource resolves icon names to sanitized inline markup.
type IconSource interface {
	Icon(name string) string
}

type Option func(*config)

type config struct {
	templateFS       fs.FS
	overrideDir      string
	templateRenderer rendertemplate.TemplateRenderer
	translator       render.Translator
	icons            IconSource
	stylesheets      []string
	inlineDefaults   bool
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir layers a directory on disk over the template bundle. A
// file at dir/templates/page.tmpl replaces the bundled page.
func WithTemplatesDir(dir string) Option {
	return func(cfg *config) {
		cfg.overrideDir = strings.TrimSpace(dir)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithTranslator exposes `translate(locale, key)` to templates. Options passed
// to Render without a Translator fall back to this one.
func WithTranslator(t render.Translator) Option {
	return func(cfg *config) {
		cfg.translator = t
	}
}

// WithIcons resolves the brand and footer icon hints into inline markup.
func WithIcons(icons IconSource) Option {
	return func(cfg *config) {
		cfg.icons = icons
	}
}

// WithStylesheet links an external stylesheet from the page head.
func WithStylesheet(href string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(href); trimmed != "" {
			cfg.stylesheets = append(cfg.stylesheets, trimmed)
		}
	}
}

// WithDefaultStyles inlines the bundled stylesheet into the page.
func WithDefaultStyles() Option {
	return func(cfg *config) {
		cfg.inlineDefaults = true
	}
}

// Renderer produces the full sign-up HTML page for a form model.
type Renderer struct {
	templates   rendertemplate.TemplateRenderer
	translator  render.Translator
	icons       IconSource
	stylesheets []string
	inlineCSS   string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithBaseDir(cfg.overrideDir),
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
			gotemplate.WithTemplateFunc(render.TemplateI18nFuncs(cfg.translator, render.TemplateI18nConfig{
				OnMissing: templateMissingTranslation,
			})),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	r := &Renderer{
		templates:   renderer,
		translator:  cfg.translator,
		icons:       cfg.icons,
		stylesheets: cfg.stylesheets,
	}
	if cfg.inlineDefaults {
		r.inlineCSS = defaultStylesheet()
	}
	return r, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render localizes the model for options.Locale and executes the page
// template. The form model passed in is not mutated.
func (r *Renderer) Render(_ context.Context, form model.FormModel, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	if options.Translator == nil {
		options.Translator = r.translator
	}
	form = cloneForm(form)
	if options.Translator != nil {
		render.LocalizeFormModel(&form, options)
	}

	result, err := r.templates.RenderTemplate(pageTemplate, r.pageData(form, options))
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func (r *Renderer) pageData(form model.FormModel, options render.RenderOptions) map[string]any {
	fields := make([]fieldView, 0, len(form.Fields))
	for _, field := range form.Fields {
		fields = append(fields, buildFieldView(field, options))
	}

	hidden := make([]map[string]any, 0, len(options.HiddenFields))
	for _, field := range render.SortedHiddenFields(options.HiddenFields) {
		hidden = append(hidden, map[string]any{"name": field.Name, "value": field.Value})
	}

	stylesheets := append([]string(nil), r.stylesheets...)
	stylesheets = append(stylesheets, options.Stylesheets...)

	themeData := map[string]any{}
	if options.Theme != nil {
		themeData["name"] = options.Theme.Theme
		themeData["variant"] = options.Theme.Variant
		themeData["style"] = render.CSSVarsStyle(options.Theme)
		if options.Theme.AssetURL != nil {
			if href := options.Theme.AssetURL("stylesheet"); href != "" {
				stylesheets = append(stylesheets, href)
			}
		}
	}

	locale := options.Locale
	if locale == "" {
		locale = form.Metadata["locale"]
	}

	scripts := append([]string(nil), options.Scripts...)
	events := form.Hint("events.href")

	return map[string]any{
		"locale":      locale,
		"form":        map[string]any{"id": form.ID, "endpoint": form.Endpoint, "method": form.Method, "events": events},
		"live":        len(scripts) > 0 && events != "",
		"scripts":     scripts,
		"page":        r.chrome(form),
		"rows":        groupRows(fields),
		"hidden":      hidden,
		"form_errors": options.FormErrors,
		"theme":       themeData,
		"stylesheets": stylesheets,
		"inline_css":  r.inlineCSS,
	}
}

func (r *Renderer) chrome(form model.FormModel) map[string]any {
	return map[string]any{
		"view":       form.Hint("layout.view"),
		"step":       form.Hint("layout.step"),
		"title":      form.Hint("layout.title"),
		"subtitle":   form.Hint("layout.subtitle"),
		"brand":      form.Hint("brand.name"),
		"brand_icon": r.icon(form.Hint("brand.icon")),
		"back_icon":  r.icon("arrow-left"),
		"home_href":  form.Hint("nav.homeHref"),
		"home_label": form.Hint("nav.homeLabel"),
		"copyright":  form.Hint("footer.copyright"),
		"submit": map[string]any{
			"action":   form.Hint("submit.action"),
			"label":    form.Hint("submit.label"),
			"disabled": form.Hint("submit.disabled") == "true",
		},
		"footer": map[string]any{
			"note": form.Hint("footer.note"),
			"link": form.Hint("footer.link"),
			"href": form.Hint("footer.linkHref"),
			"icon": r.icon(form.Hint("footer.icon")),
		},
	}
}

func (r *Renderer) icon(name string) string {
	if r.icons == nil || strings.TrimSpace(name) == "" {
		return ""
	}
	return r.icons.Icon(name)
}

func cloneForm(form model.FormModel) model.FormModel {
	out := form
	out.UIHints = cloneStringMap(form.UIHints)
	out.Metadata = cloneStringMap(form.Metadata)
	out.Fields = make([]model.Field, len(form.Fields))
	for i, field := range form.Fields {
		field.UIHints = cloneStringMap(field.UIHints)
		field.Options = append([]model.Option(nil), field.Options...)
		out.Fields[i] = field
	}
	return out
}

func cloneStringMap(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

// templateMissingTranslation keeps pages readable without a translator by
// showing the last key segment instead of the full key.
func templateMissingTranslation(_ string, key string, _ []any, _ error) string {
	if idx := strings.LastIndex(key, "."); idx >= 0 && idx < len(key)-1 {
		return strings.ReplaceAll(key[idx+1:], "_", " ")
	}
	return key
}
