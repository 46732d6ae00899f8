package render

import (
	"path"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// ThemeConfig flattens a go-theme manifest plus an optional variant into the
// renderer configuration consumed through RenderOptions.Theme. Variant tokens,
// templates and asset files override the base manifest; every token is also
// exposed as a `--name` CSS variable.
func ThemeConfig(manifest *theme.Manifest, variant string) *theme.RendererConfig {
	if manifest == nil {
		return nil
	}

	tokens := copyStrings(manifest.Tokens)
	partials := copyStrings(manifest.Templates)
	files := copyStrings(manifest.Assets.Files)
	prefix := manifest.Assets.Prefix

	variant = strings.TrimSpace(variant)
	if v, ok := manifest.Variants[variant]; ok && variant != "" {
		tokens = overlay(tokens, v.Tokens)
		partials = overlay(partials, v.Templates)
		files = overlay(files, v.Assets.Files)
		if strings.TrimSpace(v.Assets.Prefix) != "" {
			prefix = v.Assets.Prefix
		}
	} else {
		variant = ""
	}

	cssVars := make(map[string]string, len(tokens))
	for name, value := range tokens {
		cssVars["--"+name] = value
	}

	return &theme.RendererConfig{
		Theme:    manifest.Name,
		Variant:  variant,
		Tokens:   tokens,
		Partials: partials,
		CSSVars:  cssVars,
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok || file == "" {
				return ""
			}
			if strings.HasPrefix(file, "/") || strings.Contains(file, "://") {
				return file
			}
			return path.Join("/", prefix, file)
		},
	}
}

// CSSVarsStyle renders the theme CSS variables as a deterministic inline
// style declaration, e.g. "--brand: #2563eb; --surface: #f3f4f6".
func CSSVarsStyle(cfg *theme.RendererConfig) string {
	if cfg == nil || len(cfg.CSSVars) == 0 {
		return ""
	}
	names := make([]string, 0, len(cfg.CSSVars))
	for name := range cfg.CSSVars {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+cfg.CSSVars[name])
	}
	return strings.Join(parts, "; ")
}

func copyStrings(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

func overlay(base, extra map[string]string) map[string]string {
	for key, value := range extra {
		base[key] = value
	}
	return base
}
