package render

import theme "github.com/goliatone/go-theme"

// RenderOptions describe per-request data that renderers can use to customise
// their output without mutating the form model pipeline.
type RenderOptions struct {
	// Values pre-populates rendered controls keyed by field name. Renderers
	// fall back to the field's own Value when a key is missing.
	Values map[string]any
	// Errors surfaces server-side feedback keyed by field name.
	Errors map[string][]string
	// FormErrors carries messages that do not belong to a single field.
	FormErrors []string
	// HiddenFields are emitted as hidden inputs (CSRF token, ...).
	HiddenFields map[string]string
	// Locale selects the language used for chrome strings.
	Locale string
	// Translator resolves message keys for Locale.
	Translator Translator
	// OnMissing decides what to show for keys the translator cannot resolve.
	OnMissing MissingTranslationHandler
	// Theme carries resolved go-theme tokens and asset resolution.
	Theme *theme.RendererConfig
	// Stylesheets are extra stylesheet URLs linked from the page head.
	Stylesheets []string
	// Scripts are deferred script URLs. A page with scripts keeps its submit
	// control enabled in markup and lets the script apply the gate.
	Scripts []string
}
