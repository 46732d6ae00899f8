package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-signup/pkg/wizard"
)

// ErrMissingMessage is returned by Translate when no locale in the fallback
// chain defines the key.
var ErrMissingMessage = errors.New("catalog: missing message")

// Catalog is an immutable view over a parsed catalog document. It satisfies
// render.Translator.
type Catalog struct {
	defaultLocale string
	brand         Brand
	links         Links
	plans         []Plan
	icons         map[string]string
	manifest      *theme.Manifest
	messages      map[string]map[string]string

	locales []string
	matcher language.Matcher
}

// Parse builds a catalog from a YAML document. The document must be
// complete: Parse does not fall back to the embedded defaults.
func Parse(data []byte) (*Catalog, error) {
	doc, err := decode(data)
	if err != nil {
		return nil, err
	}
	return build(doc)
}

// Load reads a YAML file and overlays it onto the embedded catalog. Scalars
// replace defaults when set, plans replace the whole list, and icons,
// messages and theme tokens merge key by key.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return Overlay(data)
}

// Overlay merges a YAML document onto the embedded catalog.
func Overlay(data []byte) (*Catalog, error) {
	base, err := decode(embeddedCatalog)
	if err != nil {
		return nil, err
	}
	extra, err := decode(data)
	if err != nil {
		return nil, err
	}
	return build(merge(base, extra))
}

func decode(data []byte) (document, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return document{}, fmt.Errorf("catalog: decode yaml: %w", err)
	}
	return doc, nil
}

func merge(base, extra document) document {
	if v := strings.TrimSpace(extra.DefaultLocale); v != "" {
		base.DefaultLocale = v
	}
	if v := strings.TrimSpace(extra.Brand.Name); v != "" {
		base.Brand.Name = v
	}
	if v := strings.TrimSpace(extra.Brand.Icon); v != "" {
		base.Brand.Icon = v
	}
	if v := strings.TrimSpace(extra.Links.Home); v != "" {
		base.Links.Home = v
	}
	if v := strings.TrimSpace(extra.Links.Login); v != "" {
		base.Links.Login = v
	}
	if v := strings.TrimSpace(extra.Links.Terms); v != "" {
		base.Links.Terms = v
	}
	if len(extra.Plans) > 0 {
		base.Plans = extra.Plans
	}
	base.Icons = mergeStrings(base.Icons, extra.Icons)
	for locale, messages := range extra.Messages {
		if base.Messages == nil {
			base.Messages = make(map[string]map[string]string)
		}
		base.Messages[locale] = mergeStrings(base.Messages[locale], messages)
	}
	if extra.Theme != nil {
		if base.Theme == nil || (extra.Theme.Name != "" && extra.Theme.Name != base.Theme.Name) {
			base.Theme = extra.Theme
		} else {
			base.Theme.Tokens = mergeStrings(base.Theme.Tokens, extra.Theme.Tokens)
			base.Theme.Templates = mergeStrings(base.Theme.Templates, extra.Theme.Templates)
			base.Theme.Assets.Files = mergeStrings(base.Theme.Assets.Files, extra.Theme.Assets.Files)
			if extra.Theme.Assets.Prefix != "" {
				base.Theme.Assets.Prefix = extra.Theme.Assets.Prefix
			}
			for name, variant := range extra.Theme.Variants {
				if base.Theme.Variants == nil {
					base.Theme.Variants = make(map[string]themeVariantDocument)
				}
				base.Theme.Variants[name] = variant
			}
		}
	}
	return base
}

func build(doc document) (*Catalog, error) {
	defaultLocale := strings.TrimSpace(doc.DefaultLocale)
	if defaultLocale == "" {
		return nil, errors.New("catalog: defaultLocale is required")
	}
	if _, ok := doc.Messages[defaultLocale]; !ok {
		return nil, fmt.Errorf("catalog: no messages for default locale %q", defaultLocale)
	}
	if strings.TrimSpace(doc.Brand.Name) == "" {
		return nil, errors.New("catalog: brand.name is required")
	}

	plans := make([]Plan, 0, len(doc.Plans))
	seen := make(map[wizard.Plan]bool, len(doc.Plans))
	for _, plan := range doc.Plans {
		id, ok := wizard.ParsePlan(string(wizard.NormalizePlan(string(plan.ID))))
		if !ok || id == wizard.PlanNone {
			return nil, fmt.Errorf("catalog: %w: %q", wizard.ErrUnknownPlan, plan.ID)
		}
		if seen[id] {
			return nil, fmt.Errorf("catalog: duplicate plan %q", id)
		}
		seen[id] = true
		plan.ID = id
		if strings.TrimSpace(plan.LabelKey) == "" {
			plan.LabelKey = "plan." + string(id)
		}
		plans = append(plans, plan)
	}

	icons := make(map[string]string, len(doc.Icons))
	for name, markup := range doc.Icons {
		if cleaned := sanitizeIconMarkup(markup); cleaned != "" {
			icons[strings.TrimSpace(name)] = cleaned
		}
	}

	locales := make([]string, 0, len(doc.Messages))
	for locale := range doc.Messages {
		if locale != defaultLocale {
			locales = append(locales, locale)
		}
	}
	sort.Strings(locales)
	locales = append([]string{defaultLocale}, locales...)

	tags := make([]language.Tag, 0, len(locales))
	for _, locale := range locales {
		tag, err := language.Parse(locale)
		if err != nil {
			return nil, fmt.Errorf("catalog: invalid locale %q: %w", locale, err)
		}
		tags = append(tags, tag)
	}

	return &Catalog{
		defaultLocale: defaultLocale,
		brand:         doc.Brand,
		links:         doc.Links,
		plans:         plans,
		icons:         icons,
		manifest:      toManifest(doc.Theme),
		messages:      doc.Messages,
		locales:       locales,
		matcher:       language.NewMatcher(tags),
	}, nil
}

func toManifest(doc *themeDocument) *theme.Manifest {
	if doc == nil || strings.TrimSpace(doc.Name) == "" {
		return nil
	}
	manifest := &theme.Manifest{
		Name:      doc.Name,
		Version:   doc.Version,
		Tokens:    mergeStrings(nil, doc.Tokens),
		Templates: mergeStrings(nil, doc.Templates),
		Assets: theme.Assets{
			Prefix: doc.Assets.Prefix,
			Files:  mergeStrings(nil, doc.Assets.Files),
		},
	}
	if len(doc.Variants) > 0 {
		manifest.Variants = make(map[string]theme.Variant, len(doc.Variants))
		for name, variant := range doc.Variants {
			manifest.Variants[name] = theme.Variant{
				Tokens:    mergeStrings(nil, variant.Tokens),
				Templates: mergeStrings(nil, variant.Templates),
				Assets: theme.Assets{
					Prefix: variant.Assets.Prefix,
					Files:  mergeStrings(nil, variant.Assets.Files),
				},
			}
		}
	}
	return manifest
}

func mergeStrings(base, extra map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(extra))
	for key, value := range base {
		out[key] = value
	}
	for key, value := range extra {
		out[key] = value
	}
	return out
}

// DefaultLocale is the locale used when negotiation finds no better match.
func (c *Catalog) DefaultLocale() string { return c.defaultLocale }

// Locales lists the locales with messages, default first.
func (c *Catalog) Locales() []string {
	return append([]string(nil), c.locales...)
}

// Brand returns the product identity.
func (c *Catalog) Brand() Brand { return c.brand }

// Links returns the navigation targets.
func (c *Catalog) Links() Links { return c.links }

// Plans lists the catalog plans in display order.
func (c *Catalog) Plans() []Plan {
	return append([]Plan(nil), c.plans...)
}

// Plan looks up a plan by id.
func (c *Catalog) Plan(id wizard.Plan) (Plan, bool) {
	for _, plan := range c.plans {
		if plan.ID == id {
			return plan, true
		}
	}
	return Plan{}, false
}

// Icon returns sanitized inline SVG markup for name, or "".
func (c *Catalog) Icon(name string) string {
	return c.icons[name]
}

// ThemeManifest returns the go-theme manifest, or nil when the catalog does
// not define one.
func (c *Catalog) ThemeManifest() *theme.Manifest {
	return c.manifest
}

// MatchLocale negotiates an Accept-Language header (or a plain locale) against
// the catalog locales.
func (c *Catalog) MatchLocale(accept ...string) string {
	if len(c.locales) == 0 {
		return c.defaultLocale
	}
	_, index := language.MatchStrings(c.matcher, accept...)
	if index < 0 || index >= len(c.locales) {
		return c.defaultLocale
	}
	return c.locales[index]
}

// Translate resolves key for locale, falling back to the locale's base
// language and then the default locale. Args are applied with fmt verbs.
func (c *Catalog) Translate(locale, key string, args ...any) (string, error) {
	for _, candidate := range c.fallbackChain(locale) {
		msg, ok := c.messages[candidate][key]
		if !ok {
			continue
		}
		if len(args) > 0 && strings.Contains(msg, "%") {
			return fmt.Sprintf(msg, args...), nil
		}
		return msg, nil
	}
	return "", fmt.Errorf("%w: %q (locale %q)", ErrMissingMessage, key, locale)
}

// T is Translate without the error: missing keys render as the key itself.
func (c *Catalog) T(locale, key string, args ...any) string {
	msg, err := c.Translate(locale, key, args...)
	if err != nil {
		return key
	}
	return msg
}

func (c *Catalog) fallbackChain(locale string) []string {
	locale = strings.TrimSpace(locale)
	chain := make([]string, 0, 3)
	if locale != "" {
		chain = append(chain, locale)
		if base, _, found := strings.Cut(strings.ReplaceAll(locale, "_", "-"), "-"); found {
			chain = append(chain, base)
		}
	}
	return append(chain, c.defaultLocale)
}
