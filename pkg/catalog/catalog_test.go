package catalog_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-signup/pkg/catalog"
	"github.com/goliatone/go-signup/pkg/wizard"
)

func TestDefault_CarriesProductCopy(t *testing.T) {
	cat := catalog.Default()

	if got := cat.Brand().Name; got != "Quick Med" {
		t.Fatalf("brand = %q", got)
	}
	wantLinks := catalog.Links{Home: "/", Login: "/login", Terms: "#"}
	if diff := cmp.Diff(wantLinks, cat.Links()); diff != "" {
		t.Fatalf("links mismatch (-want +got):\n%s", diff)
	}

	var ids []wizard.Plan
	for _, plan := range cat.Plans() {
		ids = append(ids, plan.ID)
	}
	if diff := cmp.Diff(wizard.Plans(), ids); diff != "" {
		t.Fatalf("plan order mismatch (-want +got):\n%s", diff)
	}

	labels := map[string]string{
		"plan.free":     "Free Starter Plan",
		"plan.premium":  "Premium Plan ($10/month)",
		"plan.ultimate": "Ultimate Health Plan ($30/month)",
		"account.title": "Create your account",
		"payment.title": "Payment Information",
	}
	for key, want := range labels {
		if got := cat.T("en", key); got != want {
			t.Fatalf("T(en, %q) = %q, want %q", key, got, want)
		}
	}
}

func TestDefault_LocalesShareKeys(t *testing.T) {
	cat := catalog.Default()
	if diff := cmp.Diff([]string{"en", "es"}, cat.Locales()); diff != "" {
		t.Fatalf("locales mismatch (-want +got):\n%s", diff)
	}
	// Spanish overrides the english copy.
	en, es := cat.T("en", "account.title"), cat.T("es", "account.title")
	if en == es {
		t.Fatalf("expected spanish copy, got %q", es)
	}
}

func TestPlan_Lookup(t *testing.T) {
	cat := catalog.Default()

	premium, ok := cat.Plan(wizard.PlanPremium)
	if !ok {
		t.Fatalf("premium plan missing")
	}
	if premium.MonthlyPrice != 10 || !premium.Paid() {
		t.Fatalf("unexpected premium plan %+v", premium)
	}
	free, _ := cat.Plan(wizard.PlanFree)
	if free.Paid() {
		t.Fatalf("free plan should not be paid")
	}
	if _, ok := cat.Plan(wizard.PlanNone); ok {
		t.Fatalf("empty plan should not resolve")
	}
}

func TestTranslate_FallbackChain(t *testing.T) {
	cat := catalog.Default()

	if got := cat.T("es-MX", "action.sign_up"); got != "Registrarse" {
		t.Fatalf("base language fallback = %q", got)
	}
	if got := cat.T("fr", "action.sign_up"); got != "Sign Up" {
		t.Fatalf("default locale fallback = %q", got)
	}
	if got := cat.T("en", "complete.signup.message", "ada@example.com"); got != "Your account for ada@example.com is ready." {
		t.Fatalf("formatted message = %q", got)
	}

	_, err := cat.Translate("en", "nope")
	if !errors.Is(err, catalog.ErrMissingMessage) {
		t.Fatalf("expected ErrMissingMessage, got %v", err)
	}
	if got := cat.T("en", "nope"); got != "nope" {
		t.Fatalf("T should echo missing key, got %q", got)
	}
}

func TestMatchLocale(t *testing.T) {
	cat := catalog.Default()
	cases := map[string]string{
		"":                   "en",
		"es-MX,es;q=0.9":     "es",
		"fr-FR,fr;q=0.8":     "en",
		"de;q=0.7, es;q=0.3": "es",
		"en-GB":              "en",
	}
	for header, want := range cases {
		if got := cat.MatchLocale(header); got != want {
			t.Fatalf("MatchLocale(%q) = %q, want %q", header, got, want)
		}
	}
}

func TestIcons_AreSanitized(t *testing.T) {
	cat, err := catalog.Overlay([]byte(`
icons:
  evil: <svg viewBox="0 0 24 24" onload="alert(1)"><script>alert('x')</script><path d="M0 0h24v24H0z"/></svg>
`))
	if err != nil {
		t.Fatalf("overlay: %v", err)
	}

	got := cat.Icon("evil")
	if strings.Contains(got, "script") || strings.Contains(got, "onload") {
		t.Fatalf("expected script and handlers removed, got %q", got)
	}
	if !strings.Contains(got, "<svg") || !strings.Contains(got, "<path") {
		t.Fatalf("expected svg primitives to remain, got %q", got)
	}
	if cat.Icon("activity") == "" {
		t.Fatalf("default icons should survive an overlay")
	}
}

func TestThemeManifest(t *testing.T) {
	manifest := catalog.Default().ThemeManifest()
	if manifest == nil {
		t.Fatalf("expected theme manifest")
	}
	if manifest.Name != "quickmed" || manifest.Tokens["brand"] == "" {
		t.Fatalf("unexpected manifest %+v", manifest)
	}
	if _, ok := manifest.Variants["dark"]; !ok {
		t.Fatalf("expected dark variant")
	}
	if manifest.Assets.Files["stylesheet"] != "signup.css" {
		t.Fatalf("unexpected assets %+v", manifest.Assets)
	}
}

func TestLoad_OverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	doc := `
brand:
  name: Quick Med Plus
links:
  login: /auth/login
theme:
  tokens:
    brand: "#000000"
messages:
  en:
    account.title: Join us
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cat, err := catalog.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cat.Brand().Name != "Quick Med Plus" || cat.Brand().Icon != "activity" {
		t.Fatalf("brand overlay = %+v", cat.Brand())
	}
	if cat.Links().Login != "/auth/login" || cat.Links().Home != "/" {
		t.Fatalf("links overlay = %+v", cat.Links())
	}
	if got := cat.T("en", "account.title"); got != "Join us" {
		t.Fatalf("message overlay = %q", got)
	}
	if got := cat.T("en", "payment.title"); got != "Payment Information" {
		t.Fatalf("untouched message = %q", got)
	}
	manifest := cat.ThemeManifest()
	if manifest.Tokens["brand"] != "#000000" || manifest.Tokens["surface"] == "" {
		t.Fatalf("theme overlay = %+v", manifest.Tokens)
	}
	if len(cat.Plans()) != 3 {
		t.Fatalf("plans should be kept, got %d", len(cat.Plans()))
	}
}

func TestParse_Rejects(t *testing.T) {
	cases := map[string]string{
		"missing locale": "brand:\n  name: X\nmessages:\n  en: {}\n",
		"unknown plan":   "defaultLocale: en\nbrand:\n  name: X\nplans:\n  - id: gold\nmessages:\n  en: {}\n",
		"empty plan":     "defaultLocale: en\nbrand:\n  name: X\nplans:\n  - id: \"\"\nmessages:\n  en: {}\n",
		"unknown field":  "defaultLocale: en\ncolour: red\n",
		"no brand":       "defaultLocale: en\nmessages:\n  en: {}\n",
	}
	for name, doc := range cases {
		if _, err := catalog.Parse([]byte(doc)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}

	if _, err := catalog.Parse([]byte("defaultLocale: en\nbrand:\n  name: X\nplans:\n  - id: Free\nmessages:\n  en: {}\n")); err != nil {
		t.Fatalf("case-insensitive plan id should parse: %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := catalog.Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
