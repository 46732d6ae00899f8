package catalog

import "github.com/goliatone/go-signup/pkg/wizard"

// Brand is the product identity shown in the page header.
type Brand struct {
	Name string `yaml:"name" json:"name"`
	Icon string `yaml:"icon" json:"icon"`
}

// Links are the navigation targets the flow points at.
type Links struct {
	Home  string `yaml:"home" json:"home"`
	Login string `yaml:"login" json:"login"`
	Terms string `yaml:"terms" json:"terms"`
}

// Plan describes one entry of the plan catalog.
type Plan struct {
	ID           wizard.Plan `yaml:"id" json:"id"`
	LabelKey     string      `yaml:"labelKey" json:"labelKey"`
	MonthlyPrice int         `yaml:"monthlyPrice" json:"monthlyPrice"`
	Currency     string      `yaml:"currency" json:"currency"`
}

// Paid reports whether choosing the plan leads to the payment step.
func (p Plan) Paid() bool {
	return p.ID.IsPaid()
}

type document struct {
	DefaultLocale string                       `yaml:"defaultLocale"`
	Brand         Brand                        `yaml:"brand"`
	Links         Links                        `yaml:"links"`
	Plans         []Plan                       `yaml:"plans"`
	Icons         map[string]string            `yaml:"icons"`
	Theme         *themeDocument               `yaml:"theme"`
	Messages      map[string]map[string]string `yaml:"messages"`
}

type themeDocument struct {
	Name      string                          `yaml:"name"`
	Version   string                          `yaml:"version"`
	Tokens    map[string]string               `yaml:"tokens"`
	Templates map[string]string               `yaml:"templates"`
	Assets    themeAssetsDocument             `yaml:"assets"`
	Variants  map[string]themeVariantDocument `yaml:"variants"`
}

type themeAssetsDocument struct {
	Prefix string            `yaml:"prefix"`
	Files  map[string]string `yaml:"files"`
}

type themeVariantDocument struct {
	Tokens    map[string]string   `yaml:"tokens"`
	Templates map[string]string   `yaml:"templates"`
	Assets    themeAssetsDocument `yaml:"assets"`
}
