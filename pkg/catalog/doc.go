// Package catalog holds the product copy behind the sign-up flow: brand,
// navigation links, the plan catalog, inline icons, the go-theme manifest and
// per-locale messages. The default catalog is embedded; Load overlays a YAML
// file on top of it.
package catalog
