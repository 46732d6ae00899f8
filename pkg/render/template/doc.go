// Package template defines the template engine seam used by the HTML renderer.
// Implementations live in subpackages (see gotemplate for the pongo2-backed
// engine).
package template
