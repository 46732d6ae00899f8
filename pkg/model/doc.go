// Package model defines the form model consumed by renderers. A FormModel is a
// flat list of fields plus a curated UIHints map carrying layout directives
// such as `layout.title`, `layout.subtitle`, `submit.label`, `submit.disabled`
// and navigation links. Renderers rely on these hints instead of knowing
// anything about the sign-up flow that produced the model.
package model
