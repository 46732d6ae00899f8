package signup

import (
	"io/fs"

	"github.com/goliatone/go-signup/pkg/renderers/vanilla"
)

// EmbeddedTemplates exposes the built-in page templates so callers can reuse
// or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// EmbeddedAssets exposes the bundled stylesheet.
func EmbeddedAssets() fs.FS {
	return vanilla.AssetsFS()
}
