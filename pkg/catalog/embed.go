package catalog

import (
	_ "embed"
	"sync"
)

//go:embed catalog.yaml
var embeddedCatalog []byte

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the embedded catalog. The result is shared and must be
// treated as read-only.
func Default() *Catalog {
	defaultOnce.Do(func() {
		cat, err := Parse(embeddedCatalog)
		if err != nil {
			// The embedded document ships with the binary and is covered by
			// tests, so a failure here is a build defect.
			panic(err)
		}
		defaultCatalog = cat
	})
	return defaultCatalog
}

// EmbeddedYAML returns a copy of the bundled catalog document.
func EmbeddedYAML() []byte {
	out := make([]byte, len(embeddedCatalog))
	copy(out, embeddedCatalog)
	return out
}
