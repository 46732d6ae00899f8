package render

import (
	"context"

	"github.com/goliatone/go-signup/pkg/model"
)

// Renderer converts a FormModel into a byte representation (an HTML page, a
// serialized terminal submission, ...).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, form model.FormModel, options RenderOptions) ([]byte, error)
}
