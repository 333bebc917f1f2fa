package render

import (
	"context"
)

// Renderer turns a page and its data into a response body.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, page Page, data PageData) ([]byte, error)
}
