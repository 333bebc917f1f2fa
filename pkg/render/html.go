package render

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	"github.com/goliatone/go-ekonde/pkg/render/template"
	"github.com/goliatone/go-ekonde/pkg/render/template/gotemplate"
)

// HTMLOption configures the HTML renderer.
type HTMLOption func(*htmlConfig)

type htmlConfig struct {
	engine    template.TemplateRenderer
	templates fs.FS
	marks     fs.FS
	globals   map[string]any
}

// WithTemplateRenderer supplies a pre-built engine instead of the embedded
// pongo2 one.
func WithTemplateRenderer(engine template.TemplateRenderer) HTMLOption {
	return func(cfg *htmlConfig) {
		cfg.engine = engine
	}
}

// WithTemplatesFS loads templates from fsys instead of the embedded set.
func WithTemplatesFS(fsys fs.FS) HTMLOption {
	return func(cfg *htmlConfig) {
		if fsys != nil {
			cfg.templates = fsys
		}
	}
}

// WithGlobals adds values visible to every template, e.g. the theme context.
func WithGlobals(values map[string]any) HTMLOption {
	return func(cfg *htmlConfig) {
		if cfg.globals == nil {
			cfg.globals = make(map[string]any, len(values))
		}
		for key, value := range values {
			cfg.globals[key] = value
		}
	}
}

// HTMLRenderer renders pages through the template engine.
type HTMLRenderer struct {
	engine template.TemplateRenderer
}

var _ Renderer = (*HTMLRenderer)(nil)

// NewHTML builds the page renderer. Brand marks are sanitised and exposed to
// templates as the "marks" global.
func NewHTML(opts ...HTMLOption) (*HTMLRenderer, error) {
	cfg := &htmlConfig{templates: TemplatesFS(), marks: MarksFS()}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	marks, err := LoadMarks(cfg.marks, ".")
	if err != nil {
		return nil, err
	}
	globals := map[string]any{"marks": marks}
	for key, value := range cfg.globals {
		globals[key] = value
	}

	engine := cfg.engine
	if engine == nil {
		engine, err = gotemplate.New(
			gotemplate.WithFS(cfg.templates),
			gotemplate.WithExtension(".tpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("render: template engine: %w", err)
		}
	}
	if err := engine.GlobalContext(globals); err != nil {
		return nil, fmt.Errorf("render: global context: %w", err)
	}
	return &HTMLRenderer{engine: engine}, nil
}

// Name implements Renderer.
func (r *HTMLRenderer) Name() string { return "html" }

// ContentType implements Renderer.
func (r *HTMLRenderer) ContentType() string { return "text/html; charset=utf-8" }

// Render executes pages/<page>.tpl with data.
func (r *HTMLRenderer) Render(_ context.Context, page Page, data PageData) ([]byte, error) {
	if r == nil || r.engine == nil {
		return nil, errors.New("render: html renderer is not initialised")
	}
	if page == "" {
		return nil, errors.New("render: page is required")
	}
	data.Page = page
	data.Hidden = NormalizeHidden(data.Hidden)
	out, err := r.engine.RenderTemplate("pages/"+string(page), data)
	if err != nil {
		return nil, fmt.Errorf("render: page %q: %w", page, err)
	}
	return []byte(out), nil
}

// JSONRenderer emits the page data as JSON for API clients.
type JSONRenderer struct{}

var _ Renderer = JSONRenderer{}

// Name implements Renderer.
func (JSONRenderer) Name() string { return "json" }

// ContentType implements Renderer.
func (JSONRenderer) ContentType() string { return "application/json" }

// Render encodes data with the page name.
func (JSONRenderer) Render(_ context.Context, page Page, data PageData) ([]byte, error) {
	data.Page = page
	out, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("render: encode %q: %w", page, err)
	}
	return out, nil
}
