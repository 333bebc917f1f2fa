package gotemplate

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/flosch/pongo2/v6"
	gotemplatepkg "github.com/goliatone/go-template"

	"github.com/goliatone/go-ekonde/pkg/model"
	"github.com/goliatone/go-ekonde/pkg/render/template"
)

// DefaultExtension is appended to template names that carry none.
const DefaultExtension = ".tpl"

// Option configures the engine before construction.
type Option func(*config)

type config struct {
	dir       string
	files     fs.FS
	extension string
	funcs     map[string]any
}

// WithDir loads templates from a directory on disk. When combined with WithFS
// the directory wins, which lets operators override single pages.
func WithDir(dir string) Option {
	return func(cfg *config) {
		cfg.dir = strings.TrimSpace(dir)
	}
}

// WithFS loads templates from files.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.files = files
	}
}

// WithExtension overrides DefaultExtension.
func WithExtension(ext string) Option {
	return func(cfg *config) {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			return
		}
		if ext[0] != '.' {
			ext = "." + ext
		}
		cfg.extension = ext
	}
}

// WithFilter adds a pongo2 filter next to the built-in ones.
func WithFilter(name string, fn pongo2.FilterFunction) Option {
	return func(cfg *config) {
		if name = strings.TrimSpace(name); name != "" && fn != nil {
			cfg.funcs[name] = fn
		}
	}
}

// Engine is a go-template renderer preloaded with the page filters. Compiled
// templates are cached by path.
type Engine struct {
	*gotemplatepkg.Engine
}

var _ template.TemplateRenderer = (*Engine)(nil)

// New builds an engine. At least one template source is required.
func New(options ...Option) (*Engine, error) {
	cfg := config{
		extension: DefaultExtension,
		funcs: map[string]any{
			"amount":  filterAmount,
			"initial": filterInitial,
		},
	}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.dir == "" && cfg.files == nil {
		return nil, errors.New("gotemplate: a template directory or fs.FS is required")
	}

	opts := []gotemplatepkg.Option{
		gotemplatepkg.WithExtension(cfg.extension),
		gotemplatepkg.WithTemplateFunc(cfg.funcs),
	}
	if cfg.dir != "" {
		opts = append(opts, gotemplatepkg.WithBaseDir(cfg.dir))
	}
	if cfg.files != nil {
		opts = append(opts, gotemplatepkg.WithFS(cfg.files))
	}

	engine, err := gotemplatepkg.NewRenderer(opts...)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: %w", err)
	}
	return &Engine{Engine: engine}, nil
}

// filterAmount groups thousands: 450000 -> "450,000". Non-numeric input is
// returned unchanged.
func filterAmount(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	switch {
	case in.IsNil():
		return pongo2.AsValue("0"), nil
	case in.IsInteger(), in.IsFloat():
		return pongo2.AsValue(model.FormatAmount(int64(in.Float()))), nil
	case in.IsString():
		raw := strings.ReplaceAll(strings.TrimSpace(in.String()), ",", "")
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return pongo2.AsValue(model.FormatAmount(n)), nil
		}
	}
	return in, nil
}

// filterInitial returns the upper-cased first letter, used for avatars.
func filterInitial(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	t := strings.TrimSpace(in.String())
	if t == "" {
		return pongo2.AsValue(""), nil
	}
	r, _ := utf8.DecodeRuneInString(t)
	return pongo2.AsValue(strings.ToUpper(string(r))), nil
}
