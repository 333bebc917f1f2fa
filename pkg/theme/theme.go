package theme

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"sync"

	gotheme "github.com/goliatone/go-theme"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var dataFS embed.FS

// DefaultName is the bundled brand theme.
const DefaultName = "ekonde"

// ErrUnknownTheme is returned when a theme or variant is not registered.
var ErrUnknownTheme = errors.New("theme: unknown theme")

type manifestFile struct {
	Name      string            `yaml:"name"`
	Version   string            `yaml:"version"`
	Tokens    map[string]string `yaml:"tokens"`
	Templates map[string]string `yaml:"templates"`
	Assets    assetsFile        `yaml:"assets"`
	Variants  map[string]struct {
		Tokens    map[string]string `yaml:"tokens"`
		Templates map[string]string `yaml:"templates"`
		Assets    assetsFile        `yaml:"assets"`
	} `yaml:"variants"`
}

type assetsFile struct {
	Prefix string            `yaml:"prefix"`
	Files  map[string]string `yaml:"files"`
}

// Decode reads a YAML manifest into a go-theme manifest.
func Decode(r io.Reader) (*gotheme.Manifest, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var file manifestFile
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("theme: decode manifest: %w", err)
	}
	if strings.TrimSpace(file.Name) == "" {
		return nil, errors.New("theme: manifest name is required")
	}

	manifest := &gotheme.Manifest{
		Name:      file.Name,
		Version:   file.Version,
		Tokens:    file.Tokens,
		Templates: file.Templates,
		Assets:    gotheme.Assets{Prefix: file.Assets.Prefix, Files: file.Assets.Files},
	}
	if len(file.Variants) > 0 {
		manifest.Variants = make(map[string]gotheme.Variant, len(file.Variants))
		for name, v := range file.Variants {
			manifest.Variants[name] = gotheme.Variant{
				Tokens:    v.Tokens,
				Templates: v.Templates,
				Assets:    gotheme.Assets{Prefix: v.Assets.Prefix, Files: v.Assets.Files},
			}
		}
	}
	return manifest, nil
}

type registrar interface {
	Register(manifest *gotheme.Manifest) error
}

// Selector resolves a theme/variant pair against registered manifests. It
// satisfies go-theme's ThemeSelector.
type Selector struct {
	mu             sync.RWMutex
	registry       registrar
	manifests      map[string]*gotheme.Manifest
	defaultTheme   string
	defaultVariant string
}

var _ gotheme.ThemeSelector = (*Selector)(nil)

// NewSelector returns a selector with no manifests. Empty names passed to
// Select fall back to defaultTheme/defaultVariant.
func NewSelector(defaultTheme, defaultVariant string) *Selector {
	return &Selector{
		registry:       gotheme.NewRegistry(),
		manifests:      make(map[string]*gotheme.Manifest),
		defaultTheme:   strings.TrimSpace(defaultTheme),
		defaultVariant: strings.TrimSpace(defaultVariant),
	}
}

// Default returns a selector preloaded with the bundled brand theme.
func Default(variant string) (*Selector, error) {
	raw, err := dataFS.ReadFile(path.Join("data", DefaultName+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("theme: read bundled manifest: %w", err)
	}
	manifest, err := Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	s := NewSelector(DefaultName, variant)
	if err := s.Register(manifest); err != nil {
		return nil, err
	}
	return s, nil
}

// Register adds manifest to the selector and the underlying go-theme
// registry.
func (s *Selector) Register(manifest *gotheme.Manifest) error {
	if manifest == nil {
		return errors.New("theme: manifest is required")
	}
	if err := s.registry.Register(manifest); err != nil {
		return fmt.Errorf("theme: register %q: %w", manifest.Name, err)
	}
	s.mu.Lock()
	s.manifests[manifest.Name] = manifest
	s.mu.Unlock()
	return nil
}

// Select resolves name and variant. An unknown variant is an error; an
// empty variant selects the base theme.
func (s *Selector) Select(name, variant string, _ ...gotheme.QueryOption) (*gotheme.Selection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = s.defaultTheme
	}
	variant = strings.TrimSpace(variant)
	if variant == "" {
		variant = s.defaultVariant
	}

	s.mu.RLock()
	manifest, ok := s.manifests[name]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("%w: %q has no variant %q", ErrUnknownTheme, name, variant)
		}
	}
	return &gotheme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

// RendererConfig flattens a selection into what the page templates read:
// merged tokens, CSS variables, template partials and an asset resolver.
func RendererConfig(sel *gotheme.Selection) *gotheme.RendererConfig {
	if sel == nil || sel.Manifest == nil {
		return nil
	}
	m := sel.Manifest
	tokens := mergeStrings(m.Tokens, nil)
	partials := mergeStrings(m.Templates, nil)
	prefix := m.Assets.Prefix
	files := mergeStrings(m.Assets.Files, nil)

	if v, ok := m.Variants[sel.Variant]; ok {
		tokens = mergeStrings(tokens, v.Tokens)
		partials = mergeStrings(partials, v.Templates)
		files = mergeStrings(files, v.Assets.Files)
		if v.Assets.Prefix != "" {
			prefix = v.Assets.Prefix
		}
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+key] = value
	}

	return &gotheme.RendererConfig{
		Theme:    sel.Theme,
		Variant:  sel.Variant,
		Tokens:   tokens,
		CSSVars:  cssVars,
		Partials: partials,
		AssetURL: assetResolver(prefix, files),
	}
}

// StyleAttr renders CSS variables as a deterministic inline declaration list.
func StyleAttr(cfg *gotheme.RendererConfig) string {
	if cfg == nil || len(cfg.CSSVars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(cfg.CSSVars))
	for key := range cfg.CSSVars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(cfg.CSSVars[key])
		b.WriteString("; ")
	}
	return strings.TrimSpace(b.String())
}

// Context is the template-facing view of a resolved theme.
type Context struct {
	Name       string            `json:"name"`
	Variant    string            `json:"variant,omitempty"`
	Style      string            `json:"style"`
	Stylesheet string            `json:"stylesheet"`
	Script     string            `json:"script"`
	Tokens     map[string]string `json:"tokens"`
}

// TemplateContext resolves the asset URLs the layout needs.
func TemplateContext(cfg *gotheme.RendererConfig) Context {
	if cfg == nil {
		return Context{}
	}
	ctx := Context{
		Name:    cfg.Theme,
		Variant: cfg.Variant,
		Style:   StyleAttr(cfg),
		Tokens:  mergeStrings(cfg.Tokens, nil),
	}
	if cfg.AssetURL != nil {
		ctx.Stylesheet = cfg.AssetURL("stylesheet")
		ctx.Script = cfg.AssetURL("script")
	}
	return ctx
}

func assetResolver(prefix string, files map[string]string) func(string) string {
	prefix = strings.TrimRight(prefix, "/")
	return func(key string) string {
		key = strings.TrimSpace(key)
		if key == "" {
			return ""
		}
		file, ok := files[key]
		if !ok {
			file = key
		}
		if strings.HasPrefix(file, "/") || strings.Contains(file, "://") {
			return file
		}
		return prefix + "/" + file
	}
}

func mergeStrings(base, overlay map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(overlay))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overlay {
		out[k] = v
	}
	return out
}
