package catalog

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-ekonde/pkg/model"
)

//go:embed data/catalog.yaml
var dataFS embed.FS

const defaultCatalogPath = "data/catalog.yaml"

// ErrInvalidCatalog wraps structural problems detected by Validate.
var ErrInvalidCatalog = errors.New("catalog: invalid catalog")

// Service is a marketing tile on the home page.
type Service struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	Href        string `yaml:"href" json:"href"`
}

// HowItWorksStep is one of the numbered onboarding steps on the home page.
type HowItWorksStep struct {
	Step        string `yaml:"step" json:"step"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
}

// Documents groups the upload placeholders shown on the documents step.
type Documents struct {
	Requirements    []model.DocumentRequirement `yaml:"requirements" json:"requirements"`
	AcceptedFormats []string                    `yaml:"acceptedFormats" json:"acceptedFormats"`
	MaxSizeMB       int                         `yaml:"maxSizeMB" json:"maxSizeMB"`
}

// FormatsLabel renders the accepted formats hint, e.g. "PDF, JPG, PNG".
func (d Documents) FormatsLabel() string {
	return strings.Join(d.AcceptedFormats, ", ")
}

// Catalog is the immutable static data the front-end renders.
type Catalog struct {
	ApplicationTypes []model.ApplicationType    `yaml:"applicationTypes" json:"applicationTypes"`
	Steps            []model.Step               `yaml:"steps" json:"steps"`
	Documents        Documents                  `yaml:"documents" json:"documents"`
	Services         []Service                  `yaml:"services" json:"services"`
	HowItWorks       []HowItWorksStep           `yaml:"howItWorks" json:"howItWorks"`
	Applications     []model.ApplicationSummary `yaml:"applications" json:"applications"`
	Tracked          []model.TrackedApplication `yaml:"tracked" json:"tracked"`
	Titles           []model.VerifiedTitle      `yaml:"titles" json:"titles"`
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the catalog embedded in the binary. The result is shared and
// must be treated as read-only.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		raw, err := dataFS.ReadFile(defaultCatalogPath)
		if err != nil {
			defaultErr = fmt.Errorf("catalog: read embedded catalog: %w", err)
			return
		}
		defaultCatalog, defaultErr = Load(bytes.NewReader(raw))
	})
	return defaultCatalog, defaultErr
}

// MustDefault panics when the embedded catalog cannot be decoded.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// Load decodes and validates a catalog document.
func Load(r io.Reader) (*Catalog, error) {
	if r == nil {
		return nil, errors.New("catalog: reader is required")
	}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var c Catalog
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadFile loads a catalog override from disk. An empty path returns the
// embedded default.
func LoadFile(path string) (*Catalog, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return Load(f)
}

// Validate checks the invariants the wizard relies on: five steps numbered
// 1..5 in order and a non-empty set of known application types.
func (c *Catalog) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: nil catalog", ErrInvalidCatalog)
	}
	if len(c.Steps) != int(model.LastStep) {
		return fmt.Errorf("%w: expected %d steps, got %d", ErrInvalidCatalog, model.LastStep, len(c.Steps))
	}
	for idx, step := range c.Steps {
		if want := model.StepID(idx + 1); step.ID != want {
			return fmt.Errorf("%w: step %d has id %d", ErrInvalidCatalog, want, step.ID)
		}
	}
	if len(c.ApplicationTypes) == 0 {
		return fmt.Errorf("%w: no application types", ErrInvalidCatalog)
	}
	seen := make(map[model.ApplicationTypeID]struct{}, len(c.ApplicationTypes))
	for _, t := range c.ApplicationTypes {
		if !t.ID.Valid() {
			return fmt.Errorf("%w: unknown application type %q", ErrInvalidCatalog, t.ID)
		}
		if _, dup := seen[t.ID]; dup {
			return fmt.Errorf("%w: duplicate application type %q", ErrInvalidCatalog, t.ID)
		}
		if t.Fee < 0 {
			return fmt.Errorf("%w: negative fee for %q", ErrInvalidCatalog, t.ID)
		}
		seen[t.ID] = struct{}{}
	}
	return nil
}

// ApplicationType looks up a catalog entry by id.
func (c *Catalog) ApplicationType(id model.ApplicationTypeID) (model.ApplicationType, bool) {
	if c == nil {
		return model.ApplicationType{}, false
	}
	for _, t := range c.ApplicationTypes {
		if t.ID == id {
			return t, true
		}
	}
	return model.ApplicationType{}, false
}

// Step returns the step definition for id.
func (c *Catalog) Step(id model.StepID) (model.Step, bool) {
	if c == nil || id < model.FirstStep || int(id) > len(c.Steps) {
		return model.Step{}, false
	}
	return c.Steps[id-1], true
}

// StepsCopy returns a copy of the step table.
func (c *Catalog) StepsCopy() []model.Step {
	if c == nil {
		return nil
	}
	return append([]model.Step{}, c.Steps...)
}
