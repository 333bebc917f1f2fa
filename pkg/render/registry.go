package render

import (
	"errors"
	"fmt"
	"mime"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Registry holds the page renderers and picks one per request from the
// Accept header.
type Registry struct {
	mu        sync.RWMutex
	renderers []Renderer
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds renderer. Names must be unique. The first renderer is the
// default when the Accept header names nothing registered.
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil || renderer.Name() == "" {
		return errors.New("render: renderer with a name is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.renderers {
		if existing.Name() == renderer.Name() {
			return fmt.Errorf("render: renderer %q already registered", renderer.Name())
		}
	}
	r.renderers = append(r.renderers, renderer)
	return nil
}

// MustRegister panics when Register fails.
func (r *Registry) MustRegister(renderer Renderer) {
	if err := r.Register(renderer); err != nil {
		panic(err)
	}
}

type acceptRange struct {
	mediaType string
	q         float64
}

// Negotiate returns the renderer for the most preferred media type in
// accept. Wildcards and unknown types select the default renderer.
func (r *Registry) Negotiate(accept string) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.renderers) == 0 {
		return nil, errors.New("render: no renderers registered")
	}

	var ranges []acceptRange
	for _, part := range strings.Split(accept, ",") {
		mediaType, params, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		q := 1.0
		if raw, ok := params["q"]; ok {
			if parsed, err := strconv.ParseFloat(raw, 64); err == nil {
				q = parsed
			}
		}
		if q > 0 {
			ranges = append(ranges, acceptRange{mediaType: mediaType, q: q})
		}
	}
	sort.SliceStable(ranges, func(i, j int) bool { return ranges[i].q > ranges[j].q })

	for _, ar := range ranges {
		for _, renderer := range r.renderers {
			if ct, _, err := mime.ParseMediaType(renderer.ContentType()); err == nil && ct == ar.mediaType {
				return renderer, nil
			}
		}
	}
	return r.renderers[0], nil
}
