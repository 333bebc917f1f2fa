package districts

import "net/http"

// Component bundles the district list with its handler and search so the
// web server and the terminal prompt share one configuration.
type Component struct {
	opts Options
}

// New constructs a component with default options plus any overrides. The
// embedded list is resolved eagerly so a broken build fails at start-up.
func New(fns ...OptionFn) (*Component, error) {
	opts := NewOptions(fns...)
	if opts.Districts == nil {
		list, err := DefaultDistricts()
		if err != nil {
			return nil, err
		}
		opts.Districts = list
	}
	return &Component{opts: opts}, nil
}

// Options returns a copy of the component configuration.
func (c *Component) Options() Options {
	return NewOptions(func(o *Options) { *o = c.opts })
}

// Districts returns a copy of the served list.
func (c *Component) Districts() []District {
	return append([]District{}, c.opts.Districts...)
}

// Suggest returns up to limit district names for query.
func (c *Component) Suggest(query string, limit int) []string {
	return Names(Search(c.opts.Districts, query, limit, c.opts))
}

// Handler returns the JSON options handler.
func (c *Component) Handler() http.Handler {
	return HandlerWithOptions(c.opts)
}

// RegisterRoutes registers the handler under basePath on mux.
func (c *Component) RegisterRoutes(mux Mux, basePath string) (string, error) {
	return RegisterRoutesWithOptions(mux, basePath, c.opts)
}
