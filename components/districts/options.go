package districts

import "net/http"

// EmptySearchMode controls what a blank query returns.
type EmptySearchMode string

const (
	EmptySearchNone EmptySearchMode = "none"
	EmptySearchTop  EmptySearchMode = "top"
)

// DefaultRoutePath is where the component mounts when no path is set.
const DefaultRoutePath = "/api/districts"

// GuardFunc may reject a lookup. An error carrying a StatusCode() sets the
// response status; anything else is a 403.
type GuardFunc func(r *http.Request) error

// Options configures search and the HTTP handler. The zero value of each
// field falls back to the value in DefaultOptions.
type Options struct {
	RoutePath       string
	SearchParam     string
	RegionParam     string
	LimitParam      string
	DefaultLimit    int
	MaxLimit        int
	MaxDistance     int
	EmptySearchMode EmptySearchMode
	Guard           GuardFunc

	Districts []District
}

// OptionFn mutates Options.
type OptionFn func(*Options)

// DefaultOptions returns the settings used by the web server and prompt.
func DefaultOptions() Options {
	return Options{
		RoutePath:       DefaultRoutePath,
		SearchParam:     "q",
		RegionParam:     "region",
		LimitParam:      "limit",
		DefaultLimit:    10,
		MaxLimit:        50,
		MaxDistance:     2,
		EmptySearchMode: EmptySearchNone,
	}
}

// NewOptions applies fns over DefaultOptions.
func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn != nil {
			fn(&opts)
		}
	}
	return opts.normalize()
}

func (o Options) normalize() Options {
	def := DefaultOptions()
	setString(&o.RoutePath, def.RoutePath)
	setString(&o.SearchParam, def.SearchParam)
	setString(&o.RegionParam, def.RegionParam)
	setString(&o.LimitParam, def.LimitParam)
	if o.DefaultLimit <= 0 {
		o.DefaultLimit = def.DefaultLimit
	}
	if o.MaxLimit <= 0 {
		o.MaxLimit = def.MaxLimit
	}
	if o.MaxDistance < 0 {
		o.MaxDistance = 0
	}
	if o.EmptySearchMode == "" {
		o.EmptySearchMode = def.EmptySearchMode
	}
	if o.Districts != nil {
		o.Districts = append([]District(nil), o.Districts...)
	}
	return o
}

func setString(field *string, fallback string) {
	if *field == "" {
		*field = fallback
	}
}

func WithRoutePath(path string) OptionFn {
	return func(o *Options) { o.RoutePath = path }
}

func WithSearchParam(name string) OptionFn {
	return func(o *Options) { o.SearchParam = name }
}

func WithMaxLimit(limit int) OptionFn {
	return func(o *Options) { o.MaxLimit = limit }
}

// WithMaxDistance bounds the edit distance of typo suggestions. Zero turns
// them off.
func WithMaxDistance(distance int) OptionFn {
	return func(o *Options) { o.MaxDistance = distance }
}

func WithEmptySearchMode(mode EmptySearchMode) OptionFn {
	return func(o *Options) { o.EmptySearchMode = mode }
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) { o.Guard = guard }
}

// WithDistricts replaces the embedded list.
func WithDistricts(list []District) OptionFn {
	return func(o *Options) { o.Districts = list }
}

func clampLimit(limit int, opts Options) int {
	switch {
	case limit < 0:
		return 0
	case limit == 0:
		limit = opts.DefaultLimit
	}
	if opts.MaxLimit > 0 && limit > opts.MaxLimit {
		return opts.MaxLimit
	}
	return limit
}
