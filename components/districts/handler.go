package districts

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
)

// StatusError lets a GuardFunc choose the response status.
type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.StatusCode())
}

func (e StatusError) Unwrap() error { return e.Err }

// StatusCode defaults to 500 when Code is unset.
func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

type lookupResponse struct {
	Data []Option `json:"data"`
}

type handler struct {
	opts Options
}

// Handler builds the JSON lookup handler.
func Handler(fns ...OptionFn) http.Handler {
	return HandlerWithOptions(NewOptions(fns...))
}

// HandlerWithOptions builds the lookup handler from opts. GET and HEAD are
// served; ?q searches names, ?region keeps one region and ?limit caps the
// rows.
func HandlerWithOptions(opts Options) http.Handler {
	return &handler{opts: opts.normalize()}
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	if h.opts.Guard != nil {
		if err := h.opts.Guard(r); err != nil {
			code := http.StatusForbidden
			var coded interface{ StatusCode() int }
			if errors.As(err, &coded) {
				code = coded.StatusCode()
			}
			http.Error(w, http.StatusText(code), code)
			return
		}
	}

	list := h.opts.Districts
	if list == nil {
		var err error
		if list, err = DefaultDistricts(); err != nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
	}

	query := r.URL.Query()
	if region := strings.TrimSpace(query.Get(h.opts.RegionParam)); region != "" {
		list = InRegion(list, region)
	}
	limit, _ := strconv.Atoi(query.Get(h.opts.LimitParam))
	rows := SearchOptions(list, query.Get(h.opts.SearchParam), limit, h.opts)
	if rows == nil {
		rows = []Option{}
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}
	_ = json.NewEncoder(w).Encode(lookupResponse{Data: rows})
}
