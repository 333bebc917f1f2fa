package registry

import (
	"errors"
	"sort"
	"strings"
	"unicode/utf16"

	"github.com/agnivade/levenshtein"

	"github.com/goliatone/go-ekonde/pkg/catalog"
	"github.com/goliatone/go-ekonde/pkg/model"
)

// MinVerifyQueryLength is exclusive: a verify query must be longer than this.
const MinVerifyQueryLength = 5

// ErrEmptyQuery is returned when a lookup has nothing to search for.
var ErrEmptyQuery = errors.New("registry: empty query")

// SearchType selects how a verify query is interpreted.
type SearchType string

const (
	SearchPlot SearchType = "plot"
	SearchQR   SearchType = "qr"
)

// ParseSearchType defaults unknown values to SearchPlot.
func ParseSearchType(raw string) SearchType {
	if SearchType(strings.ToLower(strings.TrimSpace(raw))) == SearchQR {
		return SearchQR
	}
	return SearchPlot
}

// Registry answers the read-only lookups backed by the catalog's mock
// records.
type Registry struct {
	catalog        *catalog.Catalog
	maxSuggestions int
}

// New builds a Registry over c.
func New(c *catalog.Catalog) *Registry {
	return &Registry{catalog: c, maxSuggestions: 3}
}

// TrackResult is what the track page renders for a searched id.
type TrackResult struct {
	Query       string                   `json:"query"`
	Application model.TrackedApplication `json:"application"`
	Exact       bool                     `json:"exact"`
}

// Track looks up id (upper-cased). Without an exact match the demo record is
// shown, as the registry front-end has no live backend.
func (r *Registry) Track(id string) (TrackResult, error) {
	query := strings.ToUpper(strings.TrimSpace(id))
	if query == "" {
		return TrackResult{}, ErrEmptyQuery
	}
	if r == nil || r.catalog == nil || len(r.catalog.Tracked) == 0 {
		return TrackResult{}, errors.New("registry: no tracked applications")
	}
	for _, app := range r.catalog.Tracked {
		if strings.EqualFold(app.ID, query) {
			return TrackResult{Query: query, Application: app, Exact: true}, nil
		}
	}
	return TrackResult{Query: query, Application: r.catalog.Tracked[0]}, nil
}

// VerifyResult is the outcome of a title verification.
type VerifyResult struct {
	Query       string               `json:"query"`
	Type        SearchType           `json:"type"`
	Valid       bool                 `json:"valid"`
	Title       *model.VerifiedTitle `json:"title,omitempty"`
	Suggestions []string             `json:"suggestions,omitempty"`
}

// Verify treats any query longer than MinVerifyQueryLength characters as an
// authentic title and returns the closest catalog record. Shorter queries are
// invalid and carry "did you mean" suggestions ranked by edit distance. The
// length is taken on the query as typed, in UTF-16 code units, so surrounding
// spaces count.
func (r *Registry) Verify(raw string, kind SearchType) (VerifyResult, error) {
	query := strings.TrimSpace(raw)
	if query == "" {
		return VerifyResult{}, ErrEmptyQuery
	}
	if kind != SearchQR {
		kind = SearchPlot
	}
	result := VerifyResult{Query: query, Type: kind}
	titles := r.titles()

	if len(utf16.Encode([]rune(raw))) <= MinVerifyQueryLength {
		result.Suggestions = r.suggest(query, titles)
		return result, nil
	}
	result.Valid = true
	if best, ok := closestTitle(query, titles); ok {
		result.Title = &best
	}
	return result, nil
}

// Stats are the dashboard counters.
type Stats struct {
	Total      int `json:"total"`
	InProgress int `json:"inProgress"`
	Pending    int `json:"pending"`
	Completed  int `json:"completed"`
}

// Dashboard is the signed-in landing page data.
type Dashboard struct {
	Applications []model.ApplicationSummary `json:"applications"`
	Stats        Stats                      `json:"stats"`
}

// Dashboard lists the citizen's applications. The catalog rows stand in for
// every user.
func (r *Registry) Dashboard() Dashboard {
	var out Dashboard
	if r == nil || r.catalog == nil {
		return out
	}
	out.Applications = append([]model.ApplicationSummary{}, r.catalog.Applications...)
	for _, app := range out.Applications {
		out.Stats.Total++
		switch app.Status {
		case model.StatusInProgress:
			out.Stats.InProgress++
		case model.StatusPending:
			out.Stats.Pending++
		case model.StatusCompleted:
			out.Stats.Completed++
		}
	}
	return out
}

func (r *Registry) titles() []model.VerifiedTitle {
	if r == nil || r.catalog == nil {
		return nil
	}
	return r.catalog.Titles
}

func (r *Registry) suggest(query string, titles []model.VerifiedTitle) []string {
	type ranked struct {
		label string
		dist  int
	}
	q := strings.ToLower(query)
	list := make([]ranked, 0, len(titles))
	for _, t := range titles {
		list = append(list, ranked{label: t.PlotNumber, dist: titleDistance(q, t)})
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].dist < list[j].dist })

	limit := r.maxSuggestions
	if limit > len(list) {
		limit = len(list)
	}
	out := make([]string, 0, limit)
	for _, item := range list[:limit] {
		out = append(out, item.label)
	}
	return out
}

func closestTitle(query string, titles []model.VerifiedTitle) (model.VerifiedTitle, bool) {
	if len(titles) == 0 {
		return model.VerifiedTitle{}, false
	}
	q := strings.ToLower(query)
	best, bestDist := 0, titleDistance(q, titles[0])
	for i := 1; i < len(titles); i++ {
		if d := titleDistance(q, titles[i]); d < bestDist {
			best, bestDist = i, d
		}
	}
	return titles[best], true
}

func titleDistance(lowerQuery string, t model.VerifiedTitle) int {
	plot := levenshtein.ComputeDistance(lowerQuery, strings.ToLower(t.PlotNumber))
	number := levenshtein.ComputeDistance(lowerQuery, strings.ToLower(t.TitleNumber))
	return min(plot, number)
}
