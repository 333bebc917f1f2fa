package districts

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Option is one JSON result row.
type Option struct {
	Value  string `json:"value"`
	Label  string `json:"label"`
	Region string `json:"region,omitempty"`
}

// Search ranks list against query. Prefix matches come first, then other
// substring matches, each alphabetical. Without any substring match the
// names within opts.MaxDistance edits are returned, closest first.
func Search(list []District, query string, limit int, opts Options) []District {
	limit = clampLimit(limit, opts)
	if limit == 0 {
		return nil
	}

	query = strings.TrimSpace(query)
	if query == "" {
		if opts.EmptySearchMode == EmptySearchTop {
			if len(list) <= limit {
				return append([]District{}, list...)
			}
			return append([]District{}, list[:limit]...)
		}
		return nil
	}

	q := strings.ToLower(query)
	matches := make([]matched, 0, 16)
	for _, d := range list {
		name := strings.ToLower(d.Name)
		if !strings.Contains(name, q) {
			continue
		}
		rank := 1
		if strings.HasPrefix(name, q) {
			rank = 0
		}
		matches = append(matches, matched{district: d, rank: rank})
	}

	if len(matches) == 0 && opts.MaxDistance > 0 {
		for _, d := range list {
			dist := levenshtein.ComputeDistance(q, strings.ToLower(d.Name))
			if dist <= opts.MaxDistance {
				matches = append(matches, matched{district: d, rank: dist})
			}
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].rank != matches[j].rank {
			return matches[i].rank < matches[j].rank
		}
		return matches[i].district.Name < matches[j].district.Name
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]District, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.district)
	}
	return out
}

// SearchOptions is Search shaped as JSON option rows.
func SearchOptions(list []District, query string, limit int, opts Options) []Option {
	results := Search(list, query, limit, opts)
	if len(results) == 0 {
		return nil
	}

	out := make([]Option, 0, len(results))
	for _, d := range results {
		out = append(out, Option{Value: d.Name, Label: d.Name, Region: d.Region})
	}
	return out
}

type matched struct {
	district District
	rank     int
}
