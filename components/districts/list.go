package districts

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
)

//go:embed data/districts.txt
var dataFS embed.FS

const defaultListPath = "data/districts.txt"

// District is one administrative district.
type District struct {
	Name   string `json:"name"`
	Region string `json:"region"`
}

var (
	defaultOnce      sync.Once
	defaultDistricts []District
	defaultErr       error
)

// DefaultDistricts returns a copy of the embedded list sorted by name.
func DefaultDistricts() ([]District, error) {
	defaultOnce.Do(func() {
		f, err := dataFS.Open(defaultListPath)
		if err != nil {
			defaultErr = err
			return
		}
		defer func() { _ = f.Close() }()

		list, err := LoadDistricts(f)
		if err != nil {
			defaultErr = err
			return
		}
		defaultDistricts = list
	})

	if defaultErr != nil {
		return nil, defaultErr
	}
	return append([]District{}, defaultDistricts...), nil
}

// LoadDistricts parses "Region|Name" lines. A line without a separator is a
// district with no region. Blank lines, comments and duplicate names are
// skipped.
func LoadDistricts(r io.Reader) ([]District, error) {
	if r == nil {
		return nil, fmt.Errorf("districts: missing reader")
	}

	scanner := bufio.NewScanner(r)
	out := make([]District, 0, 160)
	seen := map[string]struct{}{}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		d := District{Name: line}
		if region, name, ok := strings.Cut(line, "|"); ok {
			d = District{Name: strings.TrimSpace(name), Region: strings.TrimSpace(region)}
		}
		if d.Name == "" {
			continue
		}
		key := strings.ToLower(d.Name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, d)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("districts: scan: %w", err)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Names returns just the district names, e.g. for terminal suggestions.
func Names(list []District) []string {
	out := make([]string, 0, len(list))
	for _, d := range list {
		out = append(out, d.Name)
	}
	return out
}

// InRegion keeps the districts of region, compared case-insensitively.
func InRegion(list []District, region string) []District {
	var out []District
	for _, d := range list {
		if strings.EqualFold(d.Region, region) {
			out = append(out, d)
		}
	}
	return out
}
