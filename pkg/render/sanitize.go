package render

import (
	"fmt"
	"html"
	"io/fs"
	"path"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy

	markPolicyOnce sync.Once
	markPolicy     *bluemonday.Policy
)

// SanitizeText strips every tag from free text typed by the citizen, e.g.
// the land description, and trims the result. The output is plain text;
// templates escape it on render.
func SanitizeText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(trimmed)))
}

// SanitizeMark keeps the inline SVG subset used by brand marks (flag, crest)
// and drops scripts, handlers and foreign elements.
func SanitizeMark(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(markSanitizer().Sanitize(trimmed))
}

// LoadMarks reads every .svg file in dir, sanitises it and returns the
// markup keyed by file name without extension.
func LoadMarks(fsys fs.FS, dir string) (map[string]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("render: read marks: %w", err)
	}
	out := make(map[string]string, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".svg" {
			continue
		}
		raw, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("render: read mark %s: %w", entry.Name(), err)
		}
		if cleaned := SanitizeMark(string(raw)); cleaned != "" {
			out[strings.TrimSuffix(entry.Name(), ".svg")] = cleaned
		}
	}
	return out, nil
}

func markSanitizer() *bluemonday.Policy {
	markPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements(
			"svg", "g", "path", "circle", "rect", "ellipse", "polygon",
			"title", "defs", "linearGradient", "stop",
		)

		policy.AllowAttrs(
			"xmlns", "viewBox", "width", "height", "role", "aria-label",
			"aria-hidden", "focusable", "class",
		).OnElements("svg")

		policy.AllowAttrs("transform", "fill", "stroke", "class").OnElements("g")

		for _, el := range []string{"path", "circle", "rect", "ellipse", "polygon"} {
			policy.AllowAttrs(
				"d", "cx", "cy", "r", "x", "y", "width", "height", "rx", "ry",
				"points", "fill", "stroke", "stroke-width", "stroke-linecap",
				"opacity", "transform",
			).OnElements(el)
		}

		policy.AllowAttrs("id", "x1", "y1", "x2", "y2").OnElements("linearGradient")
		policy.AllowAttrs("offset", "stop-color").OnElements("stop")

		markPolicy = policy
	})
	return markPolicy
}
