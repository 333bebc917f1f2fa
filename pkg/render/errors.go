package render

import (
	"strings"
)

// ErrorMapping is validation feedback split into per-input messages and
// messages shown at the top of the form.
type ErrorMapping struct {
	Fields map[string][]string `json:"fields,omitempty"`
	Form   []string            `json:"form,omitempty"`
}

// Empty reports whether there is nothing to show.
func (m ErrorMapping) Empty() bool {
	return len(m.Fields) == 0 && len(m.Form) == 0
}

// MergeFormErrors appends extras to existing, trimming messages and dropping
// blanks and repeats.
func MergeFormErrors(existing []string, extras ...string) []string {
	return dedupe(append(append([]string(nil), existing...), extras...))
}

// MapErrorPayload attaches messages to input names. Keys may be bare names or
// paths produced by request validation ("/body/fullName", "$.body.documents[0]",
// "request.password"). A key that does not resolve to one of known lands on
// the form so the visitor still sees it.
func MapErrorPayload(known []string, payload map[string][]string) ErrorMapping {
	var mapping ErrorMapping
	if len(payload) == 0 {
		return mapping
	}
	names := make(map[string]bool, len(known))
	for _, name := range known {
		names[strings.TrimSpace(name)] = true
	}

	for key, messages := range payload {
		messages = dedupe(messages)
		if len(messages) == 0 {
			continue
		}
		field := fieldOf(key)
		if field == "" || !names[field] {
			mapping.Form = append(mapping.Form, messages...)
			continue
		}
		if mapping.Fields == nil {
			mapping.Fields = make(map[string][]string)
		}
		mapping.Fields[field] = append(mapping.Fields[field], messages...)
	}
	mapping.Form = dedupe(mapping.Form)
	return mapping
}

// fieldOf returns the first meaningful segment of an error path. Envelope
// segments and array indexes are skipped.
func fieldOf(path string) string {
	path = strings.TrimSpace(path)
	switch strings.ToLower(path) {
	case "form", "__all__", "non_field_errors":
		return ""
	}
	segments := strings.FieldsFunc(path, func(r rune) bool {
		switch r {
		case '/', '.', '[', ']', '#', '$':
			return true
		}
		return false
	})
	for _, seg := range segments {
		seg = strings.NewReplacer("~1", "/", "~0", "~").Replace(strings.TrimSpace(seg))
		switch strings.ToLower(seg) {
		case "", "body", "request", "payload", "data", "fields":
			continue
		}
		if isIndex(seg) {
			continue
		}
		return seg
	}
	return ""
}

func isIndex(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func dedupe(messages []string) []string {
	var out []string
	seen := make(map[string]bool, len(messages))
	for _, msg := range messages {
		msg = strings.TrimSpace(msg)
		if msg == "" || seen[msg] {
			continue
		}
		seen[msg] = true
		out = append(out, msg)
	}
	return out
}
