package draft

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-ekonde/pkg/model"
	"github.com/goliatone/go-ekonde/pkg/validation"
)

// Patch is a partial field set keyed by draft field name. Text fields take
// strings; latitude/longitude take a float64, a numeric string, or nil/""
// to clear; documents take a []string.
type Patch map[string]any

// Store is the single mutable record shared by every wizard step. It is not
// safe for concurrent use; the owning session serialises access.
type Store struct {
	draft     model.ApplicationDraft
	prefilled bool
}

// New returns a store holding a pristine draft.
func New() *Store {
	return &Store{draft: model.ApplicationDraft{Documents: []string{}}}
}

// Snapshot returns a deep copy of the current draft.
func (s *Store) Snapshot() model.ApplicationDraft {
	return s.draft.Clone()
}

// Get returns the string form of a field, or "" for unknown names and unset
// coordinates.
func (s *Store) Get(name string) string {
	if value, ok := s.draft.Text(name); ok {
		return value
	}
	switch name {
	case model.FieldLatitude:
		return formatCoordinate(s.draft.Latitude)
	case model.FieldLongitude:
		return formatCoordinate(s.draft.Longitude)
	case model.FieldDocuments:
		return strings.Join(s.draft.Documents, ",")
	}
	return ""
}

// Merge applies patch with last-write-wins semantics. Unknown keys are
// ignored. The patch is applied atomically: if a coordinate value is
// malformed or the application type is not a catalog variant nothing is
// written and a validation error is returned. It
// returns the names of fields whose value changed, sorted.
func (s *Store) Merge(patch Patch) ([]string, error) {
	if len(patch) == 0 {
		return nil, nil
	}
	next := s.draft.Clone()

	for name, raw := range patch {
		switch name {
		case model.FieldLatitude, model.FieldLongitude:
			value, err := coordinateValue(raw)
			if err != nil {
				return nil, err
			}
			if name == model.FieldLatitude {
				next.Latitude = value
			} else {
				next.Longitude = value
			}
		case model.FieldDocuments:
			docs, err := documentsValue(raw)
			if err != nil {
				return nil, err
			}
			next.Documents = docs
		default:
			text, ok := textValue(raw)
			if !ok {
				continue
			}
			switch name {
			case model.FieldNIN:
				text = strings.ToUpper(text)
			case model.FieldApplicationType:
				if text != "" && !model.ApplicationTypeID(text).Valid() {
					return nil, &validation.Error{Field: model.FieldApplicationType, Message: validation.MessageTypeUnknown}
				}
			}
			next.SetText(name, text)
		}
	}

	if next.Latitude != nil || next.Longitude != nil {
		var lat, lng float64
		if next.Latitude != nil {
			lat = *next.Latitude
		}
		if next.Longitude != nil {
			lng = *next.Longitude
		}
		if err := validation.Coordinates(lat, lng); err != nil {
			return nil, err
		}
	}

	changed := diff(s.draft, next)
	s.draft = next
	return changed, nil
}

// SetCoordinates stores a location captured by the location widget.
func (s *Store) SetCoordinates(c model.Coordinates) {
	lat, lng := c.Latitude, c.Longitude
	s.draft.Latitude = &lat
	s.draft.Longitude = &lng
}

// Prefill copies identity details from the signed-in user and profile into
// fields that are still empty. It runs at most once per store; calls made
// before any user or profile is available do not count.
func (s *Store) Prefill(user *model.User, profile *model.Profile) bool {
	if s.prefilled || (user == nil && profile == nil) {
		return false
	}
	s.prefilled = true

	fill := func(name, value string) {
		value = strings.TrimSpace(value)
		if value == "" {
			return
		}
		if current, _ := s.draft.Text(name); current != "" {
			return
		}
		if name == model.FieldNIN {
			value = strings.ToUpper(value)
		}
		s.draft.SetText(name, value)
	}

	if profile != nil {
		fill(model.FieldFullName, profile.FullName)
		fill(model.FieldNIN, profile.NIN)
		fill(model.FieldPhone, profile.Phone)
	}
	if user != nil {
		fill(model.FieldEmail, user.Email)
	}
	return true
}

// Prefilled reports whether Prefill has already run.
func (s *Store) Prefilled() bool {
	return s.prefilled
}

// Reset discards the draft. The prefill guard is cleared so the next wizard
// can be pre-populated again.
func (s *Store) Reset() {
	*s = *New()
}

func textValue(raw any) (string, bool) {
	switch v := raw.(type) {
	case string:
		return v, true
	case []string:
		if len(v) == 0 {
			return "", true
		}
		return v[len(v)-1], true
	case fmt.Stringer:
		return v.String(), true
	case nil:
		return "", true
	default:
		return "", false
	}
}

func coordinateValue(raw any) (*float64, error) {
	var value float64
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case *float64:
		if v == nil {
			return nil, nil
		}
		value = *v
	case float64:
		value = v
	case int:
		value = float64(v)
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return nil, nil
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return nil, &validation.Error{Field: validation.FieldCoordinates, Message: validation.MessageInvalidCoordinates}
		}
		value = parsed
	default:
		return nil, &validation.Error{Field: validation.FieldCoordinates, Message: validation.MessageInvalidCoordinates}
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, &validation.Error{Field: validation.FieldCoordinates, Message: validation.MessageInvalidCoordinates}
	}
	return &value, nil
}

func documentsValue(raw any) ([]string, error) {
	switch v := raw.(type) {
	case nil:
		return []string{}, nil
	case []string:
		return append([]string{}, v...), nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			text, ok := item.(string)
			if !ok {
				return nil, &validation.Error{Field: model.FieldDocuments, Message: "documents must be a list of identifiers"}
			}
			out = append(out, text)
		}
		return out, nil
	default:
		return nil, &validation.Error{Field: model.FieldDocuments, Message: "documents must be a list of identifiers"}
	}
}

func formatCoordinate(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func diff(before, after model.ApplicationDraft) []string {
	var changed []string
	for _, name := range model.TextFields {
		a, _ := before.Text(name)
		b, _ := after.Text(name)
		if a != b {
			changed = append(changed, name)
		}
	}
	if formatCoordinate(before.Latitude) != formatCoordinate(after.Latitude) {
		changed = append(changed, model.FieldLatitude)
	}
	if formatCoordinate(before.Longitude) != formatCoordinate(after.Longitude) {
		changed = append(changed, model.FieldLongitude)
	}
	if strings.Join(before.Documents, "\x00") != strings.Join(after.Documents, "\x00") {
		changed = append(changed, model.FieldDocuments)
	}
	sort.Strings(changed)
	return changed
}
