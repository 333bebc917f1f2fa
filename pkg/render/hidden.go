package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-ekonde/pkg/model"
)

// Hidden field names posted by the wizard and sign-in forms.
const (
	HiddenStep   = "step"
	HiddenReturn = "return"
)

// HiddenField is a hidden input rendered before a form's visible controls.
type HiddenField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Hidden formats value with fmt.Sprint.
func Hidden(name string, value any) HiddenField {
	return HiddenField{Name: strings.TrimSpace(name), Value: fmt.Sprint(value)}
}

// StepField records the wizard step a form was rendered for. Posts carrying
// an older step are stale (double click, browser back) and are ignored.
func StepField(step model.StepID) HiddenField {
	return Hidden(HiddenStep, int(step))
}

// ReturnField carries the local path to continue to after sign-in.
func ReturnField(path string) HiddenField {
	return Hidden(HiddenReturn, path)
}

// NormalizeHidden drops unnamed fields, keeps the last value per name and
// orders the result by name.
func NormalizeHidden(fields []HiddenField) []HiddenField {
	byName := make(map[string]string, len(fields))
	for _, f := range fields {
		if name := strings.TrimSpace(f.Name); name != "" {
			byName[name] = f.Value
		}
	}
	if len(byName) == 0 {
		return nil
	}
	out := make([]HiddenField, 0, len(byName))
	for name, value := range byName {
		out = append(out, HiddenField{Name: name, Value: value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
