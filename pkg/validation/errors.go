package validation

import (
	"errors"
	"strings"
)

// ErrValidation is matched by every *Error via errors.Is.
var ErrValidation = errors.New("validation error")

// Error reports malformed or out-of-range user input. Field carries the draft
// or form field name the message belongs to; an empty Field is form-level.
type Error struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	if e == nil {
		return ErrValidation.Error()
	}
	return e.Message
}

// Is lets callers test with errors.Is(err, ErrValidation).
func (e *Error) Is(target error) bool {
	return target == ErrValidation
}

func newError(field, message string) *Error {
	return &Error{Field: field, Message: message}
}

// Issues aggregates several validation errors. The zero value is empty.
type Issues []*Error

func (i Issues) Error() string {
	msgs := make([]string, 0, len(i))
	for _, issue := range i {
		if issue == nil {
			continue
		}
		msgs = append(msgs, issue.Message)
	}
	return strings.Join(msgs, "; ")
}

// Is lets callers test with errors.Is(err, ErrValidation).
func (i Issues) Is(target error) bool {
	return target == ErrValidation && len(i) > 0
}

// Add appends err when it is a validation error. Other errors are ignored.
func (i *Issues) Add(err error) {
	if err == nil {
		return
	}
	var single *Error
	if errors.As(err, &single) && single != nil {
		*i = append(*i, single)
		return
	}
	var many Issues
	if errors.As(err, &many) {
		*i = append(*i, many...)
	}
}

// Err returns nil for an empty set so callers can return it directly.
func (i Issues) Err() error {
	if len(i) == 0 {
		return nil
	}
	return i
}

// Fields groups messages by field name in the shape the page renderer's
// error mapping consumes. Form-level messages are keyed by "form".
func (i Issues) Fields() map[string][]string {
	if len(i) == 0 {
		return nil
	}
	out := make(map[string][]string, len(i))
	for _, issue := range i {
		if issue == nil {
			continue
		}
		key := issue.Field
		if key == "" {
			key = "form"
		}
		out[key] = append(out[key], issue.Message)
	}
	return out
}

// AsIssues normalises any validation error into an Issues slice.
func AsIssues(err error) Issues {
	var out Issues
	out.Add(err)
	return out
}
