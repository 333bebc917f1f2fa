// Package validation holds the input checks that gate the auth forms, the
// manual location entry and (optionally) wizard step transitions.
//
// Every failure is a *Error carrying the offending field name and the message
// shown to the citizen; callers match the whole family with
// errors.Is(err, ErrValidation). Checks that can report several problems at
// once return Issues, whose Fields method feeds the page renderer.
package validation
