package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/goliatone/go-ekonde/pkg/render"
)

// HTTPError is an error that knows its response status.
type HTTPError interface {
	error
	StatusCode() int
}

// StatusError pairs an error with an HTTP status.
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

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

func statusOf(err error) int {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode()
	}
	return http.StatusInternalServerError
}

// writeError renders the error page (or JSON for API clients). Server-side
// failures are logged and their detail hidden from the visitor.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusOf(err)
	message := http.StatusText(code)
	if code < http.StatusInternalServerError {
		message = err.Error()
	} else {
		s.logger.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
	}
	s.renderStatus(w, r, code, render.PageError, render.PageData{
		Title:   http.StatusText(code),
		Content: errorContent{Status: code, Message: message},
	})
}
