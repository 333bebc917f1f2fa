package server

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"

	"github.com/goliatone/go-ekonde/pkg/render"
)

//go:embed openapi.yaml
var openAPIDocument []byte

// OpenAPIDocument returns the embedded description of the JSON API.
func OpenAPIDocument() []byte {
	return append([]byte(nil), openAPIDocument...)
}

// apiValidator checks JSON API requests against the embedded OpenAPI
// document before they reach a handler.
type apiValidator struct {
	doc    *openapi3.T
	router routers.Router
}

func newAPIValidator() (*apiValidator, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(openAPIDocument)
	if err != nil {
		return nil, fmt.Errorf("server: load openapi document: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("server: invalid openapi document: %w", err)
	}
	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("server: openapi router: %w", err)
	}
	return &apiValidator{doc: doc, router: router}, nil
}

// validationFailure is a request the document rejects. Paths are JSON
// pointers such as "/body/email" or "/query/q".
type validationFailure struct {
	status int
	paths  map[string][]string
}

func (f *validationFailure) Error() string {
	parts := make([]string, 0, len(f.paths))
	for path, messages := range f.paths {
		parts = append(parts, path+": "+strings.Join(messages, "; "))
	}
	return "request does not match the API description: " + strings.Join(parts, ", ")
}

// validate finds the operation for r and checks its parameters and body. A
// nil return means r may be served. The body is left readable.
func (v *apiValidator) validate(r *http.Request) *validationFailure {
	route, params, err := v.router.FindRoute(r)
	if err != nil {
		status := http.StatusNotFound
		if errors.Is(err, routers.ErrMethodNotAllowed) {
			status = http.StatusMethodNotAllowed
		}
		return &validationFailure{status: status, paths: map[string][]string{"form": {err.Error()}}}
	}

	input := &openapi3filter.RequestValidationInput{
		Request:    r,
		PathParams: params,
		Route:      route,
		Options: &openapi3filter.Options{
			MultiError:         true,
			AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
		},
	}
	if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
		paths := make(map[string][]string)
		collectFailures(err, paths)
		return &validationFailure{status: http.StatusBadRequest, paths: paths}
	}
	return nil
}

// collectFailures flattens kin-openapi's nested errors into pointer paths.
func collectFailures(err error, into map[string][]string) {
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		for _, inner := range multi {
			collectFailures(inner, into)
		}
		return
	}

	var reqErr *openapi3filter.RequestError
	if errors.As(err, &reqErr) {
		prefix := "/body"
		if reqErr.Parameter != nil {
			prefix = "/" + reqErr.Parameter.In + "/" + reqErr.Parameter.Name
		}
		if reqErr.Err == nil {
			into[prefix] = append(into[prefix], reqErr.Reason)
			return
		}
		var nested openapi3.MultiError
		if errors.As(reqErr.Err, &nested) {
			for _, inner := range nested {
				addSchemaFailure(prefix, inner, into)
			}
			return
		}
		addSchemaFailure(prefix, reqErr.Err, into)
		return
	}

	addSchemaFailure("/body", err, into)
}

func addSchemaFailure(prefix string, err error, into map[string][]string) {
	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		path := prefix
		if pointer := schemaErr.JSONPointer(); len(pointer) > 0 {
			path = prefix + "/" + strings.Join(pointer, "/")
		}
		reason := schemaErr.Reason
		if reason == "" {
			reason = schemaErr.Error()
		}
		into[path] = append(into[path], reason)
		return
	}
	into[prefix] = append(into[prefix], err.Error())
}

// guard wraps an API handler with request validation. Rejections are
// answered with field-keyed errors.
func (s *Server) guard(known []string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if failure := s.api.validate(r); failure != nil {
			for path := range failure.paths {
				s.metrics.ValidationFailure(apiFieldLabel(path, known))
			}
			s.logger.Debug("api request rejected", slog.String("path", r.URL.Path), slog.String("error", failure.Error()))
			writeJSON(w, failure.status, apiErrorBody{
				Status: failure.status,
				Error:  http.StatusText(failure.status),
				Errors: render.MapErrorPayload(known, failure.paths),
			})
			return
		}
		next(w, r)
	}
}

func apiFieldLabel(path string, known []string) string {
	mapping := render.MapErrorPayload(known, map[string][]string{path: {"x"}})
	for field := range mapping.Fields {
		return field
	}
	return "form"
}
