package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/goliatone/go-ekonde/pkg/auth"
	"github.com/goliatone/go-ekonde/pkg/location"
	"github.com/goliatone/go-ekonde/pkg/model"
	"github.com/goliatone/go-ekonde/pkg/registry"
	"github.com/goliatone/go-ekonde/pkg/render"
	"github.com/goliatone/go-ekonde/pkg/validation"
)

// APIPrefix is where the versioned JSON API is mounted.
const APIPrefix = "/api/v1"

type apiErrorBody struct {
	Status int                 `json:"status"`
	Error  string              `json:"error"`
	Errors render.ErrorMapping `json:"errors"`
}

type apiIdentity struct {
	User    model.User    `json:"user"`
	Profile model.Profile `json:"profile"`
}

var apiFields = append(append([]string{}, draftFieldNames...), loginFields...)

func (s *Server) registerAPI(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(openAPIDocument)
	})

	route := func(pattern string, h http.HandlerFunc) {
		method, path, _ := strings.Cut(pattern, " ")
		mux.HandleFunc(method+" "+APIPrefix+path, s.guard(apiFields, h))
	}

	route("GET /catalog/application-types", s.apiApplicationTypes)
	route("GET /application", s.apiApplication)
	route("PATCH /application/fields", s.apiMergeFields)
	route("POST /application/next", s.apiNext)
	route("POST /application/back", s.apiBack)
	route("POST /application/restart", s.apiRestart)
	route("POST /application/submit", s.apiSubmit)
	route("POST /application/location/device", s.apiDeviceLocation)
	route("POST /application/location/manual", s.apiManualLocation)
	route("POST /auth/signin", s.apiSignIn)
	route("POST /auth/signup", s.apiSignUp)
	route("POST /auth/signout", s.apiSignOut)
	route("GET /dashboard", s.apiDashboard)
	route("GET /track/{id}", s.apiTrack)
	route("GET /verify", s.apiVerify)
}

func (s *Server) apiError(w http.ResponseWriter, err error) {
	code := statusOf(err)
	body := apiErrorBody{Status: code, Error: http.StatusText(code)}
	if issues := validation.AsIssues(err); len(issues) > 0 {
		code = http.StatusUnprocessableEntity
		body.Status = code
		body.Error = http.StatusText(code)
		body.Errors = render.MapErrorPayload(apiFields, issues.Fields())
	} else if code < http.StatusInternalServerError {
		body.Errors.Form = render.MergeFormErrors(nil, err.Error())
	} else {
		s.logger.Error("api request failed", slog.Any("error", err))
	}
	writeJSON(w, code, body)
}

func (s *Server) apiApplicationTypes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.ApplicationTypes)
}

func (s *Server) apiApplication(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Ensure(w, r)
	sess.OpenWizard()
	writeJSON(w, http.StatusOK, sess.View())
}

func (s *Server) apiMergeFields(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Ensure(w, r)
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.apiError(w, StatusError{Code: http.StatusBadRequest, Err: errors.New("malformed JSON body")})
		return
	}
	changed, err := sess.MergeFields(jsonPatch(body))
	if err != nil {
		s.countIssues(err)
		s.apiError(w, err)
		return
	}
	if changed == nil {
		changed = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"changed": changed, "application": sess.View()})
}

func (s *Server) countIssues(err error) {
	for _, issue := range validation.AsIssues(err) {
		s.metrics.ValidationFailure(issue.Field)
	}
}

func (s *Server) apiNext(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Ensure(w, r)
	moved, err := sess.Next()
	if err != nil {
		s.countIssues(err)
		s.apiError(w, err)
		return
	}
	if moved {
		s.metrics.Transition("next")
	}
	writeJSON(w, http.StatusOK, sess.View())
}

func (s *Server) apiBack(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Ensure(w, r)
	if sess.Back() {
		s.metrics.Transition("back")
	}
	writeJSON(w, http.StatusOK, sess.View())
}

func (s *Server) apiRestart(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Ensure(w, r)
	sess.Restart()
	s.metrics.Transition("restart")
	writeJSON(w, http.StatusOK, sess.View())
}

func (s *Server) apiSubmit(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Ensure(w, r)
	result, err := s.submit(r.Context(), sess)
	if err != nil {
		s.apiError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"result":  result,
		"notices": sess.DrainNotices(),
	})
}

func (s *Server) apiDeviceLocation(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Ensure(w, r)
	var fix location.BrowserFix
	if err := json.NewDecoder(r.Body).Decode(&fix); err != nil {
		s.apiError(w, StatusError{Code: http.StatusBadRequest, Err: errors.New("malformed JSON body")})
		return
	}
	if err := sess.RequestLocation(r.Context(), fix); err != nil {
		var capErr *location.CapabilityError
		if errors.As(err, &capErr) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"reason":   capErr.Reason,
				"notices":  sess.DrainNotices(),
				"location": sess.View().Location,
			})
			return
		}
		s.apiError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"location": sess.View().Location})
}

func (s *Server) apiManualLocation(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Ensure(w, r)
	var body struct {
		Latitude  string `json:"latitude"`
		Longitude string `json:"longitude"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.apiError(w, StatusError{Code: http.StatusBadRequest, Err: errors.New("malformed JSON body")})
		return
	}
	if err := sess.ManualLocation(body.Latitude, body.Longitude); err != nil {
		s.countIssues(err)
		s.apiError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"location": sess.View().Location})
}

func decodeCredentials(r *http.Request) (validation.Credentials, error) {
	var form validation.Credentials
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		return form, StatusError{Code: http.StatusBadRequest, Err: errors.New("malformed JSON body")}
	}
	form.Email = strings.TrimSpace(form.Email)
	form.FullName = render.SanitizeText(form.FullName)
	form.Phone = render.SanitizeText(form.Phone)
	form.NIN = render.SanitizeText(form.NIN)
	return form, nil
}

func (s *Server) apiSignIn(w http.ResponseWriter, r *http.Request) {
	s.apiAuth(w, r, "signin")
}

func (s *Server) apiSignUp(w http.ResponseWriter, r *http.Request) {
	s.apiAuth(w, r, "signup")
}

func (s *Server) apiAuth(w http.ResponseWriter, r *http.Request, action string) {
	sess := s.sessions.Ensure(w, r)
	form, err := decodeCredentials(r)
	if err != nil {
		s.apiError(w, err)
		return
	}

	var result auth.Session
	title := auth.TitleSignedIn
	if action == "signup" {
		title = auth.TitleSignedUp
		result, err = auth.SignUp(r.Context(), s.auth, form)
	} else {
		result, err = auth.SignIn(r.Context(), s.auth, form)
	}
	if err != nil {
		s.recordAuthFailure(action, err)
		if len(validation.AsIssues(err)) > 0 {
			s.apiError(w, err)
			return
		}
		code := authStatus(err)
		writeJSON(w, code, apiErrorBody{
			Status: code,
			Error:  http.StatusText(code),
			Errors: render.ErrorMapping{Form: []string{auth.Message(err)}},
		})
		return
	}

	s.metrics.Auth(action, "ok")
	sess.Authenticate(result, title)
	writeJSON(w, http.StatusOK, map[string]any{
		"identity": apiIdentity{User: result.User, Profile: result.Profile},
		"notices":  sess.DrainNotices(),
	})
}

func authStatus(err error) int {
	switch auth.KindOf(err) {
	case auth.KindInvalidCredentials:
		return http.StatusUnauthorized
	case auth.KindAlreadyRegistered:
		return http.StatusConflict
	case auth.KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) apiSignOut(w http.ResponseWriter, r *http.Request) {
	if sess, ok := s.sessions.Lookup(r); ok {
		if token := sess.Teardown(); token != "" {
			if err := s.auth.SignOut(r.Context(), token); err != nil {
				s.logger.Warn("sign out", slog.Any("error", err))
			}
		}
		s.sessions.Destroy(w, sess)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) apiDashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.registry.Dashboard())
}

func (s *Server) apiTrack(w http.ResponseWriter, r *http.Request) {
	result, err := s.registry.Track(r.PathValue("id"))
	if err != nil {
		s.apiError(w, StatusError{Code: http.StatusBadRequest, Err: err})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) apiVerify(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	result, err := s.registry.Verify(query.Get("q"), registry.ParseSearchType(query.Get("type")))
	if err != nil {
		s.apiError(w, StatusError{Code: http.StatusBadRequest, Err: err})
		return
	}
	writeJSON(w, http.StatusOK, result)
}
