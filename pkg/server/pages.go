package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/goliatone/go-ekonde/pkg/auth"
	"github.com/goliatone/go-ekonde/pkg/catalog"
	"github.com/goliatone/go-ekonde/pkg/model"
	"github.com/goliatone/go-ekonde/pkg/registry"
	"github.com/goliatone/go-ekonde/pkg/render"
	"github.com/goliatone/go-ekonde/pkg/validation"
)

type homeContent struct {
	Services         []catalog.Service        `json:"services"`
	HowItWorks       []catalog.HowItWorksStep `json:"howItWorks"`
	ApplicationTypes []model.ApplicationType  `json:"applicationTypes"`
}

type loginContent struct {
	SignUp   bool   `json:"signUp"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	NIN      string `json:"nin"`
}

type trackContent struct {
	Query  string                `json:"query"`
	Result *registry.TrackResult `json:"result,omitempty"`
}

type verifyContent struct {
	Query  string                 `json:"query"`
	Type   registry.SearchType    `json:"type"`
	Result *registry.VerifyResult `json:"result,omitempty"`
}

type errorContent struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Ensure(w, r)
	s.page(w, r, sess, render.PageHome, render.PageData{
		Content: homeContent{
			Services:         s.catalog.Services,
			HowItWorks:       s.catalog.HowItWorks,
			ApplicationTypes: s.catalog.ApplicationTypes,
		},
	})
}

func signUpMode(r *http.Request) bool {
	switch strings.ToLower(strings.TrimSpace(r.URL.Query().Get("signup"))) {
	case "", "0", "false", "no":
		return false
	default:
		return true
	}
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Ensure(w, r)
	if s.identity(r, sess).Authenticated {
		redirect(w, r, "/dashboard")
		return
	}
	title := "Sign In"
	if signUpMode(r) {
		title = "Create Account"
	}
	s.page(w, r, sess, render.PageLogin, render.PageData{
		Title:   title,
		Hidden:  []render.HiddenField{render.ReturnField(safeReturn(r.URL.Query().Get("return"), "/dashboard"))},
		Content: loginContent{SignUp: signUpMode(r)},
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Ensure(w, r)
	if err := r.ParseForm(); err != nil {
		s.writeError(w, r, StatusError{Code: http.StatusBadRequest, Err: errors.New("malformed form")})
		return
	}

	form := validation.Credentials{
		Email:           strings.TrimSpace(r.PostForm.Get("email")),
		Password:        r.PostForm.Get("password"),
		ConfirmPassword: r.PostForm.Get("confirmPassword"),
		FullName:        render.SanitizeText(r.PostForm.Get("fullName")),
		Phone:           render.SanitizeText(r.PostForm.Get("phone")),
		NIN:             render.SanitizeText(r.PostForm.Get("nin")),
	}
	signUp := r.PostForm.Get("mode") == "signup"
	back := safeReturn(r.PostForm.Get(render.HiddenReturn), "/dashboard")

	var (
		result auth.Session
		err    error
		action = "signin"
		title  = auth.TitleSignedIn
	)
	if signUp {
		action, title = "signup", auth.TitleSignedUp
		result, err = auth.SignUp(r.Context(), s.auth, form)
	} else {
		result, err = auth.SignIn(r.Context(), s.auth, form)
	}

	if err != nil {
		s.recordAuthFailure(action, err)
		data := render.PageData{
			Title:  "Sign In",
			Hidden: []render.HiddenField{render.ReturnField(back)},
			Content: loginContent{
				SignUp:   signUp,
				Email:    form.Email,
				FullName: form.FullName,
				Phone:    form.Phone,
				NIN:      form.NIN,
			},
		}
		if issues := validation.AsIssues(err); len(issues) > 0 {
			data.Errors = render.MapErrorPayload(loginFields, issues.Fields())
		} else {
			data.Errors.Form = render.MergeFormErrors(nil, auth.Message(err))
		}
		s.renderStatus(w, r, http.StatusUnprocessableEntity, render.PageLogin, s.decorate(r, sess, data))
		return
	}

	s.metrics.Auth(action, "ok")
	sess.Authenticate(result, title)
	redirect(w, r, back)
}

var loginFields = []string{"email", "password", "confirmPassword", model.FieldFullName, model.FieldPhone, model.FieldNIN}

func (s *Server) recordAuthFailure(action string, err error) {
	kind := "validation"
	if !errors.Is(err, validation.ErrValidation) {
		kind = string(auth.KindOf(err))
	}
	s.metrics.Auth(action, kind)
	s.logger.Warn("auth failed",
		slog.String("action", action),
		slog.String("kind", kind),
	)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessions.Lookup(r)
	if ok {
		if token := sess.Teardown(); token != "" {
			if err := s.auth.SignOut(r.Context(), token); err != nil {
				s.logger.Warn("sign out", slog.Any("error", err))
			}
		}
		s.sessions.Destroy(w, sess)
	}
	redirect(w, r, "/")
}

// handleDashboard is public: a visitor who submitted without signing in is
// sent here and greeted with the fallback name.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Ensure(w, r)
	s.page(w, r, sess, render.PageDashboard, render.PageData{
		Title:   "Dashboard",
		Content: s.registry.Dashboard(),
	})
}

func (s *Server) handleTrack(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Ensure(w, r)
	content := trackContent{Query: strings.TrimSpace(r.URL.Query().Get("id"))}
	if content.Query != "" {
		result, err := s.registry.Track(content.Query)
		if err != nil {
			s.writeError(w, r, StatusError{Code: http.StatusBadRequest, Err: err})
			return
		}
		content.Result = &result
	}
	s.page(w, r, sess, render.PageTrack, render.PageData{Title: "Track Application", Content: content})
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Ensure(w, r)
	raw := r.URL.Query().Get("q")
	content := verifyContent{
		Query: strings.TrimSpace(raw),
		Type:  registry.ParseSearchType(r.URL.Query().Get("type")),
	}
	if content.Query != "" {
		result, err := s.registry.Verify(raw, content.Type)
		if err != nil {
			s.writeError(w, r, StatusError{Code: http.StatusBadRequest, Err: err})
			return
		}
		content.Result = &result
	}
	s.page(w, r, sess, render.PageVerify, render.PageData{Title: "Verify Title", Content: content})
}
