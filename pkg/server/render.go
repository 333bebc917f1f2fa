package server

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/goliatone/go-ekonde/pkg/model"
	"github.com/goliatone/go-ekonde/pkg/render"
	"github.com/goliatone/go-ekonde/pkg/session"
)

// page renders p with the common chrome (navigation, viewer, pending
// notices) filled in from sess.
func (s *Server) page(w http.ResponseWriter, r *http.Request, sess *session.Session, p render.Page, data render.PageData) {
	s.renderStatus(w, r, http.StatusOK, p, s.decorate(r, sess, data))
}

func (s *Server) decorate(r *http.Request, sess *session.Session, data render.PageData) render.PageData {
	data.Path = r.URL.Path
	data.Nav = render.Navigation(r.URL.Path)
	if sess != nil {
		view := s.identity(r, sess)
		data.Viewer = view
		data.Notices = append(data.Notices, sess.DrainNotices()...)
	}
	return data
}

func (s *Server) renderStatus(w http.ResponseWriter, r *http.Request, code int, p render.Page, data render.PageData) {
	renderer, err := s.renderers.Negotiate(r.Header.Get("Accept"))
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	body, err := renderer.Render(r.Context(), p, data)
	if err != nil {
		s.logger.Error("render", slog.String("page", string(p)), slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", renderer.ContentType())
	w.WriteHeader(code)
	if r.Method != http.MethodHead {
		_, _ = w.Write(body)
	}
}

// identity resolves the navbar identity, tearing the session down when the
// auth collaborator no longer recognises its token.
func (s *Server) identity(r *http.Request, sess *session.Session) render.Viewer {
	anonymous := render.Viewer{DisplayName: model.DisplayName(nil, nil)}
	token := sess.Token()
	if token == "" {
		return anonymous
	}
	if _, _, ok := s.auth.Current(r.Context(), token); !ok {
		sess.Teardown()
		return anonymous
	}
	user, profile, ok := sess.Identity()
	if !ok {
		return anonymous
	}
	return render.Viewer{Authenticated: true, DisplayName: model.DisplayName(user, profile)}
}

// wantsJSON reports whether the client asked for a JSON response rather
// than a redirect.
func wantsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}

// redirect sends a 303 so the browser re-requests the target with GET.
func redirect(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// safeReturn accepts only local absolute paths.
func safeReturn(raw, fallback string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.Contains(raw, "\\") {
		return fallback
	}
	return raw
}
