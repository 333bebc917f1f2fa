package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/goliatone/go-ekonde/pkg/draft"
	"github.com/goliatone/go-ekonde/pkg/location"
	"github.com/goliatone/go-ekonde/pkg/model"
	"github.com/goliatone/go-ekonde/pkg/notify"
	"github.com/goliatone/go-ekonde/pkg/render"
	"github.com/goliatone/go-ekonde/pkg/session"
	"github.com/goliatone/go-ekonde/pkg/submission"
	"github.com/goliatone/go-ekonde/pkg/validation"
)

// Notice shown when a second submit arrives while one is in flight.
const titleSubmissionBusy = "Your application is already being submitted"

type typeChoice struct {
	model.ApplicationType
	Selected bool `json:"selected"`
}

type fieldView struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	InputType   string   `json:"inputType"`
	Label       string   `json:"label"`
	Placeholder string   `json:"placeholder,omitempty"`
	Uppercase   bool     `json:"uppercase,omitempty"`
	Value       string   `json:"value"`
	Errors      []string `json:"errors,omitempty"`
}

type documentChoice struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Checked bool   `json:"checked"`
}

type applyContent struct {
	Wizard    session.View     `json:"wizard"`
	Types     []typeChoice     `json:"types"`
	Fields    []fieldView      `json:"fields"`
	Documents []documentChoice `json:"documents"`
	Formats   string           `json:"formats"`
	MaxSizeMB int              `json:"maxSizeMB"`
}

func (s *Server) applyContent(view session.View, errs render.ErrorMapping) applyContent {
	content := applyContent{
		Wizard:    view,
		Formats:   s.catalog.Documents.FormatsLabel(),
		MaxSizeMB: s.catalog.Documents.MaxSizeMB,
	}
	for _, t := range s.catalog.ApplicationTypes {
		content.Types = append(content.Types, typeChoice{ApplicationType: t, Selected: t.ID == view.Draft.ApplicationType})
	}
	for _, f := range view.Step.Fields {
		value, _ := view.Draft.Text(f.Name)
		content.Fields = append(content.Fields, fieldView{
			Name:        f.Name,
			Type:        string(f.Type),
			InputType:   inputType(f.Type),
			Label:       f.Label,
			Placeholder: f.Placeholder,
			Uppercase:   f.Uppercase,
			Value:       value,
			Errors:      errs.Fields[f.Name],
		})
	}
	for _, req := range s.catalog.Documents.Requirements {
		content.Documents = append(content.Documents, documentChoice{
			ID:      req.ID,
			Label:   req.Label,
			Checked: slices.Contains(view.Draft.Documents, req.ID),
		})
	}
	return content
}

func inputType(t model.FieldType) string {
	switch t {
	case model.FieldTypeNumber:
		return "number"
	case model.FieldTypePhone:
		return "tel"
	case model.FieldTypeEmail:
		return "email"
	case model.FieldTypePassword:
		return "password"
	default:
		return "text"
	}
}

func (s *Server) renderApply(w http.ResponseWriter, r *http.Request, sess *session.Session, code int, errs render.ErrorMapping) {
	view := sess.View()
	data := s.decorate(r, sess, render.PageData{
		Title:   "Apply",
		Errors:  errs,
		Hidden:  []render.HiddenField{render.StepField(view.Step.ID)},
		Content: s.applyContent(view, errs),
	})
	s.renderStatus(w, r, code, render.PageApply, data)
}

func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Ensure(w, r)
	sess.OpenWizard()
	s.renderApply(w, r, sess, http.StatusOK, render.ErrorMapping{})
}

// draftFieldNames are the inputs a wizard form may carry.
var draftFieldNames = append(append([]string{}, model.TextFields...),
	model.FieldDocuments, model.FieldLatitude, model.FieldLongitude, validation.FieldCoordinates)

// formPatch collects the draft fields present in form. Free text is
// sanitised. The documents checklist is only taken from the documents step,
// where an absent key means nothing is ticked.
func formPatch(form url.Values) draft.Patch {
	patch := draft.Patch{}
	for _, name := range model.TextFields {
		if values, ok := form[name]; ok && len(values) > 0 {
			patch[name] = render.SanitizeText(values[len(values)-1])
		}
	}
	for _, name := range []string{model.FieldLatitude, model.FieldLongitude} {
		if value := strings.TrimSpace(form.Get(name)); value != "" {
			patch[name] = value
		}
	}
	if form.Get(render.HiddenStep) == strconv.Itoa(int(model.StepDocuments)) {
		patch[model.FieldDocuments] = append([]string{}, form[model.FieldDocuments]...)
	}
	return patch
}

// jsonPatch converts a decoded JSON object into a patch, sanitising
// strings.
func jsonPatch(body map[string]any) draft.Patch {
	patch := draft.Patch{}
	for key, value := range body {
		if text, ok := value.(string); ok {
			patch[key] = render.SanitizeText(text)
			continue
		}
		patch[key] = value
	}
	return patch
}

// staleStep reports whether the form was rendered for a different step than
// the current one, e.g. after a double click.
func staleStep(r *http.Request, sess *session.Session) bool {
	posted := strings.TrimSpace(r.PostForm.Get(render.HiddenStep))
	if posted == "" {
		return false
	}
	return posted != strconv.Itoa(int(sess.Step()))
}

func isJSON(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

// mergeFailed records and renders a rejected merge. It reports whether it
// handled err.
func (s *Server) mergeFailed(w http.ResponseWriter, r *http.Request, sess *session.Session, err error) bool {
	if err == nil {
		return false
	}
	issues := validation.AsIssues(err)
	if len(issues) == 0 {
		s.writeError(w, r, err)
		return true
	}
	for _, issue := range issues {
		s.metrics.ValidationFailure(issue.Field)
		sess.Notify(notify.Error(issue.Message, ""))
	}
	s.renderApply(w, r, sess, http.StatusUnprocessableEntity, render.MapErrorPayload(draftFieldNames, issues.Fields()))
	return true
}

func (s *Server) handleApplyField(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Ensure(w, r)

	var patch draft.Patch
	if isJSON(r) {
		var body map[string]any
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&body); err != nil {
			s.writeError(w, r, StatusError{Code: http.StatusBadRequest, Err: errors.New("malformed JSON body")})
			return
		}
		patch = jsonPatch(body)
	} else {
		if err := r.ParseForm(); err != nil {
			s.writeError(w, r, StatusError{Code: http.StatusBadRequest, Err: errors.New("malformed form")})
			return
		}
		patch = formPatch(r.PostForm)
	}

	changed, err := sess.MergeFields(patch)
	if err != nil {
		issues := validation.AsIssues(err)
		for _, issue := range issues {
			s.metrics.ValidationFailure(issue.Field)
		}
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"errors": render.MapErrorPayload(draftFieldNames, issues.Fields()),
		})
		return
	}
	if changed == nil {
		changed = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"changed": changed})
}

func (s *Server) handleApplyNext(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Ensure(w, r)
	if err := r.ParseForm(); err != nil {
		s.writeError(w, r, StatusError{Code: http.StatusBadRequest, Err: errors.New("malformed form")})
		return
	}
	if staleStep(r, sess) {
		redirect(w, r, "/apply")
		return
	}
	if _, err := sess.MergeFields(formPatch(r.PostForm)); s.mergeFailed(w, r, sess, err) {
		return
	}

	moved, err := sess.Next()
	if err != nil {
		issues := validation.AsIssues(err)
		for _, issue := range issues {
			s.metrics.ValidationFailure(issue.Field)
		}
		s.renderApply(w, r, sess, http.StatusUnprocessableEntity, render.MapErrorPayload(draftFieldNames, issues.Fields()))
		return
	}
	if moved {
		s.metrics.Transition("next")
	}
	redirect(w, r, "/apply")
}

func (s *Server) handleApplyBack(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Ensure(w, r)
	if err := r.ParseForm(); err != nil {
		s.writeError(w, r, StatusError{Code: http.StatusBadRequest, Err: errors.New("malformed form")})
		return
	}
	if staleStep(r, sess) {
		redirect(w, r, "/apply")
		return
	}
	if _, err := sess.MergeFields(formPatch(r.PostForm)); s.mergeFailed(w, r, sess, err) {
		return
	}
	if sess.Back() {
		s.metrics.Transition("back")
	}
	redirect(w, r, "/apply")
}

func (s *Server) handleApplyRestart(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Ensure(w, r)
	sess.Restart()
	s.metrics.Transition("restart")
	redirect(w, r, "/apply")
}

func (s *Server) handleApplySubmit(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Ensure(w, r)
	if err := r.ParseForm(); err != nil {
		s.writeError(w, r, StatusError{Code: http.StatusBadRequest, Err: errors.New("malformed form")})
		return
	}
	if staleStep(r, sess) {
		redirect(w, r, "/apply")
		return
	}

	result, err := s.submit(r.Context(), sess)
	if err != nil {
		if wantsJSON(r) {
			s.writeError(w, r, err)
			return
		}
		redirect(w, r, "/apply")
		return
	}
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, result)
		return
	}
	redirect(w, r, result.Redirect)
}

// submit runs the session pipeline and records the outcome. Returned errors
// carry an HTTP status.
func (s *Server) submit(ctx context.Context, sess *session.Session) (model.SubmissionResult, error) {
	result, err := sess.Submit(ctx)
	switch {
	case err == nil:
		s.metrics.Submission("success")
		s.logger.Info("application submitted",
			slog.String("confirmation_id", result.ConfirmationID),
			slog.String("session", sess.ID()),
		)
		return result, nil
	case errors.Is(err, session.ErrNotReady):
		s.metrics.Submission("not_ready")
		return result, StatusError{Code: http.StatusConflict, Err: err}
	case errors.Is(err, submission.ErrBusy):
		s.metrics.Submission("busy")
		sess.Notify(notify.Error(titleSubmissionBusy, ""))
		return result, StatusError{Code: http.StatusConflict, Err: err}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		s.metrics.Submission("cancelled")
		s.logger.Warn("submission cancelled", slog.String("session", sess.ID()))
		return result, StatusError{Code: http.StatusRequestTimeout, Err: err}
	default:
		s.metrics.Submission("error")
		return result, err
	}
}

func (s *Server) handleLocationDevice(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Ensure(w, r)

	var fix location.BrowserFix
	if isJSON(r) {
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4<<10)).Decode(&fix); err != nil {
			s.writeError(w, r, StatusError{Code: http.StatusBadRequest, Err: errors.New("malformed JSON body")})
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			s.writeError(w, r, StatusError{Code: http.StatusBadRequest, Err: errors.New("malformed form")})
			return
		}
		fix = browserFixFromForm(r.PostForm)
	}

	err := sess.RequestLocation(r.Context(), fix)
	if err != nil {
		var capErr *location.CapabilityError
		if errors.As(err, &capErr) {
			s.logger.Info("device location unavailable", slog.String("reason", string(capErr.Reason)))
		}
	}
	if isJSON(r) || wantsJSON(r) {
		code := http.StatusOK
		if err != nil {
			code = http.StatusUnprocessableEntity
		}
		writeJSON(w, code, map[string]any{"location": sess.View().Location})
		return
	}
	redirect(w, r, "/apply#location")
}

// browserFixFromForm reads the no-script fallback post. A code that is not a
// number counts as position unavailable; coordinates that are blank or not
// numbers stay nil so Locate rejects the fix.
func browserFixFromForm(form url.Values) location.BrowserFix {
	fix := location.BrowserFix{
		Supported: form.Get("supported") != "false",
		Message:   form.Get("message"),
		Latitude:  formFloat(form, model.FieldLatitude),
		Longitude: formFloat(form, model.FieldLongitude),
	}
	if raw := strings.TrimSpace(form.Get("code")); raw != "" {
		code, err := strconv.Atoi(raw)
		if err != nil {
			code = location.BrowserCodePositionUnavailable
		}
		fix.Code = code
	}
	return fix
}

func formFloat(form url.Values, name string) *float64 {
	raw := strings.TrimSpace(form.Get(name))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

func (s *Server) handleLocationManual(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Ensure(w, r)
	if err := r.ParseForm(); err != nil {
		s.writeError(w, r, StatusError{Code: http.StatusBadRequest, Err: errors.New("malformed form")})
		return
	}
	if err := sess.ManualLocation(r.PostForm.Get(model.FieldLatitude), r.PostForm.Get(model.FieldLongitude)); err != nil {
		s.metrics.ValidationFailure(validation.FieldCoordinates)
		errs := render.MapErrorPayload(draftFieldNames, validation.AsIssues(err).Fields())
		s.renderApply(w, r, sess, http.StatusUnprocessableEntity, errs)
		return
	}
	redirect(w, r, "/apply#location")
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(payload)
}
