package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/goliatone/go-ekonde/pkg/auth"
	"github.com/goliatone/go-ekonde/pkg/draft"
	"github.com/goliatone/go-ekonde/pkg/location"
	"github.com/goliatone/go-ekonde/pkg/model"
	"github.com/goliatone/go-ekonde/pkg/notify"
	"github.com/goliatone/go-ekonde/pkg/session"
	"github.com/goliatone/go-ekonde/pkg/validation"
)

// Navigation menu entries.
const (
	choiceContinue = "Continue"
	choiceBack     = "Back"
	choiceRestart  = "Start over"
	choiceCancel   = "Cancel"
)

// Wizard drives a session's application wizard through terminal prompts.
// It only talks to the session, so every rule the web pages follow applies
// here too.
type Wizard struct {
	driver          Driver
	geolocator      location.Geolocator
	accounts        auth.Service
	suggestDistrict func(string) []string
	logger          *slog.Logger
	out             io.Writer
	theme           Theme
}

// New returns a Wizard using survey unless a driver is supplied.
func New(opts ...Option) *Wizard {
	w := &Wizard{logger: defaultLogger(), theme: DefaultTheme()}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	if w.driver == nil {
		w.driver = NewSurveyDriver()
	}
	return w
}

// Run offers the account menu when an auth service is configured, then walks
// the wizard until the application is submitted, the user cancels
// (ErrCancelled) or aborts (ErrAborted), or ctx is done.
func (w *Wizard) Run(ctx context.Context, sess *session.Session) (model.SubmissionResult, error) {
	if err := w.signIn(ctx, sess); err != nil {
		return model.SubmissionResult{}, err
	}
	sess.OpenWizard()
	for {
		if err := ctx.Err(); err != nil {
			return model.SubmissionResult{}, err
		}
		view := sess.View()
		if err := w.info(ctx, fmt.Sprintf("Step %d of %d: %s", view.Step.ID, view.StepCount, view.Step.Heading)); err != nil {
			return model.SubmissionResult{}, err
		}

		if view.IsTerminal {
			result, done, err := w.review(ctx, sess, view)
			if err != nil || done {
				return result, err
			}
			continue
		}

		var err error
		switch view.Step.ID {
		case model.StepApplicationType:
			err = w.askType(ctx, sess, view)
		case model.StepDocuments:
			err = w.askDocuments(ctx, sess, view)
		default:
			err = w.askFields(ctx, sess, view)
			if err == nil && view.Step.ID == model.StepLocation {
				err = w.askLocation(ctx, sess)
			}
		}
		if err != nil {
			return model.SubmissionResult{}, err
		}
		if err := w.flush(ctx, sess); err != nil {
			return model.SubmissionResult{}, err
		}
		if err := w.navigate(ctx, sess, view); err != nil {
			return model.SubmissionResult{}, err
		}
	}
}

func (w *Wizard) navigate(ctx context.Context, sess *session.Session, view session.View) error {
	options := []string{choiceContinue}
	if !view.IsFirst {
		options = append(options, choiceBack)
	}
	options = append(options, choiceCancel)

	idx, err := w.driver.Select(ctx, SelectConfig{Message: "What next?", Options: options})
	if err != nil {
		return err
	}
	switch choice(options, idx) {
	case choiceContinue:
		moved, err := sess.Next()
		if err != nil && !errors.Is(err, validation.ErrValidation) {
			return err
		}
		if moved {
			w.logger.Debug("wizard advanced", slog.Int("step", int(sess.Step())))
		}
		return w.flush(ctx, sess)
	case choiceBack:
		sess.Back()
		return nil
	default:
		return ErrCancelled
	}
}

func (w *Wizard) askType(ctx context.Context, sess *session.Session, view session.View) error {
	types := sess.Catalog().ApplicationTypes
	options := make([]string, len(types))
	current := 0
	for i, t := range types {
		options[i] = fmt.Sprintf("%s (UGX %s)", t.Title, t.FeeLabel())
		if t.ID == view.Draft.ApplicationType {
			current = i
		}
	}
	idx, err := w.driver.Select(ctx, SelectConfig{
		Message:      view.Step.Title,
		Options:      options,
		DefaultIndex: current,
		Help:         view.Step.Description,
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(types) {
		return nil
	}
	_, err = sess.MergeFields(draft.Patch{model.FieldApplicationType: string(types[idx].ID)})
	return err
}

func (w *Wizard) askFields(ctx context.Context, sess *session.Session, view session.View) error {
	for _, field := range view.Step.Fields {
		current, _ := view.Draft.Text(field.Name)
		var (
			value string
			err   error
		)
		if field.Type == model.FieldTypeText {
			value, err = w.driver.TextArea(ctx, TextAreaConfig{Message: field.Label, Default: current, Help: field.Placeholder})
		} else {
			cfg := InputConfig{Message: field.Label, Default: current, Help: field.Placeholder}
			if field.Name == model.FieldDistrict && w.suggestDistrict != nil {
				cfg.Suggest = w.suggestDistrict
			}
			if field.Type == model.FieldTypeEmail {
				cfg.Validator = optionalEmail
			}
			value, err = w.driver.Input(ctx, cfg)
		}
		if err != nil {
			return err
		}
		if _, err := sess.MergeFields(draft.Patch{field.Name: strings.TrimSpace(value)}); err != nil {
			return err
		}
	}
	return nil
}

func optionalEmail(value string) error {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return validation.Email(value)
}

func (w *Wizard) askLocation(ctx context.Context, sess *session.Session) error {
	if w.geolocator != nil {
		useDevice, err := w.driver.Confirm(ctx, ConfirmConfig{Message: "Use your current location?", Default: true})
		if err != nil {
			return err
		}
		if useDevice {
			if err := sess.RequestLocation(ctx, w.geolocator); err == nil {
				return w.flush(ctx, sess)
			} else if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if err := w.flush(ctx, sess); err != nil {
				return err
			}
		}
	}

	for {
		manual, err := w.driver.Confirm(ctx, ConfirmConfig{Message: "Enter GPS coordinates manually?"})
		if err != nil || !manual {
			return err
		}
		lat, lng := sess.View().Location.Latitude, sess.View().Location.Longitude
		if lat, err = w.driver.Input(ctx, InputConfig{Message: "Latitude", Default: lat, Help: "e.g., 0.3476"}); err != nil {
			return err
		}
		if lng, err = w.driver.Input(ctx, InputConfig{Message: "Longitude", Default: lng, Help: "e.g., 32.5825"}); err != nil {
			return err
		}
		failed := sess.ManualLocation(lat, lng) != nil
		if err := w.flush(ctx, sess); err != nil {
			return err
		}
		if !failed {
			return nil
		}
	}
}

func (w *Wizard) askDocuments(ctx context.Context, sess *session.Session, view session.View) error {
	docs := sess.Catalog().Documents
	options := make([]string, len(docs.Requirements))
	var defaults []int
	for i, req := range docs.Requirements {
		options[i] = req.Label
		if slices.Contains(view.Draft.Documents, req.ID) {
			defaults = append(defaults, i)
		}
	}
	picked, err := w.driver.MultiSelect(ctx, SelectConfig{
		Message:  "Documents you have ready",
		Options:  options,
		Defaults: defaults,
		Help:     fmt.Sprintf("Accepted formats: %s (max %dMB each)", docs.FormatsLabel(), docs.MaxSizeMB),
	})
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(picked))
	for _, idx := range picked {
		if idx >= 0 && idx < len(docs.Requirements) {
			ids = append(ids, docs.Requirements[idx].ID)
		}
	}
	_, err = sess.MergeFields(draft.Patch{model.FieldDocuments: ids})
	return err
}

// review prints the summary and asks for the final action. done reports
// that Run should return.
func (w *Wizard) review(ctx context.Context, sess *session.Session, view session.View) (model.SubmissionResult, bool, error) {
	box := RenderReview(view.Review, w.theme)
	if w.out != nil {
		if _, err := fmt.Fprintln(w.out, box); err != nil {
			return model.SubmissionResult{}, true, err
		}
	} else if err := w.driver.Info(ctx, box); err != nil {
		return model.SubmissionResult{}, true, err
	}

	options := []string{view.Review.Submit, choiceBack, choiceRestart, choiceCancel}
	idx, err := w.driver.Select(ctx, SelectConfig{Message: "Ready to submit?", Options: options})
	if err != nil {
		return model.SubmissionResult{}, true, err
	}

	switch choice(options, idx) {
	case view.Review.Submit:
		result, err := sess.Submit(ctx)
		if flushErr := w.flush(ctx, sess); flushErr != nil && err == nil {
			err = flushErr
		}
		if err != nil {
			return model.SubmissionResult{}, true, err
		}
		w.logger.Info("application submitted", slog.String("confirmation_id", result.ConfirmationID))
		return result, true, nil
	case choiceBack:
		sess.Back()
	case choiceRestart:
		sess.Restart()
	default:
		return model.SubmissionResult{}, true, ErrCancelled
	}
	return model.SubmissionResult{}, false, nil
}

// flush prints pending notices.
func (w *Wizard) flush(ctx context.Context, sess *session.Session) error {
	for _, n := range sess.DrainNotices() {
		if err := w.info(ctx, w.formatNotice(n)); err != nil {
			return err
		}
	}
	return nil
}

func (w *Wizard) formatNotice(n notify.Notification) string {
	prefix := w.theme.InfoPrefix
	switch n.Kind {
	case notify.KindSuccess:
		prefix = w.theme.SuccessPrefix
	case notify.KindError:
		prefix = w.theme.ErrorPrefix
	}
	line := strings.TrimSpace(prefix + " " + n.Title)
	if n.Description != "" {
		line += "\n  " + n.Description
	}
	return line
}

func (w *Wizard) info(ctx context.Context, msg string) error {
	return w.driver.Info(ctx, msg)
}

func choice(options []string, idx int) string {
	if idx < 0 || idx >= len(options) {
		return ""
	}
	return options[idx]
}
