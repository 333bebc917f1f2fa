package prompt

import (
	"context"
	"log/slog"
	"strings"

	"github.com/goliatone/go-ekonde/pkg/auth"
	"github.com/goliatone/go-ekonde/pkg/notify"
	"github.com/goliatone/go-ekonde/pkg/session"
	"github.com/goliatone/go-ekonde/pkg/validation"
)

// Account menu entries.
const (
	choiceGuest   = "Continue as guest"
	choiceSignIn  = "Sign in"
	choiceSignUp  = "Create account"
	accountPrompt = "Sign in to pre-fill your details?"
)

// signIn offers the account menu until the user signs in, creates an account
// or picks guest. Auth failures are printed and the menu is shown again.
func (w *Wizard) signIn(ctx context.Context, sess *session.Session) error {
	if w.accounts == nil {
		return nil
	}
	if _, _, ok := sess.Identity(); ok {
		return nil
	}
	options := []string{choiceGuest, choiceSignIn, choiceSignUp}
	for {
		idx, err := w.driver.Select(ctx, SelectConfig{Message: accountPrompt, Options: options})
		if err != nil {
			return err
		}

		picked := choice(options, idx)
		if picked != choiceSignIn && picked != choiceSignUp {
			return nil
		}
		signUp := picked == choiceSignUp
		form, err := w.askCredentials(ctx, signUp)
		if err != nil {
			return err
		}

		var result auth.Session
		action, title := "signin", auth.TitleSignedIn
		if signUp {
			action, title = "signup", auth.TitleSignedUp
			result, err = auth.SignUp(ctx, w.accounts, form)
		} else {
			result, err = auth.SignIn(ctx, w.accounts, form)
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if err := w.accountFailed(ctx, sess, action, err); err != nil {
				return err
			}
			continue
		}
		sess.Authenticate(result, title)
		return w.flush(ctx, sess)
	}
}

func (w *Wizard) askCredentials(ctx context.Context, signUp bool) (validation.Credentials, error) {
	var form validation.Credentials
	var err error
	if form.Email, err = w.driver.Input(ctx, InputConfig{Message: "Email", Validator: validation.Email}); err != nil {
		return form, err
	}
	form.Email = strings.TrimSpace(form.Email)
	if form.Password, err = w.driver.Password(ctx, InputConfig{Message: "Password"}); err != nil {
		return form, err
	}
	if !signUp {
		return form, nil
	}
	if form.ConfirmPassword, err = w.driver.Password(ctx, InputConfig{Message: "Confirm password"}); err != nil {
		return form, err
	}
	if form.FullName, err = w.driver.Input(ctx, InputConfig{Message: "Full name"}); err != nil {
		return form, err
	}
	if form.Phone, err = w.driver.Input(ctx, InputConfig{Message: "Phone number", Help: "optional"}); err != nil {
		return form, err
	}
	if form.NIN, err = w.driver.Input(ctx, InputConfig{Message: "National ID Number", Help: "optional"}); err != nil {
		return form, err
	}
	return form, nil
}

// accountFailed prints the user-facing form of err.
func (w *Wizard) accountFailed(ctx context.Context, sess *session.Session, action string, err error) error {
	w.logger.Debug("terminal auth failed", slog.String("action", action), slog.String("kind", string(auth.KindOf(err))))
	if issues := validation.AsIssues(err); len(issues) > 0 {
		for _, issue := range issues {
			sess.Notify(notify.Error(issue.Message, ""))
		}
	} else {
		sess.Notify(notify.Error(auth.Message(err), ""))
	}
	return w.flush(ctx, sess)
}
