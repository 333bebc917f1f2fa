package auth

import (
	"context"

	"github.com/goliatone/go-ekonde/pkg/model"
	"github.com/goliatone/go-ekonde/pkg/validation"
)

// Success notices shown after the auth forms.
const (
	TitleSignedUp = "Account created successfully!"
	TitleSignedIn = "Welcome back!"
)

// Session is an authenticated identity plus the opaque token that refers to
// it.
type Session struct {
	Token   string
	User    model.User
	Profile model.Profile
}

// Service is the authentication collaborator.
type Service interface {
	SignUp(ctx context.Context, email, password string, profile model.Profile) (Session, error)
	SignIn(ctx context.Context, email, password string) (Session, error)
	SignOut(ctx context.Context, token string) error
	Current(ctx context.Context, token string) (model.User, model.Profile, bool)
}

// SignIn validates the form and only then asks svc. A validation failure is
// returned as is and svc is not called.
func SignIn(ctx context.Context, svc Service, form validation.Credentials) (Session, error) {
	if err := validation.SignIn(form); err != nil {
		return Session{}, err
	}
	return svc.SignIn(ctx, form.Email, form.Password)
}

// SignUp validates the sign-up form and only then asks svc to register.
func SignUp(ctx context.Context, svc Service, form validation.Credentials) (Session, error) {
	if err := validation.SignUp(form); err != nil {
		return Session{}, err
	}
	return svc.SignUp(ctx, form.Email, form.Password, model.Profile{
		FullName: form.FullName,
		Phone:    form.Phone,
		NIN:      form.NIN,
	})
}
