package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/goliatone/go-ekonde/pkg/model"
	"github.com/goliatone/go-ekonde/pkg/validation"
)

type countingService struct {
	Service
	signUps int
	signIns int
}

func (c *countingService) SignUp(ctx context.Context, email, password string, profile model.Profile) (Session, error) {
	c.signUps++
	return Session{Token: "t", User: model.User{Email: email}, Profile: profile}, nil
}

func (c *countingService) SignIn(ctx context.Context, email, password string) (Session, error) {
	c.signIns++
	return Session{Token: "t", User: model.User{Email: email}}, nil
}

func TestSignUp_ShortPasswordNeverReachesProvider(t *testing.T) {
	svc := &countingService{}
	_, err := SignUp(context.Background(), svc, validation.Credentials{
		Email:           "citizen@example.com",
		Password:        "abc12",
		ConfirmPassword: "abc12",
		FullName:        "Jane Citizen",
	})
	if !errors.Is(err, validation.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if got := Message(err); got != validation.MessagePasswordTooShort {
		t.Fatalf("unexpected message %q", got)
	}
	if svc.signUps != 0 {
		t.Fatalf("provider must not be called, got %d calls", svc.signUps)
	}
}

func TestSignIn_ValidFormReachesProvider(t *testing.T) {
	svc := &countingService{}
	if _, err := SignIn(context.Background(), svc, validation.Credentials{Email: "a@b.com", Password: "secret1"}); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if _, err := SignIn(context.Background(), svc, validation.Credentials{Email: "not-an-email", Password: "secret1"}); err == nil {
		t.Fatalf("expected email validation failure")
	}
	if svc.signIns != 1 {
		t.Fatalf("expected exactly one provider call, got %d", svc.signIns)
	}
}

func newTestMemory(opts ...MemoryOption) *Memory {
	return NewMemory(append([]MemoryOption{WithHashCost(bcrypt.MinCost)}, opts...)...)
}

func TestMemory_SignUpSignInSignOut(t *testing.T) {
	ctx := context.Background()
	m := newTestMemory()

	created, err := m.SignUp(ctx, " Jane@Example.com ", "secret1", model.Profile{FullName: "Jane", NIN: "cm123"})
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if created.User.Email != "jane@example.com" || created.User.ID == "" {
		t.Fatalf("unexpected user %#v", created.User)
	}
	if created.Profile.NIN != "CM123" {
		t.Fatalf("expected upper-cased NIN, got %q", created.Profile.NIN)
	}

	_, err = m.SignUp(ctx, "jane@example.com", "another1", model.Profile{})
	if KindOf(err) != KindAlreadyRegistered || Message(err) != MessageAlreadyRegistered {
		t.Fatalf("expected already registered, got %v", err)
	}

	_, err = m.SignIn(ctx, "jane@example.com", "wrong-password")
	if KindOf(err) != KindInvalidCredentials || Message(err) != MessageInvalidCredentials {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, err := m.SignIn(ctx, "nobody@example.com", "secret1"); KindOf(err) != KindInvalidCredentials {
		t.Fatalf("unknown email should read as invalid credentials, got %v", err)
	}

	sess, err := m.SignIn(ctx, "JANE@example.com", "secret1")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	user, profile, ok := m.Current(ctx, sess.Token)
	if !ok || user.ID != created.User.ID || profile.FullName != "Jane" {
		t.Fatalf("Current returned %#v %#v %v", user, profile, ok)
	}

	if err := m.SignOut(ctx, sess.Token); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if _, _, ok := m.Current(ctx, sess.Token); ok {
		t.Fatalf("token should be gone after sign-out")
	}
	if err := m.SignOut(ctx, sess.Token); KindOf(err) != KindUnknown {
		t.Fatalf("second sign-out should fail with unknown kind, got %v", err)
	}
}

func TestMemory_SignInRateLimited(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0)
	m := newTestMemory(WithSignInLimit(1, 2), WithClock(func() time.Time { return now }))
	if _, err := m.SignUp(ctx, "a@b.com", "secret1", model.Profile{}); err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := m.SignIn(ctx, "a@b.com", "bad-pass"); KindOf(err) != KindInvalidCredentials {
			t.Fatalf("attempt %d: expected invalid credentials, got %v", i, err)
		}
	}
	if _, err := m.SignIn(ctx, "a@b.com", "secret1"); KindOf(err) != KindRateLimited {
		t.Fatalf("expected rate limit, got %v", err)
	}

	now = now.Add(2 * time.Second)
	if _, err := m.SignIn(ctx, "a@b.com", "secret1"); err != nil {
		t.Fatalf("expected bucket to refill, got %v", err)
	}
}

func TestMessage(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{err: nil, want: ""},
		{err: newError(KindRateLimited, nil), want: MessageRateLimited},
		{err: newError(KindUnknown, errors.New("boom")), want: MessageUnknown},
		{err: errors.New("plain"), want: "plain"},
	}
	for _, tc := range cases {
		if got := Message(tc.err); got != tc.want {
			t.Fatalf("Message(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}
