package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-ekonde/pkg/model"
)

func TestEmail(t *testing.T) {
	valid := []string{"a@b.com", "sarah.nakalema@ekonde.go.ug", "first+tag@example.co"}
	for _, value := range valid {
		if err := Email(value); err != nil {
			t.Fatalf("Email(%q) unexpected error: %v", value, err)
		}
	}

	invalid := []string{"", "not-an-email", "a@b", "@b.com", ".a@b.com", "a..b@c.com", "a@b.c", "a b@c.com",
		"Jane <jane@example.com>", `"jane"@example.com`, "jane@example.com.", "jane@[10.0.0.1]", "jane.@example.com"}
	for _, value := range invalid {
		err := Email(value)
		if err == nil {
			t.Fatalf("Email(%q) expected error", value)
		}
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("Email(%q) error should match ErrValidation: %v", value, err)
		}
		if err.Error() != MessageInvalidEmail {
			t.Fatalf("unexpected message %q", err.Error())
		}
	}
}

func TestPassword(t *testing.T) {
	if err := Password("abc12"); err == nil || err.Error() != MessagePasswordTooShort {
		t.Fatalf("expected 5 char password to fail, got %v", err)
	}
	if err := Password("abc123"); err != nil {
		t.Fatalf("expected 6 char password to pass, got %v", err)
	}
	if err := Password(strings.Repeat("a", MaxPasswordBytes)); err != nil {
		t.Fatalf("expected a %d byte password to pass, got %v", MaxPasswordBytes, err)
	}
	for _, long := range []string{strings.Repeat("a", MaxPasswordBytes+1), strings.Repeat("é", 37)} {
		if err := Password(long); err == nil || err.Error() != MessagePasswordTooLong {
			t.Fatalf("expected %d byte password to fail, got %v", len(long), err)
		}
	}
}

func TestConfirmationAndName(t *testing.T) {
	if err := Confirmation("secret1", "secret2"); err == nil {
		t.Fatalf("expected mismatch error")
	}
	if err := Confirmation("secret1", "secret1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := NamePresent("   "); err == nil {
		t.Fatalf("expected whitespace name to fail")
	}
	if err := NamePresent("Sarah"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCoordinates(t *testing.T) {
	cases := []struct {
		name     string
		lat, lng float64
		wantErr  string
	}{
		{name: "valid", lat: 45.0, lng: 32.5},
		{name: "latitude high", lat: 91, lng: 0, wantErr: MessageCoordinatesOutRange},
		{name: "latitude low", lat: -90.5, lng: 0, wantErr: MessageCoordinatesOutRange},
		{name: "longitude high", lat: 0, lng: 180.01, wantErr: MessageCoordinatesOutRange},
		{name: "bounds inclusive", lat: -90, lng: 180},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Coordinates(tc.lat, tc.lng)
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || err.Error() != tc.wantErr {
				t.Fatalf("expected %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestParseCoordinates(t *testing.T) {
	got, err := ParseCoordinates(" 0.3476 ", "32.5825")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(model.Coordinates{Latitude: 0.3476, Longitude: 32.5825}, got); diff != "" {
		t.Fatalf("coordinates mismatch (-want +got):\n%s", diff)
	}

	if _, err := ParseCoordinates("abc", "def"); err == nil || err.Error() != MessageInvalidCoordinates {
		t.Fatalf("expected invalid coordinates error, got %v", err)
	}
	if _, err := ParseCoordinates("NaN", "1"); err == nil || err.Error() != MessageInvalidCoordinates {
		t.Fatalf("expected NaN to be rejected, got %v", err)
	}
	if _, err := ParseCoordinates("91", "0"); err == nil || err.Error() != MessageCoordinatesOutRange {
		t.Fatalf("expected out of range error, got %v", err)
	}
}

func TestSignUpOrder(t *testing.T) {
	cases := []struct {
		name  string
		creds Credentials
		want  string
	}{
		{
			name:  "email first",
			creds: Credentials{Email: "bad", Password: "abc12"},
			want:  MessageInvalidEmail,
		},
		{
			name:  "short password",
			creds: Credentials{Email: "a@b.com", Password: "abc12", ConfirmPassword: "abc12", FullName: "Sarah"},
			want:  MessagePasswordTooShort,
		},
		{
			name:  "mismatch",
			creds: Credentials{Email: "a@b.com", Password: "abc123", ConfirmPassword: "abc124", FullName: "Sarah"},
			want:  MessagePasswordMismatch,
		},
		{
			name:  "missing name",
			creds: Credentials{Email: "a@b.com", Password: "abc123", ConfirmPassword: "abc123", FullName: " "},
			want:  MessageFullNameRequired,
		},
		{
			name:  "ok",
			creds: Credentials{Email: "a@b.com", Password: "abc123", ConfirmPassword: "abc123", FullName: "Sarah"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := SignUp(tc.creds)
			if tc.want == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || err.Error() != tc.want {
				t.Fatalf("expected %q, got %v", tc.want, err)
			}
		})
	}
}

func TestSignInIgnoresSignUpOnlyChecks(t *testing.T) {
	if err := SignIn(Credentials{Email: "a@b.com", Password: "abc123", ConfirmPassword: "other"}); err != nil {
		t.Fatalf("sign-in should not check confirmation: %v", err)
	}
}

func TestStepComplete(t *testing.T) {
	if err := StepComplete(model.StepApplicationType, model.ApplicationDraft{}); err == nil {
		t.Fatalf("expected missing type error")
	}
	if err := StepComplete(model.StepApplicationType, model.ApplicationDraft{ApplicationType: model.ApplicationTransfer}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := StepComplete(model.StepPersonalDetails, model.ApplicationDraft{FullName: "Sarah", Email: "nope"})
	issues := AsIssues(err)
	want := map[string][]string{
		model.FieldNIN:   {MessageNINRequired},
		model.FieldPhone: {MessagePhoneRequired},
		model.FieldEmail: {MessageInvalidEmail},
	}
	if diff := cmp.Diff(want, issues.Fields()); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected issues to match ErrValidation")
	}

	if err := StepComplete(model.StepDocuments, model.ApplicationDraft{}); err != nil {
		t.Fatalf("documents step has no required fields: %v", err)
	}
}
