package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goliatone/go-ekonde/pkg/auth"
	"github.com/goliatone/go-ekonde/pkg/draft"
	"github.com/goliatone/go-ekonde/pkg/location"
	"github.com/goliatone/go-ekonde/pkg/model"
	"github.com/goliatone/go-ekonde/pkg/notify"
	"github.com/goliatone/go-ekonde/pkg/submission"
	"github.com/goliatone/go-ekonde/pkg/validation"
)

func instantSleep(context.Context, time.Duration) error { return nil }

func newTestSession(t *testing.T, opts ...Option) *Session {
	t.Helper()
	return New("test", append([]Option{WithPipeline(submission.WithSleep(instantSleep))}, opts...)...)
}

func TestSession_NewTitleScenario(t *testing.T) {
	s := newTestSession(t)

	if _, err := s.MergeFields(draft.Patch{model.FieldApplicationType: "new-title"}); err != nil {
		t.Fatalf("merge: %v", err)
	}
	for i := 0; i < 4; i++ {
		if moved, err := s.Next(); err != nil || !moved {
			t.Fatalf("advance %d: moved=%v err=%v", i, moved, err)
		}
	}

	view := s.View()
	if !view.IsTerminal || view.Step.ID != model.StepReview {
		t.Fatalf("expected review step, got %#v", view.Step)
	}
	if view.Review.Rows[1].Value != "Not provided" || view.Review.Rows[2].Value != "Not provided" {
		t.Fatalf("expected Not provided for name and NIN, got %#v", view.Review.Rows)
	}
	if view.Review.FeeLabel != "UGX 450,000" {
		t.Fatalf("unexpected fee %q", view.Review.FeeLabel)
	}

	result, err := s.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Redirect != "/dashboard" {
		t.Fatalf("unexpected redirect %q", result.Redirect)
	}
	notices := s.DrainNotices()
	want := notify.Success("Application submitted successfully! 🎉", "Your application ID is APP-2024-001235")
	if len(notices) != 1 || notices[0] != want {
		t.Fatalf("unexpected notices %#v", notices)
	}
	if s.Step() != model.StepApplicationType || s.Draft().ApplicationType != "" {
		t.Fatalf("wizard should restart after a successful submission")
	}
}

func TestSession_SubmitBeforeReview(t *testing.T) {
	s := newTestSession(t)
	if _, err := s.Submit(context.Background()); !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
}

func TestSession_StepGate(t *testing.T) {
	s := newTestSession(t, WithStepGate(true))
	moved, err := s.Next()
	if moved || !errors.Is(err, validation.ErrValidation) {
		t.Fatalf("expected gate to block, moved=%v err=%v", moved, err)
	}
	notices := s.DrainNotices()
	if len(notices) != 1 || notices[0].Title != validation.MessageTypeRequired {
		t.Fatalf("unexpected notices %#v", notices)
	}
}

func TestSession_LocationUpdatesDraft(t *testing.T) {
	s := newTestSession(t)

	err := s.RequestLocation(context.Background(), location.BrowserFix{Supported: true, Code: location.BrowserCodePermissionDenied})
	if !errors.Is(err, location.ErrDenied) {
		t.Fatalf("expected denied, got %v", err)
	}
	if _, ok := s.Draft().Coordinates(); ok {
		t.Fatalf("draft must not change after denial")
	}

	if err := s.ManualLocation("0.3476", "32.5825"); err != nil {
		t.Fatalf("manual: %v", err)
	}
	pos, ok := s.Draft().Coordinates()
	if !ok || pos.Latitude != 0.3476 || pos.Longitude != 32.5825 {
		t.Fatalf("unexpected draft coordinates %#v", pos)
	}
	if got := s.View().Location.Label; got != "Location set: 0.3476, 32.5825" {
		t.Fatalf("unexpected label %q", got)
	}
}

func TestSession_MergeCoordinatesSyncsWidget(t *testing.T) {
	s := newTestSession(t)
	if _, err := s.MergeFields(draft.Patch{model.FieldLatitude: "1.5", model.FieldLongitude: "32"}); err != nil {
		t.Fatalf("merge: %v", err)
	}
	view := s.View()
	if !view.Location.Set || view.Location.Latitude != "1.500000" {
		t.Fatalf("widget not synced: %#v", view.Location)
	}
}

func TestSession_PrefillAndTeardown(t *testing.T) {
	s := newTestSession(t)
	if _, err := s.MergeFields(draft.Patch{model.FieldPhone: "0700 000 000"}); err != nil {
		t.Fatalf("merge: %v", err)
	}

	s.Authenticate(auth.Session{
		Token:   "tok",
		User:    model.User{ID: "u1", Email: "jane@example.com"},
		Profile: model.Profile{FullName: "Jane", Phone: "0772 123 456", NIN: "cm1"},
	}, auth.TitleSignedIn)

	if !s.OpenWizard() {
		t.Fatalf("expected prefill to run")
	}
	d := s.Draft()
	if d.FullName != "Jane" || d.NIN != "CM1" || d.Email != "jane@example.com" {
		t.Fatalf("unexpected prefill %#v", d)
	}
	if d.Phone != "0700 000 000" {
		t.Fatalf("prefill clobbered an edited field: %q", d.Phone)
	}
	if s.OpenWizard() {
		t.Fatalf("prefill must run once")
	}
	if s.View().DisplayName != "Jane" {
		t.Fatalf("unexpected display name")
	}

	if token := s.Teardown(); token != "tok" {
		t.Fatalf("unexpected token %q", token)
	}
	if _, _, ok := s.Identity(); ok {
		t.Fatalf("identity should be cleared")
	}
	if s.Draft().FullName != "" {
		t.Fatalf("draft should be discarded on teardown")
	}
}

func TestManager_EnsureAndExpire(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	m := NewManager(WithTTL(time.Minute), WithManagerClock(func() time.Time { return now }))

	rec := httptest.NewRecorder()
	first := m.Ensure(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != DefaultCookieName || cookies[0].Value != first.ID() {
		t.Fatalf("unexpected cookies %#v", cookies)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	if again := m.Ensure(httptest.NewRecorder(), req); again != first {
		t.Fatalf("expected the same session for the same cookie")
	}

	now = now.Add(2 * time.Minute)
	if _, ok := m.Lookup(req); ok {
		t.Fatalf("expected idle session to expire")
	}
	if m.Len() != 0 {
		t.Fatalf("expired session should be evicted")
	}

	fresh := m.Ensure(httptest.NewRecorder(), req)
	if fresh == first {
		t.Fatalf("expected a new session after expiry")
	}
	rec = httptest.NewRecorder()
	m.Destroy(rec, fresh)
	if m.Len() != 0 || rec.Result().Cookies()[0].MaxAge != -1 {
		t.Fatalf("destroy should drop the session and expire the cookie")
	}
}
