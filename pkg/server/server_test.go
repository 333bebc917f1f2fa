package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-ekonde/internal/metrics"
	"github.com/goliatone/go-ekonde/pkg/catalog"
	"github.com/goliatone/go-ekonde/pkg/model"
	"github.com/goliatone/go-ekonde/pkg/session"
	"github.com/goliatone/go-ekonde/pkg/submission"
	"github.com/goliatone/go-ekonde/pkg/validation"
)

func instantSleep(context.Context, time.Duration) error { return nil }

type testClient struct {
	t      *testing.T
	base   string
	client *http.Client
}

func newTestServer(t *testing.T, opts ...Option) *testClient {
	t.Helper()
	c := catalog.MustDefault()
	sessions := session.NewManager(session.WithSessionOptions(
		session.WithCatalog(c),
		session.WithPipeline(submission.WithSleep(instantSleep)),
	))
	srv, err := New(append([]Option{WithCatalog(c), WithSessions(sessions)}, opts...)...)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &testClient{
		t:    t,
		base: ts.URL,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (c *testClient) do(method, path, contentType string, body io.Reader, accept string) (*http.Response, string) {
	c.t.Helper()
	req, err := http.NewRequest(method, c.base+path, body)
	if err != nil {
		c.t.Fatalf("request: %v", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.t.Fatalf("read body: %v", err)
	}
	return resp, string(raw)
}

func (c *testClient) get(path string) (*http.Response, string) {
	return c.do(http.MethodGet, path, "", nil, "text/html")
}

func (c *testClient) postForm(path string, form url.Values) (*http.Response, string) {
	return c.do(http.MethodPost, path, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()), "text/html")
}

func (c *testClient) sendJSON(method, path, payload string) (*http.Response, string) {
	var body io.Reader
	contentType := ""
	if payload != "" {
		body = strings.NewReader(payload)
		contentType = "application/json"
	}
	return c.do(method, path, contentType, body, "application/json")
}

func expectStatus(t *testing.T, resp *http.Response, want int, body string) {
	t.Helper()
	if resp.StatusCode != want {
		t.Fatalf("%s %s: status %d, want %d\n%s", resp.Request.Method, resp.Request.URL.Path, resp.StatusCode, want, body)
	}
}

func expectRedirect(t *testing.T, resp *http.Response, location string) {
	t.Helper()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("%s: status %d, want 303", resp.Request.URL.Path, resp.StatusCode)
	}
	if got := resp.Header.Get("Location"); got != location {
		t.Fatalf("%s: redirect to %q, want %q", resp.Request.URL.Path, got, location)
	}
}

func TestServer_HomePage(t *testing.T) {
	c := newTestServer(t)
	resp, body := c.get("/")
	expectStatus(t, resp, http.StatusOK, body)

	for _, want := range []string{"Secure Your Land", "UGX 450,000", `href="/login?signup=true"`} {
		if !strings.Contains(body, want) {
			t.Errorf("home page missing %q", want)
		}
	}
	if len(resp.Cookies()) == 0 || resp.Cookies()[0].Name != session.DefaultCookieName {
		t.Fatalf("expected a session cookie, got %#v", resp.Cookies())
	}
}

func TestServer_NewTitleScenario(t *testing.T) {
	c := newTestServer(t)

	resp, body := c.get("/apply")
	expectStatus(t, resp, http.StatusOK, body)

	resp, _ = c.postForm("/apply/next", url.Values{"step": {"1"}, model.FieldApplicationType: {"new-title"}})
	expectRedirect(t, resp, "/apply")
	for step := 2; step <= 4; step++ {
		resp, _ = c.postForm("/apply/next", url.Values{"step": {strconv.Itoa(step)}})
		expectRedirect(t, resp, "/apply")
	}

	resp, body = c.get("/apply")
	expectStatus(t, resp, http.StatusOK, body)
	for _, want := range []string{"Submit &amp; Pay UGX 450,000", "Not provided", `name="step" value="5"`} {
		if !strings.Contains(body, want) {
			t.Errorf("review page missing %q", want)
		}
	}

	resp, _ = c.postForm("/apply/submit", url.Values{"step": {"5"}})
	expectRedirect(t, resp, "/dashboard")

	resp, body = c.get("/dashboard")
	expectStatus(t, resp, http.StatusOK, body)
	for _, want := range []string{"Your application ID is APP-2024-001235", "Welcome back, User!"} {
		if !strings.Contains(body, want) {
			t.Errorf("dashboard after anonymous submit missing %q", want)
		}
	}

	resp, body = c.get("/apply")
	expectStatus(t, resp, http.StatusOK, body)
	if !strings.Contains(body, `name="step" value="1"`) {
		t.Fatalf("wizard should restart after submission")
	}
}

func TestServer_StaleStepIsIgnored(t *testing.T) {
	c := newTestServer(t)
	c.get("/apply")

	resp, _ := c.postForm("/apply/next", url.Values{"step": {"3"}, model.FieldApplicationType: {"transfer"}})
	expectRedirect(t, resp, "/apply")

	_, body := c.sendJSON(http.MethodGet, "/api/v1/application", "")
	var view session.View
	if err := json.Unmarshal([]byte(body), &view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if view.Step.ID != model.StepApplicationType || view.Draft.ApplicationType != "" {
		t.Fatalf("stale post must not change the wizard: step=%d type=%q", view.Step.ID, view.Draft.ApplicationType)
	}
}

func TestServer_RejectsUnknownApplicationType(t *testing.T) {
	c := newTestServer(t)
	c.get("/apply")

	resp, body := c.postForm("/apply/field", url.Values{model.FieldApplicationType: {"bogus"}})
	expectStatus(t, resp, http.StatusUnprocessableEntity, body)
	if !strings.Contains(body, model.FieldApplicationType) {
		t.Fatalf("expected an applicationType error, got %s", body)
	}

	resp, body = c.postForm("/apply/next", url.Values{"step": {"1"}, model.FieldApplicationType: {"land-grab"}})
	expectStatus(t, resp, http.StatusUnprocessableEntity, body)
	if !strings.Contains(body, validation.MessageTypeUnknown) {
		t.Fatalf("expected the unknown type message, got\n%s", body)
	}

	_, body = c.sendJSON(http.MethodGet, "/api/v1/application", "")
	var view session.View
	if err := json.Unmarshal([]byte(body), &view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if view.Step.ID != model.StepApplicationType || view.Draft.ApplicationType != "" {
		t.Fatalf("unknown type must not be stored or advance: step=%d type=%q", view.Step.ID, view.Draft.ApplicationType)
	}
}

func TestServer_LoginRejectsShortPassword(t *testing.T) {
	c := newTestServer(t)
	resp, body := c.postForm("/login", url.Values{"email": {"jane@example.com"}, "password": {"abc12"}})
	expectStatus(t, resp, http.StatusUnprocessableEntity, body)
	if !strings.Contains(body, "Password must be at least 6 characters") {
		t.Fatalf("expected the password message, got\n%s", body)
	}
}

func TestServer_SignUpRejectsOverlongPassword(t *testing.T) {
	c := newTestServer(t)
	long := strings.Repeat("p", 80)

	resp, body := c.postForm("/login", url.Values{
		"mode":            {"signup"},
		"email":           {"jane@example.com"},
		"password":        {long},
		"confirmPassword": {long},
		"fullName":        {"Jane Nakato"},
	})
	expectStatus(t, resp, http.StatusUnprocessableEntity, body)
	if !strings.Contains(body, validation.MessagePasswordTooLong) {
		t.Fatalf("expected the length message, got\n%s", body)
	}

	resp, body = c.sendJSON(http.MethodPost, "/api/v1/auth/signin", `{"email":"jane@example.com","password":"`+long+`"}`)
	expectStatus(t, resp, http.StatusUnprocessableEntity, body)
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestServer_AuthFailureLogOmitsEmail(t *testing.T) {
	var logs lockedBuffer
	c := newTestServer(t, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

	resp, body := c.postForm("/login", url.Values{"email": {"jane.private@example.com"}, "password": {"secret1"}})
	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusSeeOther {
		t.Fatalf("unknown account should not sign in: %d\n%s", resp.StatusCode, body)
	}
	c.sendJSON(http.MethodPost, "/api/v1/auth/signin", `{"email":"jane.private@example.com","password":"abc12"}`)

	out := logs.String()
	if !strings.Contains(out, "auth failed") {
		t.Fatalf("expected auth failures to be logged, got %q", out)
	}
	if strings.Contains(out, "jane.private") {
		t.Fatalf("auth failure log leaks the email address:\n%s", out)
	}
}

func TestServer_SignUpDashboardLogout(t *testing.T) {
	c := newTestServer(t)

	resp, body := c.get("/dashboard")
	expectStatus(t, resp, http.StatusOK, body)
	if !strings.Contains(body, "Welcome back, User!") {
		t.Fatalf("anonymous dashboard should greet with the fallback name")
	}

	resp, body = c.postForm("/login", url.Values{
		"mode":            {"signup"},
		"email":           {"jane@example.com"},
		"password":        {"secret1"},
		"confirmPassword": {"secret1"},
		"fullName":        {"Jane Nakato"},
	})
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("sign up: status %d\n%s", resp.StatusCode, body)
	}

	resp, body = c.get("/dashboard")
	expectStatus(t, resp, http.StatusOK, body)
	for _, want := range []string{"Account created successfully!", "Jane Nakato", "APP-2024-001234"} {
		if !strings.Contains(body, want) {
			t.Errorf("dashboard missing %q", want)
		}
	}

	resp, _ = c.postForm("/logout", nil)
	expectRedirect(t, resp, "/")

	resp, body = c.get("/dashboard")
	expectStatus(t, resp, http.StatusOK, body)
	if strings.Contains(body, "Jane Nakato") {
		t.Fatalf("signed out dashboard still shows the previous user")
	}
}

func TestServer_TrackAndVerifyPages(t *testing.T) {
	c := newTestServer(t)

	resp, body := c.get("/track?id=app-2024-001234")
	expectStatus(t, resp, http.StatusOK, body)
	if !strings.Contains(body, "APP-2024-001234") {
		t.Fatalf("track page missing the record")
	}

	resp, body = c.get("/verify?q=abc&type=plot")
	expectStatus(t, resp, http.StatusOK, body)
	if strings.Contains(body, "Title Verified") {
		t.Fatalf("short query must not verify")
	}
}

func TestServer_APIWizardFlow(t *testing.T) {
	c := newTestServer(t)

	resp, body := c.sendJSON(http.MethodPatch, "/api/v1/application/fields", `{"applicationType":"new-title","district":"Kampala"}`)
	expectStatus(t, resp, http.StatusOK, body)
	var merged struct {
		Changed []string `json:"changed"`
	}
	if err := json.Unmarshal([]byte(body), &merged); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff([]string{"applicationType", "district"}, merged.Changed); diff != "" {
		t.Fatalf("changed mismatch (-want +got):\n%s", diff)
	}

	for i := 0; i < 4; i++ {
		resp, body = c.sendJSON(http.MethodPost, "/api/v1/application/next", "")
		expectStatus(t, resp, http.StatusOK, body)
	}

	resp, body = c.sendJSON(http.MethodPost, "/api/v1/application/submit", "")
	expectStatus(t, resp, http.StatusOK, body)
	var submitted struct {
		Result model.SubmissionResult `json:"result"`
	}
	if err := json.Unmarshal([]byte(body), &submitted); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := model.SubmissionResult{ConfirmationID: "APP-2024-001235", Redirect: "/dashboard"}
	if diff := cmp.Diff(want, submitted.Result); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}

	resp, body = c.sendJSON(http.MethodPost, "/api/v1/application/submit", "")
	expectStatus(t, resp, http.StatusConflict, body)
}

func TestServer_APIRejectsMalformedRequests(t *testing.T) {
	c := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		field  string
	}{
		{name: "wrong type", method: http.MethodPatch, path: "/api/v1/application/fields", body: `{"fullName":5}`, status: http.StatusBadRequest, field: "fullName"},
		{name: "unknown property", method: http.MethodPatch, path: "/api/v1/application/fields", body: `{"owner":"x"}`, status: http.StatusBadRequest},
		{name: "bad application type", method: http.MethodPatch, path: "/api/v1/application/fields", body: `{"applicationType":"lease"}`, status: http.StatusBadRequest, field: "applicationType"},
		{name: "missing password", method: http.MethodPost, path: "/api/v1/auth/signin", body: `{"email":"jane@example.com"}`, status: http.StatusBadRequest},
		{name: "missing query", method: http.MethodGet, path: "/api/v1/verify", status: http.StatusBadRequest},
		{name: "short password", method: http.MethodPost, path: "/api/v1/auth/signin", body: `{"email":"jane@example.com","password":"abc12"}`, status: http.StatusUnprocessableEntity, field: "password"},
		{name: "unknown credentials", method: http.MethodPost, path: "/api/v1/auth/signin", body: `{"email":"jane@example.com","password":"secret1"}`, status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := c.sendJSON(tt.method, tt.path, tt.body)
			expectStatus(t, resp, tt.status, body)

			var payload apiErrorBody
			if err := json.Unmarshal([]byte(body), &payload); err != nil {
				t.Fatalf("decode error body: %v\n%s", err, body)
			}
			if payload.Status != tt.status {
				t.Fatalf("body status %d, want %d", payload.Status, tt.status)
			}
			if tt.field != "" && len(payload.Errors.Fields[tt.field]) == 0 {
				t.Fatalf("expected an error for %q, got %#v", tt.field, payload.Errors)
			}
		})
	}
}

func TestServer_APITrackAndVerify(t *testing.T) {
	c := newTestServer(t)

	resp, body := c.sendJSON(http.MethodGet, "/api/v1/track/app-2024-001198", "")
	expectStatus(t, resp, http.StatusOK, body)
	if !strings.Contains(body, `"exact":true`) {
		t.Fatalf("expected an exact match, got %s", body)
	}

	resp, body = c.sendJSON(http.MethodGet, "/api/v1/verify?q=KYD-BLK&type=qr", "")
	expectStatus(t, resp, http.StatusOK, body)
	if !strings.Contains(body, `"valid":true`) {
		t.Fatalf("expected a valid title, got %s", body)
	}
}

func TestServer_DeviceLocation(t *testing.T) {
	c := newTestServer(t)

	resp, body := c.sendJSON(http.MethodPost, "/api/v1/application/location/device", `{"supported":true,"code":1}`)
	expectStatus(t, resp, http.StatusUnprocessableEntity, body)
	if !strings.Contains(body, `"reason":"denied"`) {
		t.Fatalf("expected denied reason, got %s", body)
	}

	resp, body = c.sendJSON(http.MethodPost, "/api/v1/application/location/device", `{"supported":true,"latitude":0.3476,"longitude":32.5825}`)
	expectStatus(t, resp, http.StatusOK, body)
	if !strings.Contains(body, "Location set: 0.3476, 32.5825") {
		t.Fatalf("expected the location label, got %s", body)
	}

	resp, body = c.sendJSON(http.MethodPost, "/api/v1/application/location/device", `{"supported":true}`)
	expectStatus(t, resp, http.StatusBadRequest, body)

	resp, body = c.sendJSON(http.MethodPost, "/api/v1/application/location/device", `{"supported":false}`)
	expectStatus(t, resp, http.StatusUnprocessableEntity, body)
	if !strings.Contains(body, `"reason":"unsupported"`) {
		t.Fatalf("expected unsupported reason, got %s", body)
	}

	resp, body = c.sendJSON(http.MethodPost, "/api/v1/application/location/device", `{"supported":true,"code":0}`)
	expectStatus(t, resp, http.StatusUnprocessableEntity, body)
	if !strings.Contains(body, `"reason":"invalid"`) {
		t.Fatalf("expected invalid reason, got %s", body)
	}
	if !strings.Contains(body, "Location set: 0.3476, 32.5825") {
		t.Fatalf("a fix without coordinates must keep the previous location, got %s", body)
	}

	resp, _ = c.postForm("/apply/location/device", url.Values{"supported": {"true"}, model.FieldLatitude: {"abc"}, model.FieldLongitude: {""}})
	expectRedirect(t, resp, "/apply#location")
	_, body = c.sendJSON(http.MethodGet, "/api/v1/application", "")
	var view session.View
	if err := json.Unmarshal([]byte(body), &view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if view.Location.Latitude != "0.347600" || view.Location.Longitude != "32.582500" {
		t.Fatalf("malformed form fix must not move the location: %#v", view.Location)
	}

	resp, _ = c.postForm("/apply/location/manual", url.Values{model.FieldLatitude: {"1.2"}, model.FieldLongitude: {"32.1"}})
	expectRedirect(t, resp, "/apply#location")

	resp, body = c.postForm("/apply/location/manual", url.Values{model.FieldLatitude: {"north"}, model.FieldLongitude: {"32.1"}})
	expectStatus(t, resp, http.StatusUnprocessableEntity, body)
	if !strings.Contains(body, "Please enter valid coordinates") {
		t.Fatalf("expected coordinates message")
	}
}

func TestServer_Operational(t *testing.T) {
	c := newTestServer(t, WithMetrics(metrics.New()))

	resp, body := c.get("/healthz")
	expectStatus(t, resp, http.StatusOK, body)

	resp, body = c.sendJSON(http.MethodGet, "/api/districts?q=kamp", "")
	expectStatus(t, resp, http.StatusOK, body)
	if !strings.Contains(body, "Kampala") {
		t.Fatalf("district search missing Kampala: %s", body)
	}

	resp, body = c.get("/api/openapi.yaml")
	expectStatus(t, resp, http.StatusOK, body)
	if !strings.HasPrefix(body, "openapi: 3.0.3") {
		t.Fatalf("unexpected document")
	}

	resp, body = c.get("/no-such-page")
	expectStatus(t, resp, http.StatusNotFound, body)

	resp, body = c.get("/metrics")
	expectStatus(t, resp, http.StatusOK, body)
	for _, want := range []string{"ekonde_http_request_duration_seconds", `route="GET /healthz"`} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}
