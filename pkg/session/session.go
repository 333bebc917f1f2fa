package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goliatone/go-ekonde/pkg/auth"
	"github.com/goliatone/go-ekonde/pkg/catalog"
	"github.com/goliatone/go-ekonde/pkg/draft"
	"github.com/goliatone/go-ekonde/pkg/location"
	"github.com/goliatone/go-ekonde/pkg/model"
	"github.com/goliatone/go-ekonde/pkg/notify"
	"github.com/goliatone/go-ekonde/pkg/submission"
	"github.com/goliatone/go-ekonde/pkg/validation"
	"github.com/goliatone/go-ekonde/pkg/wizard"
)

// Option configures how a Session builds its wizard and pipeline.
type Option func(*options)

type options struct {
	catalog     *catalog.Catalog
	stepGate    bool
	pipelineOps []submission.Option
	now         func() time.Time
}

// WithCatalog sets the catalog used for step titles and fee lookups.
func WithCatalog(c *catalog.Catalog) Option {
	return func(o *options) {
		if c != nil {
			o.catalog = c
		}
	}
}

// WithStepGate enables the per-step completeness gate.
func WithStepGate(enabled bool) Option {
	return func(o *options) {
		o.stepGate = enabled
	}
}

// WithPipeline forwards options to the session's submission pipeline.
func WithPipeline(opts ...submission.Option) Option {
	return func(o *options) {
		o.pipelineOps = append(o.pipelineOps, opts...)
	}
}

// WithClock overrides time.Now for idle tracking.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func newOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	if o.catalog == nil {
		o.catalog = catalog.MustDefault()
	}
	return o
}

// Session is the explicit per-visitor context: identity, the wizard and
// its draft, the location widget, pending notices and the submission
// pipeline. All methods are safe for concurrent use and are applied in the
// order they acquire the session lock.
type Session struct {
	id   string
	opts options

	mu       sync.Mutex
	lastSeen time.Time
	wizard   *wizard.Controller
	draft    *draft.Store
	location *location.Capture
	pipeline *submission.Pipeline
	notices  notify.Queue

	token   string
	user    *model.User
	profile *model.Profile
}

// New creates a session with a pristine wizard.
func New(id string, opts ...Option) *Session {
	s := &Session{id: id, opts: newOptions(opts)}
	s.lastSeen = s.opts.now()
	s.pipeline = submission.New(s.opts.pipelineOps...)
	s.resetWizardLocked()
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Catalog returns the catalog the session renders from.
func (s *Session) Catalog() *catalog.Catalog { return s.opts.catalog }

// Notifier exposes the session notice queue to collaborators.
func (s *Session) Notifier() notify.Notifier { return &s.notices }

func (s *Session) touch() {
	s.lastSeen = s.opts.now()
}

// LastSeen reports when the session last handled an operation.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Authenticate binds an auth session and queues the matching welcome notice.
func (s *Session) Authenticate(sess auth.Session, title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	user, profile := sess.User, sess.Profile
	s.token, s.user, s.profile = sess.Token, &user, &profile
	if title != "" {
		s.notices.Notify(notify.Success(title, ""))
	}
}

// Identity returns the signed-in user and profile, if any.
func (s *Session) Identity() (*model.User, *model.Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil, nil, false
	}
	user, profile := *s.user, *s.profile
	return &user, &profile, true
}

// Token returns the auth token bound to the session.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Teardown forgets the identity and discards the draft. It returns the auth
// token that was bound so the caller can revoke it.
func (s *Session) Teardown() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	token := s.token
	s.token, s.user, s.profile = "", nil, nil
	s.resetWizardLocked()
	return token
}

// OpenWizard pre-fills the draft from the signed-in identity. Prefill only
// happens once per draft and never overwrites a non-empty field.
func (s *Session) OpenWizard() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.draft.Prefill(s.user, s.profile)
}

// Restart discards the draft and returns the wizard to the first step.
func (s *Session) Restart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.resetWizardLocked()
}

// MergeFields applies a field patch to the draft. Coordinate edits are
// mirrored into the location widget.
func (s *Session) MergeFields(patch draft.Patch) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	changed, err := s.draft.Merge(patch)
	if err != nil {
		return nil, err
	}
	for _, name := range changed {
		if name == model.FieldLatitude || name == model.FieldLongitude {
			s.syncLocationLocked()
			break
		}
	}
	return changed, nil
}

// Next advances the wizard, consulting the completeness gate when enabled.
func (s *Session) Next() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	moved, err := s.wizard.AdvanceWith(s.draft.Snapshot())
	if err != nil {
		for _, issue := range validation.AsIssues(err) {
			s.notices.Notify(notify.Error(issue.Message, ""))
		}
	}
	return moved, err
}

// Back retreats the wizard.
func (s *Session) Back() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.wizard.Retreat()
}

// Step returns the current wizard step.
func (s *Session) Step() model.StepID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wizard.Step()
}

// Draft returns a snapshot of the draft.
func (s *Session) Draft() model.ApplicationDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Snapshot()
}

// RequestLocation asks g for the device position.
func (s *Session) RequestLocation(ctx context.Context, g location.Geolocator) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.location.RequestDeviceLocation(ctx, g)
}

// ManualLocation submits typed coordinates.
func (s *Session) ManualLocation(lat, lng string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.location.SubmitManualCoordinates(lat, lng)
}

// ErrNotReady is returned by Submit before the review step.
var ErrNotReady = errors.New("session: wizard is not on the review step")

// Submit runs the submission pipeline for the current draft. The session
// lock is released while the pipeline waits so the page can still observe
// the busy state. On success the success notice is queued and the wizard is
// restarted.
func (s *Session) Submit(ctx context.Context) (model.SubmissionResult, error) {
	s.mu.Lock()
	s.touch()
	if !s.wizard.IsTerminal() {
		s.mu.Unlock()
		return model.SubmissionResult{}, ErrNotReady
	}
	snapshot := s.draft.Snapshot()
	pipeline := s.pipeline
	s.mu.Unlock()

	result, err := pipeline.Submit(ctx, snapshot)
	if err != nil {
		if errors.Is(err, submission.ErrBusy) {
			return model.SubmissionResult{}, err
		}
		return model.SubmissionResult{}, fmt.Errorf("session: submit: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices.Notify(notify.Success(submission.TitleSubmitted, submission.SuccessDescription(result)))
	s.resetWizardLocked()
	return result, nil
}

// Busy reports whether a submission is in flight.
func (s *Session) Busy() bool {
	return s.pipeline.Busy()
}

// DrainNotices returns and clears pending notices.
func (s *Session) DrainNotices() []notify.Notification {
	return s.notices.Drain()
}

// Notify queues n for the next render.
func (s *Session) Notify(n notify.Notification) {
	s.notices.Notify(n)
}

func (s *Session) resetWizardLocked() {
	var wizOpts []wizard.Option
	wizOpts = append(wizOpts, wizard.WithSteps(s.opts.catalog.StepsCopy()))
	if s.opts.stepGate {
		wizOpts = append(wizOpts, wizard.WithGate(validation.StepComplete))
	}
	s.wizard = wizard.New(wizOpts...)
	s.draft = draft.New()
	s.newLocationLocked(nil)
}

func (s *Session) syncLocationLocked() {
	if pos, ok := s.draft.Snapshot().Coordinates(); ok {
		s.newLocationLocked(&pos)
		return
	}
	s.newLocationLocked(nil)
}

func (s *Session) newLocationLocked(seed *model.Coordinates) {
	opts := []location.Option{location.WithNotifier(&s.notices)}
	if seed != nil {
		opts = append(opts, location.WithPosition(*seed))
	}
	// onSelect runs while the session lock is held.
	s.location = location.New(s.draft.SetCoordinates, opts...)
}
