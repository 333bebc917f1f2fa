package submission

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-ekonde/pkg/model"
)

// Defaults applied by New.
const (
	DefaultDelay          = 2 * time.Second
	DefaultConfirmationID = "APP-2024-001235"
	DefaultRedirect       = "/dashboard"
)

// Notification copy for a finished submission.
const (
	TitleSubmitted = "Application submitted successfully! 🎉"
)

// ErrBusy is returned when a submission is already in flight.
var ErrBusy = errors.New("submission: already in progress")

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithDelay overrides the simulated processing delay. Negative values are
// treated as zero.
func WithDelay(d time.Duration) Option {
	return func(p *Pipeline) {
		if d < 0 {
			d = 0
		}
		p.delay = d
	}
}

// WithConfirmationID overrides the confirmation id returned on success.
func WithConfirmationID(id string) Option {
	return func(p *Pipeline) {
		if id = strings.TrimSpace(id); id != "" {
			p.confirmationID = id
		}
	}
}

// WithRedirect overrides the post-submit navigation target.
func WithRedirect(path string) Option {
	return func(p *Pipeline) {
		if path = strings.TrimSpace(path); path != "" {
			p.redirect = path
		}
	}
}

// WithSleep swaps the wait primitive, mainly for tests.
func WithSleep(fn SleepFunc) Option {
	return func(p *Pipeline) {
		if fn != nil {
			p.sleep = fn
		}
	}
}

// Pipeline simulates sending the application and reports a fixed
// confirmation. At most one submission runs at a time.
type Pipeline struct {
	mu             sync.Mutex
	busy           bool
	delay          time.Duration
	confirmationID string
	redirect       string
	sleep          SleepFunc
}

// New returns a Pipeline with the default delay, confirmation id and
// redirect target.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		delay:          DefaultDelay,
		confirmationID: DefaultConfirmationID,
		redirect:       DefaultRedirect,
		sleep:          Sleep,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Submit enters the busy state, waits the configured delay and returns the
// confirmation. The draft is not inspected. A call made while another is in
// flight fails with ErrBusy; a cancelled ctx aborts the wait and leaves the
// pipeline idle.
func (p *Pipeline) Submit(ctx context.Context, _ model.ApplicationDraft) (model.SubmissionResult, error) {
	p.mu.Lock()
	if p.busy {
		p.mu.Unlock()
		return model.SubmissionResult{}, ErrBusy
	}
	p.busy = true
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.busy = false
		p.mu.Unlock()
	}()

	if err := p.sleep(ctx, p.delay); err != nil {
		return model.SubmissionResult{}, fmt.Errorf("submission: wait: %w", err)
	}
	return model.SubmissionResult{ConfirmationID: p.confirmationID, Redirect: p.redirect}, nil
}

// Busy reports whether a submission is in flight.
func (p *Pipeline) Busy() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.busy
}

// Delay returns the configured processing delay.
func (p *Pipeline) Delay() time.Duration {
	return p.delay
}

// SuccessDescription is the second line of the success notice.
func SuccessDescription(result model.SubmissionResult) string {
	return "Your application ID is " + result.ConfirmationID
}

// Sleep waits for d using a timer and returns ctx.Err() if ctx finishes
// first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
