package wizard

import (
	"github.com/goliatone/go-ekonde/pkg/model"
)

// Gate decides whether the wizard may leave step given the current draft.
// A non-nil error blocks the transition.
type Gate func(step model.StepID, draft model.ApplicationDraft) error

// Option configures a Controller.
type Option func(*Controller)

// WithGate installs a completeness gate consulted by AdvanceWith.
func WithGate(gate Gate) Option {
	return func(c *Controller) {
		c.gate = gate
	}
}

// WithSteps overrides the step definitions used for titles and progress. The
// controller always spans FirstStep..LastStep regardless of the slice.
func WithSteps(steps []model.Step) Option {
	return func(c *Controller) {
		if len(steps) == 0 {
			return
		}
		c.steps = append([]model.Step{}, steps...)
	}
}

// Controller holds the current step of the application wizard. The zero value
// is not usable; construct with New.
type Controller struct {
	step  model.StepID
	steps []model.Step
	gate  Gate
}

// New returns a controller positioned on the first step.
func New(opts ...Option) *Controller {
	c := &Controller{step: model.FirstStep}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Step returns the current step index in [1,5].
func (c *Controller) Step() model.StepID {
	return c.step
}

// Advance moves forward one step. It is a no-op on the last step and reports
// whether the step changed.
func (c *Controller) Advance() bool {
	if c.step >= model.LastStep {
		return false
	}
	c.step++
	return true
}

// AdvanceWith consults the configured gate before advancing. Without a gate
// it behaves exactly like Advance.
func (c *Controller) AdvanceWith(draft model.ApplicationDraft) (bool, error) {
	if c.gate != nil && c.step < model.LastStep {
		if err := c.gate(c.step, draft); err != nil {
			return false, err
		}
	}
	return c.Advance(), nil
}

// Retreat moves back one step. It is a no-op on the first step and reports
// whether the step changed.
func (c *Controller) Retreat() bool {
	if c.step <= model.FirstStep {
		return false
	}
	c.step--
	return true
}

// Reset returns to the first step.
func (c *Controller) Reset() {
	c.step = model.FirstStep
}

// Gated reports whether a completeness gate is installed.
func (c *Controller) Gated() bool {
	return c.gate != nil
}

// IsFirst reports whether Retreat would be a no-op.
func (c *Controller) IsFirst() bool {
	return c.step == model.FirstStep
}

// IsTerminal reports whether the current step triggers submission instead of
// a further advance.
func (c *Controller) IsTerminal() bool {
	return c.step == model.LastStep
}

// Current returns the definition of the current step, if steps were provided.
func (c *Controller) Current() model.Step {
	if idx := int(c.step) - 1; idx >= 0 && idx < len(c.steps) {
		return c.steps[idx]
	}
	return model.Step{ID: c.step}
}

// Count returns the number of steps in the wizard.
func (c *Controller) Count() int {
	return int(model.LastStep)
}

// StepState classifies a step relative to the current position.
type StepState string

const (
	StateCompleted StepState = "completed"
	StateCurrent   StepState = "current"
	StateUpcoming  StepState = "upcoming"
)

// Progress is one entry of the stepper shown above the wizard.
type Progress struct {
	Step  model.Step `json:"step"`
	State StepState  `json:"state"`
}

// Progress returns one entry per step, marking completed, current and
// upcoming stages.
func (c *Controller) Progress() []Progress {
	out := make([]Progress, 0, model.LastStep)
	for id := model.FirstStep; id <= model.LastStep; id++ {
		step := model.Step{ID: id}
		if idx := int(id) - 1; idx < len(c.steps) {
			step = c.steps[idx]
		}
		state := StateUpcoming
		switch {
		case id < c.step:
			state = StateCompleted
		case id == c.step:
			state = StateCurrent
		}
		out = append(out, Progress{Step: step, State: state})
	}
	return out
}

// Steps returns a copy of the configured step definitions.
func (c *Controller) Steps() []model.Step {
	return append([]model.Step(nil), c.steps...)
}
