package wizard

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-ekonde/pkg/catalog"
	"github.com/goliatone/go-ekonde/pkg/model"
	"github.com/goliatone/go-ekonde/pkg/validation"
)

func controllerAt(t *testing.T, step model.StepID) *Controller {
	t.Helper()
	c := New()
	for c.Step() < step {
		if !c.Advance() {
			t.Fatalf("could not reach step %d", step)
		}
	}
	return c
}

func TestNew_StartsOnFirstStep(t *testing.T) {
	c := New()
	if c.Step() != model.FirstStep || !c.IsFirst() || c.IsTerminal() {
		t.Fatalf("unexpected initial state: step=%d", c.Step())
	}
}

func TestAdvanceRetreat_RoundTrip(t *testing.T) {
	for s := model.FirstStep; s <= model.LastStep; s++ {
		c := controllerAt(t, s)
		if c.Retreat() {
			c.Advance()
		}
		if c.Step() != s {
			t.Fatalf("retreat+advance from %d landed on %d", s, c.Step())
		}

		c = controllerAt(t, s)
		if c.Advance() {
			c.Retreat()
		}
		if c.Step() != s {
			t.Fatalf("advance+retreat from %d landed on %d", s, c.Step())
		}
	}
}

func TestBoundsAreNoOps(t *testing.T) {
	c := controllerAt(t, model.LastStep)
	if c.Advance() {
		t.Fatalf("advance at last step should be a no-op")
	}
	if c.Step() != model.LastStep || !c.IsTerminal() {
		t.Fatalf("expected terminal step, got %d", c.Step())
	}

	c = New()
	if c.Retreat() {
		t.Fatalf("retreat at first step should be a no-op")
	}
	if c.Step() != model.FirstStep {
		t.Fatalf("expected first step, got %d", c.Step())
	}
}

func TestAdvanceWith_NoGateIsUnconditional(t *testing.T) {
	c := New()
	for i := 0; i < 10; i++ {
		if _, err := c.AdvanceWith(model.ApplicationDraft{}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if c.Step() != model.LastStep {
		t.Fatalf("expected to reach last step with an empty draft, got %d", c.Step())
	}
}

func TestAdvanceWith_GateBlocks(t *testing.T) {
	c := New(WithGate(validation.StepComplete))
	moved, err := c.AdvanceWith(model.ApplicationDraft{})
	if moved || !errors.Is(err, validation.ErrValidation) {
		t.Fatalf("expected gate to block, moved=%v err=%v", moved, err)
	}
	if c.Step() != model.FirstStep {
		t.Fatalf("blocked advance must not move, got %d", c.Step())
	}

	moved, err = c.AdvanceWith(model.ApplicationDraft{ApplicationType: model.ApplicationNewTitle})
	if !moved || err != nil {
		t.Fatalf("expected advance, moved=%v err=%v", moved, err)
	}
}

func TestProgress(t *testing.T) {
	c := New(WithSteps(catalog.MustDefault().Steps))
	c.Advance()
	c.Advance()

	var states []StepState
	for _, p := range c.Progress() {
		states = append(states, p.State)
	}
	want := []StepState{StateCompleted, StateCompleted, StateCurrent, StateUpcoming, StateUpcoming}
	if diff := cmp.Diff(want, states); diff != "" {
		t.Fatalf("progress mismatch (-want +got):\n%s", diff)
	}
	if got := c.Current().Title; got != "Land Location" {
		t.Fatalf("unexpected current step title %q", got)
	}
}
