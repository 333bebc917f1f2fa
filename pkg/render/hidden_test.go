package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-ekonde/pkg/model"
	"github.com/goliatone/go-ekonde/pkg/render"
)

func TestNormalizeHidden(t *testing.T) {
	got := render.NormalizeHidden([]render.HiddenField{
		render.StepField(model.StepPersonalDetails),
		render.ReturnField("/dashboard"),
		render.Hidden("  ", "skip"),
		render.StepField(model.StepLocation),
	})
	want := []render.HiddenField{
		{Name: "return", Value: "/dashboard"},
		{Name: "step", Value: "3"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("hidden fields mismatch (-want +got):\n%s", diff)
	}
	if render.NormalizeHidden(nil) != nil {
		t.Fatalf("expected nil for no fields")
	}
}
