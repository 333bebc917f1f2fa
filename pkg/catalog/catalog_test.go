package catalog

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-ekonde/pkg/model"
)

func TestDefault_ApplicationTypeFees(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("load default catalog: %v", err)
	}

	got := make(map[model.ApplicationTypeID]string)
	for _, entry := range c.ApplicationTypes {
		got[entry.ID] = entry.FeeLabel()
	}
	want := map[model.ApplicationTypeID]string{
		model.ApplicationNewTitle:    "450,000",
		model.ApplicationTransfer:    "350,000",
		model.ApplicationMutation:    "150,000",
		model.ApplicationSubdivision: "600,000",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("fee table mismatch (-want +got):\n%s", diff)
	}
}

func TestDefault_StepsAreOrdered(t *testing.T) {
	c := MustDefault()

	var titles []string
	for _, step := range c.Steps {
		titles = append(titles, step.Title)
	}
	want := []string{"Application Type", "Personal Details", "Land Location", "Documents", "Review & Submit"}
	if diff := cmp.Diff(want, titles); diff != "" {
		t.Fatalf("step titles mismatch (-want +got):\n%s", diff)
	}

	step, ok := c.Step(model.StepPersonalDetails)
	if !ok {
		t.Fatalf("expected personal details step")
	}
	if len(step.Fields) != 4 || step.Fields[1].Name != model.FieldNIN || !step.Fields[1].Uppercase {
		t.Fatalf("unexpected personal details fields: %#v", step.Fields)
	}
	if _, ok := c.Step(6); ok {
		t.Fatalf("expected step 6 to be missing")
	}
}

func TestDefault_MockRecords(t *testing.T) {
	c := MustDefault()
	if len(c.Applications) != 3 {
		t.Fatalf("expected 3 dashboard applications, got %d", len(c.Applications))
	}
	if len(c.Tracked) != 1 || len(c.Tracked[0].Timeline) != 7 {
		t.Fatalf("unexpected tracked application fixture: %#v", c.Tracked)
	}
	if c.Tracked[0].CompletedSteps() != 3 {
		t.Fatalf("expected 3 completed timeline steps, got %d", c.Tracked[0].CompletedSteps())
	}
	if c.Documents.FormatsLabel() != "PDF, JPG, PNG" || c.Documents.MaxSizeMB != 10 {
		t.Fatalf("unexpected document hints: %#v", c.Documents)
	}
}

func TestLoad_RejectsWrongStepCount(t *testing.T) {
	doc := `
applicationTypes:
  - {id: new-title, title: New, description: d, fee: 1}
steps:
  - {id: 1, title: One, heading: One, description: d}
`
	_, err := Load(strings.NewReader(doc))
	if !errors.Is(err, ErrInvalidCatalog) {
		t.Fatalf("expected ErrInvalidCatalog, got %v", err)
	}
}

func TestLoad_RejectsUnknownApplicationType(t *testing.T) {
	var b strings.Builder
	b.WriteString("applicationTypes:\n  - {id: lease, title: Lease, description: d, fee: 1}\nsteps:\n")
	for i := 1; i <= 5; i++ {
		b.WriteString("  - {id: ")
		b.WriteString(string(rune('0' + i)))
		b.WriteString(", title: s, heading: h, description: d}\n")
	}
	_, err := Load(strings.NewReader(b.String()))
	if !errors.Is(err, ErrInvalidCatalog) {
		t.Fatalf("expected ErrInvalidCatalog, got %v", err)
	}
}

func TestLoad_RejectsUnknownKeys(t *testing.T) {
	if _, err := Load(strings.NewReader("bogus: true\n")); err == nil {
		t.Fatalf("expected decode error for unknown key")
	}
}

func TestLoadFile_EmptyPathReturnsDefault(t *testing.T) {
	c, err := LoadFile("  ")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c != MustDefault() {
		t.Fatalf("expected shared default catalog")
	}
}
