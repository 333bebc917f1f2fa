package draft

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-ekonde/pkg/model"
	"github.com/goliatone/go-ekonde/pkg/validation"
)

func TestMerge_LastWriteWins(t *testing.T) {
	s := New()
	if _, err := s.Merge(Patch{model.FieldFullName: "Sarah", model.FieldDistrict: "Mukono"}); err != nil {
		t.Fatalf("merge: %v", err)
	}
	changed, err := s.Merge(Patch{model.FieldFullName: "Sarah Nakalema", "unknown": "ignored"})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if diff := cmp.Diff([]string{model.FieldFullName}, changed); diff != "" {
		t.Fatalf("changed fields mismatch (-want +got):\n%s", diff)
	}

	got := s.Snapshot()
	if got.FullName != "Sarah Nakalema" || got.District != "Mukono" {
		t.Fatalf("unexpected draft: %#v", got)
	}
}

func TestMerge_UppercasesNIN(t *testing.T) {
	s := New()
	if _, err := s.Merge(Patch{model.FieldNIN: "cm12345678abcd"}); err != nil {
		t.Fatalf("merge: %v", err)
	}
	if got := s.Get(model.FieldNIN); got != "CM12345678ABCD" {
		t.Fatalf("expected upper-cased NIN, got %q", got)
	}
}

func TestMerge_Coordinates(t *testing.T) {
	s := New()
	if _, err := s.Merge(Patch{model.FieldLatitude: "0.3476", model.FieldLongitude: 32.5825}); err != nil {
		t.Fatalf("merge: %v", err)
	}
	coords, ok := s.Snapshot().Coordinates()
	if !ok || coords.Latitude != 0.3476 || coords.Longitude != 32.5825 {
		t.Fatalf("unexpected coordinates: %#v ok=%v", coords, ok)
	}

	_, err := s.Merge(Patch{model.FieldFullName: "Should not land", model.FieldLatitude: "abc"})
	if !errors.Is(err, validation.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if s.Get(model.FieldFullName) != "" {
		t.Fatalf("failed merge must not apply other fields")
	}

	if _, err := s.Merge(Patch{model.FieldLatitude: 91.0}); err == nil {
		t.Fatalf("expected out of range latitude to fail")
	}
	if s.Get(model.FieldLatitude) != "0.3476" {
		t.Fatalf("stored latitude changed after failed merge: %q", s.Get(model.FieldLatitude))
	}

	if _, err := s.Merge(Patch{model.FieldLatitude: nil, model.FieldLongitude: ""}); err != nil {
		t.Fatalf("clearing coordinates: %v", err)
	}
	if _, ok := s.Snapshot().Coordinates(); ok {
		t.Fatalf("expected coordinates to be cleared")
	}
}

func TestMerge_RejectsUnknownApplicationType(t *testing.T) {
	s := New()
	if _, err := s.Merge(Patch{model.FieldApplicationType: "transfer"}); err != nil {
		t.Fatalf("merge: %v", err)
	}

	_, err := s.Merge(Patch{model.FieldApplicationType: "land-grab", model.FieldDistrict: "Wakiso"})
	var fieldErr *validation.Error
	if !errors.As(err, &fieldErr) || fieldErr.Field != model.FieldApplicationType {
		t.Fatalf("expected an applicationType error, got %v", err)
	}
	got := s.Snapshot()
	if got.ApplicationType != model.ApplicationTransfer || got.District != "" {
		t.Fatalf("rejected patch must leave the draft untouched: %#v", got)
	}

	if _, err := s.Merge(Patch{model.FieldApplicationType: ""}); err != nil {
		t.Fatalf("clearing the type: %v", err)
	}
	if s.Snapshot().ApplicationType != "" {
		t.Fatalf("expected the type to be cleared")
	}
}

func TestMerge_Documents(t *testing.T) {
	s := New()
	if _, err := s.Merge(Patch{model.FieldDocuments: []any{"nin-copy", "land-photos"}}); err != nil {
		t.Fatalf("merge: %v", err)
	}
	if diff := cmp.Diff([]string{"nin-copy", "land-photos"}, s.Snapshot().Documents); diff != "" {
		t.Fatalf("documents mismatch (-want +got):\n%s", diff)
	}
	if _, err := s.Merge(Patch{model.FieldDocuments: []any{1}}); err == nil {
		t.Fatalf("expected non-string document id to fail")
	}
}

func TestPrefill_OnlyPristineFieldsOnce(t *testing.T) {
	s := New()
	if s.Prefill(nil, nil) {
		t.Fatalf("prefill without user or profile should not run")
	}
	if _, err := s.Merge(Patch{model.FieldFullName: "Typed By Hand"}); err != nil {
		t.Fatalf("merge: %v", err)
	}

	user := &model.User{ID: "u1", Email: "sarah@example.com"}
	profile := &model.Profile{FullName: "Sarah Nakalema", NIN: "cm123", Phone: "0772 123 456"}
	if !s.Prefill(user, profile) {
		t.Fatalf("expected prefill to run")
	}

	got := s.Snapshot()
	want := model.ApplicationDraft{
		FullName:  "Typed By Hand",
		NIN:       "CM123",
		Phone:     "0772 123 456",
		Email:     "sarah@example.com",
		Documents: []string{},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("prefill mismatch (-want +got):\n%s", diff)
	}

	if _, err := s.Merge(Patch{model.FieldPhone: ""}); err != nil {
		t.Fatalf("merge: %v", err)
	}
	if s.Prefill(user, &model.Profile{Phone: "0700 000 000"}) {
		t.Fatalf("prefill must run at most once")
	}
	if s.Get(model.FieldPhone) != "" {
		t.Fatalf("second prefill clobbered a cleared field")
	}
}

func TestReset(t *testing.T) {
	s := New()
	s.Prefill(&model.User{Email: "a@b.com"}, nil)
	s.SetCoordinates(model.Coordinates{Latitude: 1, Longitude: 2})
	s.Reset()
	if s.Prefilled() {
		t.Fatalf("reset should clear the prefill guard")
	}
	if diff := cmp.Diff(model.ApplicationDraft{Documents: []string{}}, s.Snapshot()); diff != "" {
		t.Fatalf("reset draft mismatch (-want +got):\n%s", diff)
	}
}
