package model

import "testing"

func TestFormatAmount(t *testing.T) {
	cases := map[int64]string{
		0:        "0",
		999:      "999",
		1000:     "1,000",
		150000:   "150,000",
		450000:   "450,000",
		1234567:  "1,234,567",
		-350000:  "-350,000",
		10000000: "10,000,000",
	}
	for amount, want := range cases {
		if got := FormatAmount(amount); got != want {
			t.Fatalf("FormatAmount(%d) = %q, want %q", amount, got, want)
		}
	}
}

func TestDisplayName(t *testing.T) {
	if got := DisplayName(nil, nil); got != "User" {
		t.Fatalf("expected fallback name, got %q", got)
	}
	user := &User{Email: "sarah@example.com"}
	if got := DisplayName(user, nil); got != "sarah" {
		t.Fatalf("expected email local part, got %q", got)
	}
	if got := DisplayName(user, &Profile{FullName: "  Sarah Nakalema "}); got != "Sarah Nakalema" {
		t.Fatalf("expected profile name, got %q", got)
	}
}

func TestApplicationDraftCloneIsDeep(t *testing.T) {
	lat, lng := 0.3476, 32.5825
	original := ApplicationDraft{
		FullName:  "Sarah",
		Documents: []string{"nin-copy"},
		Latitude:  &lat,
		Longitude: &lng,
	}
	clone := original.Clone()
	*clone.Latitude = 1
	clone.Documents[0] = "changed"

	if *original.Latitude != 0.3476 {
		t.Fatalf("clone shares latitude pointer")
	}
	if original.Documents[0] != "nin-copy" {
		t.Fatalf("clone shares documents slice")
	}
}

func TestApplicationDraftTextRoundTrip(t *testing.T) {
	var draft ApplicationDraft
	for _, name := range TextFields {
		if !draft.SetText(name, name+"-value") {
			t.Fatalf("SetText(%q) reported unknown field", name)
		}
		got, ok := draft.Text(name)
		if !ok || got != name+"-value" {
			t.Fatalf("Text(%q) = %q, %v", name, got, ok)
		}
	}
	if draft.SetText("unknown", "x") {
		t.Fatalf("expected unknown field to be rejected")
	}
}

func TestApplicationTypeIDValid(t *testing.T) {
	for _, id := range []ApplicationTypeID{ApplicationNewTitle, ApplicationTransfer, ApplicationMutation, ApplicationSubdivision} {
		if !id.Valid() {
			t.Fatalf("expected %q to be valid", id)
		}
	}
	if ApplicationTypeID("lease").Valid() {
		t.Fatalf("expected unknown id to be invalid")
	}
}
