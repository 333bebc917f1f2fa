package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Setenv(EnvPrefix+"_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	got, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(Defaults(), got); diff != "" {
		t.Fatalf("unexpected config (-want +got):\n%s", diff)
	}
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ekonde.yaml")
	body := "server:\n  addr: \":9000\"\nsubmission:\n  delay: 500ms\nwizard:\n  step_gate: true\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv(EnvPrefix+"_CONFIG", path)
	t.Setenv("EKONDE_THEME_VARIANT", "high-contrast")

	got, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Server.Addr != ":9000" || got.Submission.Delay != 500*time.Millisecond || !got.Wizard.StepGate {
		t.Fatalf("file values not applied: %#v", got)
	}
	if got.Theme.Variant != "high-contrast" {
		t.Fatalf("env override not applied: %q", got.Theme.Variant)
	}
	if got.Session.TTL != 30*time.Minute {
		t.Fatalf("defaults lost: %v", got.Session.TTL)
	}
}

func TestValidate(t *testing.T) {
	cfg := Defaults()
	cfg.Log.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected unknown format to fail")
	}
	cfg = Defaults()
	cfg.Session.TTL = 0
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected zero ttl to fail")
	}
}
