// Package testsupport holds fixture and golden-file helpers shared by the
// package tests. Set UPDATE_GOLDENS=1 to rewrite goldens from current output.
package testsupport

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-ekonde/pkg/catalog"
	"github.com/goliatone/go-ekonde/pkg/model"
)

// MustLoadCatalog loads and validates a catalog YAML fixture.
func MustLoadCatalog(t *testing.T, path string) *catalog.Catalog {
	t.Helper()
	c, err := catalog.LoadFile(path)
	if err != nil {
		t.Fatalf("load catalog %s: %v", path, err)
	}
	return c
}

// MustLoadDraft loads an application draft JSON fixture.
func MustLoadDraft(t *testing.T, path string) model.ApplicationDraft {
	t.Helper()
	var d model.ApplicationDraft
	if err := LoadJSON(path, &d); err != nil {
		t.Fatalf("load draft: %v", err)
	}
	return d
}

// LoadJSON decodes the JSON file at path into out.
func LoadJSON(path string, out any) error {
	if path == "" {
		return errors.New("testsupport: fixture path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("testsupport: read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("testsupport: decode %s: %w", path, err)
	}
	return nil
}

// WriteGolden stores value as indented JSON when goldens are being updated.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()
	if !updating() {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	writeFile(t, path, append(payload, '\n'))
}

// WriteMaybeGolden stores raw output when goldens are being updated and
// reports whether it did, in which case the caller has nothing to compare.
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if !updating() {
		return false
	}
	writeFile(t, path, data)
	return true
}

// CompareGolden returns a cmp diff, empty when want and got match.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden returns the golden file's bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString is MustReadGolden as a string.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// CaptureTemplateOutput runs render against a buffer and returns both the
// returned string and what was written.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()
	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out, buf.String()
}

func updating() bool {
	return os.Getenv("UPDATE_GOLDENS") != ""
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
}
