package commands

import (
	"context"
	"testing"

	"github.com/goliatone/go-ekonde/internal/config"
	"github.com/goliatone/go-ekonde/pkg/catalog"
	"github.com/goliatone/go-ekonde/pkg/session"
)

func TestParseGPS(t *testing.T) {
	tests := []struct {
		raw     string
		wantErr bool
	}{
		{raw: "0.3476,32.5825"},
		{raw: " 0.3476 , 32.5825 "},
		{raw: "0.3476", wantErr: true},
		{raw: "north,east", wantErr: true},
		{raw: "91,0", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			g, err := parseGPS(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			pos, err := g.Locate(context.Background())
			if err != nil || pos.Latitude != 0.3476 || pos.Longitude != 32.5825 {
				t.Fatalf("unexpected position %#v (%v)", pos, err)
			}
		})
	}
}

func TestResolveTheme(t *testing.T) {
	th, err := resolveTheme(config.ThemeConfig{Name: "ekonde"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if th.Stylesheet != "/assets/app.css" || th.Tokens["primary"] == "" {
		t.Fatalf("unexpected theme context %#v", th)
	}
	if _, err := resolveTheme(config.ThemeConfig{Name: "ekonde", Variant: "sepia"}); err == nil {
		t.Fatalf("expected unknown variant to fail")
	}
}

func TestSessionOptionsApplyConfig(t *testing.T) {
	c := config.Defaults()
	c.Wizard.StepGate = true
	sess := session.New("t", sessionOptions(c, catalog.MustDefault())...)
	if moved, err := sess.Next(); moved || err == nil {
		t.Fatalf("step gate should block an empty first step")
	}
}
