package prompt

import (
	"io"
	"log/slog"

	"github.com/goliatone/go-ekonde/internal/logging"
	"github.com/goliatone/go-ekonde/pkg/auth"
	"github.com/goliatone/go-ekonde/pkg/location"
)

// Theme captures the prefixes and review box colours used when printing.
type Theme struct {
	SuccessPrefix string
	ErrorPrefix   string
	InfoPrefix    string
	// BorderColor and AccentColor are lipgloss colour strings ("#0B6E4F").
	BorderColor string
	AccentColor string
}

// DefaultTheme matches the bundled brand tokens.
func DefaultTheme() Theme {
	return Theme{
		SuccessPrefix: "✔",
		ErrorPrefix:   "✖",
		InfoPrefix:    "•",
		BorderColor:   "#0B6E4F",
		AccentColor:   "#FFD100",
	}
}

// ThemeFromTokens overlays brand tokens (primary, secondary) on the default
// theme.
func ThemeFromTokens(tokens map[string]string) Theme {
	th := DefaultTheme()
	if v := tokens["primary"]; v != "" {
		th.BorderColor = v
	}
	if v := tokens["secondary"]; v != "" {
		th.AccentColor = v
	}
	return th
}

// Option configures a Wizard.
type Option func(*Wizard)

// WithDriver overrides the prompt driver.
func WithDriver(driver Driver) Option {
	return func(w *Wizard) {
		if driver != nil {
			w.driver = driver
		}
	}
}

// WithGeolocator enables the "use my location" choice on the location step.
func WithGeolocator(g location.Geolocator) Option {
	return func(w *Wizard) {
		w.geolocator = g
	}
}

// WithAccounts offers sign in or sign up before the wizard so the identity
// fields can be pre-filled.
func WithAccounts(svc auth.Service) Option {
	return func(w *Wizard) {
		w.accounts = svc
	}
}

// WithDistrictSuggest completes the district field as the user types.
func WithDistrictSuggest(fn func(query string) []string) Option {
	return func(w *Wizard) {
		w.suggestDistrict = fn
	}
}

// WithLogger sets the logger for wizard events.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Wizard) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithOutput sets where the review box is printed. Defaults to the driver's
// Info channel.
func WithOutput(out io.Writer) Option {
	return func(w *Wizard) {
		w.out = out
	}
}

// WithTheme applies message prefixes and review colours.
func WithTheme(theme Theme) Option {
	return func(w *Wizard) {
		w.theme = theme
	}
}

func defaultLogger() *slog.Logger {
	return logging.Discard()
}
