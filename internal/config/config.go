package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix scopes environment overrides, e.g. EKONDE_SERVER_ADDR.
const EnvPrefix = "EKONDE"

// Config holds application configuration.
type Config struct {
	Server     ServerConfig
	Session    SessionConfig
	Submission SubmissionConfig
	Wizard     WizardConfig
	Auth       AuthConfig
	Catalog    CatalogConfig
	Theme      ThemeConfig
	Log        LogConfig
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// SessionConfig holds visitor session settings.
type SessionConfig struct {
	CookieName string        `mapstructure:"cookie_name"`
	TTL        time.Duration `mapstructure:"ttl"`
	Secure     bool          `mapstructure:"secure"`
}

// SubmissionConfig holds the simulated submission settings.
type SubmissionConfig struct {
	Delay          time.Duration `mapstructure:"delay"`
	ConfirmationID string        `mapstructure:"confirmation_id"`
	Redirect       string        `mapstructure:"redirect"`
}

// WizardConfig toggles the per-step completeness gate.
type WizardConfig struct {
	StepGate bool `mapstructure:"step_gate"`
}

// AuthConfig holds the sign-in limiter settings.
type AuthConfig struct {
	SignInRate  float64 `mapstructure:"signin_rate"`
	SignInBurst int     `mapstructure:"signin_burst"`
}

// CatalogConfig optionally points at a YAML file replacing the embedded
// catalog.
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// ThemeConfig selects the brand theme and variant.
type ThemeConfig struct {
	Name    string `mapstructure:"name"`
	Variant string `mapstructure:"variant"`
}

// LogConfig holds logger settings. Format is "text" or "json".
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Defaults returns the configuration used when nothing overrides it.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Session: SessionConfig{
			CookieName: "ekonde_session",
			TTL:        30 * time.Minute,
		},
		Submission: SubmissionConfig{
			Delay:          2 * time.Second,
			ConfirmationID: "APP-2024-001235",
			Redirect:       "/dashboard",
		},
		Auth:  AuthConfig{SignInRate: 0.2, SignInBurst: 5},
		Theme: ThemeConfig{Name: "ekonde"},
		Log:   LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads configuration from an optional file and the environment.
// The file is EKONDE_CONFIG when set, else ekonde.yaml in the working
// directory or $HOME/.config/ekonde. A missing file is not an error; a
// malformed one is.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v, Defaults())

	v.SetConfigType("yaml")
	if path := os.Getenv(EnvPrefix + "_CONFIG"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("ekonde")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home + "/.config/ekonde")
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: read: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects values the server cannot start with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return errors.New("config: server.addr is required")
	}
	if c.Session.TTL <= 0 {
		return errors.New("config: session.ttl must be positive")
	}
	if c.Submission.Delay < 0 {
		return errors.New("config: submission.delay must not be negative")
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("config: unknown log.format %q", c.Log.Format)
	}
	return nil
}

// setDefaults registers every key so AutomaticEnv can resolve it during
// Unmarshal.
func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("session.cookie_name", d.Session.CookieName)
	v.SetDefault("session.ttl", d.Session.TTL)
	v.SetDefault("session.secure", d.Session.Secure)
	v.SetDefault("submission.delay", d.Submission.Delay)
	v.SetDefault("submission.confirmation_id", d.Submission.ConfirmationID)
	v.SetDefault("submission.redirect", d.Submission.Redirect)
	v.SetDefault("wizard.step_gate", d.Wizard.StepGate)
	v.SetDefault("auth.signin_rate", d.Auth.SignInRate)
	v.SetDefault("auth.signin_burst", d.Auth.SignInBurst)
	v.SetDefault("catalog.path", d.Catalog.Path)
	v.SetDefault("theme.name", d.Theme.Name)
	v.SetDefault("theme.variant", d.Theme.Variant)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}
