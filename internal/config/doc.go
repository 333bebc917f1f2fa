// Package config loads eKonde settings with viper: defaults, an optional
// YAML file and EKONDE_* environment overrides (dots become underscores, so
// session.ttl is EKONDE_SESSION_TTL).
package config
