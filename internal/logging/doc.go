// Package logging builds the slog logger used by the server and CLI.
// Credentials never reach the output and citizen identifiers (email, NIN,
// phone) are replaced with fingerprints.
package logging
