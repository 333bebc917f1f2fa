// Package server is the HTTP front-end of eKonde.
//
// It serves the HTML pages (home, login, dashboard, apply, track, verify)
// over per-visitor sessions, a JSON API under /api/v1 whose requests are
// checked against an embedded OpenAPI document, the district search
// component and the operational routes (/healthz, /metrics, /assets/).
// Wizard forms post and redirect with 303 so reloads never resubmit.
package server
