// Package session replaces ambient auth and page state with an explicit
// per-visitor context.
//
// A Session is created on the first request (or by the terminal front-end),
// owns one wizard with its draft, location widget, notice queue and
// submission pipeline, and is torn down on sign-out. Manager ties sessions
// to a cookie and expires idle ones.
package session
