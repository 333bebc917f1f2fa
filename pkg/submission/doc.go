// Package submission holds the simulated application submission. There is
// no backend: Submit waits, then hands back a fixed confirmation and the
// page to navigate to. The busy flag backs both the disabled submit button
// and the single-flight guard.
package submission
