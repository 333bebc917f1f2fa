// Package auth defines the authentication collaborator used by the login
// page and the session layer, plus an in-memory provider.
//
// Failures are *Error values with a Kind; Message turns them into the
// sentences the pages show. The package-level SignIn and SignUp helpers run
// the form validation first and never reach the provider with malformed
// input.
package auth
