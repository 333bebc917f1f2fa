// Package commands holds the ekonde command tree: "serve" runs the web
// front-end and "apply" walks the application wizard in the terminal.
package commands
