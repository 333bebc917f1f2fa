// Package prompt is the terminal front-end of the application wizard.
//
// A Wizard asks for each step's fields through a Driver (survey by default),
// feeds the answers into a session.Session exactly as the web handlers do,
// prints notices as they are raised and shows the review summary in a
// lipgloss box before submitting.
package prompt
