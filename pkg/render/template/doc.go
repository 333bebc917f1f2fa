// Package template defines the template engine seam the page renderer
// depends on, with a go-template backed engine under gotemplate.
package template
