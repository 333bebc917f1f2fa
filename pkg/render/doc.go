// Package render turns pages and their view models into responses. The HTML
// renderer executes pongo2 templates through the go-template seam; the JSON
// renderer serves the same data to API clients. The Registry picks one per
// request from the Accept header.
package render
