// Package registry serves the read-only pages: application tracking, title
// verification and the dashboard listing. Records come from the catalog.
package registry
