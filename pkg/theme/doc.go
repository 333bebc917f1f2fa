// Package theme loads the brand manifest (Uganda flag palette and fonts),
// resolves a variant through a go-theme selector and turns it into the CSS
// variables and asset URLs the page layout reads.
package theme
