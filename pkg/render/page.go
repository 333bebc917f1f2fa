package render

import (
	"github.com/goliatone/go-ekonde/pkg/notify"
)

// Page names a screen of the front-end. The HTML renderer resolves it to a
// template of the same name under pages/.
type Page string

const (
	PageHome      Page = "home"
	PageLogin     Page = "login"
	PageDashboard Page = "dashboard"
	PageApply     Page = "apply"
	PageTrack     Page = "track"
	PageVerify    Page = "verify"
	PageError     Page = "error"
)

// Viewer is the navbar identity.
type Viewer struct {
	Authenticated bool   `json:"authenticated"`
	DisplayName   string `json:"displayName"`
}

// NavLink is one entry of the primary navigation.
type NavLink struct {
	Href   string `json:"href"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

// PageData is everything a page template can read. Content carries the
// page-specific view model. Page is set by the renderer.
type PageData struct {
	Page    Page                  `json:"page"`
	Title   string                `json:"title"`
	Path    string                `json:"path"`
	Viewer  Viewer                `json:"viewer"`
	Nav     []NavLink             `json:"nav"`
	Notices []notify.Notification `json:"notices,omitempty"`
	Errors  ErrorMapping          `json:"errors"`
	Hidden  []HiddenField         `json:"hidden,omitempty"`
	Content any                   `json:"content,omitempty"`
}

// Navigation returns the primary links with the one matching path marked
// active.
func Navigation(path string) []NavLink {
	links := []NavLink{
		{Href: "/", Label: "Home"},
		{Href: "/verify", Label: "Verify Title"},
		{Href: "/track", Label: "Track Application"},
		{Href: "/apply", Label: "Apply"},
	}
	for i := range links {
		links[i].Active = links[i].Href == path
	}
	return links
}
