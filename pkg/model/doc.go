// Package model defines the value types shared by the wizard, the page
// renderers and the terminal front-end: the application draft and its field
// names, the catalog entries (application types, steps, document slots), the
// coordinates captured by the location widget, and the read models shown on
// the dashboard, track and verify pages.
//
// Types here carry no behaviour beyond formatting helpers so they can be
// decoded from the embedded catalog and serialised by the JSON API as-is.
package model
