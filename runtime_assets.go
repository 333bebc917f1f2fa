package ekonde

import (
	"embed"
	"io/fs"
)

//go:embed pkg/render/assets/*.css pkg/render/assets/*.js
var embeddedAssets embed.FS

// AssetsFS exposes the stylesheet and page script the layout references so
// they can be served without a frontend build step.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(ekonde.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedAssets, "pkg/render/assets")
	if err != nil {
		return embeddedAssets
	}
	return sub
}
