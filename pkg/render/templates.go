package render

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tpl templates/pages/*.tpl templates/partials/*.tpl marks/*.svg
var embedded embed.FS

// TemplatesFS exposes the page templates rooted at the templates directory.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		return embedded
	}
	return sub
}

// MarksFS exposes the brand SVG marks.
func MarksFS() fs.FS {
	sub, err := fs.Sub(embedded, "marks")
	if err != nil {
		return embedded
	}
	return sub
}
