// Package web embeds the HTML templates and static assets so the binary has
// no runtime dependency on the working directory.
package web

import (
	"embed"
	"html/template"
	"io/fs"
)

//go:embed templates/*.html
var templateFiles embed.FS

//go:embed static/*
var staticFiles embed.FS

// Templates parses base.html and index.html together; index.html fills the
// "content" block declared by base.html.
func Templates() (*template.Template, error) {
	return template.ParseFS(templateFiles, "templates/base.html", "templates/index.html")
}

// Static returns the assets served under /static/.
func Static() fs.FS {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return staticFiles
	}
	return sub
}
