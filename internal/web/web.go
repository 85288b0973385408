// Package web embeds the dashboard assets served at the site root.
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var assets embed.FS

// Handler serves the embedded dashboard.
func Handler() http.Handler {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		// The static directory is compiled in; this cannot fail at runtime.
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
