package frontend

import (
	"embed"
	"io/fs"
	"net/http"
)

// FS holds the dashboard page served by `crowdlens serve`
//
//go:embed all:dist
var FS embed.FS

// GetHTTPFS returns the embedded dashboard page. It fails when dist has no index.html.
func GetHTTPFS() (http.FileSystem, error) {
	dist, err := fs.Sub(FS, "dist")
	if err != nil {
		return nil, err
	}

	if _, err := fs.Stat(dist, "index.html"); err != nil {
		return nil, &fs.PathError{Op: "stat", Path: "index.html", Err: fs.ErrNotExist}
	}
	return http.FS(dist), nil
}
