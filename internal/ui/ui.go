// Package ui embeds the single-page task board served at "/".
package ui

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var static embed.FS

// FS returns the board's static files rooted at the site root.
func FS() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		// The embedded tree always contains "static".
		panic(err)
	}
	return sub
}

// Handler serves the board.
func Handler() http.Handler {
	return http.FileServer(http.FS(FS()))
}
