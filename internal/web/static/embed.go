package static

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed all:pages/*
var pagesFS embed.FS

// GetFileSystem returns an http.FileSystem for the embedded pages directory.
func GetFileSystem() http.FileSystem {
	fsys, err := fs.Sub(pagesFS, "pages")
	if err != nil {
		panic(err)
	}
	return http.FS(fsys)
}

// HasPages returns true if the pages directory exists and has content.
func HasPages() bool {
	entries, err := fs.ReadDir(pagesFS, "pages")
	if err != nil {
		return false
	}
	return len(entries) > 0
}
