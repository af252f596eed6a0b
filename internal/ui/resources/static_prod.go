//go:build !dev

package resources

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static/*
var staticFS embed.FS

// Handler serves static files embedded in the binary. With dev set the
// browser revalidates on every load instead of caching for a day.
func Handler(dev bool) http.Handler {
	fsys, _ := fs.Sub(staticFS, "static")
	fileServer := http.FileServer(http.FS(fsys))

	cacheControl := "public, max-age=86400"
	if dev {
		cacheControl = "no-cache"
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", cacheControl)
		http.StripPrefix("/static/", fileServer).ServeHTTP(w, r)
	})
}
