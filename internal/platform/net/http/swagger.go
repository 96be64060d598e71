package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// MountSwaggerUI mounts the interactive API explorer at /ui if enabled by caller
// specURL is the path the explorer fetches the machine-readable description from
func MountSwaggerUI(r Router, specURL string, enabled bool) {
	if !enabled {
		return
	}
	h := httpSwagger.Handler(httpSwagger.URL(specURL))
	r.Get("/ui/*", func(w http.ResponseWriter, r *http.Request) {
		h.ServeHTTP(w, r)
	})
	r.Get("/ui", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/ui/index.html", http.StatusMovedPermanently)
	})
}
