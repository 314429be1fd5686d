// Package swaggerkit serves Swagger UI over an OpenAPI document generated from the mounted routes
package swaggerkit

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"

	phttp "lectern/internal/platform/net/http"
)

// Mount serves the UI at /api/docs when enabled; r must sit on a chi mux so routes can be walked
func Mount(r phttp.Router, base string, enabled bool) {
	if !enabled {
		return
	}
	routes, ok := r.Mux().(chi.Routes)
	if !ok {
		return
	}
	r.Get("/api/docs", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/api/docs/", http.StatusPermanentRedirect)
	})
	r.Get("/api/docs/doc.json", serveDocJSON(routes, base))
	r.Handle("/api/docs/*", httpSwagger.Handler(
		httpSwagger.InstanceName("lectern"),
		httpSwagger.URL("/api/docs/doc.json"),
	))
}
