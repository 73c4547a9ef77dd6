// Package site handles the service's root path.
package site

import (
	"context"
	"net/http"
)

// Register attaches the root route to mux. The bare root forwards to the
// dashboard; anything else under / that no other route claimed is a 404.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, "/dashboard", http.StatusFound)
	})
}
