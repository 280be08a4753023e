package digest

import "net/http"

// Register mounts the digest endpoints on mux.
func Register(mux *http.ServeMux, results Results, cache Cache, breakers Breakers) {
	mux.Handle("GET /digest", GetHandler{Results: results})
	mux.Handle("GET /digest/status", StatusHandler{Cache: cache})
	mux.Handle("POST /digest/refresh", RefreshHandler{Cache: cache})
	mux.Handle("GET /resilience/status", ResilienceHandler{Breakers: breakers})
}
