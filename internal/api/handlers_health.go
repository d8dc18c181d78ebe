package api

import "net/http"

// Banner handles GET /
func Banner(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("AI Core API v0.1.0"))
}

// Health handles GET /health
func Health(w http.ResponseWriter, r *http.Request) {
	writeOK(w, http.StatusOK, "AI Core is running", "OK")
}
