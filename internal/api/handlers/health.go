package handlers

import (
	"net/http"
)

// Health is a minimal liveness check. It reports nothing about Chrome or
// database readiness; the server refuses to start if either is broken.
func Health(w http.ResponseWriter, r *http.Request) {
	res := map[string]string{"status": "ok"}
	writeJSON(w, r, http.StatusOK, res)
}
