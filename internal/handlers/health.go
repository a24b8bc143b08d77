package handlers

import "net/http"

// Health handles GET /health
func Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{"status": "UP"}, http.StatusOK)
}
