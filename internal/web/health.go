package web

import (
	"net/http"
	"time"
)

// HealthResponse is the JSON body of the health check endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Documents int    `json:"documents"`
	Timestamp string `json:"timestamp"`
}

// handleHealth reports process liveness and the current registry size.
// The upstream model API is not probed here; it is only reached on chat
// requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Documents: s.store.Len(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
