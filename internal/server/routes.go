package server

import (
	"net/http"
	"strings"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Screening API
	mux.HandleFunc("/v1/search", s.app.SearchHandler.SearchHandler)

	// Bulk screening jobs
	mux.HandleFunc("/v2/batch/bulk-job", s.app.JobHandler.SubmitHandler) // POST - submit
	mux.HandleFunc("/v2/batch/bulk-job/", s.app.JobHandler.JobHandler)   // GET/DELETE /{jobId}

	// Runtime scoring configuration
	mux.HandleFunc("/api/admin/config", s.app.ConfigHandler.GetConfigHandler)
	mux.HandleFunc("/api/admin/config/reset", s.app.ConfigHandler.ResetConfigHandler)
	mux.HandleFunc("/api/admin/config/", s.handleConfigRoutes) // PUT /{weights|similarity}

	// System routes
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/status", s.app.APIHandler.StatusHandler)

	// Everything else is a JSON 404
	mux.HandleFunc("/", s.app.APIHandler.NotFoundHandler)

	return mux
}

// handleConfigRoutes dispatches /api/admin/config/{section} paths. The
// reset action is registered explicitly above; the rest are PUT updates.
func (s *Server) handleConfigRoutes(w http.ResponseWriter, r *http.Request) {
	section := strings.TrimPrefix(r.URL.Path, "/api/admin/config/")
	if section == "" {
		s.app.ConfigHandler.GetConfigHandler(w, r)
		return
	}
	s.app.ConfigHandler.UpdateConfigHandler(w, r)
}
