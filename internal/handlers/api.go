package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/vigil/internal/common"
	"github.com/ternarybob/vigil/internal/index"
	"github.com/ternarybob/vigil/internal/services/jobs"
	"github.com/ternarybob/vigil/internal/services/refresh"
)

type APIHandler struct {
	index   *index.Index
	jobs    *jobs.Manager
	refresh *refresh.Service
	logger  arbor.ILogger
}

func NewAPIHandler(idx *index.Index, manager *jobs.Manager, refreshSvc *refresh.Service) *APIHandler {
	return &APIHandler{
		index:   idx,
		jobs:    manager,
		refresh: refreshSvc,
		logger:  common.GetLogger(),
	}
}

// VersionHandler returns version information
func (h *APIHandler) VersionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"version":    common.GetVersion(),
		"build":      common.GetBuild(),
		"git_commit": common.GetGitCommit(),
	})
}

// HealthHandler returns health check status
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// StatusHandler returns index and job pipeline status
func (h *APIHandler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	status := map[string]interface{}{
		"indexSize":        h.index.Len(),
		"entitiesBySource": h.index.CountsBySource(),
	}
	if h.jobs != nil {
		status["jobs"] = h.jobs.JobCounts()
	}
	if h.refresh != nil {
		status["refresh"] = h.refresh.Status()
	}

	WriteJSON(w, http.StatusOK, status)
}

// NotFoundHandler handles 404 errors with JSON response
func (h *APIHandler) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusNotFound, map[string]interface{}{
		"error":   "Not Found",
		"path":    r.URL.Path,
		"message": "The requested endpoint does not exist",
	})
}
