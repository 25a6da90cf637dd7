package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/vigil/internal/models"
	"github.com/ternarybob/vigil/internal/services/jobs"
)

// SubmitJobRequest is the body for POST /v2/batch/bulk-job. Exactly one
// of Items or S3InputPath must be set.
type SubmitJobRequest struct {
	Items       []models.BulkItem `json:"items,omitempty"`
	S3InputPath string            `json:"s3InputPath,omitempty"`
	JobName     string            `json:"jobName"`
	MinMatch    float64           `json:"minMatch"`
	Limit       int               `json:"limit"`
}

// SubmitJobResponse is the 202 acknowledgement.
type SubmitJobResponse struct {
	JobID       string           `json:"jobId"`
	Status      models.JobStatus `json:"status"`
	TotalItems  int              `json:"totalItems"`
	SubmittedAt time.Time        `json:"submittedAt"`
}

// JobHandler handles bulk screening job HTTP requests
type JobHandler struct {
	manager *jobs.Manager
	logger  arbor.ILogger
}

// NewJobHandler creates a new job handler with dependencies
func NewJobHandler(manager *jobs.Manager, logger arbor.ILogger) *JobHandler {
	return &JobHandler{
		manager: manager,
		logger:  logger,
	}
}

// SubmitHandler handles POST /v2/batch/bulk-job requests
func (h *JobHandler) SubmitHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req SubmitJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	hasItems := len(req.Items) > 0
	hasPath := req.S3InputPath != ""
	if hasItems == hasPath {
		WriteError(w, http.StatusBadRequest, "exactly one of items or s3InputPath must be provided")
		return
	}

	var (
		snap models.JobSnapshot
		err  error
	)
	if hasItems {
		snap, err = h.manager.SubmitJob(req.JobName, req.Items, req.MinMatch, req.Limit)
	} else {
		snap, err = h.manager.SubmitJobFromS3(req.JobName, req.S3InputPath, req.MinMatch, req.Limit)
	}
	if err != nil {
		if errors.Is(err, jobs.ErrInvalidInput) {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Warn().Err(err).Msg("Job submission failed")
		WriteError(w, http.StatusInternalServerError, "job submission failed")
		return
	}

	WriteJSON(w, http.StatusAccepted, SubmitJobResponse{
		JobID:       snap.JobID,
		Status:      snap.Status,
		TotalItems:  snap.TotalItems,
		SubmittedAt: snap.SubmittedAt,
	})
}

// JobHandler handles GET and DELETE /v2/batch/bulk-job/{jobId} requests
func (h *JobHandler) JobHandler(w http.ResponseWriter, r *http.Request) {
	jobID := strings.TrimPrefix(r.URL.Path, "/v2/batch/bulk-job/")
	if jobID == "" || strings.Contains(jobID, "/") {
		WriteError(w, http.StatusNotFound, "job not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		includeMatches := r.URL.Query().Get("includeMatches") == "true"
		snap, err := h.manager.GetJobStatus(jobID, includeMatches)
		if err != nil {
			WriteError(w, http.StatusNotFound, "job not found: "+jobID)
			return
		}
		WriteJSON(w, http.StatusOK, snap)

	case http.MethodDelete:
		snap, err := h.manager.Cancel(jobID)
		if err != nil {
			WriteError(w, http.StatusNotFound, "job not found: "+jobID)
			return
		}
		h.logger.Info().Str("job_id", jobID).Msg("Bulk job cancelled")
		WriteJSON(w, http.StatusOK, snap)

	default:
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}
