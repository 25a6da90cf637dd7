package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/vigil/internal/scorer"
)

// ConfigHandler handles runtime scoring configuration HTTP requests
type ConfigHandler struct {
	config *scorer.Holder
	logger arbor.ILogger
}

// NewConfigHandler creates a new config handler with dependencies
func NewConfigHandler(config *scorer.Holder, logger arbor.ILogger) *ConfigHandler {
	return &ConfigHandler{
		config: config,
		logger: logger,
	}
}

// GetConfigHandler handles GET /api/admin/config requests
func (h *ConfigHandler) GetConfigHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, h.config.Get())
}

// UpdateConfigHandler handles PUT /api/admin/config/{similarity|weights}
// requests. Bodies are validated before being applied; a rejected body
// leaves the running configuration untouched.
func (h *ConfigHandler) UpdateConfigHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPut) {
		return
	}

	section := strings.TrimPrefix(r.URL.Path, "/api/admin/config/")
	switch section {
	case "weights":
		var weights scorer.Weights
		if err := json.NewDecoder(r.Body).Decode(&weights); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
			return
		}
		if err := h.config.SetWeights(weights); err != nil {
			WriteError(w, http.StatusBadRequest, invalidConfigMessage(err))
			return
		}
		h.logger.Info().Msg("Scoring weights updated")

	case "similarity":
		var sim scorer.Similarity
		if err := json.NewDecoder(r.Body).Decode(&sim); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
			return
		}
		if err := h.config.SetSimilarity(sim); err != nil {
			WriteError(w, http.StatusBadRequest, invalidConfigMessage(err))
			return
		}
		h.logger.Info().Msg("Similarity settings updated")

	default:
		WriteError(w, http.StatusNotFound, "unknown config section: "+section)
		return
	}

	WriteJSON(w, http.StatusOK, h.config.Get())
}

// invalidConfigMessage renders validation failures in the documented
// "Invalid configuration: ..." message shape.
func invalidConfigMessage(err error) string {
	return "Invalid configuration: " + strings.TrimPrefix(err.Error(), "invalid configuration: ")
}

// ResetConfigHandler handles POST /api/admin/config/reset requests
func (h *ConfigHandler) ResetConfigHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	h.config.Reset()
	h.logger.Info().Msg("Scoring configuration reset to defaults")
	WriteJSON(w, http.StatusOK, h.config.Get())
}
