package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/vigil/internal/common"
	"github.com/ternarybob/vigil/internal/models"
	"github.com/ternarybob/vigil/internal/scorer"
	"github.com/ternarybob/vigil/internal/services/search"
)

// SearchEntity is one ranked match in the search response.
type SearchEntity struct {
	EntityID  string           `json:"entityId"`
	Name      string           `json:"name"`
	Type      string           `json:"type"`
	Source    string           `json:"source"`
	SourceID  string           `json:"sourceId"`
	Score     float64          `json:"score"`
	Breakdown scorer.Breakdown `json:"breakdown"`
}

// SearchResponse is the body for GET /v1/search.
type SearchResponse struct {
	Entities     []SearchEntity `json:"entities"`
	TotalResults int            `json:"totalResults"`
	RequestID    string         `json:"requestID"`
	Trace        *scorer.Tracer `json:"trace,omitempty"`
}

// SearchHandler handles screening query HTTP requests
type SearchHandler struct {
	searchService *search.Service
	logger        arbor.ILogger
}

// NewSearchHandler creates a new search handler with dependencies
func NewSearchHandler(searchService *search.Service, logger arbor.ILogger) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
		logger:        logger,
	}
}

// SearchHandler handles GET /v1/search requests
func (h *SearchHandler) SearchHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	params := r.URL.Query()
	name := params.Get("name")

	limit, err := queryInt(r, "limit", 10)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "limit must be an integer")
		return
	}
	if limit < 0 {
		WriteError(w, http.StatusBadRequest, "limit must be >= 0")
		return
	}

	// An absent minMatch becomes a negative sentinel, which picks up the
	// configured default threshold. An explicit value must be in range.
	minMatch, err := queryFloat(r, "minMatch", -1)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "minMatch must be a number")
		return
	}
	if params.Get("minMatch") != "" && (minMatch < 0 || minMatch > 1) {
		WriteError(w, http.StatusBadRequest, "minMatch must be in [0,1]")
		return
	}

	q := search.Query{
		Name:     name,
		Source:   models.SourceList(params.Get("source")),
		Type:     models.ParseEntityType(params.Get("type")),
		Limit:    limit,
		MinMatch: minMatch,
		Trace:    params.Get("trace") == "true",
	}

	requestID := common.NewRequestID()
	result, err := h.searchService.Search(r.Context(), q)
	if err != nil {
		h.logger.Warn().Err(err).Str("request_id", requestID).Msg("Search failed")
		WriteError(w, http.StatusInternalServerError, "search failed")
		return
	}

	h.logger.Info().
		Str("request_id", requestID).
		Str("name", name).
		Int("scored", result.Scored).
		Int("matches", len(result.Matches)).
		Msg("Search request")

	entities := make([]SearchEntity, 0, len(result.Matches))
	for _, m := range result.Matches {
		entities = append(entities, SearchEntity{
			EntityID:  m.Entity.ID,
			Name:      m.Entity.Name,
			Type:      string(m.Entity.Type),
			Source:    string(m.Entity.Source),
			SourceID:  m.Entity.SourceID,
			Score:     m.Score,
			Breakdown: m.Breakdown,
		})
	}

	WriteJSON(w, http.StatusOK, SearchResponse{
		Entities:     entities,
		TotalResults: len(entities),
		RequestID:    requestID,
		Trace:        result.Tracer,
	})
}
