package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/vigil/internal/common"
	"github.com/ternarybob/vigil/internal/index"
	"github.com/ternarybob/vigil/internal/models"
	"github.com/ternarybob/vigil/internal/scorer"
	"github.com/ternarybob/vigil/internal/services/search"
)

func testSearchHandler(entities ...*models.Entity) *SearchHandler {
	idx := index.New()
	idx.Replace(entities)
	svc := search.NewService(idx, scorer.NewHolder(scorer.DefaultConfig()), nil)
	return NewSearchHandler(svc, common.GetLogger())
}

func testPerson(id, name string) *models.Entity {
	return &models.Entity{
		ID: id, SourceID: id, Source: models.SourceOFACSDN,
		Type: models.EntityPerson, Name: name,
	}
}

func doSearch(h *SearchHandler, url string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	h.SearchHandler(rec, req)
	return rec
}

func TestSearchHandlerOK(t *testing.T) {
	h := testSearchHandler(testPerson("1001", "Nicolas Maduro"), testPerson("1002", "Maria Lopez"))

	rec := doSearch(h, "/v1/search?name=Nicolas+Maduro")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.TotalResults)
	assert.Equal(t, "1001", resp.Entities[0].EntityID)
	assert.Equal(t, "Nicolas Maduro", resp.Entities[0].Name)
	assert.InDelta(t, 1.0, resp.Entities[0].Score, 0.001)
	assert.True(t, strings.HasPrefix(resp.RequestID, "req_"))
	assert.Nil(t, resp.Trace)
}

func TestSearchHandlerNoMatches(t *testing.T) {
	h := testSearchHandler(testPerson("1001", "Nicolas Maduro"))

	rec := doSearch(h, "/v1/search?name=Zelda+Quimby")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Zero(t, resp.TotalResults)
	assert.NotNil(t, resp.Entities)
}

func TestSearchHandlerParamValidation(t *testing.T) {
	h := testSearchHandler(testPerson("1001", "Nicolas Maduro"))

	tests := []struct {
		name    string
		url     string
		message string
	}{
		{"malformed limit", "/v1/search?name=x&limit=ten", "limit must be an integer"},
		{"negative limit", "/v1/search?name=x&limit=-1", "limit must be >= 0"},
		{"malformed minMatch", "/v1/search?name=x&minMatch=high", "minMatch must be a number"},
		{"minMatch above one", "/v1/search?name=x&minMatch=1.5", "minMatch must be in [0,1]"},
		{"negative minMatch", "/v1/search?name=x&minMatch=-0.5", "minMatch must be in [0,1]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doSearch(h, tt.url)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, "Bad Request", resp.Error)
			assert.Equal(t, tt.message, resp.Message)
		})
	}
}

func TestSearchHandlerLimit(t *testing.T) {
	h := testSearchHandler(
		testPerson("1001", "Nicolas Maduro"),
		testPerson("1002", "Nicolas Maduro"),
		testPerson("1003", "Nicolas Maduro"),
	)

	rec := doSearch(h, "/v1/search?name=Nicolas+Maduro&limit=2")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.TotalResults)
}

func TestSearchHandlerTrace(t *testing.T) {
	h := testSearchHandler(testPerson("1001", "Nicolas Maduro"))

	rec := doSearch(h, "/v1/search?name=Nicolas+Maduro&trace=true")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Trace)
	assert.NotEmpty(t, resp.Trace.Phases)
}

func TestSearchHandlerMinMatchOverride(t *testing.T) {
	h := testSearchHandler(testPerson("1001", "Nicolas Maduro"), testPerson("1002", "Nikolai Madden"))

	rec := doSearch(h, "/v1/search?name=Nicolas+Maduro&minMatch=0")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.TotalResults)
}

func TestSearchHandlerMethodNotAllowed(t *testing.T) {
	h := testSearchHandler()

	req := httptest.NewRequest(http.MethodPost, "/v1/search?name=x", nil)
	rec := httptest.NewRecorder()
	h.SearchHandler(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
