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
	"github.com/ternarybob/vigil/internal/scorer"
)

func testConfigHandler() *ConfigHandler {
	return NewConfigHandler(scorer.NewHolder(scorer.DefaultConfig()), common.GetLogger())
}

func TestGetConfigHandler(t *testing.T) {
	h := testConfigHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/admin/config", nil)
	rec := httptest.NewRecorder()
	h.GetConfigHandler(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var cfg scorer.Config
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cfg))
	assert.Equal(t, 35.0, cfg.Weights.NameWeight)
	assert.Equal(t, 0.88, cfg.Weights.MinMatch)
	assert.Equal(t, 4, cfg.Similarity.JaroWinklerPrefixSize)
}

func TestUpdateConfigWeights(t *testing.T) {
	h := testConfigHandler()

	body := `{"nameWeight":40,"addressWeight":20,"criticalIdWeight":50,"supportingInfoWeight":15,"minMatch":0.9,"exactMatchThreshold":0.99}`
	req := httptest.NewRequest(http.MethodPut, "/api/admin/config/weights", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.UpdateConfigHandler(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var cfg scorer.Config
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cfg))
	assert.Equal(t, 40.0, cfg.Weights.NameWeight)
	assert.Equal(t, 0.9, cfg.Weights.MinMatch)
}

func TestUpdateConfigWeightsRejected(t *testing.T) {
	h := testConfigHandler()

	body := `{"nameWeight":-1,"minMatch":0.88}`
	req := httptest.NewRequest(http.MethodPut, "/api/admin/config/weights", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.UpdateConfigHandler(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Bad Request", resp.Error)
	assert.True(t, strings.HasPrefix(resp.Message, "Invalid configuration: "))

	// The running configuration is untouched.
	assert.Equal(t, 35.0, h.config.Get().Weights.NameWeight)
}

func TestUpdateConfigSimilarity(t *testing.T) {
	h := testConfigHandler()

	body := `{"jaroWinklerPrefixSize":2,"lengthDifferencePenaltyWeight":0.3,"lengthDifferenceCutoffFactor":0.9,"unmatchedIndexTokenWeight":0.15,"phoneticFilteringDisabled":true}`
	req := httptest.NewRequest(http.MethodPut, "/api/admin/config/similarity", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.UpdateConfigHandler(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	cfg := h.config.Get()
	assert.Equal(t, 2, cfg.Similarity.JaroWinklerPrefixSize)
	assert.True(t, cfg.Similarity.PhoneticFilteringDisabled)
}

func TestUpdateConfigSimilarityRejected(t *testing.T) {
	h := testConfigHandler()

	body := `{"jaroWinklerPrefixSize":11,"lengthDifferencePenaltyWeight":0.3,"lengthDifferenceCutoffFactor":0.9,"unmatchedIndexTokenWeight":0.15}`
	req := httptest.NewRequest(http.MethodPut, "/api/admin/config/similarity", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.UpdateConfigHandler(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 4, h.config.Get().Similarity.JaroWinklerPrefixSize)
}

func TestUpdateConfigUnknownSection(t *testing.T) {
	h := testConfigHandler()

	req := httptest.NewRequest(http.MethodPut, "/api/admin/config/thresholds", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.UpdateConfigHandler(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateConfigMalformedBody(t *testing.T) {
	h := testConfigHandler()

	req := httptest.NewRequest(http.MethodPut, "/api/admin/config/weights", strings.NewReader(`{`))
	rec := httptest.NewRecorder()
	h.UpdateConfigHandler(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResetConfigHandler(t *testing.T) {
	h := testConfigHandler()
	require.NoError(t, h.config.SetWeights(scorer.Weights{
		NameWeight: 40, AddressWeight: 20, CriticalIDWeight: 50,
		SupportingInfoWeight: 15, MinMatch: 0.9, ExactMatchThreshold: 0.99,
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/admin/config/reset", nil)
	rec := httptest.NewRecorder()
	h.ResetConfigHandler(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	cfg := h.config.Get()
	assert.Equal(t, 35.0, cfg.Weights.NameWeight)
	assert.Equal(t, 0.88, cfg.Weights.MinMatch)
}

func TestResetConfigMethodNotAllowed(t *testing.T) {
	h := testConfigHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/admin/config/reset", nil)
	rec := httptest.NewRecorder()
	h.ResetConfigHandler(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
