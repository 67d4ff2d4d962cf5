package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spanishgas/churnpipe/internal/api/handlers"
	"github.com/spanishgas/churnpipe/internal/contracts"
	"github.com/spanishgas/churnpipe/pkg/logger"
)

type stubFeatures struct {
	rows map[string]*contracts.GoldRow
}

func (s *stubFeatures) GetByID(ctx context.Context, customerID string) (*contracts.GoldRow, error) {
	row, ok := s.rows[customerID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return row, nil
}

func newTestRouter(features handlers.FeatureReader) http.Handler {
	h := handlers.NewRunHandler(nil, features, logger.Nop())
	return NewRouter(h, logger.Nop())
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestLatestRunWithoutCache(t *testing.T) {
	router := newTestRouter(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/runs/latest", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestQualityWithoutCache(t *testing.T) {
	router := newTestRouter(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/runs/run-1/quality/gold", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCustomerFeatures(t *testing.T) {
	tenure := 36.0
	features := &stubFeatures{rows: map[string]*contracts.GoldRow{
		"C1": {CustomerID: "C1", LifecycleFeatures: contracts.LifecycleFeatures{TenureMonths: &tenure}},
	}}
	router := newTestRouter(features)

	req := httptest.NewRequest(http.MethodGet, "/api/customers/C1/features", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var row contracts.GoldRow
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &row))
	assert.Equal(t, "C1", row.CustomerID)
	require.NotNil(t, row.TenureMonths)
	assert.Equal(t, 36.0, *row.TenureMonths)
}

func TestCustomerFeaturesNotFound(t *testing.T) {
	router := newTestRouter(&stubFeatures{rows: map[string]*contracts.GoldRow{}})

	req := httptest.NewRequest(http.MethodGet, "/api/customers/UNKNOWN/features", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCustomerFeaturesWithoutStore(t *testing.T) {
	router := newTestRouter(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/customers/C1/features", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
