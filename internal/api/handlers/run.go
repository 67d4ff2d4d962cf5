package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5"

	"github.com/spanishgas/churnpipe/internal/contracts"
	"github.com/spanishgas/churnpipe/pkg/logger"
	"github.com/spanishgas/churnpipe/pkg/redis"
)

// FeatureReader looks up one customer's gold feature row.
type FeatureReader interface {
	GetByID(ctx context.Context, customerID string) (*contracts.GoldRow, error)
}

// RunHandler serves run manifests, quality reports, and per-customer
// gold features.
type RunHandler struct {
	cache    *redis.Cache
	features FeatureReader
	logger   *logger.Logger
}

// NewRunHandler creates a run handler. cache and features may be nil
// when the corresponding backend is not configured; the affected
// endpoints then return 503.
func NewRunHandler(cache *redis.Cache, features FeatureReader, log *logger.Logger) *RunHandler {
	return &RunHandler{
		cache:    cache,
		features: features,
		logger:   log,
	}
}

// GetLatestRun returns the manifest of the most recent pipeline run.
// GET /api/runs/latest
func (h *RunHandler) GetLatestRun(w http.ResponseWriter, r *http.Request) {
	h.manifest(w, r, redis.LatestRunKey())
}

// GetRun returns the manifest of a specific run.
// GET /api/runs/{run_id}
func (h *RunHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	runID := mux.Vars(r)["run_id"]
	h.manifest(w, r, redis.RunKey(runID))
}

func (h *RunHandler) manifest(w http.ResponseWriter, r *http.Request, key string) {
	if h.cache == nil {
		respondError(w, http.StatusServiceUnavailable, "Run cache not configured")
		return
	}

	var manifest contracts.RunManifest
	found, err := h.cache.Get(r.Context(), key, &manifest)
	if err != nil {
		h.logger.WithError(err).Error("Failed to read run manifest")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve run manifest")
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "Run not found")
		return
	}

	respondJSON(w, http.StatusOK, manifest)
}

// GetQuality returns the quality report of one layer of a run.
// GET /api/runs/{run_id}/quality/{layer}
func (h *RunHandler) GetQuality(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		respondError(w, http.StatusServiceUnavailable, "Run cache not configured")
		return
	}

	vars := mux.Vars(r)
	runID, layer := vars["run_id"], vars["layer"]

	var report contracts.QualityReport
	found, err := h.cache.Get(r.Context(), redis.QualityKey(runID, layer), &report)
	if err != nil {
		h.logger.WithError(err).Error("Failed to read quality report")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve quality report")
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "Quality report not found")
		return
	}

	respondJSON(w, http.StatusOK, report)
}

// GetCustomerFeatures returns one customer's gold feature row.
// GET /api/customers/{customer_id}/features
func (h *RunHandler) GetCustomerFeatures(w http.ResponseWriter, r *http.Request) {
	if h.features == nil {
		respondError(w, http.StatusServiceUnavailable, "Feature store not configured")
		return
	}

	customerID := mux.Vars(r)["customer_id"]

	row, err := h.features.GetByID(r.Context(), customerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondError(w, http.StatusNotFound, "Customer not found")
			return
		}
		h.logger.WithError(err).WithField("customer_id", customerID).Error("Failed to read gold features")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve features")
		return
	}

	respondJSON(w, http.StatusOK, row)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
