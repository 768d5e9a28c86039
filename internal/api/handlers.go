// ChurnSight - Telecom Customer Churn Prediction
// Copyright 2026 ChurnSight Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/churnsight/churnsight

// Package api provides the HTTP API for the churn prediction service.
package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/churnsight/churnsight/internal/config"
	"github.com/churnsight/churnsight/internal/idgen"
	"github.com/churnsight/churnsight/internal/logging"
	"github.com/churnsight/churnsight/internal/models"
	"github.com/churnsight/churnsight/internal/pipeline"
	"github.com/churnsight/churnsight/internal/store"
	"github.com/churnsight/churnsight/internal/validation"
)

// maxRequestBody caps the request body size for prediction endpoints.
const maxRequestBody = 1 << 20 // 1 MiB

// Version is the service version reported by the health endpoint.
const Version = "1.0.0"

// Handler holds the dependencies of the HTTP handlers.
type Handler struct {
	config    *config.Config
	pipeline  *pipeline.Pipeline
	store     *store.CSVLog // nil when the submission log is disabled
	startTime time.Time
}

// NewHandler creates a Handler.
func NewHandler(cfg *config.Config, p *pipeline.Pipeline, s *store.CSVLog) *Handler {
	return &Handler{
		config:    cfg,
		pipeline:  p,
		store:     s,
		startTime: time.Now(),
	}
}

// BatchRequest is the request body for batch predictions.
type BatchRequest struct {
	Submissions []models.Submission `json:"submissions"`
}

// BatchResult is one entry of a batch response. Exactly one of Prediction and
// Error is set; results appear in input order, one per submission.
type BatchResult struct {
	Index      int                `json:"index"`
	Prediction *models.Prediction `json:"prediction,omitempty"`
	Error      *models.APIError   `json:"error,omitempty"`
}

// BatchResponse is the response body for batch predictions.
type BatchResponse struct {
	Results   []BatchResult `json:"results"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
}

// SchemaResponse describes the model's input schema.
type SchemaResponse struct {
	Features     models.FeatureOrder `json:"features"`
	FeatureCount int                 `json:"feature_count"`
	Threshold    float64             `json:"threshold"`
	StrictSchema bool                `json:"strict_schema"`
}

// HealthStatus is the health endpoint payload.
type HealthStatus struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	StoreEnabled  bool    `json:"store_enabled"`
	Submissions   int     `json:"submissions,omitempty"`
}

// Predict handles a single prediction request. The submission is appended to
// the CSV log after normalization and before scoring, so the customer record
// survives a scorer failure.
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var sub models.Submission
	if err := decodeBody(w, r, &sub); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, "Invalid request body", nil)
		return
	}

	if sub.CustomerID == "" {
		sub.CustomerID = idgen.CustomerID()
	}

	rec, err := h.pipeline.Prepare(sub)
	if err != nil {
		h.respondPrepareError(w, err)
		return
	}

	h.logSubmission(rec)

	pred, err := h.pipeline.Run(r.Context(), rec)
	if err != nil {
		h.respondRunError(w, rec.CustomerID, err)
		return
	}

	respondSuccess(w, http.StatusOK, pred, start)
}

// PredictBatch handles a batch of prediction requests. The response always
// contains exactly one result per submission, in input order; individual
// failures do not fail the batch.
func (h *Handler) PredictBatch(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req BatchRequest
	if err := decodeBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, "Invalid request body", nil)
		return
	}
	if len(req.Submissions) == 0 {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, "submissions must not be empty", nil)
		return
	}
	if max := h.config.API.MaxBatchSize; len(req.Submissions) > max {
		respondError(w, http.StatusBadRequest, ErrCodeBatchTooLarge,
			"Batch exceeds the maximum size", map[string]interface{}{
				"max_batch_size": max,
				"submitted":      len(req.Submissions),
			})
		return
	}

	resp := BatchResponse{Results: make([]BatchResult, len(req.Submissions))}
	for i, sub := range req.Submissions {
		if sub.CustomerID == "" {
			sub.CustomerID = idgen.CustomerID()
		}

		result := BatchResult{Index: i}
		pred, err := h.predictOne(r, sub)
		if err != nil {
			result.Error = batchError(err)
			resp.Failed++
		} else {
			result.Prediction = &pred
			resp.Succeeded++
		}
		resp.Results[i] = result
	}

	respondSuccess(w, http.StatusOK, resp, start)
}

func (h *Handler) predictOne(r *http.Request, sub models.Submission) (models.Prediction, error) {
	rec, err := h.pipeline.Prepare(sub)
	if err != nil {
		return models.Prediction{}, err
	}
	h.logSubmission(rec)
	return h.pipeline.Run(r.Context(), rec)
}

// Schema returns the model's expected input schema.
func (h *Handler) Schema(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	order := h.pipeline.FeatureOrder()
	respondSuccess(w, http.StatusOK, SchemaResponse{
		Features:     order,
		FeatureCount: len(order),
		Threshold:    h.pipeline.Threshold(),
		StrictSchema: h.config.Artifacts.StrictSchema,
	}, start)
}

// CustomerID returns a freshly generated customer identifier.
func (h *Handler) CustomerID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	respondSuccess(w, http.StatusOK, map[string]string{
		"customer_id": idgen.CustomerID(),
	}, start)
}

// Health reports overall service health, including the submission log.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	health := HealthStatus{
		Status:        "healthy",
		Version:       Version,
		UptimeSeconds: time.Since(h.startTime).Seconds(),
		StoreEnabled:  h.store != nil,
	}
	if h.store != nil {
		count, err := h.store.Count()
		if err != nil {
			health.Status = "degraded"
			logging.Err(err).Msg("Failed to read submission log")
		} else {
			health.Submissions = count
		}
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   health,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// HealthLive is the liveness probe: 200 whenever the process is up.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   map[string]string{"status": "alive"},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// HealthReady is the readiness probe: 200 once the pipeline is constructed.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if h.pipeline == nil {
		respondError(w, http.StatusServiceUnavailable, ErrCodeInternal, "Pipeline not initialized", nil)
		return
	}
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   map[string]string{"status": "ready"},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// logSubmission appends the record to the CSV store. Append failures are
// logged, never surfaced: losing a log row must not fail the prediction.
func (h *Handler) logSubmission(rec models.RawRecord) {
	if h.store == nil {
		return
	}
	if err := h.store.Append(rec); err != nil {
		logging.Err(err).
			Str("customer_id", sanitizeLogValue(rec.CustomerID)).
			Msg("Failed to append submission to log")
	}
}

func (h *Handler) respondPrepareError(w http.ResponseWriter, err error) {
	var verr *validation.RequestValidationError
	if errors.As(err, &verr) {
		respondError(w, http.StatusBadRequest, ErrCodeValidation, "Submission failed validation", verr.Details())
		return
	}

	var missing *pipeline.MissingFieldsError
	if errors.As(err, &missing) {
		respondError(w, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return
	}

	respondError(w, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
}

func (h *Handler) respondRunError(w http.ResponseWriter, customerID string, err error) {
	switch {
	case errors.Is(err, pipeline.ErrDerivationUndefined):
		respondError(w, http.StatusUnprocessableEntity, ErrCodeRecordDropped, err.Error(), nil)
	case errors.Is(err, pipeline.ErrScorerFailure):
		logging.Err(err).
			Str("customer_id", sanitizeLogValue(customerID)).
			Msg("Scorer failed")
		respondError(w, http.StatusServiceUnavailable, ErrCodePredictionUnavailable,
			"Prediction is temporarily unavailable", nil)
	default:
		logging.Err(err).Msg("Prediction pipeline failed")
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Internal error", nil)
	}
}

// batchError maps a per-item error to its API error without writing a
// response.
func batchError(err error) *models.APIError {
	var verr *validation.RequestValidationError
	if errors.As(err, &verr) {
		return &models.APIError{
			Code:    ErrCodeValidation,
			Message: "Submission failed validation",
			Details: verr.Details(),
		}
	}

	switch {
	case errors.Is(err, pipeline.ErrDerivationUndefined):
		return &models.APIError{Code: ErrCodeRecordDropped, Message: err.Error()}
	case errors.Is(err, pipeline.ErrScorerFailure):
		return &models.APIError{Code: ErrCodePredictionUnavailable, Message: "Prediction is temporarily unavailable"}
	default:
		return &models.APIError{Code: ErrCodeValidation, Message: err.Error()}
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
