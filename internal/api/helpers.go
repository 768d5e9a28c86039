// ChurnSight - Telecom Customer Churn Prediction
// Copyright 2026 ChurnSight Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/churnsight/churnsight

package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/churnsight/churnsight/internal/logging"
	"github.com/churnsight/churnsight/internal/models"
)

// Error codes returned in API error responses.
const (
	ErrCodeValidation            = "VALIDATION_ERROR"
	ErrCodeRecordDropped         = "RECORD_DROPPED"
	ErrCodePredictionUnavailable = "PREDICTION_UNAVAILABLE"
	ErrCodeBadRequest            = "BAD_REQUEST"
	ErrCodeBatchTooLarge         = "BATCH_TOO_LARGE"
	ErrCodeInternal              = "INTERNAL_ERROR"
)

// sanitizeLogValue removes control characters from user-provided strings
// before they reach the logs, preventing log injection.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends a JSON response. Prediction responses carry customer
// data, so caching is disabled across the board.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, code, message string, details map[string]interface{}) {
	respondJSON(w, status, &models.APIResponse{
		Status: "error",
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
		Error: &models.APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// respondSuccess sends a success response with request timing metadata.
func respondSuccess(w http.ResponseWriter, status int, data interface{}, start time.Time) {
	respondJSON(w, status, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:  time.Now(),
			DurationMS: time.Since(start).Milliseconds(),
		},
	})
}
