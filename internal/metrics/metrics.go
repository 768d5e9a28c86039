// ChurnSight - Telecom Customer Churn Prediction
// Copyright 2026 ChurnSight Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/churnsight/churnsight

// Package metrics provides Prometheus instrumentation for the prediction
// pipeline and the HTTP API.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Pipeline metrics
	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "churnsight_predictions_total",
			Help: "Total number of prediction requests by outcome",
		},
		[]string{"outcome"}, // "churn", "loyal", "dropped", "error"
	)

	PredictionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "churnsight_prediction_duration_seconds",
			Help:    "Duration of full pipeline passes in seconds",
			Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05},
		},
	)

	RecordsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "churnsight_records_dropped_total",
			Help: "Records dropped because a derived feature was undefined",
		},
	)

	// Schema reconciliation metrics: silent zero-fills are preserved for
	// model compatibility, so they must at least be visible here.
	SchemaColumnsFilled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "churnsight_schema_columns_filled_total",
			Help: "Expected model columns zero-filled during schema alignment",
		},
	)

	SchemaColumnsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "churnsight_schema_columns_dropped_total",
			Help: "Encoded columns dropped during schema alignment",
		},
	)

	EncoderRepairs = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "churnsight_encoder_repairs_total",
			Help: "Column values coerced to 0 by the encoder's silent-repair policy",
		},
	)

	SubmissionsLogged = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "churnsight_submissions_logged_total",
			Help: "Customer submissions appended to the CSV store",
		},
	)

	// API metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "churnsight_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "churnsight_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"method", "endpoint"},
	)
)

// RecordAPIRequest records one completed API request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordPrediction records one pipeline pass.
func RecordPrediction(outcome string, duration time.Duration) {
	PredictionsTotal.WithLabelValues(outcome).Inc()
	PredictionDuration.Observe(duration.Seconds())
}

// RecordReconciliation records schema-alignment fill/drop counts.
func RecordReconciliation(filled, dropped int) {
	if filled > 0 {
		SchemaColumnsFilled.Add(float64(filled))
	}
	if dropped > 0 {
		SchemaColumnsDropped.Add(float64(dropped))
	}
}
