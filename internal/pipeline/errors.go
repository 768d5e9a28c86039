// ChurnSight - Telecom Customer Churn Prediction
// Copyright 2026 ChurnSight Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/churnsight/churnsight

package pipeline

import "errors"

// Sentinel errors for the pipeline stages.
var (
	// ErrDerivationUndefined indicates a derived quantity was mathematically
	// undefined for the record (average charge per month with tenure 0). The
	// record is dropped rather than propagated with a sentinel value.
	ErrDerivationUndefined = errors.New("derived feature undefined for record")

	// ErrSchemaMismatch indicates the encoder output was missing columns the
	// model expects. Only returned in strict schema mode; the default
	// behavior is to zero-fill and report.
	ErrSchemaMismatch = errors.New("encoded vector does not match model schema")

	// ErrScorerFailure wraps an error returned by the churn scorer. Surfaced
	// to the caller as a prediction-unavailable outcome; everything upstream
	// of the scorer either succeeds or defaults.
	ErrScorerFailure = errors.New("churn scorer failed")
)
