// ChurnSight - Telecom Customer Churn Prediction
// Copyright 2026 ChurnSight Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/churnsight/churnsight

// Package pipeline implements the deterministic transformation chain that
// turns a raw customer submission into the fixed-order numeric feature vector
// the churn classifier expects:
//
//	Submission -> FieldNormalizer -> FeatureEngine -> Encoder -> SchemaAligner -> Scorer
//
// Each stage consumes one record type and produces a new one; no stage
// mutates shared state. The only process-wide inputs are the feature order,
// decision threshold and model artifacts, loaded once at startup and
// read-only thereafter, so a single Pipeline is safe for concurrent use.
package pipeline
