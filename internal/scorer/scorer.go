// ChurnSight - Telecom Customer Churn Prediction
// Copyright 2026 ChurnSight Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/churnsight/churnsight

// Package scorer defines the churn-scoring capability the pipeline consumes.
// The pipeline treats the scorer as opaque: a function from an aligned
// feature vector to a churn probability. The logistic implementation here
// loads its weights from a JSON artifact; swapping in a different model is a
// matter of satisfying the Scorer interface.
package scorer

import (
	"context"
	"fmt"
	"math"

	"github.com/churnsight/churnsight/internal/models"
)

// Scorer scores an aligned feature vector, returning a churn probability in
// [0,1]. Values arrive in the model's persisted feature order.
type Scorer interface {
	Score(ctx context.Context, values []float64) (float64, error)
}

// Logistic is a logistic-regression scorer. Weights are resolved against the
// feature order once at construction; scoring is a dot product and a sigmoid.
type Logistic struct {
	weights   []float64
	intercept float64
}

// NewLogistic builds a Logistic scorer from per-feature weights keyed by
// column name. Every feature in the order must have a weight.
func NewLogistic(order models.FeatureOrder, weights map[string]float64, intercept float64) (*Logistic, error) {
	if len(order) == 0 {
		return nil, fmt.Errorf("empty feature order")
	}

	resolved := make([]float64, len(order))
	for i, name := range order {
		w, ok := weights[name]
		if !ok {
			return nil, fmt.Errorf("model weights missing feature %q", name)
		}
		resolved[i] = w
	}

	return &Logistic{weights: resolved, intercept: intercept}, nil
}

// Score computes sigmoid(w . x + b) for the vector.
func (l *Logistic) Score(ctx context.Context, values []float64) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(values) != len(l.weights) {
		return 0, fmt.Errorf("vector has %d values, model expects %d", len(values), len(l.weights))
	}

	z := l.intercept
	for i, v := range values {
		z += l.weights[i] * v
	}

	return sigmoid(z), nil
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
