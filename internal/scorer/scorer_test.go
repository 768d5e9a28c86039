// ChurnSight - Telecom Customer Churn Prediction
// Copyright 2026 ChurnSight Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/churnsight/churnsight

package scorer

import (
	"context"
	"math"
	"testing"

	"github.com/churnsight/churnsight/internal/models"
)

func TestNewLogistic(t *testing.T) {
	order := models.FeatureOrder{"tenure", "MonthlyCharges_log"}

	t.Run("valid", func(t *testing.T) {
		l, err := NewLogistic(order, map[string]float64{"tenure": -0.04, "MonthlyCharges_log": 0.8}, -1.2)
		if err != nil {
			t.Fatalf("NewLogistic() error = %v", err)
		}
		if l == nil {
			t.Fatal("NewLogistic() returned nil scorer")
		}
	})

	t.Run("missing weight", func(t *testing.T) {
		_, err := NewLogistic(order, map[string]float64{"tenure": -0.04}, 0)
		if err == nil {
			t.Fatal("expected error for missing feature weight")
		}
	})

	t.Run("empty order", func(t *testing.T) {
		if _, err := NewLogistic(nil, map[string]float64{}, 0); err == nil {
			t.Fatal("expected error for empty feature order")
		}
	})
}

func TestLogisticScore(t *testing.T) {
	order := models.FeatureOrder{"a", "b"}
	l, err := NewLogistic(order, map[string]float64{"a": 2, "b": -1}, 0.5)
	if err != nil {
		t.Fatalf("NewLogistic() error = %v", err)
	}

	t.Run("dot product and sigmoid", func(t *testing.T) {
		// z = 0.5 + 2*1 + (-1)*3 = -0.5
		got, err := l.Score(context.Background(), []float64{1, 3})
		if err != nil {
			t.Fatalf("Score() error = %v", err)
		}
		want := 1 / (1 + math.Exp(0.5))
		if math.Abs(got-want) > 1e-12 {
			t.Errorf("Score() = %v, want %v", got, want)
		}
	})

	t.Run("weights follow feature order not map order", func(t *testing.T) {
		// Swapping the two values must change the score.
		a, _ := l.Score(context.Background(), []float64{1, 3})
		b, _ := l.Score(context.Background(), []float64{3, 1})
		if a == b {
			t.Error("score insensitive to value positions")
		}
	})

	t.Run("probability stays in unit interval", func(t *testing.T) {
		for _, values := range [][]float64{{1000, 0}, {-1000, 0}, {0, 0}} {
			got, err := l.Score(context.Background(), values)
			if err != nil {
				t.Fatalf("Score(%v) error = %v", values, err)
			}
			if got < 0 || got > 1 {
				t.Errorf("Score(%v) = %v outside [0,1]", values, got)
			}
		}
	})

	t.Run("length mismatch", func(t *testing.T) {
		if _, err := l.Score(context.Background(), []float64{1}); err == nil {
			t.Fatal("expected error for short vector")
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := l.Score(ctx, []float64{1, 3}); err == nil {
			t.Fatal("expected error for cancelled context")
		}
	})
}
