// ChurnSight - Telecom Customer Churn Prediction
// Copyright 2026 ChurnSight Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/churnsight/churnsight

package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/churnsight/churnsight/internal/models"
	"github.com/churnsight/churnsight/internal/validation"
)

// stubScorer returns a fixed probability and captures the feature vector it
// was called with.
type stubScorer struct {
	probability  float64
	err          error
	lastFeatures []float64
	calls        int
}

func (s *stubScorer) Score(_ context.Context, features []float64) (float64, error) {
	s.calls++
	s.lastFeatures = append([]float64(nil), features...)
	if s.err != nil {
		return 0, s.err
	}
	return s.probability, nil
}

func newTestPipeline(t *testing.T, sc *stubScorer, threshold float64) *Pipeline {
	t.Helper()
	p, err := New(Config{
		FeatureOrder: models.FeatureOrder(EncoderFeatures),
		Threshold:    threshold,
		Scorer:       sc,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return p
}

func TestNewValidation(t *testing.T) {
	sc := &stubScorer{}
	order := models.FeatureOrder(EncoderFeatures)

	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "missing feature order", cfg: Config{Threshold: 0.5, Scorer: sc}},
		{name: "missing scorer", cfg: Config{FeatureOrder: order, Threshold: 0.5}},
		{name: "threshold below zero", cfg: Config{FeatureOrder: order, Threshold: -0.1, Scorer: sc}},
		{name: "threshold above one", cfg: Config{FeatureOrder: order, Threshold: 1.1, Scorer: sc}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.cfg); err == nil {
				t.Fatal("New() succeeded, want error")
			}
		})
	}
}

func TestPredictEndToEnd(t *testing.T) {
	sc := &stubScorer{probability: 0.82}
	p := newTestPipeline(t, sc, 0.5)

	sub := validSubmission()
	sub.Age = 70

	pred, err := p.Predict(context.Background(), sub)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}

	if pred.Probability != 0.82 {
		t.Errorf("Probability = %v, want 0.82", pred.Probability)
	}
	if pred.Label != 1 || !pred.Churn {
		t.Errorf("Label = %d Churn = %v, want churn at 0.82 over threshold 0.5", pred.Label, pred.Churn)
	}
	if pred.Threshold != 0.5 {
		t.Errorf("Threshold = %v, want 0.5", pred.Threshold)
	}
	if pred.CustomerID != sub.CustomerID {
		t.Errorf("CustomerID = %q, want %q", pred.CustomerID, sub.CustomerID)
	}
	if pred.Reconciliation.Present != len(EncoderFeatures) || pred.Reconciliation.Filled != 0 {
		t.Errorf("reconciliation = %+v, want clean", pred.Reconciliation)
	}

	if len(sc.lastFeatures) != len(EncoderFeatures) {
		t.Fatalf("scorer saw %d features, want %d", len(sc.lastFeatures), len(EncoderFeatures))
	}
	vec := models.EncodedVector{Names: EncoderFeatures, Values: sc.lastFeatures}
	checks := map[string]float64{
		"SeniorCitizen":                  1,
		"tenure":                         12,
		"Contract":                       0,
		"gender":                         0,
		"PaperlessBilling":               1,
		"ServiceCount":                   1,
		"contract_loyalty":               0,
		"InternetService_Fiber optic":    1,
		"PaymentMethod_Electronic check": 1,
		"billing_flag_partial_month":     1,
	}
	for name, want := range checks {
		got, ok := vec.Get(name)
		if !ok {
			t.Fatalf("scorer input missing column %q", name)
		}
		if got != want {
			t.Errorf("scorer input %q = %v, want %v", name, got, want)
		}
	}
}

func TestPredictBelowThreshold(t *testing.T) {
	sc := &stubScorer{probability: 0.3}
	p := newTestPipeline(t, sc, 0.5)

	pred, err := p.Predict(context.Background(), validSubmission())
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if pred.Label != 0 || pred.Churn {
		t.Errorf("Label = %d Churn = %v, want loyal at 0.3 under threshold 0.5", pred.Label, pred.Churn)
	}
}

func TestPredictThresholdBoundary(t *testing.T) {
	// Probability equal to the threshold classifies as churn.
	sc := &stubScorer{probability: 0.5}
	p := newTestPipeline(t, sc, 0.5)

	pred, err := p.Predict(context.Background(), validSubmission())
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if pred.Label != 1 {
		t.Errorf("Label = %d, want 1 at the boundary", pred.Label)
	}
}

func TestPrepareRejectsInvalidSubmission(t *testing.T) {
	p := newTestPipeline(t, &stubScorer{}, 0.5)

	sub := validSubmission()
	sub.Gender = "Unknown"
	_, err := p.Prepare(sub)

	var verr *validation.RequestValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Prepare() error = %v, want RequestValidationError", err)
	}
}

func TestRunDropsUndefinedRecords(t *testing.T) {
	sc := &stubScorer{probability: 0.9}
	p := newTestPipeline(t, sc, 0.5)

	sub := validSubmission()
	sub.Tenure = 0
	rec, err := p.Prepare(sub)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	_, err = p.Run(context.Background(), rec)
	if !errors.Is(err, ErrDerivationUndefined) {
		t.Fatalf("Run() error = %v, want ErrDerivationUndefined", err)
	}
	if sc.calls != 0 {
		t.Errorf("scorer called %d times for a dropped record, want 0", sc.calls)
	}
}

func TestRunWrapsScorerFailure(t *testing.T) {
	sc := &stubScorer{err: errors.New("model file corrupt")}
	p := newTestPipeline(t, sc, 0.5)

	rec, err := p.Prepare(validSubmission())
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	_, err = p.Run(context.Background(), rec)
	if !errors.Is(err, ErrScorerFailure) {
		t.Fatalf("Run() error = %v, want ErrScorerFailure", err)
	}
}

func TestStrictSchemaSurfacesMismatch(t *testing.T) {
	order := append(models.FeatureOrder(EncoderFeatures), "legacy_discount_rate")
	p, err := New(Config{
		FeatureOrder: order,
		Threshold:    0.5,
		Scorer:       &stubScorer{},
		StrictSchema: true,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	rec, err := p.Prepare(validSubmission())
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	_, err = p.Run(context.Background(), rec)
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("Run() error = %v, want ErrSchemaMismatch", err)
	}
}

func TestPredictBatchShape(t *testing.T) {
	// One prediction per input, input order preserved.
	sc := &stubScorer{probability: 0.6}
	p := newTestPipeline(t, sc, 0.5)

	subs := make([]models.Submission, 5)
	for i := range subs {
		subs[i] = validSubmission()
		subs[i].Tenure = 10 + i
	}

	var preds []models.Prediction
	for _, sub := range subs {
		pred, err := p.Predict(context.Background(), sub)
		if err != nil {
			t.Fatalf("Predict() error = %v", err)
		}
		preds = append(preds, pred)
	}

	if len(preds) != len(subs) {
		t.Fatalf("got %d predictions for %d submissions", len(preds), len(subs))
	}
	if sc.calls != len(subs) {
		t.Errorf("scorer called %d times, want %d", sc.calls, len(subs))
	}
}
