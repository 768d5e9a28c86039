// ChurnSight - Telecom Customer Churn Prediction
// Copyright 2026 ChurnSight Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/churnsight/churnsight

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/churnsight/churnsight/internal/logging"
	"github.com/churnsight/churnsight/internal/metrics"
	"github.com/churnsight/churnsight/internal/models"
	"github.com/churnsight/churnsight/internal/scorer"
	"github.com/churnsight/churnsight/internal/validation"
)

// Config holds the pipeline's construction-time dependencies: the persisted
// artifacts and the injected scorer. Loaded once; the pipeline never reloads
// configuration mid-process.
type Config struct {
	// FeatureOrder is the model's expected feature list.
	FeatureOrder models.FeatureOrder

	// Threshold is the probability cutoff for the churn label.
	Threshold float64

	// Scorer is the opaque churn classifier.
	Scorer scorer.Scorer

	// StrictSchema makes schema alignment fail on zero-filled columns
	// instead of silently repairing.
	StrictSchema bool
}

// Pipeline is the full transformation chain from raw submission to churn
// prediction. Stateless between requests; safe for concurrent use.
type Pipeline struct {
	normalizer *FieldNormalizer
	engine     *FeatureEngine
	encoder    *Encoder
	aligner    *SchemaAligner
	scorer     scorer.Scorer
	threshold  float64
}

// New constructs a Pipeline from its configuration.
func New(cfg Config) (*Pipeline, error) {
	if len(cfg.FeatureOrder) == 0 {
		return nil, fmt.Errorf("feature order is required")
	}
	if cfg.Threshold < 0 || cfg.Threshold > 1 {
		return nil, fmt.Errorf("threshold must be in [0,1], got %v", cfg.Threshold)
	}
	if cfg.Scorer == nil {
		return nil, fmt.Errorf("scorer is required")
	}

	return &Pipeline{
		normalizer: NewFieldNormalizer(),
		engine:     NewFeatureEngine(),
		encoder:    NewEncoder(),
		aligner:    NewSchemaAligner(cfg.FeatureOrder, cfg.StrictSchema),
		scorer:     cfg.Scorer,
		threshold:  cfg.Threshold,
	}, nil
}

// Threshold returns the decision threshold in effect.
func (p *Pipeline) Threshold() float64 {
	return p.threshold
}

// FeatureOrder returns the model's expected feature list.
func (p *Pipeline) FeatureOrder() models.FeatureOrder {
	return p.aligner.Order()
}

// Prepare validates a submission and returns the fully-populated raw record.
// Validation failures stop here: the pipeline never runs on an incomplete or
// out-of-range record.
func (p *Pipeline) Prepare(sub models.Submission) (models.RawRecord, error) {
	if verr := validation.ValidateStruct(&sub); verr != nil {
		return models.RawRecord{}, verr
	}
	return p.normalizer.Normalize(sub)
}

// Run executes the derivation, encoding, alignment and scoring stages for a
// prepared record. Error classes:
//   - ErrDerivationUndefined: the record was dropped (counted in metrics)
//   - ErrSchemaMismatch: strict mode only
//   - ErrScorerFailure: the scorer failed; upstream stages had succeeded
func (p *Pipeline) Run(ctx context.Context, rec models.RawRecord) (models.Prediction, error) {
	start := time.Now()

	enriched, err := p.engine.Enrich(rec)
	if err != nil {
		if errors.Is(err, ErrDerivationUndefined) {
			metrics.RecordsDropped.Inc()
			metrics.RecordPrediction("dropped", time.Since(start))
		}
		return models.Prediction{}, err
	}

	vec, repaired := p.encoder.EncodeColumns(p.encoder.columnsOf(enriched))
	if repaired > 0 {
		metrics.EncoderRepairs.Add(float64(repaired))
		logging.Warn().Int("repaired", repaired).Msg("encoder coerced unparseable column values to 0")
	}

	aligned, reconciliation, err := p.aligner.Align(vec)
	if err != nil {
		metrics.RecordPrediction("error", time.Since(start))
		return models.Prediction{}, err
	}
	metrics.RecordReconciliation(reconciliation.Filled, len(reconciliation.Dropped))
	if reconciliation.Filled > 0 {
		logging.Warn().
			Int("filled", reconciliation.Filled).
			Strs("columns", reconciliation.FilledColumns).
			Msg("schema alignment zero-filled expected columns")
	}

	probability, err := p.scorer.Score(ctx, aligned.Values)
	if err != nil {
		metrics.RecordPrediction("error", time.Since(start))
		return models.Prediction{}, fmt.Errorf("%w: %v", ErrScorerFailure, err)
	}

	label := 0
	outcome := "loyal"
	if probability >= p.threshold {
		label = 1
		outcome = "churn"
	}
	metrics.RecordPrediction(outcome, time.Since(start))

	return models.Prediction{
		CustomerID:     rec.CustomerID,
		Probability:    probability,
		Label:          label,
		Churn:          label == 1,
		Threshold:      p.threshold,
		Reconciliation: reconciliation,
	}, nil
}

// Predict is the convenience composition of Prepare and Run.
func (p *Pipeline) Predict(ctx context.Context, sub models.Submission) (models.Prediction, error) {
	rec, err := p.Prepare(sub)
	if err != nil {
		return models.Prediction{}, err
	}
	return p.Run(ctx, rec)
}
