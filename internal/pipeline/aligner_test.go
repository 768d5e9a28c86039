// ChurnSight - Telecom Customer Churn Prediction
// Copyright 2026 ChurnSight Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/churnsight/churnsight

package pipeline

import (
	"errors"
	"testing"

	"github.com/churnsight/churnsight/internal/models"
)

func TestAlignIdentity(t *testing.T) {
	order := models.FeatureOrder(EncoderFeatures)
	a := NewSchemaAligner(order, false)

	vec := NewEncoder().Encode(mustEnrich(t, validRawRecord()))
	aligned, rec, err := a.Align(vec)
	if err != nil {
		t.Fatalf("Align() error = %v", err)
	}
	if rec.Present != len(order) || rec.Filled != 0 || len(rec.Dropped) != 0 {
		t.Fatalf("reconciliation = %+v, want all present", rec)
	}
	for i := range vec.Names {
		if aligned.Names[i] != vec.Names[i] || aligned.Values[i] != vec.Values[i] {
			t.Fatalf("column %d changed under identity alignment", i)
		}
	}
}

func TestAlignZeroFill(t *testing.T) {
	// The model expects a column the encoder never produces, inserted in the
	// middle of the order.
	order := models.FeatureOrder{"tenure", "legacy_discount_rate", "Contract"}
	a := NewSchemaAligner(order, false)

	vec := models.EncodedVector{
		Names:  []string{"tenure", "Contract"},
		Values: []float64{24, 2},
	}
	aligned, rec, err := a.Align(vec)
	if err != nil {
		t.Fatalf("Align() error = %v", err)
	}

	if aligned.Len() != 3 {
		t.Fatalf("aligned length = %d, want 3", aligned.Len())
	}
	if aligned.Names[1] != "legacy_discount_rate" || aligned.Values[1] != 0 {
		t.Errorf("position 1 = %q=%v, want legacy_discount_rate=0", aligned.Names[1], aligned.Values[1])
	}
	if aligned.Values[0] != 24 || aligned.Values[2] != 2 {
		t.Errorf("surviving values misplaced: %v", aligned.Values)
	}
	if rec.Present != 2 || rec.Filled != 1 {
		t.Errorf("reconciliation = %+v, want present=2 filled=1", rec)
	}
	if len(rec.FilledColumns) != 1 || rec.FilledColumns[0] != "legacy_discount_rate" {
		t.Errorf("FilledColumns = %v, want [legacy_discount_rate]", rec.FilledColumns)
	}
}

func TestAlignDropsUnexpected(t *testing.T) {
	order := models.FeatureOrder{"tenure"}
	a := NewSchemaAligner(order, false)

	vec := models.EncodedVector{
		Names:  []string{"tenure", "experimental_score"},
		Values: []float64{12, 0.9},
	}
	aligned, rec, err := a.Align(vec)
	if err != nil {
		t.Fatalf("Align() error = %v", err)
	}
	if aligned.Len() != 1 {
		t.Fatalf("aligned length = %d, want 1", aligned.Len())
	}
	if len(rec.Dropped) != 1 || rec.Dropped[0] != "experimental_score" {
		t.Errorf("Dropped = %v, want [experimental_score]", rec.Dropped)
	}
}

func TestAlignStrictMode(t *testing.T) {
	order := models.FeatureOrder{"tenure", "legacy_discount_rate"}
	a := NewSchemaAligner(order, true)

	vec := models.EncodedVector{Names: []string{"tenure"}, Values: []float64{12}}
	_, rec, err := a.Align(vec)
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("Align() error = %v, want ErrSchemaMismatch", err)
	}
	if rec.Filled != 1 {
		t.Errorf("reconciliation still reports the mismatch: filled = %d, want 1", rec.Filled)
	}

	// A complete vector passes strict mode.
	full := models.EncodedVector{
		Names:  []string{"tenure", "legacy_discount_rate"},
		Values: []float64{12, 0.5},
	}
	if _, _, err := a.Align(full); err != nil {
		t.Fatalf("Align() on complete vector error = %v", err)
	}
}

func mustEnrich(t *testing.T, rec models.RawRecord) models.EnrichedRecord {
	t.Helper()
	out, err := NewFeatureEngine().Enrich(rec)
	if err != nil {
		t.Fatalf("Enrich() error = %v", err)
	}
	return out
}
