// ChurnSight - Telecom Customer Churn Prediction
// Copyright 2026 ChurnSight Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/churnsight/churnsight

package pipeline

import (
	"fmt"

	"github.com/churnsight/churnsight/internal/models"
)

// SchemaAligner reconciles an encoded vector against the model's persisted
// expected-feature list, decoupling the encoder's column set from whatever
// the model was actually trained on. Columns the model expects but the
// encoder did not produce are zero-filled; columns the model does not expect
// are dropped. This tolerates schema drift between code and artifact at the
// cost of masking real mismatches, so every alignment returns a
// Reconciliation report and strict mode turns fills into errors.
type SchemaAligner struct {
	order  models.FeatureOrder
	strict bool
}

// NewSchemaAligner creates a SchemaAligner for the given feature order.
func NewSchemaAligner(order models.FeatureOrder, strict bool) *SchemaAligner {
	return &SchemaAligner{
		order:  append(models.FeatureOrder(nil), order...),
		strict: strict,
	}
}

// Order returns the aligner's expected feature list.
func (a *SchemaAligner) Order() models.FeatureOrder {
	return append(models.FeatureOrder(nil), a.order...)
}

// Align reindexes vec to exactly the expected feature list. In the default
// mode it never fails; in strict mode a zero-filled column is an
// ErrSchemaMismatch.
func (a *SchemaAligner) Align(vec models.EncodedVector) (models.EncodedVector, models.Reconciliation, error) {
	index := make(map[string]int, len(vec.Names))
	for i, name := range vec.Names {
		index[name] = i
	}

	rec := models.Reconciliation{}
	values := make([]float64, len(a.order))
	expected := make(map[string]bool, len(a.order))

	for i, name := range a.order {
		expected[name] = true
		if j, ok := index[name]; ok {
			values[i] = vec.Values[j]
			rec.Present++
		} else {
			rec.Filled++
			rec.FilledColumns = append(rec.FilledColumns, name)
		}
	}

	for _, name := range vec.Names {
		if !expected[name] {
			rec.Dropped = append(rec.Dropped, name)
		}
	}

	if a.strict && rec.Filled > 0 {
		return models.EncodedVector{}, rec, fmt.Errorf("%d expected columns missing from encoder output (%v): %w",
			rec.Filled, rec.FilledColumns, ErrSchemaMismatch)
	}

	return models.EncodedVector{
		Names:  append([]string(nil), a.order...),
		Values: values,
	}, rec, nil
}
