// ChurnSight - Telecom Customer Churn Prediction
// Copyright 2026 ChurnSight Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/churnsight/churnsight

// Package artifacts loads the persisted model artifacts: the expected
// feature order, the decision threshold, and the classifier weights. All
// three are loaded once at process start and are read-only afterward.
package artifacts

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"github.com/churnsight/churnsight/internal/models"
)

// ExpectedFeatureCount is the number of columns the trained classifier
// consumes.
const ExpectedFeatureCount = 20

// ModelWeights is the persisted classifier artifact: logistic-regression
// weights keyed by feature name.
type ModelWeights struct {
	Weights   map[string]float64 `json:"weights"`
	Intercept float64            `json:"intercept"`
}

// Bundle holds the three loaded artifacts.
type Bundle struct {
	FeatureOrder models.FeatureOrder
	Threshold    float64
	Model        ModelWeights
}

// Load reads and validates all three artifacts.
func Load(featureOrderPath, thresholdPath, modelPath string) (*Bundle, error) {
	order, err := LoadFeatureOrder(featureOrderPath)
	if err != nil {
		return nil, err
	}

	threshold, err := LoadThreshold(thresholdPath)
	if err != nil {
		return nil, err
	}

	model, err := LoadModel(modelPath)
	if err != nil {
		return nil, err
	}

	return &Bundle{FeatureOrder: order, Threshold: threshold, Model: model}, nil
}

// LoadFeatureOrder reads the expected-feature list artifact. The list must
// contain exactly 20 distinct column names; order is significant.
func LoadFeatureOrder(path string) (models.FeatureOrder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read feature order artifact: %w", err)
	}

	var doc struct {
		Features []string `json:"features"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse feature order artifact %s: %w", path, err)
	}

	if len(doc.Features) != ExpectedFeatureCount {
		return nil, fmt.Errorf("feature order artifact %s has %d features, want %d", path, len(doc.Features), ExpectedFeatureCount)
	}

	seen := make(map[string]bool, len(doc.Features))
	for _, name := range doc.Features {
		if name == "" {
			return nil, fmt.Errorf("feature order artifact %s contains an empty column name", path)
		}
		if seen[name] {
			return nil, fmt.Errorf("feature order artifact %s contains duplicate column %q", path, name)
		}
		seen[name] = true
	}

	return models.FeatureOrder(doc.Features), nil
}

// LoadThreshold reads the decision-threshold artifact. The threshold must be
// in [0,1].
func LoadThreshold(path string) (float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read threshold artifact: %w", err)
	}

	var doc struct {
		Threshold float64 `json:"threshold"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return 0, fmt.Errorf("failed to parse threshold artifact %s: %w", path, err)
	}

	if doc.Threshold < 0 || doc.Threshold > 1 {
		return 0, fmt.Errorf("threshold artifact %s has value %v outside [0,1]", path, doc.Threshold)
	}

	return doc.Threshold, nil
}

// LoadModel reads the classifier weights artifact.
func LoadModel(path string) (ModelWeights, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ModelWeights{}, fmt.Errorf("failed to read model artifact: %w", err)
	}

	var model ModelWeights
	if err := json.Unmarshal(data, &model); err != nil {
		return ModelWeights{}, fmt.Errorf("failed to parse model artifact %s: %w", path, err)
	}

	if len(model.Weights) == 0 {
		return ModelWeights{}, fmt.Errorf("model artifact %s has no weights", path)
	}

	return model, nil
}
