// ChurnSight - Telecom Customer Churn Prediction
// Copyright 2026 ChurnSight Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/churnsight/churnsight

package pipeline

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/churnsight/churnsight/internal/models"
)

// MissingFieldsError reports required raw fields absent from a submission.
// Required fields are never defaulted; their absence stops the pipeline
// before any derivation runs.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}

// FieldNormalizer fills defaults for optional fields and computes the derived
// raw fields (senior-citizen flag, total charges) of a submission.
type FieldNormalizer struct{}

// NewFieldNormalizer creates a FieldNormalizer.
func NewFieldNormalizer() *FieldNormalizer {
	return &FieldNormalizer{}
}

// Normalize returns a fully-populated RawRecord for the submission.
//
// Defaults for skipped optional fields:
//   - multiple_lines: "No phone service" when phone_service is "No", else "No"
//   - add-on services: "No", or "No internet service" when internet_service
//     is "No" (the only value consistent with the record invariant)
//
// Derived fields:
//   - senior_citizen: 1 when age >= 65
//   - total_charges: monthly_charges x tenure, rounded to cents
//
// A submission whose add-on values contradict its internet service is
// rejected: every add-on must read "No internet service" exactly when
// internet_service is "No".
func (n *FieldNormalizer) Normalize(sub models.Submission) (models.RawRecord, error) {
	if missing := requiredMissing(sub); len(missing) > 0 {
		return models.RawRecord{}, &MissingFieldsError{Fields: missing}
	}

	multipleLines := sub.MultipleLines
	if multipleLines == "" {
		if sub.PhoneService == models.No {
			multipleLines = models.NoPhoneService
		} else {
			multipleLines = models.No
		}
	}

	noInternet := sub.InternetService == models.InternetNone
	addons := [6]string{
		sub.OnlineSecurity, sub.OnlineBackup, sub.DeviceProtection,
		sub.TechSupport, sub.StreamingTV, sub.StreamingMovies,
	}
	addonNames := [6]string{
		"online_security", "online_backup", "device_protection",
		"tech_support", "streaming_tv", "streaming_movies",
	}
	for i, v := range addons {
		if v == "" {
			if noInternet {
				addons[i] = models.NoInternetService
			} else {
				addons[i] = models.No
			}
			continue
		}
		if noInternet && v != models.NoInternetService {
			return models.RawRecord{}, fmt.Errorf("%s is %q but internet_service is %q", addonNames[i], v, models.InternetNone)
		}
		if !noInternet && v == models.NoInternetService {
			return models.RawRecord{}, fmt.Errorf("%s is %q but internet_service is %q", addonNames[i], v, sub.InternetService)
		}
	}

	senior := 0
	if sub.Age >= models.SeniorAgeThreshold {
		senior = 1
	}

	// Currency arithmetic stays in decimal until the final rounded value.
	total, _ := decimal.NewFromFloat(sub.MonthlyCharges).
		Mul(decimal.NewFromInt(int64(sub.Tenure))).
		Round(2).
		Float64()

	return models.RawRecord{
		CustomerID:       sub.CustomerID,
		Gender:           sub.Gender,
		SeniorCitizen:    senior,
		Partner:          sub.Partner,
		Dependents:       sub.Dependents,
		Tenure:           sub.Tenure,
		PhoneService:     sub.PhoneService,
		MultipleLines:    multipleLines,
		InternetService:  sub.InternetService,
		OnlineSecurity:   addons[0],
		OnlineBackup:     addons[1],
		DeviceProtection: addons[2],
		TechSupport:      addons[3],
		StreamingTV:      addons[4],
		StreamingMovies:  addons[5],
		Contract:         sub.Contract,
		PaperlessBilling: sub.PaperlessBilling,
		PaymentMethod:    sub.PaymentMethod,
		MonthlyCharges:   sub.MonthlyCharges,
		TotalCharges:     total,
	}, nil
}

// requiredMissing returns the names of required fields absent from the
// submission, in schema order.
func requiredMissing(sub models.Submission) []string {
	required := []struct {
		name  string
		value string
	}{
		{"gender", sub.Gender},
		{"partner", sub.Partner},
		{"dependents", sub.Dependents},
		{"phone_service", sub.PhoneService},
		{"internet_service", sub.InternetService},
		{"contract", sub.Contract},
		{"paperless_billing", sub.PaperlessBilling},
		{"payment_method", sub.PaymentMethod},
	}

	var missing []string
	for _, f := range required {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}
