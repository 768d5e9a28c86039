// ChurnSight - Telecom Customer Churn Prediction
// Copyright 2026 ChurnSight Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/churnsight/churnsight

package pipeline

import (
	"strconv"

	"github.com/churnsight/churnsight/internal/models"
)

// Encoder output contract: exactly these 20 columns in this order. The
// trained model has no column names at inference time, only positions, so the
// order is load-bearing.
var EncoderFeatures = []string{
	"SeniorCitizen",
	"tenure",
	"MonthlyCharges_log",
	"TotalCharges_log",
	"average_charges_per_month",
	"contract_loyalty",
	"contract_progress",
	"ServiceCount",
	"charge_tenure_ratio_log",
	"security_bundle",
	"is_long_contract",
	"family_flag",
	"Contract",
	"gender",
	"PaperlessBilling",
	"InternetService_Fiber optic",
	"OnlineSecurity_No",
	"TechSupport_No",
	"PaymentMethod_Electronic check",
	"billing_flag_partial_month",
}

// floatFeatures are the columns synthesized as 0.0 when absent; every other
// expected column is integer-typed and synthesized as 0. The distinction
// mirrors the model's training dtypes.
var floatFeatures = map[string]bool{
	"MonthlyCharges_log":        true,
	"TotalCharges_log":          true,
	"average_charges_per_month": true,
	"contract_progress":         true,
	"charge_tenure_ratio_log":   true,
}

// Integer codes for the ordinal categorical columns. Unrecognized values
// encode as 0.
var (
	contractCodes = map[string]float64{
		models.ContractMonthToMonth: 0,
		models.ContractOneYear:      1,
		models.ContractTwoYear:      2,
	}
	genderCodes = map[string]float64{
		models.GenderFemale: 0,
		models.GenderMale:   1,
	}
	yesNoCodes = map[string]float64{
		models.No:  0,
		models.Yes: 1,
	}

	// indicatorCodes covers one-hot columns arriving as strings rather than
	// 0/1 values: the string names the category the column indicates.
	indicatorCodes = map[string]float64{
		models.No:                     0,
		models.Yes:                    1,
		models.InternetFiber:          1,
		models.PaymentElectronicCheck: 1,
		models.BillingPartialMonth:    1,
	}
)

// Encoder maps an enriched record into the fixed-length, fixed-order numeric
// vector the model's input schema declares.
type Encoder struct{}

// NewEncoder creates an Encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Encode produces the 20-column encoded vector for an enriched record.
func (e *Encoder) Encode(rec models.EnrichedRecord) models.EncodedVector {
	vec, _ := e.EncodeColumns(e.columnsOf(rec))
	return vec
}

// columnsOf exposes an enriched record as an encoder column map, so the
// typed path and the column-map path share one encode routine.
func (e *Encoder) columnsOf(rec models.EnrichedRecord) map[string]any {
	return map[string]any{
		"SeniorCitizen":                  rec.SeniorCitizen,
		"tenure":                         rec.Tenure,
		"MonthlyCharges_log":             rec.MonthlyChargesLog,
		"TotalCharges_log":               rec.TotalChargesLog,
		"average_charges_per_month":      rec.AverageChargesPerMonth,
		"contract_loyalty":               rec.ContractLoyalty,
		"contract_progress":              rec.ContractProgress,
		"ServiceCount":                   rec.ServiceCount,
		"charge_tenure_ratio_log":        rec.ChargeTenureRatioLog,
		"security_bundle":                rec.SecurityBundle,
		"is_long_contract":               rec.IsLongContract,
		"family_flag":                    rec.FamilyFlag,
		"Contract":                       rec.Contract,
		"gender":                         rec.Gender,
		"PaperlessBilling":               rec.PaperlessBilling,
		"InternetService_Fiber optic":    boolFlag(rec.InternetService == models.InternetFiber),
		"OnlineSecurity_No":              boolFlag(rec.OnlineSecurity == models.No),
		"TechSupport_No":                 boolFlag(rec.TechSupport == models.No),
		"PaymentMethod_Electronic check": boolFlag(rec.PaymentMethod == models.PaymentElectronicCheck),
		"billing_flag_partial_month":     boolFlag(rec.BillingFlag == models.BillingPartialMonth),
	}
}

// EncodeColumns encodes an arbitrary column map against the 20-feature
// contract. Expected columns absent from the map are synthesized as typed
// zeros; non-numeric values are coerced best-effort and unparseable values
// become 0 (a silent-repair policy preserved for model compatibility). The
// second return value counts the values that needed repair, for
// observability.
//
// The output is always exactly the 20 contract columns in contract order,
// regardless of the input's column set or ordering.
func (e *Encoder) EncodeColumns(cols map[string]any) (models.EncodedVector, int) {
	values := make([]float64, len(EncoderFeatures))
	repaired := 0

	for i, name := range EncoderFeatures {
		raw, present := cols[name]
		if !present {
			// Typed default: 0 for integer columns, 0.0 for float columns.
			// Numerically identical, but kept explicit to mirror the model's
			// dtype table.
			if floatFeatures[name] {
				values[i] = 0.0
			} else {
				values[i] = 0
			}
			continue
		}

		switch name {
		case "Contract":
			values[i] = mapCategory(raw, contractCodes, &repaired)
		case "gender":
			values[i] = mapCategory(raw, genderCodes, &repaired)
		case "PaperlessBilling":
			values[i] = mapCategory(raw, yesNoCodes, &repaired)
		case "InternetService_Fiber optic", "OnlineSecurity_No", "TechSupport_No",
			"PaymentMethod_Electronic check", "billing_flag_partial_month":
			values[i] = mapCategory(raw, indicatorCodes, &repaired)
		default:
			values[i] = coerceNumeric(raw, &repaired)
		}
	}

	return models.EncodedVector{
		Names:  append([]string(nil), EncoderFeatures...),
		Values: values,
	}, repaired
}

// mapCategory resolves a categorical value through its code table. Numeric
// inputs pass through as already-encoded; unrecognized strings become 0.
func mapCategory(raw any, codes map[string]float64, repaired *int) float64 {
	if s, ok := raw.(string); ok {
		if code, ok := codes[s]; ok {
			return code
		}
		*repaired++
		return 0
	}
	return coerceNumeric(raw, repaired)
}

// coerceNumeric converts a column value to float64 best-effort. Unparseable
// values become 0 and are counted as repaired.
func coerceNumeric(raw any, repaired *int) float64 {
	switch v := raw.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case bool:
		if v {
			return 1
		}
		return 0
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		*repaired++
		return 0
	default:
		*repaired++
		return 0
	}
}

func boolFlag(b bool) int {
	if b {
		return 1
	}
	return 0
}
