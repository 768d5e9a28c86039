// ChurnSight - Telecom Customer Churn Prediction
// Copyright 2026 ChurnSight Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/churnsight/churnsight

package pipeline

import (
	"fmt"
	"math"

	"github.com/churnsight/churnsight/internal/models"
)

// FeatureEngine derives the engineered feature columns from a normalized
// customer record. The derivation order is fixed: later steps read values
// earlier steps produced, and the skew-correction step rewrites the working
// monetary values in place, so reordering changes the output.
type FeatureEngine struct{}

// NewFeatureEngine creates a FeatureEngine.
func NewFeatureEngine() *FeatureEngine {
	return &FeatureEngine{}
}

// Enrich runs the full derivation chain over rec and returns the enriched
// record. Returns ErrDerivationUndefined when a derived quantity is
// mathematically undefined for the record (tenure 0, unrecognized contract
// type); such records are dropped, never propagated with sentinel values.
func (e *FeatureEngine) Enrich(rec models.RawRecord) (models.EnrichedRecord, error) {
	if rec.Tenure < 0 || rec.Tenure > 72 {
		return models.EnrichedRecord{}, fmt.Errorf("tenure %d outside [0,72]: %w", rec.Tenure, ErrDerivationUndefined)
	}

	out := models.EnrichedRecord{
		Gender:           rec.Gender,
		SeniorCitizen:    rec.SeniorCitizen,
		Partner:          rec.Partner,
		Dependents:       rec.Dependents,
		Tenure:           rec.Tenure,
		PhoneService:     rec.PhoneService,
		MultipleLines:    rec.MultipleLines,
		InternetService:  rec.InternetService,
		OnlineSecurity:   rec.OnlineSecurity,
		OnlineBackup:     rec.OnlineBackup,
		DeviceProtection: rec.DeviceProtection,
		TechSupport:      rec.TechSupport,
		StreamingTV:      rec.StreamingTV,
		StreamingMovies:  rec.StreamingMovies,
		Contract:         rec.Contract,
		PaperlessBilling: rec.PaperlessBilling,
		PaymentMethod:    rec.PaymentMethod,
	}

	// Label reduction: collapse the service-specific "no X service" sentinels
	// to plain "No" in the categorised companions.
	out.MultipleLinesCategorised = reduceLabel(rec.MultipleLines, models.NoPhoneService)
	out.OnlineSecurityCategorised = reduceLabel(rec.OnlineSecurity, models.NoInternetService)
	out.OnlineBackupCategorised = reduceLabel(rec.OnlineBackup, models.NoInternetService)
	out.DeviceProtectionCategorised = reduceLabel(rec.DeviceProtection, models.NoInternetService)
	out.TechSupportCategorised = reduceLabel(rec.TechSupport, models.NoInternetService)
	out.StreamingTVCategorised = reduceLabel(rec.StreamingTV, models.NoInternetService)
	out.StreamingMoviesCategorised = reduceLabel(rec.StreamingMovies, models.NoInternetService)

	out.TenureBin = binTenure(rec.Tenure)
	out.PricingTier = pricingTier(rec.MonthlyCharges)

	// Charge discrepancy and its billing classification, computed on the raw
	// monetary values. With total = monthly x tenure the diff is exactly 0,
	// which the first rule (partial_month) always claims; the literal
	// exact-zero "ok" case is unreachable and intentionally left that way.
	chargeDiff := rec.TotalCharges - rec.MonthlyCharges*float64(rec.Tenure)
	out.BillingFlag = billingFlag(chargeDiff, rec.MonthlyCharges)

	if rec.Tenure == 0 {
		return models.EnrichedRecord{}, fmt.Errorf("average charge per month with tenure 0: %w", ErrDerivationUndefined)
	}
	out.AverageChargesPerMonth = round2(rec.TotalCharges / float64(rec.Tenure))

	if rec.Contract != models.ContractMonthToMonth && rec.Tenure > 12 {
		out.ContractLoyalty = 1
	}

	contractLen, ok := contractLengthMonths(rec.Contract)
	if !ok {
		return models.EnrichedRecord{}, fmt.Errorf("unrecognized contract type %q: %w", rec.Contract, ErrDerivationUndefined)
	}
	out.ContractProgress = round2(float64(rec.Tenure) / float64(contractLen))

	out.ServiceCount = serviceCount(rec)

	ratio := round2(rec.MonthlyCharges / float64(rec.Tenure+1))
	out.ChargeTenureRatioLog = round2(math.Log1p(ratio))

	// Skew correction: from here on the working monetary values hold log1p
	// of the raw amounts. Applied exactly once per record.
	monthly := skewCorrect(rec.MonthlyCharges)
	total := skewCorrect(rec.TotalCharges)

	if out.ServiceCount >= 5 && contractLen >= 12 {
		out.HighEngagementLoyalty = 1
	}

	// Remaining flags compare dollar thresholds, so they read the raw
	// monetary values, not the log-corrected ones.
	if rec.Contract == models.ContractMonthToMonth && rec.MonthlyCharges > 80 {
		out.HighRiskContract = 1
	}
	if rec.Tenure < 12 && rec.MonthlyCharges > 90 {
		out.RecentHighCharge = 1
	}
	if rec.PaymentMethod == models.PaymentBankTransfer || rec.PaymentMethod == models.PaymentCreditCard {
		out.IsAutoPay = 1
	}
	if rec.PaymentMethod == models.PaymentElectronicCheck {
		out.IsElectronicCheck = 1
	}
	out.SecurityBundle = countYes(rec.OnlineSecurity, rec.OnlineBackup, rec.DeviceProtection, rec.TechSupport)
	if rec.StreamingTV == models.Yes && rec.StreamingMovies == models.Yes {
		out.EntertainmentBundle = 1
	}
	if rec.PaperlessBilling == models.Yes && out.IsAutoPay == 1 {
		out.PaperlessAutopay = 1
	}
	if rec.SeniorCitizen == 1 && rec.Tenure > 24 {
		out.SeniorLoyal = 1
	}
	if rec.Contract == models.ContractOneYear || rec.Contract == models.ContractTwoYear {
		out.IsLongContract = 1
	}
	if rec.Partner == models.Yes || rec.Dependents == models.Yes {
		out.FamilyFlag = 1
	}

	// The named log views the classifier was trained on: log1p of the
	// already skew-corrected values, i.e. log1p(log1p(raw)). The raw
	// monetary columns do not survive past this point.
	out.MonthlyChargesLog = math.Log1p(monthly)
	out.TotalChargesLog = math.Log1p(total)

	return out, nil
}

// reduceLabel collapses a service-specific sentinel to plain "No".
func reduceLabel(value, sentinel string) string {
	if value == sentinel {
		return models.No
	}
	return value
}

// binTenure partitions tenure months into three half-open bins:
// [0,24) short, [24,48) mid, [48,73) long. Tenure 72 lands in long term.
func binTenure(tenure int) string {
	switch {
	case tenure < 24:
		return models.TenureShortTerm
	case tenure < 48:
		return models.TenureMidTerm
	default:
		return models.TenureLongTerm
	}
}

// pricingTier maps a monthly charge to its pricing tier by threshold.
func pricingTier(monthly float64) string {
	switch {
	case monthly < 40:
		return models.TierBasic
	case monthly < 70:
		return models.TierStandard
	case monthly < 95:
		return models.TierPremium
	default:
		return models.TierPlatinum
	}
}

// billingFlag classifies a charge discrepancy relative to the monthly charge.
// Rules are evaluated in order and the first match wins: the partial_month
// band subsumes the exact-zero case, so zero never reaches the ok branch.
func billingFlag(chargeDiff, monthly float64) string {
	switch {
	case math.Abs(chargeDiff) < 0.5*monthly:
		return models.BillingPartialMonth
	case -monthly <= chargeDiff && chargeDiff <= -0.5*monthly:
		return models.BillingDiscount
	case math.Abs(chargeDiff) > monthly:
		return models.BillingIssue
	default:
		return models.BillingOK
	}
}

// contractLengthMonths converts a contract type to its length in months.
func contractLengthMonths(contract string) (int, bool) {
	switch contract {
	case models.ContractMonthToMonth:
		return 1, true
	case models.ContractOneYear:
		return 12, true
	case models.ContractTwoYear:
		return 24, true
	default:
		return 0, false
	}
}

// serviceCount counts the service-indicator columns equal to "Yes".
func serviceCount(rec models.RawRecord) int {
	return countYes(
		rec.PhoneService, rec.MultipleLines,
		rec.OnlineSecurity, rec.OnlineBackup, rec.DeviceProtection,
		rec.TechSupport, rec.StreamingTV, rec.StreamingMovies,
	)
}

func countYes(values ...string) int {
	n := 0
	for _, v := range values {
		if v == models.Yes {
			n++
		}
	}
	return n
}

// skewCorrect is the log1p transform applied to the skewed monetary columns.
// Not idempotent: applying it twice yields a different value, which is why
// Enrich applies it exactly once.
func skewCorrect(v float64) float64 {
	return math.Log1p(v)
}

// round2 rounds to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
