// ChurnSight - Telecom Customer Churn Prediction
// Copyright 2026 ChurnSight Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/churnsight/churnsight

// Package models defines the domain types shared across the application:
// customer records at each pipeline stage, the encoded feature vector, and
// the API response envelope.
package models

// Categorical field values used throughout the customer schema.
const (
	Yes = "Yes"
	No  = "No"

	NoPhoneService    = "No phone service"
	NoInternetService = "No internet service"

	GenderFemale = "Female"
	GenderMale   = "Male"

	InternetDSL   = "DSL"
	InternetFiber = "Fiber optic"
	InternetNone  = "No"

	ContractMonthToMonth = "Month-to-month"
	ContractOneYear      = "One year"
	ContractTwoYear      = "Two year"

	PaymentElectronicCheck = "Electronic check"
	PaymentMailedCheck     = "Mailed check"
	PaymentBankTransfer    = "Bank transfer (automatic)"
	PaymentCreditCard      = "Credit card (automatic)"
)

// Tenure bin labels produced by the feature engine.
const (
	TenureShortTerm = "Short term"
	TenureMidTerm   = "Mid term"
	TenureLongTerm  = "Long term"
)

// Monthly pricing tiers, ordered cheapest to most expensive.
const (
	TierBasic    = "Basic"
	TierStandard = "Standard"
	TierPremium  = "Premium"
	TierPlatinum = "Platinum"
)

// Billing flags classifying the discrepancy between total charges and
// monthly_charge x tenure.
const (
	BillingPartialMonth = "partial_month"
	BillingDiscount     = "discount"
	BillingIssue        = "billing_issue"
	BillingOK           = "ok"
)

// SeniorAgeThreshold is the age at or above which a customer counts as a
// senior citizen.
const SeniorAgeThreshold = 65

// RawRecord is one fully-populated customer submission: the 19 form fields
// plus the derived SeniorCitizen flag and TotalCharges amount. Field names
// mirror the persisted submission-log column names.
type RawRecord struct {
	CustomerID       string  `json:"customer_id"`
	Gender           string  `json:"gender"`
	SeniorCitizen    int     `json:"senior_citizen"`
	Partner          string  `json:"partner"`
	Dependents       string  `json:"dependents"`
	Tenure           int     `json:"tenure"`
	PhoneService     string  `json:"phone_service"`
	MultipleLines    string  `json:"multiple_lines"`
	InternetService  string  `json:"internet_service"`
	OnlineSecurity   string  `json:"online_security"`
	OnlineBackup     string  `json:"online_backup"`
	DeviceProtection string  `json:"device_protection"`
	TechSupport      string  `json:"tech_support"`
	StreamingTV      string  `json:"streaming_tv"`
	StreamingMovies  string  `json:"streaming_movies"`
	Contract         string  `json:"contract"`
	PaperlessBilling string  `json:"paperless_billing"`
	PaymentMethod    string  `json:"payment_method"`
	MonthlyCharges   float64 `json:"monthly_charges"`
	TotalCharges     float64 `json:"total_charges"`
}

// RawColumns is the persisted submission-log column order: the 20 raw fields
// of a RawRecord.
var RawColumns = []string{
	"customerID", "gender", "SeniorCitizen", "Partner", "Dependents",
	"tenure", "PhoneService", "MultipleLines", "InternetService",
	"OnlineSecurity", "OnlineBackup", "DeviceProtection", "TechSupport",
	"StreamingTV", "StreamingMovies", "Contract", "PaperlessBilling",
	"PaymentMethod", "MonthlyCharges", "TotalCharges",
}

// EnrichedRecord is a RawRecord after the full feature-engineering chain.
// It is created once per prediction request and never mutated afterward.
//
// Note the two distinct log views of the monetary fields: the skew-correction
// step rewrites the working monthly/total charge values to log1p form, and the
// named *Log fields below are log1p of those already-transformed values. The
// classifier was trained on this double-log view, so it must be preserved.
type EnrichedRecord struct {
	// Raw fields surviving the pipeline.
	Gender           string
	SeniorCitizen    int
	Partner          string
	Dependents       string
	Tenure           int
	PhoneService     string
	MultipleLines    string
	InternetService  string
	OnlineSecurity   string
	OnlineBackup     string
	DeviceProtection string
	TechSupport      string
	StreamingTV      string
	StreamingMovies  string
	Contract         string
	PaperlessBilling string
	PaymentMethod    string

	// Categorised companions: service-specific "no X service" sentinels
	// collapsed to plain "No".
	MultipleLinesCategorised    string
	OnlineSecurityCategorised   string
	OnlineBackupCategorised     string
	DeviceProtectionCategorised string
	TechSupportCategorised      string
	StreamingTVCategorised      string
	StreamingMoviesCategorised  string

	// Engineered features.
	TenureBin              string
	PricingTier            string
	BillingFlag            string
	AverageChargesPerMonth float64
	ContractLoyalty        int
	ContractProgress       float64
	ServiceCount           int
	ChargeTenureRatioLog   float64
	HighEngagementLoyalty  int
	HighRiskContract       int
	RecentHighCharge       int
	IsAutoPay              int
	IsElectronicCheck      int
	SecurityBundle         int
	EntertainmentBundle    int
	PaperlessAutopay       int
	SeniorLoyal            int
	IsLongContract         int
	FamilyFlag             int
	MonthlyChargesLog      float64
	TotalChargesLog        float64
}

// EncodedVector is an ordered set of named numeric feature columns, the unit
// the churn scorer consumes. Column order is positionally significant: the
// model has no column names at inference time.
type EncodedVector struct {
	Names  []string  `json:"names"`
	Values []float64 `json:"values"`
}

// Get returns the value of the named column and whether it is present.
func (v EncodedVector) Get(name string) (float64, bool) {
	for i, n := range v.Names {
		if n == name {
			return v.Values[i], true
		}
	}
	return 0, false
}

// Len returns the number of columns in the vector.
func (v EncodedVector) Len() int {
	return len(v.Names)
}

// FeatureOrder is the persisted canonical list and order of columns the
// trained classifier expects as input. Loaded once at startup, read-only for
// the lifetime of the process.
type FeatureOrder []string

// Reconciliation reports how an encoded vector was reconciled against the
// model's expected feature list. Filled columns were absent from the vector
// and zero-filled; dropped columns were present but not expected.
type Reconciliation struct {
	Present       int      `json:"present"`
	Filled        int      `json:"filled"`
	FilledColumns []string `json:"filled_columns,omitempty"`
	Dropped       []string `json:"dropped_columns,omitempty"`
}

// Prediction is the outcome of one pipeline pass.
type Prediction struct {
	CustomerID     string         `json:"customer_id,omitempty"`
	Probability    float64        `json:"probability"`
	Label          int            `json:"label"`
	Churn          bool           `json:"churn"`
	Threshold      float64        `json:"threshold"`
	Reconciliation Reconciliation `json:"reconciliation"`
}
