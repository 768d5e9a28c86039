// ChurnSight - Telecom Customer Churn Prediction
// Copyright 2026 ChurnSight Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/churnsight/churnsight

package models

// Submission is one raw form submission before normalization. Optional
// fields (MultipleLines and the six internet add-on services) may be empty;
// the field normalizer fills their defaults. Everything else is required and
// range-checked before the pipeline runs.
type Submission struct {
	CustomerID string `json:"customer_id" validate:"omitempty,max=64"`

	Gender     string `json:"gender" validate:"required,oneof=Female Male"`
	Age        int    `json:"age" validate:"gte=0,lte=120"`
	Partner    string `json:"partner" validate:"required,oneof=Yes No"`
	Dependents string `json:"dependents" validate:"required,oneof=Yes No"`

	Tenure          int    `json:"tenure" validate:"gte=0,lte=72"`
	PhoneService    string `json:"phone_service" validate:"required,oneof=Yes No"`
	MultipleLines   string `json:"multiple_lines" validate:"omitempty,oneof=Yes No 'No phone service'"`
	InternetService string `json:"internet_service" validate:"required,oneof=DSL 'Fiber optic' No"`

	OnlineSecurity   string `json:"online_security" validate:"omitempty,oneof=Yes No 'No internet service'"`
	OnlineBackup     string `json:"online_backup" validate:"omitempty,oneof=Yes No 'No internet service'"`
	DeviceProtection string `json:"device_protection" validate:"omitempty,oneof=Yes No 'No internet service'"`
	TechSupport      string `json:"tech_support" validate:"omitempty,oneof=Yes No 'No internet service'"`
	StreamingTV      string `json:"streaming_tv" validate:"omitempty,oneof=Yes No 'No internet service'"`
	StreamingMovies  string `json:"streaming_movies" validate:"omitempty,oneof=Yes No 'No internet service'"`

	Contract         string `json:"contract" validate:"required,oneof=Month-to-month 'One year' 'Two year'"`
	PaperlessBilling string `json:"paperless_billing" validate:"required,oneof=Yes No"`
	PaymentMethod    string `json:"payment_method" validate:"required,oneof='Electronic check' 'Mailed check' 'Bank transfer (automatic)' 'Credit card (automatic)'"`

	MonthlyCharges float64 `json:"monthly_charges" validate:"gte=18.25,lte=120"`
}
