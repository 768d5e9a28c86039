// ChurnSight - Telecom Customer Churn Prediction
// Copyright 2026 ChurnSight Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/churnsight/churnsight

// Package store persists customer submissions to an append-only CSV file.
// The file doubles as the retraining dataset, so its column set and order
// match the raw customer schema exactly.
package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/churnsight/churnsight/internal/metrics"
	"github.com/churnsight/churnsight/internal/models"
)

// CSVLog is an append-only submission log. Safe for concurrent use; every
// append is flushed before the lock is released.
type CSVLog struct {
	mu   sync.Mutex
	path string
}

// NewCSVLog creates a CSVLog writing to path. The parent directory is
// created if absent; the file itself is created on first append.
func NewCSVLog(path string) (*CSVLog, error) {
	if path == "" {
		return nil, fmt.Errorf("store path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return &CSVLog{path: path}, nil
}

// Path returns the log's file path.
func (s *CSVLog) Path() string {
	return s.path
}

// Append writes one record to the log. The header row is written once, when
// the file is empty or newly created.
func (s *CSVLog) Append(rec models.RawRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o640)
	if err != nil {
		return fmt.Errorf("failed to open submission log: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat submission log: %w", err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(models.RawColumns); err != nil {
			return fmt.Errorf("failed to write submission log header: %w", err)
		}
	}

	if err := w.Write(recordRow(rec)); err != nil {
		return fmt.Errorf("failed to write submission: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush submission: %w", err)
	}

	metrics.SubmissionsLogged.Inc()
	return nil
}

// Count returns the number of data rows in the log, excluding the header.
// Returns 0 when the file does not exist yet.
func (s *CSVLog) Count() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to open submission log: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return 0, fmt.Errorf("failed to read submission log: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return len(rows) - 1, nil
}

// recordRow renders a record in the persisted column order. Monetary values
// keep two decimal places.
func recordRow(rec models.RawRecord) []string {
	return []string{
		rec.CustomerID,
		rec.Gender,
		strconv.Itoa(rec.SeniorCitizen),
		rec.Partner,
		rec.Dependents,
		strconv.Itoa(rec.Tenure),
		rec.PhoneService,
		rec.MultipleLines,
		rec.InternetService,
		rec.OnlineSecurity,
		rec.OnlineBackup,
		rec.DeviceProtection,
		rec.TechSupport,
		rec.StreamingTV,
		rec.StreamingMovies,
		rec.Contract,
		rec.PaperlessBilling,
		rec.PaymentMethod,
		strconv.FormatFloat(rec.MonthlyCharges, 'f', 2, 64),
		strconv.FormatFloat(rec.TotalCharges, 'f', 2, 64),
	}
}
