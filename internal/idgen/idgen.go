// ChurnSight - Telecom Customer Churn Prediction
// Copyright 2026 ChurnSight Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/churnsight/churnsight

// Package idgen generates customer identifiers in the dataset's native
// format: four digits, a hyphen, five uppercase letters (e.g. 7590-VHVEG).
package idgen

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// CustomerID returns a random identifier of the form DDDD-LLLLL.
func CustomerID() string {
	digits := make([]byte, 4)
	for i := range digits {
		digits[i] = '0' + byte(randInt(10))
	}

	suffix := make([]byte, 5)
	for i := range suffix {
		suffix[i] = letters[randInt(len(letters))]
	}

	return fmt.Sprintf("%s-%s", digits, suffix)
}

func randInt(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand only fails when the platform entropy source is
		// broken, which is not recoverable here.
		panic(fmt.Sprintf("idgen: entropy source unavailable: %v", err))
	}
	return int(v.Int64())
}
