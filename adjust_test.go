// Copyright 2026 The Gravel Authors. All rights reserved. Use of this source
// code is governed by a BSD-style license that can be found in the LICENSE
// file.

package gravel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecreaseFactor(t *testing.T) {
	testCases := []struct {
		ratio    float64
		expected float64
	}{
		{ratio: 10.0, expected: 0.75},
		{ratio: 1.51, expected: 0.75},
		// Thresholds are strict: exactly 1.50 falls through to the next tier.
		{ratio: 1.50, expected: 0.95},
		{ratio: 1.20, expected: 0.95},
		{ratio: 1.10, expected: 0.99},
		{ratio: 1.06, expected: 0.99},
		{ratio: 1.05, expected: 0.995},
		{ratio: 1.01, expected: 0.995},
	}
	for _, tc := range testCases {
		require.Equal(t, tc.expected, decreaseFactor(tc.ratio), "ratio=%v", tc.ratio)
	}
}

func TestIncreaseFactor(t *testing.T) {
	testCases := []struct {
		ratio    float64
		expected float64
	}{
		{ratio: 0.0, expected: 1.25},
		{ratio: 0.49, expected: 1.25},
		// Thresholds are strict: exactly 0.50 falls through to the next tier.
		{ratio: 0.50, expected: 1.05},
		{ratio: 0.75, expected: 1.05},
		{ratio: 0.90, expected: 1.01},
		{ratio: 0.92, expected: 1.01},
		{ratio: 0.95, expected: 1.005},
		{ratio: 0.99, expected: 1.005},
		{ratio: 1.00, expected: 1.005},
	}
	for _, tc := range testCases {
		require.Equal(t, tc.expected, increaseFactor(tc.ratio), "ratio=%v", tc.ratio)
	}
}
