// Copyright 2026 The Gravel Authors. All rights reserved. Use of this source
// code is governed by a BSD-style license that can be found in the LICENSE
// file.

package gravel

// The controller retunes the throttle rate once per epoch by multiplying it
// with a factor selected from the tables below, keyed on the ratio of
// adjusted ingestion pressure to observed writing rate. The tables are
// ordered most severe tier first; the first matching tier wins.

type adjustment struct {
	// threshold on the pressure/writing-rate ratio.
	threshold float64
	factor    float64
}

// decreaseTiers applies when ingestion pressure exceeds the writing rate
// (ratio > 1). A tier matches when the ratio is above its threshold.
var decreaseTiers = []adjustment{
	{threshold: 1.50, factor: 0.75},
	{threshold: 1.10, factor: 0.95},
	{threshold: 1.05, factor: 0.99},
}

// decreaseDefaultFactor nudges the rate down when pressure is barely above
// the writing rate.
const decreaseDefaultFactor = 0.995

// increaseTiers applies when the engine drains at least as fast as bytes
// arrive (ratio <= 1). A tier matches when the ratio is below its threshold.
var increaseTiers = []adjustment{
	{threshold: 0.50, factor: 1.25},
	{threshold: 0.90, factor: 1.05},
	{threshold: 0.95, factor: 1.01},
}

// increaseDefaultFactor nudges the rate up when pressure is just below the
// writing rate.
const increaseDefaultFactor = 1.005

func decreaseFactor(ratio float64) float64 {
	for _, a := range decreaseTiers {
		if ratio > a.threshold {
			return a.factor
		}
	}
	return decreaseDefaultFactor
}

func increaseFactor(ratio float64) float64 {
	for _, a := range increaseTiers {
		if ratio < a.threshold {
			return a.factor
		}
	}
	return increaseDefaultFactor
}
