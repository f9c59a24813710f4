// Copyright 2026 The Gravel Authors. All rights reserved. Use of this source
// code is governed by a BSD-style license that can be found in the LICENSE
// file.

package gravel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestOptionsEnsureDefaults(t *testing.T) {
	var opts Options
	opts.EnsureDefaults()
	require.Equal(t, DefaultHistorySize, opts.HistorySize)
	require.Equal(t, uint64(DefaultWritingRate), opts.DefaultWritingRate)
	require.Equal(t, DefaultMaxSleepPerTick, opts.MaxSleepPerTick)
	require.Equal(t, uint64(DefaultRateFloor), opts.RateFloor)
	require.NotNil(t, opts.NowFn)
	require.NotNil(t, opts.SleepFn)
	require.NotNil(t, opts.Logger)
	require.NotNil(t, opts.EventListener)
	require.NotNil(t, opts.EventListener.EpochRecompute)
	require.NotNil(t, opts.EventListener.Throttled)
	require.NotNil(t, opts.EventListener.Flush)

	// Explicit values survive.
	opts = Options{HistorySize: 3, RateFloor: 2, MaxSleepPerTick: time.Second}
	opts.EnsureDefaults()
	require.Equal(t, 3, opts.HistorySize)
	require.Equal(t, uint64(2), opts.RateFloor)
	require.Equal(t, time.Second, opts.MaxSleepPerTick)
}

func TestOptionsValidate(t *testing.T) {
	require.NoError(t, (&Options{}).Validate())
	require.NoError(t, (&Options{HistorySize: 5}).Validate())
	require.Error(t, (&Options{HistorySize: -1}).Validate())
	require.Error(t, (&Options{MaxSleepPerTick: -time.Second}).Validate())
}
