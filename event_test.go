// Copyright 2026 The Gravel Authors. All rights reserved. Use of this source
// code is governed by a BSD-style license that can be found in the LICENSE
// file.

package gravel

import (
	"testing"
	"time"

	"github.com/graveldb/gravel/internal/testutils"
	"github.com/stretchr/testify/require"
)

func TestEventInfoStrings(t *testing.T) {
	epoch := EpochInfo{
		Epoch:            3,
		Pressure:         1 << 20,
		PressureAdjusted: 1<<20 + 1<<18,
		WritingRate:      10 << 20,
		PrevThrottleRate: 5,
		ThrottleRate:     6,
		SleptPrevEpoch:   50 * time.Millisecond,
	}
	s := epoch.String()
	require.Contains(t, s, "[THROTTLE]")
	require.Contains(t, s, "epoch 3")
	require.Contains(t, s, "5 -> 6")

	throttle := ThrottleInfo{Bytes: 4096, Sleep: 200 * time.Microsecond}
	require.Contains(t, throttle.String(), "[THROTTLE]")
	require.Contains(t, throttle.String(), "200µs")

	flush := FlushInfo{Bytes: 8 << 20, Duration: time.Second, Rate: 8 << 20}
	require.Contains(t, flush.String(), "[THROTTLE]")
}

func TestLoggingEventListener(t *testing.T) {
	listener := MakeLoggingEventListener(testutils.Logger{T: t})
	listener.EpochRecompute(EpochInfo{Epoch: 1, ThrottleRate: 5, PrevThrottleRate: 5})
	listener.Throttled(ThrottleInfo{Bytes: 1 << 10, Sleep: time.Millisecond})
	listener.Flush(FlushInfo{Bytes: 1 << 20, Duration: time.Second, Rate: 1 << 20})

	// A nil logger falls back to the default logger without panicking.
	listener = MakeLoggingEventListener(nil)
	require.NotNil(t, listener.EpochRecompute)
}
