// Copyright 2026 The Gravel Authors. All rights reserved. Use of this source
// code is governed by a BSD-style license that can be found in the LICENSE
// file.

package gravel

import (
	"time"

	"github.com/cockroachdb/crlib/crhumanize"
	"github.com/cockroachdb/redact"
)

// Metrics holds cumulative counters and the current control state of a
// Throttler. Snapshots are cheap; all fields are plain values.
type Metrics struct {
	// Epochs is the number of controller recomputations performed.
	Epochs uint64

	// Ticks is the number of Tick calls; ThrottledTicks counts those that
	// induced a nonzero sleep.
	Ticks          uint64
	ThrottledTicks uint64

	// BytesAdmitted is the total number of bytes admitted into the write
	// buffer.
	BytesAdmitted uint64

	// TotalSleep is the total latency induced across all throttled ticks.
	TotalSleep time.Duration

	// ThrottleRate is the current admission rate, in bytes per microsecond.
	ThrottleRate uint64

	// WritingRate is the current assumed sustainable drain rate, in
	// bytes/sec.
	WritingRate uint64

	// FlushSamples is the number of samples retained in the rolling history.
	FlushSamples int
}

func (m Metrics) String() string {
	return redact.StringWithoutMarkers(m)
}

// SafeFormat implements redact.SafeFormatter.
func (m Metrics) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("admitted %s in %s ticks (%s throttled, %s total sleep) | rate %d B/µs | writing %s/s over %s samples | %s epochs",
		crhumanize.Bytes(m.BytesAdmitted, crhumanize.Compact),
		crhumanize.Count(m.Ticks, crhumanize.Compact),
		crhumanize.Count(m.ThrottledTicks, crhumanize.Compact),
		redact.Safe(m.TotalSleep),
		redact.Safe(m.ThrottleRate),
		crhumanize.Bytes(m.WritingRate, crhumanize.Compact),
		crhumanize.Count(uint64(m.FlushSamples), crhumanize.Compact),
		crhumanize.Count(m.Epochs, crhumanize.Compact))
}
