// Copyright 2026 The Gravel Authors. All rights reserved. Use of this source
// code is governed by a BSD-style license that can be found in the LICENSE
// file.

package gravel

import (
	"time"

	"github.com/cockroachdb/crlib/crhumanize"
	"github.com/cockroachdb/redact"
	"github.com/graveldb/gravel/internal/base"
)

// EpochInfo contains the details of an epoch recomputation: the controller
// closed a one-second sampling window and retuned the throttle rate.
type EpochInfo struct {
	// Epoch is the wall-clock second that the controller advanced to.
	Epoch int64
	// Pressure is the raw byte count that arrived during the closed epoch.
	Pressure uint64
	// PressureAdjusted is Pressure compensated for throttling-induced sleep.
	PressureAdjusted uint64
	// WritingRate is the assumed sustainable drain rate, in bytes/sec.
	WritingRate uint64
	// PrevThrottleRate and ThrottleRate are the admission rates (bytes/µs)
	// before and after the adjustment.
	PrevThrottleRate uint64
	ThrottleRate     uint64
	// SleptPrevEpoch is the total time callers were slept during the closed
	// epoch.
	SleptPrevEpoch time.Duration
}

func (i EpochInfo) String() string {
	return redact.StringWithoutMarkers(i)
}

// SafeFormat implements redact.SafeFormatter.
func (i EpochInfo) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("[THROTTLE] epoch %d: pressure %s (adjusted %s) writing %s/s rate %d -> %d B/µs (slept %s)",
		redact.Safe(i.Epoch),
		crhumanize.Bytes(i.Pressure, crhumanize.Compact),
		crhumanize.Bytes(i.PressureAdjusted, crhumanize.Compact),
		crhumanize.Bytes(i.WritingRate, crhumanize.Compact),
		redact.Safe(i.PrevThrottleRate),
		redact.Safe(i.ThrottleRate),
		redact.Safe(i.SleptPrevEpoch))
}

// ThrottleInfo contains the details of a throttled tick: a producer was slept
// before its chunk was admitted into the write buffer.
type ThrottleInfo struct {
	// Bytes is the size of the admitted chunk.
	Bytes uint64
	// Sleep is the induced latency, capped at MaxSleepPerTick.
	Sleep time.Duration
}

func (i ThrottleInfo) String() string {
	return redact.StringWithoutMarkers(i)
}

// SafeFormat implements redact.SafeFormatter.
func (i ThrottleInfo) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("[THROTTLE] admitted %s after %s",
		crhumanize.Bytes(i.Bytes, crhumanize.Compact), redact.Safe(i.Sleep))
}

// FlushInfo contains the details of a flush measurement.
type FlushInfo struct {
	// Bytes is the number of bytes durably written.
	Bytes uint64
	// Duration is the wall time the flush took.
	Duration time.Duration
	// Rate is the throughput sample recorded in the rolling history, in
	// bytes/sec.
	Rate uint64
}

func (i FlushInfo) String() string {
	return redact.StringWithoutMarkers(i)
}

// SafeFormat implements redact.SafeFormatter.
func (i FlushInfo) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("[THROTTLE] flushed %s in %s (%s/s)",
		crhumanize.Bytes(i.Bytes, crhumanize.Compact),
		redact.Safe(i.Duration),
		crhumanize.Bytes(i.Rate, crhumanize.Compact))
}

// EventListener contains a set of functions that will be invoked when various
// significant throttler events occur. All functions are invoked outside the
// throttler's mutex with copied data; they may be slow without stalling other
// producers, but a function that blocks delays the caller it fires on.
type EventListener struct {
	// EpochRecompute is invoked by the tick that observes a wall-clock second
	// boundary, after the controller has retuned the throttle rate.
	EpochRecompute func(EpochInfo)

	// Throttled is invoked after a tick slept its caller.
	Throttled func(ThrottleInfo)

	// Flush is invoked by FlushEnd after the throughput sample has been
	// recorded.
	Flush func(FlushInfo)
}

// EnsureDefaults ensures that all nil hooks are set to no-op functions.
func (l *EventListener) EnsureDefaults() {
	if l.EpochRecompute == nil {
		l.EpochRecompute = func(EpochInfo) {}
	}
	if l.Throttled == nil {
		l.Throttled = func(ThrottleInfo) {}
	}
	if l.Flush == nil {
		l.Flush = func(FlushInfo) {}
	}
}

// MakeLoggingEventListener creates an EventListener that logs all events to
// the given logger.
func MakeLoggingEventListener(logger base.Logger) EventListener {
	if logger == nil {
		logger = base.DefaultLogger{}
	}
	return EventListener{
		EpochRecompute: func(info EpochInfo) {
			logger.Infof("%s", info)
		},
		Throttled: func(info ThrottleInfo) {
			logger.Infof("%s", info)
		},
		Flush: func(info FlushInfo) {
			logger.Infof("%s", info)
		},
	}
}
