// Copyright 2026 The Gravel Authors. All rights reserved. Use of this source
// code is governed by a BSD-style license that can be found in the LICENSE
// file.

// Package gravel provides an adaptive write throttler for the ingestion path
// of an embedded key-value storage engine.
//
// The throttler slows down data ingestion into an in-memory write buffer when
// the incoming byte rate outpaces the rate at which the engine can durably
// flush data to secondary storage. It is a self-tuning feedback controller:
// producers report every chunk of arriving data via Tick (and are slept in
// proportion to the current throttle rate), the flush path brackets each
// durable write with FlushStart/FlushEnd (producing observed throughput
// samples), and once per wall-clock second the controller retunes the
// throttle rate from the ratio of estimated ingestion pressure to the rolling
// average flush throughput, using tiered multiplicative steps.
//
// The throttler is best effort: it does not provide hard real-time bounds,
// does not persist state across restarts, and does not coordinate across
// processes.
package gravel

import (
	"sync"
	"time"

	"github.com/cockroachdb/crlib/crtime"
	"github.com/graveldb/gravel/internal/invariants"
)

// Throttler paces ingestion into a write buffer so that it tracks sustainable
// flush throughput. It is safe for concurrent use: any number of producers
// may call Tick while the flush path calls FlushStart/FlushEnd.
//
// A Throttler is constructed with Open when the engine opens and lives for
// the lifetime of the engine instance. It has no background goroutine and
// nothing to close.
type Throttler struct {
	opts Options

	mu struct {
		sync.Mutex

		// epochLast is the wall-clock second (relative to the monotonic clock
		// origin) of the most recent controller run. Epoch recomputation
		// happens at most once per distinct second.
		epochLast int64
		// pressureCurrent accumulates the bytes observed arriving within the
		// in-progress epoch.
		pressureCurrent uint64
		// pressureAdjusted is the demand estimate carried into the epoch
		// decision: the raw arrival count compensated by the extra bytes that
		// would have arrived had callers not been slept.
		pressureAdjusted uint64
		// sleepAccumulated is the time callers were slept during the
		// in-progress epoch, in microseconds.
		sleepAccumulated uint64
		// throttleRate is the control variable: the current admission rate in
		// bytes per microsecond. The floor rule keeps it >= 1, so dividing by
		// it is always safe.
		throttleRate uint64

		// flushStart is the timestamp of the most recent FlushStart call.
		flushStart crtime.Mono
		// history holds recent observed flush throughputs (bytes/sec).
		history history

		metrics Metrics
	}
}

// Open returns a Throttler configured with the given options.
func Open(opts Options) *Throttler {
	opts.EnsureDefaults()
	t := &Throttler{opts: opts}
	t.mu.throttleRate = opts.RateFloor
	t.mu.epochLast = epochSecond(opts.NowFn())
	t.mu.history.init(opts.HistorySize)
	return t
}

// Tick applies the current throttle to a chunk of bytesArriving bytes about
// to enter the write buffer. It blocks the caller for a duration proportional
// to the chunk size (capped at MaxSleepPerTick) and records the arrival
// toward the next epoch's pressure estimate. A zero bytesArriving is a no-op
// sleep.
//
// If the wall-clock second has advanced since the last controller run, the
// observing Tick also recomputes the throttle rate before accumulating its
// own bytes.
func (t *Throttler) Tick(bytesArriving uint64) {
	epochNow := epochSecond(t.opts.NowFn())

	// The epoch check, the controller recompute, and the pressure update form
	// a single critical section: the controller math must never run against a
	// pressure counter that another producer is concurrently incrementing,
	// and a producer must never observe a half-updated throttle rate.
	//
	// The clock read above happens before the lock, so it can be stale: a
	// descheduled producer may arrive carrying a second that another producer
	// has already closed. Only a strictly newer second runs the controller;
	// a stale or equal read must not rerun it or move epochLast backwards.
	t.mu.Lock()
	var epochInfo EpochInfo
	recomputed := false
	if epochNow > t.mu.epochLast {
		epochInfo = t.recomputeLocked(epochNow)
		recomputed = true
	}
	t.mu.pressureCurrent += bytesArriving
	t.mu.metrics.Ticks++
	t.mu.metrics.BytesAdmitted += bytesArriving
	rate := t.mu.throttleRate
	t.mu.Unlock()

	if recomputed {
		t.opts.EventListener.EpochRecompute(epochInfo)
	}

	// rate >= 1 is guaranteed by the floor rule.
	sleep := time.Duration(bytesArriving/rate) * time.Microsecond
	if sleep > t.opts.MaxSleepPerTick {
		sleep = t.opts.MaxSleepPerTick
	}
	if sleep == 0 {
		return
	}

	// The sleep happens outside the critical section so that one caller's
	// induced delay never serializes other producers' ability to enqueue
	// their own bytes or trigger their own epoch check.
	t.opts.SleepFn(sleep)
	if t.opts.SleepLatency != nil {
		t.opts.SleepLatency.Observe(sleep.Seconds())
	}

	t.mu.Lock()
	t.mu.sleepAccumulated += uint64(sleep / time.Microsecond)
	t.mu.metrics.ThrottledTicks++
	t.mu.metrics.TotalSleep += sleep
	t.mu.Unlock()

	t.opts.EventListener.Throttled(ThrottleInfo{Bytes: bytesArriving, Sleep: sleep})
}

// recomputeLocked closes the epoch that just ended and retunes the throttle
// rate from the ratio of adjusted ingestion pressure to the observed writing
// rate. Large mismatches are corrected aggressively, near-equilibrium ones
// gently, producing a damped control signal.
func (t *Throttler) recomputeLocked(epochNow int64) EpochInfo {
	pressure := t.mu.pressureCurrent
	sleptUS := t.mu.sleepAccumulated
	prevRate := t.mu.throttleRate

	// Compensate the raw arrival count by the bytes that would have arrived
	// had callers not been slept, so the controller reacts to true demand
	// rather than throttled demand.
	t.mu.pressureAdjusted = pressure + prevRate*sleptUS
	t.mu.pressureCurrent = 0
	t.mu.sleepAccumulated = 0
	t.mu.epochLast = epochNow

	writingRate := t.writingRateLocked()
	ratio := float64(t.mu.pressureAdjusted) / float64(writingRate)
	if t.mu.pressureAdjusted > writingRate {
		// Ingestion is outrunning the drain capacity; back off.
		t.mu.throttleRate = uint64(float64(t.mu.throttleRate) * decreaseFactor(ratio))
	} else {
		// Draining faster than bytes arrive; admit more.
		t.mu.throttleRate = uint64(float64(t.mu.throttleRate) * increaseFactor(ratio))
	}
	// Floor rule: never let the control variable decay to a value that would
	// stall ingestion indefinitely.
	if t.mu.throttleRate <= t.opts.RateFloor {
		t.mu.throttleRate++
	}
	if invariants.Enabled && t.mu.throttleRate == 0 {
		panic("gravel: throttle rate reached zero")
	}
	t.mu.metrics.Epochs++

	return EpochInfo{
		Epoch:            epochNow,
		Pressure:         pressure,
		PressureAdjusted: t.mu.pressureAdjusted,
		WritingRate:      writingRate,
		PrevThrottleRate: prevRate,
		ThrottleRate:     t.mu.throttleRate,
		SleptPrevEpoch:   time.Duration(sleptUS) * time.Microsecond,
	}
}

// FlushStart marks the beginning of a durable write to secondary storage.
// Each FlushStart must be followed by a FlushEnd before the next FlushStart.
func (t *Throttler) FlushStart() {
	now := t.opts.NowFn()
	t.mu.Lock()
	t.mu.flushStart = now
	t.mu.Unlock()
}

// FlushEnd marks the end of a durable write and converts the elapsed wall
// time and bytes written into an observed throughput sample, retained in the
// bounded rolling history. If the flush started and ended within the same
// millisecond, the byte count itself is recorded as an instantaneous burst.
func (t *Throttler) FlushEnd(bytesWritten uint64) {
	now := t.opts.NowFn()

	t.mu.Lock()
	startMS := int64(time.Duration(t.mu.flushStart) / time.Millisecond)
	endMS := int64(time.Duration(now) / time.Millisecond)
	rate := bytesWritten
	if startMS != endMS {
		elapsed := float64(endMS-startMS) / 1000
		rate = uint64(float64(bytesWritten) / elapsed)
	}
	t.mu.history.add(rate)
	dur := now.Sub(t.mu.flushStart)
	t.mu.Unlock()

	t.opts.EventListener.Flush(FlushInfo{Bytes: bytesWritten, Duration: dur, Rate: rate})
}

// WritingRate returns the arithmetic mean of the recorded flush throughput
// samples in bytes per second. With no samples recorded it returns
// DefaultWritingRate; a configured nonzero RateCeiling caps the computed
// mean.
func (t *Throttler) WritingRate() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.writingRateLocked()
}

func (t *Throttler) writingRateLocked() uint64 {
	mean, ok := t.mu.history.mean()
	if !ok {
		return t.opts.DefaultWritingRate
	}
	if t.opts.RateCeiling > 0 && t.opts.RateCeiling < mean {
		// The configured cap always wins as an upper bound on the assumed
		// sustainable drain rate.
		mean = t.opts.RateCeiling
	}
	return max(mean, 1)
}

// ThrottleRate returns the current admission rate in bytes per microsecond.
func (t *Throttler) ThrottleRate() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.mu.throttleRate
}

// Metrics returns a snapshot of the throttler's cumulative counters and
// current control state.
func (t *Throttler) Metrics() Metrics {
	t.mu.Lock()
	defer t.mu.Unlock()
	m := t.mu.metrics
	m.ThrottleRate = t.mu.throttleRate
	m.WritingRate = t.writingRateLocked()
	m.FlushSamples = t.mu.history.length()
	return m
}

func epochSecond(now crtime.Mono) int64 {
	return int64(time.Duration(now) / time.Second)
}
