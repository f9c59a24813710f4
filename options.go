// Copyright 2026 The Gravel Authors. All rights reserved. Use of this source
// code is governed by a BSD-style license that can be found in the LICENSE
// file.

package gravel

import (
	"time"

	"github.com/cockroachdb/crlib/crtime"
	"github.com/cockroachdb/errors"
	"github.com/graveldb/gravel/internal/base"
	"github.com/prometheus/client_golang/prometheus"
)

// Default tuning constants. Tests override the corresponding Options fields
// for determinism; production callers normally leave them alone.
const (
	// DefaultHistorySize is the capacity of the rolling window of flush
	// throughput samples.
	DefaultHistorySize = 10

	// DefaultWritingRate (1 MiB/s) is the flush throughput assumed while no
	// flush has been measured yet.
	DefaultWritingRate = 1 << 20

	// DefaultMaxSleepPerTick bounds the worst-case latency a single Tick can
	// add, regardless of how aggressive the throttle has become.
	DefaultMaxSleepPerTick = 50 * time.Millisecond

	// DefaultRateFloor is the threshold of the floor rule: whenever an epoch
	// adjustment drives the throttle rate to at most this value, the rate is
	// bumped by one, guaranteeing forward progress. It doubles as the initial
	// throttle rate.
	DefaultRateFloor = 5
)

// Options configures a Throttler.
type Options struct {
	// RateCeiling caps the writing rate assumed by the controller, in
	// bytes/sec. 0 means unlimited. Setting a ceiling below the observed
	// flush throughput makes the throttler more conservative: the controller
	// tunes ingestion against the ceiling rather than the measured rate.
	RateCeiling uint64

	// HistorySize overrides DefaultHistorySize if positive.
	HistorySize int

	// DefaultWritingRate overrides the package-level DefaultWritingRate if
	// nonzero.
	DefaultWritingRate uint64

	// MaxSleepPerTick overrides DefaultMaxSleepPerTick if nonzero.
	MaxSleepPerTick time.Duration

	// RateFloor overrides DefaultRateFloor if nonzero.
	RateFloor uint64

	// NowFn returns the current time. It is exposed so tests can simulate
	// epoch advancement deterministically; defaults to crtime.NowMono.
	NowFn func() crtime.Mono

	// SleepFn blocks the calling goroutine for the given duration; defaults
	// to time.Sleep.
	SleepFn func(time.Duration)

	// EventListener receives diagnostic events (epoch recomputations, induced
	// sleeps, flush measurements). Hooks are invoked outside the throttler's
	// mutex.
	EventListener *EventListener

	// SleepLatency, if set, records the induced sleep of every throttled
	// Tick, in seconds. The histogram is only observed into, never
	// registered; registration is up to the caller.
	SleepLatency prometheus.Histogram

	// Logger defaults to base.DefaultLogger. The throttler itself has no
	// error paths; the logger only backs logging event listeners.
	Logger base.Logger
}

// EnsureDefaults ensures that the default values for all options are set if a
// valid value was not already specified.
func (o *Options) EnsureDefaults() {
	if o.HistorySize <= 0 {
		o.HistorySize = DefaultHistorySize
	}
	if o.DefaultWritingRate == 0 {
		o.DefaultWritingRate = DefaultWritingRate
	}
	if o.MaxSleepPerTick == 0 {
		o.MaxSleepPerTick = DefaultMaxSleepPerTick
	}
	if o.RateFloor == 0 {
		o.RateFloor = DefaultRateFloor
	}
	if o.NowFn == nil {
		o.NowFn = crtime.NowMono
	}
	if o.SleepFn == nil {
		o.SleepFn = time.Sleep
	}
	if o.Logger == nil {
		o.Logger = base.DefaultLogger{}
	}
	if o.EventListener == nil {
		o.EventListener = &EventListener{}
	}
	o.EventListener.EnsureDefaults()
}

// Validate verifies that the options are sensible. EnsureDefaults treats zero
// values as "use the default", so Validate only rejects overrides that would
// break the controller's safety properties.
func (o *Options) Validate() error {
	if o.HistorySize < 0 {
		return errors.Errorf("gravel: HistorySize %d is negative", o.HistorySize)
	}
	if o.MaxSleepPerTick < 0 {
		return errors.Errorf("gravel: MaxSleepPerTick %s is negative", o.MaxSleepPerTick)
	}
	return nil
}
