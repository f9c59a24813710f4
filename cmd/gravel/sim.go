// Copyright 2026 The Gravel Authors. All rights reserved. Use of this source
// code is governed by a BSD-style license that can be found in the LICENSE
// file.

package main

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	hdrhistogram "github.com/HdrHistogram/hdrhistogram-go"
	"github.com/cockroachdb/crlib/crhumanize"
	"github.com/graveldb/gravel"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
)

// The sim command runs a synthetic workload against a real Throttler: a set
// of producer goroutines ticking random-size chunks into a simulated write
// buffer, and a flusher goroutine draining it at a configurable disk rate.
// It reports per-tick latency percentiles and plots of the throttle rate and
// admitted throughput over time.

var (
	simProducers int
	simDuration  time.Duration
	simDiskRate  uint64
	simChunk     uint64
	simCeiling   uint64
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "run a synthetic ingest/flush workload against the throttler",
	RunE:  runSim,
}

func init() {
	simCmd.Flags().IntVarP(
		&simProducers, "producers", "c", 4, "number of concurrent producers")
	simCmd.Flags().DurationVarP(
		&simDuration, "duration", "d", 10*time.Second, "the duration to run")
	simCmd.Flags().Uint64Var(
		&simDiskRate, "disk-rate", 32<<20, "simulated flush throughput in bytes/sec")
	simCmd.Flags().Uint64Var(
		&simChunk, "chunk", 64<<10, "mean chunk size in bytes")
	simCmd.Flags().Uint64Var(
		&simCeiling, "ceiling", 0, "configured rate ceiling in bytes/sec (0 = unlimited)")
}

const (
	flushInterval  = 100 * time.Millisecond
	sampleInterval = 250 * time.Millisecond
)

func runSim(cmd *cobra.Command, args []string) error {
	t := gravel.Open(gravel.Options{RateCeiling: simCeiling})

	var histMu sync.Mutex
	hist := hdrhistogram.New(1, time.Minute.Nanoseconds(), 3)

	// buffered tracks bytes admitted into the simulated write buffer but not
	// yet flushed.
	var buffered atomic.Int64
	stop := make(chan struct{})
	var wg sync.WaitGroup

	for i := 0; i < simProducers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rng := rand.New(rand.NewPCG(uint64(i), 0))
			for {
				select {
				case <-stop:
					return
				default:
				}
				chunk := simChunk/2 + rng.Uint64N(simChunk)
				start := time.Now()
				t.Tick(chunk)
				elapsed := time.Since(start)
				buffered.Add(int64(chunk))
				histMu.Lock()
				_ = hist.RecordValue(elapsed.Nanoseconds())
				histMu.Unlock()
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(flushInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				n := buffered.Load()
				if n == 0 {
					continue
				}
				t.FlushStart()
				// Simulate the disk: writing n bytes takes n/diskRate seconds.
				time.Sleep(time.Duration(float64(n) / float64(simDiskRate) * float64(time.Second)))
				t.FlushEnd(uint64(n))
				buffered.Add(-n)
			}
		}
	}()

	var rateSamples, admittedSamples []float64
	sampleTicker := time.NewTicker(sampleInterval)
	defer sampleTicker.Stop()
	deadline := time.After(simDuration)
	var prevAdmitted uint64
loop:
	for {
		select {
		case <-deadline:
			break loop
		case <-sampleTicker.C:
			m := t.Metrics()
			rateSamples = append(rateSamples, float64(m.ThrottleRate))
			perSec := float64(m.BytesAdmitted-prevAdmitted) / sampleInterval.Seconds()
			admittedSamples = append(admittedSamples, perSec)
			prevAdmitted = m.BytesAdmitted
		}
	}
	close(stop)
	wg.Wait()

	m := t.Metrics()
	fmt.Printf("%s\n", m)
	fmt.Printf("tick latency: p50=%s p95=%s p99=%s max=%s\n",
		time.Duration(hist.ValueAtQuantile(50)),
		time.Duration(hist.ValueAtQuantile(95)),
		time.Duration(hist.ValueAtQuantile(99)),
		time.Duration(hist.Max()))
	fmt.Printf("\nthrottle rate (B/µs):\n%s\n",
		asciigraph.Plot(rateSamples, asciigraph.Height(10), asciigraph.Width(80)))
	fmt.Printf("\nadmitted bytes/sec (disk rate %s/s):\n%s\n",
		crhumanize.Bytes(simDiskRate, crhumanize.Compact),
		asciigraph.Plot(admittedSamples, asciigraph.Height(10), asciigraph.Width(80)))
	return nil
}
