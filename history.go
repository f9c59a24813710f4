// Copyright 2026 The Gravel Authors. All rights reserved. Use of this source
// code is governed by a BSD-style license that can be found in the LICENSE
// file.

package gravel

// history is a bounded FIFO of observed flush throughput samples, in
// bytes/sec. Once at capacity, adding a sample evicts the oldest one. The
// backing buffer is allocated once at init; the hot path does not allocate.
type history struct {
	// samples is a ring buffer; the oldest retained sample is at
	// samples[head], the newest at samples[(head+n-1) % len(samples)].
	samples []uint64
	head    int
	n       int
}

func (h *history) init(capacity int) {
	h.samples = make([]uint64, capacity)
	h.head = 0
	h.n = 0
}

// add records a sample, evicting the oldest one if the history is at
// capacity.
func (h *history) add(sample uint64) {
	if h.n < len(h.samples) {
		h.samples[(h.head+h.n)%len(h.samples)] = sample
		h.n++
		return
	}
	h.samples[h.head] = sample
	h.head = (h.head + 1) % len(h.samples)
}

// mean returns the arithmetic mean of the retained samples. ok is false if
// the history is empty.
func (h *history) mean() (mean uint64, ok bool) {
	if h.n == 0 {
		return 0, false
	}
	var sum uint64
	for i := 0; i < h.n; i++ {
		sum += h.samples[(h.head+i)%len(h.samples)]
	}
	return sum / uint64(h.n), true
}

func (h *history) length() int {
	return h.n
}

// values returns the retained samples in arrival order, oldest first.
func (h *history) values() []uint64 {
	out := make([]uint64, h.n)
	for i := range out {
		out[i] = h.samples[(h.head+i)%len(h.samples)]
	}
	return out
}
