// Copyright 2026 The Gravel Authors. All rights reserved. Use of this source
// code is governed by a BSD-style license that can be found in the LICENSE
// file.

package gravel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHistoryEmpty(t *testing.T) {
	var h history
	h.init(10)
	require.Equal(t, 0, h.length())
	_, ok := h.mean()
	require.False(t, ok)
	require.Empty(t, h.values())
}

func TestHistoryBound(t *testing.T) {
	var h history
	h.init(10)
	for i := 1; i <= 25; i++ {
		h.add(uint64(i))
		require.LessOrEqual(t, h.length(), 10)
	}
	require.Equal(t, 10, h.length())
	// Only the 10 most recent samples survive, oldest first.
	require.Equal(t, []uint64{16, 17, 18, 19, 20, 21, 22, 23, 24, 25}, h.values())
}

func TestHistoryMean(t *testing.T) {
	var h history
	h.init(4)
	h.add(100)
	mean, ok := h.mean()
	require.True(t, ok)
	require.Equal(t, uint64(100), mean)

	h.add(200)
	h.add(300)
	mean, _ = h.mean()
	require.Equal(t, uint64(200), mean)

	// Fill to capacity and wrap: {200, 300, 400, 500}.
	h.add(400)
	h.add(500)
	mean, _ = h.mean()
	require.Equal(t, uint64(350), mean)
	require.Equal(t, []uint64{200, 300, 400, 500}, h.values())
}
