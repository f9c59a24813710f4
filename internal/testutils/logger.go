// Copyright 2026 The Gravel Authors. All rights reserved. Use of this source
// code is governed by a BSD-style license that can be found in the LICENSE
// file.

// Package testutils provides test-only helpers for the gravel packages.
package testutils

import "testing"

// Logger routes throttler log output (for example, the lines produced by a
// logging event listener) into the test's own log, keyed to the right test
// case under t.Run.
type Logger struct {
	T testing.TB
}

// Infof implements base.Logger.
func (l Logger) Infof(format string, args ...interface{}) {
	l.T.Helper()
	l.T.Logf(format, args...)
}

// Errorf implements base.Logger. Throttler events are diagnostics, not test
// failures, so errors are logged rather than failing the test.
func (l Logger) Errorf(format string, args ...interface{}) {
	l.T.Helper()
	l.T.Logf(format, args...)
}

// Fatalf implements base.Logger.
func (l Logger) Fatalf(format string, args ...interface{}) {
	l.T.Helper()
	l.T.Fatalf(format, args...)
}
