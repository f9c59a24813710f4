// Copyright 2026 The Gravel Authors. All rights reserved. Use of this source
// code is governed by a BSD-style license that can be found in the LICENSE
// file.

//go:build invariants || race

// Package invariants gates extra runtime assertions behind the "invariants"
// and "race" build tags.
package invariants

// Enabled is true if we were built with the "invariants" or "race" build
// tags.
const Enabled = true
