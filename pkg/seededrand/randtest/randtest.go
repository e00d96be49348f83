// Copyright 2026 The MaidSafe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package randtest provides test helpers for the seededrand package.
package randtest

import (
	"strings"
	"testing"

	"github.com/maidsafe/maidsafe-utilities/pkg/seededrand"
)

// New returns a generator seeded from the process seed and registers a
// cleanup that prints the seed when the test fails, so the run can be
// reproduced by pinning it with seededrand.FromSeed.
func New(tb testing.TB) *seededrand.Rand {
	tb.Helper()
	r := seededrand.New()
	tb.Cleanup(func() {
		if tb.Failed() {
			msg := r.String()
			border := strings.Repeat("=", len(msg))
			tb.Logf("\n%s\n%s\n%s\n", border, msg, border)
		}
	})
	return r
}
