// Copyright 2026 The MaidSafe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logtest provides test helpers for the log package.
package logtest

import (
	"testing"

	"github.com/maidsafe/maidsafe-utilities/pkg/log"
)

// PanicOnError enables panic mode for the duration of one test, so
// conditions that production merely logs through log.OrPanic become hard
// failures.
func PanicOnError(tb testing.TB) {
	tb.Helper()
	prev := log.PanicsOnError()
	log.SetPanicOnError(true)
	tb.Cleanup(func() { log.SetPanicOnError(prev) })
}
