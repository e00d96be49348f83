// Copyright 2025 The MaidSafe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package log

import (
	"fmt"

	"go.uber.org/atomic"
)

var panicOnError = atomic.NewBool(false)

// SetPanicOnError toggles the behavior of OrPanic. Tests enable it so
// conditions that production merely logs become hard failures.
func SetPanicOnError(v bool) { panicOnError.Store(v) }

// PanicsOnError reports whether panic mode is enabled.
func PanicsOnError() bool { return panicOnError.Load() }

// OrPanic panics with the formatted message when panic mode is enabled,
// and logs it at error level otherwise.
func OrPanic(l Logger, format string, args ...any) {
	if panicOnError.Load() {
		panic(fmt.Sprintf(format, args...))
	}
	l.Errorf(format, args...)
}
