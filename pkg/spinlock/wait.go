// Copyright 2025 The MaidSafe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package spinlock provides a blocking wait for an arbitrary condition,
// intended for tests that need to wait out asynchronous side effects.
package spinlock

import (
	"errors"
	"time"
)

// ErrTimedOut is returned by Wait when the condition check times out.
var ErrTimedOut = errors.New("timed out waiting for condition")

// Wait polls the condition function until it returns true or the given
// duration elapses, in which case ErrTimedOut is returned.
func Wait(timeoutDur time.Duration, cond func() bool) error {
	deadline := time.Now().Add(timeoutDur)
	for !cond() {
		if time.Now().After(deadline) {
			return ErrTimedOut
		}
		time.Sleep(time.Millisecond)
	}
	return nil
}
