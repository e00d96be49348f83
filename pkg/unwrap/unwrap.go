// Copyright 2026 The MaidSafe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package unwrap provides decorated must-succeed helpers. Unlike a bare
// panic(err), the panic message carries the caller's file and line, so a
// failure in initialisation code or a test points at the call site rather
// than at this package.
package unwrap

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
)

// Must returns v when err is nil and panics with a decorated message
// otherwise. Intended for initialisation paths and tests where an error
// is a programming bug rather than a runtime condition.
func Must[T any](v T, err error) T {
	if err != nil {
		panic(decorate(err))
	}
	return v
}

// Check panics with a decorated message when err is non-nil.
func Check(err error) {
	if err != nil {
		panic(decorate(err))
	}
}

// NotNil returns v when it is non-nil and panics with a decorated
// message otherwise.
func NotNil[T any](v *T) *T {
	if v == nil {
		panic(decorate(errors.New("unexpected nil value")))
	}
	return v
}

// decorate must be called directly by the exported helpers so the caller
// sits a fixed two frames up.
func decorate(err error) string {
	msg := fmt.Sprintf("unwrap failed: %v", err)
	if _, file, line, ok := runtime.Caller(2); ok {
		return fmt.Sprintf("%s [%s:%d]", msg, filepath.Base(file), line)
	}
	return msg
}
