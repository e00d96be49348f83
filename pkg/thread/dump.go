// Copyright 2025 The MaidSafe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package thread

import (
	"io"
	"runtime"
	"runtime/pprof"
)

// Dump writes a dump of all current goroutines, including their pprof
// labels, to out.
func Dump(out io.Writer) {
	_ = pprof.Lookup("goroutine").WriteTo(out, 1)
}

// Stack returns a formatted stack trace of all current goroutines.
func Stack() string {
	buf := make([]byte, 1<<20)
	n := runtime.Stack(buf, true)
	return string(buf[:n])
}
