// Copyright 2025 The MaidSafe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package log implements the asynchronous logging subsystem. Records are
// rendered on the calling goroutine and handed to one or more sinks, each
// of which owns a background writer goroutine, so emitting a record never
// waits on I/O.
//
// A rendered record looks like:
//
//	WARN 19:33:49.245434 <unnamed> [mymod main.go:10] Warning level message.
//	^          ^            ^         ^       ^               ^
//	|      timestamp        |     logger name |            message
//	|                       |                 |
//	|                 goroutine name    file and line
//	|
//	level (ERROR, WARN, INFO, DEBUG, or TRACE)
//
// The goroutine name is the name given to thread.Go, or "<unnamed>"; its
// column is only present when the show-thread-name option is on.
//
// The subsystem is initialised once per process with Init, InitToFile,
// InitToServer or InitToWebSocket. If a file called log.toml exists next to
// the executable or in the working directory it takes precedence over the
// programmatic choice; see Config for the recognised keys.
//
// Verbosity is controlled by level directives, read from the SAFE_LOG
// environment variable. "mod0,mod1=debug,mod2" pins mod0 and mod1 to debug
// (bare names adopt the level of the next explicit pin) and mod2 to the
// default level. A bare level token such as "trace" changes the default
// level itself.
package log
