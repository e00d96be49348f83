// Copyright 2025 The MaidSafe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package thread provides named, joinable goroutines. A goroutine started
// via Go carries its name as a pprof label and in a process-wide registry,
// so log output and goroutine dumps can attribute work to a component.
package thread

import (
	"bytes"
	"context"
	"runtime"
	"runtime/pprof"
	"strconv"
	"sync"
)

// Unnamed is reported by Current for goroutines not started via Go.
const Unnamed = "<unnamed>"

// names maps goroutine id to the name given to Go.
var names sync.Map

// Joiner tracks a goroutine started by Go.
type Joiner struct {
	name string
	done chan struct{}
}

// Go runs fn on a new goroutine under the given name. The returned Joiner
// must be used to wait for the goroutine; letting it go out of scope
// detaches the goroutine.
func Go(name string, fn func()) *Joiner {
	j := &Joiner{name: name, done: make(chan struct{})}
	go func() {
		defer close(j.done)
		id := goid()
		names.Store(id, name)
		defer names.Delete(id)
		pprof.Do(context.Background(), pprof.Labels("thread", name), func(context.Context) {
			fn()
		})
	}()
	return j
}

// Name returns the name the goroutine was started under.
func (j *Joiner) Name() string { return j.name }

// Join blocks until the goroutine has returned. It is safe to call Join
// multiple times and from multiple goroutines.
func (j *Joiner) Join() { <-j.done }

// Close implements io.Closer by joining the goroutine, so a Joiner can ride
// a regular teardown path.
func (j *Joiner) Close() error {
	j.Join()
	return nil
}

// Current returns the name of the calling goroutine if it was started via
// Go, else Unnamed.
func Current() string {
	if v, ok := names.Load(goid()); ok {
		return v.(string)
	}
	return Unnamed
}

// goid extracts the runtime id of the calling goroutine from its stack
// header ("goroutine 123 [running]:").
func goid() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	s := bytes.TrimPrefix(buf[:n], []byte("goroutine "))
	if i := bytes.IndexByte(s, ' '); i > 0 {
		if id, err := strconv.ParseUint(string(s[:i]), 10, 64); err == nil {
			return id
		}
	}
	return 0
}
