// Copyright 2025 The MaidSafe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package log

import (
	"bytes"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"

	"github.com/maidsafe/maidsafe-utilities/pkg/thread"
)

// Terminator demarcates the end of one record on the TCP server stream.
// Servers must scan for this sequence; see ScanRecords.
var Terminator = []byte{0xfe, 0xfd, 0xff}

// ScanRecords is a bufio.SplitFunc splitting a stream on Terminator. The
// trailing bytes after the last terminator, if any, are returned as a final
// token at EOF.
func ScanRecords(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if i := bytes.Index(data, Terminator); i >= 0 {
		return i + len(Terminator), data[:i], nil
	}
	if atEOF && len(data) > 0 {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// sinkBuffer is the per-sink queue depth. A full queue drops records
// rather than blocking the logging call site.
const sinkBuffer = 1024

// recordWriter is the synchronous end of a sink.
type recordWriter interface {
	writeRecord(buf []byte) error
	io.Closer
}

// asyncSink renders records on the caller side and writes them out on a
// dedicated goroutine.
type asyncSink struct {
	format formatFunc
	ch     chan []byte
	quit   chan struct{}
	once   sync.Once
	joiner *thread.Joiner
	err    error
}

func newAsyncSink(name string, format formatFunc, w recordWriter) *asyncSink {
	s := &asyncSink{
		format: format,
		ch:     make(chan []byte, sinkBuffer),
		quit:   make(chan struct{}),
	}
	s.joiner = thread.Go("log-"+name, func() {
		defer func() {
			if err := w.Close(); err != nil && s.err == nil {
				s.err = err
			}
		}()
		for {
			select {
			case buf := <-s.ch:
				if err := w.writeRecord(buf); err != nil && s.err == nil {
					s.err = err
				}
			case <-s.quit:
				// Drain whatever is already queued, then stop.
				for {
					select {
					case buf := <-s.ch:
						if err := w.writeRecord(buf); err != nil && s.err == nil {
							s.err = err
						}
					default:
						return
					}
				}
			}
		}
	})
	return s
}

// enqueue hands a record to the writer goroutine. It reports false when the
// queue is full and the record was dropped.
func (s *asyncSink) enqueue(rec Record) bool {
	buf := s.format(rec)
	if buf == nil {
		return true
	}
	select {
	case s.ch <- buf:
		return true
	default:
		return false
	}
}

// Close stops the writer goroutine after draining the queue and closes the
// underlying writer. The first write or close error observed over the
// sink's lifetime is returned.
func (s *asyncSink) Close() error {
	s.once.Do(func() { close(s.quit) })
	s.joiner.Join()
	return s.err
}

// consoleOut is swapped out by tests.
var consoleOut io.Writer = os.Stdout

// consoleWriter serialises whole records onto a shared stream.
type consoleWriter struct {
	mu  sync.Mutex
	out io.Writer
}

func (w *consoleWriter) writeRecord(buf []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, err := w.out.Write(buf)
	return err
}

func (w *consoleWriter) Close() error { return nil }

// logFs is swapped for an in-memory filesystem by tests.
var logFs = afero.NewOsFs()

type fileWriter struct {
	f afero.File
}

func newFileWriter(path string, append bool) (*fileWriter, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := logFs.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}
	}
	flags := os.O_CREATE | os.O_WRONLY
	if append {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err := logFs.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return &fileWriter{f: f}, nil
}

func (w *fileWriter) writeRecord(buf []byte) error {
	if _, err := w.f.Write(buf); err != nil {
		return err
	}
	return w.f.Sync()
}

func (w *fileWriter) Close() error { return w.f.Close() }

// serverWriter streams terminator framed records over TCP.
type serverWriter struct {
	conn net.Conn
}

func newServerWriter(addr string, noDelay bool) (*serverWriter, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("connecting to log server: %w", err)
	}
	if tcp, ok := conn.(*net.TCPConn); ok {
		if err := tcp.SetNoDelay(noDelay); err != nil {
			_ = conn.Close()
			return nil, err
		}
	}
	return &serverWriter{conn: conn}, nil
}

func (w *serverWriter) writeRecord(buf []byte) error {
	if _, err := w.conn.Write(buf); err != nil {
		return err
	}
	_, err := w.conn.Write(Terminator)
	return err
}

func (w *serverWriter) Close() error { return w.conn.Close() }
