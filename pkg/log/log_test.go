// Copyright 2025 The MaidSafe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package log

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/afero"

	"github.com/maidsafe/maidsafe-utilities/pkg/spinlock"
	"github.com/maidsafe/maidsafe-utilities/pkg/thread"
)

// The tests below share the package level subsystem pointer and so must not
// run in parallel with each other.

// syncBuffer is a bytes.Buffer safe for cross-goroutine use.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func installSubsystem(t *testing.T, cfg Config) {
	t.Helper()
	s, err := newSubsystem(cfg)
	if err != nil {
		t.Fatal(err)
	}
	prev := global.Swap(s)
	t.Cleanup(func() {
		global.Store(prev)
		if err := s.close(); err != nil {
			t.Errorf("closing subsystem: %v", err)
		}
	})
}

func TestConsoleSink(t *testing.T) {
	out := &syncBuffer{}
	prevOut := consoleOut
	consoleOut = out
	t.Cleanup(func() { consoleOut = prevOut })

	installSubsystem(t, Config{
		Console: &ConsoleConfig{Enabled: true, ShowThreadName: true},
	})

	logger := NewLogger("console-test")
	logger.Info("should be filtered by the default level")
	logger.Warning("visible warning")
	thread.Go("loud-worker", func() { logger.Error("visible error") }).Join()

	err := spinlock.Wait(time.Second*5, func() bool {
		s := out.String()
		return strings.Contains(s, "visible warning") && strings.Contains(s, "visible error")
	})
	if err != nil {
		t.Fatalf("records never reached the console: %q", out.String())
	}

	s := out.String()
	if strings.Contains(s, "should be filtered") {
		t.Errorf("info record passed the default warn level: %q", s)
	}
	if !strings.Contains(s, thread.Unnamed) {
		t.Errorf("unnamed goroutine marker missing: %q", s)
	}
	if !strings.Contains(s, "loud-worker") {
		t.Errorf("goroutine name missing: %q", s)
	}
	if !strings.Contains(s, "[console-test log_test.go:") {
		t.Errorf("module and caller missing: %q", s)
	}
}

func TestDirectivesSelectLoggers(t *testing.T) {
	out := &syncBuffer{}
	prevOut := consoleOut
	consoleOut = out
	t.Cleanup(func() { consoleOut = prevOut })

	installSubsystem(t, Config{
		Directives: "chatty=debug",
		Console:    &ConsoleConfig{Enabled: true},
	})

	NewLogger("chatty").Debug("debug from pinned logger")
	NewLogger("quiet").Debug("debug from default logger")
	NewLogger("quiet").Warning("warn from default logger")

	err := spinlock.Wait(time.Second*5, func() bool {
		return strings.Contains(out.String(), "warn from default logger")
	})
	if err != nil {
		t.Fatal("trailing record never arrived")
	}

	s := out.String()
	if !strings.Contains(s, "debug from pinned logger") {
		t.Errorf("pinned logger suppressed: %q", s)
	}
	if strings.Contains(s, "debug from default logger") {
		t.Errorf("default logger leaked debug: %q", s)
	}
}

func TestFileSink(t *testing.T) {
	prevFs := logFs
	logFs = afero.NewMemMapFs()
	t.Cleanup(func() { logFs = prevFs })

	const path = "logs/node.log"
	if err := afero.WriteFile(logFs, path, []byte("stale content\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	func() {
		s, err := newSubsystem(Config{File: &FileConfig{Path: path}})
		if err != nil {
			t.Fatal(err)
		}
		prev := global.Swap(s)
		defer global.Store(prev)

		NewLogger("file-test").Errorf("SECRET-MESSAGE %d", 42)
		if err := s.close(); err != nil {
			t.Fatal(err)
		}
	}()

	content, err := afero.ReadFile(logFs, path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(content), "SECRET-MESSAGE 42") {
		t.Fatalf("record missing from log file: %q", content)
	}
	// Append was off, so the stale content must be gone.
	if strings.Contains(string(content), "stale content") {
		t.Fatalf("file was not truncated: %q", content)
	}
}

func TestServerSink(t *testing.T) {
	const msgCount = 3

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	frames := make(chan []string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		scanner := bufio.NewScanner(conn)
		scanner.Split(ScanRecords)
		var got []string
		for len(got) < msgCount && scanner.Scan() {
			got = append(got, scanner.Text())
		}
		frames <- got
	}()

	installSubsystem(t, Config{
		Server: &ServerConfig{Addr: ln.Addr().String(), NoDelay: true, ShowThreadName: true},
	})

	logger := NewLogger("server-test")
	logger.Info("should not be found by default log level")
	logger.Warning("This is message 0")
	logger.Trace("should not be found by default log level")
	logger.Warning("This is message 1")

	// Let the first records travel separately from the last one, so framing
	// across multiple reads is exercised.
	time.Sleep(300 * time.Millisecond)

	logger.Debug("should not be found by default log level")
	logger.Error("This is message 2")

	select {
	case got := <-frames:
		if len(got) != msgCount {
			t.Fatalf("got %d records, want %d: %q", len(got), msgCount, got)
		}
		for i, frame := range got {
			if want := fmt.Sprintf("This is message %d", i); !strings.Contains(frame, want) {
				t.Errorf("frame %d = %q, want substring %q", i, frame, want)
			}
		}
	case <-time.After(5 * time.Second):
		t.Fatal("log server did not receive the records in time")
	}
}

func TestWebSocketSink(t *testing.T) {
	const sessionID = "magic-value"

	messages := make(chan []byte, 16)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(SessionHeader) != sessionID {
			http.Error(w, "invalid session id", http.StatusForbidden)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			messages <- msg
		}
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	// A mismatched session id must refuse the sink outright.
	if _, err := newSubsystem(Config{
		WebSocket: &WebSocketConfig{URL: wsURL, SessionID: "wrong"},
	}); err == nil {
		t.Fatal("subsystem built despite refused handshake")
	}

	installSubsystem(t, Config{
		WebSocket: &WebSocketConfig{URL: wsURL, SessionID: sessionID},
	})

	logger := NewLogger("ws-test")
	logger.Warning("This is message 0")
	logger.Error("This is message 1")

	for i := 0; i < 2; i++ {
		select {
		case msg := <-messages:
			var rec Record
			if err := json.Unmarshal(msg, &rec); err != nil {
				t.Fatalf("record %d is not JSON: %v: %q", i, err, msg)
			}
			if rec.ID == "" || rec.Module != "ws-test" {
				t.Errorf("record %d incomplete: %+v", i, rec)
			}
			if want := fmt.Sprintf("This is message %d", i); rec.Message != want {
				t.Errorf("record %d message = %q, want %q", i, rec.Message, want)
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("web-socket record %d never arrived", i)
		}
	}
}

func TestInitOnce(t *testing.T) {
	out := &syncBuffer{}
	prevOut := consoleOut
	consoleOut = out
	t.Cleanup(func() { consoleOut = prevOut })

	if err := Init(false); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := Close(); err != nil {
			t.Errorf("closing: %v", err)
		}
	})

	if err := Init(false); !errors.Is(err, ErrAlreadyInitialised) {
		t.Fatalf("second init: got %v, want ErrAlreadyInitialised", err)
	}
	if err := InitToFile(false, "unused.log", false); !errors.Is(err, ErrAlreadyInitialised) {
		t.Fatalf("init to file after init: got %v, want ErrAlreadyInitialised", err)
	}

	NewLogger("init-test").Warning("post-init record")
	if err := spinlock.Wait(time.Second*5, func() bool {
		return strings.Contains(out.String(), "post-init record")
	}); err != nil {
		t.Fatal("record never reached the console")
	}
}

func TestOrPanic(t *testing.T) {
	out := &syncBuffer{}
	prevOut := consoleOut
	consoleOut = out
	t.Cleanup(func() { consoleOut = prevOut })

	installSubsystem(t, Config{
		Console: &ConsoleConfig{Enabled: true},
	})
	logger := NewLogger("orpanic-test")

	OrPanic(logger, "bad value: %d", 1746)
	if err := spinlock.Wait(time.Second*5, func() bool {
		return strings.Contains(out.String(), "bad value: 1746")
	}); err != nil {
		t.Fatal("error record never arrived")
	}

	SetPanicOnError(true)
	t.Cleanup(func() { SetPanicOnError(false) })
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("OrPanic did not panic in panic mode")
		} else if s, ok := r.(string); !ok || !strings.Contains(s, "1746") {
			t.Fatalf("unexpected panic payload: %v", r)
		}
	}()
	OrPanic(logger, "bad value: %d", 1746)
}
