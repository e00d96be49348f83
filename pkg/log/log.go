// Copyright 2025 The MaidSafe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package log

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

// ErrAlreadyInitialised is returned by the Init functions after the first
// successful initialisation.
var ErrAlreadyInitialised = errors.New("logging already initialised")

// DefaultLevel applies to loggers without a level directive pin.
const DefaultLevel = logrus.WarnLevel

// EnvDirectives is the environment variable holding level directives.
const EnvDirectives = "SAFE_LOG"

// Logger is the logging interface handed out to the rest of the module.
// It is the standard logrus surface; records flow to the sinks configured
// at initialisation.
type Logger interface {
	Tracef(format string, args ...any)
	Trace(args ...any)
	Debugf(format string, args ...any)
	Debug(args ...any)
	Infof(format string, args ...any)
	Info(args ...any)
	Warningf(format string, args ...any)
	Warning(args ...any)
	Errorf(format string, args ...any)
	Error(args ...any)
	WithField(key string, value any) *logrus.Entry
	WithFields(fields logrus.Fields) *logrus.Entry
}

var (
	global atomic.Pointer[subsystem]

	registryMu sync.Mutex
	registry   = map[string]Logger{}
)

// NewLogger returns the logger registered under name, creating it if
// needed. Loggers may be created before initialisation; they start flowing
// once one of the Init functions has run.
func NewLogger(name string) Logger {
	registryMu.Lock()
	defer registryMu.Unlock()
	if l, ok := registry[name]; ok {
		return l
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetFormatter(discardFormatter{})
	// Level filtering happens in the hook, against the directives of the
	// current subsystem.
	l.SetLevel(logrus.TraceLevel)
	l.SetReportCaller(true)
	l.AddHook(&dispatchHook{module: name})
	wrapped := &logger{Logger: l}
	registry[name] = wrapped
	return wrapped
}

// logger implements Logger by promotion from the embedded logrus logger.
type logger struct {
	*logrus.Logger
}

// discardFormatter suppresses the logrus-native output path; rendering is
// done per sink.
type discardFormatter struct{}

func (discardFormatter) Format(*logrus.Entry) ([]byte, error) { return nil, nil }

// subsystem holds the configured sinks and level directives.
type subsystem struct {
	directives Directives
	sinks      []*asyncSink
	metrics    *metrics
}

// dispatchHook forwards entries of one named logger to the subsystem.
type dispatchHook struct {
	module string
}

// Levels implements the logrus.Hook interface.
func (h *dispatchHook) Levels() []logrus.Level { return logrus.AllLevels }

// Fire implements the logrus.Hook interface. It renders the entry into a
// Record and fans it out to every sink. Rendering happens on the calling
// goroutine so the goroutine name is attributed correctly.
func (h *dispatchHook) Fire(entry *logrus.Entry) error {
	s := global.Load()
	if s == nil {
		return nil
	}
	s.dispatch(h.module, entry)
	return nil
}

func (s *subsystem) dispatch(module string, entry *logrus.Entry) {
	if entry.Level > s.directives.LevelFor(module) {
		return
	}
	s.metrics.count(entry.Level)
	rec := newRecord(module, entry)
	for _, sink := range s.sinks {
		if !sink.enqueue(rec) {
			s.metrics.Dropped.Inc()
		}
	}
}

// Close flushes and tears down all sinks. Used by tests and by binaries
// that must not lose trailing records on exit.
func Close() error {
	s := global.Swap(nil)
	if s == nil {
		return nil
	}
	return s.close()
}

func (s *subsystem) close() error {
	var result *multierror.Error
	for _, sink := range s.sinks {
		result = multierror.Append(result, sink.Close())
	}
	return result.ErrorOrNil()
}

// Init initialises the subsystem for console output only.
func Init(showThreadName bool) error {
	return initialise(Config{
		Console: &ConsoleConfig{Enabled: true, ShowThreadName: showThreadName},
	})
}

// InitToFile initialises the subsystem for output to the given file, and
// optionally to the console as well.
func InitToFile(showThreadName bool, path string, alsoConsole bool) error {
	cfg := Config{
		File: &FileConfig{Path: path, ShowThreadName: showThreadName},
	}
	if alsoConsole {
		cfg.Console = &ConsoleConfig{Enabled: true, ShowThreadName: showThreadName}
	}
	return initialise(cfg)
}

// InitToServer initialises the subsystem for output to a TCP log server,
// and optionally to the console as well. Records sent to the server are
// framed with Terminator.
func InitToServer(addr string, showThreadName, alsoConsole bool) error {
	cfg := Config{
		Server: &ServerConfig{Addr: addr, NoDelay: true, ShowThreadName: showThreadName},
	}
	if alsoConsole {
		cfg.Console = &ConsoleConfig{Enabled: true, ShowThreadName: showThreadName}
	}
	return initialise(cfg)
}

// InitToWebSocket initialises the subsystem for output to a web-socket log
// server, and optionally to the console as well. The web-socket leg always
// carries the verbose JSON rendering, as the receiving end is expected to
// filter and present it.
func InitToWebSocket(url string, showThreadNameInConsole, alsoConsole bool) error {
	cfg := Config{
		WebSocket: &WebSocketConfig{URL: url},
	}
	if alsoConsole {
		cfg.Console = &ConsoleConfig{Enabled: true, ShowThreadName: showThreadNameInConsole}
	}
	return initialise(cfg)
}

var initialised atomic.Bool

func initialise(cfg Config) error {
	if !initialised.CompareAndSwap(false, true) {
		return ErrAlreadyInitialised
	}
	fileCfg, err := loadConfigFile()
	if err != nil {
		initialised.Store(false)
		return err
	}
	if fileCfg != nil {
		cfg = cfg.overridden(*fileCfg)
	}
	s, err := newSubsystem(cfg)
	if err != nil {
		initialised.Store(false)
		return err
	}
	global.Store(s)
	return nil
}

// newSubsystem builds sinks for the given configuration. Level directives
// come from the configuration if set, else from the environment.
func newSubsystem(cfg Config) (*subsystem, error) {
	spec := cfg.Directives
	if spec == "" {
		spec = os.Getenv(EnvDirectives)
	}
	dirs, err := ParseDirectives(spec)
	if err != nil {
		return nil, fmt.Errorf("parsing level directives %q: %w", spec, err)
	}

	s := &subsystem{directives: dirs, metrics: newMetrics()}

	if cfg.Console != nil && cfg.Console.Enabled {
		s.sinks = append(s.sinks, newAsyncSink(
			"console",
			textFormat(cfg.Console.ShowThreadName),
			&consoleWriter{out: consoleOut},
		))
	}
	if cfg.File != nil {
		w, err := newFileWriter(cfg.File.Path, cfg.File.Append)
		if err != nil {
			s.closePartial()
			return nil, err
		}
		s.sinks = append(s.sinks, newAsyncSink("file", textFormat(cfg.File.ShowThreadName), w))
	}
	if cfg.Server != nil {
		w, err := newServerWriter(cfg.Server.Addr, cfg.Server.NoDelay)
		if err != nil {
			s.closePartial()
			return nil, err
		}
		s.sinks = append(s.sinks, newAsyncSink("server", textFormat(cfg.Server.ShowThreadName), w))
	}
	if cfg.WebSocket != nil {
		w, err := newWebSocketWriter(cfg.WebSocket.URL, cfg.WebSocket.SessionID)
		if err != nil {
			s.closePartial()
			return nil, err
		}
		s.sinks = append(s.sinks, newAsyncSink("websocket", jsonFormat(), w))
	}
	return s, nil
}

// closePartial tears down sinks built before a later sink failed.
func (s *subsystem) closePartial() {
	for _, sink := range s.sinks {
		_ = sink.Close()
	}
	s.sinks = nil
}
