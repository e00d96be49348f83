// Copyright 2026 The MaidSafe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logserver implements the receiving end of the remote log sinks:
// a TCP listener for terminator framed streams and a web-socket endpoint
// for JSON records. Captured records are echoed to an output stream and
// optionally retained in a logstore.
package logserver

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/maidsafe/maidsafe-utilities/pkg/log"
	"github.com/maidsafe/maidsafe-utilities/pkg/logstore"
	"github.com/maidsafe/maidsafe-utilities/pkg/thread"
)

// WSPath is the web-socket endpoint path.
const WSPath = "/logs"

const shutdownTimeout = 5 * time.Second

// Options configures a Server. Leaving an address empty disables that
// listener.
type Options struct {
	// TCPAddr is the listen address for terminator framed TCP streams.
	TCPAddr string
	// WSAddr is the listen address of the HTTP server exposing WSPath.
	WSAddr string
	// SessionID, when set, must match the SessionId handshake header of
	// web-socket clients.
	SessionID string
	// Store, when set, retains every captured record.
	Store *logstore.Store
	// Out receives one line per captured record. Defaults to stdout.
	Out io.Writer
	// Logger is used for the server's own diagnostics.
	Logger log.Logger
}

// Server captures log records from remote processes.
type Server struct {
	opts   Options
	logger log.Logger

	tcpLn  net.Listener
	httpLn net.Listener
	http   *http.Server

	connsMu  sync.Mutex
	conns    map[io.Closer]struct{}
	handlers sync.WaitGroup

	outMu sync.Mutex
}

// New binds the configured listeners. At least one of the two addresses
// must be set.
func New(opts Options) (*Server, error) {
	if opts.TCPAddr == "" && opts.WSAddr == "" {
		return nil, errors.New("no listen address configured")
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Logger == nil {
		opts.Logger = log.NewLogger("logserver")
	}

	s := &Server{
		opts:   opts,
		logger: opts.Logger,
		conns:  make(map[io.Closer]struct{}),
	}

	if opts.TCPAddr != "" {
		ln, err := net.Listen("tcp", opts.TCPAddr)
		if err != nil {
			return nil, fmt.Errorf("binding tcp listener: %w", err)
		}
		s.tcpLn = ln
	}
	if opts.WSAddr != "" {
		ln, err := net.Listen("tcp", opts.WSAddr)
		if err != nil {
			if s.tcpLn != nil {
				_ = s.tcpLn.Close()
			}
			return nil, fmt.Errorf("binding web-socket listener: %w", err)
		}
		s.httpLn = ln

		router := mux.NewRouter()
		router.HandleFunc(WSPath, s.handleWS)
		s.http = &http.Server{Handler: router}
	}
	return s, nil
}

// TCPAddr returns the bound TCP address, or nil.
func (s *Server) TCPAddr() net.Addr {
	if s.tcpLn == nil {
		return nil
	}
	return s.tcpLn.Addr()
}

// WSAddr returns the bound web-socket address, or nil.
func (s *Server) WSAddr() net.Addr {
	if s.httpLn == nil {
		return nil
	}
	return s.httpLn.Addr()
}

// Run serves until ctx is cancelled, then shuts both listeners down and
// returns nil. Any other listener failure is returned as is.
func (s *Server) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	if s.tcpLn != nil {
		g.Go(func() error {
			for {
				conn, err := s.tcpLn.Accept()
				if err != nil {
					if ctx.Err() != nil {
						return nil
					}
					return fmt.Errorf("accepting tcp connection: %w", err)
				}
				remote := conn.RemoteAddr().String()
				untrack := s.track(conn)
				_ = thread.Go("logserver-conn", func() {
					defer untrack()
					s.handleConn(conn, remote)
				})
			}
		})
	}
	if s.http != nil {
		g.Go(func() error {
			if err := s.http.Serve(s.httpLn); !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serving web-socket endpoint: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		if s.tcpLn != nil {
			_ = s.tcpLn.Close()
		}
		if s.http != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = s.http.Shutdown(shutdownCtx)
		}
		s.closeConns()
		return nil
	})

	err := g.Wait()
	// Handlers may still be draining records into the store. They unblock
	// once closeConns has run, so this does not stall.
	s.handlers.Wait()
	return err
}

// track registers an active connection. The returned function removes it
// again and must run when its handler finishes.
func (s *Server) track(c io.Closer) func() {
	s.connsMu.Lock()
	s.conns[c] = struct{}{}
	s.connsMu.Unlock()
	s.handlers.Add(1)
	return func() {
		s.connsMu.Lock()
		delete(s.conns, c)
		s.connsMu.Unlock()
		s.handlers.Done()
	}
}

// closeConns force-closes all active connections. Upgraded web-socket
// connections are hijacked and not covered by http.Server.Shutdown.
func (s *Server) closeConns() {
	s.connsMu.Lock()
	defer s.connsMu.Unlock()
	for c := range s.conns {
		_ = c.Close()
	}
}

func (s *Server) handleConn(conn net.Conn, remote string) {
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	scanner.Split(log.ScanRecords)
	for scanner.Scan() {
		s.capture("tcp/"+remote, scanner.Bytes())
	}
	if err := scanner.Err(); err != nil {
		s.logger.Debugf("tcp stream from %s ended: %v", remote, err)
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	if s.opts.SessionID != "" && r.Header.Get(log.SessionHeader) != s.opts.SessionID {
		s.logger.Warningf("refusing web-socket client %s: invalid session id", r.RemoteAddr)
		http.Error(w, "invalid session id", http.StatusForbidden)
		return
	}

	upgrader := websocket.Upgrader{}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debugf("upgrading %s failed: %v", r.RemoteAddr, err)
		return
	}
	defer conn.Close()
	untrack := s.track(conn)
	defer untrack()

	remote := "websocket/" + r.RemoteAddr
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				s.logger.Debugf("web-socket stream from %s ended: %v", r.RemoteAddr, err)
			}
			return
		}
		s.capture(remote, msg)
	}
}

// capture echoes one received record and retains it when a store is
// configured.
func (s *Server) capture(source string, body []byte) {
	s.outMu.Lock()
	_, _ = s.opts.Out.Write(append(body, '\n'))
	s.outMu.Unlock()

	if s.opts.Store == nil {
		return
	}
	rec := logstore.Record{
		Time:   time.Now(),
		Source: source,
		Body:   append([]byte(nil), body...),
	}
	if _, err := s.opts.Store.Append(rec); err != nil {
		s.logger.Errorf("storing record from %s: %v", source, err)
	}
}
