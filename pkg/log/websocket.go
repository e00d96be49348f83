// Copyright 2025 The MaidSafe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package log

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// SessionHeader carries the optional session id on the web-socket
// handshake. Servers may refuse upgrades whose header does not match their
// configured id.
const SessionHeader = "SessionId"

const wsWriteTimeout = 10 * time.Second

// webSocketWriter sends one binary message per record.
type webSocketWriter struct {
	conn *websocket.Conn
}

func newWebSocketWriter(url, sessionID string) (*webSocketWriter, error) {
	var header http.Header
	if sessionID != "" {
		header = http.Header{SessionHeader: []string{sessionID}}
	}
	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("connecting to web-socket log server: %w", err)
	}
	return &webSocketWriter{conn: conn}, nil
}

func (w *webSocketWriter) writeRecord(buf []byte) error {
	if err := w.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout)); err != nil {
		return err
	}
	return w.conn.WriteMessage(websocket.BinaryMessage, buf)
}

func (w *webSocketWriter) Close() error {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = w.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	_ = w.conn.WriteMessage(websocket.CloseMessage, msg)
	return w.conn.Close()
}
