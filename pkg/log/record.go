// Copyright 2025 The MaidSafe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package log

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/maidsafe/maidsafe-utilities/pkg/thread"
)

// Record is one rendered log statement. The field set matches the JSON
// carried on the web-socket leg.
type Record struct {
	ID      string    `json:"id,omitempty" msgpack:"id"`
	Level   string    `json:"level" msgpack:"level"`
	Time    time.Time `json:"time" msgpack:"time"`
	Thread  string    `json:"thread" msgpack:"thread"`
	Module  string    `json:"module" msgpack:"module"`
	File    string    `json:"file" msgpack:"file"`
	Line    int       `json:"line" msgpack:"line"`
	Message string    `json:"msg" msgpack:"msg"`
}

func newRecord(module string, entry *logrus.Entry) Record {
	rec := Record{
		Level:   levelString(entry.Level),
		Time:    entry.Time,
		Thread:  thread.Current(),
		Module:  module,
		Message: entry.Message,
	}
	if entry.Caller != nil {
		rec.File = filepath.Base(entry.Caller.File)
		rec.Line = entry.Caller.Line
	}
	return rec
}

func levelString(l logrus.Level) string {
	switch l {
	case logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel:
		return "ERROR"
	case logrus.WarnLevel:
		return "WARN"
	case logrus.InfoLevel:
		return "INFO"
	case logrus.DebugLevel:
		return "DEBUG"
	}
	return "TRACE"
}

// formatFunc renders a record into the byte form a sink writes out.
type formatFunc func(Record) []byte

// textFormat renders the human readable line used by the console, file and
// TCP server sinks.
func textFormat(showThreadName bool) formatFunc {
	return func(rec Record) []byte {
		ts := rec.Time.Format("15:04:05.000000")
		if showThreadName {
			return []byte(fmt.Sprintf("%s %s %s [%s %s:%d] %s\n",
				rec.Level, ts, rec.Thread, rec.Module, rec.File, rec.Line, rec.Message))
		}
		return []byte(fmt.Sprintf("%s %s [%s %s:%d] %s\n",
			rec.Level, ts, rec.Module, rec.File, rec.Line, rec.Message))
	}
}

// jsonFormat renders the verbose JSON used by the web-socket sink. Every
// record carries the same per-sink unique id so a server aggregating many
// processes can tell the streams apart.
func jsonFormat() formatFunc {
	id := uuid.NewString()
	return func(rec Record) []byte {
		rec.ID = id
		buf, err := json.Marshal(rec)
		if err != nil {
			// A record is plain strings and ints; this cannot fail.
			return nil
		}
		return buf
	}
}
