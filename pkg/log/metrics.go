// Copyright 2025 The MaidSafe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package log

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// metrics counts emitted records per level, plus records dropped on full
// sink queues.
type metrics struct {
	ErrorCount prometheus.Counter
	WarnCount  prometheus.Counter
	InfoCount  prometheus.Counter
	DebugCount prometheus.Counter
	TraceCount prometheus.Counter
	Dropped    prometheus.Counter
}

func (m *metrics) count(level logrus.Level) {
	switch level {
	case logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel:
		m.ErrorCount.Inc()
	case logrus.WarnLevel:
		m.WarnCount.Inc()
	case logrus.InfoLevel:
		m.InfoCount.Inc()
	case logrus.DebugLevel:
		m.DebugCount.Inc()
	default:
		m.TraceCount.Inc()
	}
}

var (
	metricsOnce   sync.Once
	sharedMetrics *metrics
)

// newMetrics returns the process wide metrics instance, registering the
// counters with the default registerer on first use.
func newMetrics() *metrics {
	metricsOnce.Do(func() {
		const (
			namespace = "maidsafe"
			subsystem = "log"
		)
		counter := func(name, help string) prometheus.Counter {
			c := prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      name,
				Help:      help,
			})
			prometheus.MustRegister(c)
			return c
		}
		sharedMetrics = &metrics{
			ErrorCount: counter("error_count", "Number of ERROR records."),
			WarnCount:  counter("warn_count", "Number of WARN records."),
			InfoCount:  counter("info_count", "Number of INFO records."),
			DebugCount: counter("debug_count", "Number of DEBUG records."),
			TraceCount: counter("trace_count", "Number of TRACE records."),
			Dropped:    counter("dropped_count", "Number of records dropped on full sink queues."),
		}
	})
	return sharedMetrics
}
