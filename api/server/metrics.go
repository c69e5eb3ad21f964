// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"net/http"
	"time"

	"github.com/luxfi/metric"
	"github.com/luxfi/vesting/utils/wrappers"
)

type serverMetrics struct {
	requests    metric.CounterVec
	durationSum metric.GaugeVec
	inflight    metric.Gauge
}

func newMetrics(registerer metric.Registerer) (*serverMetrics, error) {
	m := &serverMetrics{
		requests: metric.NewCounterVec(
			metric.CounterOpts{
				Name: "api_requests",
				Help: "Number of API requests",
			},
			[]string{"method", "base"},
		),
		durationSum: metric.NewGaugeVec(
			metric.GaugeOpts{
				Name: "api_request_duration_sum",
				Help: "Amount of time in nanoseconds spent handling API requests",
			},
			[]string{"method", "base"},
		),
		inflight: metric.NewGauge(metric.GaugeOpts{
			Name: "api_requests_inflight",
			Help: "Number of inflight API requests",
		}),
	}

	errs := wrappers.Errs{}
	errs.Add(
		registerer.Register(metric.AsCollector(m.requests)),
		registerer.Register(metric.AsCollector(m.durationSum)),
		registerer.Register(metric.AsCollector(m.inflight)),
	)
	if errs.Errored() {
		return nil, errs.Err
	}
	return m, nil
}

func (m *serverMetrics) wrapHandler(base string, handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		labels := metric.Labels{
			"method": r.Method,
			"base":   base,
		}
		m.requests.With(labels).Inc()
		m.inflight.Inc()
		defer m.inflight.Dec()

		start := time.Now()
		handler.ServeHTTP(w, r)
		m.durationSum.With(labels).Add(float64(time.Since(start)))
	})
}
