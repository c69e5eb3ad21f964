// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package utilmetric records per-method JSON-RPC metrics.
package utilmetric

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/rpc/v2"

	"github.com/luxfi/metric"
	"github.com/luxfi/vesting/utils/wrappers"
)

type APIInterceptor interface {
	InterceptRequest(i *rpc.RequestInfo) *http.Request
	AfterRequest(i *rpc.RequestInfo)
}

type contextKey int

const requestTimestampKey contextKey = iota

type apiInterceptor struct {
	requestDurationCount metric.CounterVec
	requestDurationSum   metric.GaugeVec
	requestErrors        metric.CounterVec
}

// NewAPIInterceptor registers the interceptor's metrics, prefixed by
// [prefix], with [registerer].
func NewAPIInterceptor(prefix string, registerer metric.Registerer) (APIInterceptor, error) {
	labels := []string{"method"}
	apr := &apiInterceptor{
		requestDurationCount: metric.NewCounterVec(
			metric.CounterOpts{
				Name: prefix + "_request_duration_count",
				Help: "Number of times this type of request was made",
			},
			labels,
		),
		requestDurationSum: metric.NewGaugeVec(
			metric.GaugeOpts{
				Name: prefix + "_request_duration_sum",
				Help: "Amount of time in nanoseconds that has been spent handling this type of request",
			},
			labels,
		),
		requestErrors: metric.NewCounterVec(
			metric.CounterOpts{
				Name: prefix + "_request_error_count",
				Help: "Number of request errors",
			},
			labels,
		),
	}

	errs := wrappers.Errs{}
	errs.Add(
		registerer.Register(metric.AsCollector(apr.requestDurationCount)),
		registerer.Register(metric.AsCollector(apr.requestDurationSum)),
		registerer.Register(metric.AsCollector(apr.requestErrors)),
	)
	return apr, errs.Err
}

func (*apiInterceptor) InterceptRequest(i *rpc.RequestInfo) *http.Request {
	ctx := i.Request.Context()
	ctx = context.WithValue(ctx, requestTimestampKey, time.Now())
	return i.Request.WithContext(ctx)
}

func (apr *apiInterceptor) AfterRequest(i *rpc.RequestInfo) {
	timestamp, ok := i.Request.Context().Value(requestTimestampKey).(time.Time)
	if !ok {
		return
	}

	labels := metric.Labels{
		"method": i.Method,
	}
	apr.requestDurationCount.With(labels).Inc()
	apr.requestDurationSum.With(labels).Add(float64(time.Since(timestamp)))
	if i.Error != nil {
		apr.requestErrors.With(labels).Inc()
	}
}
