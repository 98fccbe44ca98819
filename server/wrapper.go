// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Wrapper interface {
	// WrapHandler wraps an http.Handler.
	WrapHandler(h http.Handler) http.Handler
}

type metricsWrapper struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetricsWrapper records the count and latency of every request served.
func NewMetricsWrapper(namespace string, reg prometheus.Registerer) (Wrapper, error) {
	w := &metricsWrapper{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests",
			Help:      "number of http requests served",
		}, []string{"code", "method"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "time spent serving http requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"code", "method"}),
	}
	if err := reg.Register(w.requests); err != nil {
		return nil, err
	}
	if err := reg.Register(w.duration); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *metricsWrapper) WrapHandler(h http.Handler) http.Handler {
	return promhttp.InstrumentHandlerCounter(
		w.requests,
		promhttp.InstrumentHandlerDuration(w.duration, h),
	)
}
