// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contract

import (
	"github.com/ava-labs/avalanchego/utils/metric"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ava-labs/ftledger/transfer"
)

const namespace = "ftledger"

type metrics struct {
	transfers        prometheus.Counter
	transferCalls    prometheus.Counter
	registrations    prometheus.Counter
	unregistrations  prometheus.Counter
	failedOperations prometheus.Counter
	refundFailures   prometheus.Counter
	eventFailures    prometheus.Counter
	notifyFailures   prometheus.Counter
	resolvedFull     prometheus.Counter
	resolvedPartial  prometheus.Counter
	resolvedReverted prometheus.Counter
	pendingTransfers prometheus.Gauge
	storageUsage     prometheus.Gauge
	notifyLatency    metric.Averager
}

func newMetrics() (*prometheus.Registry, *metrics, error) {
	r := prometheus.NewRegistry()

	notifyLatency, err := metric.NewAverager(
		namespace,
		"notify_latency",
		"time spent waiting for transfer hooks",
		r,
	)
	if err != nil {
		return nil, nil, err
	}
	m := &metrics{
		transfers: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transfers",
			Help:      "number of successful transfers",
		}),
		transferCalls: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transfer_calls",
			Help:      "number of transfers that notified their receiver",
		}),
		registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations",
			Help:      "number of registered accounts",
		}),
		unregistrations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unregistrations",
			Help:      "number of unregistered accounts",
		}),
		failedOperations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failed_operations",
			Help:      "number of operations that were rolled back",
		}),
		refundFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refund_failures",
			Help:      "number of refunds the environment did not accept",
		}),
		eventFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_failures",
			Help:      "number of events a subscription failed to accept",
		}),
		notifyFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notify_failures",
			Help:      "number of transfer hooks that failed, panicked or timed out",
		}),
		resolvedFull: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolved_full",
			Help:      "number of transfer calls the receiver kept entirely",
		}),
		resolvedPartial: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolved_partial",
			Help:      "number of transfer calls that were partially refunded",
		}),
		resolvedReverted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolved_reverted",
			Help:      "number of transfer calls that were entirely refunded",
		}),
		pendingTransfers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pending_transfers",
			Help:      "number of transfer calls awaiting resolution",
		}),
		storageUsage: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "storage_usage",
			Help:      "number of committed bytes charged to storage stakes",
		}),
		notifyLatency: notifyLatency,
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.transfers),
		r.Register(m.transferCalls),
		r.Register(m.registrations),
		r.Register(m.unregistrations),
		r.Register(m.failedOperations),
		r.Register(m.refundFailures),
		r.Register(m.eventFailures),
		r.Register(m.notifyFailures),
		r.Register(m.resolvedFull),
		r.Register(m.resolvedPartial),
		r.Register(m.resolvedReverted),
		r.Register(m.pendingTransfers),
		r.Register(m.storageUsage),
	)
	return r, m, errs.Err
}

func (m *metrics) recordOutcome(o transfer.Outcome) {
	switch o {
	case transfer.Full:
		m.resolvedFull.Inc()
	case transfer.Partial:
		m.resolvedPartial.Inc()
	case transfer.Reverted:
		m.resolvedReverted.Inc()
	}
}
