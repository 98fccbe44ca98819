// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"time"

	"github.com/ava-labs/avalanchego/utils/metric"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace       = "ftledger_db"
	metricsInterval = 10 * time.Second
)

// metrics tracks how the ledger uses its store: what it reads and commits,
// and how much disk the committed state takes.
type metrics struct {
	stallStart time.Time

	readLatency metric.Averager
	writeStall  metric.Averager

	committedBatches prometheus.Counter
	committedBytes   prometheus.Counter
	compactions      *prometheus.CounterVec
	diskUsage        prometheus.Gauge
	liveTombstones   prometheus.Gauge
}

func newMetrics(r prometheus.Registerer) (*metrics, error) {
	readLatency, err := metric.NewAverager(
		namespace,
		"read_latency",
		"time spent reading a ledger record",
		r,
	)
	if err != nil {
		return nil, err
	}
	writeStall, err := metric.NewAverager(
		namespace,
		"write_stall",
		"time commits spent blocked on compactions",
		r,
	)
	if err != nil {
		return nil, err
	}
	m := &metrics{
		readLatency: readLatency,
		writeStall:  writeStall,
		committedBatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "committed_batches",
			Help:      "number of state changes committed",
		}),
		committedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "committed_bytes",
			Help:      "number of key and value bytes committed",
		}),
		compactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compactions",
			Help:      "number of compactions by input level",
		}, []string{"level"}),
		diskUsage: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "disk_usage",
			Help:      "number of bytes the store occupies on disk",
		}),
		liveTombstones: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_tombstones",
			Help:      "approximate number of deleted records not yet compacted away",
		}),
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.committedBatches),
		r.Register(m.committedBytes),
		r.Register(m.compactions),
		r.Register(m.diskUsage),
		r.Register(m.liveTombstones),
	)
	return m, errs.Err
}

func (m *metrics) committed(bytes int) {
	m.committedBatches.Inc()
	m.committedBytes.Add(float64(bytes))
}

func (db *Database) onCompactionBegin(info pebble.CompactionInfo) {
	level := "other"
	if len(info.Input) > 0 && info.Input[0].Level == 0 {
		level = "l0"
	}
	db.metrics.compactions.WithLabelValues(level).Inc()
}

func (db *Database) onWriteStallBegin(pebble.WriteStallBeginInfo) {
	db.metrics.stallStart = time.Now()
}

func (db *Database) onWriteStallEnd() {
	db.metrics.writeStall.Observe(float64(time.Since(db.metrics.stallStart)))
}

// refreshUsage samples the engine for the disk gauges.
func (db *Database) refreshUsage() {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return
	}
	stats := db.db.Metrics()
	db.metrics.diskUsage.Set(float64(stats.DiskSpaceUsage()))
	db.metrics.liveTombstones.Set(float64(stats.Keys.TombstoneCount))
}

func (db *Database) collectMetrics() {
	t := time.NewTicker(metricsInterval)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			db.refreshUsage()
		case <-db.closing:
			return
		}
	}
}
