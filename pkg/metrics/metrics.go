// Package metrics exposes Prometheus instruments for scene edits, cascade
// deletions and script evaluation. A nil *Metrics is valid and records
// nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "brickwork"

// Metrics holds every instrument.
type Metrics struct {
	placed      prometheus.Counter
	rejected    *prometheus.CounterVec
	removed     prometheus.Counter
	cascadeSize prometheus.Histogram
	pieces      prometheus.Gauge
	evalTime    prometheus.Histogram
	evalErrors  prometheus.Counter
	cacheSize   prometheus.Gauge
}

// New creates the instruments and registers them with reg. A nil reg
// leaves them unregistered, which tests use to avoid global state.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		placed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pieces_placed_total",
			Help:      "Pieces successfully placed.",
		}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "placements_rejected_total",
			Help:      "Placements refused, by reason.",
		}, []string{"reason"}),
		removed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pieces_removed_total",
			Help:      "Pieces removed, including cascaded removals.",
		}),
		cascadeSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cascade_size",
			Help:      "Number of pieces removed by one removal request.",
			Buckets:   []float64{1, 2, 4, 8, 16, 32, 64, 128},
		}),
		pieces: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "scene_pieces",
			Help:      "Pieces currently in the scene.",
		}),
		evalTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "eval_duration_seconds",
			Help:      "Time spent evaluating build scripts.",
			Buckets:   prometheus.DefBuckets,
		}),
		evalErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "eval_errors_total",
			Help:      "Build script evaluations that reported errors.",
		}),
		cacheSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "geometry_cache_entries",
			Help:      "Entries held by the geometry cache.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.placed, m.rejected, m.removed, m.cascadeSize,
			m.pieces, m.evalTime, m.evalErrors, m.cacheSize)
	}
	return m
}

// Placed records one successful placement.
func (m *Metrics) Placed() {
	if m == nil {
		return
	}
	m.placed.Inc()
}

// Rejected records a refused placement.
func (m *Metrics) Rejected(reason string) {
	if m == nil {
		return
	}
	m.rejected.WithLabelValues(reason).Inc()
}

// Removed records a removal request that deleted n pieces.
func (m *Metrics) Removed(n int) {
	if m == nil || n == 0 {
		return
	}
	m.removed.Add(float64(n))
	m.cascadeSize.Observe(float64(n))
}

// SetPieces records the current scene size.
func (m *Metrics) SetPieces(n int) {
	if m == nil {
		return
	}
	m.pieces.Set(float64(n))
}

// Evaluated records one script evaluation.
func (m *Metrics) Evaluated(d time.Duration, failed bool) {
	if m == nil {
		return
	}
	m.evalTime.Observe(d.Seconds())
	if failed {
		m.evalErrors.Inc()
	}
}

// SetCacheSize records the geometry cache size.
func (m *Metrics) SetCacheSize(n int) {
	if m == nil {
		return
	}
	m.cacheSize.Set(float64(n))
}
