package poller

import (
	"github.com/prometheus/client_golang/prometheus"

	"slurmview/internal/pkg/nodes"
)

const namespace = "slurmview"

// Metrics are the poller's Prometheus collectors.
type Metrics struct {
	nodesByState  *prometheus.GaugeVec
	nodesTotal    prometheus.Gauge
	gpusAllocated prometheus.Gauge
	gpusTotal     prometheus.Gauge
	lastSuccess   prometheus.Gauge
	pollErrors    prometheus.Counter
	pollDuration  prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		nodesByState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "nodes",
			Name:      "state",
			Help:      "Number of nodes per status level in the latest poll.",
		}, []string{"state"}),
		nodesTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "nodes",
			Name:      "total",
			Help:      "Number of nodes in the latest poll.",
		}),
		gpusAllocated: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "nodes",
			Name:      "gpus_allocated",
			Help:      "GPUs in use across all nodes.",
		}),
		gpusTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "nodes",
			Name:      "gpus_total",
			Help:      "GPUs configured across all nodes.",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "poller",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful poll.",
		}),
		pollErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "poller",
			Name:      "errors_total",
			Help:      "Failed polls of slurmrestd.",
		}),
		pollDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "poller",
			Name:      "duration_seconds",
			Help:      "Duration of slurmrestd node polls.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg != nil {
		reg.MustRegister(m.nodesByState, m.nodesTotal, m.gpusAllocated, m.gpusTotal, m.lastSuccess, m.pollErrors, m.pollDuration)
	}
	return m
}

func (m *Metrics) observeStats(s nodes.Stats) {
	if m == nil {
		return
	}
	m.nodesByState.Reset()
	for state, n := range s.ByState {
		m.nodesByState.WithLabelValues(state).Set(float64(n))
	}
	m.nodesTotal.Set(float64(s.Total))
	m.gpusAllocated.Set(float64(s.GPUsAlloc))
	m.gpusTotal.Set(float64(s.GPUsTotal))
}
