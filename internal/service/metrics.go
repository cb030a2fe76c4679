package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records workflow outcomes
type Metrics interface {
	ObserveLookup(result string)
	ObserveSave(result string)
	ObserveDirectoryLoad(ok bool)
}

// PromMetrics exports workflow counters to Prometheus
type PromMetrics struct {
	lookups        *prometheus.CounterVec
	saves          *prometheus.CounterVec
	directoryLoads *prometheus.CounterVec
}

// NewPromMetrics creates the counters and registers them on reg
func NewPromMetrics(reg prometheus.Registerer) *PromMetrics {
	m := &PromMetrics{
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "covidash_stats_lookups_total",
			Help: "Statistics lookups by outcome (strict, fallback, not_found, error)",
		}, []string{"result"}),
		saves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "covidash_snapshot_saves_total",
			Help: "Snapshot saves by outcome",
		}, []string{"result"}),
		directoryLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "covidash_directory_loads_total",
			Help: "Country directory loads by outcome",
		}, []string{"result"}),
	}
	reg.MustRegister(m.lookups, m.saves, m.directoryLoads)
	return m
}

func (m *PromMetrics) ObserveLookup(result string) {
	m.lookups.WithLabelValues(result).Inc()
}

func (m *PromMetrics) ObserveSave(result string) {
	m.saves.WithLabelValues(result).Inc()
}

func (m *PromMetrics) ObserveDirectoryLoad(ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	m.directoryLoads.WithLabelValues(result).Inc()
}

// NoopMetrics is used when metrics are disabled
type NoopMetrics struct{}

func (NoopMetrics) ObserveLookup(string)      {}
func (NoopMetrics) ObserveSave(string)        {}
func (NoopMetrics) ObserveDirectoryLoad(bool) {}
