package services

import "github.com/prometheus/client_golang/prometheus"

var (
	pollCyclesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "engine_monitor",
		Name:      "poll_cycles_total",
		Help:      "Number of completed poll cycles.",
	})

	pollCycleErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "engine_monitor",
		Name:      "poll_cycle_errors_total",
		Help:      "Number of poll cycles that ended in an error.",
	})

	pollCycleDurationSeconds = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "engine_monitor",
		Name:      "last_poll_cycle_duration_seconds",
		Help:      "Duration of the most recent poll cycle.",
	})

	realReadingsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "engine_monitor",
		Name:      "real_readings_total",
		Help:      "Variables resolved by a real SNMP query, per engine.",
	}, []string{"engine_id"})

	syntheticReadingsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "engine_monitor",
		Name:      "synthetic_readings_total",
		Help:      "Variables resolved by local synthesis after a failed query, per engine.",
	}, []string{"engine_id"})
)

func init() {
	prometheus.MustRegister(
		pollCyclesTotal,
		pollCycleErrorsTotal,
		pollCycleDurationSeconds,
		realReadingsTotal,
		syntheticReadingsTotal,
	)
}
