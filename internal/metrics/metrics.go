// Package metrics holds the Prometheus series published by a scenario run.
//
// Series live on a package registry rather than the global default so a batch run can
// dump exactly its own counters with WriteTextfile.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the registry every scenario series is registered on.
var Registry = prometheus.NewRegistry()

var (
	playerTicksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scenario_player_ticks_total",
			Help: "Total number of state writes performed by trajectory players.",
		},
	)

	interpClampsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scenario_interp_clamps_total",
			Help: "Replay queries answered by clamping to a boundary sample.",
		},
		[]string{"edge"},
	)

	accessWindowsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scenario_access_windows_total",
			Help: "Total number of access windows extracted.",
		},
	)

	validationFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scenario_validation_failures_total",
			Help: "Inputs rejected by validation, by operation.",
		},
		[]string{"op"},
	)

	trajectorySamples = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "scenario_trajectory_samples",
			Help: "Number of samples in the most recently loaded trajectory.",
		},
	)

	runDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scenario_run_duration_seconds",
			Help:    "Wall-clock duration of a simulation run in seconds.",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	Registry.MustRegister(playerTicksTotal)
	Registry.MustRegister(interpClampsTotal)
	Registry.MustRegister(accessWindowsTotal)
	Registry.MustRegister(validationFailuresTotal)
	Registry.MustRegister(trajectorySamples)
	Registry.MustRegister(runDurationSeconds)
}

// IncPlayerTicks counts one player state write.
func IncPlayerTicks() {
	playerTicksTotal.Inc()
}

// IncClamp counts one clamped query. edge is "low" or "high".
func IncClamp(edge string) {
	interpClampsTotal.WithLabelValues(edge).Inc()
}

// AddAccessWindows adds n extracted windows.
func AddAccessWindows(n int) {
	accessWindowsTotal.Add(float64(n))
}

// IncValidationFailure counts one rejected input for op.
func IncValidationFailure(op string) {
	validationFailuresTotal.WithLabelValues(op).Inc()
}

// SetTrajectorySamples records the sample count of a loaded trajectory.
func SetTrajectorySamples(n int) {
	trajectorySamples.Set(float64(n))
}

// ObserveRunDuration records how long a simulation run took.
func ObserveRunDuration(d time.Duration) {
	runDurationSeconds.Observe(d.Seconds())
}

// WriteTextfile writes the current state of Registry to path in the text exposition
// format, for pickup by a node-exporter textfile collector.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, Registry)
}
