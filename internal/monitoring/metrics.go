package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Sweep metrics
	sweepCombinations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exitopt_sweep_combinations_total",
			Help: "Rule combinations handled by the grid search, by outcome",
		},
		[]string{"status"},
	)

	sweepDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "exitopt_sweep_duration_seconds",
			Help:    "Wall time of completed grid-search sweeps",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Result metrics
	bestTotalPL = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "exitopt_best_total_pl",
			Help: "Total simulated P/L of the best retained scenario",
		},
	)

	retainedResults = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "exitopt_retained_results",
			Help: "Scenario count surviving the risk constraints",
		},
	)
)

// Combination outcomes recorded by the grid search.
const (
	StatusEvaluated = "evaluated"
	StatusSkipped   = "skipped"
	StatusRejected  = "rejected"
)

func init() {
	prometheus.MustRegister(sweepCombinations)
	prometheus.MustRegister(sweepDuration)
	prometheus.MustRegister(bestTotalPL)
	prometheus.MustRegister(retainedResults)
}

// RecordCombinations adds n combinations with the given outcome.
func RecordCombinations(status string, n int64) {
	if n > 0 {
		sweepCombinations.WithLabelValues(status).Add(float64(n))
	}
}

// ObserveSweep records the wall time of a completed sweep.
func ObserveSweep(d time.Duration) {
	sweepDuration.Observe(d.Seconds())
}

// RecordResults publishes the retained result count and the best total P/L.
func RecordResults(retained int, best float64) {
	retainedResults.Set(float64(retained))
	if retained > 0 {
		bestTotalPL.Set(best)
	}
}

// Serve exposes the prometheus endpoint on addr. Intended for long
// exhaustive sweeps; errors are returned to the caller, not fatal here.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(addr, mux)
}
