// Package metrics exposes the cycle-count / instruction-count profiler
// surface spec.md §6.2 hands to an out-of-core profiler collaborator, as
// Prometheus instrumentation. The CLI's verify command records into a
// per-run registry; it does not serve the registry.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Recorder holds the gauges and counters a single mlcheck process reports.
// It is not wired into pkg/verify — the core never imports this package —
// so that the checker's hot path stays free of the instrumentation
// overhead spec.md §1 asks the core to avoid.
type Recorder struct {
	VerifyRuns      prometheus.Counter
	VerifyFailures  prometheus.Counter
	CyclesExecuted  prometheus.Counter
	LastRunCycles   prometheus.Gauge
	LastRunClaims   prometheus.Gauge
}

// NewRecorder builds a Recorder and registers its collectors with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		VerifyRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mlcheck",
			Name:      "verify_runs_total",
			Help:      "Total number of Verify invocations.",
		}),
		VerifyFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mlcheck",
			Name:      "verify_failures_total",
			Help:      "Total number of Verify invocations that returned an error.",
		}),
		CyclesExecuted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mlcheck",
			Name:      "cycles_executed_total",
			Help:      "Total stack-machine instructions executed across all successful runs.",
		}),
		LastRunCycles: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "mlcheck",
			Name:      "last_run_cycles",
			Help:      "Instruction count of the most recent successful Verify run.",
		}),
		LastRunClaims: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "mlcheck",
			Name:      "last_run_claims",
			Help:      "Claim count discharged by the most recent successful Verify run.",
		}),
	}
	reg.MustRegister(r.VerifyRuns, r.VerifyFailures, r.CyclesExecuted, r.LastRunCycles, r.LastRunClaims)
	return r
}

// RecordSuccess updates the recorder after a successful Verify call.
func (r *Recorder) RecordSuccess(cycles uint64, claims int) {
	r.VerifyRuns.Inc()
	r.CyclesExecuted.Add(float64(cycles))
	r.LastRunCycles.Set(float64(cycles))
	r.LastRunClaims.Set(float64(claims))
}

// RecordFailure updates the recorder after a failed Verify call.
func (r *Recorder) RecordFailure() {
	r.VerifyRuns.Inc()
	r.VerifyFailures.Inc()
}
