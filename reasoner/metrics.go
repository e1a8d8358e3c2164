package reasoner

import "github.com/prometheus/client_golang/prometheus"

// Metrics wraps the small set of Prometheus gauges a long-running caller
// (e.g. a weight-learning outer loop invoking Optimize repeatedly) may
// want to scrape. A nil *Metrics is valid and every method is a no-op, so
// wiring metrics is opt-in.
type Metrics struct {
	iterations          prometheus.Gauge
	primalResidual      prometheus.Gauge
	dualResidual        prometheus.Gauge
	violatedConstraints prometheus.Gauge
}

// NewMetrics constructs and registers the reasoner's gauges against reg.
// Pass prometheus.NewRegistry() for an isolated registry, or
// prometheus.DefaultRegisterer to expose them on the default /metrics
// handler.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		iterations: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "psl_admm_iterations",
			Help: "Number of ADMM iterations run by the most recent Optimize call.",
		}),
		primalResidual: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "psl_admm_primal_residual",
			Help: "Primal residual at the end of the most recent ADMM iteration.",
		}),
		dualResidual: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "psl_admm_dual_residual",
			Help: "Dual residual at the end of the most recent ADMM iteration.",
		}),
		violatedConstraints: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "psl_admm_violated_constraints",
			Help: "Number of constraint terms still violated at the last objective computation.",
		}),
	}

	reg.MustRegister(m.iterations, m.primalResidual, m.dualResidual, m.violatedConstraints)

	return m
}

func (m *Metrics) observeIteration(iter int, primalRes, dualRes float32) {
	if m == nil {
		return
	}
	m.iterations.Set(float64(iter))
	m.primalResidual.Set(float64(primalRes))
	m.dualResidual.Set(float64(dualRes))
}

func (m *Metrics) observeObjective(violated int) {
	if m == nil {
		return
	}
	m.violatedConstraints.Set(float64(violated))
}
