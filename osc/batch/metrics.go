package batch

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Job outcome label values.
const (
	OutcomeOK            = "ok"
	OutcomeInvalidInput  = "invalid_input"
	OutcomeDegenerate    = "degenerate"
	OutcomeCanceled      = "canceled"
	outcomeLabel         = "outcome"
	metricsNamespace     = "nuosc"
	metricsSubsystem     = "batch"
	defaultDurationStart = 1e-4
)

// Metrics are the Prometheus collectors of an Engine.
type Metrics struct {
	jobs     *prometheus.CounterVec
	duration prometheus.Histogram
	layers   prometheus.Histogram
}

// NewMetrics creates the batch collectors and registers them with reg.
// Collectors already registered by an earlier call are reused. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		jobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "jobs_total",
			Help:      "Propagation jobs evaluated, by outcome.",
		}, []string{outcomeLabel}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "run_duration_seconds",
			Help:      "Wall time of one Run call.",
			Buckets:   prometheus.ExponentialBuckets(defaultDurationStart, 4, 10),
		}),
		layers: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "job_layers",
			Help:      "Number of matter layers per job.",
			Buckets:   prometheus.LinearBuckets(0, 8, 16),
		}),
	}
	if reg == nil {
		return m, nil
	}

	var err error
	if m.jobs, err = register(reg, m.jobs); err != nil {
		return nil, err
	}
	if m.duration, err = register(reg, m.duration); err != nil {
		return nil, err
	}
	if m.layers, err = register(reg, m.layers); err != nil {
		return nil, err
	}
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, fmt.Errorf("batch: register metrics: %w", err)
	}
	return c, nil
}

func (m *Metrics) observeJob(outcome string, layers int) {
	if m == nil {
		return
	}
	m.jobs.WithLabelValues(outcome).Inc()
	m.layers.Observe(float64(layers))
}

func (m *Metrics) observeRun(seconds float64) {
	if m == nil {
		return
	}
	m.duration.Observe(seconds)
}
