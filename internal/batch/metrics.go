package batch

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeMapped = "mapped"
	OutcomeFailed = "failed"
)

// Metrics records genotype mapping outcomes and latencies.
type Metrics struct {
	genotypes *prometheus.CounterVec
	duration  prometheus.Histogram
	batches   prometheus.Counter
}

// NewMetrics registers the batch collectors on reg; nil means the default
// registerer. Collectors already registered by an earlier Metrics are
// reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		genotypes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "morphogen",
			Subsystem: "batch",
			Name:      "genotypes_total",
			Help:      "Genotypes mapped, by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "morphogen",
			Subsystem: "batch",
			Name:      "mapping_duration_seconds",
			Help:      "Time spent mapping one genotype.",
			Buckets:   prometheus.ExponentialBuckets(1e-5, 4, 10),
		}),
		batches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "morphogen",
			Subsystem: "batch",
			Name:      "batches_total",
			Help:      "Batches run.",
		}),
	}

	var err error
	m.genotypes, err = register(reg, m.genotypes)
	if err != nil {
		return nil, err
	}
	m.duration, err = register(reg, m.duration)
	if err != nil {
		return nil, err
	}
	m.batches, err = register(reg, m.batches)
	if err != nil {
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
		return c, fmt.Errorf("register batch metrics: %w", err)
	}
	return c, nil
}

func (m *Metrics) observe(seconds float64, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeMapped
	if err != nil {
		outcome = OutcomeFailed
	}
	m.genotypes.WithLabelValues(outcome).Inc()
	m.duration.Observe(seconds)
}

func (m *Metrics) batch() {
	if m == nil {
		return
	}
	m.batches.Inc()
}
