package rankdex

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type screenerMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	candidates prometheus.Histogram
}

func newScreenerMetrics(reg prometheus.Registerer) (*screenerMetrics, error) {
	m := &screenerMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rankdex",
			Subsystem: "lib",
			Name:      "operations_total",
			Help:      "Total library calls by operation and status.",
		}, []string{"operation", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rankdex",
			Subsystem: "lib",
			Name:      "operation_duration_seconds",
			Help:      "Library call duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		candidates: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rankdex",
			Subsystem: "lib",
			Name:      "candidates",
			Help:      "Resumes per library call.",
			Buckets:   []float64{1, 2, 5, 10, 25, 50, 100, 200},
		}),
	}
	if err := registerOrReuse(reg, &m.operations); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.candidates); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers a collector or reuses an existing one.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			existing, ok := are.ExistingCollector.(T)
			if !ok {
				return fmt.Errorf("rankdex: metric already registered with incompatible type: %T", are.ExistingCollector)
			}
			*c = existing
			return nil
		}
		return fmt.Errorf("rankdex: register metric: %w", err)
	}
	return nil
}

type observer struct {
	logger  *slog.Logger
	metrics *screenerMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	if logger == nil && reg == nil {
		return nil, nil
	}
	var m *screenerMetrics
	if reg != nil {
		var err error
		m, err = newScreenerMetrics(reg)
		if err != nil {
			return nil, err
		}
	}
	return &observer{logger: logger, metrics: m}, nil
}

func (o *observer) observe(op string, candidates int, start time.Time, err error) {
	if o == nil {
		return
	}
	dur := time.Since(start)

	if o.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		o.metrics.operations.WithLabelValues(op, status).Inc()
		o.metrics.duration.WithLabelValues(op).Observe(dur.Seconds())
		if err == nil {
			o.metrics.candidates.Observe(float64(candidates))
		}
	}

	if o.logger != nil {
		if err != nil {
			o.logger.Warn("operation failed",
				"op", op,
				"candidates", candidates,
				"duration", dur,
				"error", err,
			)
		} else {
			o.logger.Debug("operation completed",
				"op", op,
				"candidates", candidates,
				"duration", dur,
			)
		}
	}
}
