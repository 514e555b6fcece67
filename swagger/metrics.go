package swagger

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "swaggerdoc"

// Build results.
const (
	resultSuccess = "success"
	resultError   = "error"
)

// metrics holds the collectors of a plugin. A nil *metrics records nothing.
type metrics struct {
	builds    *prometheus.CounterVec
	duration  prometheus.Histogram
	warnings  prometheus.Counter
	cacheHits *prometheus.CounterVec
}

// newMetrics registers the plugin collectors with reg. Collectors that are
// already registered, for example by a second plugin sharing reg, are
// reused.
func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	if reg == nil {
		return nil, nil
	}

	builds, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "builds_total",
		Help:      "Total number of document builds by result",
	}, []string{"result"}))
	if err != nil {
		return nil, err
	}

	duration, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Name:      "build_duration_seconds",
		Help:      "Duration of document builds",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
	}))
	if err != nil {
		return nil, err
	}

	warnings, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "translation_warnings_total",
		Help:      "Total number of schema fragments documented as untyped",
	}))
	if err != nil {
		return nil, err
	}

	cacheHits, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "cache",
		Name:      "requests_total",
		Help:      "Total number of cache lookups by outcome",
	}, []string{"outcome"}))
	if err != nil {
		return nil, err
	}

	return &metrics{
		builds:    builds,
		duration:  duration,
		warnings:  warnings,
		cacheHits: cacheHits,
	}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		var zero C
		return zero, err
	}
	return c, nil
}

func (m *metrics) observeBuild(start time.Time, warnings int, err error) {
	if m == nil {
		return
	}

	result := resultSuccess
	if err != nil {
		result = resultError
	}

	m.builds.WithLabelValues(result).Inc()
	m.duration.Observe(time.Since(start).Seconds())
	m.warnings.Add(float64(warnings))
}

func (m *metrics) observeCache(hit bool) {
	if m == nil {
		return
	}

	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	m.cacheHits.WithLabelValues(outcome).Inc()
}
