package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ExtractionMetrics records extraction outcomes.
type ExtractionMetrics struct {
	extractions   *prometheus.CounterVec
	duration      prometheus.Histogram
	fieldMatches  *prometheus.CounterVec
	timeouts      prometheus.Counter
	cacheRequests *prometheus.CounterVec
}

func registerCollector(reg prometheus.Registerer, c prometheus.Collector) error {
	_, err := register(reg, c)
	return err
}

// register returns the collector already registered under the same
// descriptors, if any, so repeated construction shares one set of series.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
			return c, nil
		}
		return c, fmt.Errorf("register collector: %w", err)
	}
	return c, nil
}

// NewExtractionMetrics registers the extraction collectors on reg.
//
// Metrics registered:
//   - {namespace}_{subsystem}_extractions_total{source} - extractions by result source (live/cache/fallback)
//   - {namespace}_{subsystem}_extraction_duration_seconds - histogram of extraction latency
//   - {namespace}_{subsystem}_field_matches_total{field} - matched fields by name
//   - {namespace}_{subsystem}_extraction_timeouts_total - extractions abandoned on timeout
//   - {namespace}_{subsystem}_cache_requests_total{result} - cache lookups by result (hit/miss/error)
//
// Registering twice on the same registry is not an error.
func NewExtractionMetrics(reg prometheus.Registerer, namespace, subsystem string) (*ExtractionMetrics, error) {
	if reg == nil {
		return nil, errors.New("prometheus registerer is nil")
	}

	m := &ExtractionMetrics{
		extractions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "extractions_total", Help: "Extractions by result source",
		}, []string{"source"}),

		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name:    "extraction_duration_seconds",
			Help:    "Duration of a single extraction",
			Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),

		fieldMatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "field_matches_total", Help: "Matched record fields by name",
		}, []string{"field"}),

		timeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "extraction_timeouts_total", Help: "Extractions abandoned on timeout",
		}),

		cacheRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "cache_requests_total", Help: "Result cache lookups by result",
		}, []string{"result"}),
	}

	var err error
	if m.extractions, err = register(reg, m.extractions); err != nil {
		return nil, err
	}
	if m.duration, err = register(reg, m.duration); err != nil {
		return nil, err
	}
	if m.fieldMatches, err = register(reg, m.fieldMatches); err != nil {
		return nil, err
	}
	if m.timeouts, err = register(reg, m.timeouts); err != nil {
		return nil, err
	}
	if m.cacheRequests, err = register(reg, m.cacheRequests); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *ExtractionMetrics) ObserveExtraction(source string, d time.Duration) {
	m.extractions.WithLabelValues(source).Inc()
	m.duration.Observe(d.Seconds())
}

func (m *ExtractionMetrics) IncFieldMatch(field string) {
	m.fieldMatches.WithLabelValues(field).Inc()
}

func (m *ExtractionMetrics) IncTimeout() {
	m.timeouts.Inc()
}

func (m *ExtractionMetrics) IncCache(result string) {
	m.cacheRequests.WithLabelValues(result).Inc()
}
