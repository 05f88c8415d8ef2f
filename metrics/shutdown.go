package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ShutdownMetrics records how long-running components stop.
type ShutdownMetrics struct {
	stopTotal        *prometheus.CounterVec
	serveErrors      *prometheus.CounterVec
	componentStops   *prometheus.CounterVec
	gracefulDuration prometheus.Histogram
}

// NewShutdownMetrics registers the shutdown collectors on reg.
//
// Metrics registered:
//   - {namespace}_{subsystem}_graceful_stop_total{result} - stops by result (success/force)
//   - {namespace}_{subsystem}_component_serve_errors_total{name} - non-normal serve errors
//   - {namespace}_{subsystem}_component_stop_result_total{name, result} - per-component stop result
//   - {namespace}_{subsystem}_graceful_duration_seconds - histogram of stop duration
func NewShutdownMetrics(reg prometheus.Registerer, namespace, subsystem string) (*ShutdownMetrics, error) {
	if reg == nil {
		return nil, errors.New("prometheus registerer is nil")
	}

	m := &ShutdownMetrics{
		stopTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "graceful_stop_total", Help: "Total graceful stops by result",
		}, []string{"result"}),

		serveErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "component_serve_errors_total", Help: "Non-normal serve errors by component",
		}, []string{"name"}),

		componentStops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "component_stop_result_total", Help: "Per-component graceful stop result",
		}, []string{"name", "result"}),

		gracefulDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name:    "graceful_duration_seconds",
			Help:    "Duration of global graceful stop",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		}),
	}

	var err error
	if m.stopTotal, err = register(reg, m.stopTotal); err != nil {
		return nil, err
	}
	if m.serveErrors, err = register(reg, m.serveErrors); err != nil {
		return nil, err
	}
	if m.componentStops, err = register(reg, m.componentStops); err != nil {
		return nil, err
	}
	if m.gracefulDuration, err = register(reg, m.gracefulDuration); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *ShutdownMetrics) IncStopTotal(result string) {
	m.stopTotal.WithLabelValues(result).Inc()
}

func (m *ShutdownMetrics) ObserveGracefulDuration(d time.Duration) {
	m.gracefulDuration.Observe(d.Seconds())
}

func (m *ShutdownMetrics) IncServeError(name string) {
	m.serveErrors.WithLabelValues(name).Inc()
}

func (m *ShutdownMetrics) IncComponentStopResult(name, result string) {
	m.componentStops.WithLabelValues(name, result).Inc()
}
