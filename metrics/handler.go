package metrics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const defaultHealthTimeout = 500 * time.Millisecond

var errHealthTimeout = errors.New("health check timed out")

// Options configures the /metrics and /health handler.
type Options struct {
	// Registry is created when nil.
	Registry *prometheus.Registry
	// Register adds service collectors, e.g. NewExtractionMetrics.
	Register func(reg prometheus.Registerer) error
	// Health reports readiness; nil means always healthy.
	Health        func(ctx context.Context) error
	MetricsPath   string
	HealthPath    string
	HealthTimeout time.Duration
}

// New builds a mux serving the registry on MetricsPath and the Health probe
// on HealthPath. Process and Go runtime collectors are always registered.
func New(opts Options) (http.Handler, *prometheus.Registry, error) {
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	for _, c := range []prometheus.Collector{
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	} {
		if err := registerCollector(reg, c); err != nil {
			return nil, nil, err
		}
	}
	if opts.Register != nil {
		if err := opts.Register(reg); err != nil {
			return nil, nil, fmt.Errorf("register service metrics: %w", err)
		}
	}

	mux := http.NewServeMux()
	mux.Handle(orDefault(opts.MetricsPath, "/metrics"), promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	mux.Handle(orDefault(opts.HealthPath, "/health"), healthHandler(opts.Health, opts.HealthTimeout))
	return mux, reg, nil
}

type healthStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func healthHandler(check func(context.Context) error, timeout time.Duration) http.Handler {
	if timeout <= 0 {
		timeout = defaultHealthTimeout
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error
		if check != nil {
			err = runCheck(r.Context(), check, timeout)
		}

		w.Header().Set("Content-Type", "application/json")
		if err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(healthStatus{Status: "unhealthy", Error: err.Error()})
			return
		}
		_ = json.NewEncoder(w).Encode(healthStatus{Status: "ok"})
	})
}

// runCheck returns errHealthTimeout when check outlives timeout, even if
// check ignores its context.
func runCheck(ctx context.Context, check func(context.Context) error, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- check(ctx) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return errHealthTimeout
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
