package shutdown

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vortex-fintech/go-contact/logger"
)

// Component is a long-running part of the process that the Manager starts
// and stops together with the others.
type Component interface {
	Name() string
	Serve(ctx context.Context) error
	Stop(ctx context.Context) error
	ForceStop()
}

// Metrics collects shutdown statistics. *metrics.ShutdownMetrics satisfies it.
type Metrics interface {
	IncStopTotal(result string)
	ObserveGracefulDuration(d time.Duration)
	IncServeError(name string)
	IncComponentStopResult(name, result string)
}

// Config for Manager.
type Config struct {
	// Timeout bounds the graceful phase of Stop. Zero forces immediately.
	Timeout time.Duration

	// HandleSignals turns SIGINT and SIGTERM into a graceful stop.
	HandleSignals bool

	// IsNormalError reports Serve errors expected during shutdown.
	// Default: DefaultIsNormalErr.
	IsNormalError func(error) bool

	Logger  logger.LoggerInterface
	Metrics Metrics
}

// Manager runs components until the first of them returns or the context
// ends, then stops all of them.
type Manager struct {
	cfg        Config
	mu         sync.Mutex
	components []Component
	stopped    bool
}

// New creates a Manager. Nil Logger and Metrics discard events.
func New(cfg Config) *Manager {
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = nopMetrics{}
	}
	if cfg.IsNormalError == nil {
		cfg.IsNormalError = DefaultIsNormalErr
	}
	return &Manager{cfg: cfg}
}

// Add registers a component. Nil components are ignored.
func (m *Manager) Add(c Component) {
	if c == nil {
		return
	}
	m.components = append(m.components, c)
}

// Run starts every component and blocks until shutdown. A component that
// returns, even cleanly, ends the run for all. The first non-normal Serve
// error is returned.
func (m *Manager) Run(ctx context.Context) error {
	if m.cfg.HandleSignals {
		var stop context.CancelFunc
		ctx, stop = signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()
	}
	if len(m.components) == 0 {
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var g errgroup.Group
	for _, c := range m.components {
		g.Go(func() error {
			defer cancel()
			name := safeName(c)
			m.cfg.Logger.Infow("component start", "name", name)
			err := c.Serve(runCtx)
			if err != nil && !m.cfg.IsNormalError(err) && runCtx.Err() == nil {
				m.cfg.Logger.Errorw("component failed", "name", name, "error", err)
				m.cfg.Metrics.IncServeError(name)
				return fmt.Errorf("%s: %w", name, err)
			}
			m.cfg.Logger.Infow("component done", "name", name, "error", errString(err))
			return nil
		})
	}

	waitCh := make(chan error, 1)
	go func() { waitCh <- g.Wait() }()

	<-runCtx.Done()
	if ctx.Err() != nil {
		m.cfg.Logger.Infow("context done, stopping components")
	} else {
		m.cfg.Logger.Infow("component finished, stopping the rest")
	}
	m.Stop()

	select {
	case err := <-waitCh:
		return err
	case <-time.After(m.cfg.Timeout + 2*time.Second):
		return fmt.Errorf("shutdown: components still running %s after stop", m.cfg.Timeout)
	}
}

// Stop gives every component Timeout to stop and forces those that fail or
// run out of time. Calls after the first are no-ops.
func (m *Manager) Stop() {
	m.mu.Lock()
	already := m.stopped
	m.stopped = true
	m.mu.Unlock()
	if already {
		return
	}

	started := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), m.cfg.Timeout)
	defer cancel()

	var (
		wg     sync.WaitGroup
		forced atomic.Int32
	)
	for _, c := range m.components {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if m.stopOne(ctx, c) == resultForce {
				forced.Add(1)
			}
		}()
	}
	wg.Wait()

	overall := resultSuccess
	if forced.Load() > 0 {
		overall = resultForce
	}
	m.cfg.Metrics.ObserveGracefulDuration(time.Since(started))
	m.cfg.Metrics.IncStopTotal(overall)
}

const (
	resultSuccess = "success"
	resultForce   = "force"
)

func (m *Manager) stopOne(ctx context.Context, c Component) string {
	name := safeName(c)
	done := make(chan error, 1)
	go func() { done <- c.Stop(ctx) }()

	result := resultSuccess
	select {
	case err := <-done:
		if err != nil {
			m.cfg.Logger.Warnw("graceful stop failed, forcing", "name", name, "error", err)
			result = resultForce
		}
	case <-ctx.Done():
		m.cfg.Logger.Warnw("graceful stop timed out, forcing", "name", name)
		result = resultForce
	}
	if result == resultForce {
		c.ForceStop()
	}
	m.cfg.Metrics.IncComponentStopResult(name, result)
	return result
}

type nopMetrics struct{}

func (nopMetrics) IncStopTotal(string)                   {}
func (nopMetrics) ObserveGracefulDuration(time.Duration) {}
func (nopMetrics) IncServeError(string)                  {}
func (nopMetrics) IncComponentStopResult(string, string) {}

// DefaultIsNormalErr reports errors that mean a component was shut down
// rather than broken.
func DefaultIsNormalErr(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, http.ErrServerClosed) || errors.Is(err, context.Canceled) {
		return true
	}
	return strings.Contains(err.Error(), "use of closed network connection")
}

func errString(err error) string {
	if err == nil {
		return "<nil>"
	}
	return err.Error()
}

func safeName(c Component) string {
	if n := c.Name(); n != "" {
		return n
	}
	return "component"
}
