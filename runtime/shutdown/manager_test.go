package shutdown

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/vortex-fintech/go-contact/logger"
)

type fakeComponent struct {
	name       string
	waitForCtx bool
	serveErr   error

	stopDelay time.Duration
	stopErr   error

	stopOnce  sync.Once
	stoppedCh chan struct{}
	forced    atomic.Bool
}

func newFakeComponent(name string) *fakeComponent {
	return &fakeComponent{name: name, stoppedCh: make(chan struct{})}
}

func (f *fakeComponent) Name() string { return f.name }

func (f *fakeComponent) Serve(ctx context.Context) error {
	if !f.waitForCtx {
		return f.serveErr
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-f.stoppedCh:
		return nil
	}
}

func (f *fakeComponent) Stop(ctx context.Context) error {
	if f.stopDelay > 0 {
		t := time.NewTimer(f.stopDelay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
	f.stopOnce.Do(func() { close(f.stoppedCh) })
	return f.stopErr
}

func (f *fakeComponent) ForceStop() {
	f.forced.Store(true)
	f.stopOnce.Do(func() { close(f.stoppedCh) })
}

type fakeMetrics struct {
	mu sync.Mutex

	stopTotal   map[string]int
	serveErrors map[string]int
	stopResult  map[string]map[string]int
	durations   []time.Duration
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{
		stopTotal:   map[string]int{},
		serveErrors: map[string]int{},
		stopResult:  map[string]map[string]int{},
	}
}

func (m *fakeMetrics) IncStopTotal(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopTotal[result]++
}

func (m *fakeMetrics) ObserveGracefulDuration(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.durations = append(m.durations, d)
}

func (m *fakeMetrics) IncServeError(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.serveErrors[name]++
}

func (m *fakeMetrics) IncComponentStopResult(name, result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.stopResult[name]; !ok {
		m.stopResult[name] = map[string]int{}
	}
	m.stopResult[name][result]++
}

func runAsync(ctx context.Context, m *Manager) <-chan error {
	ch := make(chan error, 1)
	go func() { ch <- m.Run(ctx) }()
	return ch
}

func Test_Run_NoComponents_OK(t *testing.T) {
	t.Parallel()
	m := New(Config{Timeout: 100 * time.Millisecond})
	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func Test_Run_FinishedComponentStopsOthers(t *testing.T) {
	t.Parallel()
	met := newFakeMetrics()
	m := New(Config{Timeout: 300 * time.Millisecond, Metrics: met})

	stream := newFakeComponent("stream")
	server := newFakeComponent("metrics-http")
	server.waitForCtx = true
	m.Add(stream)
	m.Add(server)

	select {
	case err := <-runAsync(context.Background(), m):
		if err != nil {
			t.Fatalf("expected nil, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after a component finished")
	}
	if server.forced.Load() {
		t.Fatal("server should stop gracefully, not force")
	}
	if met.stopResult["metrics-http"]["success"] != 1 {
		t.Fatalf("expected per-component success, got %v", met.stopResult)
	}
}

func Test_Run_NormalCloseIgnored(t *testing.T) {
	t.Parallel()
	m := New(Config{Timeout: 100 * time.Millisecond})
	s := newFakeComponent("http")
	s.serveErr = http.ErrServerClosed
	m.Add(s)
	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func Test_Run_ReturnsNonNormalError(t *testing.T) {
	t.Parallel()
	want := errors.New("boom")
	met := newFakeMetrics()
	m := New(Config{Timeout: 100 * time.Millisecond, Metrics: met})

	bad := newFakeComponent("bad")
	bad.serveErr = want
	other := newFakeComponent("other")
	other.waitForCtx = true
	m.Add(bad)
	m.Add(other)

	if err := m.Run(context.Background()); !errors.Is(err, want) {
		t.Fatalf("expected %v, got %v", want, err)
	}
	if met.serveErrors["bad"] != 1 {
		t.Fatalf("expected serve error metric, got %v", met.serveErrors)
	}
}

func Test_Run_GracefulOnContextCancel(t *testing.T) {
	t.Parallel()
	m := New(Config{Timeout: 200 * time.Millisecond})
	s := newFakeComponent("srv")
	s.waitForCtx = true
	m.Add(s)

	ctx, cancel := context.WithCancel(context.Background())
	done := runAsync(ctx, m)
	time.Sleep(20 * time.Millisecond)
	cancel()

	if err := <-done; err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if s.forced.Load() {
		t.Fatal("unexpected force on graceful cancel")
	}
}

func Test_Stop_ForceOnTimeout(t *testing.T) {
	t.Parallel()
	met := newFakeMetrics()
	m := New(Config{Timeout: 100 * time.Millisecond, Metrics: met})
	s := newFakeComponent("slow")
	s.waitForCtx = true
	s.stopDelay = 300 * time.Millisecond
	m.Add(s)

	ctx, cancel := context.WithCancel(context.Background())
	done := runAsync(ctx, m)
	time.Sleep(20 * time.Millisecond)
	cancel()
	<-done

	if !s.forced.Load() {
		t.Fatal("expected ForceStop on graceful timeout")
	}
	if met.stopTotal["force"] != 1 || met.stopResult["slow"]["force"] != 1 {
		t.Fatalf("expected force metrics, got %v %v", met.stopTotal, met.stopResult)
	}
	if len(met.durations) != 1 {
		t.Fatalf("expected one duration sample, got %d", len(met.durations))
	}
}

func Test_Stop_ForceWhenStopFails(t *testing.T) {
	t.Parallel()
	m := New(Config{Timeout: 300 * time.Millisecond})
	s := newFakeComponent("err-on-stop")
	s.waitForCtx = true
	s.stopErr = errors.New("stop failed")
	m.Add(s)

	ctx, cancel := context.WithCancel(context.Background())
	done := runAsync(ctx, m)
	time.Sleep(20 * time.Millisecond)
	cancel()
	<-done

	if !s.forced.Load() {
		t.Fatal("expected ForceStop when Stop returns an error")
	}
}

func Test_ZeroTimeout_ImmediateForce(t *testing.T) {
	t.Parallel()
	m := New(Config{})
	s := newFakeComponent("z")
	s.waitForCtx = true
	s.stopDelay = 50 * time.Millisecond
	m.Add(s)

	ctx, cancel := context.WithCancel(context.Background())
	done := runAsync(ctx, m)
	time.Sleep(10 * time.Millisecond)
	cancel()
	<-done

	if !s.forced.Load() {
		t.Fatal("expected immediate force with zero timeout")
	}
}

func Test_Stop_IsIdempotent(t *testing.T) {
	t.Parallel()
	met := newFakeMetrics()
	m := New(Config{Timeout: 100 * time.Millisecond, Metrics: met})
	m.Add(newFakeComponent("srv"))

	m.Stop()
	m.Stop()

	if met.stopTotal["success"] != 1 {
		t.Fatalf("expected a single stop, got %v", met.stopTotal)
	}
}

func Test_Add_IgnoresNil(t *testing.T) {
	t.Parallel()
	m := New(Config{})
	m.Add(nil)
	if len(m.components) != 0 {
		t.Fatalf("expected no components, got %d", len(m.components))
	}
}

func Test_SafeName_FallbackOnEmptyName(t *testing.T) {
	t.Parallel()
	core, logs := observer.New(zap.InfoLevel)
	m := New(Config{Timeout: 100 * time.Millisecond, Logger: logger.FromZap(zap.New(core), "")})
	m.Add(newFakeComponent(""))

	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}

	started := logs.FilterMessage("component start").All()
	if len(started) != 1 {
		t.Fatalf("expected one start event, got %d", len(started))
	}
	if got := started[0].ContextMap()["name"]; got != "component" {
		t.Fatalf("expected fallback name, got %v", got)
	}
}

func TestDefaultIsNormalErr(t *testing.T) {
	t.Parallel()
	cases := []struct {
		err  error
		want bool
	}{
		{nil, true},
		{http.ErrServerClosed, true},
		{context.Canceled, true},
		{errors.New("accept tcp: use of closed network connection"), true},
		{context.DeadlineExceeded, false},
		{errors.New("boom"), false},
	}
	for _, c := range cases {
		if got := DefaultIsNormalErr(c.err); got != c.want {
			t.Fatalf("DefaultIsNormalErr(%v) = %v, want %v", c.err, got, c.want)
		}
	}
}
