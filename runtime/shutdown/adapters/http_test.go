package adapters

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"
)

func listen(t *testing.T) net.Listener {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { _ = ln.Close() })
	return ln
}

func TestHTTP_ServeAndStop(t *testing.T) {
	t.Parallel()
	ln := listen(t)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, "OK") })
	adapter := &HTTP{Srv: &http.Server{Handler: mux}, Lis: ln, NameStr: "metrics-http"}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	serveErr := make(chan error, 1)
	go func() { serveErr <- adapter.Serve(ctx) }()

	time.Sleep(50 * time.Millisecond)

	client := http.Client{Timeout: 500 * time.Millisecond}
	resp, err := client.Get("http://" + ln.Addr().String() + "/health")
	if err != nil {
		t.Fatalf("http get: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if string(body) != "OK" {
		t.Fatalf("unexpected body %q", body)
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Second)
	defer stopCancel()
	if err := adapter.Stop(stopCtx); err != nil {
		t.Fatalf("stop: %v", err)
	}

	select {
	case err := <-serveErr:
		if err != http.ErrServerClosed {
			t.Fatalf("expected ErrServerClosed, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not exit after Stop")
	}
}

func TestHTTP_ServeReturnsOnContextDone(t *testing.T) {
	t.Parallel()
	adapter := &HTTP{Srv: &http.Server{Handler: http.NewServeMux()}, Lis: listen(t)}

	ctx, cancel := context.WithCancel(context.Background())
	serveErr := make(chan error, 1)
	go func() { serveErr <- adapter.Serve(ctx) }()
	cancel()

	select {
	case err := <-serveErr:
		if err != context.Canceled {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not exit after cancel")
	}
	adapter.ForceStop()
}

func TestHTTP_ForceStop(t *testing.T) {
	t.Parallel()
	adapter := &HTTP{Srv: &http.Server{Handler: http.NewServeMux()}, Lis: listen(t)}

	done := make(chan error, 1)
	go func() { done <- adapter.Serve(context.Background()) }()

	time.Sleep(50 * time.Millisecond)
	adapter.ForceStop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not exit after ForceStop")
	}
}

func TestHTTP_NilServer(t *testing.T) {
	t.Parallel()
	adapter := &HTTP{}
	if err := adapter.Serve(context.Background()); err == nil {
		t.Fatal("expected error for nil server")
	}
	if err := adapter.Stop(context.Background()); err == nil {
		t.Fatal("expected error for nil server")
	}
	adapter.ForceStop()
}

func TestHTTP_Name(t *testing.T) {
	t.Parallel()
	if got := (&HTTP{}).Name(); got != "http" {
		t.Fatalf("expected default name 'http', got %q", got)
	}
	if got := (&HTTP{NameStr: "metrics-http"}).Name(); got != "metrics-http" {
		t.Fatalf("expected custom name, got %q", got)
	}
}
