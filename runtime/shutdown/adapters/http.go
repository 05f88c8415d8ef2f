package adapters

import (
	"context"
	"errors"
	"net"
	"net/http"
)

var errNilServer = errors.New("http adapter: Srv is nil")

// HTTP runs an *http.Server as a shutdown.Component. Without Lis the server
// listens on Srv.Addr itself.
type HTTP struct {
	Srv     *http.Server
	Lis     net.Listener
	NameStr string
}

func (h *HTTP) Name() string {
	if h.NameStr != "" {
		return h.NameStr
	}
	return "http"
}

// Serve returns when ctx is done or the server exits on its own. Requests
// inherit ctx as their base context.
func (h *HTTP) Serve(ctx context.Context) error {
	if h.Srv == nil {
		return errNilServer
	}
	h.Srv.BaseContext = func(net.Listener) context.Context { return ctx }

	done := make(chan error, 1)
	go func() { done <- h.listen() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *HTTP) listen() error {
	if h.Lis == nil {
		return h.Srv.ListenAndServe()
	}
	return h.Srv.Serve(h.Lis)
}

// Stop drains in-flight requests until ctx expires.
func (h *HTTP) Stop(ctx context.Context) error {
	if h.Srv == nil {
		return errNilServer
	}
	return h.Srv.Shutdown(ctx)
}

// ForceStop closes listeners and connections immediately.
func (h *HTTP) ForceStop() {
	if h.Srv == nil {
		return
	}
	_ = h.Srv.Close()
}
