package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/vortex-fintech/go-contact/extractsvc"
	"github.com/vortex-fintech/go-contact/runtime/shutdown"
	"github.com/vortex-fintech/go-contact/runtime/shutdown/adapters"
)

const defaultMetricsAddr = "127.0.0.1:9090"

// CLI is the command line surface.
type CLI struct {
	Globals

	Extract ExtractCmd `cmd:"" default:"withargs" help:"Extract contact fields from files or stdin and print one JSON result per text."`
	Watch   WatchCmd   `cmd:"" help:"Extract every stdin line as it arrives while serving /metrics and /health."`
}

// Globals override configuration loaded from CONTACT_* variables.
type Globals struct {
	Config      string        `type:"existingfile" env:"CONTACT_CONFIG" help:"YAML configuration file."`
	Env         string        `help:"Logger environment (development, debug, production, test)."`
	Timeout     time.Duration `help:"Per-text extraction timeout."`
	Concurrency int           `help:"Maximum parallel extractions."`
	Fold        bool          `help:"Fold full-width and compatibility characters before matching."`
	Redact      bool          `help:"Mask contact values in the printed results."`
}

// overrides maps set flags onto koanf paths.
func (g *Globals) overrides() map[string]any {
	out := map[string]any{}
	if g.Env != "" {
		out["env"] = g.Env
	}
	if g.Timeout != 0 {
		out["extract.timeout"] = g.Timeout
	}
	if g.Concurrency != 0 {
		out["extract.max_concurrency"] = g.Concurrency
	}
	if g.Fold {
		out["extract.compatibility_folding"] = true
	}
	return out
}

// ExtractCmd handles one-shot extraction.
type ExtractCmd struct {
	Files []string `arg:"" optional:"" type:"existingfile" help:"Files to read; each file is one text. Reads stdin when omitted."`
	Lines bool     `help:"Treat every non-empty stdin line as a separate text."`
}

func (c *ExtractCmd) Run(deps *Dependencies) error {
	texts, err := c.texts(deps.Stdin)
	if err != nil {
		return err
	}

	results, err := deps.Service.ExtractAll(deps.Ctx, texts)
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}

	enc := json.NewEncoder(deps.Stdout)
	for _, res := range results {
		if err := enc.Encode(deps.present(res)); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
	}
	return nil
}

func (c *ExtractCmd) texts(stdin io.Reader) ([]string, error) {
	if len(c.Files) > 0 {
		out := make([]string, 0, len(c.Files))
		for _, path := range c.Files {
			b, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", path, err)
			}
			out = append(out, string(b))
		}
		return out, nil
	}

	b, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	if !c.Lines {
		return []string{string(b)}, nil
	}

	var out []string
	for _, line := range strings.Split(string(b), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out, nil
}

// WatchCmd streams stdin next to the metrics server. Timeouts are reported
// per line and do not stop the stream; EOF or a signal stops both.
type WatchCmd struct {
	MetricsAddr     string        `help:"Listen address for /metrics and /health. Defaults to the configured metrics address."`
	ShutdownTimeout time.Duration `help:"Grace period for in-flight work on exit." default:"5s"`
	Rate            float64       `help:"Maximum lines extracted per second; 0 means unlimited."`
}

func (c *WatchCmd) Run(deps *Dependencies) error {
	addr := c.MetricsAddr
	if addr == "" {
		addr = deps.Config.Metrics.Addr
	}
	if addr == "" {
		addr = defaultMetricsAddr
	}
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	deps.Log.Infow("serving metrics", "addr", lis.Addr().String())

	mgr := shutdown.New(shutdown.Config{
		Timeout: c.ShutdownTimeout,
		Logger:  deps.Log,
		Metrics: deps.ShutdownMetrics,
	})
	mgr.Add(&adapters.HTTP{
		Srv:     &http.Server{Handler: deps.MetricsHandler, ReadHeaderTimeout: 5 * time.Second},
		Lis:     lis,
		NameStr: "metrics-http",
	})
	mgr.Add(newLineStream(deps, c.Rate))
	return mgr.Run(deps.Ctx)
}

// lineStream extracts every non-empty input line and writes one JSON result
// per line.
type lineStream struct {
	deps     *Dependencies
	enc      *json.Encoder
	limiter  *rate.Limiter
	stop     chan struct{}
	stopOnce sync.Once
}

func newLineStream(deps *Dependencies, perSecond float64) *lineStream {
	s := &lineStream{deps: deps, enc: json.NewEncoder(deps.Stdout), stop: make(chan struct{})}
	if perSecond > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
	return s
}

func (s *lineStream) Name() string { return "stdin-stream" }

func (s *lineStream) Serve(ctx context.Context) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(s.deps.Stdin)
		sc.Buffer(make([]byte, 64*1024), 1024*1024)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-s.stop:
				return
			case <-ctx.Done():
				return
			}
		}
		scanErr <- sc.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stop:
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					if err != nil {
						return fmt.Errorf("read stdin: %w", err)
					}
				default:
				}
				return nil
			}
			if err := s.handle(ctx, line); err != nil {
				return err
			}
		}
	}
}

func (s *lineStream) handle(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}
	}
	res, err := s.deps.Service.Extract(ctx, line)
	if err != nil && !errors.Is(err, extractsvc.ErrTimeout) {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("extract: %w", err)
	}
	if err := s.enc.Encode(s.deps.present(res)); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}

func (s *lineStream) Stop(context.Context) error {
	s.stopOnce.Do(func() { close(s.stop) })
	return nil
}

func (s *lineStream) ForceStop() { _ = s.Stop(context.Background()) }
