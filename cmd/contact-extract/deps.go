package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/vortex-fintech/go-contact/cache"
	"github.com/vortex-fintech/go-contact/config"
	"github.com/vortex-fintech/go-contact/contact"
	"github.com/vortex-fintech/go-contact/extractsvc"
	"github.com/vortex-fintech/go-contact/logger"
	"github.com/vortex-fintech/go-contact/metrics"
	"github.com/vortex-fintech/go-contact/retry"
)

// Dependencies is bound into every command's Run method.
type Dependencies struct {
	Ctx    context.Context
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Config          *config.Config
	Log             *logger.Logger
	Service         *extractsvc.Service
	MetricsHandler  http.Handler
	ShutdownMetrics *metrics.ShutdownMetrics
	Redact          bool

	redis redis.UniversalClient
}

// Close releases the Redis client and flushes the logger.
func (d *Dependencies) Close() {
	if d.redis != nil {
		if err := d.redis.Close(); err != nil && d.Log != nil {
			d.Log.Warnw("close redis", "error", err)
		}
	}
	if d.Log != nil {
		d.Log.SafeSync()
	}
}

// present applies output redaction.
func (d *Dependencies) present(res extractsvc.Result) extractsvc.Result {
	if d.Redact {
		res.Record = res.Record.Redacted()
	}
	return res
}

func (m *Main) wire(deps *Dependencies, g *Globals) error {
	opts := []config.Option{config.WithOverrides(g.overrides())}
	if g.Config != "" {
		opts = append(opts, config.WithFile(g.Config))
	}
	if m.EnvPrefix != "" {
		opts = append(opts, config.WithEnvPrefix(m.EnvPrefix))
	}
	cfg, err := config.Load(opts...)
	if err != nil {
		return err
	}
	deps.Config = cfg
	deps.Redact = g.Redact
	deps.Log = logger.NewTo(cfg.Service, cfg.Env, deps.Stderr)

	var extractOpts []contact.Option
	if len(cfg.Extract.JobTitles) > 0 {
		extractOpts = append(extractOpts, contact.WithJobTitles(cfg.Extract.JobTitles...))
	}
	if cfg.Extract.CompatibilityFolding {
		extractOpts = append(extractOpts, contact.WithCompatibilityFolding())
	}
	ext, err := contact.New(extractOpts...)
	if err != nil {
		return fmt.Errorf("build extractor: %w", err)
	}
	deps.Log.Debugw("extractor ready",
		"recognizers", ext.Recognizers(),
		"compatibility_folding", cfg.Extract.CompatibilityFolding,
	)

	var svc *extractsvc.Service
	var em *metrics.ExtractionMetrics
	handler, _, err := metrics.New(metrics.Options{
		Register: func(reg prometheus.Registerer) error {
			created, rerr := metrics.NewExtractionMetrics(reg, cfg.Metrics.Namespace, cfg.Metrics.Subsystem)
			if rerr != nil {
				return rerr
			}
			em = created
			deps.ShutdownMetrics, rerr = metrics.NewShutdownMetrics(reg, cfg.Metrics.Namespace, "shutdown")
			return rerr
		},
		Health: func(ctx context.Context) error {
			return svc.Health(ctx)
		},
	})
	if err != nil {
		return err
	}
	deps.MetricsHandler = handler

	svcOpts := []extractsvc.Option{
		extractsvc.WithLogger(deps.Log),
		extractsvc.WithMetrics(em),
		extractsvc.WithTimeout(cfg.Extract.Timeout),
		extractsvc.WithMaxConcurrency(cfg.Extract.MaxConcurrency),
	}
	if cfg.Cache.Enabled {
		rdb, err := cache.NewClient(deps.Ctx, cfg.Cache.Redis, retry.InitPolicy)
		switch {
		case retry.IsPermanent(err):
			return err
		case err != nil:
			deps.Log.Warnw("result cache unavailable, continuing without it", "error", err)
		default:
			deps.redis = rdb
			svcOpts = append(svcOpts, extractsvc.WithCache(cache.New(rdb,
				cache.WithTTL(cfg.Cache.TTL),
				cache.WithKeyPrefix(cfg.Cache.KeyPrefix),
				cache.WithScope(cacheScope(cfg.Extract)),
				cache.WithSecret([]byte(cfg.Cache.KeySecret)),
			)))
		}
	}

	svc = extractsvc.New(ext, svcOpts...)
	deps.Service = svc
	return nil
}

// cacheScope keeps entries from extractors with different vocabularies or
// folding apart.
func cacheScope(c config.ExtractConfig) string {
	return strings.Join(c.JobTitles, "\x1E") + "|fold=" + strconv.FormatBool(c.CompatibilityFolding)
}
