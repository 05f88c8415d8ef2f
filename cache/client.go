package cache

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vortex-fintech/go-contact/netutil"
	"github.com/vortex-fintech/go-contact/retry"
)

const (
	defaultPingTimeout = 3 * time.Second
	minPingTimeout     = 10 * time.Millisecond
)

// NewUniversal builds the underlying client; tests swap it.
var NewUniversal = func(opt *redis.UniversalOptions) redis.UniversalClient {
	return redis.NewUniversalClient(opt)
}

// NewClient dials the deployment described by cfg and returns once a PING
// succeeds under policy. An invalid cfg fails with a permanent error and
// nothing is dialed.
func NewClient(ctx context.Context, cfg Config, policy retry.Policy) (redis.UniversalClient, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	topo := cfg.topology()
	if err := topo.check(); err != nil {
		return nil, retry.Permanent(err)
	}

	rdb := NewUniversal(cfg.universalOptions(topo))
	if err := waitReady(ctx, rdb, policy, pingTimeout(cfg.DialTimeout)); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("cache: ping %s: %w", strings.Join(topo.addrs, ","), err)
	}
	return rdb, nil
}

func (cfg Config) universalOptions(topo topology) *redis.UniversalOptions {
	opt := &redis.UniversalOptions{
		Addrs:        topo.addrs,
		MasterName:   topo.master,
		DB:           topo.db,
		Username:     cfg.Username,
		Password:     cfg.Password,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if cfg.TLSEnabled {
		opt.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return opt
}

// pingTimeout bounds each PING attempt by the dial timeout when one is set.
func pingTimeout(dial time.Duration) time.Duration {
	if dial == 0 {
		return defaultPingTimeout
	}
	return netutil.SanitizeTimeout(dial, minPingTimeout, defaultPingTimeout)
}

func waitReady(ctx context.Context, rdb redis.UniversalClient, policy retry.Policy, perTry time.Duration) error {
	return policy.Do(ctx, func() error {
		pctx, cancel := context.WithTimeout(ctx, perTry)
		defer cancel()
		return rdb.Ping(pctx).Err()
	})
}
