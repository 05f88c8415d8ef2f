package cache

import (
	"errors"
	"strings"
	"time"
)

type Mode = string

const (
	ModeSingle   Mode = "single"
	ModeSentinel Mode = "sentinel"
	ModeCluster  Mode = "cluster"
)

// Config describes the Redis deployment holding cached extraction results.
// Addrs wins over Addr when both are set.
type Config struct {
	Mode         string        `koanf:"mode"`
	Addr         string        `koanf:"addr"`
	Addrs        []string      `koanf:"addrs"`
	MasterName   string        `koanf:"master_name"`
	DB           int           `koanf:"db"`
	Username     string        `koanf:"username"`
	Password     string        `koanf:"password"`
	DialTimeout  time.Duration `koanf:"dial_timeout"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	PoolSize     int           `koanf:"pool_size"`
	MinIdleConns int           `koanf:"min_idle_conns"`
	TLSEnabled   bool          `koanf:"tls_enabled"`
}

var (
	errAddressRequired      = errors.New("cache: redis address is required")
	errUnsupportedMode      = errors.New("cache: unsupported redis mode")
	errMasterNameRequired   = errors.New("cache: master name is required for sentinel mode")
	errMasterNameUnexpected = errors.New("cache: master name is only valid for sentinel mode")
	errSingleModeAddrCount  = errors.New("cache: single mode requires exactly one address")
	errClusterModeAddrCount = errors.New("cache: cluster mode requires at least two addresses")
	errClusterDBUnsupported = errors.New("cache: db must be 0 in cluster mode")
	errInvalidDB            = errors.New("cache: db must be >= 0")
)

// topology is a Config after trimming, ready to be checked and dialed.
type topology struct {
	mode   Mode
	addrs  []string
	master string
	db     int
}

func (cfg Config) topology() topology {
	t := topology{
		mode:   strings.ToLower(strings.TrimSpace(cfg.Mode)),
		addrs:  trimAll(cfg.Addrs),
		master: strings.TrimSpace(cfg.MasterName),
		db:     cfg.DB,
	}
	if t.mode == "" {
		t.mode = ModeSingle
	}
	if len(t.addrs) == 0 {
		t.addrs = trimAll([]string{cfg.Addr})
	}
	return t
}

func trimAll(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Validate reports the first inconsistency in cfg.
func (cfg Config) Validate() error {
	return cfg.topology().check()
}

func (t topology) check() error {
	switch {
	case t.db < 0:
		return errInvalidDB
	case len(t.addrs) == 0:
		return errAddressRequired
	}

	switch t.mode {
	case ModeSentinel:
		if t.master == "" {
			return errMasterNameRequired
		}
		return nil
	case ModeSingle, ModeCluster:
	default:
		return errUnsupportedMode
	}

	if t.master != "" {
		return errMasterNameUnexpected
	}
	if t.mode == ModeSingle {
		if len(t.addrs) != 1 {
			return errSingleModeAddrCount
		}
		return nil
	}
	if len(t.addrs) < 2 {
		return errClusterModeAddrCount
	}
	if t.db != 0 {
		return errClusterDBUnsupported
	}
	return nil
}
