package config

import (
	"time"

	"github.com/vortex-fintech/go-contact/cache"
)

// Config is the runtime configuration of the extraction service.
type Config struct {
	Service string        `koanf:"service" validate:"required"`
	Env     string        `koanf:"env" validate:"oneof=development debug production test"`
	Extract ExtractConfig `koanf:"extract"`
	Cache   CacheConfig   `koanf:"cache"`
	Metrics MetricsConfig `koanf:"metrics"`
}

type ExtractConfig struct {
	Timeout        time.Duration `koanf:"timeout" validate:"gte=0"`
	MaxConcurrency int           `koanf:"max_concurrency" validate:"min=1,max=1024"`
	// JobTitles replaces the built-in vocabulary when set.
	JobTitles            []string `koanf:"job_titles" validate:"max=512,dive,min=1,max=64"`
	CompatibilityFolding bool     `koanf:"compatibility_folding"`
}

// CacheConfig enables the Redis result cache. A non-empty KeySecret keys
// entry names with HMAC instead of plain SHA-256.
type CacheConfig struct {
	Enabled   bool          `koanf:"enabled"`
	TTL       time.Duration `koanf:"ttl" validate:"gte=0"`
	KeyPrefix string        `koanf:"key_prefix"`
	KeySecret string        `koanf:"key_secret"`
	Redis     cache.Config  `koanf:"redis"`
}

type MetricsConfig struct {
	Namespace string `koanf:"namespace" validate:"required"`
	Subsystem string `koanf:"subsystem"`
	// Addr serves /metrics and /health when set, e.g. ":9090".
	Addr string `koanf:"addr" validate:"omitempty,hostname_port"`
}

const (
	DefaultTimeout = 250 * time.Millisecond
	MinTimeout     = time.Millisecond
	MaxTimeout     = 30 * time.Second
)

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Service: "contact-extract",
		Env:     "production",
		Extract: ExtractConfig{
			Timeout:        DefaultTimeout,
			MaxConcurrency: 8,
		},
		Cache: CacheConfig{
			TTL:       cache.DefaultTTL,
			KeyPrefix: cache.DefaultKeyPrefix,
			Redis: cache.Config{
				Mode:        cache.ModeSingle,
				Addr:        "localhost:6379",
				DialTimeout: 3 * time.Second,
			},
		},
		Metrics: MetricsConfig{
			Namespace: "contact",
			Subsystem: "extract",
		},
	}
}
