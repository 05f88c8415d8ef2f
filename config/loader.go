package config

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/vortex-fintech/go-contact/netutil"
	"github.com/vortex-fintech/go-contact/validator"
)

const DefaultEnvPrefix = "CONTACT_"

// ErrInvalid wraps every validation failure returned by Load.
var ErrInvalid = errors.New("config: invalid")

type options struct {
	prefix    string
	file      string
	overrides map[string]any
}

type Option func(*options)

// WithEnvPrefix changes the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(o *options) { o.prefix = prefix }
}

// WithOverrides applies values by koanf path ("extract.timeout") after the
// environment, e.g. from command line flags.
func WithOverrides(values map[string]any) Option {
	return func(o *options) { o.overrides = values }
}

// Load merges Default, an optional YAML file, the environment and overrides,
// in that order.
// CONTACT_EXTRACT_TIMEOUT=100ms sets extract.timeout; list values are comma
// separated.
func Load(opts ...Option) (*Config, error) {
	o := options{prefix: DefaultEnvPrefix}
	for _, opt := range opts {
		opt(&o)
	}

	k := koanf.New(".")
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}
	if o.file != "" {
		if err := loadFile(k, o.file); err != nil {
			return nil, err
		}
	}

	envToPath := EnvMappings(o.prefix)
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: o.prefix,
		TransformFunc: func(key, value string) (string, any) {
			return envToPath[key], value
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("config: load environment: %w", err)
	}

	for _, path := range sortedKeys(o.overrides) {
		if err := k.Set(path, o.overrides[path]); err != nil {
			return nil, fmt.Errorf("config: override %s: %w", path, err)
		}
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &cfg,
			TagName:          "koanf",
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}

	normalize(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func normalize(cfg *Config) {
	cfg.Env = strings.ToLower(strings.TrimSpace(cfg.Env))
	if cfg.Extract.Timeout > 0 {
		cfg.Extract.Timeout = netutil.ClampTimeout(cfg.Extract.Timeout, MinTimeout, MaxTimeout, DefaultTimeout)
	}

	titles := cfg.Extract.JobTitles[:0]
	for _, t := range cfg.Extract.JobTitles {
		if t = strings.TrimSpace(t); t != "" {
			titles = append(titles, t)
		}
	}
	if len(titles) == 0 {
		titles = nil
	}
	cfg.Extract.JobTitles = titles
}

// Validate checks struct rules and, when the cache is enabled, the Redis
// topology.
func Validate(cfg *Config) error {
	if violations := validator.Validate(cfg); violations != nil {
		return fmt.Errorf("%w: %s", ErrInvalid, formatViolations(violations))
	}
	if cfg.Cache.Enabled {
		if err := cfg.Cache.Redis.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalid, err)
		}
	}
	return nil
}

func formatViolations(v map[string]string) string {
	parts := make([]string, 0, len(v))
	for _, field := range sortedKeys(v) {
		parts = append(parts, field+"="+v[field])
	}
	return strings.Join(parts, ", ")
}

// EnvMappings lists every environment variable Load understands, mapped to
// its koanf path.
func EnvMappings(prefix string) map[string]string {
	out := make(map[string]string)
	walkKeys(reflect.TypeOf(Config{}), "", func(path string) {
		out[prefix+strings.ToUpper(strings.ReplaceAll(path, ".", "_"))] = path
	})
	return out
}

var durationType = reflect.TypeOf(time.Duration(0))

func walkKeys(t reflect.Type, parent string, visit func(string)) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
		if name == "" || name == "-" {
			continue
		}
		path := name
		if parent != "" {
			path = parent + "." + name
		}
		if f.Type.Kind() == reflect.Struct && f.Type != durationType {
			walkKeys(f.Type, path, visit)
			continue
		}
		visit(path)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
