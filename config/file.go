package config

import (
	"fmt"
	"os"

	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"
)

// WithFile merges a YAML file over the defaults. The environment and
// overrides still take precedence.
func WithFile(path string) Option {
	return func(o *options) { o.file = path }
}

// loadFile sets every leaf of the YAML document by its dotted path, so keys
// absent from the file keep their defaults. Unknown keys are rejected.
func loadFile(k *koanf.Koanf, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	known := make(map[string]struct{})
	for _, p := range EnvMappings("") {
		known[p] = struct{}{}
	}

	flat := make(map[string]any)
	flatten("", doc, flat)
	for _, key := range sortedKeys(flat) {
		if _, ok := known[key]; !ok {
			return fmt.Errorf("%w: unknown key %q in %s", ErrInvalid, key, path)
		}
		if err := k.Set(key, flat[key]); err != nil {
			return fmt.Errorf("config: set %s from %s: %w", key, path, err)
		}
	}
	return nil
}

func flatten(prefix string, m map[string]any, out map[string]any) {
	for key, v := range m {
		if prefix != "" {
			key = prefix + "." + key
		}
		switch val := v.(type) {
		case nil:
		case map[string]any:
			flatten(key, val, out)
		default:
			out[key] = val
		}
	}
}
