package config

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	env "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "ANALYTICS_"

// envListKeys have no default value but may be set from the environment as
// comma-separated lists: ANALYTICS_LOADER_NA_VALUES="-,n.a.". Map-valued
// keys such as loader.header_map are file-only.
var envListKeys = []string{"loader.na_values", "validate.dedup_keys"}

// Load reads configuration in three layers (highest precedence last):
//
//  1. Built-in defaults
//  2. The file at path, if path is non-empty (JSON for .json, YAML otherwise)
//  3. Environment variables with the ANALYTICS_ prefix
//
// Environment variables are matched against the known keys so that
// underscores inside key names survive:
//
//	ANALYTICS_PLOT_PATH                 -> plot.path
//	ANALYTICS_STORAGE_AUTO_CREATE_TABLE -> storage.auto_create_table
//
// Load does not validate; call ValidatePipeline on the result.
func Load(path string) (*Pipeline, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path != "" {
		var parser koanf.Parser = yaml.Parser()
		if strings.EqualFold(filepath.Ext(path), ".json") {
			parser = json.Parser()
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("loading config %s: %w", path, err)
		}
	}

	envLookup := buildEnvLookup(append(k.Keys(), envListKeys...))
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
			if koanfKey, ok := envLookup[key]; ok {
				if slices.Contains(envListKeys, koanfKey) {
					return koanfKey, splitList(value)
				}
				return koanfKey, value
			}
			return strings.ReplaceAll(key, "_", "."), value
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	var cfg Pipeline
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return &cfg, nil
}

// buildEnvLookup maps env-style keys ("plot_path") to koanf keys
// ("plot.path").
func buildEnvLookup(keys []string) map[string]string {
	lookup := make(map[string]string, len(keys))
	for _, key := range keys {
		lookup[strings.ReplaceAll(key, ".", "_")] = key
	}
	return lookup
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}
