package main

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config is the sample server configuration, loaded from an optional YAML
// file with SAMPLE_* environment overrides (SAMPLE_SERVER__ADDR and friends).
type Config struct {
	Server ServerConfig `koanf:"server"`
	API    APIConfig    `koanf:"api"`
}

// ServerConfig selects the listen address and the host framework.
type ServerConfig struct {
	Addr      string `koanf:"addr"`
	Framework string `koanf:"framework"` // http | gin | echo
}

// APIConfig feeds the OpenAPI document's info block.
type APIConfig struct {
	Title       string `koanf:"title"`
	Version     string `koanf:"version"`
	Description string `koanf:"description"`
}

func loadConfig(path string) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]any{
		"server.addr":      ":8080",
		"server.framework": "http",
		"api.title":        "Sample Items API",
		"api.version":      "1.0.0",
		"api.description":  "Demonstration API served through interchangeable framework shims.",
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider("SAMPLE_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "SAMPLE_")), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	switch cfg.Server.Framework {
	case "http", "gin", "echo":
	default:
		return nil, fmt.Errorf("unsupported server.framework %q (must be http, gin, or echo)", cfg.Server.Framework)
	}

	return &cfg, nil
}
