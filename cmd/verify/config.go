package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/chainmeta/metacheck/metadata"
)

type config struct {
	Endpoint string
	Timeout  time.Duration
	Version  metadata.Version // 0 means trust the header discriminant
}

func defaultConfig() config {
	return config{
		Endpoint: "ws://127.0.0.1:9944",
		Timeout:  10 * time.Second,
	}
}

type fileConfig struct {
	Endpoint string `toml:"endpoint"`
	Timeout  string `toml:"timeout"`
	Version  int    `toml:"version"`
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config{}, fmt.Errorf("load config: %w", err)
	}

	if meta.IsDefined("endpoint") {
		endpoint := strings.TrimSpace(raw.Endpoint)
		if endpoint != "" {
			cfg.Endpoint = endpoint
		}
	}

	if meta.IsDefined("timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Timeout))
		if err != nil {
			return config{}, fmt.Errorf("parse timeout: %w", err)
		}
		cfg.Timeout = d
	}

	if meta.IsDefined("version") {
		v := metadata.Version(raw.Version)
		switch v {
		case metadata.V1, metadata.V2, metadata.V3:
			cfg.Version = v
		default:
			return config{}, fmt.Errorf("config version %d is not a known schema generation", raw.Version)
		}
	}

	return cfg, nil
}
