package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// config is the resolved CLI configuration.
type config struct {
	Format   string // Format name; empty means infer from the file extension
	LogLevel string
	Color    string // auto, always or never
}

func defaultConfig() config {
	return config{
		LogLevel: "warn",
		Color:    "auto",
	}
}

type fileConfig struct {
	Format   string `toml:"format"`
	LogLevel string `toml:"log_level"`
	Color    string `toml:"color"`
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config{}, fmt.Errorf("load spanctl config: %w", err)
	}

	if meta.IsDefined("format") {
		name := strings.ToLower(strings.TrimSpace(raw.Format))
		if _, ok := formats[name]; !ok {
			return config{}, fmt.Errorf("config format %q: %w", raw.Format, errUnknownFormat)
		}
		cfg.Format = name
	}

	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}

	if meta.IsDefined("color") {
		mode := strings.ToLower(strings.TrimSpace(raw.Color))
		switch mode {
		case "auto", "always", "never":
			cfg.Color = mode
		default:
			return config{}, fmt.Errorf("config color %q: want auto, always or never", raw.Color)
		}
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return config{}, fmt.Errorf("load spanctl config: unknown key %s", undecoded[0])
	}

	return cfg, nil
}
