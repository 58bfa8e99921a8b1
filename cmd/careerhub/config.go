package main

import (
	"fmt"

	"github.com/jonathan/career-hub/internal/config"
)

// loadConfig resolves configuration in order: file, environment, defaults.
func loadConfig(path string) (config.Config, error) {
	cfg := &config.Config{}
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	if err := cfg.ApplyEnv(); err != nil {
		return config.Config{}, fmt.Errorf("config error: %w", err)
	}

	merged := cfg.MergeWithDefaults(config.Defaults())
	if err := merged.Validate(); err != nil {
		return config.Config{}, err
	}
	return merged, nil
}
