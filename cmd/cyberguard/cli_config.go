package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/minhyannv/cyberguard-go/pkg/config"
)

const dotEnvPath = ".env"

type cliFlags struct {
	configPath string
	verbose    bool
	endpoint   string
}

// parseCLIConfig layers defaults, the optional YAML file, .env and the
// process environment, then validates the result.
func parseCLIConfig(flags cliFlags, getenv func(string) string) (config.Config, error) {
	if err := loadDotEnv(dotEnvPath); err != nil {
		return config.Config{}, fmt.Errorf("load %s: %w", dotEnvPath, err)
	}

	cfg := config.DefaultConfig()
	if flags.configPath != "" {
		var err error
		cfg, err = config.LoadFile(flags.configPath, cfg)
		if err != nil {
			return config.Config{}, err
		}
	}
	cfg = config.ApplyEnv(cfg, getenv)
	if flags.verbose {
		cfg.Verbose = true
	}
	if flags.endpoint != "" {
		cfg.Endpoint = flags.endpoint
	}

	cfg = config.Normalize(cfg)
	if err := config.Validate(cfg); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// loadDotEnv loads environment variables from path. Missing files are ignored.
// Variables already set in the process environment win.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
