package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/alnah/go-specdoc/internal/config"
	"github.com/alnah/go-specdoc/internal/hints"
)

// envConfig holds configuration from SPECDOC_* environment variables.
// Precedence: CLI flags > env vars > config file > defaults.
type envConfig struct {
	ConfigPath  string        // SPECDOC_CONFIG: config file name or path
	Timeout     time.Duration // SPECDOC_TIMEOUT: per-document timeout
	InputDir    string        // SPECDOC_INPUT_DIR: default input directory
	OutputDir   string        // SPECDOC_OUTPUT_DIR: default output directory
	Workers     int           // SPECDOC_WORKERS: parallel workers
	Interpreter string        // SPECDOC_INTERPRETER: interpreter for --filter scripts
	Language    string        // SPECDOC_LANGUAGE: grammar heading language
}

// knownEnvVars lists valid SPECDOC_* environment variables.
var knownEnvVars = map[string]bool{
	"SPECDOC_CONFIG":      true,
	"SPECDOC_TIMEOUT":     true,
	"SPECDOC_INPUT_DIR":   true,
	"SPECDOC_OUTPUT_DIR":  true,
	"SPECDOC_WORKERS":     true,
	"SPECDOC_INTERPRETER": true,
	"SPECDOC_LANGUAGE":    true,
	"SPECDOC_CONTAINER":   true,
}

// loadEnvConfig reads configuration from environment variables.
// Malformed numeric values are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath:  os.Getenv("SPECDOC_CONFIG"),
		InputDir:    os.Getenv("SPECDOC_INPUT_DIR"),
		OutputDir:   os.Getenv("SPECDOC_OUTPUT_DIR"),
		Interpreter: os.Getenv("SPECDOC_INTERPRETER"),
		Language:    os.Getenv("SPECDOC_LANGUAGE"),
	}

	if timeout := os.Getenv("SPECDOC_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := os.Getenv("SPECDOC_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized SPECDOC_* variables.
func warnUnknownEnvVars(log *logrus.Logger) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "SPECDOC_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				log.WithField("variable", name).Warn("unknown environment variable (typo?)")
			}
		}
	}
}

// applyEnvConfig fills empty config values from the environment.
// Timeout, workers and interpreter are resolved against flags separately.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.InputDir != "" && cfg.Input.DefaultDir == "" {
		cfg.Input.DefaultDir = env.InputDir
	}
	if env.OutputDir != "" && cfg.Output.DefaultDir == "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.Language != "" && cfg.Grammar.Language == "" {
		cfg.Grammar.Language = env.Language
	}
}

// loadConfig loads the config named by the flag, else SPECDOC_CONFIG,
// else the defaults, and applies environment overrides.
func loadConfig(flagValue string, env *envConfig) (*config.Config, error) {
	name := flagValue
	if name == "" {
		name = env.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		var err error
		cfg, err = config.LoadConfig(name)
		if err != nil {
			if errors.Is(err, config.ErrConfigNotFound) {
				return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
			}
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	applyEnvConfig(env, cfg)
	return cfg, nil
}
