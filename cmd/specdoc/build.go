package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/alnah/go-specdoc"
	"github.com/alnah/go-specdoc/internal/config"
)

// runBuild orchestrates the build command.
func runBuild(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseBuildFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	setLogLevel(env.Logger, flags.common.quiet, flags.common.verbose)

	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	envCfg := loadEnvConfig()
	warnUnknownEnvVars(env.Logger)

	cfg, err := loadConfig(flags.common.config, envCfg)
	if err != nil {
		return err
	}

	timeout, err := resolveTimeout(flags.timeout, envCfg.Timeout, cfg)
	if err != nil {
		return err
	}
	if flags.hooks.interpreter == "" {
		flags.hooks.interpreter = envCfg.Interpreter
	}
	htmlOnly := flags.htmlOnly || cfg.Output.HTMLOnly

	inputs, err := resolveInputs(positional, cfg)
	if err != nil {
		return err
	}
	outputDir := flags.output
	if outputDir == "" {
		outputDir = cfg.ResolvePath(cfg.Output.DefaultDir)
	}

	files, err := discoverFiles(inputs, cfg.Input.Include, outputDir, htmlOnly)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no markdown files found in %v", ErrNoInput, inputs)
	}

	css, err := readCSS(flags.css, cfg)
	if err != nil {
		return err
	}

	reg, err := newRegistry(cfg, flags.hooks, env.Logger)
	if err != nil {
		return err
	}

	workers := flags.workers
	if workers == 0 {
		workers = envCfg.Workers
	}
	poolSize := specdoc.ResolvePoolSize(workers)
	env.Logger.WithFields(logrus.Fields{
		"files":   len(files),
		"workers": poolSize,
		"hooks":   reg.Names(),
		"timeout": timeout,
	}).Debug("starting build")

	page := specdoc.PageSetup{
		Paper:        cfg.PDF.Paper,
		MarginInches: cfg.PDF.Margin,
		PageNumbers:  cfg.PDF.PageNumbers,
	}
	pool := specdoc.NewBuilderPool(poolSize, func() (*specdoc.Builder, error) {
		return specdoc.NewBuilder(
			specdoc.WithRegistry(reg),
			specdoc.WithTimeout(timeout),
			specdoc.WithPageSetup(page),
		)
	})
	defer func() {
		if err := pool.Close(); err != nil {
			env.Logger.WithError(err).Warn("closing browsers")
		}
	}()

	results, stopErr := buildBatch(ctx, &poolAdapter{pool: pool}, files, &buildParams{
		css:      css,
		title:    flags.title,
		htmlOnly: htmlOnly,
		now:      env.Now,
	})
	if stopErr != nil {
		return stopErr
	}
	if len(results) == 1 && results[0].Err != nil {
		return results[0].Err
	}

	if failed := printResults(results, flags.common.quiet, flags.common.verbose, env); failed > 0 {
		return fmt.Errorf("%d build(s) failed", failed)
	}
	return ctx.Err()
}

// resolveTimeout picks the build timeout.
// Priority: flag > SPECDOC_TIMEOUT > config > default.
func resolveTimeout(flagValue string, envValue time.Duration, cfg *config.Config) (time.Duration, error) {
	if flagValue != "" {
		d, err := time.ParseDuration(flagValue)
		if err != nil || d <= 0 {
			return 0, fmt.Errorf("%w: --timeout %q must be a positive duration", ErrUsage, flagValue)
		}
		return d, nil
	}
	if envValue > 0 {
		return envValue, nil
	}
	d, err := cfg.TimeoutDuration()
	if err != nil {
		return 0, err
	}
	if d > 0 {
		return d, nil
	}
	return specdoc.DefaultTimeout, nil
}

// resolveInputs returns positional inputs, or the config's default directory.
func resolveInputs(positional []string, cfg *config.Config) ([]string, error) {
	if len(positional) > 0 {
		return positional, nil
	}
	if cfg.Input.DefaultDir != "" {
		return []string{cfg.ResolvePath(cfg.Input.DefaultDir)}, nil
	}
	return nil, fmt.Errorf("%w: pass a file or directory, or set input.defaultDir", ErrNoInput)
}

// readCSS loads the stylesheet named by --css (relative to the working
// directory) or css.file (relative to the config file).
func readCSS(flagValue string, cfg *config.Config) (string, error) {
	path := flagValue
	if path == "" {
		path = cfg.ResolvePath(cfg.CSS.File)
	}
	if path == "" {
		return "", nil
	}

	data, err := os.ReadFile(path) // #nosec G304 -- user-provided stylesheet
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadCSS, err)
	}
	return string(data), nil
}
