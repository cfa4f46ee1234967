package main

import (
	"context"
	"fmt"
	"time"

	"github.com/alnah/go-specdoc"
)

// runFilter pipes stdin through one external filter. It exercises a
// filter exactly as build would, outside any document build.
func runFilter(ctx context.Context, args []string, env *Environment) error {
	flags, filterArgs, err := parseFilterFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	setLogLevel(env.Logger, flags.common.quiet, flags.common.verbose)

	if flags.command == "" {
		return fmt.Errorf("%w: --command is required", ErrUsage)
	}

	envCfg := loadEnvConfig()
	interpreter := flags.interpreter
	if interpreter == "" {
		interpreter = envCfg.Interpreter
	}

	if flags.timeout != "" {
		d, err := time.ParseDuration(flags.timeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("%w: --timeout %q must be a positive duration", ErrUsage, flags.timeout)
		}
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	f, err := specdoc.NewScriptFilter(flags.command, filterOptions(interpreter, filterArgs, "")...)
	if err != nil {
		return err
	}
	env.Logger.WithField("command", f.String()).Debug("running filter")

	lines, err := f.Process(ctx, env.Stdin)
	if err != nil {
		return err
	}
	env.Logger.WithField("lines", len(lines)).Debug("filter finished")

	return writeLines(env.Stdout, lines)
}
