package main

import (
	"fmt"

	"github.com/alnah/go-specdoc/internal/split"
)

// runSplit writes one Markdown file per chapter.
func runSplit(args []string, env *Environment) error {
	flags, positional, err := parseSplitFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	setLogLevel(env.Logger, flags.common.quiet, flags.common.verbose)

	if flags.output == "" {
		return fmt.Errorf("%w: --output directory is required", ErrUsage)
	}

	in, err := openInput(positional, env.Stdin)
	if err != nil {
		return err
	}
	defer in.Close()

	chapters, err := split.Split(in)
	if err != nil {
		return err
	}

	paths, err := split.WriteDir(flags.output, chapters)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}

	if !flags.common.quiet {
		for _, p := range paths {
			fmt.Fprintf(env.Stdout, "Created %s\n", p)
		}
	}
	return nil
}
