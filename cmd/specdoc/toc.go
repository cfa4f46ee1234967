package main

import (
	"io"

	"github.com/alnah/go-specdoc/internal/toc"
)

// runTOC prints the table of contents of one document.
func runTOC(args []string, env *Environment) error {
	flags, positional, err := parseTOCFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	setLogLevel(env.Logger, flags.common.quiet, flags.common.verbose)

	cfg, err := loadConfig(flags.common.config, loadEnvConfig())
	if err != nil {
		return err
	}

	opts := toc.Options{
		File:     firstNonEmpty(flags.file, cfg.TOC.File),
		Title:    firstNonEmpty(flags.title, cfg.TOC.Title),
		MinLevel: firstNonZero(flags.minLevel, cfg.TOC.MinLevel),
		MaxLevel: firstNonZero(flags.maxLevel, cfg.TOC.MaxLevel),
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	in, err := openInput(positional, env.Stdin)
	if err != nil {
		return err
	}
	defer in.Close()

	return writeOutput(flags.output, env.Stdout, func(w io.Writer) error {
		return toc.Generate(in, w, opts)
	})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstNonZero(values ...int) int {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}
