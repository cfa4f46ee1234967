package main

import (
	"context"
	"fmt"

	"github.com/alnah/go-specdoc/internal/grammar"
)

// runGrammar dispatches the grammar subcommands.
func runGrammar(ctx context.Context, args []string, env *Environment) error {
	if len(args) == 0 {
		printGrammarUsage(env.Stderr)
		return fmt.Errorf("%w: grammar requires a subcommand", ErrUsage)
	}

	sub, rest := args[0], args[1:]
	flags, positional, err := parseGrammarFlags(rest, env.Stderr)
	if err != nil {
		return err
	}
	setLogLevel(env.Logger, flags.common.quiet, flags.common.verbose)

	in, err := openInput(positional, env.Stdin)
	if err != nil {
		return err
	}
	defer in.Close()

	switch sub {
	case "extract":
		return grammar.Extract(in, env.Stdout)

	case "preprocess":
		language, err := resolveLanguage(flags)
		if err != nil {
			return err
		}
		env.Logger.WithField("language", language).Debug("collecting grammar")

		lines, err := grammar.NewCollector(language).Process(ctx, in)
		if err != nil {
			return err
		}
		return writeLines(env.Stdout, lines)

	default:
		printGrammarUsage(env.Stderr)
		return fmt.Errorf("%w: unknown grammar subcommand %q", ErrUsage, sub)
	}
}

// resolveLanguage picks the grammar heading language.
// Priority: flag > SPECDOC_LANGUAGE > config > default.
func resolveLanguage(flags *grammarFlags) (string, error) {
	if flags.language != "" {
		return flags.language, nil
	}
	cfg, err := loadConfig(flags.common.config, loadEnvConfig())
	if err != nil {
		return "", err
	}
	if cfg.Grammar.Language != "" {
		return cfg.Grammar.Language, nil
	}
	return grammar.DefaultLanguage, nil
}
