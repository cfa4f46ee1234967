package main

import (
	"fmt"
	"os"
	"time"

	"github.com/alnah/go-specdoc"
	"github.com/alnah/go-specdoc/internal/config"
	"github.com/alnah/go-specdoc/internal/fileutil"
	"github.com/alnah/go-specdoc/internal/grammar"
	"github.com/alnah/go-specdoc/internal/toc"
	"github.com/alnah/go-specdoc/internal/yamlutil"
)

// configHeader opens every generated config.
const configHeader = "# specdoc configuration\n# Relative paths resolve against this file's directory.\n\n"

// starterConfig returns the defaults with every knob spelled out.
func starterConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Preprocessors = []config.PreprocessorConfig{
		{Builtin: config.BuiltinNormalize},
		{Builtin: config.BuiltinGrammar},
	}
	cfg.Grammar.Language = grammar.DefaultLanguage
	cfg.TOC = config.TOCConfig{
		File:     toc.DefaultFile,
		MinLevel: toc.DefaultMinLevel,
		MaxLevel: toc.DefaultMaxLevel,
	}
	cfg.PDF = config.PDFConfig{Paper: specdoc.PaperLetter, Margin: 0.5, PageNumbers: true}
	cfg.Timeout = specdoc.DefaultTimeout.String()
	return cfg
}

// runInit prints or writes the starter config.
func runInit(args []string, env *Environment) error {
	flags, err := parseInitFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	data, err := yamlutil.Marshal(starterConfig())
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	content := configHeader + string(data)

	if flags.output == "" {
		_, err := fmt.Fprint(env.Stdout, content)
		return err
	}

	if !flags.force && fileutil.FileExists(flags.output) {
		return fmt.Errorf("%w: %s (use --force)", ErrOutputExists, flags.output)
	}
	// #nosec G306 -- config files are meant to be readable
	if err := os.WriteFile(flags.output, []byte(content), filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	env.Logger.WithField("path", flags.output).WithField("at", env.Now().Format(time.RFC3339)).Debug("wrote config")
	fmt.Fprintf(env.Stdout, "Created %s\n", flags.output)
	return nil
}
