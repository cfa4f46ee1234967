package main

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/alnah/go-specdoc"
	"github.com/alnah/go-specdoc/internal/config"
	"github.com/alnah/go-specdoc/internal/grammar"
	"github.com/alnah/go-specdoc/internal/pipeline"
)

// newRegistry registers the config's hooks in order, then one hook per
// --filter flag. --no-grammar drops the grammar builtin wherever it appears.
func newRegistry(cfg *config.Config, flags hookFlags, log *logrus.Logger) (*specdoc.Registry, error) {
	reg := specdoc.NewRegistry()

	for _, p := range cfg.Preprocessors {
		if flags.noGrammar && p.Builtin == config.BuiltinGrammar {
			log.Debug("grammar collector disabled by --no-grammar")
			continue
		}

		hook, err := newHook(cfg, p)
		if err != nil {
			return nil, err
		}
		if err := reg.Register(hook); err != nil {
			return nil, fmt.Errorf("registering %s: %w", p.DisplayName(), err)
		}
		log.WithField("hook", hook.Name()).Debug("registered preprocessor")
	}

	for _, path := range flags.filters {
		f, err := specdoc.NewScriptFilter(path, filterOptions(flags.interpreter, nil, "")...)
		if err != nil {
			return nil, fmt.Errorf("--filter %q: %w", path, err)
		}
		if err := reg.Register(f); err != nil {
			return nil, fmt.Errorf("--filter %q: %w", path, err)
		}
		log.WithField("hook", f.String()).Debug("registered filter from flag")
	}

	return reg, nil
}

// newHook builds one configured hook.
func newHook(cfg *config.Config, p config.PreprocessorConfig) (specdoc.Preprocessor, error) {
	switch p.Builtin {
	case config.BuiltinGrammar:
		return renamed(grammar.NewCollector(cfg.Grammar.Language), p.Name), nil
	case config.BuiltinNormalize:
		return renamed(&pipeline.Normalizer{}, p.Name), nil
	}

	return specdoc.NewScriptFilter(cfg.ResolveCommand(p), filterOptions(p.Interpreter, p.Args, p.DisplayName())...)
}

// filterOptions translates declaration fields into ScriptFilter options.
func filterOptions(interpreter string, args []string, name string) []specdoc.FilterOption {
	var opts []specdoc.FilterOption
	if interpreter != "" {
		opts = append(opts, specdoc.WithInterpreter(interpreter))
	}
	if len(args) > 0 {
		opts = append(opts, specdoc.WithArgs(args...))
	}
	if name != "" {
		opts = append(opts, specdoc.WithName(name))
	}
	return opts
}

// namedHook overrides a builtin's registration name.
type namedHook struct {
	specdoc.Preprocessor
	name string
}

func (h namedHook) Name() string { return h.name }

// renamed wraps p when the config gives it an explicit name.
func renamed(p specdoc.Preprocessor, name string) specdoc.Preprocessor {
	if name == "" || name == p.Name() {
		return p
	}
	return namedHook{Preprocessor: p, name: name}
}
