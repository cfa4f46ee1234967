package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// hookFlags holds preprocessor selection flags.
type hookFlags struct {
	filters     []string // Extra external filters, appended after the config's hooks
	interpreter string   // Interpreter for --filter scripts
	noGrammar   bool     // Drop the built-in grammar collector
}

// buildFlags holds all flags for the build command.
type buildFlags struct {
	common   commonFlags
	hooks    hookFlags
	output   string
	workers  int
	timeout  string
	css      string
	title    string
	htmlOnly bool
}

// filterFlags holds flags for the filter command.
type filterFlags struct {
	common      commonFlags
	command     string
	interpreter string
	timeout     string
}

// grammarFlags holds flags for the grammar subcommands.
type grammarFlags struct {
	common   commonFlags
	language string
}

// tocFlags holds flags for the toc command.
type tocFlags struct {
	common   commonFlags
	output   string
	file     string
	title    string
	minLevel int
	maxLevel int
}

// splitFlags holds flags for the split command.
type splitFlags struct {
	common commonFlags
	output string
}

// doctorFlags holds flags for the doctor command.
type doctorFlags struct {
	common commonFlags
	json   bool
}

// initFlags holds flags for the init command.
type initFlags struct {
	output string
	force  bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logging")
}

// addHookFlags adds preprocessor selection flags to a FlagSet.
func addHookFlags(fs *flag.FlagSet, f *hookFlags) {
	fs.StringArrayVar(&f.filters, "filter", nil, "external filter script (repeatable)")
	fs.StringVar(&f.interpreter, "interpreter", "", "interpreter for --filter scripts (e.g. python3)")
	fs.BoolVar(&f.noGrammar, "no-grammar", false, "disable the built-in grammar collector")
}

// newFlagSet creates a FlagSet that reports errors instead of exiting
// and prints usage to w.
func newFlagSet(name string, w io.Writer, usage func(io.Writer)) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(w)
	fs.Usage = func() { usage(w) }
	return fs
}

// buildFlagSet registers the build command flags.
func buildFlagSet(w io.Writer) (*flag.FlagSet, *buildFlags) {
	fs := newFlagSet("build", w, printBuildUsage)
	f := &buildFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-document timeout (e.g., 30s, 2m)")
	fs.StringVar(&f.css, "css", "", "CSS file injected into the HTML")
	fs.StringVar(&f.title, "title", "", "document title (\"\" = auto from H1)")
	fs.BoolVar(&f.htmlOnly, "html-only", false, "write HTML only, skip PDF")
	addCommonFlags(fs, &f.common)
	addHookFlags(fs, &f.hooks)
	return fs, f
}

// parseBuildFlags parses build command flags and returns positional args.
func parseBuildFlags(args []string, stderr io.Writer) (*buildFlags, []string, error) {
	fs, f := buildFlagSet(stderr)
	if err := fs.Parse(args); err != nil {
		return nil, nil, usageError(err)
	}
	return f, fs.Args(), nil
}

func filterFlagSet(w io.Writer) (*flag.FlagSet, *filterFlags) {
	fs := newFlagSet("filter", w, printFilterUsage)
	f := &filterFlags{}

	fs.StringVar(&f.command, "command", "", "filter program or script")
	fs.StringVar(&f.interpreter, "interpreter", "", "interpreter for the script (e.g. python3)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "filter timeout (e.g., 30s)")
	addCommonFlags(fs, &f.common)
	return fs, f
}

// parseFilterFlags parses filter command flags. Arguments after "--" are
// passed to the filter.
func parseFilterFlags(args []string, stderr io.Writer) (*filterFlags, []string, error) {
	fs, f := filterFlagSet(stderr)
	if err := fs.Parse(args); err != nil {
		return nil, nil, usageError(err)
	}
	return f, fs.Args(), nil
}

func grammarFlagSet(w io.Writer) (*flag.FlagSet, *grammarFlags) {
	fs := newFlagSet("grammar", w, printGrammarUsage)
	f := &grammarFlags{}

	fs.StringVar(&f.language, "language", "", "language name in the generated heading")
	addCommonFlags(fs, &f.common)
	return fs, f
}

// parseGrammarFlags parses flags for grammar extract and preprocess.
func parseGrammarFlags(args []string, stderr io.Writer) (*grammarFlags, []string, error) {
	fs, f := grammarFlagSet(stderr)
	if err := fs.Parse(args); err != nil {
		return nil, nil, usageError(err)
	}
	return f, fs.Args(), nil
}

func tocFlagSet(w io.Writer) (*flag.FlagSet, *tocFlags) {
	fs := newFlagSet("toc", w, printTOCUsage)
	f := &tocFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "write to file instead of stdout")
	fs.StringVar(&f.file, "file", "", "link target file (default SPECIFICATION.md)")
	fs.StringVar(&f.title, "title", "", "title line above the table")
	fs.IntVar(&f.minLevel, "min-level", 0, "shallowest heading listed (1-6, default 2)")
	fs.IntVar(&f.maxLevel, "max-level", 0, "deepest heading listed (1-6, default 6)")
	addCommonFlags(fs, &f.common)
	return fs, f
}

// parseTOCFlags parses toc command flags.
func parseTOCFlags(args []string, stderr io.Writer) (*tocFlags, []string, error) {
	fs, f := tocFlagSet(stderr)
	if err := fs.Parse(args); err != nil {
		return nil, nil, usageError(err)
	}
	return f, fs.Args(), nil
}

func splitFlagSet(w io.Writer) (*flag.FlagSet, *splitFlags) {
	fs := newFlagSet("split", w, printSplitUsage)
	f := &splitFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output directory (required)")
	addCommonFlags(fs, &f.common)
	return fs, f
}

// parseSplitFlags parses split command flags.
func parseSplitFlags(args []string, stderr io.Writer) (*splitFlags, []string, error) {
	fs, f := splitFlagSet(stderr)
	if err := fs.Parse(args); err != nil {
		return nil, nil, usageError(err)
	}
	return f, fs.Args(), nil
}

func doctorFlagSet(w io.Writer) (*flag.FlagSet, *doctorFlags) {
	fs := newFlagSet("doctor", w, printDoctorUsage)
	f := &doctorFlags{}

	fs.BoolVar(&f.json, "json", false, "output JSON")
	addCommonFlags(fs, &f.common)
	return fs, f
}

// parseDoctorFlags parses doctor command flags.
func parseDoctorFlags(args []string, stderr io.Writer) (*doctorFlags, error) {
	fs, f := doctorFlagSet(stderr)
	if err := fs.Parse(args); err != nil {
		return nil, usageError(err)
	}
	return f, nil
}

func initFlagSet(w io.Writer) (*flag.FlagSet, *initFlags) {
	fs := newFlagSet("init", w, printInitUsage)
	f := &initFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "write to file instead of stdout")
	fs.BoolVarP(&f.force, "force", "f", false, "overwrite an existing file")
	return fs, f
}

// parseInitFlags parses init command flags.
func parseInitFlags(args []string, stderr io.Writer) (*initFlags, error) {
	fs, f := initFlagSet(stderr)
	if err := fs.Parse(args); err != nil {
		return nil, usageError(err)
	}
	return f, nil
}
