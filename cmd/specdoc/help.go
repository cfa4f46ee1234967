package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: specdoc <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  build      Build HTML/PDF through preprocessor hooks")
	fmt.Fprintln(w, "  filter     Run one external filter over stdin")
	fmt.Fprintln(w, "  grammar    Extract or collect grammar productions")
	fmt.Fprintln(w, "  toc        Print the table of contents")
	fmt.Fprintln(w, "  split      Split a specification into chapter files")
	fmt.Fprintln(w, "  doctor     Check interpreters, filters and Chrome")
	fmt.Fprintln(w, "  init       Print a starter config")
	fmt.Fprintln(w, "  completion Generate shell completion script")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'specdoc help <command>' for details on a specific command.")
}

// printCommonFlags prints the flags every command accepts.
func printCommonFlags(w io.Writer) {
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logging")
}

// printBuildUsage prints usage for the build command.
func printBuildUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: specdoc build [input...] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run each document through the configured preprocessor hooks, then")
	fmt.Fprintln(w, "convert it to HTML and PDF.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Markdown files or directories (optional if config has input.defaultDir)")
	fmt.Fprintln(w, "           Directories are searched with input.include patterns")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Per-document timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w, "      --html-only           Write HTML only, skip PDF")
	fmt.Fprintln(w, "      --css <path>          CSS file injected into the HTML")
	fmt.Fprintln(w, "      --title <s>           Document title (\"\" = auto from H1)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Preprocessors:")
	fmt.Fprintln(w, "      --filter <path>       External filter script (repeatable)")
	fmt.Fprintln(w, "      --interpreter <bin>   Interpreter for --filter scripts")
	fmt.Fprintln(w, "      --no-grammar          Disable the built-in grammar collector")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Common:")
	printCommonFlags(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "A failing filter prints its stderr and stops the build (exit 5).")
}

// printFilterUsage prints usage for the filter command.
func printFilterUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: specdoc filter --command <path> [--interpreter <bin>] [-- args...]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Pipe stdin through one filter and print its lines to stdout.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --command <path>      Filter program or script")
	fmt.Fprintln(w, "      --interpreter <bin>   Interpreter for the script (e.g. python3)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Filter timeout")
	printCommonFlags(w)
}

// printGrammarUsage prints usage for the grammar command.
func printGrammarUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: specdoc grammar <extract|preprocess> [file] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Subcommands:")
	fmt.Fprintln(w, "  extract      Print every valid grammar production block")
	fmt.Fprintln(w, "  preprocess   Replace AUTO_REPLACE_WITH_GRAMMAR with the collected grammar")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Reads stdin when file is omitted or \"-\".")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --language <s>        Language name in the generated heading")
	printCommonFlags(w)
}

// printTOCUsage prints usage for the toc command.
func printTOCUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: specdoc toc [file] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print a nested Markdown table of contents.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o, --output <path>       Write to file instead of stdout")
	fmt.Fprintln(w, "      --file <name>         Link target (default SPECIFICATION.md)")
	fmt.Fprintln(w, "      --title <s>           Title line above the table")
	fmt.Fprintln(w, "      --min-level <n>       Shallowest heading listed (default 2)")
	fmt.Fprintln(w, "      --max-level <n>       Deepest heading listed (default 6)")
	printCommonFlags(w)
}

// printSplitUsage prints usage for the split command.
func printSplitUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: specdoc split [file] -o <dir>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Write one file per chapter (level-1 setext heading) into dir.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory (required)")
	printCommonFlags(w)
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: specdoc doctor [--json] [-c config]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check that configured interpreters, filter scripts and Chrome are available.")
}

// printInitUsage prints usage for the init command.
func printInitUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: specdoc init [-o file] [--force]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print a starter config with the default preprocessors.")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "build":
		printBuildUsage(env.Stdout)
	case "filter":
		printFilterUsage(env.Stdout)
	case "grammar":
		printGrammarUsage(env.Stdout)
	case "toc":
		printTOCUsage(env.Stdout)
	case "split":
		printSplitUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "init":
		printInitUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: specdoc version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: specdoc help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
