package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/alnah/go-specdoc"
	"github.com/alnah/go-specdoc/internal/grammar"
	"github.com/alnah/go-specdoc/internal/hints"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	env := DefaultEnv()

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(env.Logger.Debugf))

	os.Exit(runMain(os.Args, env))
}

// runMain dispatches the command in args[1] and returns the process exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	cmd, rest := args[1], args[2:]
	var err error
	switch cmd {
	case "build":
		err = runBuild(ctx, rest, env)
	case "filter":
		err = runFilter(ctx, rest, env)
	case "grammar":
		err = runGrammar(ctx, rest, env)
	case "toc":
		err = runTOC(rest, env)
	case "split":
		err = runSplit(rest, env)
	case "init":
		err = runInit(rest, env)
	case "doctor":
		return runDoctorCmd(rest, env)
	case "completion":
		err = runCompletion(rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "specdoc %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		runHelp(rest, env)
		return ExitSuccess
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}

	return reportError(err, env)
}

// reportError prints err with a hint and maps it to an exit code.
// A filter failure prints the filter's own stderr untouched; an invalid
// grammar block prints the reason followed by the offending block.
func reportError(err error, env *Environment) int {
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}

	var fe *specdoc.FilterError
	if errors.As(err, &fe) {
		if fe.Stderr != "" {
			writeRaw(env, fe.Stderr)
		} else {
			fmt.Fprintf(env.Stderr, "error: %v%s\n", fe, filterHint(fe))
		}
		return ExitFilter
	}

	var be *grammar.BlockError
	if errors.As(err, &be) {
		fmt.Fprintln(env.Stderr, be.Error())
		writeRaw(env, be.Block)
		return ExitFilter
	}

	fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
	return exitCodeFor(err)
}

// writeRaw copies text to stderr as is, ending it with a newline.
func writeRaw(env *Environment, text string) {
	fmt.Fprint(env.Stderr, text)
	if !strings.HasSuffix(text, "\n") {
		fmt.Fprintln(env.Stderr)
	}
}

// filterHint explains why a filter could not be started.
func filterHint(fe *specdoc.FilterError) string {
	if fe.ExitCode >= 0 {
		return ""
	}
	fields := strings.Fields(fe.Command)
	if len(fields) == 0 {
		return ""
	}
	switch {
	case errors.Is(fe.Err, os.ErrPermission):
		return hints.ForFilterPermission(fields[0])
	case errors.Is(fe.Err, os.ErrNotExist), errors.Is(fe.Err, exec.ErrNotFound):
		return hints.ForFilterNotFound(fields[0])
	}
	return ""
}

// hintFor returns an actionable hint for browser and timeout errors.
func hintFor(err error) string {
	switch {
	case errors.Is(err, specdoc.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	}
	return ""
}
