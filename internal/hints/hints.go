// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-specdoc/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect returns hints for browser connection errors.
// Detects CI/Docker environment and suggests relevant environment variables.
func ForBrowserConnect() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use custom Chrome")
	}
	hints = append(hints, "use --html-only to skip PDF rendering")

	return formatHints(hints)
}

// ForFilterNotFound returns a hint when a filter program cannot be started.
// program is the interpreter, or the script itself when run directly.
func ForFilterNotFound(program string) string {
	if fileutil.IsFilePath(program) {
		return format("check that " + program + " exists; relative paths resolve against the config file")
	}
	return format("install " + program + " or add it to PATH; set preprocessors[].interpreter to a full path")
}

// ForFilterPermission returns a hint for non-executable filter scripts.
func ForFilterPermission(command string) string {
	return format("chmod +x " + command + " or set preprocessors[].interpreter")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-specdoc/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml or run 'specdoc init'"

	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-specdoc") {
			hint += "; or create " + p
			break
		}
	}

	return format(hint)
}

// ForTimeout returns a hint about increasing timeout for slow operations.
func ForTimeout() string {
	return format("for large documents, use --timeout flag")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
