package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"

	"github.com/alnah/go-specdoc/internal/config"
	"github.com/alnah/go-specdoc/internal/fileutil"
)

// Doctor statuses.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// Hook kinds reported by doctor.
const (
	hookBuiltin = "builtin"
	hookCommand = "command"
)

// ciEnvVars are the variables that mark a CI runner.
var ciEnvVars = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}

// doctorReport is everything doctor found out about the build setup.
type doctorReport struct {
	Status   string       `json:"status"`
	Hooks    []hookCheck  `json:"preprocessors"`
	Browser  browserCheck `json:"browser"`
	Host     hostCheck    `json:"host"`
	Warnings []string     `json:"warnings,omitempty"`
	Errors   []string     `json:"errors,omitempty"`
}

// hookCheck is the result for one configured preprocessor.
type hookCheck struct {
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	Command     string `json:"command,omitempty"`
	Interpreter string `json:"interpreter,omitempty"`
	Resolved    string `json:"resolved,omitempty"`
	OK          bool   `json:"ok"`
}

// browserCheck describes the Chrome used for PDF output.
type browserCheck struct {
	Required bool   `json:"required"`
	Found    bool   `json:"found"`
	Path     string `json:"path,omitempty"`
	Version  string `json:"version,omitempty"`
	Sandbox  bool   `json:"sandbox"`
}

// hostCheck describes the machine the build runs on.
type hostCheck struct {
	Platform     string `json:"platform"`
	Container    string `json:"container,omitempty"` // Detection signal, empty outside containers
	CI           bool   `json:"ci"`
	TempDir      string `json:"temp_dir"`
	TempWritable bool   `json:"temp_writable"`
}

func (r *doctorReport) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *doctorReport) fail(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// finish derives the status from the collected messages.
func (r *doctorReport) finish() {
	switch {
	case len(r.Errors) > 0:
		r.Status = statusErrors
	case len(r.Warnings) > 0:
		r.Status = statusWarnings
	default:
		r.Status = statusReady
	}
}

// runDoctorCmd checks that a build with the loaded config can run.
// Exit codes: 0 ready (warnings included), 1 problems found, 2 bad flags or config.
func runDoctorCmd(args []string, env *Environment) int {
	flags, err := parseDoctorFlags(args, env.Stderr)
	if err != nil {
		return reportError(err, env)
	}

	cfg, err := loadConfig(flags.common.config, loadEnvConfig())
	if err != nil {
		return reportError(err, env)
	}

	report := runDoctor(cfg)
	if flags.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return reportError(err, env)
		}
	} else {
		printDoctorReport(env.Stdout, report)
	}

	if report.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

func runDoctor(cfg *config.Config) *doctorReport {
	report := &doctorReport{}
	checkHooks(cfg, report)
	checkBrowser(report, !cfg.Output.HTMLOnly)
	checkHost(report)
	report.finish()
	return report
}

// checkHooks verifies that every command hook can be started.
func checkHooks(cfg *config.Config, report *doctorReport) {
	for _, p := range cfg.Preprocessors {
		if p.Builtin != "" {
			report.Hooks = append(report.Hooks, hookCheck{Name: p.DisplayName(), Kind: hookBuiltin, OK: true})
			continue
		}
		report.Hooks = append(report.Hooks, checkCommandHook(cfg, p, report))
	}
}

// checkCommandHook looks up the interpreter and the script, or the program
// itself when the hook has no interpreter.
func checkCommandHook(cfg *config.Config, p config.PreprocessorConfig, report *doctorReport) hookCheck {
	hc := hookCheck{
		Name:        p.DisplayName(),
		Kind:        hookCommand,
		Command:     cfg.ResolveCommand(p),
		Interpreter: p.Interpreter,
	}

	if p.Interpreter == "" {
		resolved, err := exec.LookPath(hc.Command)
		if err != nil {
			report.fail("%s: %s is not executable or not found", hc.Name, hc.Command)
			return hc
		}
		hc.Resolved, hc.OK = resolved, true
		return hc
	}

	resolved, err := exec.LookPath(p.Interpreter)
	if err != nil {
		report.fail("%s: interpreter %q not found", hc.Name, p.Interpreter)
		return hc
	}
	hc.Resolved = resolved
	if !fileutil.FileExists(hc.Command) {
		report.fail("%s: script not found at %s", hc.Name, hc.Command)
		return hc
	}
	hc.OK = true
	return hc
}

// checkBrowser finds Chrome through ROD_BROWSER_BIN or the rod launcher.
// Without a browser only PDF output is impossible, so a missing one is an
// error only when PDF output is required.
func checkBrowser(report *doctorReport, required bool) {
	report.Browser.Required = required
	missing := report.warn
	if required {
		missing = report.fail
	}

	bin := os.Getenv("ROD_BROWSER_BIN")
	if bin == "" {
		var ok bool
		if bin, ok = launcher.LookPath(); !ok {
			missing("Chrome/Chromium not found: install it, set ROD_BROWSER_BIN, or build with --html-only")
			return
		}
	}
	if !fileutil.FileExists(bin) {
		missing("Chrome/Chromium not found at %s", bin)
		return
	}

	report.Browser.Found = true
	report.Browser.Path = bin
	report.Browser.Sandbox = os.Getenv("ROD_NO_SANDBOX") != "1"

	out, err := exec.Command(bin, "--version").Output() // #nosec G204 -- browser path from launcher or ROD_BROWSER_BIN
	if err != nil {
		report.warn("cannot read Chrome version: %v", err)
		return
	}
	report.Browser.Version = strings.TrimSpace(string(out))
}

// checkHost records the platform, container and CI signals, and checks the
// temp directory used by the PDF renderer.
func checkHost(report *doctorReport) {
	host := &report.Host
	host.Platform = runtime.GOOS + "/" + runtime.GOARCH
	host.Container = containerSignal()
	for _, v := range ciEnvVars {
		if os.Getenv(v) != "" {
			host.CI = true
			break
		}
	}

	if (host.Container != "" || host.CI) && report.Browser.Found && report.Browser.Sandbox {
		report.warn("running in a container or CI with the Chrome sandbox on: set ROD_NO_SANDBOX=1 if PDF rendering hangs")
	}

	host.TempDir = os.TempDir()
	marker := filepath.Join(host.TempDir, "specdoc-doctor-check")
	if err := os.WriteFile(marker, nil, 0o600); err != nil {
		report.fail("temp directory not writable: %s", host.TempDir)
		return
	}
	_ = os.Remove(marker)
	host.TempWritable = true
}

// containerSignal names the signal that identified a container, or returns
// "" outside one.
func containerSignal() string {
	if os.Getenv("SPECDOC_CONTAINER") == "1" {
		return "SPECDOC_CONTAINER=1"
	}
	if fileutil.FileExists("/.dockerenv") {
		return "/.dockerenv"
	}
	if v := os.Getenv("container"); v != "" {
		return "container=" + v // podman, systemd-nspawn
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return "KUBERNETES_SERVICE_HOST"
	}
	return ""
}

// checkLine prints one indented report line.
func checkLine(w io.Writer, tag, format string, args ...any) {
	fmt.Fprintf(w, "  [%s] %s\n", tag, fmt.Sprintf(format, args...))
}

func okTag(ok bool) string {
	if ok {
		return "OK"
	}
	return "ERROR"
}

func printDoctorReport(w io.Writer, r *doctorReport) {
	fmt.Fprintf(w, "specdoc doctor\n\nPreprocessors\n")
	if len(r.Hooks) == 0 {
		checkLine(w, "OK", "none configured")
	}
	for _, h := range r.Hooks {
		switch {
		case h.Kind == hookBuiltin:
			checkLine(w, okTag(h.OK), "%s (builtin)", h.Name)
		case h.Interpreter != "":
			checkLine(w, okTag(h.OK), "%s: %s %s", h.Name, h.Interpreter, h.Command)
		default:
			checkLine(w, okTag(h.OK), "%s: %s", h.Name, h.Command)
		}
	}

	fmt.Fprintf(w, "\nBrowser\n")
	switch b := r.Browser; {
	case !b.Found && b.Required:
		checkLine(w, "ERROR", "Chrome/Chromium not found (needed for PDF)")
	case !b.Found:
		checkLine(w, "--", "Chrome/Chromium not found (HTML only)")
	default:
		checkLine(w, "OK", "Chrome/Chromium at %s", b.Path)
		if b.Version != "" {
			checkLine(w, "OK", "Version: %s", b.Version)
		}
		if b.Sandbox {
			checkLine(w, "OK", "Sandbox: on")
		} else {
			checkLine(w, "OK", "Sandbox: off (ROD_NO_SANDBOX=1)")
		}
	}

	fmt.Fprintf(w, "\nHost\n")
	checkLine(w, "OK", "Platform: %s", r.Host.Platform)
	if r.Host.Container != "" {
		checkLine(w, "OK", "Container: %s", r.Host.Container)
	}
	if r.Host.CI {
		checkLine(w, "OK", "CI runner")
	}
	if r.Host.TempWritable {
		checkLine(w, "OK", "Temp directory writable: %s", r.Host.TempDir)
	} else {
		checkLine(w, "ERROR", "Temp directory not writable: %s", r.Host.TempDir)
	}

	for _, group := range []struct {
		title, tag string
		lines      []string
	}{
		{"Warnings", "WARN", r.Warnings},
		{"Errors", "ERROR", r.Errors},
	} {
		if len(group.lines) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s:\n", group.title)
		for _, l := range group.lines {
			checkLine(w, group.tag, "%s", l)
		}
	}

	fmt.Fprintln(w)
	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: ready to build")
	case statusWarnings:
		fmt.Fprintln(w, "Status: ready, with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: not ready (see errors above)")
	}
}
