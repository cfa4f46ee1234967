package specdoc

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"

	"github.com/alnah/go-specdoc/internal/process"
)

// CommandRunner abstracts command execution to enable testing without real subprocesses.
type CommandRunner interface {
	Run(ctx context.Context, stdin io.Reader, name string, args ...string) (stdout string, stderr string, err error)
}

// Compile-time interface check.
var _ CommandRunner = (*ExecRunner)(nil)

// ExecRunner implements CommandRunner using os/exec.
// The child runs in its own process group; cancelling ctx kills the group.
type ExecRunner struct{}

// Run starts name with args, feeds stdin to it, and blocks until it exits.
// The returned error is the *exec.ExitError for non-zero exits, the start
// error for spawn failures, or ctx.Err() when the run was cancelled.
func (r *ExecRunner) Run(ctx context.Context, stdin io.Reader, name string, args ...string) (string, string, error) {
	if err := ctx.Err(); err != nil {
		return "", "", err
	}

	cmd := exec.Command(name, args...) // #nosec G204 -- filter commands come from the build config
	if stdin == nil {
		stdin = bytes.NewReader(nil)
	}
	cmd.Stdin = stdin

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	process.SetProcessGroup(cmd)

	if err := cmd.Start(); err != nil {
		return "", "", fmt.Errorf("starting command: %w", err)
	}

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			process.KillProcessGroup(cmd.Process.Pid)
		case <-done:
		}
	}()

	err := cmd.Wait()
	close(done)

	if err != nil && ctx.Err() != nil {
		return stdout.String(), stderr.String(), ctx.Err()
	}
	return stdout.String(), stderr.String(), err
}
