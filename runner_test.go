//go:build !windows

package specdoc

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// TestExecRunner - Process execution
// ---------------------------------------------------------------------------

func TestExecRunner_Run(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		stdin      string
		wantStdout string
		wantStderr string
		wantExit   int
	}{
		{
			name:       "echo stdin",
			args:       []string{"-c", "cat"},
			stdin:      "hello\n",
			wantStdout: "hello\n",
		},
		{
			name:       "stderr and exit code",
			args:       []string{"-c", "echo oops >&2; exit 3"},
			wantStderr: "oops\n",
			wantExit:   3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := &ExecRunner{}
			stdout, stderr, err := r.Run(context.Background(), strings.NewReader(tt.stdin), "sh", tt.args...)

			if stdout != tt.wantStdout {
				t.Errorf("stdout = %q, want %q", stdout, tt.wantStdout)
			}
			if stderr != tt.wantStderr {
				t.Errorf("stderr = %q, want %q", stderr, tt.wantStderr)
			}

			if tt.wantExit == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var exitErr *exec.ExitError
			if !errors.As(err, &exitErr) {
				t.Fatalf("error = %v, want *exec.ExitError", err)
			}
			if exitErr.ExitCode() != tt.wantExit {
				t.Errorf("ExitCode() = %d, want %d", exitErr.ExitCode(), tt.wantExit)
			}
		})
	}
}

func TestExecRunner_Run_NilStdin(t *testing.T) {
	t.Parallel()

	r := &ExecRunner{}
	stdout, _, err := r.Run(context.Background(), nil, "sh", "-c", "cat; echo done")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stdout != "done\n" {
		t.Errorf("stdout = %q, want %q", stdout, "done\n")
	}
}

func TestExecRunner_Run_NotFound(t *testing.T) {
	t.Parallel()

	r := &ExecRunner{}
	_, _, err := r.Run(context.Background(), nil, "definitely-not-a-command-xyz")
	if !errors.Is(err, exec.ErrNotFound) {
		t.Fatalf("error = %v, want exec.ErrNotFound", err)
	}
}

func TestExecRunner_Run_Cancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	r := &ExecRunner{}
	_, _, err := r.Run(ctx, nil, "sh", "-c", "sleep 30 & sleep 30")

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("error = %v, want context.DeadlineExceeded", err)
	}
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Errorf("Run took %v after cancel, want prompt return", elapsed)
	}
}

func TestExecRunner_Run_AlreadyCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &ExecRunner{}
	_, _, err := r.Run(ctx, nil, "sh", "-c", "exit 0")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}
