//go:build !windows

package process

import (
	"os/exec"
	"syscall"
)

// SetProcessGroup places the command in its own process group so that
// interpreters and any children they spawn can be killed together.
// Must be called before cmd.Start.
func SetProcessGroup(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
}

// KillProcessGroup kills a process and all its children by sending SIGKILL
// to the process group (negative PID).
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	// Best-effort; the group may already be gone.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
