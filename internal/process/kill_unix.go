//go:build !windows

package process

import (
	"os/exec"
	"syscall"
)

// detach starts cmd in its own process group, so that KillProcessGroup
// reaches every child the command spawns.
func detach(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
}

// KillProcessGroup kills a process and all its children by sending SIGKILL
// to the process group (negative PID).
func KillProcessGroup(pid int) {
	// Best-effort; the command's own Wait reports the outcome.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
