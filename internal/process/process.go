// Package process runs external toolchain commands whose whole process tree
// is killed when the context is canceled.
package process

import (
	"context"
	"os/exec"
	"time"
)

// WaitDelay bounds how long Wait keeps reading output after the process
// group was killed.
const WaitDelay = 2 * time.Second

// Command returns a command bound to ctx and run in dir. It runs in its own
// process group; on cancellation the group is killed rather than only the
// direct child.
func Command(ctx context.Context, dir, name string, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, name, args...) // #nosec G204 -- program comes from user config
	cmd.Dir = dir
	detach(cmd)
	cmd.Cancel = func() error {
		KillProcessGroup(cmd.Process.Pid)
		return nil
	}
	cmd.WaitDelay = WaitDelay
	return cmd
}
