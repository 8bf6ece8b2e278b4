package process

// Notes:
// - KillProcessGroup: only tested with an invalid PID. PID 0 would kill the
//   current process group, and real PIDs could target unrelated processes.
// - Command tests rely on sh and are skipped where it is missing.

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// TestKillProcessGroup - Invalid PID Handling
// ---------------------------------------------------------------------------

func TestKillProcessGroup_InvalidPID(t *testing.T) {
	t.Parallel()

	KillProcessGroup(999999999)
}

// ---------------------------------------------------------------------------
// TestCommand - Context-bound process groups
// ---------------------------------------------------------------------------

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("sh based test")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestCommand_RunsInDir(t *testing.T) {
	t.Parallel()
	requireShell(t)

	dir := t.TempDir()
	out, err := Command(context.Background(), dir, "sh", "-c", "pwd").Output()
	if err != nil {
		t.Fatalf("Output() error = %v", err)
	}
	if got := strings.TrimSpace(string(out)); filepath.Base(got) != filepath.Base(dir) {
		t.Errorf("pwd = %q, want %q", got, dir)
	}
}

func TestCommand_CancelKillsGroup(t *testing.T) {
	t.Parallel()
	requireShell(t)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	// The background sleep keeps running after sh itself is killed; only a
	// group kill ends it early.
	cmd := Command(ctx, "", "sh", "-c", "sleep 30 & sleep 30; wait")
	var out strings.Builder
	cmd.Stdout = &out
	err := cmd.Run()
	if err == nil {
		t.Fatal("Run() = nil, want error after cancellation")
	}
	if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
		t.Errorf("ctx.Err() = %v, want DeadlineExceeded", ctx.Err())
	}
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Errorf("Run() took %v, want the group killed promptly", elapsed)
	}
}
