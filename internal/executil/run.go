// Package executil wraps external process invocations with hard deadlines.
// Fix actions carry real side effects (service toggles, config edits), so
// this is the one place where hangs must be structurally impossible.
package executil

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// ErrTimeout is returned when a process exceeds its deadline. The process is
// killed best-effort before the error is returned.
var ErrTimeout = errors.New("process timeout")

// DefaultProbeTimeout bounds read-only probe commands run by checkers.
const DefaultProbeTimeout = 10 * time.Second

// Run spawns a command, waits with a bounded deadline and terminates the
// process on expiry. It returns combined stdout and stderr.
func Run(ctx context.Context, timeout time.Duration, name string, args ...string) ([]byte, error) {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, name, args...)
	output, err := cmd.CombinedOutput()

	if runCtx.Err() == context.DeadlineExceeded {
		return output, fmt.Errorf("%w: %s after %s", ErrTimeout, name, timeout)
	}
	if err != nil {
		return output, fmt.Errorf("failed to run %s: %w", name, err)
	}
	return output, nil
}
