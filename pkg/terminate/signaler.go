package terminate

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v4/process"

	"proclean/pkg/ps"
)

// Signaler delivers signals to processes.
type Signaler interface {
	// Terminate sends the graceful, catchable termination signal.
	Terminate(ctx context.Context, pid int) error
	// Kill sends the forceful signal.
	Kill(ctx context.Context, pid int) error
	// Alive reports whether pid still exists.
	Alive(ctx context.Context, pid int) bool
}

// System signals real processes through gopsutil.
type System struct{}

// lookup resolves pid, refusing values that do not fit in a pid_t.
func lookup(ctx context.Context, pid int) (*process.Process, error) {
	pid32, err := ps.PID32(pid)
	if err != nil {
		return nil, err
	}
	return process.NewProcessWithContext(ctx, pid32)
}

func (System) Terminate(ctx context.Context, pid int) error {
	p, err := lookup(ctx, pid)
	if err != nil {
		return fmt.Errorf("unable to find PID %d: %w", pid, err)
	}
	if err := p.TerminateWithContext(ctx); err != nil {
		return fmt.Errorf("failed to terminate process %d: %w", pid, err)
	}
	return nil
}

func (System) Kill(ctx context.Context, pid int) error {
	p, err := lookup(ctx, pid)
	if err != nil {
		return fmt.Errorf("unable to find PID %d: %w", pid, err)
	}
	if err := p.KillWithContext(ctx); err != nil {
		return fmt.Errorf("failed to kill process %d: %w", pid, err)
	}
	return nil
}

func (System) Alive(ctx context.Context, pid int) bool {
	pid32, err := ps.PID32(pid)
	if err != nil {
		return false
	}
	ok, err := process.PidExistsWithContext(ctx, pid32)
	return err == nil && ok
}
