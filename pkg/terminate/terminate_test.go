package terminate

import (
	"context"
	"errors"
	"os/exec"
	"runtime"
	"strconv"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proclean/pkg/ps"
)

// fakeSignaler records calls and simulates processes by pid.
type fakeSignaler struct {
	gone       map[int]bool // pids that no longer exist
	stubborn   map[int]bool // pids that survive SIGTERM
	denied     map[int]bool // pids the caller may not signal
	unkillable map[int]bool // pids rejecting SIGKILL only
	terminate  []int
	kill       []int
}

func (f *fakeSignaler) Terminate(_ context.Context, pid int) error {
	f.terminate = append(f.terminate, pid)
	switch {
	case f.gone[pid]:
		return syscall.ESRCH
	case f.denied[pid]:
		return syscall.EPERM
	}
	if !f.stubborn[pid] {
		f.gone[pid] = true
	}
	return nil
}

func (f *fakeSignaler) Kill(_ context.Context, pid int) error {
	f.kill = append(f.kill, pid)
	if f.denied[pid] || f.unkillable[pid] {
		return syscall.EPERM
	}
	f.gone[pid] = true
	return nil
}

func (f *fakeSignaler) Alive(_ context.Context, pid int) bool {
	return !f.gone[pid]
}

func newFake() *fakeSignaler {
	return &fakeSignaler{
		gone:       map[int]bool{},
		stubborn:   map[int]bool{},
		denied:     map[int]bool{},
		unkillable: map[int]bool{},
	}
}

func TestKill_PreservesOrderAndContinues(t *testing.T) {
	f := newFake()
	f.gone[111] = true
	term := &Terminator{Signaler: f}

	out := term.Kill(context.Background(), []int{111, 222})

	require.Len(t, out, 2)
	assert.Equal(t, 111, out[0].PID)
	assert.False(t, out[0].Success)
	assert.ErrorIs(t, out[0].Err, syscall.ESRCH)
	assert.Equal(t, Outcome{PID: 222, Success: true}, out[1])
	assert.Equal(t, []int{111, 222}, f.terminate)
	assert.Empty(t, f.kill, "Kill never escalates")
}

func TestKill_PermissionDenied(t *testing.T) {
	f := newFake()
	f.denied[1] = true
	out := (&Terminator{Signaler: f}).Kill(context.Background(), []int{1, 2, 3})

	assert.Equal(t, []int{2, 3}, out.Succeeded())
	failed := out.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, 1, failed[0].PID)
	assert.ErrorIs(t, failed[0].Err, syscall.EPERM)
}

func TestKill_Empty(t *testing.T) {
	out := (&Terminator{Signaler: newFake()}).Kill(context.Background(), nil)
	assert.Empty(t, out)
	assert.NoError(t, out.Err())
}

func TestOutcomes_Err(t *testing.T) {
	out := Outcomes{
		{PID: 1, Err: errors.New("no such process")},
		{PID: 2, Success: true},
		{PID: 3, Err: errors.New("operation not permitted")},
	}
	err := out.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PID 1: no such process")
	assert.Contains(t, err.Error(), "PID 3: operation not permitted")
	assert.NotContains(t, err.Error(), "PID 2")

	assert.NoError(t, Outcomes{{PID: 2, Success: true}}.Err())
}

func TestEscalate_KillsOnlySurvivors(t *testing.T) {
	f := newFake()
	f.gone[10] = true
	f.stubborn[30] = true
	term := &Terminator{Signaler: f, Grace: time.Millisecond}

	out := term.Escalate(context.Background(), []int{10, 20, 30})

	require.Len(t, out, 3)
	assert.False(t, out[0].Success)
	assert.True(t, out[1].Success)
	assert.True(t, out[2].Success)
	assert.Equal(t, []int{30}, f.kill)
}

func TestEscalate_KillFailure(t *testing.T) {
	f := newFake()
	f.stubborn[40] = true
	f.unkillable[40] = true
	term := &Terminator{Signaler: f, Grace: time.Millisecond}

	out := term.Escalate(context.Background(), []int{40})

	require.Len(t, out, 1)
	assert.False(t, out[0].Success)
	assert.ErrorIs(t, out[0].Err, syscall.EPERM)
	assert.Equal(t, []int{40}, f.kill)
}

func TestEscalate_Cancelled(t *testing.T) {
	f := newFake()
	f.stubborn[50] = true
	term := &Terminator{Signaler: f, Grace: time.Hour}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := term.Escalate(ctx, []int{50})

	require.Len(t, out, 1)
	assert.True(t, out[0].Success)
	assert.Empty(t, f.kill)
}

func TestSystem_TerminateRealProcess(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("signals are unix-only")
	}
	cmd := exec.Command("sleep", "30")
	require.NoError(t, cmd.Start())
	t.Cleanup(func() { _ = cmd.Process.Kill() })

	out := New().Kill(context.Background(), []int{cmd.Process.Pid, 99999999})
	require.Len(t, out, 2)
	assert.True(t, out[0].Success, "err: %v", out[0].Err)
	assert.False(t, out[1].Success)
	assert.Error(t, out[1].Err)

	err := cmd.Wait()
	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	status, ok := exitErr.Sys().(syscall.WaitStatus)
	require.True(t, ok)
	assert.Equal(t, syscall.SIGTERM, status.Signal())
}

func TestSystem_RejectsWrappedPID(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("signals are unix-only")
	}
	if strconv.IntSize < 64 {
		t.Skip("int cannot exceed int32 here")
	}
	cmd := exec.Command("sleep", "30")
	require.NoError(t, cmd.Start())
	t.Cleanup(func() { _ = cmd.Process.Kill() })

	// Truncated to 32 bits this is the sleeper's pid.
	wrapped := int(int64(cmd.Process.Pid) + 1<<32)

	out := New().Escalate(context.Background(), []int{wrapped})
	require.Len(t, out, 1)
	assert.False(t, out[0].Success)
	assert.ErrorIs(t, out[0].Err, ps.ErrInvalidPID)
	assert.False(t, System{}.Alive(context.Background(), wrapped))

	assert.True(t, System{}.Alive(context.Background(), cmd.Process.Pid), "sleeper must not be signalled")
}
