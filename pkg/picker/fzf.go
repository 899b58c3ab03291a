// Package picker hosts the selectors that let the operator pick orphans
// outside the embedded list UI: the external fzf binary and an in-process
// fuzzy finder.
package picker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"al.essio.dev/pkg/shellescape"
	"github.com/sirupsen/logrus"

	"proclean/pkg/filter"
	"proclean/pkg/ps"
	"proclean/pkg/render"
	"proclean/pkg/terminate"
)

// ErrDependencyMissing is returned when the fzf binary is not on PATH.
var ErrDependencyMissing = errors.New("fzf is required. Install: brew install fzf")

// Hidden flags the fzf bindings call back into.
const (
	ListFlag    = "--_list"
	PreviewFlag = "--_preview"
)

// Selector runs one interactive session until the operator leaves it.
type Selector interface {
	Run(ctx context.Context) error
}

// FZF drives an external fzf process over the formatted table. Killing and
// reloading happen inside fzf through shell bindings that call back into
// Self.
type FZF struct {
	Mode filter.Mode
	Self string
	Load func(ctx context.Context) ([]ps.Process, error)

	Stdout io.Writer
	Stderr io.Writer

	// LookPath resolves the fzf binary. Defaults to exec.LookPath.
	LookPath func(file string) (string, error)
}

var _ Selector = (*FZF)(nil)

var palette = []string{
	"spinner:#F2D5CF,hl:#E78284",
	"fg:#C6D0F5,header:#E78284,info:#CA9EE6,pointer:#F2D5CF",
	"marker:#BABBF1,fg+:#C6D0F5,prompt:#CA9EE6,hl+:#E78284",
	"bg+:#51576D",
	"selected-fg:#C6D0F5,selected-bg:#414559",
	"alt-bg:#353a4a",
	"header-border:#737994,header-label:#C6D0F5",
	"border:#303446,label:#C6D0F5",
	"preview-border:#9999cc,preview-label:#ccccff",
	"list-border:#bfe7bb,list-label:#99cc99",
	"input-border:#f6cce7,input-label:#ffcccc",
}

// skipNonNumeric ignores header and label lines that fzf passes as
// selections.
const skipNonNumeric = `case "$p" in ""|*[!0-9]*) continue ;; esac`

// KillScript returns the bash program bound to enter. It receives the
// selected pids as positional arguments, sends TERM to each, waits for the
// grace period and sends KILL to whatever is still alive.
func KillScript() string {
	grace := strconv.FormatFloat(terminate.DefaultGrace.Seconds(), 'f', -1, 64)
	return strings.Join([]string{
		`for p in "$@"; do ` + skipNonNumeric + `; kill -TERM "$p" 2>/dev/null; done`,
		`sleep ` + grace,
		`for p in "$@"; do ` + skipNonNumeric + `; kill -0 "$p" 2>/dev/null && kill -9 "$p" 2>/dev/null; done`,
		`sleep 0.1`,
	}, "; ")
}

// KillCommand is the fzf command template running KillScript over the
// first field of every selected line.
func KillCommand() string {
	return "bash -c " + shellescape.Quote(KillScript()) + " -- {+1}"
}

// ReloadCommand prints a fresh table for the current mode.
func (f *FZF) ReloadCommand() string {
	cmd := shellescape.Quote(f.Self) + " " + ListFlag
	if f.Mode == filter.ModeAll {
		cmd += " -a"
	}
	return cmd
}

// PreviewCommand renders the details of the process on the focused line.
func (f *FZF) PreviewCommand() string {
	return shellescape.Quote(f.Self) + " " + PreviewFlag + " {1}"
}

// ListLabel is the label shown above a list of n processes.
func ListLabel(n int) string {
	return fmt.Sprintf(" %d orphan processes ", n)
}

// Args returns the fzf command line for a list of n processes.
func (f *FZF) Args(n int) []string {
	args := []string{
		"--multi",
		"--ansi",
		"--style=full",
		"--header-lines=1",
		"--input-label", fmt.Sprintf(" proclean [%s] ", f.Mode),
		"--list-label", ListLabel(n),
		"--header-label", " TAB:select  Enter:kill  ^A:all  ^C:quit ",
		"--preview", f.PreviewCommand(),
		"--preview-window", "right:48%:wrap",
		"--preview-label", " Details ",
		"--pointer", "▶ ",
		"--marker", "● ",
		"--bind", "ctrl-a:toggle-all",
		"--bind", "enter:execute-silent(" + KillCommand() + ")+reload(" + f.ReloadCommand() + ")",
		"--highlight-line",
		"--gap=0",
		"--gap-line", "┈",
		"--header-border",
	}
	for _, c := range palette {
		args = append(args, "--color", c)
	}
	return args
}

// Env returns the environment for fzf: the inherited one with the user's
// default options cleared so they cannot break the bindings.
func Env(environ []string) []string {
	env := make([]string, 0, len(environ)+1)
	for _, kv := range environ {
		if !strings.HasPrefix(kv, "FZF_DEFAULT_OPTS=") {
			env = append(env, kv)
		}
	}
	return append(env, "FZF_DEFAULT_OPTS=")
}

// Run checks for fzf, takes a snapshot, feeds the table to fzf and waits
// for it to exit. Quitting fzf is not an error.
func (f *FZF) Run(ctx context.Context) error {
	lookPath := f.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	bin, err := lookPath("fzf")
	if err != nil {
		return ErrDependencyMissing
	}

	procs, err := f.Load(ctx)
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, bin, f.Args(len(procs))...)
	cmd.Stdin = strings.NewReader(render.Table(procs))
	cmd.Stdout = f.Stdout
	cmd.Stderr = f.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	cmd.Env = Env(os.Environ())

	logrus.WithFields(logrus.Fields{
		"mode":  f.Mode,
		"count": len(procs),
		"bin":   bin,
	}).Debug("starting fzf")

	err = cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// 1: no match, 130: interrupted with ctrl-c or esc.
		switch exitErr.ExitCode() {
		case 1, 130:
			return nil
		}
	}
	if err != nil {
		return fmt.Errorf("fzf error: %w", err)
	}
	return nil
}
