package ps

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Runner runs the process query and returns its standard output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner runs the command with os/exec.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil && stderr.Len() > 0 {
		logrus.WithField("stderr", stderr.String()).Debug("ps reported an error")
	}
	return out, err
}

// Lister enumerates orphan processes owned by one user.
type Lister struct {
	Run Runner
	// UID returns the user whose processes are listed. A negative value
	// means the user is unknown.
	UID func() int
}

// NewLister returns a Lister for the invoking user.
func NewLister() *Lister {
	return &Lister{Run: ExecRunner, UID: os.Getuid}
}

// List returns the current user's orphan processes in the order ps
// printed them. See Lister.List.
func List(ctx context.Context) ([]Process, error) {
	return NewLister().List(ctx)
}

// List queries ps for the user's processes and keeps the orphans.
//
// An unknown user yields an empty result, not an error. Lines that cannot
// be parsed are dropped.
func (l *Lister) List(ctx context.Context) ([]Process, error) {
	uid := l.UID()
	if uid < 0 {
		return nil, nil
	}

	args := queryArgs(uid)
	out, err := l.Run(ctx, "ps", args...)
	if err != nil {
		return nil, &EnumerationError{Args: args, Err: err}
	}

	procs := parseOrphans(out)
	logrus.WithFields(logrus.Fields{"uid": uid, "count": len(procs)}).Debug("listed orphan processes")
	return procs, nil
}

func queryArgs(uid int) []string {
	return []string{"-u", strconv.Itoa(uid), "-o", "pid=,ppid=,tty=,%cpu=,rss=,etime=,command="}
}

func parseOrphans(out []byte) []Process {
	var procs []Process
	// Lines are split by hand: a command line has no length limit.
	for line := range bytes.Lines(out) {
		p, ok := ParseLine(strings.TrimRight(string(line), "\r\n"))
		if !ok || !p.IsOrphan() {
			continue
		}
		procs = append(procs, p)
	}
	return procs
}
