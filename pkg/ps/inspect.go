package ps

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/process"
)

// maxOpenFiles caps the number of open file paths kept in a Detail.
const maxOpenFiles = 8

// Detail holds live information about a process, read when a preview is
// rendered. It is display-only.
type Detail struct {
	PID           int
	PPID          int
	Status        string
	Started       time.Time
	MemoryPercent float32
	Command       string
	OpenFiles     int
	Files         []string
}

// Inspect reads live details of pid. Fields the platform cannot provide
// are left at their zero value; only a vanished process is an error.
func Inspect(ctx context.Context, pid int) (Detail, error) {
	pid32, err := PID32(pid)
	if err != nil {
		return Detail{}, err
	}
	p, err := process.NewProcessWithContext(ctx, pid32)
	if err != nil {
		return Detail{}, fmt.Errorf("process %d: %w", pid, err)
	}

	d := Detail{PID: pid}
	if ppid, err := p.PpidWithContext(ctx); err == nil {
		d.PPID = int(ppid)
	}
	if status, err := p.StatusWithContext(ctx); err == nil {
		d.Status = strings.Join(status, ",")
	}
	if ms, err := p.CreateTimeWithContext(ctx); err == nil {
		d.Started = time.UnixMilli(ms)
	}
	if pct, err := p.MemoryPercentWithContext(ctx); err == nil {
		d.MemoryPercent = pct
	}
	if cmd, err := p.CmdlineWithContext(ctx); err == nil {
		d.Command = SanitizeCommand(cmd)
	}
	if files, err := p.OpenFilesWithContext(ctx); err == nil {
		d.OpenFiles = len(files)
		for _, f := range files {
			if len(d.Files) == maxOpenFiles {
				break
			}
			if strings.HasPrefix(f.Path, "/") {
				d.Files = append(d.Files, f.Path)
			}
		}
	}
	return d, nil
}
