package main

import (
	"context"
	"strconv"

	"github.com/sirupsen/logrus"

	"proclean/pkg/ps"
	"proclean/pkg/render"
)

func previewWidth(columns string) int {
	w, err := strconv.Atoi(columns)
	if err != nil || w <= 0 {
		return render.DefaultPreviewWidth
	}
	return w
}

// preview renders the fzf preview for the first field of a table line.
// Header and label lines are not pids.
func preview(
	ctx context.Context,
	field string,
	width int,
	inspect func(context.Context, int) (ps.Detail, error),
	list func(context.Context) ([]ps.Process, error),
) string {
	pid, err := strconv.Atoi(field)
	if err != nil || pid <= 0 {
		return render.NotAProcess()
	}

	d, err := inspect(ctx, pid)
	if err != nil {
		logrus.WithField("pid", pid).WithError(err).Debug("preview inspect failed")
		return render.Gone(pid)
	}

	p := ps.Process{PID: d.PID, PPID: d.PPID, TTY: ps.NoTerminal, Command: d.Command}
	if procs, err := list(ctx); err == nil {
		for _, candidate := range procs {
			if candidate.PID == pid {
				p = candidate
				break
			}
		}
	}
	return render.Preview(p, &d, width)
}
