package picker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/x/ansi"
	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/sirupsen/logrus"

	"proclean/pkg/filter"
	"proclean/pkg/ps"
	"proclean/pkg/render"
	"proclean/pkg/terminate"
)

// Finder is an in-process fuzzy picker. Each round takes a fresh snapshot,
// lets the operator mark processes, asks for confirmation and escalates
// termination. It stops when the finder is aborted or nothing is left.
// The outcome of a round is printed and also shown as the header of the
// next one, since the finder takes over the screen right away.
type Finder struct {
	Mode filter.Mode
	Load func(ctx context.Context) ([]ps.Process, error)
	Kill func(ctx context.Context, pids []int) terminate.Outcomes
	Out  io.Writer

	// Find and Confirm default to go-fuzzyfinder and a huh confirm field.
	Find    func(ctx context.Context, procs []ps.Process, mode filter.Mode, status string) ([]int, error)
	Confirm func(ctx context.Context, pids []int) (bool, error)
}

var _ Selector = (*Finder)(nil)

// NewFinder returns a Finder over the classified snapshot for mode.
func NewFinder(mode filter.Mode, load func(ctx context.Context) ([]ps.Process, error)) *Finder {
	return &Finder{
		Mode:    mode,
		Load:    load,
		Kill:    terminate.New().Escalate,
		Out:     os.Stdout,
		Find:    FuzzyFind,
		Confirm: ConfirmKill,
	}
}

func (f *Finder) Run(ctx context.Context) error {
	var status string
	for {
		procs, err := f.Load(ctx)
		if err != nil {
			return err
		}
		if len(procs) == 0 {
			fmt.Fprintln(f.Out, render.EmptyMessage)
			return nil
		}

		idx, err := f.Find(ctx, procs, f.Mode, status)
		status = ""
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("finder: %w", err)
		}
		if len(idx) == 0 {
			return nil
		}

		pids := make([]int, len(idx))
		for i, j := range idx {
			pids[i] = procs[j].PID
		}

		ok, err := f.Confirm(ctx, pids)
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		if err != nil {
			return err
		}
		if !ok {
			continue
		}

		logrus.WithField("pids", pids).Debug("escalating")
		outcomes := f.Kill(ctx, pids)
		fmt.Fprint(f.Out, render.Report(outcomes))
		status = render.Summary(outcomes)
	}
}

// FuzzyFind shows procs in go-fuzzyfinder and returns the indices the
// operator marked. A non-empty status replaces the column header.
func FuzzyFind(ctx context.Context, procs []ps.Process, mode filter.Mode, status string) ([]int, error) {
	header := ansi.Strip(render.Header())
	if status != "" {
		header = status
	}
	return fuzzyfinder.FindMulti(
		procs,
		func(i int) string {
			return ansi.Strip(render.Line(procs[i]))
		},
		fuzzyfinder.WithContext(ctx),
		fuzzyfinder.WithHeader(header),
		fuzzyfinder.WithPromptString(fmt.Sprintf("proclean [%s] > ", mode)),
		fuzzyfinder.WithPreviewWindow(func(i, w, _ int) string {
			if i < 0 || i >= len(procs) {
				return ""
			}
			return render.Preview(procs[i], nil, w)
		}),
	)
}

// ConfirmKill asks whether pids should be killed.
func ConfirmKill(ctx context.Context, pids []int) (bool, error) {
	var ok bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Kill %d process(es)?", len(pids))).
				Description(fmt.Sprintf("PIDs: %v", pids)).
				Affirmative("Kill").
				Negative("Cancel").
				Value(&ok),
		),
	)
	if err := form.RunWithContext(ctx); err != nil {
		return false, err
	}
	return ok, nil
}
