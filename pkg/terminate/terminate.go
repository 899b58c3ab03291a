// Package terminate sends termination signals to batches of processes and
// reports one outcome per pid.
package terminate

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
)

// DefaultGrace is how long Escalate waits between SIGTERM and SIGKILL.
const DefaultGrace = 300 * time.Millisecond

// Outcome is the result of one termination attempt.
type Outcome struct {
	PID     int
	Success bool
	Err     error
}

// Outcomes holds a batch result in input order.
type Outcomes []Outcome

// Succeeded returns the pids that were signalled successfully.
func (o Outcomes) Succeeded() []int {
	var pids []int
	for _, r := range o {
		if r.Success {
			pids = append(pids, r.PID)
		}
	}
	return pids
}

// Failed returns the failed outcomes.
func (o Outcomes) Failed() Outcomes {
	var failed Outcomes
	for _, r := range o {
		if !r.Success {
			failed = append(failed, r)
		}
	}
	return failed
}

// Err folds every failure into one error, or returns nil.
func (o Outcomes) Err() error {
	var result *multierror.Error
	for _, r := range o.Failed() {
		result = multierror.Append(result, fmt.Errorf("PID %d: %w", r.PID, r.Err))
	}
	return result.ErrorOrNil()
}

// Terminator signals processes one at a time.
type Terminator struct {
	Signaler Signaler
	Grace    time.Duration
}

// New returns a Terminator signalling real processes.
func New() *Terminator {
	return &Terminator{Signaler: System{}, Grace: DefaultGrace}
}

// Kill sends the graceful termination signal to every pid with the default
// Terminator.
func Kill(ctx context.Context, pids []int) Outcomes {
	return New().Kill(ctx, pids)
}

// Kill sends the graceful termination signal to each pid in order. A
// failure is recorded in that pid's outcome and the batch continues. There
// is no retry and no escalation.
func (t *Terminator) Kill(ctx context.Context, pids []int) Outcomes {
	out := make(Outcomes, 0, len(pids))
	for _, pid := range pids {
		err := t.Signaler.Terminate(ctx, pid)
		log := logrus.WithField("pid", pid)
		if err != nil {
			log.WithError(err).Debug("terminate failed")
			out = append(out, Outcome{PID: pid, Err: err})
			continue
		}
		log.Debug("terminated")
		out = append(out, Outcome{PID: pid, Success: true})
	}
	return out
}

// Escalate terminates every pid, waits for the grace period, then
// force-kills the ones still alive. A pid fails only if the graceful
// signal failed, or a required forceful signal failed.
func (t *Terminator) Escalate(ctx context.Context, pids []int) Outcomes {
	out := t.Kill(ctx, pids)

	grace := t.Grace
	if grace <= 0 {
		grace = DefaultGrace
	}
	timer := time.NewTimer(grace)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return out
	case <-timer.C:
	}

	for i, r := range out {
		if !r.Success || !t.Signaler.Alive(ctx, r.PID) {
			continue
		}
		if err := t.Signaler.Kill(ctx, r.PID); err != nil {
			logrus.WithField("pid", r.PID).WithError(err).Debug("kill failed")
			out[i] = Outcome{PID: r.PID, Err: err}
			continue
		}
		logrus.WithField("pid", r.PID).Debug("killed after grace period")
	}
	return out
}
