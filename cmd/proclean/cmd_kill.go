package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"proclean/pkg/render"
	"proclean/pkg/terminate"
)

var flagForce bool

var killCmd = &cobra.Command{
	Use:   "kill PID...",
	Short: "Terminate processes without picking",
	Long: `Send SIGTERM to every pid. With --force, wait briefly and send SIGKILL to
the ones still alive. Exits with status 1 when any pid could not be
terminated.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pids, err := parsePIDs(args)
		if err != nil {
			return err
		}
		t := terminate.New()
		kill := t.Kill
		if flagForce {
			kill = t.Escalate
		}
		return report(cmd.OutOrStdout(), kill(cmd.Context(), pids))
	},
}

func init() {
	killCmd.Flags().BoolVarP(&flagForce, "force", "f", false, "send SIGKILL to processes surviving SIGTERM")
}

func parsePIDs(args []string) ([]int, error) {
	pids := make([]int, 0, len(args))
	for _, a := range args {
		pid, err := strconv.ParseInt(a, 10, 32)
		if err != nil || pid <= 0 {
			return nil, fmt.Errorf("invalid pid %q", a)
		}
		pids = append(pids, int(pid))
	}
	return pids, nil
}

// report prints the batch and returns an error when any pid failed.
func report(w io.Writer, outcomes terminate.Outcomes) error {
	fmt.Fprint(w, render.Report(outcomes))
	if failed := outcomes.Failed(); len(failed) > 0 {
		return fmt.Errorf("%d of %d processes could not be terminated", len(failed), len(outcomes))
	}
	return nil
}
