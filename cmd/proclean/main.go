package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"proclean/pkg/filter"
	"proclean/pkg/lib"
	"proclean/pkg/logging"
	"proclean/pkg/picker"
	"proclean/pkg/ps"
	"proclean/pkg/terminate"
	"proclean/pkg/tui"
)

const appName = "proclean"

const (
	pickerFZF    = "fzf"
	pickerTUI    = "tui"
	pickerFinder = "finder"
)

var (
	flagAll     bool
	flagPicker  = pickerFlag(pickerFZF)
	flagDebug   bool
	flagList    bool
	flagPreview string
)

var closeLog = func() error { return nil }

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "List and kill orphan processes",
	Long: `proclean lists the orphan processes of the current user (parent is init,
no controlling terminal) and lets you pick the ones to kill.

By default only development tooling is shown: node and package runners,
python, deno, go, cargo, version manager shims and agent helpers. Use -a
to show every orphan except system processes.`,
	Example: `  proclean                 # dev mode in fzf
  proclean -a              # all mode
  proclean --picker tui    # embedded list UI
  proclean ls -o yaml      # print the snapshot
  proclean kill --force 4242`,
	Args: cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		closer, err := logging.Setup(logrus.StandardLogger(), flagDebug)
		closeLog = closer
		return err
	},
	RunE: run,
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) == 0 && toComplete == "" {
			return []string{"--"}, cobra.ShellCompDirectiveNoSpace | cobra.ShellCompDirectiveNoFileComp
		}
		return nil, cobra.ShellCompDirectiveNoFileComp
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagAll, "all", "a", false, "show all orphan processes (not just dev tools)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "write debug logs to "+logging.Path())

	rootCmd.Flags().Var(&flagPicker, "picker", "selector to use: "+strings.Join(pickerNames, ", "))
	rootCmd.Flags().BoolVar(&flagList, "_list", false, "print the table for an fzf reload")
	rootCmd.Flags().StringVar(&flagPreview, "_preview", "", "print the fzf preview of a pid")
	_ = rootCmd.Flags().MarkHidden("_list")
	_ = rootCmd.Flags().MarkHidden("_preview")

	_ = rootCmd.RegisterFlagCompletionFunc("picker", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return pickerNames, cobra.ShellCompDirectiveNoFileComp
	})
}

func main() {
	rootCmd.AddCommand(listCmd, killCmd)

	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	err := rootCmd.Execute()
	_ = closeLog()
	if err != nil {
		if errors.Is(err, picker.ErrDependencyMissing) {
			lib.PressAnyKeyAndExit(err)
		}
		lib.Exit(err)
	}
}

// loader returns the snapshot function for mode: every orphan of the
// user, classified.
func loader(mode filter.Mode) func(ctx context.Context) ([]ps.Process, error) {
	return func(ctx context.Context) ([]ps.Process, error) {
		procs, err := ps.List(ctx)
		if err != nil {
			return nil, err
		}
		return filter.Apply(mode, procs), nil
	}
}

func run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	mode := filter.ModeFor(flagAll)
	out := cmd.OutOrStdout()

	switch {
	case flagList:
		return printTable(ctx, out, loader(mode))
	case cmd.Flags().Changed("_preview"):
		fmt.Fprint(out, preview(ctx, flagPreview, previewWidth(os.Getenv("FZF_PREVIEW_COLUMNS")), ps.Inspect, ps.List))
		return nil
	}

	logrus.WithFields(logrus.Fields{"mode": mode, "picker": flagPicker}).Debug("starting")

	sel, err := selector(string(flagPicker), mode, cmd)
	if err != nil {
		return err
	}
	return sel.Run(ctx)
}

func selector(name string, mode filter.Mode, cmd *cobra.Command) (picker.Selector, error) {
	switch name {
	case pickerFZF:
		self, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve executable: %w", err)
		}
		return &picker.FZF{
			Mode:   mode,
			Self:   self,
			Load:   loader(mode),
			Stdout: cmd.OutOrStdout(),
			Stderr: cmd.ErrOrStderr(),
		}, nil
	case pickerTUI:
		return tuiSelector{tui.Options{
			Mode:    mode,
			Load:    loader(mode),
			Kill:    terminate.Kill,
			Inspect: ps.Inspect,
		}}, nil
	case pickerFinder:
		f := picker.NewFinder(mode, loader(mode))
		f.Out = cmd.OutOrStdout()
		return f, nil
	}
	return nil, fmt.Errorf("unknown picker %q (want %s, %s or %s)", name, pickerFZF, pickerTUI, pickerFinder)
}

type tuiSelector struct {
	opts tui.Options
}

func (s tuiSelector) Run(ctx context.Context) error {
	return tui.Run(ctx, s.opts)
}
