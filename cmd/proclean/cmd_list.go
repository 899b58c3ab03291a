package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"proclean/pkg/filter"
	"proclean/pkg/ps"
	"proclean/pkg/render"
)

var flagOutput string

var listCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "Print the orphan processes without picking",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		procs, err := loader(filter.ModeFor(flagAll))(cmd.Context())
		if err != nil {
			return err
		}
		return writeProcs(cmd.OutOrStdout(), procs, flagOutput)
	},
}

func init() {
	listCmd.Flags().StringVarP(&flagOutput, "output", "o", "table", "output format: table or yaml")
	_ = listCmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"table", "yaml"}, cobra.ShellCompDirectiveNoFileComp
	})
}

// printTable writes the fzf reload table.
func printTable(ctx context.Context, w io.Writer, load func(context.Context) ([]ps.Process, error)) error {
	procs, err := load(ctx)
	if err != nil {
		return err
	}
	return writeProcs(w, procs, "table")
}

func writeProcs(w io.Writer, procs []ps.Process, format string) error {
	switch format {
	case "table":
		_, err := io.WriteString(w, render.Table(procs))
		return err
	case "yaml":
		if procs == nil {
			procs = []ps.Process{}
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(procs); err != nil {
			return fmt.Errorf("failed to encode processes: %w", err)
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown output format %q (want table or yaml)", format)
}
