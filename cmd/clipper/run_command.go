package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"clipper/internal/batchrun"
	"clipper/internal/history"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Process the instruction file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			result, err := batchrun.Run(cmd.Context(), cfg, batchrun.Options{DryRun: dryRun, Logger: logger})
			if result.RunID != "" {
				printRunSummary(cmd.OutOrStdout(), result, dryRun)
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Build requests and log commands without running ffmpeg")
	return cmd
}

func printRunSummary(out io.Writer, result batchrun.Result, dryRun bool) {
	counts := result.Report.Counts
	fmt.Fprintf(out, "Run %s\n", result.RunID)
	rows := [][]string{
		{"Jobs", fmt.Sprint(counts.Jobs)},
		{"Executed", fmt.Sprint(counts.Executed)},
		{"Succeeded", fmt.Sprint(counts.Succeeded)},
		{"Failed", fmt.Sprint(counts.Failed)},
		{"Skipped", fmt.Sprint(counts.Skipped)},
		{"Requeued", fmt.Sprint(counts.Requeued)},
		{"Rejected", fmt.Sprint(counts.Rejected)},
	}
	fmt.Fprintln(out, renderTable([]tableColumn{
		{Header: "Outcome"},
		{Header: "Count", Align: alignRight},
	}, rows))

	for _, entry := range result.Report.Entries {
		if entry.Outcome == history.OutcomeMissing || entry.Outcome == history.OutcomeUndersized || entry.Outcome == history.OutcomeRejected {
			fmt.Fprintf(out, "line %d: %s\n", entry.Line, entry.Detail)
		}
	}
	switch {
	case dryRun:
		fmt.Fprintln(out, "Dry run: no commands executed, backup not written")
	case result.BackupPath != "":
		fmt.Fprintf(out, "Backup: %s\n", result.BackupPath)
	}
	if result.Report.Interrupted {
		fmt.Fprintln(out, "Interrupted before every job ran")
	}
}
