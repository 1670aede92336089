package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"clipper/internal/history"
)

const historyTimeLayout = "2006-01-02 15:04:05"

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show recent runs or the jobs of one run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := history.OpenForConfig(cfg)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if len(args) == 1 {
				run, err := store.GetRun(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if run == nil {
					return fmt.Errorf("run %s not found", args[0])
				}
				jobs, err := store.Jobs(cmd.Context(), run.ID)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Run %s (%s)\n", run.ID, run.InstructionFile)
				fmt.Fprintln(out, renderTable([]tableColumn{
					{Header: "Line", Align: alignRight},
					{Header: "Output"},
					{Header: "Outcome"},
					{Header: "Bytes", Align: alignRight},
					{Header: "Detail", MaxWidth: commandColumnWidth},
				}, jobRows(jobs)))
				return nil
			}

			runs, err := store.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			fmt.Fprintln(out, renderTable([]tableColumn{
				{Header: "Run"},
				{Header: "Started"},
				{Header: "Duration", Align: alignRight},
				{Header: "Dry Run"},
				{Header: "Jobs", Align: alignRight},
				{Header: "OK", Align: alignRight},
				{Header: "Failed", Align: alignRight},
				{Header: "Requeued", Align: alignRight},
				{Header: "Rejected", Align: alignRight},
			}, runRows(runs)))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of runs to show")
	return cmd
}

func runRows(runs []history.Run) [][]string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		duration := "running"
		if run.Finished() {
			duration = run.FinishedAt.Sub(run.StartedAt).Round(time.Second).String()
		}
		rows = append(rows, []string{
			run.ID,
			run.StartedAt.Local().Format(historyTimeLayout),
			duration,
			yesNo(run.DryRun),
			fmt.Sprint(run.Counts.Jobs),
			fmt.Sprint(run.Counts.Succeeded),
			fmt.Sprint(run.Counts.Failed),
			fmt.Sprint(run.Counts.Requeued),
			fmt.Sprint(run.Counts.Rejected),
		})
	}
	return rows
}

func jobRows(jobs []history.JobRecord) [][]string {
	rows := make([][]string, 0, len(jobs))
	for _, job := range jobs {
		detail := job.Detail
		if detail == "" {
			detail = job.Command
		}
		rows = append(rows, []string{
			fmt.Sprint(job.Line),
			job.OutputName,
			string(job.Outcome),
			fmt.Sprint(job.OutputBytes),
			detail,
		})
	}
	return rows
}
