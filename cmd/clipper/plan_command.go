package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"clipper/internal/batchrun"
	"clipper/internal/driver"
)

const commandColumnWidth = 100

func newPlanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Show the ffmpeg command for every job without running it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			_, items, err := batchrun.Plan(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(out, "No jobs in instruction file")
				return nil
			}
			fmt.Fprintln(out, renderTable([]tableColumn{
				{Header: "Line", Align: alignRight},
				{Header: "Output"},
				{Header: "State"},
				{Header: "Command", MaxWidth: commandColumnWidth},
			}, planRows(items)))
			return nil
		},
	}
}

func planRows(items []driver.Item) [][]string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		state, detail := "ready", item.Command
		switch {
		case item.Err != nil:
			state, detail = "rejected", item.Err.Error()
		case item.Request.Existing():
			state, detail = "exists", item.Request.ExistingPath
		case !item.Request.Ready:
			state = "rejected"
		}
		rows = append(rows, []string{fmt.Sprint(item.Job.Line), item.Job.OutputName, state, detail})
	}
	return rows
}
