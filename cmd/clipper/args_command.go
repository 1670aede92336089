package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"clipper/internal/driver"
	"clipper/internal/instructions"
	"clipper/internal/outputindex"
)

func newArgsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "args",
		Short: "List parsed jobs without resolving inputs or running anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			jobs, err := instructions.ParseFile(cmd.Context(), cfg.Paths.InstructionFile, logger)
			if err != nil {
				return err
			}
			index, err := outputindex.Build(cmd.Context(), cfg.IndexRoots(), cfg.Transcode.IndexExtensions, logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			descriptors := driver.Describe(jobs, index)
			if len(descriptors) == 0 {
				fmt.Fprintln(out, "No jobs in instruction file")
				return nil
			}
			rows := make([][]string, 0, len(descriptors))
			for _, d := range descriptors {
				rows = append(rows, []string{
					fmt.Sprint(d.Job.Line),
					d.Job.OutputName,
					d.Job.StartTime,
					d.Job.EndTime,
					d.Job.InputRef,
					yesNo(d.ExistingPath != ""),
				})
			}
			fmt.Fprintln(out, renderTable([]tableColumn{
				{Header: "Line", Align: alignRight},
				{Header: "Output"},
				{Header: "Start"},
				{Header: "End"},
				{Header: "Input"},
				{Header: "Exists"},
			}, rows))
			return nil
		},
	}
}
