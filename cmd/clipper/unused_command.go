package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"clipper/internal/batchrun"
	"clipper/internal/driver"
)

func newUnusedCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "unused",
		Short: "List input files no pending job reads",
		Long: "List regular files in input_dir that no ready request references, with a\n" +
			"suggested removal command for each. Nothing is deleted.",
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
			unused, err := driver.UnusedInputs(cfg.Paths.InputDir, items)
			if err != nil {
				return fmt.Errorf("list input directory: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(unused) == 0 {
				fmt.Fprintln(out, "Every input file is referenced")
				return nil
			}
			for _, path := range unused {
				fmt.Fprintf(out, "rm %s\n", strconv.Quote(path))
			}
			return nil
		},
	}
}
