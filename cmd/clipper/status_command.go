package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"clipper/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report tool availability and directory access",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			lines := renderSectionHeader("Tools", colorize)
			lines = append(lines, dependencyLines(preflight.CheckSystemDeps(cmd.Context(), cfg), colorize)...)
			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Paths", colorize)...)
			lines = append(lines, preflightLines(preflight.RunAll(cmd.Context(), cfg), colorize)...)
			fmt.Fprintln(out, strings.Join(lines, "\n"))
			return nil
		},
	}
}
