package preflight

import (
	"context"

	"clipper/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
	// Fatal marks checks whose failure must abort a run.
	Fatal bool
}

// RunAll executes the filesystem checks for a batch run. The instruction file,
// input directory, output directory and backup directory are fatal; extra
// index roots only warn because a missing archive just means nothing is
// skipped.
func RunAll(_ context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		fatal(CheckFileReadable("Instruction file", cfg.Paths.InstructionFile)),
		fatal(CheckDirectoryReadable("Input directory", cfg.Paths.InputDir)),
		fatal(CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir)),
		fatal(CheckDirectoryAccess("Backup directory", cfg.Paths.BackupDir)),
	}
	for _, root := range cfg.Paths.ExistingRoots {
		results = append(results, CheckDirectoryReadable("Index root", root))
	}
	return results
}

// FirstFatal returns the first failed fatal result.
func FirstFatal(results []Result) (Result, bool) {
	for _, r := range results {
		if r.Fatal && !r.Passed {
			return r, true
		}
	}
	return Result{}, false
}

func fatal(r Result) Result {
	r.Fatal = true
	return r
}
