package batchrun

import (
	"context"
	"log/slog"

	"clipper/internal/config"
	"clipper/internal/driver"
	"clipper/internal/instructions"
	"clipper/internal/outputindex"
	"clipper/internal/request"
	"clipper/internal/resolve"
)

// Batch is the parsed and indexed state shared by run, plan and unused.
type Batch struct {
	Jobs    []instructions.Job
	Index   *outputindex.Index
	Builder *request.Builder
}

// Prepare parses the instruction file and indexes already-produced outputs.
func Prepare(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Batch, error) {
	jobs, err := instructions.ParseFile(ctx, cfg.Paths.InstructionFile, logger)
	if err != nil {
		return nil, err
	}
	index, err := outputindex.Build(ctx, cfg.IndexRoots(), cfg.Transcode.IndexExtensions, logger)
	if err != nil {
		return nil, err
	}
	return &Batch{
		Jobs:    jobs,
		Index:   index,
		Builder: NewBuilder(cfg, index, logger),
	}, nil
}

// NewResolver tries the remote downloader for matching references, then the
// input directory.
func NewResolver(cfg *config.Config, logger *slog.Logger) *resolve.Resolver {
	remote := resolve.Remote{
		Patterns:   cfg.Transcode.RemotePatterns,
		DestDir:    cfg.Paths.InputDir,
		Downloader: resolve.YTDLP{Binary: cfg.DownloaderBinary()},
	}
	return resolve.New(logger, remote, resolve.Local{Root: cfg.Paths.InputDir})
}

// NewBuilder assembles a request builder from configuration.
func NewBuilder(cfg *config.Config, index *outputindex.Index, logger *slog.Logger) *request.Builder {
	settings := request.Settings{
		OutputDir:      cfg.Paths.OutputDir,
		AudioExtension: cfg.Transcode.AudioExtension,
		VideoExtension: cfg.Transcode.VideoExtension,
		ResizeRule:     cfg.Transcode.ResizeRule,
	}
	prober := request.FFprobe{Binary: cfg.FFprobeBinary()}
	return request.NewBuilder(settings, NewResolver(cfg, logger), prober, index, logger)
}

// Plan builds every request without executing anything.
func Plan(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Batch, []driver.Item, error) {
	batch, err := Prepare(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	drv := driver.New(driver.Options{FFmpeg: cfg.FFmpegBinary(), DryRun: true}, nil, nil, logger)
	return batch, drv.Plan(ctx, batch.Builder, batch.Jobs), nil
}
