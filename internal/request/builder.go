package request

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"clipper/internal/instructions"
	"clipper/internal/logging"
	"clipper/internal/media/ffprobe"
	"clipper/internal/services"
	"clipper/internal/textutil"
	"clipper/internal/timecode"
)

// Request is a validated job ready for command synthesis.
type Request struct {
	Job        instructions.Job
	InputPath  string
	OutputPath string
	Seek       Option
	Duration   Option
	Options    []Option
	// Ready is true only when the input exists, the time window is valid, and
	// the output name cannot be read as a flag.
	Ready bool
	// ExistingPath is the previously produced file found by the output index.
	ExistingPath string
}

// Existing reports whether the output index already held this output.
func (r Request) Existing() bool {
	return r.ExistingPath != ""
}

// Resolver maps an instruction input reference to a local path.
type Resolver interface {
	Resolve(ctx context.Context, ref string) (string, error)
}

// Prober reports a source's video dimensions.
type Prober interface {
	Dimensions(ctx context.Context, path string) (ffprobe.Report, error)
}

// Index answers whether an output was already produced.
type Index interface {
	Lookup(outputName string) (string, bool)
}

// Settings holds the configuration the builder needs.
type Settings struct {
	OutputDir      string
	AudioExtension string
	VideoExtension string
	ResizeRule     string
}

// Builder validates instruction jobs into requests.
type Builder struct {
	settings Settings
	resolver Resolver
	prober   Prober
	index    Index
	logger   *slog.Logger
}

// NewBuilder constructs a Builder. index may be nil to disable existing-output
// detection.
func NewBuilder(settings Settings, resolver Resolver, prober Prober, index Index, logger *slog.Logger) *Builder {
	return &Builder{
		settings: settings,
		resolver: resolver,
		prober:   prober,
		index:    index,
		logger:   logging.NewComponentLogger(logger, "request"),
	}
}

// Build validates job. A non-nil error explains why the request is not ready;
// the returned Request still carries the job and any fields computed so far.
// Outputs already in the index are returned without resolving or probing.
func (b *Builder) Build(ctx context.Context, job instructions.Job) (Request, error) {
	req := Request{
		Job:        job,
		OutputPath: filepath.Join(b.settings.OutputDir, job.OutputName),
	}

	if b.index != nil {
		if existing, ok := b.index.Lookup(job.OutputName); ok {
			req.ExistingPath = existing
			return req, nil
		}
	}

	inputPath, err := b.resolver.Resolve(ctx, job.InputRef)
	if err != nil {
		return req, err
	}
	req.InputPath = inputPath

	if err := b.applyTimeWindow(&req); err != nil {
		return req, err
	}

	req.Options = b.selectOptions(ctx, job.OutputName, inputPath)

	if textutil.LooksLikeFlag(job.OutputName) || textutil.LooksLikeFlag(filepath.Base(job.OutputName)) {
		return req, services.Wrap(services.ErrValidation, "request", "output name",
			fmt.Sprintf("%s begins with '-'", job.OutputName), nil)
	}

	req.Ready = true
	return req, nil
}

func (b *Builder) applyTimeWindow(req *Request) error {
	job := req.Job
	if !timecode.IsSentinel(job.StartTime) {
		if _, err := timecode.Parse(job.StartTime); err != nil {
			return services.Wrap(services.ErrValidation, "request", "start time", job.OutputName, err)
		}
		req.Seek = Flag("-ss", job.StartTime)
	}
	if timecode.IsSentinel(job.EndTime) {
		return nil
	}
	seconds, err := timecode.Duration(job.StartTime, job.EndTime)
	if err != nil {
		return services.Wrap(services.ErrValidation, "request", "end time", job.OutputName, err)
	}
	if seconds <= 0 {
		return services.Wrap(services.ErrValidation, "request", "duration",
			fmt.Sprintf("Duration error: %s", job.OutputName), nil)
	}
	req.Duration = Flag("-t", timecode.Format(seconds))
	return nil
}

func (b *Builder) selectOptions(ctx context.Context, outputName, inputPath string) []Option {
	ext := strings.ToLower(filepath.Ext(outputName))
	switch ext {
	case strings.ToLower(b.settings.AudioExtension):
		return append(baseOptions(), audioOptions(outputName)...)
	case strings.ToLower(b.settings.VideoExtension):
		options := append(baseOptions(), videoOptions()...)
		return append(options, ResizeFilter(b.probe(ctx, inputPath), b.settings.ResizeRule))
	default:
		return baseOptions()
	}
}

// probe returns an empty report when probing fails, which classifies the
// source into the even-dimension class.
func (b *Builder) probe(ctx context.Context, inputPath string) ffprobe.Report {
	if b.prober == nil {
		return ffprobe.Report{}
	}
	report, err := b.prober.Dimensions(ctx, inputPath)
	if err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, b.logger), "resolution probe failed", "probe_failed",
			logging.String("input", inputPath),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check that ffprobe is installed and the input is a video"),
			logging.String(logging.FieldImpact, "source dimensions kept (rounded to even)"),
		)
		return ffprobe.Report{}
	}
	b.logger.Debug("probed source", logging.String("input", inputPath), logging.String("dimensions", report.Raw))
	return report
}

// FFprobe adapts the ffprobe package to Prober.
type FFprobe struct {
	Binary string
}

func (f FFprobe) Dimensions(ctx context.Context, path string) (ffprobe.Report, error) {
	return ffprobe.Dimensions(ctx, f.Binary, path)
}
