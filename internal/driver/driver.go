package driver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"clipper/internal/command"
	"clipper/internal/fileutil"
	"clipper/internal/history"
	"clipper/internal/instructions"
	"clipper/internal/logging"
	"clipper/internal/request"
	"clipper/internal/services"
)

// Builder validates a job into a request.
type Builder interface {
	Build(ctx context.Context, job instructions.Job) (request.Request, error)
}

// Recorder stores job outcomes. Failures are logged and do not stop the batch.
type Recorder interface {
	RecordJob(ctx context.Context, rec history.JobRecord) error
}

// Options configures a Driver.
type Options struct {
	FFmpeg         string
	MinOutputBytes int64
	// DryRun renders commands without invoking the transcoder or touching
	// the output tree.
	DryRun bool
	RunID  string
}

// Item pairs a job with its validated request.
type Item struct {
	Job     instructions.Job
	Request request.Request
	Err     error
	Command string
}

// Entry is the outcome of one item.
type Entry struct {
	Line        int
	OutputName  string
	Outcome     history.Outcome
	Detail      string
	Command     string
	OutputBytes int64
}

// Report summarises an executed batch.
type Report struct {
	// Log holds the backup lines: executed commands and requeued raw lines.
	Log     []string
	Entries []Entry
	Counts  history.Counts
	// Interrupted is set when the context ended before every item ran.
	Interrupted bool
}

// Driver runs requests one at a time in instruction order.
type Driver struct {
	opts     Options
	invoker  Invoker
	recorder Recorder
	logger   *slog.Logger
}

// New constructs a Driver. recorder may be nil.
func New(opts Options, invoker Invoker, recorder Recorder, logger *slog.Logger) *Driver {
	if invoker == nil {
		invoker = ExecInvoker{}
	}
	if opts.FFmpeg == "" {
		opts.FFmpeg = command.DefaultBinary
	}
	return &Driver{
		opts:     opts,
		invoker:  invoker,
		recorder: recorder,
		logger:   logging.NewComponentLogger(logger, "driver"),
	}
}

// Plan builds a request for every job, keeping file order.
func (d *Driver) Plan(ctx context.Context, builder Builder, jobs []instructions.Job) []Item {
	items := make([]Item, 0, len(jobs))
	for _, job := range jobs {
		if ctx.Err() != nil {
			break
		}
		jobCtx := jobContext(ctx, job)
		req, err := builder.Build(jobCtx, job)
		item := Item{Job: job, Request: req, Err: err}
		if err == nil && req.Ready {
			item.Command = command.String(d.opts.FFmpeg, req)
		}
		items = append(items, item)
	}
	return items
}

// Run plans and executes jobs.
func (d *Driver) Run(ctx context.Context, builder Builder, jobs []instructions.Job) Report {
	return d.Execute(ctx, d.Plan(ctx, builder, jobs))
}

// Execute runs planned items sequentially and verifies each output.
func (d *Driver) Execute(ctx context.Context, items []Item) Report {
	report := Report{Counts: history.Counts{Jobs: len(items)}}
	for i, item := range items {
		if ctx.Err() != nil {
			report.Interrupted = true
			d.logger.Warn("batch interrupted", logging.Int("remaining", len(items)-i))
			break
		}
		jobCtx := jobContext(ctx, item.Job)
		logger := logging.WithContext(jobCtx, d.logger)
		logger.Info("processing job", logging.Int("index", i+1), logging.Int("total", len(items)))

		entry := d.executeItem(jobCtx, logger, item, &report)
		report.Entries = append(report.Entries, entry)
		d.record(jobCtx, entry)
	}
	return report
}

func (d *Driver) executeItem(ctx context.Context, logger *slog.Logger, item Item, report *Report) Entry {
	entry := Entry{Line: item.Job.Line, OutputName: item.Job.OutputName, Command: item.Command}
	req := item.Request

	switch {
	case item.Err != nil:
		return d.reject(logger, entry, item.Err, report)
	case req.Existing():
		return d.alreadyProcessed(logger, entry, item, req.ExistingPath, report)
	case !req.Ready:
		return d.reject(logger, entry, services.Wrap(services.ErrValidation, "driver", "", "request not ready", nil), report)
	}

	size, exists, err := fileutil.Size(req.OutputPath)
	if err != nil {
		return d.fail(logger, entry, history.OutcomeMissing, services.Wrap(services.ErrVerification, "driver", "stat output", req.OutputPath, err), report)
	}
	if exists {
		entry.OutputBytes = size
		return d.alreadyProcessed(logger, entry, item, req.OutputPath, report)
	}

	if d.opts.DryRun {
		entry.Outcome = history.OutcomePlanned
		logger.Info("dry run", logging.String("command", item.Command))
		return entry
	}

	if err := fileutil.EnsureParent(req.OutputPath); err != nil {
		return d.fail(logger, entry, history.OutcomeMissing, services.Wrap(services.ErrExternalTool, "driver", "create output directory", filepath.Dir(req.OutputPath), err), report)
	}

	logger.Debug("invoking transcoder", logging.String("command", item.Command))
	result := d.invoker.Invoke(ctx, d.opts.FFmpeg, command.Args(req))
	report.Counts.Executed++
	report.Log = append(report.Log, item.Command)
	if result.Err != nil {
		logger.Debug("transcoder exited with error",
			logging.Int("exit_code", result.ExitCode),
			logging.Error(result.Err),
			logging.String("stderr", result.Stderr),
		)
	}
	if ctx.Err() != nil {
		report.Interrupted = true
		return d.discardPartial(logger, entry, req.OutputPath, report)
	}

	return d.verify(logger, entry, req.OutputPath, report)
}

// discardPartial removes an output the transcoder did not finish so the next
// run does not mistake it for a completed job.
func (d *Driver) discardPartial(logger *slog.Logger, entry Entry, outputPath string, report *Report) Entry {
	if err := os.Remove(outputPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		logging.WarnWithContext(logger, "partial output not removed", "partial_output",
			logging.String("path", outputPath),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "delete the file before the next run"),
			logging.String(logging.FieldImpact, "next run will treat the partial file as processed"),
		)
	}
	return d.fail(logger, entry, history.OutcomeMissing, services.Wrap(services.ErrVerification, "driver", "verify",
		"Interrupted: "+entry.OutputName, nil), report)
}

func (d *Driver) verify(logger *slog.Logger, entry Entry, outputPath string, report *Report) Entry {
	size, exists, err := fileutil.Size(outputPath)
	switch {
	case err != nil:
		return d.fail(logger, entry, history.OutcomeMissing, services.Wrap(services.ErrVerification, "driver", "stat output", outputPath, err), report)
	case !exists:
		return d.fail(logger, entry, history.OutcomeMissing, services.Wrap(services.ErrVerification, "driver", "verify", "No file created: "+entry.OutputName, nil), report)
	case size < d.opts.MinOutputBytes:
		entry.OutputBytes = size
		return d.fail(logger, entry, history.OutcomeUndersized, services.Wrap(services.ErrVerification, "driver", "verify",
			fmt.Sprintf("Very small file created: %s (%d bytes)", entry.OutputName, size), nil), report)
	}
	entry.OutputBytes = size
	entry.Outcome = history.OutcomeExecuted
	report.Counts.Succeeded++
	logger.Info("output verified", logging.String("path", outputPath), logging.Int64("bytes", size))
	return entry
}

// alreadyProcessed skips an output that exists, requeueing its raw line when
// the existing file is below the size threshold.
func (d *Driver) alreadyProcessed(logger *slog.Logger, entry Entry, item Item, path string, report *Report) Entry {
	size, _, err := fileutil.Size(path)
	if err != nil {
		logger.Debug("existing output not readable", logging.String("path", path), logging.Error(err))
	}
	entry.OutputBytes = size
	entry.Command = ""
	if size < d.opts.MinOutputBytes {
		entry.Outcome = history.OutcomeRequeued
		entry.Detail = path
		report.Counts.Requeued++
		report.Log = append(report.Log, item.Job.RawLine)
		logging.WarnWithContext(logger, "already processed but output is very small", "output_undersized",
			logging.String("path", path),
			logging.Int64("bytes", size),
			logging.Int64("min_bytes", d.opts.MinOutputBytes),
			logging.String(logging.FieldErrorHint, "delete the file and rerun the batch"),
			logging.String(logging.FieldImpact, "instruction line copied to backup log"),
		)
		return entry
	}
	entry.Outcome = history.OutcomeSkipped
	entry.Detail = path
	report.Counts.Skipped++
	logger.Debug("already processed", logging.String("path", path))
	return entry
}

func (d *Driver) reject(logger *slog.Logger, entry Entry, err error, report *Report) Entry {
	entry.Outcome = history.OutcomeRejected
	entry.Detail = err.Error()
	entry.Command = ""
	report.Counts.Rejected++
	logging.WarnWithContext(logger, "request rejected", "request_"+services.Kind(err),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, rejectHint(err)),
	)
	return entry
}

func (d *Driver) fail(logger *slog.Logger, entry Entry, outcome history.Outcome, err error, report *Report) Entry {
	entry.Outcome = outcome
	entry.Detail = err.Error()
	report.Counts.Failed++
	logging.ErrorWithContext(logger, "output verification failed", "verify_"+string(outcome),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "run the logged command by hand to see ffmpeg output"),
	)
	return entry
}

func (d *Driver) record(ctx context.Context, entry Entry) {
	if d.recorder == nil || d.opts.RunID == "" {
		return
	}
	// Outcomes of an interrupted job are still recorded.
	err := d.recorder.RecordJob(context.WithoutCancel(ctx), history.JobRecord{
		RunID:       d.opts.RunID,
		Line:        entry.Line,
		OutputName:  entry.OutputName,
		Outcome:     entry.Outcome,
		Detail:      entry.Detail,
		Command:     entry.Command,
		OutputBytes: entry.OutputBytes,
	})
	if err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, d.logger), "history record failed", "history_write",
			logging.Error(err),
			logging.String(logging.FieldImpact, "run history incomplete"),
		)
	}
}

func rejectHint(err error) string {
	switch services.Kind(err) {
	case "not_found":
		return "check the input name against the input directory"
	case "validation":
		return "check the start/end times and output name on this line"
	default:
		return "check logs for details"
	}
}

func jobContext(ctx context.Context, job instructions.Job) context.Context {
	ctx = services.WithLine(ctx, job.Line)
	return services.WithOutput(ctx, job.OutputName)
}
