package batchrun

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"clipper/internal/backup"
	"clipper/internal/config"
	"clipper/internal/driver"
	"clipper/internal/history"
	"clipper/internal/logging"
	"clipper/internal/preflight"
	"clipper/internal/services"
)

// LockFileName guards the output tree against two concurrent batches.
const LockFileName = "clipper.lock"

// ErrLocked is returned when another batch holds the run lock.
var ErrLocked = errors.New("another clipper run is already in progress")

// Options configures a batch run.
type Options struct {
	DryRun bool
	Logger *slog.Logger
	// Invoker runs the transcoder; nil uses os/exec.
	Invoker driver.Invoker
	// Now stamps the backup file and history rows; nil uses time.Now.
	Now func() time.Time
}

// Result describes a finished batch.
type Result struct {
	RunID      string
	Report     driver.Report
	BackupPath string
}

// LockPath returns the run lock location for cfg.
func LockPath(cfg *config.Config) string {
	return filepath.Join(cfg.Paths.BackupDir, LockFileName)
}

// Run executes one batch end to end. Per-job failures are reported in the
// result; the returned error is reserved for failures that stop the batch and
// for interruption.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) (Result, error) {
	if cfg == nil {
		return Result{}, fmt.Errorf("config is required")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if failed, ok := preflight.FirstFatal(preflight.RunAll(signalCtx, cfg)); ok {
		return Result{}, services.Wrap(services.ErrConfiguration, "batch", "preflight", failed.Name, errors.New(failed.Detail))
	}

	lock := flock.New(LockPath(cfg))
	locked, err := lock.TryLock()
	if err != nil {
		return Result{}, fmt.Errorf("acquire lock: %w", err)
	}
	if !locked {
		return Result{}, ErrLocked
	}

	runID := uuid.NewString()
	ctx := services.WithRunID(signalCtx, runID)
	logger := logging.WithContext(ctx, logging.NewComponentLogger(opts.Logger, "batch"))
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release run lock", logging.Error(err))
		}
	}()

	logDependencySnapshot(ctx, logger, cfg)

	batch, err := Prepare(ctx, cfg, opts.Logger)
	if err != nil {
		if services.Fatal(err) {
			logging.ErrorWithContext(logger, "batch aborted", "batch_configuration",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check paths in the configuration file"),
			)
		}
		return Result{RunID: runID}, err
	}
	logger.Info("batch started",
		logging.String("instructions", cfg.Paths.InstructionFile),
		logging.Int("jobs", len(batch.Jobs)),
		logging.Int("indexed_outputs", batch.Index.Len()),
		logging.Bool("dry_run", opts.DryRun),
	)
	for _, name := range batch.Index.Duplicates() {
		logging.WarnWithContext(logger, "output name present in more than one root", "index_duplicate",
			logging.String("name", name),
			logging.String(logging.FieldErrorHint, "keep output names unique across existing_roots"),
			logging.String(logging.FieldImpact, "first root wins for already-processed checks"),
		)
	}

	store := openHistory(cfg, logger)
	if store != nil {
		defer store.Close()
	}
	// Bookkeeping after the batch must survive an interrupt.
	finishCtx := context.WithoutCancel(ctx)

	var recorder driver.Recorder
	if store != nil {
		startErr := store.StartRun(ctx, history.Run{
			ID:              runID,
			InstructionFile: cfg.Paths.InstructionFile,
			DryRun:          opts.DryRun,
			StartedAt:       now(),
		})
		if startErr != nil {
			warnHistory(logger, startErr)
		} else {
			recorder = store
		}
	}

	drv := driver.New(driver.Options{
		FFmpeg:         cfg.FFmpegBinary(),
		MinOutputBytes: cfg.Transcode.MinOutputBytes,
		DryRun:         opts.DryRun,
		RunID:          runID,
	}, opts.Invoker, recorder, opts.Logger)
	report := drv.Run(ctx, batch.Builder, batch.Jobs)
	result := Result{RunID: runID, Report: report}

	var backupErr error
	if !opts.DryRun {
		result.BackupPath, backupErr = backup.Write(cfg.Paths.BackupDir, now(), report.Log)
		if backupErr != nil {
			logging.ErrorWithContext(logger, "backup log not written", "backup_write",
				logging.String("path", result.BackupPath),
				logging.Error(backupErr),
				logging.String(logging.FieldErrorHint, "check backup_dir permissions"),
			)
		}
	}

	if recorder != nil {
		if err := store.FinishRun(finishCtx, runID, now(), report.Counts, result.BackupPath); err != nil {
			warnHistory(logger, err)
		}
	}

	logger.Info("batch finished",
		logging.Int("jobs", report.Counts.Jobs),
		logging.Int("executed", report.Counts.Executed),
		logging.Int("succeeded", report.Counts.Succeeded),
		logging.Int("failed", report.Counts.Failed),
		logging.Int("skipped", report.Counts.Skipped),
		logging.Int("requeued", report.Counts.Requeued),
		logging.Int("rejected", report.Counts.Rejected),
		logging.String("backup", result.BackupPath),
	)

	if backupErr != nil {
		return result, backupErr
	}
	if report.Interrupted {
		return result, signalCtx.Err()
	}
	if !opts.DryRun {
		runPostHook(ctx, logger, cfg.Hooks.PostRun, result)
	}
	return result, nil
}

func openHistory(cfg *config.Config, logger *slog.Logger) *history.Store {
	store, err := history.OpenForConfig(cfg)
	if err != nil {
		warnHistory(logger, err)
		return nil
	}
	return store
}

func warnHistory(logger *slog.Logger, err error) {
	logging.WarnWithContext(logger, "run history unavailable", "history_open",
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "delete history.db in backup_dir if the schema changed"),
		logging.String(logging.FieldImpact, "run history incomplete"),
	)
}

// runPostHook runs the configured shell command with the run id and backup
// path in its environment. Failures are logged only.
func runPostHook(ctx context.Context, logger *slog.Logger, hook string, result Result) {
	hook = strings.TrimSpace(hook)
	if hook == "" {
		return
	}
	cmd := exec.CommandContext(ctx, "sh", "-c", hook)
	cmd.Env = append(os.Environ(),
		"CLIPPER_RUN_ID="+result.RunID,
		"CLIPPER_BACKUP_FILE="+result.BackupPath,
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		logging.WarnWithContext(logger, "post-run hook failed", "post_run_hook",
			logging.String("hook", hook),
			logging.Error(err),
			logging.String("output", strings.TrimSpace(string(output))),
			logging.String(logging.FieldErrorHint, "run the hook by hand to see its output"),
			logging.String(logging.FieldImpact, "cleanup skipped"),
		)
		return
	}
	logger.Info("post-run hook finished", logging.String("hook", hook))
}

func logDependencySnapshot(ctx context.Context, logger *slog.Logger, cfg *config.Config) {
	attrs := []logging.Attr{logging.String(logging.FieldEventType, "dependency_snapshot")}
	for _, status := range preflight.CheckSystemDeps(ctx, cfg) {
		key := strings.ToLower(status.Name)
		attrs = append(attrs,
			logging.Bool(key+"_available", status.Available),
			logging.String(key+"_binary", status.Command),
		)
	}
	logger.Info("dependency snapshot", logging.Args(attrs...)...)
}
