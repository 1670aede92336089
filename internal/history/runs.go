package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// StartRun inserts a run row. StartedAt defaults to now.
func (s *Store) StartRun(ctx context.Context, run Run) error {
	if strings.TrimSpace(run.ID) == "" {
		return errors.New("start run: empty id")
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	err := s.exec(ctx,
		`INSERT INTO runs (id, instruction_file, dry_run, started_at) VALUES (?, ?, ?, ?)`,
		run.ID, run.InstructionFile, boolToInt(run.DryRun), formatTime(run.StartedAt),
	)
	if err != nil {
		return fmt.Errorf("start run: %w", err)
	}
	return nil
}

// FinishRun stores the run's totals and backup location.
func (s *Store) FinishRun(ctx context.Context, id string, finishedAt time.Time, counts Counts, backupPath string) error {
	if finishedAt.IsZero() {
		finishedAt = time.Now()
	}
	err := s.exec(ctx,
		`UPDATE runs SET finished_at = ?, jobs = ?, executed = ?, succeeded = ?, failed = ?,
			skipped = ?, requeued = ?, rejected = ?, backup_path = ? WHERE id = ?`,
		formatTime(finishedAt), counts.Jobs, counts.Executed, counts.Succeeded, counts.Failed,
		counts.Skipped, counts.Requeued, counts.Rejected, nullString(backupPath), id,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// RecordJob appends a job outcome to its run.
func (s *Store) RecordJob(ctx context.Context, rec JobRecord) error {
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = time.Now()
	}
	err := s.exec(ctx,
		`INSERT INTO job_outcomes (run_id, line, output_name, outcome, detail, command, output_bytes, recorded_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.Line, rec.OutputName, string(rec.Outcome),
		nullString(rec.Detail), nullString(rec.Command), rec.OutputBytes, formatTime(rec.RecordedAt),
	)
	if err != nil {
		return fmt.Errorf("record job: %w", err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, instruction_file, dry_run, started_at, finished_at, jobs, executed, succeeded,
			failed, skipped, requeued, rejected, backup_path
		FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun returns the run with id, or nil when none exists.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, instruction_file, dry_run, started_at, finished_at, jobs, executed, succeeded,
			failed, skipped, requeued, rejected, backup_path
		FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// Jobs returns the outcomes recorded for runID in line order.
func (s *Store) Jobs(ctx context.Context, runID string) ([]JobRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, line, output_name, outcome, detail, command, output_bytes, recorded_at
		FROM job_outcomes WHERE run_id = ? ORDER BY line, id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	var records []JobRecord
	for rows.Next() {
		var (
			rec             JobRecord
			outcome         string
			detail, command sql.NullString
			recordedAt      string
		)
		if err := rows.Scan(&rec.RunID, &rec.Line, &rec.OutputName, &outcome, &detail, &command, &rec.OutputBytes, &recordedAt); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		rec.Outcome = Outcome(outcome)
		rec.Detail = detail.String
		rec.Command = command.String
		rec.RecordedAt = parseTime(recordedAt)
		records = append(records, rec)
	}
	return records, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		run        Run
		dryRun     int
		startedAt  string
		finishedAt sql.NullString
		backupPath sql.NullString
	)
	err := row.Scan(&run.ID, &run.InstructionFile, &dryRun, &startedAt, &finishedAt,
		&run.Counts.Jobs, &run.Counts.Executed, &run.Counts.Succeeded, &run.Counts.Failed,
		&run.Counts.Skipped, &run.Counts.Requeued, &run.Counts.Rejected, &backupPath)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.DryRun = dryRun != 0
	run.StartedAt = parseTime(startedAt)
	if finishedAt.Valid {
		run.FinishedAt = parseTime(finishedAt.String)
	}
	run.BackupPath = backupPath.String
	return run, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullString(value string) sql.NullString {
	if strings.TrimSpace(value) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
