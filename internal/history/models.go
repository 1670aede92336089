package history

import "time"

// Outcome is the recorded result of one instruction line.
type Outcome string

const (
	OutcomeExecuted   Outcome = "executed"
	OutcomeMissing    Outcome = "missing"
	OutcomeUndersized Outcome = "undersized"
	OutcomeSkipped    Outcome = "skipped"
	OutcomeRequeued   Outcome = "requeued"
	OutcomeRejected   Outcome = "rejected"
	OutcomePlanned    Outcome = "planned"
)

// Counts summarises a run.
type Counts struct {
	Jobs      int
	Executed  int
	Succeeded int
	Failed    int
	Skipped   int
	Requeued  int
	Rejected  int
}

// Run is one batch invocation.
type Run struct {
	ID              string
	InstructionFile string
	DryRun          bool
	StartedAt       time.Time
	FinishedAt      time.Time
	Counts          Counts
	BackupPath      string
}

// Finished reports whether the run recorded its end.
func (r Run) Finished() bool {
	return !r.FinishedAt.IsZero()
}

// JobRecord is one instruction line's outcome within a run.
type JobRecord struct {
	RunID       string
	Line        int
	OutputName  string
	Outcome     Outcome
	Detail      string
	Command     string
	OutputBytes int64
	RecordedAt  time.Time
}
