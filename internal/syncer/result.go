package syncer

import "time"

type Status string

const (
	// StatusCompleted means the run finished; individual rows may still
	// have failed to transform (see TransformFailed).
	StatusCompleted Status = "completed"
	// StatusSkipped means another run held the task's exclusive flag.
	// A skipped trigger is not queued for later.
	StatusSkipped Status = "skipped_already_running"
	StatusFailed  Status = "failed"
)

// WriteStats counts the writes issued (and avoided) by one DiffAndWrite.
type WriteStats struct {
	Skipped  int64 `json:"skipped"`
	Matched  int64 `json:"matched"`
	Modified int64 `json:"modified"`
	Upserted int64 `json:"upserted"`
	Deleted  int64 `json:"deleted"`
}

// Result is the outcome of one task execution. It is kept in memory on the
// task state and appended to the run-history store; it is not a first-class
// persisted entity of the engine itself.
type Result struct {
	RunID           string     `json:"run_id"`
	Task            string     `json:"task"`
	Status          Status     `json:"status"`
	StartedAt       time.Time  `json:"started_at"`
	FinishedAt      time.Time  `json:"finished_at"`
	Fetched         int        `json:"fetched"`
	TransformFailed int        `json:"transform_failed"`
	Stats           WriteStats `json:"stats"`
	Err             string     `json:"error,omitempty"`
}
