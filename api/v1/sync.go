package v1

import "time"

// Sync task API definitions.

// TriggerSyncResponse acknowledges that a run was started. The run itself is
// fire-and-forget; its outcome is observable via status/history only.
type TriggerSyncResponse struct {
	Response
	Data TriggerSyncData `json:"data"`
}

type TriggerSyncData struct {
	Task     string `json:"task"`
	Accepted bool   `json:"accepted"`
	Message  string `json:"message"`
}

// SyncRunResult mirrors one finished (or skipped) run of a sync task.
type SyncRunResult struct {
	RunID           string    `json:"run_id"`
	Task            string    `json:"task"`
	Status          string    `json:"status"`
	StartedAt       time.Time `json:"started_at"`
	FinishedAt      time.Time `json:"finished_at"`
	Fetched         int       `json:"fetched"`
	TransformFailed int       `json:"transform_failed"`
	Skipped         int64     `json:"skipped"`
	Matched         int64     `json:"matched"`
	Modified        int64     `json:"modified"`
	Upserted        int64     `json:"upserted"`
	Deleted         int64     `json:"deleted"`
	Error           string    `json:"error,omitempty"`
}

type SyncTaskStatus struct {
	Name       string         `json:"name"`
	Source     string         `json:"source"`
	Collection string         `json:"collection"`
	Cadence    string         `json:"cadence"`
	Running    bool           `json:"running"`
	LastRun    *SyncRunResult `json:"last_run,omitempty"`
}

type ListSyncTasksResponse struct {
	Response
	Data []SyncTaskStatus `json:"data"`
}

type SyncTaskStatusResponse struct {
	Response
	Data SyncTaskStatus `json:"data"`
}

type SyncHistoryRequest struct {
	Limit int `form:"limit" example:"20"`
}

type SyncHistoryResponse struct {
	Response
	Data []SyncRunResult `json:"data"`
}

// SourceStatusData reports per-source connectivity, letting dependent read
// endpoints fail fast instead of hanging on a dead pool.
type SourceStatusData struct {
	Sources map[string]SourceStatusItem `json:"sources"`
}

type SourceStatusItem struct {
	Connected     bool       `json:"connected"`
	LastError     string     `json:"last_error,omitempty"`
	LastConnected *time.Time `json:"last_connected,omitempty"`
}

type SourceStatusResponse struct {
	Response
	Data SourceStatusData `json:"data"`
}
