package models

// RunStatus is the pipeline-level lifecycle of one run.
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// StageError records one stage failure on the run.
type StageError struct {
	Stage     string `json:"stage"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// RunMetadata is the persisted metadata record for one run directory.
type RunMetadata struct {
	RunID       string       `json:"run_id"`
	Status      RunStatus    `json:"status"`
	StartedAt   string       `json:"started_at"`
	CompletedAt string       `json:"completed_at,omitempty"`
	Errors      []StageError `json:"errors,omitempty"`
}
