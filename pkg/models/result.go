// Package models defines the core domain models for GEO visibility runs.
package models

// ExecutionStatus represents the outcome of a completed batch.
type ExecutionStatus string

const (
	ExecutionStatusRunning   ExecutionStatus = "running"
	ExecutionStatusCompleted ExecutionStatus = "completed" // every task succeeded
	ExecutionStatusPartial   ExecutionStatus = "partial"   // some tasks failed
	ExecutionStatusFailed    ExecutionStatus = "failed"    // every task failed
)

// TokenUsage records provider-reported token counts for one call.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// QueryResult is the recorded outcome of one task. Exactly one exists per
// task regardless of outcome: failed tasks carry an Error and an empty
// Response, never a missing entry.
type QueryResult struct {
	QueryID    string      `json:"query_id"`
	QueryText  string      `json:"query_text"`
	Provider   string      `json:"provider"`
	Model      string      `json:"model"`
	Response   string      `json:"response"`
	LatencyMS  int64       `json:"latency_ms"`
	TokenUsage *TokenUsage `json:"token_usage,omitempty"`
	Iteration  int         `json:"iteration"`
	Timestamp  string      `json:"timestamp"`
	Error      string      `json:"error,omitempty"`
}

// Failed reports whether the task behind this result exhausted its retries.
func (r QueryResult) Failed() bool {
	return r.Error != ""
}

// ExecutionRun summarizes a completed batch of provider calls.
type ExecutionRun struct {
	RunID            string          `json:"run_id"`
	Brand            string          `json:"brand"`
	Providers        []string        `json:"providers"`
	TotalQueries     int             `json:"total_queries"`
	CompletedQueries int             `json:"completed_queries"`
	FailedQueries    int             `json:"failed_queries"`
	Results          []QueryResult   `json:"results"`
	StartedAt        string          `json:"started_at"`
	CompletedAt      string          `json:"completed_at,omitempty"`
	Status           ExecutionStatus `json:"status"`
}

// DeriveStatus computes the batch status from the completed/failed counts:
// completed when nothing failed, failed when nothing succeeded, partial
// otherwise.
func DeriveStatus(completed, failed int) ExecutionStatus {
	switch {
	case failed == 0:
		return ExecutionStatusCompleted
	case completed == 0:
		return ExecutionStatusFailed
	default:
		return ExecutionStatusPartial
	}
}
