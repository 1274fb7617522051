package web

import (
	"context"
	"encoding/hex"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/onvoyage-ai/voyage-geo-agent/pkg/engine"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/log"
)

// JobStatus is the lifecycle of one background run job.
type JobStatus string

const (
	JobQueued    JobStatus = "queued"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
	JobCancelled JobStatus = "cancelled"
)

// JobRecord describes one background run launched through the API.
type JobRecord struct {
	JobID       string    `json:"job_id"`
	Status      JobStatus `json:"status"`
	CreatedAt   string    `json:"created_at"`
	StartedAt   string    `json:"started_at,omitempty"`
	CompletedAt string    `json:"completed_at,omitempty"`
	RunID       string    `json:"run_id,omitempty"`
	Error       string    `json:"error,omitempty"`
}

type jobEntry struct {
	record JobRecord
	cancel context.CancelFunc
}

// JobStore runs pipelines in background goroutines and tracks their state
// in memory. State does not survive a restart; the run artifacts on disk do.
type JobStore struct {
	engine *engine.Engine
	logger *slog.Logger

	mu   sync.Mutex
	jobs map[string]*jobEntry
}

func NewJobStore(eng *engine.Engine) *JobStore {
	return &JobStore{
		engine: eng,
		logger: log.WithModule("jobs"),
		jobs:   make(map[string]*jobEntry),
	}
}

// Launch starts a run in the background and returns its job record.
func (js *JobStore) Launch(opts engine.Options) JobRecord {
	id := uuid.New()
	jobID := hex.EncodeToString(id[:])[:12]

	ctx, cancel := context.WithCancel(context.Background())

	record := JobRecord{
		JobID:     jobID,
		Status:    JobQueued,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	js.mu.Lock()
	js.jobs[jobID] = &jobEntry{record: record, cancel: cancel}
	js.mu.Unlock()

	// The background goroutine mutates the stored entry under the mutex, so
	// return the pre-launch copy rather than reading the entry back.
	go js.run(ctx, jobID, opts)

	return record
}

func (js *JobStore) run(ctx context.Context, jobID string, opts engine.Options) {
	js.update(jobID, func(r *JobRecord) {
		r.Status = JobRunning
		r.StartedAt = time.Now().UTC().Format(time.RFC3339)
	})

	rc, err := js.engine.Run(ctx, opts)

	js.update(jobID, func(r *JobRecord) {
		r.RunID = rc.RunID
		r.CompletedAt = time.Now().UTC().Format(time.RFC3339)

		switch {
		case r.Status == JobCancelled:
			// cancellation wins over the run outcome
		case err != nil:
			r.Status = JobFailed
			r.Error = err.Error()
		default:
			r.Status = JobCompleted
		}
	})

	if err != nil {
		js.logger.Warn("background run failed", "job_id", jobID, "error", err)
	}
}

// Get returns a job record by id.
func (js *JobStore) Get(jobID string) (JobRecord, bool) {
	js.mu.Lock()
	defer js.mu.Unlock()

	entry, ok := js.jobs[jobID]
	if !ok {
		return JobRecord{}, false
	}

	return entry.record, true
}

// List returns every job record, newest first.
func (js *JobStore) List() []JobRecord {
	js.mu.Lock()
	defer js.mu.Unlock()

	records := make([]JobRecord, 0, len(js.jobs))
	for _, entry := range js.jobs {
		records = append(records, entry.record)
	}

	sort.Slice(records, func(i, j int) bool { return records[i].CreatedAt > records[j].CreatedAt })

	return records
}

// Cancel stops a queued or running job. Cancelling a settled job is a no-op
// and reports false.
func (js *JobStore) Cancel(jobID string) bool {
	js.mu.Lock()
	defer js.mu.Unlock()

	entry, ok := js.jobs[jobID]
	if !ok {
		return false
	}

	if entry.record.Status != JobQueued && entry.record.Status != JobRunning {
		return false
	}

	entry.record.Status = JobCancelled
	entry.cancel()

	return true
}

func (js *JobStore) update(jobID string, fn func(*JobRecord)) {
	js.mu.Lock()
	defer js.mu.Unlock()

	if entry, ok := js.jobs[jobID]; ok {
		fn(&entry.record)
	}
}
