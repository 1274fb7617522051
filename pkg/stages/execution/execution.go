// Package execution runs the generated query set against every enabled
// provider and persists the results.
package execution

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/onvoyage-ai/voyage-geo-agent/pkg/executor"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/log"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/models"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/pipeline"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/providers"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/ratelimit"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/retry"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/storage"
)

// Stage fans the query set out over the enabled providers through the task
// executor, then writes the combined and per-provider result files and the
// CSV summary.
type Stage struct {
	registry *providers.Registry
	storage  *storage.FileSystemStorage
	logger   *slog.Logger
}

func New(registry *providers.Registry, store *storage.FileSystemStorage) *Stage {
	return &Stage{
		registry: registry,
		storage:  store,
		logger:   log.WithModule("execution"),
	}
}

func (s *Stage) Name() string        { return "execution" }
func (s *Stage) Description() string { return "Run queries against AI providers" }

func (s *Stage) Execute(ctx context.Context, rc pipeline.RunContext) (pipeline.RunContext, error) {
	if rc.QuerySet == nil {
		return rc, errors.New("query set is required for execution")
	}

	enabled := s.registry.Enabled()
	if len(enabled) == 0 {
		return rc, errors.New("no providers configured for execution")
	}

	execCfg := rc.Config.Execution
	tasks := executor.BuildTasks(rc.QuerySet.Queries, enabled, execCfg.Iterations)

	providerNames := make([]string, len(enabled))

	limits := map[string]int{}
	for i, p := range enabled {
		providerNames[i] = p.Name()
		if pc, ok := rc.Config.Providers[p.Name()]; ok && pc.RateLimitRPM > 0 {
			limits[p.Name()] = pc.RateLimitRPM
		}
	}

	s.logger.Info("executing tasks",
		"tasks", len(tasks),
		"queries", len(rc.QuerySet.Queries),
		"providers", len(enabled),
		"iterations", execCfg.Iterations,
		"concurrency", execCfg.Concurrency)

	run := &models.ExecutionRun{
		RunID:        rc.RunID,
		Brand:        rc.QuerySet.Brand,
		Providers:    providerNames,
		TotalQueries: len(tasks),
		StartedAt:    time.Now().UTC().Format(time.RFC3339),
		Status:       models.ExecutionStatusRunning,
	}

	policy := retry.Policy{
		MaxRetries: execCfg.Retries,
		BaseDelay:  time.Duration(execCfg.RetryDelayMS) * time.Millisecond,
		Jitter:     0.2,
		OnRetry: func(attempt, remaining int, err error) {
			s.logger.Debug("retrying task", "attempt", attempt, "remaining", remaining, "error", err)
		},
	}

	exec := executor.New(
		execCfg.Concurrency,
		time.Duration(execCfg.TimeoutMS)*time.Millisecond,
		policy,
		ratelimit.NewRegistry(limits),
	)

	var completed, failed int

	results := exec.Run(ctx, tasks, func(r models.QueryResult) {
		if r.Failed() {
			failed++
		} else {
			completed++
		}

		done := completed + failed
		if done%5 == 0 || done == len(tasks) {
			s.logger.Info("progress", "done", done, "total", len(tasks), "ok", completed, "failed", failed)
		}
	})

	run.Results = results
	run.CompletedQueries = completed
	run.FailedQueries = failed
	run.CompletedAt = time.Now().UTC().Format(time.RFC3339)
	run.Status = models.DeriveStatus(completed, failed)

	store := storage.NewResultStore(s.storage, rc.RunID)
	if err := store.AppendBatch(results); err != nil {
		return rc, err
	}

	if err := store.ExportCSV("reports/results.csv"); err != nil {
		return rc, err
	}

	if err := s.storage.SaveJSON(rc.RunID, "results/execution-run.json", run); err != nil {
		return rc, err
	}

	s.logger.Info("execution complete", "succeeded", completed, "failed", failed, "status", run.Status)

	rc.ExecutionRun = run

	return rc, nil
}
