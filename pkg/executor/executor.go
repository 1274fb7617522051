// Package executor runs the query × provider × iteration task matrix under a
// fixed concurrency ceiling, with per-provider rate limiting and retries.
package executor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/onvoyage-ai/voyage-geo-agent/pkg/log"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/models"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/otelhelper"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/providers"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/ratelimit"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/retry"
)

// Task is one provider call: a single query sent to a single provider on a
// single iteration pass.
type Task struct {
	Query     models.GeneratedQuery
	Provider  providers.Provider
	Iteration int
}

// Executor settles every task exactly once. A task that exhausts its retries
// becomes a failed result; it never aborts sibling tasks.
type Executor struct {
	concurrency int
	timeout     time.Duration
	policy      retry.Policy
	limits      *ratelimit.Registry
	logger      *slog.Logger
}

// New builds an executor with concurrency ceiling c. The registry may be nil
// when no provider carries a rate limit.
func New(c int, timeout time.Duration, policy retry.Policy, limits *ratelimit.Registry) *Executor {
	if c < 1 {
		c = 1
	}

	return &Executor{
		concurrency: c,
		timeout:     timeout,
		policy:      policy,
		limits:      limits,
		logger:      log.WithModule("executor"),
	}
}

// BuildTasks expands the cross-product in deterministic order: iteration
// outermost, then query, then provider.
func BuildTasks(queries []models.GeneratedQuery, provs []providers.Provider, iterations int) []Task {
	if iterations < 1 {
		iterations = 1
	}

	tasks := make([]Task, 0, len(queries)*len(provs)*iterations)
	for iteration := 1; iteration <= iterations; iteration++ {
		for _, query := range queries {
			for _, provider := range provs {
				tasks = append(tasks, Task{Query: query, Provider: provider, Iteration: iteration})
			}
		}
	}

	return tasks
}

// Run drains the task list with a pool of worker goroutines and returns one
// result per task, in completion order. The optional onResult callback fires
// synchronously as each task settles, serialized with the result append. Run
// returns only after every task has settled; an empty task list returns an
// empty slice without scheduling any work.
func (e *Executor) Run(ctx context.Context, tasks []Task, onResult func(models.QueryResult)) []models.QueryResult {
	results := make([]models.QueryResult, 0, len(tasks))
	if len(tasks) == 0 {
		return results
	}

	taskCh := make(chan Task)

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)

	workers := e.concurrency
	if workers > len(tasks) {
		workers = len(tasks)
	}

	for range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for task := range taskCh {
				result := e.runTask(ctx, task)

				mu.Lock()
				results = append(results, result)
				if onResult != nil {
					onResult(result)
				}
				mu.Unlock()
			}
		}()
	}

	for _, task := range tasks {
		taskCh <- task
	}

	close(taskCh)
	wg.Wait()

	return results
}

func (e *Executor) runTask(ctx context.Context, task Task) models.QueryResult {
	started := time.Now().UTC().Format(time.RFC3339)

	// Noop span unless a tracer provider was installed at startup.
	ctx, span := otelhelper.StartSpan(ctx, otel.Tracer("executor"), "provider.query",
		attribute.String(otelhelper.ProviderKey, task.Provider.Name()),
		attribute.String(otelhelper.QueryIDKey, task.Query.ID),
		attribute.Int(otelhelper.IterationKey, task.Iteration),
	)
	defer span.End()

	var resp *providers.Response

	err := e.policy.Do(ctx, func(ctx context.Context) error {
		if limiter := e.limits.For(task.Provider.Name()); limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return err
			}
		}

		callCtx := ctx

		if e.timeout > 0 {
			var cancel context.CancelFunc

			callCtx, cancel = context.WithTimeout(ctx, e.timeout)
			defer cancel()
		}

		var err error

		resp, err = task.Provider.Query(callCtx, task.Query.Text)

		return err
	})
	if err != nil {
		otelhelper.SetError(span, err)
		e.logger.Warn("task failed",
			"provider", task.Provider.Name(),
			"query_id", task.Query.ID,
			"iteration", task.Iteration,
			"error", err)

		return models.QueryResult{
			QueryID:   task.Query.ID,
			QueryText: task.Query.Text,
			Provider:  task.Provider.Name(),
			Model:     "unknown",
			Response:  "",
			LatencyMS: 0,
			Iteration: task.Iteration,
			Timestamp: started,
			Error:     err.Error(),
		}
	}

	span.SetAttributes(attribute.String(otelhelper.ModelKey, resp.Model))

	return models.QueryResult{
		QueryID:    task.Query.ID,
		QueryText:  task.Query.Text,
		Provider:   task.Provider.Name(),
		Model:      resp.Model,
		Response:   resp.Text,
		LatencyMS:  resp.LatencyMS,
		TokenUsage: resp.TokenUsage,
		Iteration:  task.Iteration,
		Timestamp:  started,
	}
}
