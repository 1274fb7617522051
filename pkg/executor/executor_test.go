package executor

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onvoyage-ai/voyage-geo-agent/pkg/errs"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/models"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/providers"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/retry"
)

type fakeProvider struct {
	name  string
	delay time.Duration
	query func(ctx context.Context, prompt string) (*providers.Response, error)

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
	calls       atomic.Int32
}

func (f *fakeProvider) Name() string        { return f.name }
func (f *fakeProvider) DisplayName() string { return f.name }
func (f *fakeProvider) IsConfigured() bool  { return true }

func (f *fakeProvider) Query(ctx context.Context, prompt string) (*providers.Response, error) {
	cur := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)

	for {
		prev := f.maxInFlight.Load()
		if cur <= prev || f.maxInFlight.CompareAndSwap(prev, cur) {
			break
		}
	}

	f.calls.Add(1)

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if f.query != nil {
		return f.query(ctx, prompt)
	}

	return &providers.Response{Text: "ok: " + prompt, Model: f.name + "-model", Provider: f.name, LatencyMS: 1}, nil
}

func testQueries(n int) []models.GeneratedQuery {
	queries := make([]models.GeneratedQuery, n)
	for i := range queries {
		queries[i] = models.GeneratedQuery{
			ID:       fmt.Sprintf("q-%03d", i+1),
			Text:     fmt.Sprintf("query %d", i+1),
			Category: models.CategoryGeneral,
		}
	}

	return queries
}

func TestBuildTasksOrderIsDeterministic(t *testing.T) {
	queries := testQueries(2)
	provs := []providers.Provider{
		&fakeProvider{name: "alpha"},
		&fakeProvider{name: "beta"},
	}

	tasks := BuildTasks(queries, provs, 2)
	require.Len(t, tasks, 8)

	// iteration outermost, then query, then provider.
	assert.Equal(t, 1, tasks[0].Iteration)
	assert.Equal(t, "q-001", tasks[0].Query.ID)
	assert.Equal(t, "alpha", tasks[0].Provider.Name())
	assert.Equal(t, "beta", tasks[1].Provider.Name())
	assert.Equal(t, "q-002", tasks[2].Query.ID)
	assert.Equal(t, 2, tasks[4].Iteration)
}

func TestRunEmptyTaskListReturnsImmediately(t *testing.T) {
	e := New(4, time.Second, retry.Policy{}, nil)

	results := e.Run(context.Background(), nil, func(models.QueryResult) {
		t.Fatal("callback must not fire for an empty task list")
	})

	assert.Empty(t, results)
}

func TestRunReturnsOneResultPerTask(t *testing.T) {
	queries := testQueries(3)
	ok := &fakeProvider{name: "steady"}
	broken := &fakeProvider{
		name: "flaky",
		query: func(context.Context, string) (*providers.Response, error) {
			return nil, &errs.ProviderError{Provider: "flaky", StatusCode: 401, Fatal: true, Err: fmt.Errorf("bad key")}
		},
	}

	e := New(2, time.Second, retry.Policy{MaxRetries: 2, BaseDelay: time.Millisecond}, nil)
	tasks := BuildTasks(queries, []providers.Provider{broken, ok}, 1)

	results := e.Run(context.Background(), tasks, nil)
	require.Len(t, results, 6)

	var succeeded, failed int

	for _, r := range results {
		if r.Failed() {
			failed++

			assert.Equal(t, "flaky", r.Provider)
			assert.Equal(t, "unknown", r.Model)
			assert.Empty(t, r.Response)
			assert.NotEmpty(t, r.Error)
		} else {
			succeeded++

			assert.Equal(t, "steady", r.Provider)
			assert.Equal(t, "steady-model", r.Model)
		}
	}

	assert.Equal(t, 3, succeeded)
	assert.Equal(t, 3, failed)
	assert.Equal(t, models.ExecutionStatusPartial, models.DeriveStatus(succeeded, failed))
}

func TestRunRespectsConcurrencyCeiling(t *testing.T) {
	const ceiling = 3

	p := &fakeProvider{name: "slow", delay: 20 * time.Millisecond}
	e := New(ceiling, time.Second, retry.Policy{}, nil)
	tasks := BuildTasks(testQueries(12), []providers.Provider{p}, 1)

	results := e.Run(context.Background(), tasks, nil)

	require.Len(t, results, 12)
	assert.LessOrEqual(t, p.maxInFlight.Load(), int32(ceiling))
}

func TestRunInvokesCallbackPerResult(t *testing.T) {
	p := &fakeProvider{name: "steady"}
	e := New(4, time.Second, retry.Policy{}, nil)
	tasks := BuildTasks(testQueries(5), []providers.Provider{p}, 1)

	var (
		mu   sync.Mutex
		seen []string
	)

	results := e.Run(context.Background(), tasks, func(r models.QueryResult) {
		mu.Lock()
		seen = append(seen, r.QueryID)
		mu.Unlock()
	})

	require.Len(t, results, 5)
	assert.Len(t, seen, 5)
}

func TestRunRetriesTransientFailures(t *testing.T) {
	var attempts atomic.Int32

	p := &fakeProvider{
		name: "recovering",
		query: func(context.Context, string) (*providers.Response, error) {
			if attempts.Add(1) == 1 {
				return nil, &errs.ProviderError{Provider: "recovering", StatusCode: 503, Err: fmt.Errorf("overloaded")}
			}

			return &providers.Response{Text: "ok", Model: "m", Provider: "recovering"}, nil
		},
	}

	e := New(1, time.Second, retry.Policy{MaxRetries: 3, BaseDelay: time.Millisecond}, nil)
	tasks := BuildTasks(testQueries(1), []providers.Provider{p}, 1)

	results := e.Run(context.Background(), tasks, nil)

	require.Len(t, results, 1)
	assert.False(t, results[0].Failed())
	assert.Equal(t, int32(2), attempts.Load())
}

func TestRunCountsIterations(t *testing.T) {
	p := &fakeProvider{name: "steady"}
	e := New(2, time.Second, retry.Policy{}, nil)
	tasks := BuildTasks(testQueries(2), []providers.Provider{p}, 3)

	results := e.Run(context.Background(), tasks, nil)

	require.Len(t, results, 6)

	perIteration := map[int]int{}
	for _, r := range results {
		perIteration[r.Iteration]++
	}

	assert.Equal(t, map[int]int{1: 2, 2: 2, 3: 2}, perIteration)
}
