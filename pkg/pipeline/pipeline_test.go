package pipeline

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onvoyage-ai/voyage-geo-agent/pkg/config"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/errs"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/models"
)

type stubStage struct {
	name string
	err  error
	ran  bool
	work func(rc RunContext) RunContext
}

func (s *stubStage) Name() string        { return s.name }
func (s *stubStage) Description() string { return s.name }

func (s *stubStage) Execute(_ context.Context, rc RunContext) (RunContext, error) {
	s.ran = true
	if s.err != nil {
		return rc, s.err
	}

	if s.work != nil {
		rc = s.work(rc)
	}

	return rc, nil
}

func TestNewRunContextShape(t *testing.T) {
	rc := NewRunContext(config.Default())

	assert.Regexp(t, regexp.MustCompile(`^run-\d{8}-\d{6}-[0-9a-f]{6}$`), rc.RunID)
	assert.Equal(t, models.RunStatusPending, rc.Status)
	assert.NotEmpty(t, rc.StartedAt)
	assert.Empty(t, rc.Errors)
}

func TestRunAppliesStagesInOrder(t *testing.T) {
	var order []string

	mk := func(name string) *stubStage {
		return &stubStage{name: name, work: func(rc RunContext) RunContext {
			order = append(order, name)

			return rc
		}}
	}

	p := New().AddStage(mk("research")).AddStage(mk("query-generation")).AddStage(mk("execution"))

	rc, err := p.Run(context.Background(), NewRunContext(config.Default()))
	require.NoError(t, err)

	assert.Equal(t, []string{"research", "query-generation", "execution"}, order)
	assert.Equal(t, models.RunStatusCompleted, rc.Status)
	assert.Empty(t, rc.CurrentStage)
	assert.NotEmpty(t, rc.CompletedAt)
}

func TestRunStopsAtFirstFailingStage(t *testing.T) {
	a := &stubStage{name: "a", work: func(rc RunContext) RunContext {
		rc.BrandProfile = &models.BrandProfile{Name: "Acme"}

		return rc
	}}
	b := &stubStage{name: "b", err: errors.New("upstream exploded")}
	c := &stubStage{name: "c"}

	p := New().AddStage(a).AddStage(b).AddStage(c)

	rc, err := p.Run(context.Background(), NewRunContext(config.Default()))
	require.Error(t, err)

	var pe *errs.PipelineError

	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "b", pe.Stage)

	assert.False(t, c.ran, "stage c must not run after b fails")
	assert.Equal(t, models.RunStatusFailed, rc.Status)

	// artifact from the successful stage survives
	require.NotNil(t, rc.BrandProfile)
	assert.Equal(t, "Acme", rc.BrandProfile.Name)

	require.Len(t, rc.Errors, 1)
	assert.Equal(t, "b", rc.Errors[0].Stage)
	assert.Contains(t, rc.Errors[0].Message, "upstream exploded")
}

func TestRunEmitsTransitions(t *testing.T) {
	transitions := make(chan Transition, 16)

	p := New().
		AddStage(&stubStage{name: "a"}).
		AddStage(&stubStage{name: "b", err: errors.New("nope")}).
		Notify(transitions)

	_, err := p.Run(context.Background(), NewRunContext(config.Default()))
	require.Error(t, err)
	close(transitions)

	var got []string
	for tr := range transitions {
		got = append(got, tr.Stage+":"+string(tr.Kind))
	}

	assert.Equal(t, []string{"a:started", "a:completed", "b:started", "b:failed"}, got)
}

func TestRunWithoutStagesCompletes(t *testing.T) {
	rc, err := New().Run(context.Background(), NewRunContext(config.Default()))
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusCompleted, rc.Status)
}

func TestMetadataProjection(t *testing.T) {
	rc := NewRunContext(config.Default())
	rc.Status = models.RunStatusFailed
	rc.Errors = []models.StageError{{Stage: "execution", Message: "boom", Timestamp: "2026-08-30T12:00:00Z"}}

	meta := rc.Metadata()
	assert.Equal(t, rc.RunID, meta.RunID)
	assert.Equal(t, models.RunStatusFailed, meta.Status)
	assert.Equal(t, rc.Errors, meta.Errors)
}
