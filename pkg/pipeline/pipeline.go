// Package pipeline runs the linear stage sequence of a GEO visibility run:
// pending → running → completed or failed, no branching, no stage retries.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/onvoyage-ai/voyage-geo-agent/pkg/errs"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/log"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/models"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/otelhelper"
)

// Stage is one unit of pipeline work. Execute receives the run context by
// value and returns a new context carrying its artifact; it must never remove
// artifacts written by earlier stages.
type Stage interface {
	Name() string
	Description() string
	Execute(ctx context.Context, rc RunContext) (RunContext, error)
}

// TransitionKind labels a stage lifecycle event.
type TransitionKind string

const (
	TransitionStarted   TransitionKind = "started"
	TransitionCompleted TransitionKind = "completed"
	TransitionFailed    TransitionKind = "failed"
)

// Transition is one stage lifecycle event, published to an optional channel
// for progress reporting.
type Transition struct {
	Stage     string
	Kind      TransitionKind
	Err       error
	Timestamp time.Time
}

// Pipeline applies its stages in registration order.
type Pipeline struct {
	stages      []Stage
	transitions chan<- Transition
	tracer      trace.Tracer
	logger      *slog.Logger
}

func New() *Pipeline {
	return &Pipeline{logger: log.WithModule("pipeline")}
}

// AddStage appends a stage; registration order is execution order.
func (p *Pipeline) AddStage(stage Stage) *Pipeline {
	p.stages = append(p.stages, stage)

	return p
}

// Notify sets the channel receiving stage transitions. Sends are best-effort:
// a full channel drops the event rather than stalling the run.
func (p *Pipeline) Notify(ch chan<- Transition) *Pipeline {
	p.transitions = ch

	return p
}

// Trace enables a span per stage on the given tracer.
func (p *Pipeline) Trace(tracer trace.Tracer) *Pipeline {
	p.tracer = tracer

	return p
}

// Run drives a pending run context through every stage. On stage failure it
// records a stage error on the context, marks the run failed and returns the
// context alongside a pipeline error naming the stage; later stages never
// execute, earlier artifacts survive on the returned context.
func (p *Pipeline) Run(ctx context.Context, rc RunContext) (RunContext, error) {
	rc.Status = models.RunStatusRunning

	for _, stage := range p.stages {
		rc.CurrentStage = stage.Name()
		p.emit(Transition{Stage: stage.Name(), Kind: TransitionStarted, Timestamp: time.Now().UTC()})
		p.logger.Info("stage started", "stage", stage.Name(), "run_id", rc.RunID)

		next, err := p.executeStage(ctx, stage, rc)
		if err != nil {
			rc.Status = models.RunStatusFailed
			rc.Errors = append(rc.Errors, models.StageError{
				Stage:     stage.Name(),
				Message:   err.Error(),
				Timestamp: time.Now().UTC().Format(time.RFC3339),
			})

			p.emit(Transition{Stage: stage.Name(), Kind: TransitionFailed, Err: err, Timestamp: time.Now().UTC()})
			p.logger.Error("stage failed", "stage", stage.Name(), "run_id", rc.RunID, "error", err)

			return rc, &errs.PipelineError{Stage: stage.Name(), Err: err}
		}

		rc = next
		p.emit(Transition{Stage: stage.Name(), Kind: TransitionCompleted, Timestamp: time.Now().UTC()})
		p.logger.Info("stage completed", "stage", stage.Name(), "run_id", rc.RunID)
	}

	rc.Status = models.RunStatusCompleted
	rc.CurrentStage = ""
	rc.CompletedAt = time.Now().UTC().Format(time.RFC3339)

	return rc, nil
}

func (p *Pipeline) executeStage(ctx context.Context, stage Stage, rc RunContext) (RunContext, error) {
	if p.tracer == nil {
		return stage.Execute(ctx, rc)
	}

	ctx, span := otelhelper.StartSpan(ctx, p.tracer, "stage."+stage.Name(),
		attribute.String(otelhelper.RunIDKey, rc.RunID),
		attribute.String(otelhelper.StageKey, stage.Name()),
		attribute.String(otelhelper.BrandKey, rc.Config.Brand),
	)
	defer span.End()

	next, err := stage.Execute(ctx, rc)
	if err != nil {
		otelhelper.SetError(span, err, attribute.String(otelhelper.StageKey, stage.Name()))
	}

	return next, err
}

func (p *Pipeline) emit(t Transition) {
	if p.transitions == nil {
		return
	}

	select {
	case p.transitions <- t:
	default:
	}
}
