// Package engine assembles a full GEO visibility run: providers, storage,
// and the stage pipeline, with metadata persisted before and after.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/onvoyage-ai/voyage-geo-agent/pkg/config"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/errs"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/log"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/models"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/otelhelper"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/pipeline"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/providers"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/stages/analysis"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/stages/execution"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/stages/querygen"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/stages/reporting"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/stages/research"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/storage"
)

// stageOrder is the fixed pipeline; StopAfter must name one of these.
var stageOrder = []string{"research", "query-generation", "execution", "analysis", "reporting"}

// Options tune one run beyond the loaded configuration.
type Options struct {
	// StopAfter stops the pipeline after the named stage.
	StopAfter string

	// Resume reloads brand-profile.json and queries.json from an existing
	// run directory instead of regenerating them.
	Resume string

	// Transitions receives stage lifecycle events when non-nil.
	Transitions chan<- pipeline.Transition
}

// Engine runs pipelines against one configuration.
type Engine struct {
	cfg     *config.Config
	storage *storage.FileSystemStorage
	logger  *slog.Logger
}

func New(cfg *config.Config) *Engine {
	return &Engine{
		cfg:     cfg,
		storage: storage.NewFileSystemStorage(cfg.OutputDir),
		logger:  log.WithModule("engine"),
	}
}

// Storage exposes the engine's artifact store, shared with the web surface.
func (e *Engine) Storage() *storage.FileSystemStorage {
	return e.storage
}

// BuildRegistry instantiates every enabled provider from the configuration.
func (e *Engine) BuildRegistry() (*providers.Registry, error) {
	registry := providers.NewRegistry()

	for _, name := range e.cfg.EnabledProviders() {
		if err := registry.Register(name, e.cfg.Providers[name]); err != nil {
			return nil, err
		}
	}

	return registry, nil
}

// ProcessingProvider builds the dedicated provider used for research and
// query generation.
func (e *Engine) ProcessingProvider() (providers.Provider, error) {
	p := e.cfg.Processing
	if p.APIKey == "" {
		return nil, errs.NewConfigError("processing provider %s has no API key", p.Provider)
	}

	return providers.Create(p.Provider, config.ProviderConfig{
		Name:      p.Provider,
		APIKey:    p.APIKey,
		Model:     p.Model,
		BaseURL:   p.BaseURL,
		MaxTokens: p.MaxTokens,
	})
}

// Run executes the pipeline end to end and returns the final context. The
// run is persisted even when a stage fails; the returned error then wraps
// the failing stage.
func (e *Engine) Run(ctx context.Context, opts Options) (pipeline.RunContext, error) {
	registry, err := e.BuildRegistry()
	if err != nil {
		return pipeline.RunContext{}, err
	}

	if len(registry.Enabled()) == 0 {
		return pipeline.RunContext{}, errs.NewConfigError("no providers enabled; set at least one API key")
	}

	processing, err := e.ProcessingProvider()
	if err != nil {
		return pipeline.RunContext{}, err
	}

	rc := pipeline.NewRunContext(e.cfg)
	if _, err := e.storage.CreateRunDir(rc.RunID); err != nil {
		return rc, err
	}

	if opts.Resume != "" {
		if err := e.resume(&rc, opts.Resume); err != nil {
			return rc, err
		}
	}

	p, err := e.buildPipeline(registry, processing, opts)
	if err != nil {
		return rc, err
	}

	rc.Status = models.RunStatusRunning
	if err := e.storage.SaveMetadata(rc.RunID, rc.Metadata()); err != nil {
		return rc, err
	}

	e.logger.Info("run started", "run_id", rc.RunID, "brand", e.cfg.Brand, "providers", registry.Names())

	final, runErr := p.Run(ctx, rc)

	if err := e.storage.SaveMetadata(final.RunID, final.Metadata()); err != nil {
		e.logger.Error("failed to persist run metadata", "run_id", final.RunID, "error", err)
	}

	if runErr != nil {
		return final, runErr
	}

	e.logger.Info("run completed", "run_id", final.RunID, "status", final.Status)

	return final, nil
}

func (e *Engine) buildPipeline(registry *providers.Registry, processing providers.Provider, opts Options) (*pipeline.Pipeline, error) {
	all := map[string]pipeline.Stage{
		"research":         research.New(processing, e.storage),
		"query-generation": querygen.New(processing, e.storage),
		"execution":        execution.New(registry, e.storage),
		"analysis":         analysis.New(e.storage),
		"reporting":        reporting.New(e.storage),
	}

	if opts.StopAfter != "" && !slices.Contains(stageOrder, opts.StopAfter) {
		return nil, errs.NewConfigError("unknown stage: %s", opts.StopAfter)
	}

	p := pipeline.New()
	if opts.Transitions != nil {
		p.Notify(opts.Transitions)
	}

	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != "" {
		tracer, err := otelhelper.NewTracer(context.Background(), "voyage-geo")
		if err != nil {
			e.logger.Warn("tracing disabled", "error", err)
		} else {
			p.Trace(tracer)
		}
	}

	for _, name := range stageOrder {
		p.AddStage(all[name])

		if name == opts.StopAfter {
			break
		}
	}

	return p, nil
}

// resume seeds the new context with artifacts from a previous run directory,
// so research and query generation are skipped when their outputs exist.
func (e *Engine) resume(rc *pipeline.RunContext, fromRunID string) error {
	var profile models.BrandProfile
	if err := e.storage.LoadJSON(fromRunID, "brand-profile.json", &profile); err != nil {
		return fmt.Errorf("resume from %s: %w", fromRunID, err)
	}

	rc.BrandProfile = &profile

	var querySet models.QuerySet
	if err := e.storage.LoadJSON(fromRunID, "queries.json", &querySet); err == nil {
		rc.QuerySet = &querySet
	}

	e.logger.Info("resumed artifacts", "from", fromRunID, "queries", rc.QuerySet != nil)

	return nil
}

// ListRuns returns the metadata of every run directory, newest first.
// Directories without readable metadata are skipped.
func (e *Engine) ListRuns() ([]*models.RunMetadata, error) {
	ids, err := e.storage.ListRuns()
	if err != nil {
		return nil, err
	}

	runs := make([]*models.RunMetadata, 0, len(ids))

	for _, id := range ids {
		meta, err := e.storage.LoadMetadata(id)
		if err != nil {
			e.logger.Warn("skipping run without metadata", "run_id", id)

			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}
