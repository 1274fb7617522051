// Package web exposes the run archive and background job control over HTTP.
package web

import (
	"github.com/gofiber/fiber/v3"

	"github.com/onvoyage-ai/voyage-geo-agent/pkg/config"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/engine"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/models"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/providers"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/trends"
)

// APIHandlers serves run listings, run artifacts, provider status, and job
// control.
type APIHandlers struct {
	cfg    *config.Config
	engine *engine.Engine
	jobs   *JobStore
}

func NewAPIHandlers(cfg *config.Config, eng *engine.Engine, jobs *JobStore) *APIHandlers {
	return &APIHandlers{cfg: cfg, engine: eng, jobs: jobs}
}

func (h *APIHandlers) Health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *APIHandlers) GetRuns(c fiber.Ctx) error {
	runs, err := h.engine.ListRuns()
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{"runs": runs, "total_count": len(runs)})
}

// runDetail aggregates the per-run artifacts that exist on disk.
type runDetail struct {
	Metadata *models.RunMetadata    `json:"metadata"`
	Profile  *models.BrandProfile   `json:"brand_profile,omitempty"`
	Run      *models.ExecutionRun   `json:"execution_run,omitempty"`
	Analysis *models.AnalysisResult `json:"analysis,omitempty"`
}

func (h *APIHandlers) GetRun(c fiber.Ctx) error {
	runID := c.Params("id")
	if runID == "" {
		return badRequest(c, "run ID is required")
	}

	store := h.engine.Storage()

	meta, err := store.LoadMetadata(runID)
	if err != nil {
		return notFound(c, "run not found: "+runID)
	}

	detail := runDetail{Metadata: meta}

	var profile models.BrandProfile
	if err := store.LoadJSON(runID, "brand-profile.json", &profile); err == nil {
		detail.Profile = &profile
	}

	var run models.ExecutionRun
	if err := store.LoadJSON(runID, "results/execution-run.json", &run); err == nil {
		detail.Run = &run
	}

	var analysis models.AnalysisResult
	if err := store.LoadJSON(runID, "analysis/analysis.json", &analysis); err == nil {
		detail.Analysis = &analysis
	}

	return c.JSON(detail)
}

func (h *APIHandlers) GetTrends(c fiber.Ctx) error {
	records, err := trends.Collect(h.engine.Storage(), c.Query("brand"))
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{
		"records":           records,
		"competitor_series": trends.CompetitorSeries(records, nil),
		"total_count":       len(records),
	})
}

// providerStatus is one row of the provider status listing.
type providerStatus struct {
	Name       string `json:"name"`
	Display    string `json:"display_name"`
	Model      string `json:"model,omitempty"`
	Configured bool   `json:"configured"`
	Enabled    bool   `json:"enabled"`
}

func (h *APIHandlers) GetProviders(c fiber.Ctx) error {
	statuses := make([]providerStatus, 0, len(h.cfg.Providers))

	for _, name := range providers.Known() {
		pc, ok := h.cfg.Providers[name]
		if !ok {
			continue
		}

		p, err := providers.Create(name, pc)
		if err != nil {
			return internalError(c, err)
		}

		statuses = append(statuses, providerStatus{
			Name:       name,
			Display:    p.DisplayName(),
			Model:      pc.Model,
			Configured: p.IsConfigured(),
			Enabled:    pc.Enabled,
		})
	}

	return c.JSON(fiber.Map{"providers": statuses})
}

// launchJobRequest carries per-job overrides for a background run.
type launchJobRequest struct {
	StopAfter string `json:"stop_after"`
	Resume    string `json:"resume"`
}

func (h *APIHandlers) CreateJob(c fiber.Ctx) error {
	var req launchJobRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().Body(&req); err != nil {
			return badRequest(c, "invalid request body: "+err.Error())
		}
	}

	record := h.jobs.Launch(engine.Options{StopAfter: req.StopAfter, Resume: req.Resume})

	return c.Status(fiber.StatusAccepted).JSON(record)
}

func (h *APIHandlers) GetJobs(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"jobs": h.jobs.List()})
}

func (h *APIHandlers) GetJob(c fiber.Ctx) error {
	record, ok := h.jobs.Get(c.Params("id"))
	if !ok {
		return notFound(c, "job not found: "+c.Params("id"))
	}

	return c.JSON(record)
}

func (h *APIHandlers) CancelJob(c fiber.Ctx) error {
	jobID := c.Params("id")

	if _, ok := h.jobs.Get(jobID); !ok {
		return notFound(c, "job not found: "+jobID)
	}

	if !h.jobs.Cancel(jobID) {
		return conflict(c, "job already settled: "+jobID)
	}

	record, _ := h.jobs.Get(jobID)

	return c.JSON(record)
}
