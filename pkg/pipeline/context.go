package pipeline

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/onvoyage-ai/voyage-geo-agent/pkg/config"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/models"
)

// RunContext carries the state of one run through the pipeline. Stages
// receive it by value: every transition hands the next stage a copy, so a
// stage can only add its own artifact, never mutate a predecessor's.
type RunContext struct {
	RunID        string
	Config       *config.Config
	Status       models.RunStatus
	CurrentStage string
	StartedAt    string
	CompletedAt  string

	BrandProfile *models.BrandProfile
	QuerySet     *models.QuerySet
	ExecutionRun *models.ExecutionRun
	Analysis     *models.AnalysisResult

	Errors []models.StageError
}

// NewRunContext creates a pending context with a fresh run id of the form
// run-YYYYMMDD-HHMMSS-xxxxxx.
func NewRunContext(cfg *config.Config) RunContext {
	now := time.Now().UTC()
	id := uuid.New()

	return RunContext{
		RunID:     fmt.Sprintf("run-%s-%s", now.Format("20060102-150405"), hex.EncodeToString(id[:])[:6]),
		Config:    cfg,
		Status:    models.RunStatusPending,
		StartedAt: now.Format(time.RFC3339),
	}
}

// Metadata projects the context into its persisted metadata record.
func (rc RunContext) Metadata() *models.RunMetadata {
	return &models.RunMetadata{
		RunID:       rc.RunID,
		Status:      rc.Status,
		StartedAt:   rc.StartedAt,
		CompletedAt: rc.CompletedAt,
		Errors:      rc.Errors,
	}
}
