// Package analysis scores AI responses for brand visibility: mention rate,
// mindshare, sentiment around brand mentions, head-to-head competitor
// metrics, explicit rank positions and cited sources.
package analysis

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/onvoyage-ai/voyage-geo-agent/pkg/log"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/models"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/pipeline"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/storage"
)

// Stage runs every analyzer over the execution results and persists the
// bundle as analysis/analysis.json.
type Stage struct {
	storage *storage.FileSystemStorage
	logger  *slog.Logger
}

func New(store *storage.FileSystemStorage) *Stage {
	return &Stage{
		storage: store,
		logger:  log.WithModule("analysis"),
	}
}

func (s *Stage) Name() string        { return "analysis" }
func (s *Stage) Description() string { return "Analyze AI responses" }

func (s *Stage) Execute(_ context.Context, rc pipeline.RunContext) (pipeline.RunContext, error) {
	if rc.ExecutionRun == nil || rc.BrandProfile == nil {
		return rc, errors.New("execution results and brand profile required")
	}

	results := rc.ExecutionRun.Results
	profile := rc.BrandProfile

	analysis := &models.AnalysisResult{
		RunID:        rc.RunID,
		Brand:        profile.Name,
		AnalyzedAt:   time.Now().UTC().Format(time.RFC3339),
		MentionRate:  MentionRate(results, profile),
		Mindshare:    Mindshare(results, profile),
		Sentiment:    Sentiment(results, profile),
		Competitors:  Competitor(results, profile),
		RankPosition: RankPosition(results, profile),
		Citations:    Citation(results),
	}

	if err := s.storage.SaveJSON(rc.RunID, "analysis/analysis.json", analysis); err != nil {
		return rc, err
	}

	if err := s.storage.SaveJSON(rc.RunID, "analysis/snapshot.json", Snapshot(analysis)); err != nil {
		return rc, err
	}

	s.logger.Info("analysis complete",
		"mention_rate", analysis.MentionRate.Overall,
		"mindshare", analysis.Mindshare.Overall,
		"sentiment", analysis.Sentiment.Label)

	rc.Analysis = analysis

	return rc, nil
}
