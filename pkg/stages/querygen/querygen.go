// Package querygen generates the AI-crafted search queries for a run, split
// across the configured strategies.
package querygen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/onvoyage-ai/voyage-geo-agent/pkg/log"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/models"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/pipeline"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/providers"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/storage"
)

// Stage generates queries with the processing provider and persists the
// resulting query set as queries.json.
type Stage struct {
	provider providers.Provider
	storage  *storage.FileSystemStorage
	logger   *slog.Logger
}

func New(provider providers.Provider, store *storage.FileSystemStorage) *Stage {
	return &Stage{
		provider: provider,
		storage:  store,
		logger:   log.WithModule("querygen"),
	}
}

func (s *Stage) Name() string        { return "query-generation" }
func (s *Stage) Description() string { return "Generate search queries with AI" }

func (s *Stage) Execute(ctx context.Context, rc pipeline.RunContext) (pipeline.RunContext, error) {
	if rc.BrandProfile == nil {
		return rc, errors.New("brand profile is required for query generation")
	}

	// A pre-seeded query set (resumed run) short-circuits the stage.
	if rc.QuerySet != nil {
		s.logger.Info("using existing query set", "queries", rc.QuerySet.TotalCount)

		return rc, nil
	}

	profile := rc.BrandProfile
	enabled := rc.Config.Queries.Strategies
	total := rc.Config.Queries.Count

	// ceil division keeps the total reachable when it does not divide evenly
	perStrategy := (total + len(enabled) - 1) / len(enabled)

	var all []models.GeneratedQuery

	for _, name := range enabled {
		strat, ok := strategies[name]
		if !ok {
			s.logger.Warn("unknown strategy", "strategy", name)

			continue
		}

		s.logger.Info("generating queries", "strategy", name, "count", perStrategy)

		resp, err := s.provider.Query(ctx, strat.prompt(profile, perStrategy))
		if err != nil {
			return rc, fmt.Errorf("%s strategy: %w", name, err)
		}

		all = append(all, ParseQueries(resp.Text, strat.name, strat.prefix, perStrategy)...)
	}

	if len(all) > total {
		all = all[:total]
	}

	querySet := &models.QuerySet{
		Brand:       profile.Name,
		Queries:     all,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		TotalCount:  len(all),
	}

	if err := s.storage.SaveJSON(rc.RunID, "queries.json", querySet); err != nil {
		return rc, err
	}

	s.logger.Info("query set ready", "queries", len(all), "strategies", len(enabled))

	rc.QuerySet = querySet

	return rc, nil
}
