// Package research builds the brand profile that seeds query generation and
// analysis.
package research

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/onvoyage-ai/voyage-geo-agent/pkg/log"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/models"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/pipeline"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/providers"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/storage"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/textutil"
)

const profilePrompt = `You are a brand research analyst. Given the following brand, produce a structured profile.

Brand: %s
Website: %s

Return a JSON object with exactly these fields:
- description: 1-2 sentence description of what the brand does
- industry: the industry (e.g. "SaaS", "Fintech", "E-commerce")
- category: the product category (e.g. "project management software", "spend management platform")
- competitors: list of 5-8 direct competitors (brand names only)
- keywords: list of 8-12 relevant search keywords/phrases
- unique_selling_points: list of 3-5 USPs
- target_audience: list of 3-5 target audience segments

Return ONLY valid JSON, no markdown fences or explanation.`

// Stage asks the processing provider for a structured brand profile and
// persists it as brand-profile.json.
type Stage struct {
	provider providers.Provider
	storage  *storage.FileSystemStorage
	logger   *slog.Logger
}

func New(provider providers.Provider, store *storage.FileSystemStorage) *Stage {
	return &Stage{
		provider: provider,
		storage:  store,
		logger:   log.WithModule("research"),
	}
}

func (s *Stage) Name() string        { return "research" }
func (s *Stage) Description() string { return "Research brand profile" }

type profilePayload struct {
	Description         string   `json:"description"`
	Industry            string   `json:"industry"`
	Category            string   `json:"category"`
	Competitors         []string `json:"competitors"`
	Keywords            []string `json:"keywords"`
	UniqueSellingPoints []string `json:"unique_selling_points"`
	TargetAudience      []string `json:"target_audience"`
}

func (s *Stage) Execute(ctx context.Context, rc pipeline.RunContext) (pipeline.RunContext, error) {
	// A pre-seeded profile (resumed run) short-circuits the stage.
	if rc.BrandProfile != nil {
		s.logger.Info("using existing brand profile", "brand", rc.BrandProfile.Name)

		return rc, nil
	}

	brand := rc.Config.Brand
	if brand == "" {
		brand = "Unknown"
	}

	website := rc.Config.Website
	if website == "" {
		website = "N/A"
	}

	s.logger.Info("researching brand", "brand", brand, "provider", s.provider.Name())

	resp, err := s.provider.Query(ctx, fmt.Sprintf(profilePrompt, brand, website))
	if err != nil {
		return rc, fmt.Errorf("brand research query: %w", err)
	}

	var payload profilePayload
	if err := json.Unmarshal([]byte(textutil.StripFences(resp.Text)), &payload); err != nil {
		// A malformed profile response degrades to config values rather
		// than failing the run.
		s.logger.Warn("profile response was not valid JSON", "error", err)
	}

	competitors := payload.Competitors
	if len(competitors) == 0 {
		competitors = rc.Config.Competitors
	}

	if competitors == nil {
		competitors = []string{}
	}

	profile := &models.BrandProfile{
		Name:                brand,
		Website:             rc.Config.Website,
		Description:         payload.Description,
		Industry:            payload.Industry,
		Category:            payload.Category,
		Competitors:         competitors,
		Keywords:            payload.Keywords,
		UniqueSellingPoints: payload.UniqueSellingPoints,
		TargetAudience:      payload.TargetAudience,
	}

	if err := s.storage.SaveJSON(rc.RunID, "brand-profile.json", profile); err != nil {
		return rc, err
	}

	s.logger.Info("brand profile built",
		"category", profile.Category,
		"competitors", len(profile.Competitors),
		"keywords", len(profile.Keywords))

	rc.BrandProfile = profile

	return rc, nil
}
