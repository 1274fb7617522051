package analysis

import (
	"math"

	"github.com/onvoyage-ai/voyage-geo-agent/pkg/models"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/textutil"
)

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

func validResults(results []models.QueryResult) []models.QueryResult {
	var valid []models.QueryResult

	for _, r := range results {
		if !r.Failed() && r.Response != "" {
			valid = append(valid, r)
		}
	}

	return valid
}

func groupByProvider(results []models.QueryResult) map[string][]models.QueryResult {
	groups := map[string][]models.QueryResult{}
	for _, r := range results {
		groups[r.Provider] = append(groups[r.Provider], r)
	}

	return groups
}

// MentionRate measures the share of successful responses that mention the
// brand at least once.
func MentionRate(results []models.QueryResult, profile *models.BrandProfile) models.MentionRateScore {
	valid := validResults(results)
	if len(valid) == 0 {
		return models.MentionRateScore{TotalResponses: len(results)}
	}

	mentions := 0

	for _, r := range valid {
		if textutil.ContainsBrand(r.Response, profile.Name) {
			mentions++
		}
	}

	byProvider := map[string]float64{}

	for provider, group := range groupByProvider(valid) {
		hit := 0

		for _, r := range group {
			if textutil.ContainsBrand(r.Response, profile.Name) {
				hit++
			}
		}

		byProvider[provider] = round4(float64(hit) / float64(len(group)))
	}

	return models.MentionRateScore{
		Overall:        round4(float64(mentions) / float64(len(valid))),
		ByProvider:     byProvider,
		TotalMentions:  mentions,
		TotalResponses: len(valid),
	}
}
