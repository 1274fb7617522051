package analysis

import (
	"sort"

	"github.com/onvoyage-ai/voyage-geo-agent/pkg/models"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/textutil"
)

// Mindshare measures the brand's share of all brand mentions across the
// target brand and its competitors, plus its rank by mention count.
func Mindshare(results []models.QueryResult, profile *models.BrandProfile) models.MindshareScore {
	valid := validResults(results)
	if len(valid) == 0 {
		return models.MindshareScore{}
	}

	allBrands := append([]string{profile.Name}, profile.Competitors...)
	counts := map[string]int{}

	for _, r := range valid {
		for _, brand := range allBrands {
			counts[brand] += textutil.CountOccurrences(r.Response, brand)
		}
	}

	total := 0
	detected := 0

	for _, c := range counts {
		total += c
		if c > 0 {
			detected++
		}
	}

	overall := 0.0
	if total > 0 {
		overall = float64(counts[profile.Name]) / float64(total)
	}

	// rank brands by mention count, ties broken by name for determinism
	ranked := make([]string, 0, len(counts))
	for brand := range counts {
		ranked = append(ranked, brand)
	}

	sort.Slice(ranked, func(i, j int) bool {
		if counts[ranked[i]] != counts[ranked[j]] {
			return counts[ranked[i]] > counts[ranked[j]]
		}

		return ranked[i] < ranked[j]
	})

	rank := 0

	for i, brand := range ranked {
		if brand == profile.Name {
			rank = i + 1

			break
		}
	}

	byProvider := map[string]float64{}

	for provider, group := range groupByProvider(valid) {
		provTotal := 0
		provOurs := 0

		for _, r := range group {
			for _, brand := range allBrands {
				provTotal += textutil.CountOccurrences(r.Response, brand)
			}

			provOurs += textutil.CountOccurrences(r.Response, profile.Name)
		}

		share := 0.0
		if provTotal > 0 {
			share = float64(provOurs) / float64(provTotal)
		}

		byProvider[provider] = round4(share)
	}

	return models.MindshareScore{
		Overall:             round4(overall),
		ByProvider:          byProvider,
		Rank:                rank,
		TotalBrandsDetected: detected,
	}
}
