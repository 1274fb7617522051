package analysis

import (
	"regexp"
	"sort"
	"strings"

	"github.com/onvoyage-ai/voyage-geo-agent/pkg/models"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/textutil"
)

var rankedLine = regexp.MustCompile(`^\s*\d+[.)]\s+(.+)$`)

// extractRankedBrands reads an explicit ranking out of a response: numbered
// list lines matched against the candidate brands, in list order. A single
// brand is not a ranking, so fewer than two distinct candidates yields nil.
func extractRankedBrands(response string, candidates []string) []string {
	var ranked []string

	seen := map[string]bool{}

	for _, line := range strings.Split(response, "\n") {
		m := rankedLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		for _, brand := range candidates {
			if !seen[brand] && textutil.ContainsBrand(m[1], brand) {
				ranked = append(ranked, brand)
				seen[brand] = true

				break
			}
		}
	}

	if len(ranked) < 2 {
		return nil
	}

	return ranked
}

// RankPosition measures how often and how high the brand appears in responses
// carrying an explicit ranked list of the candidate brands.
func RankPosition(results []models.QueryResult, profile *models.BrandProfile) models.RankPositionScore {
	valid := validResults(results)
	if len(valid) == 0 {
		return models.RankPositionScore{}
	}

	candidates := append([]string{profile.Name}, profile.Competitors...)

	var positions []int

	weightedSum := 0.0
	totalRanked := 0
	mentioned := 0
	providerTotals := map[string]int{}
	providerWeighted := map[string]float64{}

	for _, r := range valid {
		ranked := extractRankedBrands(r.Response, candidates)
		if ranked == nil {
			continue
		}

		totalRanked++
		providerTotals[r.Provider]++

		for idx, brand := range ranked {
			if brand != profile.Name {
				continue
			}

			position := idx + 1
			mentioned++
			positions = append(positions, position)

			contribution := 1.0 / float64(position)
			weightedSum += contribution
			providerWeighted[r.Provider] += contribution

			break
		}
	}

	if totalRanked == 0 {
		return models.RankPositionScore{}
	}

	byProvider := map[string]float64{}
	for provider, total := range providerTotals {
		byProvider[provider] = round4(providerWeighted[provider] / float64(total))
	}

	top3 := 0

	var sum int

	for _, p := range positions {
		sum += p
		if p <= 3 {
			top3++
		}
	}

	avg, top3Rate := 0.0, 0.0
	if mentioned > 0 {
		avg = float64(sum) / float64(mentioned)
		top3Rate = float64(top3) / float64(mentioned)
	}

	return models.RankPositionScore{
		TotalRankedResponses: totalRanked,
		MentionInRankedLists: mentioned,
		MentionCoverage:      round4(float64(mentioned) / float64(totalRanked)),
		AvgPosition:          round4(avg),
		MedianPosition:       round4(median(positions)),
		Top3Rate:             round4(top3Rate),
		WeightedVisibility:   round4(weightedSum / float64(totalRanked)),
		ByProvider:           byProvider,
	}
}

func median(values []int) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]int, len(values))
	copy(sorted, values)
	sort.Ints(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return float64(sorted[mid])
	}

	return float64(sorted[mid-1]+sorted[mid]) / 2
}
