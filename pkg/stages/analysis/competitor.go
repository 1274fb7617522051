package analysis

import (
	"sort"

	"github.com/onvoyage-ai/voyage-geo-agent/pkg/models"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/textutil"
)

// Competitor scores the target brand and each known competitor side by side
// on mention rate, sentiment and mindshare, ranked by mindshare.
func Competitor(results []models.QueryResult, profile *models.BrandProfile) models.CompetitorAnalysis {
	valid := validResults(results)
	if len(valid) == 0 {
		return models.CompetitorAnalysis{}
	}

	allBrands := append([]string{profile.Name}, profile.Competitors...)

	totalMentions := 0
	brandMentions := map[string]int{}

	for _, r := range valid {
		for _, brand := range allBrands {
			n := textutil.CountOccurrences(r.Response, brand)
			brandMentions[brand] += n
			totalMentions += n
		}
	}

	scores := make([]models.CompetitorScore, 0, len(allBrands))

	for _, brand := range allBrands {
		responsesWith := 0

		var sentiments []float64

		for _, r := range valid {
			if textutil.ContainsBrand(r.Response, brand) {
				responsesWith++
			}

			for _, sentence := range textutil.ExtractSentences(r.Response) {
				if textutil.ContainsBrand(sentence, brand) {
					sentiments = append(sentiments, scoreSentence(sentence))
				}
			}
		}

		sentiment := 0.0

		if len(sentiments) > 0 {
			var sum float64
			for _, v := range sentiments {
				sum += v
			}

			sentiment = sum / float64(len(sentiments))
		}

		mindshare := 0.0
		if totalMentions > 0 {
			mindshare = float64(brandMentions[brand]) / float64(totalMentions)
		}

		scores = append(scores, models.CompetitorScore{
			Name:        brand,
			MentionRate: round4(float64(responsesWith) / float64(len(valid))),
			Sentiment:   round4(sentiment),
			Mindshare:   round4(mindshare),
		})
	}

	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].Mindshare != scores[j].Mindshare {
			return scores[i].Mindshare > scores[j].Mindshare
		}

		return scores[i].Name < scores[j].Name
	})

	rank := 0

	for i, s := range scores {
		if s.Name == profile.Name {
			rank = i + 1

			break
		}
	}

	return models.CompetitorAnalysis{Competitors: scores, BrandRank: rank}
}
