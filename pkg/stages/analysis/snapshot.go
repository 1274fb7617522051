package analysis

import (
	"math"
	"strings"

	"github.com/onvoyage-ai/voyage-geo-agent/pkg/models"
)

// visibility score weights; neutralPositioning stands in for the positioning
// attribute strength the score was originally tuned with.
const (
	mentionRateWeight = 28.0
	mindshareWeight   = 22.0
	rankWeight        = 25.0
	sentimentWeight   = 15.0
	positioningWeight = 10.0

	neutralPositioning = 0.5
)

// visibilityScore folds the analyzer outputs into a single 0-100 score.
func visibilityScore(a *models.AnalysisResult) float64 {
	rankVisibility := 0.0

	switch {
	case a.RankPosition.TotalRankedResponses > 0:
		rankVisibility = a.RankPosition.WeightedVisibility
	case a.Mindshare.Rank > 0:
		rankVisibility = 1.0 / float64(a.Mindshare.Rank)
	}

	score := a.MentionRate.Overall*mentionRateWeight +
		a.Mindshare.Overall*mindshareWeight +
		rankVisibility*rankWeight +
		((a.Sentiment.Overall+1)/2)*sentimentWeight +
		neutralPositioning*positioningWeight

	return math.Min(math.Max(math.Round(score*10)/10, 0), 100)
}

// Snapshot projects the analysis bundle into the compact per-run record the
// trend index consumes.
func Snapshot(a *models.AnalysisResult) *models.AnalysisSnapshot {
	competitors := a.Competitors.Competitors

	var brand, leader *models.CompetitorScore

	for i := range competitors {
		if strings.EqualFold(competitors[i].Name, a.Brand) {
			brand = &competitors[i]

			break
		}
	}

	if len(competitors) > 0 {
		leader = &competitors[0]
	}

	brandMindshare := a.Mindshare.Overall
	brandMentionRate := a.MentionRate.Overall

	if brand != nil {
		brandMindshare = brand.Mindshare
		brandMentionRate = brand.MentionRate
	}

	relative := models.CompetitorRelative{BrandRank: a.Competitors.BrandRank}
	if relative.BrandRank == 0 {
		relative.BrandRank = a.Mindshare.Rank
	}

	if leader != nil {
		relative.LeaderBrand = leader.Name
		relative.LeaderMindshare = leader.Mindshare
		relative.LeaderMentionRate = leader.MentionRate
		relative.MindshareGapToLeader = round4(brandMindshare - leader.Mindshare)
		relative.MentionRateGapToLeader = round4(brandMentionRate - leader.MentionRate)
	}

	top5 := competitors
	if len(top5) > 5 {
		top5 = top5[:5]
	}

	var top5Mindshare float64
	for _, c := range top5 {
		top5Mindshare += c.Mindshare
	}

	if top5Mindshare > 0 {
		relative.ShareOfVoiceTop5 = round4(brandMindshare / top5Mindshare)
	}

	for _, c := range competitors {
		if strings.EqualFold(c.Name, a.Brand) {
			continue
		}

		relative.TopCompetitors = append(relative.TopCompetitors, c)
		if len(relative.TopCompetitors) == 5 {
			break
		}
	}

	return &models.AnalysisSnapshot{
		SchemaVersion:         models.SnapshotSchemaVersion,
		RunID:                 a.RunID,
		Brand:                 a.Brand,
		AnalyzedAt:            a.AnalyzedAt,
		OverallScore:          visibilityScore(a),
		MentionRate:           a.MentionRate.Overall,
		Mindshare:             a.Mindshare.Overall,
		SentimentScore:        a.Sentiment.Overall,
		SentimentLabel:        a.Sentiment.Label,
		SentimentConfidence:   a.Sentiment.Confidence,
		MindshareRank:         a.Mindshare.Rank,
		TotalBrandsDetected:   a.Mindshare.TotalBrandsDetected,
		MentionRateByProvider: a.MentionRate.ByProvider,
		MindshareByProvider:   a.Mindshare.ByProvider,
		SentimentByProvider:   a.Sentiment.ByProvider,
		CompetitorRelative:    relative,
	}
}
