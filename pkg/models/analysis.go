package models

// SentimentLabel buckets a compound sentiment score.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNeutral  SentimentLabel = "neutral"
	SentimentNegative SentimentLabel = "negative"
)

// MentionRateScore reports what share of responses mention the brand.
type MentionRateScore struct {
	Overall        float64            `json:"overall"`
	ByProvider     map[string]float64 `json:"by_provider,omitempty"`
	TotalMentions  int                `json:"total_mentions"`
	TotalResponses int                `json:"total_responses"`
}

// MindshareScore reports the brand's share of all brand mentions across the
// target brand and its known competitors.
type MindshareScore struct {
	Overall             float64            `json:"overall"`
	ByProvider          map[string]float64 `json:"by_provider,omitempty"`
	Rank                int                `json:"rank"`
	TotalBrandsDetected int                `json:"total_brands_detected"`
}

// SentimentExcerpt is one brand-mentioning sentence with its score.
type SentimentExcerpt struct {
	Text     string  `json:"text"`
	Score    float64 `json:"score"`
	Provider string  `json:"provider"`
}

// SentimentScore aggregates sentence-level sentiment around brand mentions.
type SentimentScore struct {
	Overall        float64            `json:"overall"`
	Label          SentimentLabel     `json:"label"`
	Confidence     float64            `json:"confidence"`
	ByProvider     map[string]float64 `json:"by_provider,omitempty"`
	PositiveCount  int                `json:"positive_count"`
	NeutralCount   int                `json:"neutral_count"`
	NegativeCount  int                `json:"negative_count"`
	TotalSentences int                `json:"total_sentences"`
	TopPositive    []SentimentExcerpt `json:"top_positive,omitempty"`
	TopNegative    []SentimentExcerpt `json:"top_negative,omitempty"`
}

// CompetitorScore is one brand's metrics in the head-to-head comparison.
type CompetitorScore struct {
	Name        string  `json:"name"`
	MentionRate float64 `json:"mention_rate"`
	Sentiment   float64 `json:"sentiment"`
	Mindshare   float64 `json:"mindshare"`
}

// CompetitorAnalysis ranks the target brand and its competitors by mindshare.
type CompetitorAnalysis struct {
	Competitors []CompetitorScore `json:"competitors,omitempty"`
	BrandRank   int               `json:"brand_rank"`
}

// RankPositionScore reports how often and how high the brand appears in
// responses that contain an explicit ranked list.
type RankPositionScore struct {
	TotalRankedResponses int                `json:"total_ranked_responses"`
	MentionInRankedLists int                `json:"mention_in_ranked_lists"`
	MentionCoverage      float64            `json:"mention_coverage"`
	AvgPosition          float64            `json:"avg_position"`
	MedianPosition       float64            `json:"median_position"`
	Top3Rate             float64            `json:"top3_rate"`
	WeightedVisibility   float64            `json:"weighted_visibility"`
	ByProvider           map[string]float64 `json:"by_provider,omitempty"`
}

// CitationSource is one cited domain with its total count and the providers
// that cited it.
type CitationSource struct {
	Source    string   `json:"source"`
	Count     int      `json:"count"`
	Providers []string `json:"providers"`
}

// CitationScore reports the URLs and sources cited across responses.
type CitationScore struct {
	TotalCitations     int              `json:"total_citations"`
	UniqueSourcesCited int              `json:"unique_sources_cited"`
	CitationRate       float64          `json:"citation_rate"`
	ByProvider         map[string]int   `json:"by_provider,omitempty"`
	TopSources         []CitationSource `json:"top_sources,omitempty"`
}

// AnalysisResult bundles every analyzer output for one run.
type AnalysisResult struct {
	RunID        string             `json:"run_id"`
	Brand        string             `json:"brand"`
	AnalyzedAt   string             `json:"analyzed_at"`
	MentionRate  MentionRateScore   `json:"mention_rate"`
	Mindshare    MindshareScore     `json:"mindshare"`
	Sentiment    SentimentScore     `json:"sentiment"`
	Competitors  CompetitorAnalysis `json:"competitor_analysis"`
	RankPosition RankPositionScore  `json:"rank_position"`
	Citations    CitationScore      `json:"citations"`
}
