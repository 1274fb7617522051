package models

// SnapshotSchemaVersion versions the persisted snapshot layout so the trend
// index can skip records it does not understand.
const SnapshotSchemaVersion = "1.0.0"

// CompetitorRelative captures the brand's standing against the field at
// analysis time, for trend comparisons across runs.
type CompetitorRelative struct {
	BrandRank              int               `json:"brand_rank"`
	LeaderBrand            string            `json:"leader_brand"`
	LeaderMindshare        float64           `json:"leader_mindshare"`
	LeaderMentionRate      float64           `json:"leader_mention_rate"`
	MindshareGapToLeader   float64           `json:"mindshare_gap_to_leader"`
	MentionRateGapToLeader float64           `json:"mention_rate_gap_to_leader"`
	ShareOfVoiceTop5       float64           `json:"share_of_voice_top5"`
	TopCompetitors         []CompetitorScore `json:"top_competitors,omitempty"`
}

// AnalysisSnapshot is the compact, stable per-run artifact the trend index
// is built from (analysis/snapshot.json).
type AnalysisSnapshot struct {
	SchemaVersion         string             `json:"schema_version"`
	RunID                 string             `json:"run_id"`
	Brand                 string             `json:"brand"`
	AnalyzedAt            string             `json:"analyzed_at"`
	OverallScore          float64            `json:"overall_score"`
	MentionRate           float64            `json:"mention_rate"`
	Mindshare             float64            `json:"mindshare"`
	SentimentScore        float64            `json:"sentiment_score"`
	SentimentLabel        SentimentLabel     `json:"sentiment_label"`
	SentimentConfidence   float64            `json:"sentiment_confidence"`
	MindshareRank         int                `json:"mindshare_rank"`
	TotalBrandsDetected   int                `json:"total_brands_detected"`
	MentionRateByProvider map[string]float64 `json:"mention_rate_by_provider,omitempty"`
	MindshareByProvider   map[string]float64 `json:"mindshare_by_provider,omitempty"`
	SentimentByProvider   map[string]float64 `json:"sentiment_by_provider,omitempty"`
	CompetitorRelative    CompetitorRelative `json:"competitor_relative"`
}
