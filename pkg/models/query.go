package models

// QueryCategory classifies the shape of a generated query.
type QueryCategory string

const (
	CategoryRecommendation QueryCategory = "recommendation"
	CategoryComparison     QueryCategory = "comparison"
	CategoryBestOf         QueryCategory = "best-of"
	CategoryHowTo          QueryCategory = "how-to"
	CategoryReview         QueryCategory = "review"
	CategoryAlternative    QueryCategory = "alternative"
	CategoryGeneral        QueryCategory = "general"
)

// ValidCategories is the closed set a parser may assign; anything else falls
// back to CategoryGeneral.
var ValidCategories = map[QueryCategory]bool{
	CategoryRecommendation: true,
	CategoryComparison:     true,
	CategoryBestOf:         true,
	CategoryHowTo:          true,
	CategoryReview:         true,
	CategoryAlternative:    true,
	CategoryGeneral:        true,
}

// GeneratedQuery is one AI-crafted search query.
type GeneratedQuery struct {
	ID       string            `json:"id"`
	Text     string            `json:"text"`
	Category QueryCategory     `json:"category"`
	Strategy string            `json:"strategy"`
	Intent   string            `json:"intent"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// QuerySet is the complete generated query collection for one run.
type QuerySet struct {
	Brand       string           `json:"brand"`
	Queries     []GeneratedQuery `json:"queries"`
	GeneratedAt string           `json:"generated_at"`
	TotalCount  int              `json:"total_count"`
}
