package models

// BrandProfile is the researched profile of the target brand, built once by
// the research stage and consumed by query generation and analysis.
type BrandProfile struct {
	Name                string   `json:"name"`
	Website             string   `json:"website,omitempty"`
	Description         string   `json:"description"`
	Industry            string   `json:"industry"`
	Category            string   `json:"category"`
	Competitors         []string `json:"competitors"`
	Keywords            []string `json:"keywords"`
	UniqueSellingPoints []string `json:"unique_selling_points"`
	TargetAudience      []string `json:"target_audience"`
}
