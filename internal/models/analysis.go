package models

type FindingCategory string

const (
	CategoryConstruction    FindingCategory = "Construction"
	CategoryCorrelation     FindingCategory = "Correlation"
	CategoryGameEnvironment FindingCategory = "Game Environment"
	CategoryWeather         FindingCategory = "Weather"
	CategoryQuality         FindingCategory = "Quality"
)

// FindingCategories is the presentation order of categories.
var FindingCategories = []FindingCategory{
	CategoryConstruction,
	CategoryCorrelation,
	CategoryGameEnvironment,
	CategoryWeather,
	CategoryQuality,
}

// Finding is one observation about a lineup. Positive weights are
// strengths, negative weights are issues.
type Finding struct {
	RuleID   string          `json:"rule_id"`
	Category FindingCategory `json:"category"`
	Weight   float64         `json:"weight"`
	Title    string          `json:"title"`
	Detail   string          `json:"detail"`
}

func (f Finding) IsStrength() bool {
	return f.Weight > 0
}

type LineupAnalysis struct {
	Findings  []Finding `json:"findings"`
	Score     float64   `json:"score"`
	Strengths int       `json:"strengths"`
	Issues    int       `json:"issues"`
}

// ByCategory groups findings for display.
func (a LineupAnalysis) ByCategory() map[FindingCategory][]Finding {
	grouped := make(map[FindingCategory][]Finding)
	for _, f := range a.Findings {
		grouped[f.Category] = append(grouped[f.Category], f)
	}
	return grouped
}
