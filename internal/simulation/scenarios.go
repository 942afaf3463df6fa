package simulation

import "github.com/ming-ming2/finpick-backend/internal/domain"

var scenarioTemplates = map[string]domain.ScenarioTemplate{
	"house": {
		ID:                 "house",
		Emoji:              "🏠",
		Title:              "집사기",
		Description:        "3억모으기",
		TargetAmount:       300_000_000,
		RecommendedMonthly: 800_000,
		TypicalTimeframe:   8,
		RiskLevel:          "conservative",
		Category:           "real_estate",
	},
	"retire": {
		ID:                 "retire",
		Emoji:              "💼",
		Title:              "은퇴준비",
		Description:        "10억모으기",
		TargetAmount:       1_000_000_000,
		RecommendedMonthly: 1_500_000,
		TypicalTimeframe:   15,
		RiskLevel:          "moderate",
		Category:           "retirement",
	},
	"baby": {
		ID:                 "baby",
		Emoji:              "👶",
		Title:              "육아",
		Description:        "5천만",
		TargetAmount:       50_000_000,
		RecommendedMonthly: 300_000,
		TypicalTimeframe:   5,
		RiskLevel:          "conservative",
		Category:           "education",
	},
}

// scenarioOrder keeps listing output stable.
var scenarioOrder = []string{"house", "retire", "baby"}

// Scenarios returns the scenario catalog in its canonical order.
func Scenarios() []domain.ScenarioTemplate {
	out := make([]domain.ScenarioTemplate, 0, len(scenarioOrder))
	for _, id := range scenarioOrder {
		out = append(out, scenarioTemplates[id])
	}
	return out
}

// ScenarioByID looks up one scenario template.
func ScenarioByID(id string) (domain.ScenarioTemplate, bool) {
	s, ok := scenarioTemplates[id]
	return s, ok
}
