package domain

// SimulationPoint is one sampled month of a compound growth curve.
type SimulationPoint struct {
	Year       float64 `json:"year"`
	Amount     int64   `json:"amount"`
	Principal  int64   `json:"principal"`
	Interest   int64   `json:"interest"`
	Cumulative float64 `json:"cumulative_interest_rate"`
}

// ScenarioTemplate is a canned life-goal savings preset.
type ScenarioTemplate struct {
	ID                 string `json:"id"`
	Emoji              string `json:"emoji"`
	Title              string `json:"title"`
	Description        string `json:"description"`
	TargetAmount       int64  `json:"target_amount"`
	RecommendedMonthly int64  `json:"recommended_monthly"`
	TypicalTimeframe   int    `json:"typical_timeframe"`
	RiskLevel          string `json:"risk_level"`
	Category           string `json:"category"`
}
