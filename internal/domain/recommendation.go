package domain

// Recommendation is one ranked pick returned to the client. Score is an
// integer in [0,100]; PersonalizedRate is the rate quoted for this user,
// which for loan products differs from the product's published rate.
type Recommendation struct {
	Product            Product
	Score              int
	Reasons            []string
	Strengths          []string
	Considerations     []string
	RiskCompatibility  string
	AgeAppropriateness string
	RecommendedMonthly int64
	PersonalizedRate   float64
}

// Compatibility labels used for both risk and age assessments.
const (
	LabelVerySuitable = "매우 적합"
	LabelSuitable     = "적합"
	LabelCaution      = "주의 필요"
	LabelUnsuitable   = "부적합"
)

// RecommendationResult is the full outcome of one recommendation request.
type RecommendationResult struct {
	Relevant        bool
	FallbackMessage string
	Domain          Domain
	Confidence      float64
	Recommendations []Recommendation
	Summary         string
	Fallback        bool
}
