package recommend

import (
	"fmt"
	"strings"

	"github.com/ming-ming2/finpick-backend/internal/catalog"
	"github.com/ming-ming2/finpick-backend/internal/domain"
)

const (
	fallbackBaseScore = 85
	fallbackScoreStep = 3
	maxRateBonus      = 10
	majorBankBonus    = 3
)

var majorProviders = []string{"국민", "KB", "신한", "하나", "우리", "농협"}

func isMajorProvider(provider string) bool {
	for _, name := range majorProviders {
		if strings.Contains(provider, name) {
			return true
		}
	}
	return false
}

// fallbackRank is the deterministic ranker used when the external ranker
// fails or returns nothing usable. Provider diversity comes first: one
// candidate per provider in catalog order, then backfill from the rest.
// Scores decrease with selection order and carry bounded bonuses.
func fallbackRank(profile domain.NormalizedProfile, d domain.Domain, candidates []domain.Product, limit int) []domain.Recommendation {
	if len(candidates) == 0 || limit <= 0 {
		return nil
	}

	selected := make([]domain.Product, 0, limit)
	seenProvider := make(map[string]bool)
	picked := make(map[string]bool)

	for _, p := range candidates {
		if len(selected) >= limit {
			break
		}
		if seenProvider[p.Provider] {
			continue
		}
		seenProvider[p.Provider] = true
		picked[p.ID] = true
		selected = append(selected, p)
	}
	for _, p := range candidates {
		if len(selected) >= limit {
			break
		}
		if picked[p.ID] {
			continue
		}
		picked[p.ID] = true
		selected = append(selected, p)
	}

	recs := make([]domain.Recommendation, 0, len(selected))
	for i, p := range selected {
		score := fallbackBaseScore - i*fallbackScoreStep
		rate := catalog.ExtractRate(p)
		score += rateBonus(rate, d)

		reasons := []string{"조건 적합성 기반 추천"}
		if isMajorProvider(p.Provider) {
			score += majorBankBonus
			reasons = append(reasons, "주요 은행의 안정적인 상품")
		}
		if rate > 0 {
			if d == domain.DomainLoan {
				reasons = append(reasons, fmt.Sprintf("금리 연 %.2f%%", rate))
			} else {
				reasons = append(reasons, fmt.Sprintf("금리 연 %.2f%%의 경쟁력", rate))
			}
		}

		recs = append(recs, buildCandidate(p, clampScore(score), reasons, nil, nil, profile))
	}
	return recs
}

// rateBonus rewards rate competitiveness, direction depending on domain:
// savers want high rates, borrowers want low ones.
func rateBonus(rate float64, d domain.Domain) int {
	if rate <= 0 {
		return 0
	}
	var bonus float64
	if d == domain.DomainLoan {
		bonus = maxRateBonus - rate
	} else {
		bonus = rate * 2
	}
	if bonus < 0 {
		bonus = 0
	}
	if bonus > maxRateBonus {
		bonus = maxRateBonus
	}
	return int(bonus)
}

// buildCandidate fills the profile-derived fields shared by both ranking
// paths: compatibility labels, recommended contribution and the quoted rate.
func buildCandidate(p domain.Product, score int, reasons, strengths, considerations []string, profile domain.NormalizedProfile) domain.Recommendation {
	return domain.Recommendation{
		Product:            p,
		Score:              score,
		Reasons:            reasons,
		Strengths:          strengths,
		Considerations:     considerations,
		RiskCompatibility:  riskCompatibility(p.Type, profile.RiskTolerance),
		AgeAppropriateness: ageAppropriateness(p.Type, profile.Age),
		RecommendedMonthly: recommendedMonthly(p, profile),
	}
}

// Product risk buckets: deposits and savings are low, mortgages low-medium,
// credit loans medium, investment products high.
func productRiskBucket(t domain.ProductType) int {
	switch t {
	case domain.ProductTypeInvestment, domain.ProductTypeFund:
		return 3
	case domain.ProductTypeCreditLoan:
		return 2
	default:
		return 1
	}
}

func userRiskBucket(tolerance string) int {
	s := strings.ToLower(tolerance)
	switch {
	case strings.Contains(s, "공격"), strings.Contains(s, "aggressive"), s == "4", s == "5":
		return 3
	case strings.Contains(s, "안정"), strings.Contains(s, "보수"), strings.Contains(s, "conservative"), s == "1", s == "2":
		return 1
	default:
		return 2
	}
}

func riskCompatibility(t domain.ProductType, tolerance string) string {
	delta := productRiskBucket(t) - userRiskBucket(tolerance)
	switch {
	case delta < 0:
		return domain.LabelVerySuitable
	case delta == 0:
		return domain.LabelSuitable
	case delta == 1:
		return domain.LabelCaution
	default:
		return domain.LabelUnsuitable
	}
}

// ageAppropriateness applies coarse age-band heuristics: twenties favor
// savings for fund-building and should be wary of mortgages; fifties and up
// favor safe deposits and should be wary of new debt.
func ageAppropriateness(t domain.ProductType, age int) string {
	switch {
	case age < 30:
		switch t {
		case domain.ProductTypeSavings:
			return domain.LabelVerySuitable
		case domain.ProductTypeMortgageLoan:
			return domain.LabelCaution
		}
	case age >= 50:
		switch t {
		case domain.ProductTypeDeposit:
			return domain.LabelVerySuitable
		case domain.ProductTypeCreditLoan, domain.ProductTypeMortgageLoan:
			return domain.LabelCaution
		}
	}
	return domain.LabelSuitable
}

// recommendedMonthly derives a suggested contribution from the product's
// minimum amount floor scaled by occupation and age, clamped to a fixed
// band. Loans have no contribution concept.
func recommendedMonthly(p domain.Product, profile domain.NormalizedProfile) int64 {
	if p.Type.IsLoan() {
		return 0
	}

	base := p.MinAmount
	if base < 100_000 {
		base = 100_000
	}

	amount := float64(base) * occupationMultiplier(profile.Occupation) * ageMultiplier(profile.Age)
	switch {
	case amount < 100_000:
		return 100_000
	case amount > 5_000_000:
		return 5_000_000
	}
	return int64(amount)
}

func occupationMultiplier(occupation string) float64 {
	switch {
	case strings.Contains(occupation, "학생"):
		return 0.5
	case strings.Contains(occupation, "직장"), strings.Contains(occupation, "공무원"):
		return 1.2
	default:
		return 1.0
	}
}

func ageMultiplier(age int) float64 {
	switch {
	case age < 30:
		return 0.8
	case age < 50:
		return 1.2
	default:
		return 1.0
	}
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
