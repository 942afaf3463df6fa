// Package pricing computes the personalized effective rate quoted for loan
// products. Margins are summed with decimal arithmetic so band boundaries
// land exactly where the rate policy says they do.
package pricing

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ming-ming2/finpick-backend/internal/catalog"
	"github.com/ming-ming2/finpick-backend/internal/domain"
)

var (
	baseLoanRate = decimal.NewFromFloat(3.5)
	minLoanRate  = decimal.NewFromFloat(2.0)
	maxLoanRate  = decimal.NewFromFloat(15.0)
)

var majorBanks = []string{"국민", "KB", "신한", "하나", "우리", "농협", "NH"}

var digitalBanks = []string{"카카오", "케이뱅크", "토스"}

// creditTiers maps score floors to risk margins, highest floor first.
var creditTiers = []struct {
	floor  int
	margin decimal.Decimal
}{
	{900, decimal.NewFromFloat(0.0)},
	{870, decimal.NewFromFloat(0.5)},
	{840, decimal.NewFromFloat(1.0)},
	{805, decimal.NewFromFloat(1.5)},
	{750, decimal.NewFromFloat(2.2)},
	{665, decimal.NewFromFloat(3.0)},
	{600, decimal.NewFromFloat(4.5)},
	{515, decimal.NewFromFloat(6.0)},
	{445, decimal.NewFromFloat(8.0)},
}

var bottomTierMargin = decimal.NewFromFloat(10.0)

// PersonalizedRate returns the rate quoted to this user for the product, in
// percent. Deposit and savings products keep their advertised rate; loans
// get the margin model applied.
func PersonalizedRate(p domain.Product, profile domain.NormalizedProfile) float64 {
	if !p.Type.IsLoan() {
		return catalog.ExtractRate(p)
	}

	rate := baseLoanRate.
		Add(providerMargin(p.Provider)).
		Add(productMargin(p.Name)).
		Add(CreditMargin(profile.CreditScore)).
		Sub(incomeDiscount(profile.MonthlyIncome))

	if rate.LessThan(minLoanRate) {
		rate = minLoanRate
	}
	if rate.GreaterThan(maxLoanRate) {
		rate = maxLoanRate
	}
	f, _ := rate.Float64()
	return f
}

// CreditMargin returns the risk margin for a credit score.
func CreditMargin(score int) decimal.Decimal {
	for _, tier := range creditTiers {
		if score >= tier.floor {
			return tier.margin
		}
	}
	return bottomTierMargin
}

func providerMargin(provider string) decimal.Decimal {
	for _, name := range majorBanks {
		if strings.Contains(provider, name) {
			return decimal.Zero
		}
	}
	for _, name := range digitalBanks {
		if strings.Contains(provider, name) {
			return decimal.NewFromFloat(-0.3)
		}
	}
	return decimal.NewFromFloat(0.5)
}

func productMargin(name string) decimal.Decimal {
	switch {
	case strings.Contains(name, "마이너스"):
		return decimal.NewFromFloat(1.0)
	case strings.Contains(name, "카드"):
		return decimal.NewFromFloat(0.3)
	}
	return decimal.Zero
}

func incomeDiscount(monthlyIncome int64) decimal.Decimal {
	switch {
	case monthlyIncome >= 8_000_000:
		return decimal.NewFromFloat(0.5)
	case monthlyIncome >= 5_000_000:
		return decimal.NewFromFloat(0.3)
	case monthlyIncome >= 3_000_000:
		return decimal.NewFromFloat(0.1)
	}
	return decimal.Zero
}
