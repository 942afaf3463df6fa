package domain

import "strings"

// Domain is the coarse product bucket used to narrow candidates before
// scoring. The classification is deliberately two-way; finer schemes from
// earlier iterations of the recommendation model collapsed into it.
type Domain string

const (
	DomainDepositSavings Domain = "deposit_savings"
	DomainLoan           Domain = "loan"
)

// DefaultDomain is substituted when a classifier returns an unknown label.
const DefaultDomain = DomainDepositSavings

// ProductType is the closed enumeration of catalog product categories.
type ProductType string

const (
	ProductTypeDeposit      ProductType = "deposit"
	ProductTypeSavings      ProductType = "savings"
	ProductTypeCreditLoan   ProductType = "credit_loan"
	ProductTypeMortgageLoan ProductType = "mortgage_loan"
	ProductTypeInvestment   ProductType = "investment"
	ProductTypeFund         ProductType = "fund"
	ProductTypeUnknown      ProductType = "unknown"
)

// NormalizeProductType maps free-text catalog type strings (Korean product
// labels, English synonyms, compounds like "정기예금") onto the closed set.
// Order matters: savings before deposit so "적금" never lands on deposit,
// and mortgage before credit so "주택담보대출" is not treated as credit.
func NormalizeProductType(raw string) ProductType {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ProductTypeUnknown
	}

	switch {
	case containsAny(s, "주택담보", "담보대출", "전세", "모기지", "mortgage"):
		return ProductTypeMortgageLoan
	case containsAny(s, "신용대출", "마이너스", "개인대출", "대출", "융자", "loan"):
		return ProductTypeCreditLoan
	case containsAny(s, "적금", "저축", "savings"):
		return ProductTypeSavings
	case containsAny(s, "예금", "deposit"):
		return ProductTypeDeposit
	case containsAny(s, "펀드", "fund"):
		return ProductTypeFund
	case containsAny(s, "투자", "els", "dls", "isa", "리츠", "investment"):
		return ProductTypeInvestment
	}
	return ProductTypeUnknown
}

// IsLoan reports whether the type belongs to the loan domain.
func (t ProductType) IsLoan() bool {
	return t == ProductTypeCreditLoan || t == ProductTypeMortgageLoan
}

// Domain returns the coarse bucket a product type belongs to.
func (t ProductType) Domain() Domain {
	if t.IsLoan() {
		return DomainLoan
	}
	return DomainDepositSavings
}

// RateTier is one entry of a tiered rate table published for a product.
// Source data populates these inconsistently; either sub-rate may be zero.
type RateTier struct {
	Name     string
	BaseRate float64
	MaxRate  float64
}

// JoinConditions captures eligibility and channel information.
type JoinConditions struct {
	Member            string
	Ways              []string
	SpecialConditions string
}

// Product is one catalog entry. Products are immutable once loaded and are
// owned exclusively by the catalog for the process lifetime.
type Product struct {
	ID                 string
	Name               string
	Type               ProductType
	RawType            string
	Provider           string
	InterestRate       float64
	MaxInterestRate    float64
	RateTiers          []RateTier
	MinAmount          int64
	MaxAmount          int64
	SubscriptionPeriod string
	MaturityPeriod     string
	Conditions         JoinConditions
	Benefits           []string
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
