package generator

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"
)

// Catalog groups the generated products by category. The layout matches
// the keyed-object form the file catalog source accepts.
type Catalog struct {
	Deposits []Record `json:"deposits"`
	Savings  []Record `json:"savings"`
	Loans    []Record `json:"loans"`
}

// Record is the on-disk shape of one generated product.
type Record struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	Provider string   `json:"provider"`
	Details  Details  `json:"details"`
	Conds    Conds    `json:"conditions"`
	Benefits []string `json:"benefits,omitempty"`
}

// Details carries the rate and amount block of a generated product.
type Details struct {
	InterestRate       float64    `json:"interest_rate"`
	MaxInterestRate    float64    `json:"max_interest_rate,omitempty"`
	MinimumAmount      int64      `json:"minimum_amount,omitempty"`
	MaximumAmount      int64      `json:"maximum_amount,omitempty"`
	SubscriptionPeriod string     `json:"subscription_period,omitempty"`
	MaturityPeriod     string     `json:"maturity_period,omitempty"`
	RateTiers          []RateTier `json:"rate_tiers,omitempty"`
}

// RateTier is one preferential-rate tier of a generated product.
type RateTier struct {
	Name     string  `json:"name"`
	BaseRate float64 `json:"base_rate"`
	MaxRate  float64 `json:"max_rate"`
}

// Conds describes who can join a generated product and how.
type Conds struct {
	JoinMember        string   `json:"join_member,omitempty"`
	JoinWay           []string `json:"join_way,omitempty"`
	SpecialConditions string   `json:"special_conditions,omitempty"`
}

// Generator produces a synthetic Korean product catalog.
type Generator struct {
	cfg  Config
	rand *rand.Rand
}

var (
	majorBanks   = []string{"국민은행", "신한은행", "하나은행", "우리은행", "NH농협은행"}
	digitalBanks = []string{"카카오뱅크", "케이뱅크", "토스뱅크"}
	otherBanks   = []string{"부산은행", "대구은행", "SC제일은행", "SBI저축은행", "웰컴저축은행"}

	brandPrefixes = []string{"주거래", "첫거래", "직장인", "프리미엄", "스마트", "그린", "청년", "마이", "올인원", "플러스"}

	depositSuffixes = []string{"정기예금", "e-정기예금", "회전예금"}
	savingsSuffixes = []string{"자유적금", "정기적금", "적금"}
	loanSuffixes    = []string{"신용대출", "마이너스통장", "직장인대출", "주택담보대출"}

	tierNames = []string{"급여이체 우대", "카드실적 우대", "비대면 가입 우대", "자동이체 우대"}

	benefitPool = []string{
		"비대면 가입 가능",
		"급여이체 시 우대금리 제공",
		"첫거래 고객 우대",
		"자동이체 등록 시 우대금리 제공",
		"만기 자동 재예치 지원",
		"중도해지 이율 우대",
	}

	joinWays = [][]string{
		{"영업점", "인터넷", "스마트폰"},
		{"스마트폰"},
		{"영업점", "스마트폰"},
	}

	joinMembers = []string{"실명의 개인", "만 17세 이상 개인", "만 19세 이상 개인"}

	periods = []string{"6개월", "12개월", "24개월", "36개월"}
)

// New returns a configured Generator instance.
func New(cfg Config) *Generator {
	def := DefaultConfig()
	if cfg.NumDeposits <= 0 {
		cfg.NumDeposits = def.NumDeposits
	}
	if cfg.NumSavings <= 0 {
		cfg.NumSavings = def.NumSavings
	}
	if cfg.NumLoans <= 0 {
		cfg.NumLoans = def.NumLoans
	}
	if cfg.TierChance <= 0 {
		cfg.TierChance = def.TierChance
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return &Generator{
		cfg:  cfg,
		rand: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Generate synthesises the product catalog. It respects context cancellation.
func (g *Generator) Generate(ctx context.Context) (Catalog, error) {
	var cat Catalog

	for i := 0; i < g.cfg.NumDeposits; i++ {
		if err := ctx.Err(); err != nil {
			return Catalog{}, err
		}
		cat.Deposits = append(cat.Deposits, g.deposit(i))
	}
	for i := 0; i < g.cfg.NumSavings; i++ {
		if err := ctx.Err(); err != nil {
			return Catalog{}, err
		}
		cat.Savings = append(cat.Savings, g.savings(i))
	}
	for i := 0; i < g.cfg.NumLoans; i++ {
		if err := ctx.Err(); err != nil {
			return Catalog{}, err
		}
		cat.Loans = append(cat.Loans, g.loan(i))
	}

	return cat, nil
}

func (g *Generator) deposit(i int) Record {
	provider := g.provider()
	rate := g.rate(2.6, 4.2)
	rec := Record{
		ID:       fmt.Sprintf("DEP-%04d", i+1),
		Name:     g.productName(provider, depositSuffixes),
		Type:     "정기예금",
		Provider: provider,
		Details: Details{
			InterestRate:       rate,
			MaxInterestRate:    g.round(rate + g.rand.Float64()*0.8),
			MinimumAmount:      int64(1+g.rand.Intn(10)) * 1_000_000,
			SubscriptionPeriod: periods[g.rand.Intn(len(periods))],
		},
		Conds:    g.conditions(),
		Benefits: g.benefits(),
	}
	g.maybeTiers(&rec)
	return rec
}

func (g *Generator) savings(i int) Record {
	provider := g.provider()
	rate := g.rate(3.0, 5.2)
	rec := Record{
		ID:       fmt.Sprintf("SAV-%04d", i+1),
		Name:     g.productName(provider, savingsSuffixes),
		Type:     "적금",
		Provider: provider,
		Details: Details{
			InterestRate:       rate,
			MaxInterestRate:    g.round(rate + g.rand.Float64()*1.5),
			MinimumAmount:      int64(1+g.rand.Intn(10)) * 10_000,
			MaximumAmount:      int64(30+g.rand.Intn(70)) * 100_000,
			SubscriptionPeriod: periods[g.rand.Intn(len(periods))],
		},
		Conds:    g.conditions(),
		Benefits: g.benefits(),
	}
	g.maybeTiers(&rec)
	return rec
}

func (g *Generator) loan(i int) Record {
	provider := g.provider()
	suffix := loanSuffixes[g.rand.Intn(len(loanSuffixes))]
	return Record{
		ID:       fmt.Sprintf("LON-%04d", i+1),
		Name:     g.productName(provider, []string{suffix}),
		Type:     suffix,
		Provider: provider,
		Details: Details{
			InterestRate:   g.rate(3.8, 7.5),
			MaximumAmount:  int64(5+g.rand.Intn(30)) * 10_000_000,
			MaturityPeriod: periods[g.rand.Intn(len(periods))],
		},
		Conds: Conds{
			JoinMember: "소득 증빙이 가능한 개인",
			JoinWay:    joinWays[g.rand.Intn(len(joinWays))],
		},
	}
}

func (g *Generator) productName(provider string, suffixes []string) string {
	brand := brandName(provider)
	prefix := brandPrefixes[g.rand.Intn(len(brandPrefixes))]
	suffix := suffixes[g.rand.Intn(len(suffixes))]
	return fmt.Sprintf("%s %s %s", brand, prefix, suffix)
}

// brandName shortens a bank name to its brand, e.g. 국민은행 to 국민.
func brandName(provider string) string {
	runes := []rune(provider)
	if len(runes) > 2 && string(runes[len(runes)-2:]) == "은행" {
		return string(runes[:len(runes)-2])
	}
	return provider
}

func (g *Generator) provider() string {
	switch g.rand.Intn(3) {
	case 0:
		return majorBanks[g.rand.Intn(len(majorBanks))]
	case 1:
		return digitalBanks[g.rand.Intn(len(digitalBanks))]
	default:
		return otherBanks[g.rand.Intn(len(otherBanks))]
	}
}

func (g *Generator) rate(min, max float64) float64 {
	return g.round(min + g.rand.Float64()*(max-min))
}

func (g *Generator) round(v float64) float64 {
	return math.Round(v*100) / 100
}

func (g *Generator) conditions() Conds {
	return Conds{
		JoinMember: joinMembers[g.rand.Intn(len(joinMembers))],
		JoinWay:    joinWays[g.rand.Intn(len(joinWays))],
	}
}

func (g *Generator) benefits() []string {
	n := g.rand.Intn(3)
	if n == 0 {
		return nil
	}
	picked := make([]string, 0, n)
	start := g.rand.Intn(len(benefitPool))
	for i := 0; i < n; i++ {
		picked = append(picked, benefitPool[(start+i)%len(benefitPool)])
	}
	return picked
}

func (g *Generator) maybeTiers(rec *Record) {
	if g.rand.Float64() >= g.cfg.TierChance {
		return
	}
	n := 1 + g.rand.Intn(2)
	for i := 0; i < n; i++ {
		base := rec.Details.InterestRate
		rec.Details.RateTiers = append(rec.Details.RateTiers, RateTier{
			Name:     tierNames[g.rand.Intn(len(tierNames))],
			BaseRate: base,
			MaxRate:  g.round(base + 0.1 + g.rand.Float64()*0.5),
		})
	}
}
