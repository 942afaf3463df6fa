package recommend

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ming-ming2/finpick-backend/internal/domain"
)

// Defaults applied when profile fields are missing or unparseable. The
// normalizer is the single place client-shape drift is absorbed; everything
// downstream works on a fully populated profile.
const (
	defaultAge            = 30
	defaultMonthlyIncome  = 3_000_000
	defaultMonthlyExpense = 2_000_000
	defaultCreditScore    = 650
)

var (
	decadePattern = regexp.MustCompile(`(\d{1,2})\s*대`)
	numberPattern = regexp.MustCompile(`\d+`)
	rangePattern  = regexp.MustCompile(`(\d+)\s*[-~]\s*(\d+)`)
)

// NormalizeProfile converts a raw, possibly nil or partial client profile
// into the canonical numeric shape. It never fails; every missing or
// malformed answer resolves to a documented default.
func NormalizeProfile(raw *domain.UserProfile) domain.NormalizedProfile {
	p := domain.NormalizedProfile{
		Age:            defaultAge,
		MonthlyIncome:  defaultMonthlyIncome,
		MonthlyExpense: defaultMonthlyExpense,
		CreditScore:    defaultCreditScore,
	}
	if raw == nil {
		return p
	}

	if bi := raw.BasicInfo; bi != nil {
		p.Age = parseAge(bi.Age)
		p.Occupation = strings.TrimSpace(bi.Occupation)
		p.Residence = strings.TrimSpace(bi.ResidenceArea)
		p.MaritalStatus = strings.TrimSpace(bi.MaritalStatus)
	}
	if fs := raw.FinancialSituation; fs != nil {
		p.MonthlyIncome = parseAmount(fs.MonthlyIncome, defaultMonthlyIncome)
		p.MonthlyExpense = parseAmount(fs.MonthlyExpense, defaultMonthlyExpense)
		p.DebtAmount = parseAmount(fs.ExistingDebt, 0)
		p.AssetsAmount = parseAmount(fs.ExistingAssets, 0)
		p.CreditScore = parseCreditScore(fs.CreditScore)
	}
	if ip := raw.InvestmentPersonality; ip != nil {
		p.RiskTolerance = strings.TrimSpace(ip.RiskTolerance)
		p.InvestmentExperience = strings.TrimSpace(ip.InvestmentExperience)
		p.PreferredPeriod = strings.TrimSpace(ip.PreferredPeriod)
	}
	if gs := raw.GoalSetting; gs != nil {
		p.PrimaryGoal = strings.TrimSpace(gs.PrimaryGoal)
		p.TargetAmount = parseAmount(gs.TargetAmount, 0)
		p.Timeframe = strings.TrimSpace(gs.TargetPeriod)
		p.MonthlyBudget = parseAmount(gs.MonthlyBudget, 0)
	}
	return p
}

// parseAge handles survey answers like "30대", "만 34세" and bare numbers.
// Decade answers resolve to the representative mid-decade age.
func parseAge(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultAge
	}

	if m := decadePattern.FindStringSubmatch(s); m != nil {
		decade, err := strconv.Atoi(m[1])
		if err == nil && decade >= 10 && decade <= 90 {
			return decade + 5
		}
	}

	if m := numberPattern.FindString(s); m != "" {
		age, err := strconv.Atoi(m)
		if err == nil && age >= 15 && age <= 100 {
			return age
		}
	}
	return defaultAge
}

// parseAmount handles won amounts written as bare numbers ("3000000"),
// 만원 and 억 units ("300만원", "3억"), and ranges ("300-400만원",
// resolved to the midpoint).
func parseAmount(s string, fallback int64) int64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return fallback
	}

	unit := int64(1)
	switch {
	case strings.Contains(s, "억"):
		unit = 100_000_000
	case strings.Contains(s, "만"):
		unit = 10_000
	}

	if m := rangePattern.FindStringSubmatch(s); m != nil {
		lo, err1 := strconv.ParseInt(m[1], 10, 64)
		hi, err2 := strconv.ParseInt(m[2], 10, 64)
		if err1 == nil && err2 == nil && hi >= lo {
			// Scale before halving so odd sums keep sub-unit precision.
			return (lo + hi) * unit / 2
		}
	}

	if m := numberPattern.FindString(s); m != "" {
		n, err := strconv.ParseInt(m, 10, 64)
		if err == nil && n > 0 {
			return n * unit
		}
	}
	return fallback
}

func parseCreditScore(s string) int {
	if m := numberPattern.FindString(s); m != "" {
		score, err := strconv.Atoi(m)
		if err == nil && score >= 0 && score <= 1000 {
			return score
		}
	}
	return defaultCreditScore
}
