package simulation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/ming-ming2/finpick-backend/internal/domain"
	"github.com/ming-ming2/finpick-backend/internal/llm"
)

// referenceRate is the assumed annual return used for advice and plan
// optimization when no explicit rate is in play.
const referenceRate = 4.2

var (
	ErrUnknownScenario = errors.New("simulation: unknown scenario")
	ErrInvalidInput    = errors.New("simulation: invalid input")
)

// CalculateInput are the raw simulator parameters from the client.
type CalculateInput struct {
	ScenarioID     string  `json:"scenario_id"`
	MonthlyAmount  int64   `json:"monthly_amount"`
	TargetYears    int     `json:"target_years"`
	ExpectedReturn float64 `json:"expected_return"`
}

// Calculation summarises the principal/interest split of a projection.
type Calculation struct {
	FinalAmount         int64   `json:"final_amount"`
	TotalPrincipal      int64   `json:"total_principal"`
	TotalInterest       int64   `json:"total_interest"`
	EffectiveReturnRate float64 `json:"effective_return_rate"`
}

// Achievement describes how the projection compares to the scenario target.
type Achievement struct {
	Rate      float64 `json:"rate"`
	Shortfall int64   `json:"shortfall"`
	Surplus   int64   `json:"surplus"`
	Status    string  `json:"status"`
}

// Advice is the banded guidance attached to a result.
type Advice struct {
	Source      string   `json:"source"`
	MainComment string   `json:"main_comment"`
	ActionItems []string `json:"action_items"`
	Motivation  string   `json:"motivation"`
	Confidence  float64  `json:"confidence"`
}

// Result is the full simulator response.
type Result struct {
	Scenario        domain.ScenarioTemplate  `json:"scenario"`
	Calculation     Calculation              `json:"calculation"`
	ChartData       []domain.SimulationPoint `json:"chart_data"`
	Advice          Advice                   `json:"advice"`
	Achievement     Achievement              `json:"achievement_status"`
	Recommendations []string                 `json:"recommendations"`
}

// Optimization is one proposed plan adjustment.
type Optimization struct {
	Type            string  `json:"type"`
	MonthlyAmount   int64   `json:"monthly_amount,omitempty"`
	RequiredYears   float64 `json:"required_years,omitempty"`
	RequiredMonthly int64   `json:"required_monthly,omitempty"`
	TargetYears     int     `json:"target_years,omitempty"`
	Description     string  `json:"description"`
}

// OptimizeInput are the optional knobs of a plan optimization request.
type OptimizeInput struct {
	ScenarioID       string `json:"scenario_id"`
	TargetAmount     int64  `json:"target_amount,omitempty"`
	AvailableMonthly int64  `json:"available_monthly,omitempty"`
	TargetYears      int    `json:"target_years,omitempty"`
}

// OptimizeResult groups the optimization proposals for a scenario.
type OptimizeResult struct {
	Scenario        domain.ScenarioTemplate `json:"scenario"`
	Optimizations   []Optimization          `json:"optimizations"`
	Recommendations []string                `json:"recommendations"`
}

// Advisor generates personalized guidance for a simulation outcome. A nil
// advisor or a failed call falls back to the banded rule tables.
type Advisor interface {
	SavingsAdvice(ctx context.Context, req llm.AdviceRequest) (llm.AdviceResult, error)
}

// Service runs simulations against the scenario catalog.
type Service struct {
	logger  *slog.Logger
	advisor Advisor
}

// NewService constructs the simulator service. advisor may be nil.
func NewService(logger *slog.Logger, advisor Advisor) *Service {
	return &Service{logger: logger, advisor: advisor}
}

// Calculate validates the input, runs the projection and attaches advice.
func (s *Service) Calculate(ctx context.Context, in CalculateInput) (Result, error) {
	scenario, ok := ScenarioByID(in.ScenarioID)
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownScenario, in.ScenarioID)
	}
	if err := validateInput(in); err != nil {
		return Result{}, err
	}

	chart := MonthlyCompound(in.MonthlyAmount, in.TargetYears, in.ExpectedReturn)
	finalAmount := chart[len(chart)-1].Amount
	totalPrincipal := in.MonthlyAmount * int64(in.TargetYears) * 12

	achievementRate := float64(finalAmount) / float64(scenario.TargetAmount) * 100
	shortfall := scenario.TargetAmount - finalAmount
	if shortfall < 0 {
		shortfall = 0
	}
	surplus := finalAmount - scenario.TargetAmount
	if surplus < 0 {
		surplus = 0
	}

	status := "needs_adjustment"
	if achievementRate >= 100 {
		status = "achieved"
	}

	s.logger.Debug("simulation calculated",
		slog.String("scenario", in.ScenarioID),
		slog.Int64("final_amount", finalAmount),
		slog.Float64("achievement_rate", achievementRate),
	)

	return Result{
		Scenario: scenario,
		Calculation: Calculation{
			FinalAmount:         finalAmount,
			TotalPrincipal:      totalPrincipal,
			TotalInterest:       finalAmount - totalPrincipal,
			EffectiveReturnRate: (float64(finalAmount)/float64(totalPrincipal) - 1) * 100,
		},
		ChartData: chart,
		Advice:    s.advice(ctx, scenario, in, finalAmount, achievementRate, shortfall),
		Achievement: Achievement{
			Rate:      math.Round(achievementRate*10) / 10,
			Shortfall: shortfall,
			Surplus:   surplus,
			Status:    status,
		},
		Recommendations: buildRecommendations(scenario, achievementRate),
	}, nil
}

// Optimize proposes plan adjustments for a scenario: how long a given
// monthly deposit takes, and what deposit a given term demands.
func (s *Service) Optimize(in OptimizeInput) (OptimizeResult, error) {
	scenario, ok := ScenarioByID(in.ScenarioID)
	if !ok {
		return OptimizeResult{}, fmt.Errorf("%w: %q", ErrUnknownScenario, in.ScenarioID)
	}

	target := in.TargetAmount
	if target <= 0 {
		target = scenario.TargetAmount
	}

	var optimizations []Optimization
	if in.AvailableMonthly > 0 {
		years := RequiredYears(target, in.AvailableMonthly, referenceRate)
		optimizations = append(optimizations, Optimization{
			Type:          "time_optimization",
			MonthlyAmount: in.AvailableMonthly,
			RequiredYears: years,
			Description:   fmt.Sprintf("월 %s원으로 %.1f년 후 달성 가능", formatWon(in.AvailableMonthly), years),
		})
	}
	if in.TargetYears > 0 {
		monthly := RequiredMonthly(target, in.TargetYears, referenceRate)
		optimizations = append(optimizations, Optimization{
			Type:            "amount_optimization",
			RequiredMonthly: monthly,
			TargetYears:     in.TargetYears,
			Description:     fmt.Sprintf("%d년 안에 달성하려면 월 %s원 필요", in.TargetYears, formatWon(monthly)),
		})
	}

	return OptimizeResult{
		Scenario:        scenario,
		Optimizations:   optimizations,
		Recommendations: optimizationTips(target),
	}, nil
}

func validateInput(in CalculateInput) error {
	if in.MonthlyAmount < 50_000 || in.MonthlyAmount > 5_000_000 {
		return fmt.Errorf("%w: monthly_amount must be between 50000 and 5000000", ErrInvalidInput)
	}
	if in.TargetYears < 1 || in.TargetYears > 30 {
		return fmt.Errorf("%w: target_years must be between 1 and 30", ErrInvalidInput)
	}
	if in.ExpectedReturn < 0.1 || in.ExpectedReturn > 15.0 {
		return fmt.Errorf("%w: expected_return must be between 0.1 and 15.0", ErrInvalidInput)
	}
	return nil
}

// advice prefers the external advisor; any failure or empty reply drops to
// the rule tables.
func (s *Service) advice(ctx context.Context, scenario domain.ScenarioTemplate, in CalculateInput, finalAmount int64, achievementRate float64, shortfall int64) Advice {
	if s.advisor != nil {
		res, err := s.advisor.SavingsAdvice(ctx, llm.AdviceRequest{
			ScenarioTitle:   scenario.Title,
			TargetAmount:    scenario.TargetAmount,
			MonthlyAmount:   in.MonthlyAmount,
			TargetYears:     in.TargetYears,
			ExpectedReturn:  in.ExpectedReturn,
			FinalAmount:     finalAmount,
			AchievementRate: achievementRate,
		})
		if err == nil && res.MainComment != "" {
			return Advice{
				Source:      "ai",
				MainComment: res.MainComment,
				ActionItems: res.ActionItems,
				Motivation:  res.Motivation,
				Confidence:  res.Confidence,
			}
		}
		if err != nil {
			s.logger.Warn("advice model unavailable, using rule-based advice",
				slog.String("scenario", scenario.ID),
				slog.String("error", err.Error()))
		}
	}
	return buildAdvice(scenario, in, achievementRate, shortfall)
}

func buildAdvice(scenario domain.ScenarioTemplate, in CalculateInput, achievementRate float64, shortfall int64) Advice {
	switch {
	case achievementRate >= 100:
		return Advice{
			Source:      "rule_based",
			MainComment: fmt.Sprintf("🎉 목표 달성! %.0f%% 달성으로 여유있게 성공해요!", achievementRate),
			ActionItems: []string{"현재 계획 유지하기", "추가 목표 설정 고려"},
			Motivation:  "완벽한 계획이에요! 🚀",
			Confidence:  1.0,
		}
	case achievementRate >= 90:
		needMore := RequiredMonthly(shortfall, in.TargetYears, referenceRate)
		return Advice{
			Source:      "rule_based",
			MainComment: fmt.Sprintf("⚡ 거의 다 왔어요! 월 %s원만 더 저축하면 목표 달성!", formatWon(needMore)),
			ActionItems: []string{
				fmt.Sprintf("월 저축 %s원 증액", formatWon(needMore)),
				"부업이나 투잡 고려",
			},
			Motivation: "조금만 더 힘내면 성공!",
			Confidence: 0.9,
		}
	case achievementRate >= 70:
		extraYears := RequiredYears(scenario.TargetAmount, in.MonthlyAmount, referenceRate) - float64(in.TargetYears)
		return Advice{
			Source:      "rule_based",
			MainComment: fmt.Sprintf("💪 현재 패턴으로는 %.1f년 더 필요해요. 월 저축을 늘리거나 기간을 조정해보세요!", extraYears),
			ActionItems: []string{
				fmt.Sprintf("기간을 %.1f년 연장하거나", extraYears),
				"월 저축액 20% 증액 고려",
			},
			Motivation: "조금씩 조정하면 달성 가능해요!",
			Confidence: 0.7,
		}
	default:
		realisticTarget := int64(float64(scenario.TargetAmount) * 0.7)
		return Advice{
			Source:      "rule_based",
			MainComment: fmt.Sprintf("🎯 목표가 조금 높아요. %s원 정도로 조정하는 건 어떨까요?", formatWon(realisticTarget)),
			ActionItems: []string{"목표 금액 현실적으로 조정", "저축 기간 늘리기"},
			Motivation:  "현실적인 목표로 시작해봐요!",
			Confidence:  0.6,
		}
	}
}

func buildRecommendations(scenario domain.ScenarioTemplate, achievementRate float64) []string {
	var recs []string
	switch {
	case achievementRate >= 100:
		recs = append(recs,
			"현재 계획이 완벽합니다! 꾸준히 실행하세요",
			"여유 자금으로 추가 투자를 고려해보세요",
			"리스크를 줄이고 안정성을 높이는 것도 좋습니다",
		)
	case achievementRate >= 80:
		recs = append(recs,
			"조금만 더! 월 저축액을 10-20% 늘려보세요",
			"기간을 1-2년 연장하는 것도 방법입니다",
			"부업이나 투잡을 고려해보세요",
		)
	default:
		recs = append(recs,
			"목표를 더 현실적으로 조정해보세요",
			"저축 기간을 충분히 확보하세요",
			"수익률이 높은 상품을 찾아보세요",
		)
	}

	switch scenario.ID {
	case "house":
		recs = append(recs, "주택청약이나 정부 지원 제도도 알아보세요")
	case "retire":
		recs = append(recs, "개인연금이나 퇴직연금 활용을 고려하세요")
	case "baby":
		recs = append(recs, "교육비 전용 적금 상품을 찾아보세요")
	}
	return recs
}

func optimizationTips(target int64) []string {
	tips := []string{
		"수익률을 0.5%만 높여도 큰 차이가 납니다",
		"세제혜택이 있는 상품을 우선 고려하세요",
		"목표 달성 후에도 계속 저축하는 습관을 만드세요",
	}
	if target >= 500_000_000 {
		tips = append(tips, "큰 목표는 단계별로 나누어 달성하세요")
	}
	return tips
}

// formatWon renders an amount with thousands separators.
func formatWon(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	return string(out)
}
