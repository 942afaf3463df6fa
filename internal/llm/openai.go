package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/ming-ming2/finpick-backend/internal/config"
	"github.com/ming-ming2/finpick-backend/internal/domain"
)

const (
	relevanceSystemPrompt = `당신은 금융 서비스 질문 분류기입니다. 사용자의 질문이 금융 상품(예금, 적금, 대출, 투자)과 관련이 있는지 판단하세요.
Return ONLY valid JSON with keys: relevant (boolean), confidence (number 0-1), reason (string).`

	domainSystemPrompt = `당신은 금융 상품 분류기입니다. 사용자의 질문을 "deposit_savings"(예금/적금) 또는 "loan"(대출) 중 하나로 분류하세요.
Return ONLY valid JSON with keys: domain (string, one of "deposit_savings" or "loan"), confidence (number 0-1).`

	rankingSystemPrompt = `당신은 FinPick의 금융 상품 추천 전문가입니다. 사용자의 질문과 프로필을 바탕으로 후보 상품의 순위를 매기세요.
평가 기준: 목표 적합성, 금리 경쟁력, 은행 다양성, 가입 조건 접근성, 상품 유형 다양성.
각 선택에 후보 번호(index), 0-100 점수, 한국어 한 문장 추천 이유, 장점/유의사항 목록을 부여하세요. 목록에 없는 번호를 만들지 마세요.
Return ONLY valid JSON with keys: recommendations (array of {index, score, reason, strengths, considerations}), summary (string, Korean).`

	adviceSystemPrompt = `당신은 FinPick의 저축 플랜 코치입니다. 시뮬레이션 결과를 보고 한국어로 격려와 실행 조언을 작성하세요. 이모지를 한두 개 사용해 친근하게 쓰세요.
Return ONLY valid JSON with keys: main_comment (string), action_items (array of strings), motivation (string), confidence (number 0-1).`
)

// OpenAIClient talks to the OpenAI chat completions API. Every call runs
// under its own deadline; failures surface as ErrUnavailable and the caller
// is expected to degrade locally rather than retry.
type OpenAIClient struct {
	client  openai.Client
	model   string
	timeout time.Duration
	logger  *slog.Logger
}

// NewOpenAIClient builds a client from configuration.
func NewOpenAIClient(cfg config.LLMConfig, logger *slog.Logger) *OpenAIClient {
	return &OpenAIClient{
		client:  openai.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:   cfg.Model,
		timeout: cfg.Timeout,
		logger:  logger,
	}
}

// ClassifyRelevance asks the model whether the query concerns financial
// products at all.
func (c *OpenAIClient) ClassifyRelevance(ctx context.Context, query string) (RelevanceResult, error) {
	raw, err := c.complete(ctx, relevanceSystemPrompt, fmt.Sprintf("질문: %s", query))
	if err != nil {
		return RelevanceResult{}, err
	}

	var res RelevanceResult
	if err := decodeLenient(raw, &res); err != nil {
		return RelevanceResult{}, err
	}
	res.Confidence = clamp01(res.Confidence)
	return res, nil
}

// ClassifyDomain maps the query onto one of the two product domains.
func (c *OpenAIClient) ClassifyDomain(ctx context.Context, query string) (DomainResult, error) {
	raw, err := c.complete(ctx, domainSystemPrompt, fmt.Sprintf("질문: %s", query))
	if err != nil {
		return DomainResult{}, err
	}

	var res DomainResult
	if err := decodeLenient(raw, &res); err != nil {
		return DomainResult{}, err
	}
	res.Domain = c.sanitizeDomain(res.Domain)
	res.Confidence = clamp01(res.Confidence)
	return res, nil
}

// sanitizeDomain coerces labels outside the two-domain enum to the default.
func (c *OpenAIClient) sanitizeDomain(d domain.Domain) domain.Domain {
	if d == domain.DomainDepositSavings || d == domain.DomainLoan {
		return d
	}
	c.logger.Warn("model returned unknown domain label, substituting default",
		slog.String("label", string(d)),
		slog.String("default", string(domain.DefaultDomain)))
	return domain.DefaultDomain
}

// RankProducts asks the model to score and order candidate products for the
// user. Picks referencing unknown product IDs are filtered by the caller.
func (c *OpenAIClient) RankProducts(ctx context.Context, req RankingRequest) (RankingResult, error) {
	raw, err := c.complete(ctx, rankingSystemPrompt, buildRankingPrompt(req))
	if err != nil {
		return RankingResult{}, err
	}

	var res RankingResult
	if err := decodeLenient(raw, &res); err != nil {
		return RankingResult{}, err
	}
	for i := range res.Picks {
		if res.Picks[i].Score < 0 {
			res.Picks[i].Score = 0
		}
		if res.Picks[i].Score > 100 {
			res.Picks[i].Score = 100
		}
	}
	return res, nil
}

// SavingsAdvice asks the model to comment on a simulation outcome. Callers
// keep their rule-based advice as the fallback when this fails.
func (c *OpenAIClient) SavingsAdvice(ctx context.Context, req AdviceRequest) (AdviceResult, error) {
	raw, err := c.complete(ctx, adviceSystemPrompt, buildAdvicePrompt(req))
	if err != nil {
		return AdviceResult{}, err
	}

	var res AdviceResult
	if err := decodeLenient(raw, &res); err != nil {
		return AdviceResult{}, err
	}
	res.Confidence = clamp01(res.Confidence)
	return res, nil
}

func (c *OpenAIClient) complete(ctx context.Context, system, user string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature: openai.Float(0.2),
	})
	if err != nil {
		c.logger.Warn("openai call failed", slog.String("error", err.Error()))
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choices", ErrUnavailable)
	}
	return resp.Choices[0].Message.Content, nil
}

func buildRankingPrompt(req RankingRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "사용자 질문: %s\n\n", req.Query)
	fmt.Fprintf(&b, "사용자 프로필:\n")
	fmt.Fprintf(&b, "- 나이: %d세\n", req.Profile.Age)
	fmt.Fprintf(&b, "- 직업: %s\n", req.Profile.Occupation)
	fmt.Fprintf(&b, "- 월 소득: %d원\n", req.Profile.MonthlyIncome)
	fmt.Fprintf(&b, "- 월 지출: %d원\n", req.Profile.MonthlyExpense)
	fmt.Fprintf(&b, "- 신용점수: %d\n", req.Profile.CreditScore)
	if req.Profile.DebtAmount > 0 {
		fmt.Fprintf(&b, "- 부채: %d원\n", req.Profile.DebtAmount)
	}
	if req.Profile.AssetsAmount > 0 {
		fmt.Fprintf(&b, "- 보유 자산: %d원\n", req.Profile.AssetsAmount)
	}
	if req.Profile.RiskTolerance != "" {
		fmt.Fprintf(&b, "- 투자 성향: %s\n", req.Profile.RiskTolerance)
	}
	if req.Profile.InvestmentExperience != "" {
		fmt.Fprintf(&b, "- 투자 경험: %s\n", req.Profile.InvestmentExperience)
	}
	if req.Profile.PreferredPeriod != "" {
		fmt.Fprintf(&b, "- 선호 기간: %s\n", req.Profile.PreferredPeriod)
	}
	if req.Profile.PrimaryGoal != "" {
		fmt.Fprintf(&b, "- 재무 목표: %s\n", req.Profile.PrimaryGoal)
	}
	if req.Profile.TargetAmount > 0 {
		fmt.Fprintf(&b, "- 목표 금액: %d원\n", req.Profile.TargetAmount)
	}
	if req.Profile.Timeframe != "" {
		fmt.Fprintf(&b, "- 목표 기간: %s\n", req.Profile.Timeframe)
	}
	if req.Profile.MonthlyBudget > 0 {
		fmt.Fprintf(&b, "- 월 가용 예산: %d원\n", req.Profile.MonthlyBudget)
	}

	fmt.Fprintf(&b, "\n후보 상품 (%s):\n", req.Domain)
	for i, p := range req.Candidates {
		fmt.Fprintf(&b, "%d. %s | %s | %s | 금리 %.2f%%", i, p.Name, p.Provider, p.Type, p.InterestRate)
		if p.MaxInterestRate > p.InterestRate {
			fmt.Fprintf(&b, " (최고 %.2f%%)", p.MaxInterestRate)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\n상위 %d개 상품을 선택해 순위를 매기세요.", req.Limit)
	return b.String()
}

func buildAdvicePrompt(req AdviceRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "시나리오: %s\n", req.ScenarioTitle)
	fmt.Fprintf(&b, "목표 금액: %d원\n", req.TargetAmount)
	fmt.Fprintf(&b, "월 저축액: %d원\n", req.MonthlyAmount)
	fmt.Fprintf(&b, "저축 기간: %d년\n", req.TargetYears)
	fmt.Fprintf(&b, "예상 수익률: 연 %.1f%%\n", req.ExpectedReturn)
	fmt.Fprintf(&b, "예상 최종 금액: %d원\n", req.FinalAmount)
	fmt.Fprintf(&b, "목표 달성률: %.1f%%\n", req.AchievementRate)
	return b.String()
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
