package recommend

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ming-ming2/finpick-backend/internal/catalog"
	"github.com/ming-ming2/finpick-backend/internal/domain"
	"github.com/ming-ming2/finpick-backend/internal/llm"
)

type stubLLM struct {
	relevance    llm.RelevanceResult
	relevanceErr error
	domain       llm.DomainResult
	domainErr    error
	ranking      llm.RankingResult
	rankingErr   error

	rankCalled bool
}

func (s *stubLLM) ClassifyRelevance(context.Context, string) (llm.RelevanceResult, error) {
	return s.relevance, s.relevanceErr
}

func (s *stubLLM) ClassifyDomain(context.Context, string) (llm.DomainResult, error) {
	return s.domain, s.domainErr
}

func (s *stubLLM) RankProducts(context.Context, llm.RankingRequest) (llm.RankingResult, error) {
	s.rankCalled = true
	return s.ranking, s.rankingErr
}

type listSource struct {
	products []domain.Product
}

func (s *listSource) Load(context.Context) ([]domain.Product, error) { return s.products, nil }
func (s *listSource) Close(context.Context) error                    { return nil }

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	src := &listSource{products: []domain.Product{
		{ID: "d1", Name: "KB Star 정기예금", RawType: "정기예금", Type: domain.ProductTypeDeposit, Provider: "국민은행", InterestRate: 3.5, MinAmount: 100_000},
		{ID: "d2", Name: "카카오 세이프박스 적금", RawType: "적금", Type: domain.ProductTypeSavings, Provider: "카카오뱅크", InterestRate: 4.2, MinAmount: 50_000},
		{ID: "l1", Name: "직장인 신용대출", RawType: "신용대출", Type: domain.ProductTypeCreditLoan, Provider: "신한은행", InterestRate: 4.8},
		{ID: "l2", Name: "비상금 마이너스통장", RawType: "마이너스통장", Type: domain.ProductTypeCreditLoan, Provider: "토스뱅크", InterestRate: 5.5},
	}}
	c, err := catalog.New(context.Background(), src, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return c
}

func newTestService(t *testing.T, stub *stubLLM) *Service {
	t.Helper()
	return NewService(testCatalog(t), stub, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRecommendEmptyQuery(t *testing.T) {
	svc := newTestService(t, &stubLLM{})
	_, err := svc.Recommend(context.Background(), Request{Query: "   "})
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestRecommendIrrelevantQueryShortCircuits(t *testing.T) {
	stub := &stubLLM{relevance: llm.RelevanceResult{Relevant: false, Confidence: 0.95}}
	svc := newTestService(t, stub)

	res, err := svc.Recommend(context.Background(), Request{Query: "오늘 날씨 어때"})
	require.NoError(t, err)

	assert.False(t, res.Relevant)
	assert.Equal(t, FallbackMessage, res.FallbackMessage)
	assert.Empty(t, res.Recommendations)
	assert.False(t, stub.rankCalled, "ranking must not run for out-of-scope queries")
}

func TestRecommendExternalRankerPath(t *testing.T) {
	stub := &stubLLM{
		relevance: llm.RelevanceResult{Relevant: true, Confidence: 0.9},
		domain:    llm.DomainResult{Domain: domain.DomainDepositSavings, Confidence: 0.9},
		ranking: llm.RankingResult{
			Picks: []llm.RankedPick{
				{Index: 1, Score: 92, Reason: "높은 금리와 낮은 가입 문턱", Strengths: []string{"금리 우수"}},
				{Index: 0, Score: 88, Reason: "안정적인 대형 은행 상품"},
				{Index: 99, Score: 80, Reason: "존재하지 않는 번호"},
			},
			Summary: "적금 중심으로 추천했습니다.",
		},
	}
	svc := newTestService(t, stub)

	res, err := svc.Recommend(context.Background(), Request{Query: "금리 높은 적금 추천해줘"})
	require.NoError(t, err)

	assert.True(t, res.Relevant)
	assert.False(t, res.Fallback)
	assert.Equal(t, "적금 중심으로 추천했습니다.", res.Summary)
	// Out-of-range index is discarded silently.
	require.Len(t, res.Recommendations, 2)
	assert.Equal(t, "d2", res.Recommendations[0].Product.ID)
	assert.Equal(t, 92, res.Recommendations[0].Score)
	assert.Equal(t, 4.2, res.Recommendations[0].PersonalizedRate)
	assert.NotEmpty(t, res.Recommendations[0].Reasons)
	assert.NotEmpty(t, res.Recommendations[0].RiskCompatibility)
}

func TestRecommendEndToEndLoanFallback(t *testing.T) {
	// Every external call fails; the keyword fallbacks carry the request.
	stub := &stubLLM{
		relevanceErr: llm.ErrUnavailable,
		domainErr:    llm.ErrUnavailable,
		rankingErr:   llm.ErrUnavailable,
	}
	svc := newTestService(t, stub)

	res, err := svc.Recommend(context.Background(), Request{Query: "50만원 대출받고 싶어"})
	require.NoError(t, err)

	assert.True(t, res.Relevant)
	assert.Equal(t, domain.DomainLoan, res.Domain)
	assert.True(t, res.Fallback)
	require.NotEmpty(t, res.Recommendations)
	assert.LessOrEqual(t, len(res.Recommendations), DefaultLimit)
	for _, rec := range res.Recommendations {
		assert.True(t, rec.Product.Type.IsLoan())
		assert.GreaterOrEqual(t, rec.Score, 0)
		assert.LessOrEqual(t, rec.Score, 100)
		assert.NotEmpty(t, rec.Reasons)
		assert.Equal(t, int64(0), rec.RecommendedMonthly)
		assert.Greater(t, rec.PersonalizedRate, 0.0)
	}
}

func TestRecommendMalformedRankingFallsBack(t *testing.T) {
	stub := &stubLLM{
		relevance:  llm.RelevanceResult{Relevant: true, Confidence: 0.9},
		domain:     llm.DomainResult{Domain: domain.DomainDepositSavings, Confidence: 0.8},
		rankingErr: llm.ErrMalformedResponse,
	}
	svc := newTestService(t, stub)

	res, err := svc.Recommend(context.Background(), Request{Query: "적금 추천"})
	require.NoError(t, err)

	assert.True(t, res.Fallback)
	assert.NotEmpty(t, res.Recommendations)
}

func TestRecommendFilters(t *testing.T) {
	stub := &stubLLM{
		relevance:  llm.RelevanceResult{Relevant: true, Confidence: 0.9},
		domain:     llm.DomainResult{Domain: domain.DomainDepositSavings, Confidence: 0.8},
		rankingErr: llm.ErrUnavailable,
	}
	svc := newTestService(t, stub)

	res, err := svc.Recommend(context.Background(), Request{
		Query:   "적금 추천해줘",
		Filters: Filters{MinInterestRate: 4.0},
	})
	require.NoError(t, err)

	require.Len(t, res.Recommendations, 1)
	assert.Equal(t, "d2", res.Recommendations[0].Product.ID)
}

func TestRecommendLimitCap(t *testing.T) {
	stub := &stubLLM{
		relevance:  llm.RelevanceResult{Relevant: true, Confidence: 0.9},
		domain:     llm.DomainResult{Domain: domain.DomainDepositSavings, Confidence: 0.8},
		rankingErr: llm.ErrUnavailable,
	}
	svc := newTestService(t, stub)

	res, err := svc.Recommend(context.Background(), Request{Query: "예금 추천", Limit: 500})
	require.NoError(t, err)
	assert.LessOrEqual(t, len(res.Recommendations), MaxLimit)
}

func TestClassifyDomainFallbackDefault(t *testing.T) {
	stub := &stubLLM{domainErr: llm.ErrUnavailable}
	svc := newTestService(t, stub)

	assert.Equal(t, domain.DefaultDomain, svc.ClassifyDomain(context.Background(), "목돈 모으기"))
	assert.Equal(t, domain.DomainLoan, svc.ClassifyDomain(context.Background(), "전세자금 빌리고 싶어"))
}
