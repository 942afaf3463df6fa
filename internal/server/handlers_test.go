package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ming-ming2/finpick-backend/internal/catalog"
	"github.com/ming-ming2/finpick-backend/internal/domain"
	"github.com/ming-ming2/finpick-backend/internal/llm"
	"github.com/ming-ming2/finpick-backend/internal/recommend"
	"github.com/ming-ming2/finpick-backend/internal/search"
	"github.com/ming-ming2/finpick-backend/internal/simulation"
)

type apiStubLLM struct {
	relevance llm.RelevanceResult
	domain    llm.DomainResult
	ranking   llm.RankingResult
}

func (s *apiStubLLM) ClassifyRelevance(context.Context, string) (llm.RelevanceResult, error) {
	return s.relevance, nil
}

func (s *apiStubLLM) ClassifyDomain(context.Context, string) (llm.DomainResult, error) {
	return s.domain, nil
}

func (s *apiStubLLM) RankProducts(context.Context, llm.RankingRequest) (llm.RankingResult, error) {
	return s.ranking, nil
}

type apiStubSource struct {
	products []domain.Product
}

func (s *apiStubSource) Load(context.Context) ([]domain.Product, error) { return s.products, nil }
func (s *apiStubSource) Close(context.Context) error                    { return nil }

func apiTestProducts() []domain.Product {
	return []domain.Product{
		{ID: "d1", Name: "KB Star 정기예금", RawType: "정기예금", Type: domain.ProductTypeDeposit, Provider: "국민은행", InterestRate: 3.5, MinAmount: 100_000},
		{ID: "s1", Name: "카카오 자유적금", RawType: "적금", Type: domain.ProductTypeSavings, Provider: "카카오뱅크", InterestRate: 4.2, MinAmount: 50_000},
		{ID: "l1", Name: "직장인 신용대출", RawType: "신용대출", Type: domain.ProductTypeCreditLoan, Provider: "신한은행", InterestRate: 4.8},
	}
}

func newTestRouter(t *testing.T, stub llm.Client) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cat, err := catalog.New(context.Background(), &apiStubSource{products: apiTestProducts()}, logger)
	require.NoError(t, err)
	eng, err := search.NewEngine(cat.All(), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = eng.Close() })

	api := NewAPIHandlers(logger,
		recommend.NewService(cat, stub, logger),
		simulation.NewService(logger, nil),
		cat,
		eng,
	)
	return NewRouter(logger, RouterDependencies{
		Health: &CatalogHealthService{Catalog: cat},
		API:    api,
	})
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthzOK(t *testing.T) {
	router := newTestRouter(t, &apiStubLLM{})
	rec := doJSON(t, router, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNaturalLanguageRecommendations(t *testing.T) {
	stub := &apiStubLLM{
		relevance: llm.RelevanceResult{Relevant: true, Confidence: 0.9},
		domain:    llm.DomainResult{Domain: "deposit_savings", Confidence: 0.85},
	}
	router := newTestRouter(t, stub)

	rec := doJSON(t, router, http.MethodPost, "/api/recommendations/natural-language", map[string]any{
		"query": "목돈을 모으고 싶어요",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp recommendationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Related)
	assert.Equal(t, "deposit_savings", resp.Domain)
	require.NotEmpty(t, resp.Recommendations)
	for _, item := range resp.Recommendations {
		assert.NotEmpty(t, item.ProductID)
		assert.NotEmpty(t, item.Reasons)
		assert.Greater(t, item.MatchScore, 0)
	}
}

func TestNaturalLanguageIrrelevantQuery(t *testing.T) {
	stub := &apiStubLLM{relevance: llm.RelevanceResult{Relevant: false, Confidence: 0.95}}
	router := newTestRouter(t, stub)

	rec := doJSON(t, router, http.MethodPost, "/api/recommendations/natural-language", map[string]any{
		"query": "오늘 저녁 메뉴 추천해줘",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp recommendationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Related)
	assert.NotEmpty(t, resp.Message)
	assert.Empty(t, resp.Domain)
	assert.Empty(t, resp.Recommendations)
	assert.NotNil(t, resp.Recommendations)
}

func TestNaturalLanguageEmptyQuery(t *testing.T) {
	router := newTestRouter(t, &apiStubLLM{})
	rec := doJSON(t, router, http.MethodPost, "/api/recommendations/natural-language", map[string]any{
		"query": "   ",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNaturalLanguageMethodNotAllowed(t *testing.T) {
	router := newTestRouter(t, &apiStubLLM{})
	rec := doJSON(t, router, http.MethodGet, "/api/recommendations/natural-language", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
}

func TestDomainClassificationEndpoint(t *testing.T) {
	stub := &apiStubLLM{domain: llm.DomainResult{Domain: "loan", Confidence: 0.8}}
	router := newTestRouter(t, stub)

	rec := doJSON(t, router, http.MethodPost, "/api/recommendations/test/domain-classification", map[string]any{
		"query": "신용대출 금리 알려줘",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp classificationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "loan", resp.Domain)
}

func TestListProducts(t *testing.T) {
	router := newTestRouter(t, &apiStubLLM{})

	rec := doJSON(t, router, http.MethodGet, "/api/products?page=1&pageSize=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp listProductsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Items, 2)
	assert.Equal(t, 3, resp.Pagination.TotalItems)
	assert.Equal(t, 2, resp.Pagination.TotalPages)
}

func TestListProductsTypeFilter(t *testing.T) {
	router := newTestRouter(t, &apiStubLLM{})

	rec := doJSON(t, router, http.MethodGet, "/api/products?type=%EC%A0%81%EA%B8%88", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp listProductsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "s1", resp.Items[0].ID)
}

func TestProductDetail(t *testing.T) {
	router := newTestRouter(t, &apiStubLLM{})

	rec := doJSON(t, router, http.MethodGet, "/api/products/d1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp productResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "KB Star 정기예금", resp.Name)
}

func TestProductDetailNotFound(t *testing.T) {
	router := newTestRouter(t, &apiStubLLM{})
	rec := doJSON(t, router, http.MethodGet, "/api/products/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearchProductsRequiresQuery(t *testing.T) {
	router := newTestRouter(t, &apiStubLLM{})
	rec := doJSON(t, router, http.MethodGet, "/api/products/search", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchProducts(t *testing.T) {
	router := newTestRouter(t, &apiStubLLM{})

	rec := doJSON(t, router, http.MethodGet, "/api/products/search?q=%EC%A0%95%EA%B8%B0%EC%98%88%EA%B8%88", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp searchProductsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Items)
	assert.Equal(t, "d1", resp.Items[0].ID)
}

func TestCatalogReload(t *testing.T) {
	router := newTestRouter(t, &apiStubLLM{})

	rec := doJSON(t, router, http.MethodPost, "/api/catalog/reload", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.EqualValues(t, 3, resp["products"])
}

func TestSimulationScenarios(t *testing.T) {
	router := newTestRouter(t, &apiStubLLM{})

	rec := doJSON(t, router, http.MethodGet, "/api/simulation/scenarios", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Scenarios  []domain.ScenarioTemplate `json:"scenarios"`
		TotalCount int                       `json:"total_count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.TotalCount)
	require.Len(t, resp.Scenarios, 3)
	assert.Equal(t, "house", resp.Scenarios[0].ID)
}

func TestSimulationCalculate(t *testing.T) {
	router := newTestRouter(t, &apiStubLLM{})

	rec := doJSON(t, router, http.MethodPost, "/api/simulation/calculate", map[string]any{
		"scenario_id":     "baby",
		"monthly_amount":  300000,
		"target_years":    5,
		"expected_return": 4.2,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp simulation.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "baby", resp.Scenario.ID)
	assert.Greater(t, resp.Calculation.FinalAmount, int64(0))
}

func TestSimulationCalculateInvalidInput(t *testing.T) {
	router := newTestRouter(t, &apiStubLLM{})

	rec := doJSON(t, router, http.MethodPost, "/api/simulation/calculate", map[string]any{
		"scenario_id":     "baby",
		"monthly_amount":  1000,
		"target_years":    5,
		"expected_return": 4.2,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSimulationCalculateUnknownScenario(t *testing.T) {
	router := newTestRouter(t, &apiStubLLM{})

	rec := doJSON(t, router, http.MethodPost, "/api/simulation/calculate", map[string]any{
		"scenario_id":     "yacht",
		"monthly_amount":  300000,
		"target_years":    5,
		"expected_return": 4.2,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSimulationOptimize(t *testing.T) {
	router := newTestRouter(t, &apiStubLLM{})

	rec := doJSON(t, router, http.MethodPost, "/api/simulation/optimize", map[string]any{
		"scenario_id":       "house",
		"available_monthly": 800000,
		"target_years":      8,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp simulation.OptimizeResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Optimizations)
}
