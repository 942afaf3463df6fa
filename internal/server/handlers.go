package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/ming-ming2/finpick-backend/internal/catalog"
	"github.com/ming-ming2/finpick-backend/internal/domain"
	"github.com/ming-ming2/finpick-backend/internal/recommend"
	"github.com/ming-ming2/finpick-backend/internal/search"
	"github.com/ming-ming2/finpick-backend/internal/simulation"
)

// APIHandlers exposes HTTP handlers for the REST API.
type APIHandlers struct {
	logger     *slog.Logger
	recommend  *recommend.Service
	simulation *simulation.Service
	catalog    *catalog.Catalog
	search     *search.Engine
}

// NewAPIHandlers constructs an APIHandlers instance.
func NewAPIHandlers(logger *slog.Logger, rec *recommend.Service, sim *simulation.Service, cat *catalog.Catalog, eng *search.Engine) *APIHandlers {
	return &APIHandlers{
		logger:     logger,
		recommend:  rec,
		simulation: sim,
		catalog:    cat,
		search:     eng,
	}
}

func (h *APIHandlers) handleNaturalLanguage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var payload recommendationRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.recommend.Recommend(r.Context(), recommend.Request{
		Query:   payload.Query,
		Profile: payload.UserProfile,
		Filters: payload.Filters,
		Limit:   payload.Limit,
	})
	if err != nil {
		if errors.Is(err, recommend.ErrEmptyQuery) {
			writeError(w, http.StatusBadRequest, "query is required")
			return
		}
		h.logger.Error("recommendation failed", "error", err, "userId", userID(r))
		writeError(w, http.StatusInternalServerError, "failed to generate recommendations")
		return
	}

	respondJSON(w, http.StatusOK, toRecommendationResponse(result))
}

func (h *APIHandlers) handleDomainClassification(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var payload classificationRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(payload.Query) == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	d := h.recommend.ClassifyDomain(r.Context(), payload.Query)
	respondJSON(w, http.StatusOK, classificationResponse{
		Query:  payload.Query,
		Domain: string(d),
	})
}

func (h *APIHandlers) handleListProducts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	query := r.URL.Query()
	page := parseInt(query.Get("page"), 1)
	pageSize := parseInt(query.Get("pageSize"), 20)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	typeFilter := strings.ToLower(query.Get("type"))
	providerFilter := query.Get("provider")

	var filtered []domain.Product
	for _, p := range h.catalog.All() {
		if typeFilter != "" &&
			!strings.Contains(strings.ToLower(p.RawType), typeFilter) &&
			!strings.Contains(strings.ToLower(string(p.Type)), typeFilter) {
			continue
		}
		if providerFilter != "" && !strings.Contains(p.Provider, providerFilter) {
			continue
		}
		filtered = append(filtered, p)
	}

	total := len(filtered)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	items := make([]productResponse, 0, end-start)
	for _, p := range filtered[start:end] {
		items = append(items, toProductResponse(p))
	}

	respondJSON(w, http.StatusOK, listProductsResponse{
		Items: items,
		Pagination: paginationResponse{
			Page:       page,
			PageSize:   pageSize,
			TotalItems: total,
			TotalPages: (total + pageSize - 1) / pageSize,
		},
	})
}

func (h *APIHandlers) handleProductDetail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/products/")
	id = strings.Trim(id, "/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "product ID is required")
		return
	}

	p, ok := h.catalog.ByID(id)
	if !ok {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	respondJSON(w, http.StatusOK, toProductResponse(p))
}

func (h *APIHandlers) handleSearchProducts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	q := r.URL.Query().Get("q")
	if strings.TrimSpace(q) == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}
	limit := parseInt(r.URL.Query().Get("limit"), 10)

	products, err := h.search.Search(q, limit)
	if err != nil {
		h.logger.Error("product search failed", "error", err, "query", q)
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}

	items := make([]productResponse, 0, len(products))
	for _, p := range products {
		items = append(items, toProductResponse(p))
	}
	respondJSON(w, http.StatusOK, searchProductsResponse{
		Query: q,
		Items: items,
	})
}

func (h *APIHandlers) handleCatalogReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	if err := h.catalog.Reload(r.Context()); err != nil {
		h.logger.Error("catalog reload failed", "error", err)
		writeError(w, http.StatusInternalServerError, "catalog reload failed")
		return
	}
	if err := h.search.Rebuild(h.catalog.All()); err != nil {
		h.logger.Error("search index rebuild failed", "error", err)
		writeError(w, http.StatusInternalServerError, "search index rebuild failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"products": h.catalog.Len(),
	})
}

func (h *APIHandlers) handleScenarios(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	scenarios := simulation.Scenarios()
	respondJSON(w, http.StatusOK, map[string]any{
		"scenarios":   scenarios,
		"total_count": len(scenarios),
	})
}

func (h *APIHandlers) handleCalculate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var payload calculateRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.simulation.Calculate(r.Context(), simulation.CalculateInput{
		ScenarioID:     payload.ScenarioID,
		MonthlyAmount:  payload.MonthlyAmount,
		TargetYears:    payload.TargetYears,
		ExpectedReturn: payload.ExpectedReturn,
	})
	if err != nil {
		if errors.Is(err, simulation.ErrUnknownScenario) || errors.Is(err, simulation.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("simulation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "simulation failed")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *APIHandlers) handleOptimize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var payload simulation.OptimizeInput
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.simulation.Optimize(payload)
	if err != nil {
		if errors.Is(err, simulation.ErrUnknownScenario) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("plan optimization failed", "error", err)
		writeError(w, http.StatusInternalServerError, "plan optimization failed")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// --- Request & Response DTOs ---

type recommendationRequest struct {
	Query       string              `json:"query"`
	UserProfile *domain.UserProfile `json:"user_profile,omitempty"`
	Filters     recommend.Filters   `json:"filters,omitempty"`
	Limit       int                 `json:"limit,omitempty"`
}

type classificationRequest struct {
	Query string `json:"query"`
}

type classificationResponse struct {
	Query  string `json:"query"`
	Domain string `json:"domain"`
}

// calculateRequest mirrors simulation.CalculateInput plus an optional
// user profile that some clients send but the calculation does not use.
type calculateRequest struct {
	ScenarioID     string              `json:"scenario_id"`
	MonthlyAmount  int64               `json:"monthly_amount"`
	TargetYears    int                 `json:"target_years"`
	ExpectedReturn float64             `json:"expected_return"`
	UserProfile    *domain.UserProfile `json:"user_profile,omitempty"`
}

type recommendationResponse struct {
	Related         bool                 `json:"related"`
	Message         string               `json:"message,omitempty"`
	Domain          string               `json:"domain,omitempty"`
	Confidence      float64              `json:"confidence"`
	Fallback        bool                 `json:"fallback"`
	Summary         string               `json:"summary,omitempty"`
	Recommendations []recommendationItem `json:"recommendations"`
}

type recommendationItem struct {
	ProductID          string   `json:"product_id"`
	ProductName        string   `json:"product_name"`
	ProductType        string   `json:"product_type"`
	ProviderName       string   `json:"provider_name"`
	InterestRate       float64  `json:"interest_rate"`
	MinimumAmount      int64    `json:"minimum_amount"`
	MaximumAmount      int64    `json:"maximum_amount"`
	MatchScore         int      `json:"match_score"`
	Reasons            []string `json:"reasons"`
	Strengths          []string `json:"strengths,omitempty"`
	Considerations     []string `json:"considerations,omitempty"`
	RiskCompatibility  string   `json:"risk_compatibility"`
	AgeAppropriateness string   `json:"age_appropriateness"`
	RecommendedMonthly int64    `json:"recommended_monthly_amount"`
	JoinWays           []string `json:"join_ways,omitempty"`
	SpecialBenefits    []string `json:"special_benefits,omitempty"`
}

type productResponse struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	Type               string  `json:"type"`
	RawType            string  `json:"raw_type,omitempty"`
	Provider           string  `json:"provider"`
	InterestRate       float64 `json:"interest_rate"`
	MaxInterestRate    float64 `json:"max_interest_rate,omitempty"`
	MinimumAmount      int64   `json:"minimum_amount"`
	MaximumAmount      int64   `json:"maximum_amount"`
	SubscriptionPeriod string  `json:"subscription_period,omitempty"`

	JoinMember        string   `json:"join_member,omitempty"`
	JoinWays          []string `json:"join_ways,omitempty"`
	SpecialConditions string   `json:"special_conditions,omitempty"`
	Benefits          []string `json:"benefits,omitempty"`
}

type listProductsResponse struct {
	Items      []productResponse  `json:"items"`
	Pagination paginationResponse `json:"pagination"`
}

type searchProductsResponse struct {
	Query string            `json:"query"`
	Items []productResponse `json:"items"`
}

type paginationResponse struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

// --- Helpers ---

func toRecommendationResponse(result domain.RecommendationResult) recommendationResponse {
	resp := recommendationResponse{
		Related:         result.Relevant,
		Message:         result.FallbackMessage,
		Domain:          string(result.Domain),
		Confidence:      result.Confidence,
		Fallback:        result.Fallback,
		Summary:         result.Summary,
		Recommendations: []recommendationItem{},
	}
	if !result.Relevant {
		resp.Domain = ""
	}

	for _, rec := range result.Recommendations {
		resp.Recommendations = append(resp.Recommendations, recommendationItem{
			ProductID:          rec.Product.ID,
			ProductName:        rec.Product.Name,
			ProductType:        string(rec.Product.Type),
			ProviderName:       rec.Product.Provider,
			InterestRate:       rec.PersonalizedRate,
			MinimumAmount:      rec.Product.MinAmount,
			MaximumAmount:      rec.Product.MaxAmount,
			MatchScore:         rec.Score,
			Reasons:            rec.Reasons,
			Strengths:          rec.Strengths,
			Considerations:     rec.Considerations,
			RiskCompatibility:  rec.RiskCompatibility,
			AgeAppropriateness: rec.AgeAppropriateness,
			RecommendedMonthly: rec.RecommendedMonthly,
			JoinWays:           rec.Product.Conditions.Ways,
			SpecialBenefits:    rec.Product.Benefits,
		})
	}
	return resp
}

func toProductResponse(p domain.Product) productResponse {
	return productResponse{
		ID:                 p.ID,
		Name:               p.Name,
		Type:               string(p.Type),
		RawType:            p.RawType,
		Provider:           p.Provider,
		InterestRate:       p.InterestRate,
		MaxInterestRate:    p.MaxInterestRate,
		MinimumAmount:      p.MinAmount,
		MaximumAmount:      p.MaxAmount,
		SubscriptionPeriod: p.SubscriptionPeriod,
		JoinMember:         p.Conditions.Member,
		JoinWays:           p.Conditions.Ways,
		SpecialConditions:  p.Conditions.SpecialConditions,
		Benefits:           p.Benefits,
	}
}

// userID extracts the caller identity supplied by the upstream auth proxy.
func userID(r *http.Request) string {
	return r.Header.Get("X-User-ID")
}

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return err
	}
	return nil
}

func parseInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	if v, err := strconv.Atoi(value); err == nil {
		return v
	}
	return fallback
}

func writeError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{
		"error": msg,
	})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}
