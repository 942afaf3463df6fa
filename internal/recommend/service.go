// Package recommend implements the recommendation pipeline: relevance gate,
// domain classification, candidate filtering, profile normalization and
// ranking. Every external-model stage has a deterministic local fallback; a
// single failed call switches to it immediately, with no retries.
package recommend

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/ming-ming2/finpick-backend/internal/catalog"
	"github.com/ming-ming2/finpick-backend/internal/domain"
	"github.com/ming-ming2/finpick-backend/internal/llm"
	"github.com/ming-ming2/finpick-backend/internal/pricing"
)

// ErrEmptyQuery is the one validation error surfaced to the caller.
var ErrEmptyQuery = errors.New("recommend: query must not be empty")

const (
	// DefaultLimit applies when the client omits a result count.
	DefaultLimit = 5
	// MaxLimit caps the result count.
	MaxLimit = 20

	// rankerCandidateCap bounds how many candidates are handed to the
	// external ranker.
	rankerCandidateCap = 50
)

// Filters narrows the candidate set before ranking.
type Filters struct {
	ProductType      string  `json:"product_type,omitempty"`
	MinInterestRate  float64 `json:"min_interest_rate,omitempty"`
	MaxMinimumAmount int64   `json:"max_minimum_amount,omitempty"`
}

// Request is one recommendation invocation.
type Request struct {
	Query   string
	Profile *domain.UserProfile
	Filters Filters
	Limit   int
}

// Service wires the pipeline stages together. It is stateless between
// requests; the catalog snapshot is the only shared state it reads.
type Service struct {
	catalog *catalog.Catalog
	llm     llm.Client
	logger  *slog.Logger
}

// NewService constructs the recommendation service.
func NewService(cat *catalog.Catalog, client llm.Client, logger *slog.Logger) *Service {
	return &Service{catalog: cat, llm: client, logger: logger}
}

// Recommend runs the full pipeline for one query.
func (s *Service) Recommend(ctx context.Context, req Request) (domain.RecommendationResult, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return domain.RecommendationResult{}, ErrEmptyQuery
	}

	limit := req.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	relevant, confidence := s.checkRelevance(ctx, query)
	if !relevant {
		return domain.RecommendationResult{
			Relevant:        false,
			FallbackMessage: FallbackMessage,
			Confidence:      confidence,
		}, nil
	}

	d := s.ClassifyDomain(ctx, query)
	candidates := applyFilters(s.catalog.FilterByDomain(d), req.Filters)
	profile := NormalizeProfile(req.Profile)

	recs, summary, usedFallback := s.rank(ctx, query, profile, d, candidates, limit)
	for i := range recs {
		recs[i].PersonalizedRate = pricing.PersonalizedRate(recs[i].Product, profile)
	}

	s.logger.Info("recommendation generated",
		slog.String("domain", string(d)),
		slog.Int("candidates", len(candidates)),
		slog.Int("recommendations", len(recs)),
		slog.Bool("fallback", usedFallback),
	)

	return domain.RecommendationResult{
		Relevant:        true,
		Domain:          d,
		Confidence:      confidence,
		Recommendations: recs,
		Summary:         summary,
		Fallback:        usedFallback,
	}, nil
}

// checkRelevance is the hard gate in front of the pipeline. The external
// judgment is preferred; keyword membership decides when it fails.
func (s *Service) checkRelevance(ctx context.Context, query string) (bool, float64) {
	res, err := s.llm.ClassifyRelevance(ctx, query)
	if err != nil {
		s.logger.Warn("relevance classifier unavailable, using keyword fallback",
			slog.String("error", err.Error()))
		return keywordRelevance(query), 0.5
	}
	return res.Relevant, res.Confidence
}

// ClassifyDomain maps the query onto a product domain. Exported separately
// because the classification debug endpoint calls it directly.
func (s *Service) ClassifyDomain(ctx context.Context, query string) domain.Domain {
	res, err := s.llm.ClassifyDomain(ctx, query)
	if err != nil {
		s.logger.Warn("domain classifier unavailable, using keyword fallback",
			slog.String("error", err.Error()))
		if keywordDomainIsLoan(query) {
			return domain.DomainLoan
		}
		return domain.DefaultDomain
	}
	return res.Domain
}

func (s *Service) rank(ctx context.Context, query string, profile domain.NormalizedProfile, d domain.Domain, candidates []domain.Product, limit int) ([]domain.Recommendation, string, bool) {
	if len(candidates) == 0 {
		return nil, "", true
	}

	capped := candidates
	if len(capped) > rankerCandidateCap {
		capped = capped[:rankerCandidateCap]
	}

	res, err := s.llm.RankProducts(ctx, llm.RankingRequest{
		Query:      query,
		Profile:    profile,
		Domain:     d,
		Candidates: capped,
		Limit:      limit,
	})
	if err != nil {
		s.logger.Warn("external ranker unavailable, using rule-based fallback",
			slog.String("error", err.Error()))
		return fallbackRank(profile, d, candidates, limit), "", true
	}

	var recs []domain.Recommendation
	for _, pick := range res.Picks {
		if pick.Index < 0 || pick.Index >= len(capped) {
			continue
		}
		reasons := []string{pick.Reason}
		if pick.Reason == "" {
			reasons = []string{"프로필 적합성 기반 추천"}
		}
		recs = append(recs, buildCandidate(capped[pick.Index], clampScore(pick.Score), reasons, pick.Strengths, pick.Considerations, profile))
		if len(recs) >= limit {
			break
		}
	}
	if len(recs) == 0 {
		return fallbackRank(profile, d, candidates, limit), "", true
	}
	return recs, res.Summary, false
}

func applyFilters(products []domain.Product, f Filters) []domain.Product {
	if f.ProductType == "" && f.MinInterestRate <= 0 && f.MaxMinimumAmount <= 0 {
		return products
	}

	typeNeedle := strings.ToLower(f.ProductType)
	var out []domain.Product
	for _, p := range products {
		if typeNeedle != "" &&
			!strings.Contains(strings.ToLower(p.RawType), typeNeedle) &&
			!strings.Contains(strings.ToLower(string(p.Type)), typeNeedle) {
			continue
		}
		if f.MinInterestRate > 0 && catalog.ExtractRate(p) < f.MinInterestRate {
			continue
		}
		if f.MaxMinimumAmount > 0 && p.MinAmount > f.MaxMinimumAmount {
			continue
		}
		out = append(out, p)
	}
	return out
}
