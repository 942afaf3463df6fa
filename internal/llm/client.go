package llm

import (
	"context"
	"errors"

	"github.com/ming-ming2/finpick-backend/internal/domain"
)

// ErrUnavailable signals that the language model could not be reached or
// returned an unusable response. Callers fall back to local heuristics; no
// retries are attempted.
var ErrUnavailable = errors.New("llm: provider unavailable")

// ErrMalformedResponse signals that the model replied but its payload could
// not be decoded as the expected JSON shape.
var ErrMalformedResponse = errors.New("llm: malformed response")

// RelevanceResult is the outcome of a financial-relevance check.
type RelevanceResult struct {
	Relevant   bool    `json:"relevant"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// DomainResult is the outcome of a product-domain classification.
type DomainResult struct {
	Domain     domain.Domain `json:"domain"`
	Confidence float64       `json:"confidence"`
}

// RankedPick is one ranked candidate returned by the model. Index refers
// into the candidate list supplied with the request; out-of-range indices
// are discarded by the caller.
type RankedPick struct {
	Index          int      `json:"index"`
	Score          int      `json:"score"`
	Reason         string   `json:"reason"`
	Strengths      []string `json:"strengths"`
	Considerations []string `json:"considerations"`
}

// RankingResult is the full ranking response.
type RankingResult struct {
	Picks   []RankedPick `json:"recommendations"`
	Summary string       `json:"summary"`
}

// RankingRequest carries everything the model needs to rank candidates.
type RankingRequest struct {
	Query      string
	Profile    domain.NormalizedProfile
	Domain     domain.Domain
	Candidates []domain.Product
	Limit      int
}

// AdviceRequest carries a simulation outcome for advice generation.
type AdviceRequest struct {
	ScenarioTitle   string
	TargetAmount    int64
	MonthlyAmount   int64
	TargetYears     int
	ExpectedReturn  float64
	FinalAmount     int64
	AchievementRate float64
}

// AdviceResult is the model's savings-plan guidance.
type AdviceResult struct {
	MainComment string   `json:"main_comment"`
	ActionItems []string `json:"action_items"`
	Motivation  string   `json:"motivation"`
	Confidence  float64  `json:"confidence"`
}

// Client is the language model surface the recommendation pipeline depends
// on. Implementations must honour ctx cancellation and return ErrUnavailable
// or ErrMalformedResponse rather than blocking or guessing.
type Client interface {
	ClassifyRelevance(ctx context.Context, query string) (RelevanceResult, error)
	ClassifyDomain(ctx context.Context, query string) (DomainResult, error)
	RankProducts(ctx context.Context, req RankingRequest) (RankingResult, error)
}
