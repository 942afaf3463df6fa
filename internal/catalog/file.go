package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/ming-ming2/finpick-backend/internal/domain"
)

// FileSource reads products from a JSON file. Two layouts are accepted: a
// flat array of product objects, or an object whose values are arrays of
// product objects keyed by category name.
type FileSource struct {
	path string
}

// NewFileSource builds a file-backed catalog source.
func NewFileSource(path string) (*FileSource, error) {
	if path == "" {
		return nil, ErrMissingPath
	}
	return &FileSource{path: path}, nil
}

// Load reads and decodes the catalog file.
func (s *FileSource) Load(_ context.Context) ([]domain.Product, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return decodeProducts(data)
}

// Close is a no-op for file sources.
func (s *FileSource) Close(context.Context) error { return nil }

// productRecord mirrors the catalog JSON produced by the data pipeline.
// Provider appears both as a plain string and as an object in the wild.
type productRecord struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Type     string          `json:"type"`
	Provider json.RawMessage `json:"provider"`
	Details  struct {
		InterestRate       flexFloat `json:"interest_rate"`
		MaxInterestRate    flexFloat `json:"max_interest_rate"`
		MinimumAmount      flexInt   `json:"minimum_amount"`
		MaximumAmount      flexInt   `json:"maximum_amount"`
		SubscriptionPeriod string    `json:"subscription_period"`
		MaturityPeriod     string    `json:"maturity_period"`
		RateTiers          []struct {
			Name     string    `json:"name"`
			BaseRate flexFloat `json:"base_rate"`
			MaxRate  flexFloat `json:"max_rate"`
		} `json:"rate_tiers"`
	} `json:"details"`
	Conditions struct {
		JoinMember        string   `json:"join_member"`
		JoinWay           []string `json:"join_way"`
		SpecialConditions string   `json:"special_conditions"`
	} `json:"conditions"`
	Benefits []string `json:"benefits"`
}

func decodeProducts(data []byte) ([]domain.Product, error) {
	var records []productRecord

	// Flat array first; fall back to an object of keyed arrays.
	if err := json.Unmarshal(data, &records); err != nil {
		var keyed map[string]json.RawMessage
		if err2 := json.Unmarshal(data, &keyed); err2 != nil {
			return nil, fmt.Errorf("decode catalog: %w", err)
		}
		for _, raw := range keyed {
			var chunk []productRecord
			if err2 := json.Unmarshal(raw, &chunk); err2 != nil {
				// Non-array values (metadata blocks) are skipped.
				continue
			}
			records = append(records, chunk...)
		}
	}

	products := make([]domain.Product, 0, len(records))
	for _, rec := range records {
		p := rec.toProduct()
		if p.Name == "" {
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

func (rec productRecord) toProduct() domain.Product {
	id := rec.ID
	if id == "" {
		id = uuid.NewString()
	}

	p := domain.Product{
		ID:                 id,
		Name:               rec.Name,
		Type:               domain.NormalizeProductType(rec.Type),
		RawType:            rec.Type,
		Provider:           decodeProvider(rec.Provider),
		InterestRate:       float64(rec.Details.InterestRate),
		MaxInterestRate:    float64(rec.Details.MaxInterestRate),
		MinAmount:          int64(rec.Details.MinimumAmount),
		MaxAmount:          int64(rec.Details.MaximumAmount),
		SubscriptionPeriod: rec.Details.SubscriptionPeriod,
		MaturityPeriod:     rec.Details.MaturityPeriod,
		Conditions: domain.JoinConditions{
			Member:            rec.Conditions.JoinMember,
			Ways:              rec.Conditions.JoinWay,
			SpecialConditions: rec.Conditions.SpecialConditions,
		},
		Benefits: rec.Benefits,
	}
	for _, t := range rec.Details.RateTiers {
		p.RateTiers = append(p.RateTiers, domain.RateTier{
			Name:     t.Name,
			BaseRate: float64(t.BaseRate),
			MaxRate:  float64(t.MaxRate),
		})
	}
	return p
}

func decodeProvider(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Name
	}
	return ""
}

// flexFloat decodes numbers that source files sometimes quote, e.g. "3.5%"
// or "연 3.5".
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexFloat(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*f = 0
		return nil
	}
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "연")
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexFloat(n)
	return nil
}

type flexInt int64

func (f *flexInt) UnmarshalJSON(data []byte) error {
	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexInt(n)
		return nil
	}
	var fl float64
	if err := json.Unmarshal(data, &fl); err == nil {
		*f = flexInt(int64(fl))
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*f = 0
		return nil
	}
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexInt(n)
	return nil
}
