package catalog

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/ming-ming2/finpick-backend/internal/config"
	"github.com/ming-ming2/finpick-backend/internal/domain"
)

const loadProductsCypher = `
MATCH (p:Product)-[:OFFERED_BY]->(b:Bank)
RETURN p.id AS id,
       p.name AS name,
       p.type AS type,
       b.name AS provider,
       p.interest_rate AS interest_rate,
       p.max_interest_rate AS max_interest_rate,
       p.minimum_amount AS minimum_amount,
       p.maximum_amount AS maximum_amount,
       p.subscription_period AS subscription_period,
       p.join_ways AS join_ways
ORDER BY p.id`

// Neo4jSource loads the catalog from a product graph over Bolt. Deployments
// that keep products in Neo4j (or a Bolt-compatible endpoint) use this
// instead of a catalog file.
type Neo4jSource struct {
	driver   neo4j.DriverWithContext
	database string
}

// NewNeo4jSource establishes a Bolt connection using the official driver and
// verifies connectivity before returning.
func NewNeo4jSource(ctx context.Context, cfg config.CatalogConfig) (*Neo4jSource, error) {
	if cfg.URI == "" {
		return nil, ErrMissingURI
	}

	auth := neo4j.NoAuth()
	if cfg.Username != "" {
		auth = neo4j.BasicAuth(cfg.Username, cfg.Password, "")
	}

	driver, err := neo4j.NewDriverWithContext(cfg.URI, auth)
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("verify catalog connectivity: %w", err)
	}

	return &Neo4jSource{driver: driver, database: cfg.Database}, nil
}

// Load queries all product nodes and maps them onto domain products.
func (s *Neo4jSource) Load(ctx context.Context) ([]domain.Product, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: s.database,
		AccessMode:   neo4j.AccessModeRead,
	})
	defer session.Close(ctx)

	res, err := session.Run(ctx, loadProductsCypher, nil)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}

	var products []domain.Product
	for res.Next(ctx) {
		rec := res.Record()
		p := domain.Product{
			ID:                 stringValue(rec, "id"),
			Name:               stringValue(rec, "name"),
			RawType:            stringValue(rec, "type"),
			Provider:           stringValue(rec, "provider"),
			InterestRate:       floatValue(rec, "interest_rate"),
			MaxInterestRate:    floatValue(rec, "max_interest_rate"),
			MinAmount:          intValue(rec, "minimum_amount"),
			MaxAmount:          intValue(rec, "maximum_amount"),
			SubscriptionPeriod: stringValue(rec, "subscription_period"),
		}
		p.Type = domain.NormalizeProductType(p.RawType)
		p.Conditions.Ways = stringSliceValue(rec, "join_ways")
		if p.Name != "" {
			products = append(products, p)
		}
	}
	if err := res.Err(); err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	return products, nil
}

// Close releases the underlying driver.
func (s *Neo4jSource) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

func stringValue(rec *neo4j.Record, key string) string {
	v, ok := rec.Get(key)
	if !ok || v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

func floatValue(rec *neo4j.Record, key string) float64 {
	v, ok := rec.Get(key)
	if !ok || v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	}
	return 0
}

func intValue(rec *neo4j.Record, key string) int64 {
	v, ok := rec.Get(key)
	if !ok || v == nil {
		return 0
	}
	switch n := v.(type) {
	case int64:
		return n
	case float64:
		return int64(n)
	}
	return 0
}

func stringSliceValue(rec *neo4j.Record, key string) []string {
	v, ok := rec.Get(key)
	if !ok || v == nil {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
