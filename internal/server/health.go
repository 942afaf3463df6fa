package server

import (
	"context"
	"errors"

	"github.com/ming-ming2/finpick-backend/internal/catalog"
)

// HealthService defines behaviour for readiness probes.
type HealthService interface {
	Probe(ctx context.Context) error
}

// CatalogHealthService reports readiness based on the product catalog.
type CatalogHealthService struct {
	Catalog *catalog.Catalog
}

// Probe implements the HealthService interface.
func (s CatalogHealthService) Probe(context.Context) error {
	if s.Catalog == nil {
		return nil
	}
	if s.Catalog.Len() == 0 {
		return errors.New("catalog is empty")
	}
	return nil
}
