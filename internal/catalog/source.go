package catalog

import (
	"context"
	"errors"

	"github.com/ming-ming2/finpick-backend/internal/domain"
)

// Source loads the raw product catalog from a backing store. Implementations
// return the full product list on every call; incremental loads are not
// supported because the catalog is replaced wholesale on reload.
type Source interface {
	Load(ctx context.Context) ([]domain.Product, error)
	Close(ctx context.Context) error
}

// ErrMissingURI indicates the graph URI is not provided.
var ErrMissingURI = errors.New("catalog: neo4j URI is required")

// ErrMissingPath indicates the catalog file path is not provided.
var ErrMissingPath = errors.New("catalog: file path is required")
