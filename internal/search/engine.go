// Package search provides full-text product lookup over the catalog
// snapshot, backed by an in-memory bleve index.
package search

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/ming-ming2/finpick-backend/internal/domain"
)

// document is the indexed projection of a product. The full product is kept
// aside and resolved by ID on hit, so the index stores only searchable text.
type document struct {
	Name     string `json:"name"`
	Provider string `json:"provider"`
	Type     string `json:"type"`
	Benefits string `json:"benefits"`
}

// Engine indexes catalog products for text search. Rebuild replaces the
// index wholesale; it is called after every catalog reload.
type Engine struct {
	logger *slog.Logger

	mu    sync.RWMutex
	index bleve.Index
	byID  map[string]domain.Product
}

// NewEngine builds an engine and indexes the given products.
func NewEngine(products []domain.Product, logger *slog.Logger) (*Engine, error) {
	e := &Engine{logger: logger}
	if err := e.Rebuild(products); err != nil {
		return nil, err
	}
	return e, nil
}

// Rebuild indexes the product list into a fresh in-memory index and swaps
// it in. The previous index is closed.
func (e *Engine) Rebuild(products []domain.Product) error {
	indexMapping := buildIndexMapping()
	index, err := bleve.NewMemOnly(indexMapping)
	if err != nil {
		return fmt.Errorf("create search index: %w", err)
	}

	batch := index.NewBatch()
	byID := make(map[string]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
		doc := document{
			Name:     p.Name,
			Provider: p.Provider,
			Type:     p.RawType,
			Benefits: strings.Join(p.Benefits, " "),
		}
		if err := batch.Index(p.ID, doc); err != nil {
			_ = index.Close()
			return fmt.Errorf("index product %s: %w", p.ID, err)
		}
	}
	if err := index.Batch(batch); err != nil {
		_ = index.Close()
		return fmt.Errorf("execute index batch: %w", err)
	}

	e.mu.Lock()
	old := e.index
	e.index = index
	e.byID = byID
	e.mu.Unlock()
	if old != nil {
		_ = old.Close()
	}

	e.logger.Debug("search index rebuilt", slog.Int("products", len(products)))
	return nil
}

func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()

	productMapping := bleve.NewDocumentMapping()
	textField := bleve.NewTextFieldMapping()
	textField.Store = false
	textField.Index = true
	productMapping.AddFieldMappingsAt("name", textField)
	productMapping.AddFieldMappingsAt("provider", textField)
	productMapping.AddFieldMappingsAt("type", textField)
	productMapping.AddFieldMappingsAt("benefits", textField)

	indexMapping.AddDocumentMapping("_default", productMapping)
	return indexMapping
}

// Search returns up to limit products matching the query, best match first.
// Name matches are boosted over provider/type/benefit matches.
func (e *Engine) Search(query string, limit int) ([]domain.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}

	nameMatch := bleve.NewMatchQuery(query)
	nameMatch.SetField("name")
	nameMatch.SetBoost(3.0)

	nameWildcard := bleve.NewWildcardQuery("*" + strings.ToLower(query) + "*")
	nameWildcard.SetField("name")
	nameWildcard.SetBoost(2.0)

	providerMatch := bleve.NewMatchQuery(query)
	providerMatch.SetField("provider")
	providerMatch.SetBoost(1.5)

	typeMatch := bleve.NewMatchQuery(query)
	typeMatch.SetField("type")

	benefitsMatch := bleve.NewMatchQuery(query)
	benefitsMatch.SetField("benefits")

	searchQuery := bleve.NewDisjunctionQuery(nameMatch, nameWildcard, providerMatch, typeMatch, benefitsMatch)
	req := bleve.NewSearchRequest(searchQuery)
	req.Size = limit

	e.mu.RLock()
	index := e.index
	byID := e.byID
	e.mu.RUnlock()

	res, err := index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	products := make([]domain.Product, 0, len(res.Hits))
	for _, hit := range res.Hits {
		if p, ok := byID[hit.ID]; ok {
			products = append(products, p)
		}
	}
	return products, nil
}

// Close releases the index.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.index == nil {
		return nil
	}
	return e.index.Close()
}
