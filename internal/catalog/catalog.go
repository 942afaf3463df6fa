package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/ming-ming2/finpick-backend/internal/domain"
)

// Catalog holds the in-memory product snapshot. Reads never block: the
// snapshot is swapped atomically on reload and readers keep whatever version
// they started with.
type Catalog struct {
	source   Source
	logger   *slog.Logger
	snapshot atomic.Pointer[snapshot]
}

type snapshot struct {
	products []domain.Product
	byID     map[string]domain.Product
	byDomain map[domain.Domain][]domain.Product
}

// New builds a catalog over the given source and performs the initial load.
func New(ctx context.Context, source Source, logger *slog.Logger) (*Catalog, error) {
	c := &Catalog{source: source, logger: logger}
	if err := c.Reload(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Reload fetches the full product list from the source and swaps it in. On
// failure the previous snapshot stays live.
func (c *Catalog) Reload(ctx context.Context) error {
	products, err := c.source.Load(ctx)
	if err != nil {
		return fmt.Errorf("reload catalog: %w", err)
	}

	snap := &snapshot{
		products: products,
		byID:     make(map[string]domain.Product, len(products)),
		byDomain: make(map[domain.Domain][]domain.Product),
	}
	for _, p := range products {
		snap.byID[p.ID] = p
		d := p.Type.Domain()
		snap.byDomain[d] = append(snap.byDomain[d], p)
	}
	c.snapshot.Store(snap)

	c.logger.Info("catalog loaded",
		slog.Int("products", len(products)),
		slog.Int("deposit_savings", len(snap.byDomain[domain.DomainDepositSavings])),
		slog.Int("loan", len(snap.byDomain[domain.DomainLoan])),
	)
	return nil
}

// All returns every product in the current snapshot.
func (c *Catalog) All() []domain.Product {
	return c.snapshot.Load().products
}

// Len reports the current product count.
func (c *Catalog) Len() int {
	return len(c.snapshot.Load().products)
}

// ByID looks a product up by its identifier.
func (c *Catalog) ByID(id string) (domain.Product, bool) {
	p, ok := c.snapshot.Load().byID[id]
	return p, ok
}

// fallbackSubsetSize bounds the candidate set handed out when a domain has
// no matching products. Ranking always needs something to work with.
const fallbackSubsetSize = 20

// defaultLoanRate is the flat assumed rate for loan products whose source
// data carries no rate at all.
const defaultLoanRate = 4.5

// FilterByDomain returns the products belonging to the given domain.
// Products whose type could not be classified fall into deposit_savings.
// When the domain is empty a bounded slice of the whole catalog is returned
// instead of nothing.
func (c *Catalog) FilterByDomain(d domain.Domain) []domain.Product {
	snap := c.snapshot.Load()
	if products := snap.byDomain[d]; len(products) > 0 {
		return products
	}
	if len(snap.products) > fallbackSubsetSize {
		return snap.products[:fallbackSubsetSize]
	}
	return snap.products
}

// ExtractRate resolves the advertised rate of a product. Source data is
// inconsistently populated across providers, so resolution walks a priority
// chain: nominal rate, best tiered rate, the max-rate field, and finally a
// flat assumed rate for loans.
func ExtractRate(p domain.Product) float64 {
	if p.InterestRate > 0 {
		return p.InterestRate
	}
	best := 0.0
	for _, t := range p.RateTiers {
		if t.MaxRate > best {
			best = t.MaxRate
		}
	}
	if best > 0 {
		return best
	}
	if p.MaxInterestRate > 0 {
		return p.MaxInterestRate
	}
	if p.Type.IsLoan() {
		return defaultLoanRate
	}
	return 0
}
