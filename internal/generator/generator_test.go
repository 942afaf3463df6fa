package generator

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ming-ming2/finpick-backend/internal/catalog"
	"github.com/ming-ming2/finpick-backend/internal/domain"
)

func TestGenerateCounts(t *testing.T) {
	gen := New(Config{NumDeposits: 5, NumSavings: 7, NumLoans: 3, Seed: 1})
	cat, err := gen.Generate(context.Background())
	require.NoError(t, err)

	assert.Len(t, cat.Deposits, 5)
	assert.Len(t, cat.Savings, 7)
	assert.Len(t, cat.Loans, 3)
}

func TestGenerateDeterministic(t *testing.T) {
	first, err := New(Config{NumDeposits: 10, NumSavings: 10, NumLoans: 10, Seed: 7}).Generate(context.Background())
	require.NoError(t, err)
	second, err := New(Config{NumDeposits: 10, NumSavings: 10, NumLoans: 10, Seed: 7}).Generate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestGenerateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(DefaultConfig()).Generate(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGeneratedCatalogLoadsThroughFileSource(t *testing.T) {
	gen := New(Config{NumDeposits: 4, NumSavings: 4, NumLoans: 4, Seed: 3})
	cat, err := gen.Generate(context.Background())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "financial_products.json")
	require.NoError(t, WriteCatalog(cat, path))

	src, err := catalog.NewFileSource(path)
	require.NoError(t, err)
	loaded, err := catalog.New(context.Background(), src, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	assert.Equal(t, 12, loaded.Len())

	var loans, deposits int
	for _, p := range loaded.All() {
		assert.NotEmpty(t, p.Name)
		assert.Greater(t, p.InterestRate, 0.0)
		if p.Type.IsLoan() {
			loans++
		}
		if p.Type.Domain() == domain.DomainDepositSavings {
			deposits++
		}
	}
	assert.Equal(t, 4, loans)
	assert.Equal(t, 8, deposits)
}
