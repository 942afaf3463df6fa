package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ming-ming2/finpick-backend/internal/generator"
)

func main() {
	cfg := generator.DefaultConfig()
	var (
		deposits = flag.Int("deposits", cfg.NumDeposits, "number of deposit products to generate")
		savings  = flag.Int("savings", cfg.NumSavings, "number of savings products to generate")
		loans    = flag.Int("loans", cfg.NumLoans, "number of loan products to generate")
		tiers    = flag.Float64("tier-chance", cfg.TierChance, "probability of attaching preferential rate tiers")
		seed     = flag.Int64("seed", cfg.Seed, "random seed for deterministic generation")
		output   = flag.String("output", "data/financial_products.json", "catalog file to write")
	)
	flag.Parse()

	genCfg := generator.Config{
		NumDeposits: *deposits,
		NumSavings:  *savings,
		NumLoans:    *loans,
		TierChance:  clampProbability(*tiers),
		Seed:        *seed,
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	catalog, err := generator.New(genCfg).Generate(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generation failed: %v\n", err)
		os.Exit(1)
	}

	if err := generator.WriteCatalog(catalog, *output); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write catalog: %v\n", err)
		os.Exit(1)
	}

	total := len(catalog.Deposits) + len(catalog.Savings) + len(catalog.Loans)
	fmt.Fprintf(os.Stdout, "Generated %d products into %s\n", total, *output)
}

func clampProbability(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
