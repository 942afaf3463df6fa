package generator

// Config drives the synthetic catalog generator.
type Config struct {
	NumDeposits int
	NumSavings  int
	NumLoans    int
	TierChance  float64
	Seed        int64
}

// DefaultConfig returns baseline settings that produce a catalog large
// enough to exercise filtering, ranking and search locally.
func DefaultConfig() Config {
	return Config{
		NumDeposits: 40,
		NumSavings:  60,
		NumLoans:    40,
		TierChance:  0.4,
		Seed:        42,
	}
}
