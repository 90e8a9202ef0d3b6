package sim

import (
	"math"
	"math/rand"
)

// Sampler wraps a single seeded RNG stream. Every stochastic draw in the
// simulation goes through this one stream, so the draw order is part of the
// reproducibility contract: two runs with the same seed consume the stream
// identically and produce identical results.
type Sampler struct {
	rng *rand.Rand
}

// NewSampler creates a Sampler seeded with the given value.
func NewSampler(seed int64) *Sampler {
	return &Sampler{rng: rand.New(rand.NewSource(seed))}
}

// Float64 returns a uniform draw in [0, 1).
func (s *Sampler) Float64() float64 {
	return s.rng.Float64()
}

// Uniform returns a uniform draw in [lo, hi).
func (s *Sampler) Uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*s.rng.Float64()
}

// Exp returns an exponential draw with the given mean.
func (s *Sampler) Exp(mean float64) float64 {
	return s.rng.ExpFloat64() * mean
}

// NormalPositive returns a normal draw truncated to be strictly positive:
// values <= 0 are redrawn. Used for all stage service times.
func (s *Sampler) NormalPositive(mean, std float64) float64 {
	val := -1.0
	for val <= 0 {
		val = s.rng.NormFloat64()*std + mean
	}
	return val
}

// LogNormal returns exp(mu + sigma*Z). Used for prep and dining times.
func (s *Sampler) LogNormal(mu, sigma float64) float64 {
	return math.Exp(mu + sigma*s.rng.NormFloat64())
}

// WeightedChoice returns one of keys drawn with the given weights, which are
// normalized internally. Keys are scanned in the given order, so callers
// must pass a stable ordering for reproducibility.
func (s *Sampler) WeightedChoice(keys []string, weights []float64) string {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	u := s.rng.Float64() * total
	cum := 0.0
	for i, w := range weights {
		cum += w
		if u < cum {
			return keys[i]
		}
	}
	return keys[len(keys)-1]
}

// partySizes and partySizeWeights define the arrival party-size mix:
// 1=15%, 2=35%, 3=25%, 4=15%, 5=5%, 6=3%, 7=1%, 8=1%, 9=0.5%, 10=0.5%.
var (
	partySizes       = []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	partySizeWeights = []float64{0.15, 0.35, 0.25, 0.15, 0.05, 0.03, 0.01, 0.01, 0.005, 0.005}
)

// PartySize draws a party size from the weighted size table.
func (s *Sampler) PartySize() int {
	total := 0.0
	for _, w := range partySizeWeights {
		total += w
	}
	u := s.rng.Float64() * total
	cum := 0.0
	for i, w := range partySizeWeights {
		cum += w
		if u < cum {
			return partySizes[i]
		}
	}
	return partySizes[len(partySizes)-1]
}
