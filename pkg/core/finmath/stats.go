package finmath

import (
	"math"
	"math/rand"
	"sort"
)

// ===== SAMPLING AND DESCRIPTIVE STATISTICS =====

// Sampler is a seeded source of normal draws. One sampler per run
// keeps stochastic extensions reproducible.
type Sampler struct {
	rng *rand.Rand
}

// NewSampler returns a sampler seeded for deterministic replay.
func NewSampler(seed int64) *Sampler {
	return &Sampler{rng: rand.New(rand.NewSource(seed))}
}

// Normal draws from N(mean, sigma).
func (s *Sampler) Normal(mean, sigma float64) float64 {
	return mean + sigma*s.rng.NormFloat64()
}

// CorrelatedStandardPair draws two standard normals with the given
// correlation, y = rho*x + sqrt(1-rho^2)*z.
func (s *Sampler) CorrelatedStandardPair(rho float64) (x, y float64) {
	x = s.rng.NormFloat64()
	z := s.rng.NormFloat64()
	y = rho*x + math.Sqrt(1.0-rho*rho)*z
	return x, y
}

// Clip bounds v to [lo, hi].
func Clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Mean of a sample. Zero for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev is the population standard deviation.
func StdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := Mean(values)
	var ss float64
	for _, v := range values {
		d := v - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)))
}

// Quantile returns the q-th quantile (0..1) with linear interpolation
// between order statistics. The input need not be sorted.
func Quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1.0-frac) + sorted[hi]*frac
}

// Median is the 50th percentile.
func Median(values []float64) float64 {
	return Quantile(values, 0.5)
}
