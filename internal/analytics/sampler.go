package analytics

import "math/rand/v2"

// MetricSampler supplies the illustrative figures in the reporting views
// (simulated response times, ratings) that no real desk currently measures.
// Tests inject a deterministic sampler.
type MetricSampler interface {
	IntBetween(min, max int) int
	FloatBetween(min, max float64) float64
}

// RandomSampler draws uniformly within the given bounds.
type RandomSampler struct{}

func (RandomSampler) IntBetween(min, max int) int {
	if max <= min {
		return min
	}
	return min + rand.IntN(max-min+1)
}

func (RandomSampler) FloatBetween(min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + rand.Float64()*(max-min)
}

// FixedSampler always returns its configured values.
type FixedSampler struct {
	Int   int
	Float float64
}

func (s FixedSampler) IntBetween(int, int) int               { return s.Int }
func (s FixedSampler) FloatBetween(float64, float64) float64 { return s.Float }
