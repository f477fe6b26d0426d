// Package rng provides the random-number utilities the reactive-step
// controller needs: weighted shuffling of candidates by current rate, and
// the uniform/threshold draws the acceptance policies consume.
package rng

import "math/rand"

// Source is the subset of *math/rand.Rand the package needs, so callers can
// inject a seeded, deterministic source in tests.
type Source interface {
	Float64() float64
	Intn(n int) int
}

// WeightedShuffle reorders items in place so that the probability of any
// item landing in position 0 is proportional to its weight, then among the
// remaining items for position 1, and so on. When weights is empty, or
// every weight is exactly zero, it falls back to a uniform Fisher-Yates
// shuffle.
func WeightedShuffle[T any](src Source, items []T, weights []float64) {
	if len(weights) == 0 || allZero(weights) {
		UniformShuffle(src, items)
		return
	}
	if len(weights) != len(items) {
		panic("rng: WeightedShuffle requires one weight per item")
	}

	remaining := append([]float64(nil), weights...)
	for first := 0; first < len(items)-1; first++ {
		i := weightedPick(src, remaining[first:])
		if i != 0 {
			j := first + i
			items[first], items[j] = items[j], items[first]
			remaining[first], remaining[j] = remaining[j], remaining[first]
		}
	}
}

func allZero(weights []float64) bool {
	for _, w := range weights {
		if w != 0 {
			return false
		}
	}
	return true
}

// weightedPick draws an index in [0, len(weights)) with probability
// proportional to weights[i], mirroring std::discrete_distribution.
func weightedPick(src Source, weights []float64) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return src.Intn(len(weights))
	}
	target := src.Float64() * total
	cumulative := 0.0
	for i, w := range weights {
		cumulative += w
		if target < cumulative {
			return i
		}
	}
	return len(weights) - 1
}

// UniformShuffle performs an unweighted Fisher-Yates shuffle.
func UniformShuffle[T any](src Source, items []T) {
	for i := len(items) - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}

// New wraps a seeded math/rand.Rand as a Source.
func New(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}
