package domain

import "math"

// MaxSelection caps the number of items reviewed per day
const MaxSelection = 8

// rejectFactor bounds consecutive duplicate draws per candidate before the
// selector stops drawing from the full vector
const rejectFactor = 1000

// minExponent keeps 2^-mastery finite for hand-edited negative weights
const minExponent = -512

// RandSource is the randomness the Selector draws from.
// *math/rand/v2.Rand satisfies it.
type RandSource interface {
	Float64() float64
}

// SelectionCount returns how many of total items are reviewed today
func SelectionCount(total int) int {
	return max(1, min(total/2, MaxSelection))
}

// SamplingWeight returns 2^-mastery. Lower mastery is drawn more often.
func SamplingWeight(mastery int) float64 {
	return math.Ldexp(1, -max(mastery, minExponent))
}

// Selector picks today's review set by weighted sampling
type Selector struct {
	rng RandSource
}

// NewSelector creates a Selector drawing from rng
func NewSelector(rng RandSource) *Selector {
	return &Selector{rng: rng}
}

// Select returns up to SelectionCount distinct items from pm.
// Each draw uses the full weight vector and rejects items already chosen,
// so weights are not renormalised between draws.
func (s *Selector) Select(pm ProgressMap) []ItemRef {
	candidates := pm.Refs()
	if len(candidates) == 0 {
		return nil
	}

	count := SelectionCount(len(candidates))
	if len(candidates) <= count {
		return candidates
	}

	weights := make([]float64, len(candidates))
	total := 0.0
	for i, ref := range candidates {
		weights[i] = SamplingWeight(pm[ref.Folder][ref.Name].Mastery)
		total += weights[i]
	}
	if total == 0 {
		for i := range weights {
			weights[i] = 1
		}
		total = float64(len(weights))
	}

	chosen := make([]bool, len(candidates))
	drawable := 0 // undrawn candidates with a non-zero weight
	for _, w := range weights {
		if w > 0 {
			drawable++
		}
	}

	maxRejects := rejectFactor * len(candidates)
	rejects := 0

	selected := make([]ItemRef, 0, count)
	for len(selected) < count {
		var idx int
		if drawable > 0 && rejects < maxRejects {
			idx = s.draw(weights, total)
		} else {
			idx = s.drawRemaining(weights, chosen)
		}
		if chosen[idx] {
			rejects++
			continue
		}
		rejects = 0
		chosen[idx] = true
		if weights[idx] > 0 {
			drawable--
		}
		selected = append(selected, candidates[idx])
	}
	return selected
}

// draw performs one weighted draw over the full vector
func (s *Selector) draw(weights []float64, total float64) int {
	r := s.rng.Float64() * total
	acc := 0.0
	last := 0
	for i, w := range weights {
		if w == 0 {
			continue
		}
		acc += w
		last = i
		if r < acc {
			return i
		}
	}
	return last
}

// drawRemaining draws among the undrawn candidates only, uniformly when
// their weights have all underflowed to zero
func (s *Selector) drawRemaining(weights []float64, chosen []bool) int {
	open := make([]int, 0, len(chosen))
	total := 0.0
	for i, c := range chosen {
		if !c {
			open = append(open, i)
			total += weights[i]
		}
	}
	if total == 0 {
		return open[int(s.rng.Float64()*float64(len(open)))%len(open)]
	}
	r := s.rng.Float64() * total
	acc := 0.0
	for _, i := range open {
		acc += weights[i]
		if r < acc {
			return i
		}
	}
	return open[len(open)-1]
}
