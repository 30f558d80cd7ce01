package testutil

import (
	"math"
	"math/rand"
)

// TwoFlavorCurve samples the two-flavor survival probability
//
//	P = 1 - sin2TwoTheta * sin^2(1.267 * dm2 * L/E)
//
// on n points of L/E (km/GeV) starting at 0 with the given step.
func TwoFlavorCurve(dm2, sin2TwoTheta, lOverEStep float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		s := math.Sin(1.267 * dm2 * lOverEStep * float64(i))
		out[i] = 1 - sin2TwoTheta*s*s
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Add returns the element-wise sum of a and b, truncated to the shorter.
func Add(a, b []float64) []float64 {
	n := min(len(a), len(b))
	out := make([]float64, n)
	for i := range out {
		out[i] = a[i] + b[i]
	}
	return out
}
