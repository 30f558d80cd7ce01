//go:build prob3single

package prob3

// Real is the floating-point type used throughout the engine.
type Real = float32

// degeneracyTolerance is the relative eigenvalue gap below which the
// projector product is considered singular.
const degeneracyTolerance = 1e-4
