// Package prob3 computes neutrino flavor transition amplitudes and
// oscillation probabilities through layers of uniform-density matter.
//
// The numerical core follows the analytic three-flavor approach of Barger
// et al. as used by Prob3++: the full Hamiltonian of one layer is
// diagonalized in closed form (trigonometric roots of its characteristic
// cubic) and the propagator is assembled from the Sylvester projector
// product of eq. (10), avoiding explicit eigenvectors.
//
// # Pipeline
//
// [TransitionMatrix] evaluates one (type, energy, density, length) tuple:
//
//   - [MatterHamiltonian]: MSW potential plus non-standard interactions
//   - [CombineVacuumAndMatter]: H = Hvac/2E + Hmat
//   - [Diagonalize]: matter-modified mass-squared differences
//   - [ToMassEigenbasis]: Hmat rotated by the mixing matrix
//   - [BuildPropagator]: the transition amplitude operator
//
// [Propagator] chains layers (with a cache for the symmetric Earth
// profile), rotates the product into the flavor basis and returns
// probabilities. One Propagator per goroutine; every buffer it touches is
// owned by that goroutine.
//
// # Precision
//
// [Real] is float64. Building with -tags prob3single switches the whole
// engine to float32.
package prob3
