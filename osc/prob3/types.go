package prob3

import (
	"errors"

	"github.com/cwbudde/algo-nuosc/osc/cmat3"
)

// Errors returned by prob3 functions.
var (
	ErrInvalidState  = errors.New("prob3: mass eigenstate must be 1, 2 or 3")
	ErrLayerMismatch = errors.New("prob3: densities and distances differ in length")
	ErrTooManyLayers = errors.New("prob3: layer count exceeds configured maximum")
	ErrInvalidNuType = errors.New("prob3: neutrino type must be +1 or -1")
)

type (
	// Matrix is a complex 3x3 matrix at engine precision.
	Matrix = cmat3.Matrix[Real]
	// Vector is a complex 3-vector at engine precision.
	Vector = cmat3.Vector[Real]
	// RealMatrix is a real 3x3 matrix at engine precision.
	RealMatrix = cmat3.RealMatrix[Real]
	// Complex is a complex scalar at engine precision.
	Complex = cmat3.Complex[Real]
)

// NuType selects neutrino (+1) or antineutrino (-1).
type NuType int

const (
	Neutrino     NuType = 1
	Antineutrino NuType = -1
)

// String returns "nu" or "nubar".
func (t NuType) String() string {
	if t < 0 {
		return "nubar"
	}
	return "nu"
}

// Valid reports whether t is Neutrino or Antineutrino.
func (t NuType) Valid() bool {
	return t == Neutrino || t == Antineutrino
}

const (
	// tworttwoGf is 2*sqrt(2)*G_F in (eV^2 cm^3)/(mol GeV).
	tworttwoGf = 1.52588e-4

	// nsiDensityScale assumes 3x the electron density for the NSI quark
	// density.
	nsiDensityScale = 3.0

	// hbarCFactor is (1/2)*(1/(hbar*c)) in GeV/(eV^2 km).
	hbarCFactor = 2.534
)

// Mixing holds a mixing matrix already adjusted for the neutrino type
// together with its conjugate transpose.
type Mixing struct {
	U       Matrix
	UDagger Matrix
}

// NewMixing prepares mix for nu. Antineutrinos use the complex conjugate
// of the PMNS matrix.
func NewMixing(mix *Matrix, nu NuType) Mixing {
	var m Mixing
	if nu < 0 {
		cmat3.Conj(&m.U, mix)
	} else {
		cmat3.Copy(&m.U, mix)
	}
	cmat3.ConjTranspose(&m.UDagger, &m.U)
	return m
}
