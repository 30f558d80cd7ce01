// Package params holds the three-flavor oscillation parameters and turns
// them into the matrices consumed by the propagation engine.
package params

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-nuosc/osc/cmat3"
)

// Errors returned by Validate and Load.
var (
	ErrInvalidAngle       = errors.New("params: mixing angle outside [0, pi/2]")
	ErrInvalidSplitting   = errors.New("params: mass splitting is not finite")
	ErrNonHermitianNSI    = errors.New("params: NSI matrix is not symmetric")
	ErrUnsupportedFormat  = errors.New("params: unsupported config format")
	ErrConflictingEntries = errors.New("params: angle given both in degrees and as sin^2")
)

// Params are the vacuum oscillation parameters plus real NSI couplings.
//
// Splittings are in eV^2, angles in radians. DeltaM31 < 0 selects the
// inverted ordering.
type Params struct {
	DeltaM21 float64
	DeltaM31 float64
	Theta12  float64
	Theta13  float64
	Theta23  float64
	DeltaCP  float64

	// NSI holds eps_ab with rows and columns ordered e, mu, tau.
	NSI [3][3]float64
}

// Option mutates Params.
type Option func(*Params)

// Default returns normal-ordering parameters near the global best fit.
func Default() Params {
	return Params{
		DeltaM21: 7.5e-5,
		DeltaM31: 2.524e-3,
		Theta12:  angleFromSin2(0.306),
		Theta13:  angleFromSin2(0.02166),
		Theta23:  angleFromSin2(0.441),
		DeltaCP:  261 * math.Pi / 180,
	}
}

// WithMassSplittings sets Delta m^2_21 and Delta m^2_31.
func WithMassSplittings(dm21, dm31 float64) Option {
	return func(p *Params) {
		p.DeltaM21 = dm21
		p.DeltaM31 = dm31
	}
}

// WithAngles sets the three mixing angles in radians.
func WithAngles(theta12, theta13, theta23 float64) Option {
	return func(p *Params) {
		p.Theta12 = theta12
		p.Theta13 = theta13
		p.Theta23 = theta23
	}
}

// WithDeltaCP sets the Dirac CP phase in radians.
func WithDeltaCP(delta float64) Option {
	return func(p *Params) {
		p.DeltaCP = delta
	}
}

// WithNSI sets the NSI coupling matrix.
func WithNSI(eps [3][3]float64) Option {
	return func(p *Params) {
		p.NSI = eps
	}
}

// Apply applies opts to the default parameters.
func Apply(opts ...Option) Params {
	p := Default()
	for _, opt := range opts {
		if opt != nil {
			opt(&p)
		}
	}
	return p
}

// Validate checks ranges and finiteness.
func (p Params) Validate() error {
	for _, a := range []struct {
		name  string
		value float64
	}{
		{"theta12", p.Theta12},
		{"theta13", p.Theta13},
		{"theta23", p.Theta23},
	} {
		if !(a.value >= 0 && a.value <= math.Pi/2) {
			return fmt.Errorf("%w: %s = %v", ErrInvalidAngle, a.name, a.value)
		}
	}
	if math.IsNaN(p.DeltaCP) || math.IsInf(p.DeltaCP, 0) {
		return fmt.Errorf("%w: deltacp = %v", ErrInvalidAngle, p.DeltaCP)
	}
	for _, dm := range []float64{p.DeltaM21, p.DeltaM31} {
		if math.IsNaN(dm) || math.IsInf(dm, 0) {
			return fmt.Errorf("%w: %v", ErrInvalidSplitting, dm)
		}
	}
	for i := range 3 {
		for j := range 3 {
			v := p.NSI[i][j]
			if math.IsNaN(v) || math.IsInf(v, 0) || v != p.NSI[j][i] {
				return fmt.Errorf("%w: eps[%d][%d] = %v, eps[%d][%d] = %v", ErrNonHermitianNSI, i, j, v, j, i, p.NSI[j][i])
			}
		}
	}
	return nil
}

// MixingMatrix returns the PMNS matrix in the standard parametrization
//
//	U = R23 * U13(delta) * R12
//
// for neutrinos. Antineutrino propagation conjugates it downstream.
func (p Params) MixingMatrix() cmat3.Matrix[float64] {
	s12, c12 := math.Sincos(p.Theta12)
	s13, c13 := math.Sincos(p.Theta13)
	s23, c23 := math.Sincos(p.Theta23)
	sd, cd := math.Sincos(p.DeltaCP)

	var u cmat3.Matrix[float64]
	u[0][0] = cmat3.Cplx(c12*c13, 0)
	u[0][1] = cmat3.Cplx(s12*c13, 0)
	u[0][2] = cmat3.Cplx(s13*cd, -s13*sd)

	u[1][0] = cmat3.Cplx(-s12*c23-c12*s23*s13*cd, -c12*s23*s13*sd)
	u[1][1] = cmat3.Cplx(c12*c23-s12*s23*s13*cd, -s12*s23*s13*sd)
	u[1][2] = cmat3.Cplx(s23*c13, 0)

	u[2][0] = cmat3.Cplx(s12*s23-c12*c23*s13*cd, -c12*c23*s13*sd)
	u[2][1] = cmat3.Cplx(-c12*s23-s12*c23*s13*cd, -s12*c23*s13*sd)
	u[2][2] = cmat3.Cplx(c23*c13, 0)
	return u
}

// SplittingMatrix returns dm[i][j] = m_i^2 - m_j^2 with m_1 = 0.
func (p Params) SplittingMatrix() cmat3.RealMatrix[float64] {
	mass := [3]float64{0, p.DeltaM21, p.DeltaM31}
	var dm cmat3.RealMatrix[float64]
	for i := range 3 {
		for j := range 3 {
			dm[i][j] = mass[i] - mass[j]
		}
	}
	return dm
}

// NSIMatrix returns the NSI couplings as a real matrix.
func (p Params) NSIMatrix() cmat3.RealMatrix[float64] {
	return cmat3.RealMatrix[float64](p.NSI)
}

// Sin2 returns sin^2 of the three mixing angles.
func (p Params) Sin2() (s12, s13, s23 float64) {
	sq := func(x float64) float64 {
		s := math.Sin(x)
		return s * s
	}
	return sq(p.Theta12), sq(p.Theta13), sq(p.Theta23)
}

func angleFromSin2(s2 float64) float64 {
	return math.Asin(math.Sqrt(s2))
}
