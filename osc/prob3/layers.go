package prob3

import (
	"fmt"

	"github.com/cwbudde/algo-nuosc/osc/cmat3"
	"github.com/cwbudde/algo-vecmath"
)

// Propagator chains per-layer transition matrices and turns the product
// into flavor oscillation probabilities.
//
// A Propagator owns scratch memory and is not safe for concurrent use;
// give each goroutine its own.
type Propagator struct {
	cfg Config
	mix Matrix
	dm  RealMatrix
	nsi RealMatrix

	layers []Matrix
	re     []float64
	im     []float64
	power  []float64
}

// NewPropagator returns a Propagator for the neutrino-convention mixing
// matrix mix, vacuum splittings dm (dm[i][j] = m_i^2 - m_j^2) and NSI
// couplings nsiEps (nil for standard interactions).
func NewPropagator(mix *Matrix, dm *RealMatrix, nsiEps *RealMatrix, opts ...Option) *Propagator {
	cfg := ApplyOptions(opts...)
	p := &Propagator{
		cfg:    cfg,
		mix:    *mix,
		dm:     *dm,
		layers: make([]Matrix, cfg.MaxLayers),
		re:     make([]float64, 9),
		im:     make([]float64, 9),
		power:  make([]float64, 9),
	}
	if nsiEps != nil {
		p.nsi = *nsiEps
	}
	return p
}

// Config returns the propagator configuration.
func (p *Propagator) Config() Config {
	return p.cfg
}

// Amplitudes sets dst to the flavor-basis amplitude operator for the
// layers in traversal order. Layers with distance <= 0 are skipped; with
// no remaining layer dst is the identity.
func (p *Propagator) Amplitudes(dst *Matrix, nu NuType, energy Real, densities, distances []Real) error {
	if !nu.Valid() {
		return fmt.Errorf("%w: got %d", ErrInvalidNuType, nu)
	}
	if len(densities) != len(distances) {
		return fmt.Errorf("%w: %d densities, %d distances", ErrLayerMismatch, len(densities), len(distances))
	}
	if len(distances) > p.cfg.MaxLayers {
		return fmt.Errorf("%w: %d > %d", ErrTooManyLayers, len(distances), p.cfg.MaxLayers)
	}

	mix := NewMixing(&p.mix, nu)

	var hVac Matrix
	VacuumHamiltonian(&hVac, &mix, &p.dm)

	var product, tmp Matrix
	first := true
	for i, distance := range distances {
		if distance <= 0 {
			continue
		}

		layer := &p.layers[i]
		if hit := p.cached(i, densities, distances); hit >= 0 {
			cmat3.Copy(layer, &p.layers[hit])
		} else {
			TransitionMatrix(layer, nu, energy, densities[i], distance, 0, &mix, &p.nsi, &hVac, &p.dm)
		}

		if first {
			cmat3.Copy(&product, layer)
			first = false
			continue
		}
		cmat3.Mul(&tmp, layer, &product)
		cmat3.Copy(&product, &tmp)
	}

	if first {
		product = cmat3.Identity[Real]()
	}

	// back to the flavor basis
	cmat3.Mul(&tmp, &product, &mix.UDagger)
	cmat3.Mul(dst, &mix.U, &tmp)
	return nil
}

// cached returns the index of an earlier computed layer matching layer i,
// or -1.
func (p *Propagator) cached(i int, densities, distances []Real) int {
	if !p.cfg.LayerCache {
		return -1
	}
	tol := p.cfg.CacheTolerance
	hit := -1
	for j := range i {
		if distances[j] <= 0 {
			continue
		}
		if absReal(densities[j]-densities[i]) < tol && absReal(distances[j]-distances[i]) < tol {
			hit = j
		}
	}
	return hit
}

// Probabilities sets dst[i][j] to the probability of flavor i (or mass
// eigenstate i+1 with [WithMassEigenstateInput]) arriving as flavor j.
func (p *Propagator) Probabilities(dst *[3][3]Real, nu NuType, energy Real, densities, distances []Real) error {
	var amp Matrix
	if err := p.Amplitudes(&amp, nu, energy, densities, distances); err != nil {
		return err
	}

	var mix Mixing
	if p.cfg.MassEigenstateInput {
		mix = NewMixing(&p.mix, nu)
	}

	var in, out Vector
	for i := range 3 {
		if p.cfg.MassEigenstateInput {
			if err := ConvertFromMassEigenstate(&in, i+1, &mix.U); err != nil {
				return err
			}
		} else {
			cmat3.ClearVector(&in)
			in[i].Re = 1
		}

		cmat3.MulVec(&out, &amp, &in)
		for j := range 3 {
			p.re[3*i+j] = float64(out[j].Re)
			p.im[3*i+j] = float64(out[j].Im)
		}
	}

	vecmath.Power(p.power, p.re, p.im)
	for i := range 3 {
		for j := range 3 {
			dst[i][j] = Real(p.power[3*i+j])
		}
	}
	return nil
}

func absReal(x Real) Real {
	if x < 0 {
		return -x
	}
	return x
}
