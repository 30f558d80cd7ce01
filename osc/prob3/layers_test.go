package prob3

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-nuosc/internal/testutil"
	"github.com/cwbudde/algo-nuosc/osc/cmat3"
)

// symmetricProfile mimics a chord through two shells: atmosphere, mantle,
// core, mantle.
func symmetricProfile() (densities, distances []Real) {
	densities = []Real{0, 3.3 * 0.4957, 11.3 * 0.4656, 3.3 * 0.4957}
	distances = []Real{15, 2700, 3900, 2700}
	return densities, distances
}

func newDefaultPropagator(opts ...Option) *Propagator {
	u := defaultMixing()
	dm := splittings(testDM21, testDM31)
	return NewPropagator(&u, &dm, nil, opts...)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if !cfg.LayerCache || cfg.CacheTolerance != 1e-5 || cfg.MassEigenstateInput || cfg.MaxLayers != 120 {
		t.Fatalf("unexpected default config: %+v", cfg)
	}

	cfg = ApplyOptions(WithLayerCache(false), WithCacheTolerance(-1), WithMaxLayers(0), WithMassEigenstateInput())
	if cfg.LayerCache || cfg.CacheTolerance != 1e-5 || !cfg.MassEigenstateInput || cfg.MaxLayers != 120 {
		t.Fatalf("invalid options not ignored: %+v", cfg)
	}

	cfg = ApplyOptions(WithCacheTolerance(1e-3), WithMaxLayers(7), nil)
	if cfg.CacheTolerance != 1e-3 || cfg.MaxLayers != 7 {
		t.Fatalf("options not applied: %+v", cfg)
	}
}

func TestProbabilitiesAreUnitary(t *testing.T) {
	densities, distances := symmetricProfile()
	for _, nu := range []NuType{Neutrino, Antineutrino} {
		for _, energy := range []Real{0.5, 2, 6, 25} {
			p := newDefaultPropagator()
			var prob [3][3]Real
			if err := p.Probabilities(&prob, nu, energy, densities, distances); err != nil {
				t.Fatalf("%v E=%v: %v", nu, energy, err)
			}
			testutil.RequireStochastic(t, &prob, tol(1e-10, 1e-4))
		}
	}
}

func TestLayerCacheMatchesUncached(t *testing.T) {
	densities, distances := symmetricProfile()
	cached := newDefaultPropagator()
	uncached := newDefaultPropagator(WithLayerCache(false))

	for _, energy := range []Real{0.8, 3, 10} {
		var a, b Matrix
		if err := cached.Amplitudes(&a, Neutrino, energy, densities, distances); err != nil {
			t.Fatal(err)
		}
		if err := uncached.Amplitudes(&b, Neutrino, energy, densities, distances); err != nil {
			t.Fatal(err)
		}
		if a != b {
			t.Fatalf("E=%v: cached and uncached amplitudes differ\n%v\n%v", energy, a, b)
		}
	}
}

func TestAmplitudesChainsLayersInOrder(t *testing.T) {
	u := defaultMixing()
	dm := splittings(testDM21, testDM31)
	var nsi RealMatrix
	p := NewPropagator(&u, &dm, nil)

	densities := []Real{1.2, 5.6}
	distances := []Real{700, 1900}
	energy := Real(1.7)

	var got Matrix
	if err := p.Amplitudes(&got, Antineutrino, energy, densities, distances); err != nil {
		t.Fatal(err)
	}

	mix := NewMixing(&u, Antineutrino)
	var hVac, t1, t2, prod, tmp, want Matrix
	VacuumHamiltonian(&hVac, &mix, &dm)
	TransitionMatrix(&t1, Antineutrino, energy, densities[0], distances[0], 0, &mix, &nsi, &hVac, &dm)
	TransitionMatrix(&t2, Antineutrino, energy, densities[1], distances[1], 0, &mix, &nsi, &hVac, &dm)
	cmat3.Mul(&prod, &t2, &t1)
	cmat3.Mul(&tmp, &prod, &mix.UDagger)
	cmat3.Mul(&want, &mix.U, &tmp)

	if d := maxAbsDiff(&got, &want); d > tol(1e-14, 1e-6) {
		t.Fatalf("layer product deviates by %g", d)
	}
}

func TestProbabilitiesMatchVacuumFormula(t *testing.T) {
	u := defaultMixing()
	dm := splittings(testDM21, testDM31)
	p := NewPropagator(&u, &dm, nil)

	length, energy := 1300.0, 2.1
	var prob [3][3]Real
	if err := p.Probabilities(&prob, Neutrino, Real(energy), []Real{0}, []Real{Real(length)}); err != nil {
		t.Fatal(err)
	}

	// P(a->b) = |sum_k U_bk conj(U_ak) exp(-i*2.534*m_k*L/E)|^2
	for a := range 3 {
		for b := range 3 {
			var amp complex128
			for k := range 3 {
				phase := -hbarCFactor * float64(dm[k][0]) * length / energy
				amp += u[b][k].Complex128() * cmplx.Conj(u[a][k].Complex128()) * cmplx.Exp(complex(0, phase))
			}
			want := real(amp)*real(amp) + imag(amp)*imag(amp)
			if d := math.Abs(float64(prob[a][b]) - want); d > tol(1e-10, 1e-4) {
				t.Fatalf("P[%d][%d] = %v, want %v", a, b, prob[a][b], want)
			}
		}
	}
}

func TestMassEigenstateInputInVacuum(t *testing.T) {
	u := defaultMixing()
	p := newDefaultPropagator(WithMassEigenstateInput())
	if !p.Config().MassEigenstateInput {
		t.Fatal("option not stored")
	}

	var prob [3][3]Real
	if err := p.Probabilities(&prob, Neutrino, 1, []Real{0, 0}, []Real{400, 9000}); err != nil {
		t.Fatal(err)
	}

	// mass eigenstates do not oscillate in vacuum
	for k := range 3 {
		for j := range 3 {
			want := float64(u[j][k].Abs2())
			if d := math.Abs(float64(prob[k][j]) - want); d > tol(1e-10, 1e-4) {
				t.Fatalf("P(m%d -> %d) = %v, want |U|^2 = %v", k+1, j, prob[k][j], want)
			}
		}
	}
}

func TestAmplitudesWithoutLayersIsIdentity(t *testing.T) {
	p := newDefaultPropagator()
	id := cmat3.Identity[Real]()

	tests := []struct {
		name      string
		densities []Real
		distances []Real
	}{
		{"empty", nil, nil},
		{"zero-length", []Real{4, 2}, []Real{0, -3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Matrix
			if err := p.Amplitudes(&got, Neutrino, 1, tt.densities, tt.distances); err != nil {
				t.Fatal(err)
			}
			if !cmat3.NearlyEqual(&got, &id, tol(1e-15, 1e-6)) {
				t.Fatalf("got %v, want identity", got)
			}
		})
	}
}

func TestAmplitudesSkipsZeroLengthLayers(t *testing.T) {
	p := newDefaultPropagator()
	var withGap, without Matrix
	if err := p.Amplitudes(&withGap, Neutrino, 2, []Real{3, 9, 3}, []Real{500, 0, 500}); err != nil {
		t.Fatal(err)
	}
	if err := p.Amplitudes(&without, Neutrino, 2, []Real{3, 3}, []Real{500, 500}); err != nil {
		t.Fatal(err)
	}
	if withGap != without {
		t.Fatalf("zero-length layer changed the result\n%v\n%v", withGap, without)
	}
}

func TestPropagatorErrors(t *testing.T) {
	p := newDefaultPropagator(WithMaxLayers(2))
	var amp Matrix
	var prob [3][3]Real

	tests := []struct {
		name string
		err  error
		fn   func() error
	}{
		{"nutype", ErrInvalidNuType, func() error {
			return p.Amplitudes(&amp, 0, 1, []Real{1}, []Real{1})
		}},
		{"mismatch", ErrLayerMismatch, func() error {
			return p.Amplitudes(&amp, Neutrino, 1, []Real{1, 2}, []Real{1})
		}},
		{"too-many", ErrTooManyLayers, func() error {
			return p.Probabilities(&prob, Neutrino, 1, []Real{1, 2, 3}, []Real{1, 2, 3})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fn(); !errors.Is(err, tt.err) {
				t.Fatalf("err = %v, want %v", err, tt.err)
			}
		})
	}
}

func TestNuTypeString(t *testing.T) {
	if Neutrino.String() != "nu" || Antineutrino.String() != "nubar" {
		t.Fatalf("got %q, %q", Neutrino.String(), Antineutrino.String())
	}
	if NuType(0).Valid() || !Antineutrino.Valid() {
		t.Fatal("Valid misreports")
	}
}
