package prob3

import (
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-nuosc/osc/cmat3"
	"github.com/cwbudde/algo-nuosc/osc/exact"
)

// Normal-ordering best-fit parameters.
var (
	testTheta12 = math.Asin(math.Sqrt(0.306))
	testTheta13 = math.Asin(math.Sqrt(0.02166))
	testTheta23 = math.Asin(math.Sqrt(0.441))
	testDeltaCP = 261.0 / 180.0 * math.Pi
	testDM21    = 7.5e-5
	testDM31    = 2.524e-3
)

func pmns(t12, t13, t23, dcp float64) Matrix {
	s12, c12 := math.Sincos(t12)
	s13, c13 := math.Sincos(t13)
	s23, c23 := math.Sincos(t23)
	eid := cmplx.Exp(complex(0, dcp))

	u := [3][3]complex128{
		{complex(c12*c13, 0), complex(s12*c13, 0), complex(s13, 0) / eid},
		{complex(-s12*c23, 0) - complex(c12*s23*s13, 0)*eid, complex(c12*c23, 0) - complex(s12*s23*s13, 0)*eid, complex(s23*c13, 0)},
		{complex(s12*s23, 0) - complex(c12*c23*s13, 0)*eid, complex(-c12*s23, 0) - complex(s12*c23*s13, 0)*eid, complex(c23*c13, 0)},
	}

	var m Matrix
	for i := range 3 {
		for j := range 3 {
			m[i][j] = cmat3.FromComplex128[Real](u[i][j])
		}
	}
	return m
}

func defaultMixing() Matrix {
	return pmns(testTheta12, testTheta13, testTheta23, testDeltaCP)
}

func splittings(dm21, dm31 float64) RealMatrix {
	mass := [3]float64{0, dm21, dm31}
	var dm RealMatrix
	for i := range 3 {
		for j := range 3 {
			dm[i][j] = Real(mass[i] - mass[j])
		}
	}
	return dm
}

// referenceTransition evaluates the mass-basis transition matrix
// U^dagger exp(-i*2*hbarC*L*Hfull) U with the exact eigensolver.
func referenceTransition(nu NuType, energy, density, length Real, mix *Mixing, nsi *RealMatrix, dm *RealMatrix) (Matrix, error) {
	var hVac, hMat, hFull, tmp, hFullMass Matrix
	VacuumHamiltonian(&hVac, mix, dm)
	MatterHamiltonian(&hMat, density, nsi, nu)
	CombineVacuumAndMatter(&hFull, energy, &hVac, &hMat)

	cmat3.Mul(&tmp, &hFull, &mix.U)
	cmat3.Mul(&hFullMass, &mix.UDagger, &tmp)

	// Hermitize away rounding noise before the strict check.
	var herm, hermT cmat3.Matrix[float64]
	cmat3.Convert(&herm, &hFullMass)
	cmat3.ConjTranspose(&hermT, &herm)
	cmat3.Add(&herm, &herm, &hermT)
	cmat3.Scale(&herm, &herm, 0.5)

	var out cmat3.Matrix[float64]
	if err := exact.Evolve(&out, &herm, 2*hbarCFactor*float64(length)); err != nil {
		return Matrix{}, err
	}
	var t Matrix
	cmat3.Convert(&t, &out)
	return t, nil
}

func maxAbsDiff(a, b *Matrix) float64 {
	var m float64
	for i := range 3 {
		for j := range 3 {
			m = math.Max(m, cmplx.Abs(a[i][j].Complex128()-b[i][j].Complex128()))
		}
	}
	return m
}
