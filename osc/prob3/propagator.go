package prob3

import (
	"math"

	"github.com/cwbudde/algo-nuosc/osc/cmat3"
	"github.com/cwbudde/algo-nuosc/osc/exact"
)

// BuildPropagator sets t to the transition amplitude matrix, in the mass
// eigenstate basis, for a layer of the given length (km) at energy (GeV).
//
// This is matrix A of eq. (10) in Barger et al.:
//
//	A = sum_k exp(-i*2.534*dmMatVac[k][0]*L/E) * prod_{j!=k} (M - m_j)/(m_k - m_j)
//
// with M = 2E*hMass + diag(dm[j][0]) expressed through dmMatVac.
// phaseOffset is added to the phase of the k = 2 term.
//
// When two or more eigenvalues coincide the projector product is 0/0. The
// same operator exp(-i*2.534*(L/E)*(M - dm00)) is then evaluated by the
// exact eigensolver instead. phaseOffset still rotates the k = 2 term as
// long as that level is isolated, since its projector stays well defined;
// when all three levels coincide it is dropped. NaN input never counts as
// degenerate and propagates into t.
func BuildPropagator(t *Matrix, length, energy Real, dmMatVac, dmMatMat *RealMatrix, hMass *Matrix, phaseOffset Real) {
	lOverE := float64(length) / float64(energy)

	if degenerate(dmMatVac, dmMatMat) {
		evolveExact(t, length, energy, dmMatVac, hMass)
		if phaseOffset != 0 && isolatedThirdLevel(dmMatVac, dmMatMat) {
			applyThirdLevelOffset(t, lOverE, energy, dmMatVac, dmMatMat, hMass, phaseOffset)
		}
		return
	}

	var product [3]Matrix
	projectorProduct(&product, energy, dmMatVac, dmMatMat, hMass)

	cmat3.Clear(t)
	for k := range 3 {
		arg := -float64(dmMatVac[k][0]) * lOverE * hbarCFactor
		if k == 2 {
			arg += float64(phaseOffset)
		}
		c := cmat3.Phase[Real](arg)
		for i := range 3 {
			for j := range 3 {
				t[i][j] = t[i][j].Add(c.Mul(product[k][i][j]))
			}
		}
	}
}

// projectorProduct fills product[k] = prod_{j!=k} (M - m_j)/(m_k - m_j).
func projectorProduct(product *[3]Matrix, energy Real, dmMatVac, dmMatMat *RealMatrix, hMass *Matrix) {
	// hMinusM[k] = 2E*hMass - diag(m_k - dm[j][0])
	var hMinusM [3]Matrix
	twoE := 2.0 * energy
	for k := range 3 {
		cmat3.Scale(&hMinusM[k], hMass, twoE)
		for j := range 3 {
			hMinusM[k][j][j].Re -= dmMatVac[k][j]
		}
		cmat3.Clear(&product[k])
	}

	for i := range 3 {
		for j := range 3 {
			for k := range 3 {
				product[0][i][j] = product[0][i][j].Add(hMinusM[1][i][k].Mul(hMinusM[2][k][j]))
				product[1][i][j] = product[1][i][j].Add(hMinusM[2][i][k].Mul(hMinusM[0][k][j]))
				product[2][i][j] = product[2][i][j].Add(hMinusM[0][i][k].Mul(hMinusM[1][k][j]))
			}
			product[0][i][j] = divReal(product[0][i][j], dmMatMat[0][1]*dmMatMat[0][2])
			product[1][i][j] = divReal(product[1][i][j], dmMatMat[1][2]*dmMatMat[1][0])
			product[2][i][j] = divReal(product[2][i][j], dmMatMat[2][0]*dmMatMat[2][1])
		}
	}
}

func divReal(z Complex, d Real) Complex {
	return Complex{Re: z.Re / d, Im: z.Im / d}
}

// degenerate reports whether the smallest eigenvalue gap is negligible
// against the largest eigenvalue.
func degenerate(dmMatVac, dmMatMat *RealMatrix) bool {
	gap := math.Min(math.Abs(float64(dmMatMat[0][1])),
		math.Min(math.Abs(float64(dmMatMat[0][2])), math.Abs(float64(dmMatMat[1][2]))))

	var scale float64
	for k := range 3 {
		scale = math.Max(scale, math.Abs(float64(dmMatVac[k][0])))
	}
	return gap <= degeneracyTolerance*scale
}

// isolatedThirdLevel reports whether m_2 is separated from both other
// eigenvalues.
func isolatedThirdLevel(dmMatVac, dmMatMat *RealMatrix) bool {
	gap := math.Min(math.Abs(float64(dmMatMat[2][0])), math.Abs(float64(dmMatMat[2][1])))
	var scale float64
	for k := range 3 {
		scale = math.Max(scale, math.Abs(float64(dmMatVac[k][0])))
	}
	return gap > degeneracyTolerance*scale
}

// applyThirdLevelOffset adds (exp(i*phaseOffset) - 1) times the k = 2 term
// to t. For Hermitian M with m_0 = m_1 the product (M - m_0)(M - m_1)
// still projects onto the m_2 eigenspace.
func applyThirdLevelOffset(t *Matrix, lOverE float64, energy Real, dmMatVac, dmMatMat *RealMatrix, hMass *Matrix, phaseOffset Real) {
	var product [3]Matrix
	projectorProduct(&product, energy, dmMatVac, dmMatMat, hMass)

	arg := -float64(dmMatVac[2][0]) * lOverE * hbarCFactor
	c := cmat3.Phase[Real](arg + float64(phaseOffset)).Sub(cmat3.Phase[Real](arg))
	for i := range 3 {
		for j := range 3 {
			t[i][j] = t[i][j].Add(c.Mul(product[2][i][j]))
		}
	}
}

// evolveExact evaluates exp(-i*2.534*(L/E)*(M - dm00)) with
// M - dm00 = 2E*hMass + diag(dm[j][0] - dm00), where
// dm[j][0] - dm00 = dmMatVac[0][0] - dmMatVac[0][j].
func evolveExact(t *Matrix, length, energy Real, dmMatVac *RealMatrix, hMass *Matrix) {
	var h cmat3.Matrix[float64]
	twoE := 2.0 * float64(energy)
	for i := range 3 {
		for j := range 3 {
			h[i][j] = cmat3.Cplx(twoE*float64(hMass[i][j].Re), twoE*float64(hMass[i][j].Im))
		}
		h[i][i].Re += float64(dmMatVac[0][0]) - float64(dmMatVac[0][i])
	}

	var out cmat3.Matrix[float64]
	if err := exact.Evolve(&out, &h, hbarCFactor*float64(length)/float64(energy)); err != nil {
		nan := Real(math.NaN())
		for i := range 3 {
			for j := range 3 {
				t[i][j] = cmat3.Cplx(nan, nan)
			}
		}
		return
	}
	cmat3.Convert(t, &out)
}
