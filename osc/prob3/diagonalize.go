package prob3

import "math"

// Diagonalize computes the mass-squared eigenvalues m_i of 2E*hFull in
// matter and returns their differences.
//
// dmMatMat[i][j] = m_i - m_j and dmMatVac[i][j] = m_i - dm[j][0]. The
// eigenvalues come from the trigonometric solution of the characteristic
// cubic of the Hermitian hFull. Each matter eigenvalue is labelled by the
// vacuum level it reproduces, found by solving the vacuum cubic the same
// way and matching it against dm[i][0].
//
// Intermediate arithmetic runs in float64 regardless of [Real].
func Diagonalize(dmMatMat, dmMatVac *RealMatrix, energy Real, hFull *Matrix, dm *RealMatrix) {
	h00 := hFull[0][0].Complex128()
	h11 := hFull[1][1].Complex128()
	h22 := hFull[2][2].Complex128()
	h01 := hFull[0][1].Complex128()
	h12 := hFull[1][2].Complex128()
	h20 := hFull[2][0].Complex128()

	realProductA := real(h01 * h12 * h20)
	realProductB := real(h00 * h11 * h22)

	normEMuSq := float64(hFull[0][1].Abs2())
	normETauSq := float64(hFull[0][2].Abs2())
	normMuTauSq := float64(hFull[1][2].Abs2())

	c1 := real(h00)*(real(h11)+real(h22)) -
		imag(h00)*(imag(h11)+imag(h22)) +
		real(h11)*real(h22) -
		imag(h11)*imag(h22) -
		normEMuSq - normMuTauSq - normETauSq

	c0 := real(h00)*normMuTauSq +
		real(h11)*normETauSq +
		real(h22)*normEMuSq -
		2.0*realProductA -
		realProductB

	c2 := -real(h00) - real(h11) - real(h22)

	e := float64(energy)
	oneOverTwoE := 0.5 / e
	const oneThird = 1.0 / 3.0
	const twoThird = 2.0 / 3.0

	x := float64(dm[1][0])
	y := float64(dm[2][0])
	dm00 := float64(dm[0][0])

	c2v := -oneOverTwoE * (x + y)

	p := math.Max(0, c2*c2-3.0*c1)
	pv := math.Max(0, oneOverTwoE*oneOverTwoE*(x*x+y*y-x*y))

	q := -13.5*c0 - c2*c2*c2 + 4.5*c1*c2
	qv := oneOverTwoE * oneOverTwoE * oneOverTwoE * (x + y) * ((x+y)*(x+y) - 4.5*x*y)

	// Both discriminants are non-negative for Hermitian input; rounding can
	// push them slightly below zero.
	disc := math.Max(0, p*p*p-q*q)
	discV := math.Max(0, pv*pv*pv-qv*qv)

	a := twoThird * math.Pi
	res := math.Atan2(math.Sqrt(disc), q) * oneThird
	resV := math.Atan2(math.Sqrt(discV), qv) * oneThird
	theta := [3]float64{res + a, res - a, res}
	thetaV := [3]float64{resV + a, resV - a, resV}

	b := twoThird * math.Sqrt(p)
	bv := twoThird * math.Sqrt(pv)

	var mU, mV [3]float64
	for i := range 3 {
		mU[i] = 2.0 * e * (b*math.Cos(theta[i]) - c2*oneThird + dm00)
		mV[i] = 2.0 * e * (bv*math.Cos(thetaV[i]) - c2v*oneThird + dm00)
	}

	var m [3]float64
	for i := range 3 {
		vac := float64(dm[i][0])
		best := math.Abs(vac - mV[0])
		k := 0
		for j := range 3 {
			if d := math.Abs(vac - mV[j]); d < best {
				k = j
				best = d
			}
		}
		m[i] = mU[k]
	}

	for i := range 3 {
		for j := range 3 {
			dmMatMat[i][j] = Real(m[i] - m[j])
			dmMatVac[i][j] = Real(m[i] - float64(dm[j][0]))
		}
	}
}
