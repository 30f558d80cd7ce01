package prob3

import "github.com/cwbudde/algo-nuosc/osc/cmat3"

// VacuumHamiltonian sets hVac = U diag(0, dm21, dm31) U^dagger.
//
// The 1/(2E) factor is left out; [CombineVacuumAndMatter] applies it per
// energy so one hVac serves a whole energy scan.
func VacuumHamiltonian(hVac *Matrix, mix *Mixing, dm *RealMatrix) {
	var diag, tmp Matrix
	diag[1][1].Re = dm[1][0]
	diag[2][2].Re = dm[2][0]

	cmat3.Mul(&tmp, &diag, &mix.UDagger)
	cmat3.Mul(hVac, &mix.U, &tmp)
}

// MatterHamiltonian sets hMat to the matter potential in the flavor basis
// for electron density rho (mol/cm^3).
//
// The charged-current term a = rho*sqrt(2)*G_F sits in the ee entry and
// flips sign for antineutrinos; nsiEps adds 3*a*eps[i][j] to every entry.
func MatterHamiltonian(hMat *Matrix, rho Real, nsiEps *RealMatrix, nu NuType) {
	a := 0.5 * rho * tworttwoGf
	if nu < 0 {
		a = -a
	}

	cmat3.Clear(hMat)
	hMat[0][0].Re = a

	fact := nsiDensityScale * a
	for i := range 3 {
		for j := range 3 {
			hMat[i][j].Re += fact * nsiEps[i][j]
		}
	}
}

// CombineVacuumAndMatter sets hFull = hVac/(2*energy) + hMat.
func CombineVacuumAndMatter(hFull *Matrix, energy Real, hVac, hMat *Matrix) {
	oneOverTwoE := 0.5 / energy
	cmat3.Scale(hFull, hVac, oneOverTwoE)
	cmat3.Add(hFull, hFull, hMat)
}

// ToMassEigenbasis sets hMass = U^dagger hMat U.
func ToMassEigenbasis(hMass *Matrix, mix *Mixing, hMat *Matrix) {
	var tmp Matrix
	cmat3.Mul(&tmp, hMat, &mix.U)
	cmat3.Mul(hMass, &mix.UDagger, &tmp)
}
