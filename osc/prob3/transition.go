package prob3

import (
	"fmt"

	"github.com/cwbudde/algo-nuosc/osc/cmat3"
)

// TransitionMatrix sets t to the transition amplitude matrix, in the mass
// eigenstate basis, of a neutrino of type nu and energy (GeV) crossing a
// layer of electron density (mol/cm^3) and length (km).
//
// mix must already be prepared for nu (see [NewMixing]), hVac must come
// from [VacuumHamiltonian] for the same mixing, and dm is the vacuum
// mass-squared splitting matrix. No input is validated; invalid values
// surface as NaN or Inf in t.
func TransitionMatrix(
	t *Matrix,
	nu NuType,
	energy, density, length, phaseOffset Real,
	mix *Mixing,
	nsiEps *RealMatrix,
	hVac *Matrix,
	dm *RealMatrix,
) {
	var hMat, hFull, hMass Matrix
	var dmMatVac, dmMatMat RealMatrix
	cmat3.Clear(&hFull)
	cmat3.Clear(&hMass)

	MatterHamiltonian(&hMat, density, nsiEps, nu)
	CombineVacuumAndMatter(&hFull, energy, hVac, &hMat)
	Diagonalize(&dmMatMat, &dmMatVac, energy, &hFull, dm)
	ToMassEigenbasis(&hMass, mix, &hMat)
	BuildPropagator(t, length, energy, &dmMatVac, &dmMatMat, &hMass, phaseOffset)
}

// ConvertFromMassEigenstate sets pure to the flavor-basis amplitudes of a
// neutrino produced in mass eigenstate state (1, 2 or 3). mix must already
// be prepared for the neutrino type.
func ConvertFromMassEigenstate(pure *Vector, state int, mix *Matrix) error {
	if state < 1 || state > 3 {
		return fmt.Errorf("%w: got %d", ErrInvalidState, state)
	}

	var mass Vector
	mass[state-1].Re = 1
	cmat3.MulVec(pure, mix, &mass)
	return nil
}
