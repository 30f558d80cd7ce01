package batch

import (
	"context"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-nuosc/osc/earth"
	"github.com/cwbudde/algo-nuosc/osc/prob3"
)

// ErrInvalidRange is returned for grid axes that cannot be sampled.
var ErrInvalidRange = errors.New("batch: invalid sampling range")

// Grid computes an oscillogram: results[i][j] is the probability matrix at
// cosZens[i] and energies[j] for paths through model. A cosine the model
// rejects fails its whole row.
func (e *Engine) Grid(ctx context.Context, model *earth.Model, g earth.Geometry, nu prob3.NuType, energies, cosZens []float64) ([][]Result, error) {
	jobs := make([]Job, 0, len(energies)*len(cosZens))
	rowErr := make([]error, len(cosZens))
	for i, cz := range cosZens {
		densities, distances, err := model.Layers(cz, g)
		if err != nil {
			rowErr[i] = err
			continue
		}
		for _, energy := range energies {
			jobs = append(jobs, Job{NuType: nu, Energy: energy, Densities: densities, Distances: distances})
		}
	}

	flat, err := e.Run(ctx, jobs)

	grid := make([][]Result, len(cosZens))
	k := 0
	for i := range cosZens {
		grid[i] = make([]Result, len(energies))
		if rowErr[i] != nil {
			for j := range grid[i] {
				grid[i][j].Err = rowErr[i]
			}
			continue
		}
		copy(grid[i], flat[k:k+len(energies)])
		k += len(energies)
	}
	return grid, err
}

// LogSpaceEnergies returns n energies spaced logarithmically from lo to hi.
func LogSpaceEnergies(lo, hi float64, n int) ([]float64, error) {
	if n < 2 || !(lo > 0) || !(hi > lo) {
		return nil, fmt.Errorf("%w: [%v, %v] with %d points", ErrInvalidRange, lo, hi, n)
	}
	return floats.LogSpan(make([]float64, n), lo, hi), nil
}

// LinSpace returns n evenly spaced values from lo to hi inclusive.
func LinSpace(lo, hi float64, n int) ([]float64, error) {
	if n < 2 || !(hi > lo) {
		return nil, fmt.Errorf("%w: [%v, %v] with %d points", ErrInvalidRange, lo, hi, n)
	}
	return floats.Span(make([]float64, n), lo, hi), nil
}
