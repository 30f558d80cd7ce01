package batch

import (
	"bytes"
	"context"
	"errors"
	"math"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-nuosc/internal/testutil"
	"github.com/cwbudde/algo-nuosc/osc/cmat3"
	"github.com/cwbudde/algo-nuosc/osc/earth"
	"github.com/cwbudde/algo-nuosc/osc/params"
	"github.com/cwbudde/algo-nuosc/osc/prob3"
)

// singlePrecision is true when built with -tags prob3single.
const singlePrecision = prob3.Real(1+1e-10) == 1

// stochasticTol is the row and column sum tolerance of the active precision.
func stochasticTol() float64 {
	if singlePrecision {
		return 1e-4
	}
	return 1e-6
}

func profile() ([]float64, []float64) {
	return []float64{0, 1.64, 2.48, 5.26, 2.48, 1.64}, []float64{20, 670, 2221, 4000, 2221, 668}
}

func scanJobs(n int) []Job {
	densities, distances := profile()
	jobs := make([]Job, n)
	for i := range jobs {
		nu := prob3.Neutrino
		if i%2 == 1 {
			nu = prob3.Antineutrino
		}
		jobs[i] = Job{
			NuType:    nu,
			Energy:    0.5 + 0.25*float64(i),
			Densities: densities,
			Distances: distances,
		}
	}
	return jobs
}

func TestNewRejectsInvalidParams(t *testing.T) {
	_, err := New(params.Apply(params.WithAngles(-1, 0, 0)))
	require.ErrorIs(t, err, params.ErrInvalidAngle)
}

func TestRunMatchesPropagator(t *testing.T) {
	p := params.Default()
	e, err := New(p, WithWorkers(3), WithChunkSize(2))
	require.NoError(t, err)

	jobs := scanJobs(11)
	results, err := e.Run(context.Background(), jobs)
	require.NoError(t, err)
	require.Len(t, results, len(jobs))

	mix := p.MixingMatrix()
	dm := p.SplittingMatrix()
	var mixR prob3.Matrix
	var dmR prob3.RealMatrix
	cmat3.Convert(&mixR, &mix)
	cmat3.ConvertReal(&dmR, &dm)
	prop := prob3.NewPropagator(&mixR, &dmR, nil)

	for i, job := range jobs {
		require.NoError(t, results[i].Err, "job %d", i)
		var want [3][3]prob3.Real
		require.NoError(t, prop.Probabilities(&want, job.NuType, prob3.Real(job.Energy), toReal(nil, job.Densities), toReal(nil, job.Distances)))
		for a := range 3 {
			for b := range 3 {
				require.Equal(t, float64(want[a][b]), results[i].Prob[a][b], "job %d P[%d][%d]", i, a, b)
			}
		}
		testutil.RequireStochastic(t, &results[i].Prob, stochasticTol())
	}
}

func TestRunIsIndependentOfWorkerCount(t *testing.T) {
	jobs := scanJobs(40)

	single, err := New(params.Default(), WithWorkers(1))
	require.NoError(t, err)
	parallel, err := New(params.Default(), WithWorkers(8), WithChunkSize(1))
	require.NoError(t, err)

	a, err := single.Run(context.Background(), jobs)
	require.NoError(t, err)
	b, err := parallel.Run(context.Background(), jobs)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestRunIsolatesFailures(t *testing.T) {
	e, err := New(params.Default(), WithWorkers(2), WithChunkSize(1))
	require.NoError(t, err)

	densities, distances := profile()
	jobs := []Job{
		{NuType: prob3.Neutrino, Energy: 2, Densities: densities, Distances: distances},
		{NuType: prob3.Neutrino, Energy: 0, Densities: densities, Distances: distances},
		{NuType: prob3.Neutrino, Energy: math.NaN(), Densities: densities, Distances: distances},
		{NuType: prob3.Neutrino, Energy: 2, Densities: densities[:2], Distances: distances},
		{NuType: 0, Energy: 2, Densities: densities, Distances: distances},
		{NuType: prob3.Neutrino, Energy: 2, Densities: []float64{math.NaN()}, Distances: []float64{1000}},
		{NuType: prob3.Antineutrino, Energy: 3, Densities: densities, Distances: distances},
	}

	results, err := e.Run(context.Background(), jobs)
	require.NoError(t, err)

	require.NoError(t, results[0].Err)
	require.ErrorIs(t, results[1].Err, ErrInvalidEnergy)
	require.ErrorIs(t, results[2].Err, ErrInvalidEnergy)
	require.ErrorIs(t, results[3].Err, prob3.ErrLayerMismatch)
	require.ErrorIs(t, results[4].Err, prob3.ErrInvalidNuType)
	require.ErrorIs(t, results[5].Err, ErrNumericalDegeneracy)
	require.NoError(t, results[6].Err)
	testutil.RequireStochastic(t, &results[6].Prob, stochasticTol())
}

func TestRunCanceled(t *testing.T) {
	e, err := New(params.Default(), WithWorkers(2))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := e.Run(ctx, scanJobs(16))
	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, results, 16)
	for i := range results {
		require.ErrorIs(t, results[i].Err, context.Canceled)
	}
}

func TestRunEmpty(t *testing.T) {
	e, err := New(params.Default())
	require.NoError(t, err)
	results, err := e.Run(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestMetricsCountOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	e, err := New(params.Default(), WithMetrics(m), WithWorkers(2))
	require.NoError(t, err)

	jobs := scanJobs(5)
	jobs[3].Energy = -1
	_, err = e.Run(context.Background(), jobs)
	require.NoError(t, err)

	require.Equal(t, 4.0, promtest.ToFloat64(m.jobs.WithLabelValues(OutcomeOK)))
	require.Equal(t, 1.0, promtest.ToFloat64(m.jobs.WithLabelValues(OutcomeInvalidInput)))
	require.Equal(t, 1, promtest.CollectAndCount(m.duration))

	// a second registration reuses the collectors
	again, err := NewMetrics(reg)
	require.NoError(t, err)
	require.Same(t, m.jobs, again.jobs)

	unregistered, err := NewMetrics(nil)
	require.NoError(t, err)
	require.NotNil(t, unregistered.jobs)
}

func TestRunLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	e, err := New(params.Default(), WithLogger(logger))
	require.NoError(t, err)

	_, err = e.Run(context.Background(), scanJobs(3))
	require.NoError(t, err)
	require.Contains(t, buf.String(), "batch finished")
	require.Contains(t, buf.String(), "jobs=3")
}

func TestGrid(t *testing.T) {
	e, err := New(params.Default(), WithWorkers(4))
	require.NoError(t, err)

	energies, err := LogSpaceEnergies(1, 20, 5)
	require.NoError(t, err)
	cosZens := []float64{-1, -0.5, 2, 0.3}

	grid, err := e.Grid(context.Background(), earth.PREM4(), earth.DefaultGeometry(), prob3.Neutrino, energies, cosZens)
	require.NoError(t, err)
	require.Len(t, grid, len(cosZens))

	for i, row := range grid {
		require.Len(t, row, len(energies))
		for j := range row {
			if cosZens[i] == 2 {
				require.True(t, errors.Is(row[j].Err, earth.ErrInvalidCosZen))
				continue
			}
			require.NoError(t, row[j].Err)
			testutil.RequireStochastic(t, &row[j].Prob, stochasticTol())
		}
	}

	// a short down-going path barely oscillates at high energy
	require.Greater(t, grid[3][4].Prob[1][1], 0.99)
}

func TestSpacing(t *testing.T) {
	e, err := LogSpaceEnergies(1, 100, 3)
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{1, 10, 100}, e, 1e-12)

	l, err := LinSpace(-1, 1, 5)
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{-1, -0.5, 0, 0.5, 1}, l, 1e-15)

	_, err = LogSpaceEnergies(0, 1, 10)
	require.ErrorIs(t, err, ErrInvalidRange)
	_, err = LinSpace(0, 1, 1)
	require.ErrorIs(t, err, ErrInvalidRange)
}
