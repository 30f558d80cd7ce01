// Package batch evaluates many independent propagation jobs in parallel.
//
// Every goroutine owns its own prob3.Propagator and writes only to the
// result slots of the jobs it took, so no mutable state is shared. A job
// that fails records its error in its Result; the batch carries on. Only
// context cancellation aborts a Run.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-nuosc/osc/cmat3"
	"github.com/cwbudde/algo-nuosc/osc/params"
	"github.com/cwbudde/algo-nuosc/osc/prob3"
)

// Per-job errors reported in Result.Err.
var (
	ErrInvalidEnergy       = errors.New("batch: energy must be positive and finite")
	ErrNumericalDegeneracy = errors.New("batch: non-finite probability")
)

// Job is one neutrino type and energy (GeV) crossing layers of electron
// density (mol/cm^3) and length (km) in traversal order.
type Job struct {
	NuType    prob3.NuType
	Energy    float64
	Densities []float64
	Distances []float64
}

// Result holds Prob[i][j], the probability of flavor i arriving as flavor
// j, or the reason the job failed.
type Result struct {
	Prob [3][3]float64
	Err  error
}

// Engine dispatches jobs for one set of oscillation parameters.
type Engine struct {
	cfg    Config
	logger *log.Logger

	mix prob3.Matrix
	dm  prob3.RealMatrix
	nsi prob3.RealMatrix
}

// New validates p and returns an Engine.
func New(p params.Params, opts ...Option) (*Engine, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("batch: %w", err)
	}

	cfg := ApplyOptions(opts...)
	e := &Engine{cfg: cfg, logger: cfg.Logger}
	if e.logger == nil {
		e.logger = log.New(io.Discard)
	}

	mix := p.MixingMatrix()
	dm := p.SplittingMatrix()
	nsi := p.NSIMatrix()
	cmat3.Convert(&e.mix, &mix)
	cmat3.ConvertReal(&e.dm, &dm)
	cmat3.ConvertReal(&e.nsi, &nsi)
	return e, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Run evaluates jobs and returns one Result per job, in order. The error
// is non-nil only when ctx is canceled; results of jobs not reached carry
// the context error.
func (e *Engine) Run(ctx context.Context, jobs []Job) ([]Result, error) {
	start := time.Now()
	results := make([]Result, len(jobs))
	if len(jobs) == 0 {
		return results, nil
	}

	chunk := e.chunkSize(len(jobs))
	e.logger.Debug("batch started", "jobs", len(jobs), "workers", e.cfg.Workers, "chunk", chunk)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Workers)
	for lo := 0; lo < len(jobs); lo += chunk {
		hi := min(lo+chunk, len(jobs))
		g.Go(func() error {
			return e.runChunk(gctx, jobs[lo:hi], results[lo:hi])
		})
	}
	err := g.Wait()

	elapsed := time.Since(start)
	e.cfg.Metrics.observeRun(elapsed.Seconds())
	if err != nil {
		e.logger.Warn("batch canceled", "jobs", len(jobs), "err", err)
		return results, err
	}

	failed := 0
	for i := range results {
		if results[i].Err != nil {
			failed++
		}
	}
	e.logger.Debug("batch finished", "jobs", len(jobs), "failed", failed, "elapsed", elapsed.Round(time.Microsecond))
	return results, nil
}

func (e *Engine) chunkSize(n int) int {
	if e.cfg.ChunkSize > 0 {
		return e.cfg.ChunkSize
	}
	// a few chunks per worker keeps the tail short
	return max(1, n/(4*e.cfg.Workers))
}

func (e *Engine) runChunk(ctx context.Context, jobs []Job, results []Result) error {
	prop := prob3.NewPropagator(&e.mix, &e.dm, &e.nsi, e.cfg.PropagatorOptions...)
	var densities, distances []prob3.Real

	for i := range jobs {
		if err := ctx.Err(); err != nil {
			for j := i; j < len(jobs); j++ {
				results[j].Err = err
				e.cfg.Metrics.observeJob(OutcomeCanceled, len(jobs[j].Distances))
			}
			return err
		}

		densities = toReal(densities, jobs[i].Densities)
		distances = toReal(distances, jobs[i].Distances)
		results[i] = e.evaluate(prop, jobs[i], densities, distances)
	}
	return nil
}

func (e *Engine) evaluate(prop *prob3.Propagator, job Job, densities, distances []prob3.Real) Result {
	var res Result
	outcome := OutcomeOK
	defer func() {
		e.cfg.Metrics.observeJob(outcome, len(job.Distances))
	}()

	if !(job.Energy > 0) || math.IsInf(job.Energy, 0) {
		outcome = OutcomeInvalidInput
		res.Err = fmt.Errorf("%w: got %v", ErrInvalidEnergy, job.Energy)
		return res
	}

	var prob [3][3]prob3.Real
	if err := prop.Probabilities(&prob, job.NuType, prob3.Real(job.Energy), densities, distances); err != nil {
		outcome = OutcomeInvalidInput
		res.Err = err
		return res
	}

	for i := range 3 {
		for j := range 3 {
			v := float64(prob[i][j])
			if math.IsNaN(v) || math.IsInf(v, 0) {
				outcome = OutcomeDegenerate
				return Result{Err: fmt.Errorf("%w: P[%d][%d] = %v at E = %v", ErrNumericalDegeneracy, i, j, v, job.Energy)}
			}
			res.Prob[i][j] = v
		}
	}
	return res
}

func toReal(dst []prob3.Real, src []float64) []prob3.Real {
	dst = dst[:0]
	for _, v := range src {
		dst = append(dst, prob3.Real(v))
	}
	return dst
}
