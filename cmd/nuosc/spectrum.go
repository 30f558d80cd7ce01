package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-nuosc/measure/oscfreq"
	"github.com/cwbudde/algo-nuosc/osc/batch"
	"github.com/cwbudde/algo-nuosc/osc/prob3"
)

type spectrumOptions struct {
	baseline     float64
	emin, emax   float64
	n            int
	density      float64
	ye           float64
	flavorIn     string
	flavorOut    string
	antineutrino bool
	maxPeaks     int
}

func newSpectrumCmd(root *rootOptions) *cobra.Command {
	var opts spectrumOptions

	cmd := &cobra.Command{
		Use:   "spectrum",
		Short: "Find the oscillation frequencies of a probability curve in L/E",
		Long: `spectrum samples a transition probability on an even L/E grid at a fixed
baseline and reports the dominant mass splittings found in its Fourier
spectrum.`,
		Example: `  nuosc spectrum --baseline 12000 --emin 0.2 --emax 20 --flavor-in mu --flavor-out mu`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			in, err := parseFlavor(opts.flavorIn)
			if err != nil {
				return err
			}
			out, err := parseFlavor(opts.flavorOut)
			if err != nil {
				return err
			}
			if !(opts.emin > 0 && opts.emax > opts.emin) || opts.n < 2 || !(opts.baseline > 0) {
				return fmt.Errorf("%w: need 0 < emin < emax, n >= 2 and a positive baseline", batch.ErrInvalidRange)
			}

			// even spacing in L/E, so energies are dense at the low end
			xs, err := batch.LinSpace(opts.baseline/opts.emax, opts.baseline/opts.emin, opts.n)
			if err != nil {
				return err
			}

			nu := prob3.Neutrino
			if opts.antineutrino {
				nu = prob3.Antineutrino
			}
			jobs := make([]batch.Job, len(xs))
			for i, x := range xs {
				jobs[i] = batch.Job{
					NuType:    nu,
					Energy:    opts.baseline / x,
					Densities: []float64{opts.density * opts.ye},
					Distances: []float64{opts.baseline},
				}
			}

			engine, err := batch.New(paramsFromContext(ctx), batch.WithLogger(logger), batch.WithWorkers(root.workers))
			if err != nil {
				return err
			}
			prog := newProgress(logger)
			results, err := engine.Run(ctx, jobs)
			if err != nil {
				return err
			}
			curve := make([]float64, len(results))
			for i, r := range results {
				if r.Err != nil {
					return fmt.Errorf("E=%g GeV: %w", jobs[i].Energy, r.Err)
				}
				curve[i] = r.Prob[in][out]
			}
			prog.done(fmt.Sprintf("Sampled %d points", len(curve)))

			res, err := oscfreq.Analyze(curve, oscfreq.Config{
				LOverEStep: xs[1] - xs[0],
				MaxPeaks:   opts.maxPeaks,
			})
			if err != nil {
				return err
			}
			logger.Debug("spectrum", "bins", len(res.Spectrum), "resolution", res.BinDeltaM2)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "P(%s->%s)\tdm2 [eV^2]\tamplitude\n", flavorNames[in], flavorNames[out])
			for i, pk := range res.Peaks {
				fmt.Fprintf(w, "#%d\t%.4e\t%.4f\n", i+1, pk.DeltaM2, pk.Magnitude)
			}
			return w.Flush()
		},
	}

	f := cmd.Flags()
	f.Float64VarP(&opts.baseline, "baseline", "l", 12742, "baseline in km")
	f.Float64Var(&opts.emin, "emin", 0.5, "lowest energy in GeV")
	f.Float64Var(&opts.emax, "emax", 50, "highest energy in GeV")
	f.IntVar(&opts.n, "points", 2048, "number of L/E samples")
	f.Float64VarP(&opts.density, "density", "d", 0, "matter density in g/cm^3")
	f.Float64Var(&opts.ye, "ye", 0.5, "electron fraction")
	f.StringVar(&opts.flavorIn, "flavor-in", "mu", "initial flavor (e, mu, tau)")
	f.StringVar(&opts.flavorOut, "flavor-out", "mu", "final flavor (e, mu, tau)")
	f.BoolVar(&opts.antineutrino, "antineutrino", false, "propagate antineutrinos")
	f.IntVar(&opts.maxPeaks, "peaks", 3, "number of peaks to report")
	return cmd
}
