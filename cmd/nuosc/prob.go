package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-nuosc/osc/batch"
	"github.com/cwbudde/algo-nuosc/osc/prob3"
)

type probOptions struct {
	energy       float64
	baseline     float64
	density      float64
	ye           float64
	antineutrino bool
	massInput    bool
}

func newProbCmd(root *rootOptions) *cobra.Command {
	var opts probOptions

	cmd := &cobra.Command{
		Use:   "prob",
		Short: "Print the 3x3 transition probability table for one layer",
		Example: `  nuosc prob --energy 2 --baseline 1300 --density 2.8
  nuosc prob --energy 0.6 --baseline 295 --antineutrino`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			nu := prob3.Neutrino
			if opts.antineutrino {
				nu = prob3.Antineutrino
			}

			var bopts []batch.Option
			bopts = append(bopts, batch.WithLogger(logger), batch.WithWorkers(root.workers))
			if opts.massInput {
				bopts = append(bopts, batch.WithPropagatorOptions(prob3.WithMassEigenstateInput()))
			}
			engine, err := batch.New(paramsFromContext(ctx), bopts...)
			if err != nil {
				return err
			}

			job := batch.Job{
				NuType:    nu,
				Energy:    opts.energy,
				Densities: []float64{opts.density * opts.ye},
				Distances: []float64{opts.baseline},
			}
			results, err := engine.Run(ctx, []batch.Job{job})
			if err != nil {
				return err
			}
			if results[0].Err != nil {
				return results[0].Err
			}
			logger.Debug("evaluated", "nu", nu, "energy", opts.energy, "baseline", opts.baseline, "density", opts.density)

			rowLabel := func(i int) string {
				if opts.massInput {
					return fmt.Sprintf("m%d", i+1)
				}
				return flavorNames[i]
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", "from\\to", flavorNames[0], flavorNames[1], flavorNames[2])
			for i, row := range results[0].Prob {
				fmt.Fprintf(w, "%s\t%.6f\t%.6f\t%.6f\t\n", rowLabel(i), row[0], row[1], row[2])
			}
			return w.Flush()
		},
	}

	cmd.Flags().Float64VarP(&opts.energy, "energy", "e", 1, "neutrino energy in GeV")
	cmd.Flags().Float64VarP(&opts.baseline, "baseline", "l", 1000, "baseline in km")
	cmd.Flags().Float64VarP(&opts.density, "density", "d", 0, "matter density in g/cm^3")
	cmd.Flags().Float64Var(&opts.ye, "ye", 0.5, "electron fraction")
	cmd.Flags().BoolVar(&opts.antineutrino, "antineutrino", false, "propagate antineutrinos")
	cmd.Flags().BoolVar(&opts.massInput, "mass-input", false, "start from mass eigenstates")
	return cmd
}
