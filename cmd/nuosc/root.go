package main

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/cwbudde/algo-vecmath/cpu"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-nuosc/osc/params"
)

type paramsKey struct{}

// rootOptions are the persistent flags shared by all commands.
type rootOptions struct {
	verbose      bool
	configPath   string
	forceGeneric bool
	workers      int
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var opts rootOptions

	root := &cobra.Command{
		Use:          "nuosc",
		Short:        "Three-flavor neutrino oscillation probabilities",
		Long:         `nuosc evaluates neutrino flavor transition probabilities in vacuum and through layered matter using the analytic three-flavor propagator.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := log.InfoLevel
			if opts.verbose {
				level = log.DebugLevel
			}
			logger := newLogger(stderr, level)

			if opts.forceGeneric {
				cpu.SetForcedFeatures(cpu.Features{ForceGeneric: true, Architecture: runtime.GOARCH})
				logger.Debug("SIMD kernels disabled")
			}

			p := params.Default()
			if opts.configPath != "" {
				var err error
				if p, err = params.Load(opts.configPath); err != nil {
					return err
				}
				logger.Debug("loaded parameters", "path", opts.configPath)
			}

			ctx := withLogger(cmd.Context(), logger)
			ctx = context.WithValue(ctx, paramsKey{}, p)
			cmd.SetContext(ctx)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.forceGeneric {
				cpu.ResetDetection()
			}
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "oscillation parameter file (.toml, .yaml)")
	root.PersistentFlags().BoolVar(&opts.forceGeneric, "generic", false, "disable SIMD kernels")
	root.PersistentFlags().IntVarP(&opts.workers, "workers", "j", runtime.GOMAXPROCS(0), "parallel workers")

	root.AddCommand(newProbCmd(&opts))
	root.AddCommand(newOscillogramCmd(&opts))
	root.AddCommand(newSpectrumCmd(&opts))
	root.AddCommand(newInfoCmd())

	return root
}

// paramsFromContext returns the parameters loaded by the root command.
func paramsFromContext(ctx context.Context) params.Params {
	if p, ok := ctx.Value(paramsKey{}).(params.Params); ok {
		return p
	}
	return params.Default()
}

var flavorNames = [3]string{"e", "mu", "tau"}

func parseFlavor(s string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "e", "nue":
		return 0, nil
	case "mu", "numu":
		return 1, nil
	case "tau", "nutau":
		return 2, nil
	}
	return 0, fmt.Errorf("unknown flavor %q (want e, mu or tau)", s)
}
