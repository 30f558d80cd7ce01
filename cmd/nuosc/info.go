package main

import (
	"fmt"
	"math"
	"text/tabwriter"
	"unsafe"

	"github.com/cwbudde/algo-vecmath/cpu"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-nuosc/osc/prob3"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show build precision, CPU features and the active parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := paramsFromContext(cmd.Context())
			f := cpu.DetectFeatures()
			cfg := prob3.DefaultConfig()
			s12, s13, s23 := p.Sin2()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "precision\tfloat%d\n", 8*unsafe.Sizeof(prob3.Real(0)))
			fmt.Fprintf(w, "architecture\t%s\n", f.Architecture)
			fmt.Fprintf(w, "simd\t%s\n", simdSummary(f))
			fmt.Fprintln(w, "\t")
			fmt.Fprintf(w, "dm21 [eV^2]\t%.4e\n", p.DeltaM21)
			fmt.Fprintf(w, "dm31 [eV^2]\t%.4e\n", p.DeltaM31)
			fmt.Fprintf(w, "sin^2 theta12\t%.5f\n", s12)
			fmt.Fprintf(w, "sin^2 theta13\t%.5f\n", s13)
			fmt.Fprintf(w, "sin^2 theta23\t%.5f\n", s23)
			fmt.Fprintf(w, "deltaCP [deg]\t%.1f\n", p.DeltaCP*180/math.Pi)
			fmt.Fprintf(w, "nsi\t%v\n", p.NSI != [3][3]float64{})
			fmt.Fprintln(w, "\t")
			fmt.Fprintf(w, "layer cache\t%v (tolerance %g)\n", cfg.LayerCache, cfg.CacheTolerance)
			fmt.Fprintf(w, "max layers\t%d\n", cfg.MaxLayers)
			return w.Flush()
		},
	}
}

func simdSummary(f cpu.Features) string {
	if f.ForceGeneric {
		return "generic (forced)"
	}
	var s string
	for _, e := range []struct {
		name string
		ok   bool
	}{
		{"SSE2", f.HasSSE2},
		{"AVX", f.HasAVX},
		{"AVX2", f.HasAVX2},
		{"AVX-512", f.HasAVX512},
		{"NEON", f.HasNEON},
	} {
		if e.ok {
			if s != "" {
				s += " "
			}
			s += e.name
		}
	}
	if s == "" {
		return "none"
	}
	return s
}
