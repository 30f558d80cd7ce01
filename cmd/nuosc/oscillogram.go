package main

import (
	"encoding/csv"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/cwbudde/algo-nuosc/osc/batch"
	"github.com/cwbudde/algo-nuosc/osc/earth"
	"github.com/cwbudde/algo-nuosc/osc/prob3"
)

type oscillogramOptions struct {
	emin, emax     float64
	ne, nz         int
	czmin, czmax   float64
	flavorIn       string
	flavorOut      string
	antineutrino   bool
	earthModel     string
	detectorDepth  float64
	prodHeight     float64
	pngPath        string
	noLayerCaching bool
}

func newOscillogramCmd(root *rootOptions) *cobra.Command {
	var opts oscillogramOptions

	cmd := &cobra.Command{
		Use:   "oscillogram",
		Short: "Tabulate or plot a probability over energy and zenith angle",
		Example: `  nuosc oscillogram --flavor-in mu --flavor-out mu > numu.csv
  nuosc oscillogram --flavor-in mu --flavor-out e --png numu-nue.png`,
		Args: cobra.NoArgs,
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

			model := earth.PREM4()
			if opts.earthModel != "" {
				f, err := os.Open(opts.earthModel)
				if err != nil {
					return err
				}
				model, err = earth.ReadModel(f)
				f.Close()
				if err != nil {
					return fmt.Errorf("%s: %w", opts.earthModel, err)
				}
				logger.Debug("loaded earth model", "path", opts.earthModel, "shells", len(model.Shells))
			}

			energies, err := batch.LogSpaceEnergies(opts.emin, opts.emax, opts.ne)
			if err != nil {
				return err
			}
			cosZens, err := batch.LinSpace(opts.czmin, opts.czmax, opts.nz)
			if err != nil {
				return err
			}

			nu := prob3.Neutrino
			if opts.antineutrino {
				nu = prob3.Antineutrino
			}

			engine, err := batch.New(paramsFromContext(ctx),
				batch.WithLogger(logger),
				batch.WithWorkers(root.workers),
				batch.WithPropagatorOptions(prob3.WithLayerCache(!opts.noLayerCaching)),
			)
			if err != nil {
				return err
			}

			prog := newProgress(logger)
			grid, err := engine.Grid(ctx, model, earth.Geometry{
				DetectorDepth:    opts.detectorDepth,
				ProductionHeight: opts.prodHeight,
			}, nu, energies, cosZens)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Computed %dx%d oscillogram", len(cosZens), len(energies)))

			z := make([][]float64, len(cosZens))
			failed := 0
			for i, row := range grid {
				z[i] = make([]float64, len(energies))
				for j, res := range row {
					if res.Err != nil {
						failed++
						logger.Debug("grid point failed", "coszen", cosZens[i], "energy", energies[j], "err", res.Err)
						z[i][j] = math.NaN()
						continue
					}
					z[i][j] = res.Prob[in][out]
				}
			}
			if failed > 0 {
				logger.Warn("some grid points failed", "count", failed)
			}

			if opts.pngPath != "" {
				title := fmt.Sprintf("P(%s -> %s), %s", flavorNames[in], flavorNames[out], nu)
				if err := saveHeatMap(opts.pngPath, title, energies, cosZens, z); err != nil {
					return err
				}
				logger.Info("wrote heat map", "path", opts.pngPath)
				return nil
			}
			return writeCSV(cmd.OutOrStdout(), energies, cosZens, z)
		},
	}

	f := cmd.Flags()
	f.Float64Var(&opts.emin, "emin", 1, "lowest energy in GeV")
	f.Float64Var(&opts.emax, "emax", 100, "highest energy in GeV")
	f.IntVar(&opts.ne, "ne", 50, "number of log-spaced energies")
	f.Float64Var(&opts.czmin, "czmin", -1, "lowest cos(zenith)")
	f.Float64Var(&opts.czmax, "czmax", 0, "highest cos(zenith)")
	f.IntVar(&opts.nz, "nz", 50, "number of cos(zenith) values")
	f.StringVar(&opts.flavorIn, "flavor-in", "mu", "initial flavor (e, mu, tau)")
	f.StringVar(&opts.flavorOut, "flavor-out", "mu", "final flavor (e, mu, tau)")
	f.BoolVar(&opts.antineutrino, "antineutrino", false, "propagate antineutrinos")
	f.StringVar(&opts.earthModel, "earth-model", "", "radius/density model file (default 4-shell PREM)")
	f.Float64Var(&opts.detectorDepth, "detector-depth", earth.DefaultGeometry().DetectorDepth, "detector depth in km")
	f.Float64Var(&opts.prodHeight, "production-height", earth.DefaultGeometry().ProductionHeight, "production height in km")
	f.StringVar(&opts.pngPath, "png", "", "write a heat map image instead of CSV")
	f.BoolVar(&opts.noLayerCaching, "no-layer-cache", false, "recompute every layer")
	return cmd
}

func writeCSV(w io.Writer, energies, cosZens []float64, z [][]float64) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"coszen", "energy_gev", "probability"}); err != nil {
		return err
	}
	for i, cz := range cosZens {
		for j, e := range energies {
			rec := []string{
				strconv.FormatFloat(cz, 'f', 6, 64),
				strconv.FormatFloat(e, 'g', 8, 64),
				strconv.FormatFloat(z[i][j], 'f', 8, 64),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// probGrid adapts an oscillogram to plotter.GridXYZ with log10(E) on the
// x axis.
type probGrid struct {
	logE    []float64
	cosZens []float64
	z       [][]float64
}

func (g probGrid) Dims() (c, r int)   { return len(g.logE), len(g.cosZens) }
func (g probGrid) Z(c, r int) float64 { return g.z[r][c] }
func (g probGrid) X(c int) float64    { return g.logE[c] }
func (g probGrid) Y(r int) float64    { return g.cosZens[r] }

func saveHeatMap(path, title string, energies, cosZens []float64, z [][]float64) error {
	g := probGrid{logE: make([]float64, len(energies)), cosZens: cosZens, z: z}
	for i, e := range energies {
		g.logE[i] = math.Log10(e)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "log10(E / GeV)"
	p.Y.Label.Text = "cos(zenith)"

	hm := plotter.NewHeatMap(g, palette.Heat(64, 1))
	hm.Min, hm.Max = 0, 1
	hm.NaN = color.Gray{Y: 200}
	p.Add(hm)

	if err := p.Save(6*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
