// Command nuosc computes three-flavor neutrino oscillation probabilities.
//
// Usage:
//
//	nuosc [--config params.toml] [-v] <command> [flags]
//
// Commands:
//
//	prob         probability table for one energy, baseline and density
//	oscillogram  probability over energy and zenith angle through the Earth
//	spectrum     mass-squared splittings recovered from an L/E scan
//	info         CPU features, precision and default parameters
//
// Examples:
//
//	nuosc prob --energy 2 --baseline 1300 --density 2.8
//	nuosc oscillogram --flavor-in mu --flavor-out e --png numu-nue.png
//	nuosc spectrum --baseline 1000 --emin 0.05 --emax 10 --points 4096
package main

import (
	"context"
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
