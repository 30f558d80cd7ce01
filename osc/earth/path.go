package earth

import (
	"fmt"
	"math"
	"slices"
)

// minSegment drops chord pieces shorter than this (km), which appear at
// tangent crossings.
const minSegment = 1e-9

// Geometry places the detector and the neutrino production point.
type Geometry struct {
	// DetectorDepth is the detector depth below the surface in km.
	DetectorDepth float64
	// ProductionHeight is the production height above the surface in km.
	ProductionHeight float64
}

// DefaultGeometry returns a 2 km deep detector and 20 km production height.
func DefaultGeometry() Geometry {
	return Geometry{DetectorDepth: 2, ProductionHeight: 20}
}

func (g Geometry) validate(radius float64) error {
	if !(g.DetectorDepth >= 0 && g.DetectorDepth < radius) {
		return fmt.Errorf("%w: detector depth %v", ErrInvalidGeometry, g.DetectorDepth)
	}
	if !(g.ProductionHeight >= 0) || math.IsInf(g.ProductionHeight, 0) {
		return fmt.Errorf("%w: production height %v", ErrInvalidGeometry, g.ProductionHeight)
	}
	return nil
}

func checkCosZen(cosZen float64) error {
	if !(cosZen >= -1 && cosZen <= 1) {
		return fmt.Errorf("%w: %v", ErrInvalidCosZen, cosZen)
	}
	return nil
}

// BaselineLength returns the straight-line distance (km) from the
// production point to the detector for zenith cosine cosZen; -1 is
// up-going through the Earth's center.
func (m *Model) BaselineLength(cosZen float64, g Geometry) (float64, error) {
	if err := m.Validate(); err != nil {
		return 0, err
	}
	if err := checkCosZen(cosZen); err != nil {
		return 0, err
	}
	if err := g.validate(m.Radius()); err != nil {
		return 0, err
	}
	return baseline(m.Radius()-g.DetectorDepth, m.Radius()+g.ProductionHeight, cosZen), nil
}

// baseline solves |d + s*u| = rTop for the detector at radius rd looking
// along a direction with zenith cosine cz.
func baseline(rd, rTop, cz float64) float64 {
	return -rd*cz + math.Sqrt(rTop*rTop-rd*rd*(1-cz*cz))
}

// Layers returns the electron densities (mol/cm^3) and lengths (km) of the
// constant-density segments along the chord, ordered from the production
// point to the detector. The atmosphere segment has density 0. Segment
// lengths add up to the baseline.
func (m *Model) Layers(cosZen float64, g Geometry) (densities, distances []float64, err error) {
	if err := m.Validate(); err != nil {
		return nil, nil, err
	}
	if err := checkCosZen(cosZen); err != nil {
		return nil, nil, err
	}
	if err := g.validate(m.Radius()); err != nil {
		return nil, nil, err
	}

	rd := m.Radius() - g.DetectorDepth
	length := baseline(rd, m.Radius()+g.ProductionHeight, cosZen)

	// s measures distance from the detector toward the source; shell
	// boundaries are where s^2 + 2*rd*cz*s + rd^2 = R^2.
	cuts := []float64{0, length}
	for _, sh := range m.Shells {
		disc := sh.OuterRadius*sh.OuterRadius - rd*rd*(1-cosZen*cosZen)
		if disc < 0 {
			continue
		}
		root := math.Sqrt(disc)
		for _, s := range [2]float64{-rd*cosZen - root, -rd*cosZen + root} {
			if s > 0 && s < length {
				cuts = append(cuts, s)
			}
		}
	}
	slices.Sort(cuts)

	// walk from the source (largest s) down to the detector
	for i := len(cuts) - 1; i > 0; i-- {
		seg := cuts[i] - cuts[i-1]
		if seg <= minSegment {
			continue
		}
		mid := 0.5 * (cuts[i] + cuts[i-1])
		r := math.Sqrt(mid*mid + 2*rd*cosZen*mid + rd*rd)
		densities = append(densities, m.ElectronDensityAt(r))
		distances = append(distances, seg)
	}
	return densities, distances, nil
}
