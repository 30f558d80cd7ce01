// Package earth describes a spherically symmetric, shell-layered Earth and
// computes the piecewise-constant density profile a neutrino crosses on its
// way from the production point in the atmosphere to the detector.
package earth

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Errors returned by model construction and path computation.
var (
	ErrEmptyModel      = errors.New("earth: model has no shells")
	ErrInvalidShell    = errors.New("earth: invalid shell")
	ErrInvalidCosZen   = errors.New("earth: cos(zenith) outside [-1, 1]")
	ErrInvalidGeometry = errors.New("earth: invalid detector geometry")
)

// Electron fractions of the inner core, outer core and mantle.
const (
	YeInnerCore = 0.4656
	YeOuterCore = 0.4656
	YeMantle    = 0.4957
)

// Core boundaries (km) used to assign electron fractions to model files
// without a Ye column.
const (
	innerCoreRadius = 1221.5
	outerCoreRadius = 3480.0
)

// Shell is the region between the previous shell's outer radius and
// OuterRadius (km), with matter density Density (g/cm^3) and electron
// fraction Ye.
type Shell struct {
	OuterRadius float64
	Density     float64
	Ye          float64
}

// ElectronDensity returns Density*Ye in mol/cm^3.
func (s Shell) ElectronDensity() float64 {
	return s.Density * s.Ye
}

// Model is an ordered set of shells, innermost first.
type Model struct {
	Shells []Shell
}

// PREM4 returns a four-shell approximation of the Preliminary Reference
// Earth Model.
func PREM4() *Model {
	return &Model{Shells: []Shell{
		{OuterRadius: innerCoreRadius, Density: 13.0, Ye: YeInnerCore},
		{OuterRadius: outerCoreRadius, Density: 11.3, Ye: YeOuterCore},
		{OuterRadius: 5701.0, Density: 5.0, Ye: YeMantle},
		{OuterRadius: 6371.0, Density: 3.3, Ye: YeMantle},
	}}
}

// NewModel sorts shells by radius and validates them.
func NewModel(shells []Shell) (*Model, error) {
	m := &Model{Shells: slices.Clone(shells)}
	slices.SortFunc(m.Shells, func(a, b Shell) int {
		switch {
		case a.OuterRadius < b.OuterRadius:
			return -1
		case a.OuterRadius > b.OuterRadius:
			return 1
		}
		return 0
	})
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate checks that shells are non-empty, strictly increasing in radius
// and physical.
func (m *Model) Validate() error {
	if m == nil || len(m.Shells) == 0 {
		return ErrEmptyModel
	}
	prev := 0.0
	for i, s := range m.Shells {
		switch {
		case !(s.OuterRadius > prev):
			return fmt.Errorf("%w: shell %d radius %v not above %v", ErrInvalidShell, i, s.OuterRadius, prev)
		case !(s.Density >= 0) || math.IsInf(s.Density, 0):
			return fmt.Errorf("%w: shell %d density %v", ErrInvalidShell, i, s.Density)
		case !(s.Ye >= 0 && s.Ye <= 1):
			return fmt.Errorf("%w: shell %d electron fraction %v", ErrInvalidShell, i, s.Ye)
		}
		prev = s.OuterRadius
	}
	return nil
}

// Radius returns the outer radius of the model.
func (m *Model) Radius() float64 {
	return m.Shells[len(m.Shells)-1].OuterRadius
}

// ElectronDensityAt returns the electron density at radius r, or 0 above
// the surface.
func (m *Model) ElectronDensityAt(r float64) float64 {
	i, _ := slices.BinarySearchFunc(m.Shells, r, func(s Shell, r float64) int {
		switch {
		case s.OuterRadius < r:
			return -1
		case s.OuterRadius > r:
			return 1
		}
		return 0
	})
	if i == len(m.Shells) {
		return 0
	}
	return m.Shells[i].ElectronDensity()
}

// ReadModel parses whitespace-separated "radius density [ye]" lines. Blank
// lines and text after '#' are ignored. Without a Ye column the electron
// fraction is assigned from the core boundaries.
func ReadModel(r io.Reader) (*Model, error) {
	var shells []Shell
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}
		if len(fields) > 3 || len(fields) < 2 {
			return nil, fmt.Errorf("%w: line %d: want 2 or 3 columns, got %d", ErrInvalidShell, line, len(fields))
		}

		vals := make([]float64, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %w", ErrInvalidShell, line, err)
			}
			vals[i] = v
		}

		s := Shell{OuterRadius: vals[0], Density: vals[1]}
		if len(vals) == 3 {
			s.Ye = vals[2]
		} else {
			s.Ye = defaultYe(s.OuterRadius)
		}
		shells = append(shells, s)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("earth: read model: %w", err)
	}
	return NewModel(shells)
}

func defaultYe(outerRadius float64) float64 {
	switch {
	case outerRadius <= innerCoreRadius:
		return YeInnerCore
	case outerRadius <= outerCoreRadius:
		return YeOuterCore
	default:
		return YeMantle
	}
}
