package params

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// File is the on-disk layout of a parameter file. Unset fields keep their
// default. Each angle may be given in degrees or as sin^2, not both.
//
//	dm21 = 7.5e-5
//	dm31 = 2.524e-3
//	sin2_theta12 = 0.306
//	theta13_deg = 8.5
//	deltacp_deg = 261
//
//	[nsi]
//	etau = 0.1
type File struct {
	DeltaM21 *float64 `toml:"dm21" yaml:"dm21"`
	DeltaM31 *float64 `toml:"dm31" yaml:"dm31"`

	Theta12Deg *float64 `toml:"theta12_deg" yaml:"theta12_deg"`
	Theta13Deg *float64 `toml:"theta13_deg" yaml:"theta13_deg"`
	Theta23Deg *float64 `toml:"theta23_deg" yaml:"theta23_deg"`

	Sin2Theta12 *float64 `toml:"sin2_theta12" yaml:"sin2_theta12"`
	Sin2Theta13 *float64 `toml:"sin2_theta13" yaml:"sin2_theta13"`
	Sin2Theta23 *float64 `toml:"sin2_theta23" yaml:"sin2_theta23"`

	DeltaCPDeg *float64 `toml:"deltacp_deg" yaml:"deltacp_deg"`

	// NSI keys are ee, emu, etau, mumu, mutau, tautau; the matrix is
	// filled symmetrically.
	NSI map[string]float64 `toml:"nsi" yaml:"nsi"`
}

var nsiIndex = map[string][2]int{
	"ee":     {0, 0},
	"emu":    {0, 1},
	"etau":   {0, 2},
	"mumu":   {1, 1},
	"mutau":  {1, 2},
	"tautau": {2, 2},
}

// Load reads a TOML (.toml) or YAML (.yaml, .yml) parameter file on top of
// [Default] and validates the result.
func Load(path string) (Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Params{}, fmt.Errorf("params: read %s: %w", path, err)
	}
	p, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return Params{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Parse decodes data in the format named by ext (".toml", ".yaml" or
// ".yml", case-insensitive).
func Parse(data []byte, ext string) (Params, error) {
	var f File
	switch strings.ToLower(ext) {
	case ".toml":
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&f); err != nil {
			return Params{}, fmt.Errorf("params: decode toml: %w", err)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
			return Params{}, fmt.Errorf("params: decode yaml: %w", err)
		}
	default:
		return Params{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	p, err := f.Params()
	if err != nil {
		return Params{}, err
	}
	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

// Params overlays f on [Default].
func (f File) Params() (Params, error) {
	p := Default()
	if f.DeltaM21 != nil {
		p.DeltaM21 = *f.DeltaM21
	}
	if f.DeltaM31 != nil {
		p.DeltaM31 = *f.DeltaM31
	}

	angles := []struct {
		name string
		deg  *float64
		sin2 *float64
		dst  *float64
	}{
		{"theta12", f.Theta12Deg, f.Sin2Theta12, &p.Theta12},
		{"theta13", f.Theta13Deg, f.Sin2Theta13, &p.Theta13},
		{"theta23", f.Theta23Deg, f.Sin2Theta23, &p.Theta23},
	}
	for _, a := range angles {
		switch {
		case a.deg != nil && a.sin2 != nil:
			return Params{}, fmt.Errorf("%w: %s", ErrConflictingEntries, a.name)
		case a.deg != nil:
			*a.dst = *a.deg * math.Pi / 180
		case a.sin2 != nil:
			if *a.sin2 < 0 || *a.sin2 > 1 {
				return Params{}, fmt.Errorf("%w: sin2_%s = %v", ErrInvalidAngle, a.name, *a.sin2)
			}
			*a.dst = angleFromSin2(*a.sin2)
		}
	}
	if f.DeltaCPDeg != nil {
		p.DeltaCP = *f.DeltaCPDeg * math.Pi / 180
	}

	for key, v := range f.NSI {
		idx, ok := nsiIndex[strings.ToLower(key)]
		if !ok {
			return Params{}, fmt.Errorf("params: unknown nsi coupling %q", key)
		}
		p.NSI[idx[0]][idx[1]] = v
		p.NSI[idx[1]][idx[0]] = v
	}
	return p, nil
}
