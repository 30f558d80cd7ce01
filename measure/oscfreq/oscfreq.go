package oscfreq

import (
	"errors"
	"fmt"
	"math"
	"slices"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-nuosc/dsp/window"
)

// hbarCFactor converts Delta m^2 (eV^2) times L/E (km/GeV) to half the
// oscillation phase.
const hbarCFactor = 2.534

const (
	defaultMaxPeaks     = 3
	defaultMinRelative  = 0.05
	defaultMinMagnitude = 1e-12
	defaultZeroPadRatio = 2
)

// Errors returned by Analyze.
var (
	ErrEmptyInput     = errors.New("oscfreq: empty input")
	ErrInvalidStep    = errors.New("oscfreq: L/E step must be positive")
	ErrInvalidFFTSize = errors.New("oscfreq: FFT size must be a power of two not below the input length")
)

// Config holds the analysis parameters.
type Config struct {
	// LOverEStep is the sample spacing in km/GeV.
	LOverEStep float64
	// FFTSize is the transform length. Zero pads to twice the next power
	// of two of the input length.
	FFTSize int
	// MinDeltaM2 and MaxDeltaM2 bound the reported peaks (eV^2). Zero
	// MaxDeltaM2 means up to the Nyquist limit.
	MinDeltaM2 float64
	MaxDeltaM2 float64
	// MaxPeaks bounds the number of reported peaks.
	MaxPeaks int
	// MinRelativeMagnitude drops peaks weaker than this fraction of the
	// strongest one.
	MinRelativeMagnitude float64
	// MinMagnitude is the absolute amplitude below which nothing counts as
	// a peak, so round-off left by the mean removal of a flat curve is not
	// reported. Zero means 1e-12.
	MinMagnitude float64
	// Window tapers the input before the transform. Zero means
	// window.TypeHann.
	Window window.Type
}

// Peak is one detected oscillation frequency.
type Peak struct {
	// DeltaM2 is the splitting in eV^2.
	DeltaM2 float64
	// Magnitude is the amplitude of the cosine term, so a two-flavor
	// survival curve gives about sin^2(2 theta)/2.
	Magnitude float64
}

// Result holds detected peaks, strongest first, and the magnitude spectrum
// from DC to Nyquist.
type Result struct {
	Peaks []Peak
	// BinDeltaM2 is the Delta m^2 width of one FFT bin.
	BinDeltaM2 float64
	Spectrum   []float64
}

// DeltaM2At converts a (fractional) bin index to Delta m^2.
func (r Result) DeltaM2At(bin float64) float64 {
	return bin * r.BinDeltaM2
}

func normalizeConfig(cfg Config, n int) (Config, error) {
	if !(cfg.LOverEStep > 0) || math.IsInf(cfg.LOverEStep, 0) {
		return cfg, fmt.Errorf("%w: got %v", ErrInvalidStep, cfg.LOverEStep)
	}
	if cfg.FFTSize == 0 {
		cfg.FFTSize = defaultZeroPadRatio * nextPowerOf2(n)
	}
	if cfg.FFTSize < n || cfg.FFTSize&(cfg.FFTSize-1) != 0 {
		return cfg, fmt.Errorf("%w: %d for %d samples", ErrInvalidFFTSize, cfg.FFTSize, n)
	}
	if cfg.MaxPeaks <= 0 {
		cfg.MaxPeaks = defaultMaxPeaks
	}
	if cfg.MinRelativeMagnitude <= 0 {
		cfg.MinRelativeMagnitude = defaultMinRelative
	}
	if cfg.MinMagnitude <= 0 {
		cfg.MinMagnitude = defaultMinMagnitude
	}
	if cfg.Window == window.TypeRectangular {
		cfg.Window = window.TypeHann
	}
	return cfg, nil
}

// Analyze finds the oscillation frequencies of prob.
func Analyze(prob []float64, cfg Config) (Result, error) {
	if len(prob) == 0 {
		return Result{}, ErrEmptyInput
	}
	cfg, err := normalizeConfig(cfg, len(prob))
	if err != nil {
		return Result{}, err
	}

	var mean float64
	for _, v := range prob {
		mean += v
	}
	mean /= float64(len(prob))

	coeffs := window.Generate(cfg.Window, len(prob))
	gain := 1.0
	if cg, err := window.CoherentGain(coeffs); err == nil {
		gain = cg * float64(len(coeffs))
	}

	centered := make([]float64, len(prob))
	for i, v := range prob {
		centered[i] = v - mean
	}
	if err := window.ApplyCoefficientsInPlace(centered, coeffs); err != nil {
		return Result{}, fmt.Errorf("oscfreq: window: %w", err)
	}

	in := make([]complex128, cfg.FFTSize)
	for i, v := range centered {
		in[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(cfg.FFTSize)
	if err != nil {
		return Result{}, fmt.Errorf("oscfreq: fft plan: %w", err)
	}
	out := make([]complex128, cfg.FFTSize)
	if err := plan.Forward(out, in); err != nil {
		return Result{}, fmt.Errorf("oscfreq: fft: %w", err)
	}

	bins := cfg.FFTSize/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)
	for k := range bins {
		re[k] = real(out[k])
		im[k] = imag(out[k])
	}
	mag := make([]float64, bins)
	vecmath.Magnitude(mag, re, im)

	// single-sided cosine amplitude
	scale := 2 / gain
	for k := range mag {
		mag[k] *= scale
	}

	res := Result{
		BinDeltaM2: 2 * math.Pi / (float64(cfg.FFTSize) * cfg.LOverEStep * hbarCFactor),
		Spectrum:   mag,
	}
	res.Peaks = findPeaks(mag, res.BinDeltaM2, cfg)
	return res, nil
}

func findPeaks(mag []float64, binDM2 float64, cfg Config) []Peak {
	maxDM2 := cfg.MaxDeltaM2
	if maxDM2 <= 0 {
		maxDM2 = math.Inf(1)
	}

	var peaks []Peak
	for k := 1; k < len(mag)-1; k++ {
		if mag[k] <= mag[k-1] || mag[k] < mag[k+1] {
			continue
		}
		offset, height := interpolate(mag[k-1], mag[k], mag[k+1])
		dm2 := (float64(k) + offset) * binDM2
		if height < cfg.MinMagnitude || dm2 < cfg.MinDeltaM2 || dm2 > maxDM2 {
			continue
		}
		peaks = append(peaks, Peak{DeltaM2: dm2, Magnitude: height})
	}

	slices.SortFunc(peaks, func(a, b Peak) int {
		switch {
		case a.Magnitude > b.Magnitude:
			return -1
		case a.Magnitude < b.Magnitude:
			return 1
		}
		return 0
	})
	if len(peaks) == 0 {
		return nil
	}

	limit := peaks[0].Magnitude * cfg.MinRelativeMagnitude
	n := 0
	for n < len(peaks) && n < cfg.MaxPeaks && peaks[n].Magnitude >= limit {
		n++
	}
	return peaks[:n]
}

// interpolate fits a parabola through three neighboring bins and returns
// the vertex offset from the center bin and its height.
func interpolate(a, b, c float64) (offset, height float64) {
	denom := a - 2*b + c
	if denom == 0 {
		return 0, b
	}
	offset = 0.5 * (a - c) / denom
	height = b - 0.25*(a-c)*offset
	return offset, height
}

func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}

	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
