// Package oscfreq recovers neutrino mass-squared splittings from an
// oscillation probability sampled on an even L/E grid.
//
// Each splitting contributes a term proportional to cos(2.534*dm2*L/E), a
// pure tone in L/E with frequency 2.534*dm2/(2*pi) cycles per km/GeV. The
// analysis removes the mean, windows, zero-pads to a power of two, takes a
// forward FFT and reports the strongest local maxima of the magnitude
// spectrum, refined by parabolic interpolation, as Delta m^2 values.
package oscfreq
