package cmat3

import "math"

// Float is the set of element precisions supported by the algebra.
type Float interface {
	~float32 | ~float64
}

// Complex is a complex number stored as an explicit (real, imaginary) pair.
type Complex[F Float] struct {
	Re, Im F
}

// Cplx returns re + i*im.
func Cplx[F Float](re, im F) Complex[F] {
	return Complex[F]{Re: re, Im: im}
}

// Phase returns exp(i*theta).
func Phase[F Float](theta float64) Complex[F] {
	s, c := math.Sincos(theta)
	return Complex[F]{Re: F(c), Im: F(s)}
}

// Add returns z + w.
func (z Complex[F]) Add(w Complex[F]) Complex[F] {
	return Complex[F]{Re: z.Re + w.Re, Im: z.Im + w.Im}
}

// Sub returns z - w.
func (z Complex[F]) Sub(w Complex[F]) Complex[F] {
	return Complex[F]{Re: z.Re - w.Re, Im: z.Im - w.Im}
}

// Mul returns z * w as (ac - bd) + i(ad + bc).
//
// Each partial product is rounded on its own; the explicit conversions keep
// the compiler from fusing them into a multiply-add, so results are
// identical on every architecture.
func (z Complex[F]) Mul(w Complex[F]) Complex[F] {
	return Complex[F]{
		Re: F(z.Re*w.Re) - F(z.Im*w.Im),
		Im: F(z.Re*w.Im) + F(z.Im*w.Re),
	}
}

// Scale returns z * s for a real s.
func (z Complex[F]) Scale(s F) Complex[F] {
	return Complex[F]{Re: z.Re * s, Im: z.Im * s}
}

// Conj returns the complex conjugate of z.
func (z Complex[F]) Conj() Complex[F] {
	return Complex[F]{Re: z.Re, Im: -z.Im}
}

// Abs2 returns |z|^2.
func (z Complex[F]) Abs2() F {
	return F(z.Re*z.Re) + F(z.Im*z.Im)
}

// Complex128 converts z to the builtin complex type.
func (z Complex[F]) Complex128() complex128 {
	return complex(float64(z.Re), float64(z.Im))
}

// FromComplex128 converts a builtin complex value to Complex[F].
func FromComplex128[F Float](c complex128) Complex[F] {
	return Complex[F]{Re: F(real(c)), Im: F(imag(c))}
}

// IsFinite reports whether both components are neither NaN nor infinite.
func (z Complex[F]) IsFinite() bool {
	re, im := float64(z.Re), float64(z.Im)
	return !math.IsNaN(re) && !math.IsNaN(im) && !math.IsInf(re, 0) && !math.IsInf(im, 0)
}
