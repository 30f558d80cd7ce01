package cmat3

import (
	"errors"
	"math"
)

// ErrAliasing is the panic value raised when an operation that needs
// separate storage receives the same array as source and destination.
var ErrAliasing = errors.New("cmat3: source and destination share storage")

// Matrix is a complex 3x3 matrix indexed [row][col].
type Matrix[F Float] [3][3]Complex[F]

// Vector is a complex 3-vector.
type Vector[F Float] [3]Complex[F]

// RealMatrix is a real 3x3 matrix indexed [row][col].
type RealMatrix[F Float] [3][3]F

// Identity returns the 3x3 identity matrix.
func Identity[F Float]() Matrix[F] {
	var m Matrix[F]
	for i := range 3 {
		m[i][i].Re = 1
	}
	return m
}

// Clear sets every component of m to zero.
func Clear[F Float](m *Matrix[F]) {
	*m = Matrix[F]{}
}

// ClearReal sets every entry of r to zero.
func ClearReal[F Float](r *RealMatrix[F]) {
	*r = RealMatrix[F]{}
}

// ClearVector sets every component of v to zero.
func ClearVector[F Float](v *Vector[F]) {
	*v = Vector[F]{}
}

// Copy copies all 18 components of src into dst.
func Copy[F Float](dst, src *Matrix[F]) {
	if dst == src {
		panic(ErrAliasing)
	}
	*dst = *src
}

// MulAcc accumulates c += a*b.
//
// c is not cleared first. For each (i, j) in row-major order the products
// a[i][k]*b[k][j] are added with k ascending. a, b and c must be pairwise
// distinct.
func MulAcc[F Float](c, a, b *Matrix[F]) {
	if c == a || c == b || a == b {
		panic(ErrAliasing)
	}
	for i := range 3 {
		for j := range 3 {
			acc := c[i][j]
			for k := range 3 {
				acc = acc.Add(a[i][k].Mul(b[k][j]))
			}
			c[i][j] = acc
		}
	}
}

// Mul overwrites c with a*b. a, b and c must be pairwise distinct.
func Mul[F Float](c, a, b *Matrix[F]) {
	if c == a || c == b || a == b {
		panic(ErrAliasing)
	}
	Clear(c)
	MulAcc(c, a, b)
}

// Conj sets dst[i][j] = conj(a[i][j]). dst may be a.
func Conj[F Float](dst, a *Matrix[F]) {
	for i := range 3 {
		for j := range 3 {
			dst[i][j] = a[i][j].Conj()
		}
	}
}

// ConjTranspose sets dst[j][i] = conj(a[i][j]). dst must not be a.
func ConjTranspose[F Float](dst, a *Matrix[F]) {
	if dst == a {
		panic(ErrAliasing)
	}
	for i := range 3 {
		for j := range 3 {
			dst[j][i] = a[i][j].Conj()
		}
	}
}

// Add overwrites dst with a + b. Any operand may alias another.
func Add[F Float](dst, a, b *Matrix[F]) {
	for i := range 3 {
		for j := range 3 {
			dst[i][j] = a[i][j].Add(b[i][j])
		}
	}
}

// Sub overwrites dst with a - b. Any operand may alias another.
func Sub[F Float](dst, a, b *Matrix[F]) {
	for i := range 3 {
		for j := range 3 {
			dst[i][j] = a[i][j].Sub(b[i][j])
		}
	}
}

// Scale overwrites dst with s*a. dst may be a.
func Scale[F Float](dst, a *Matrix[F], s F) {
	for i := range 3 {
		for j := range 3 {
			dst[i][j] = a[i][j].Scale(s)
		}
	}
}

// MulVec overwrites w with a*v. w must not be v.
//
// Each row is a closed-form sum, so w needs no prior initialization.
func MulVec[F Float](w *Vector[F], a *Matrix[F], v *Vector[F]) {
	if w == v {
		panic(ErrAliasing)
	}
	w[0] = a[0][0].Mul(v[0]).Add(a[0][1].Mul(v[1])).Add(a[0][2].Mul(v[2]))
	w[1] = a[1][0].Mul(v[0]).Add(a[1][1].Mul(v[1])).Add(a[1][2].Mul(v[2]))
	w[2] = a[2][0].Mul(v[0]).Add(a[2][1].Mul(v[1])).Add(a[2][2].Mul(v[2]))
}

// NearlyEqual reports whether every component of a and b differs by at
// most eps.
func NearlyEqual[F Float](a, b *Matrix[F], eps float64) bool {
	for i := range 3 {
		for j := range 3 {
			if math.Abs(float64(a[i][j].Re-b[i][j].Re)) > eps ||
				math.Abs(float64(a[i][j].Im-b[i][j].Im)) > eps {
				return false
			}
		}
	}
	return true
}

// IsHermitian reports whether a equals its conjugate transpose within eps.
func IsHermitian[F Float](a *Matrix[F], eps float64) bool {
	var h Matrix[F]
	ConjTranspose(&h, a)
	return NearlyEqual(a, &h, eps)
}

// IsFinite reports whether no component of a is NaN or infinite.
func IsFinite[F Float](a *Matrix[F]) bool {
	for i := range 3 {
		for j := range 3 {
			if !a[i][j].IsFinite() {
				return false
			}
		}
	}
	return true
}

// Convert changes the precision of src into dst.
func Convert[D, S Float](dst *Matrix[D], src *Matrix[S]) {
	for i := range 3 {
		for j := range 3 {
			dst[i][j] = Complex[D]{Re: D(src[i][j].Re), Im: D(src[i][j].Im)}
		}
	}
}

// ConvertReal changes the precision of src into dst.
func ConvertReal[D, S Float](dst *RealMatrix[D], src *RealMatrix[S]) {
	for i := range 3 {
		for j := range 3 {
			dst[i][j] = D(src[i][j])
		}
	}
}
