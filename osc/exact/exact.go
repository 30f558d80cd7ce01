// Package exact evaluates the evolution operator exp(-i*t*H) of a complex
// Hermitian 3x3 Hamiltonian by numerical diagonalization.
//
// The Hamiltonian H = A + iB is embedded as the real symmetric 6x6 matrix
//
//	S = | A  -B |
//	    | B   A |
//
// whose spectrum is that of H with every eigenvalue doubled. Any real
// function f satisfies f(S) = [[Re f(H), -Im f(H)], [Im f(H), Re f(H)]],
// so cos(tH) and sin(tH) follow from one symmetric eigendecomposition.
// Degenerate spectra need no special handling.
package exact

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-nuosc/osc/cmat3"
)

// Errors returned by exact functions.
var (
	ErrNotHermitian  = errors.New("exact: matrix is not Hermitian")
	ErrNotFinite     = errors.New("exact: matrix has NaN or Inf entries")
	ErrFactorization = errors.New("exact: symmetric eigendecomposition failed")
)

// hermitianRelTol is the relative tolerance of the Hermitian check.
const hermitianRelTol = 1e-9

// Evolve sets dst = exp(-i*t*h).
func Evolve(dst, h *cmat3.Matrix[float64], t float64) error {
	vals, vecs, err := decompose(h)
	if err != nil {
		return err
	}

	var cosT, sinT [6]float64
	for k, v := range vals {
		sinT[k], cosT[k] = math.Sincos(t * v)
	}

	for i := range 3 {
		for j := range 3 {
			var cr, ci, sr, si float64
			for k := range 6 {
				qj := vecs.At(j, k)
				re := vecs.At(i, k) * qj
				im := vecs.At(i+3, k) * qj
				cr += re * cosT[k]
				ci += im * cosT[k]
				sr += re * sinT[k]
				si += im * sinT[k]
			}
			// cos(tH) - i sin(tH)
			dst[i][j] = cmat3.Cplx(cr+si, ci-sr)
		}
	}
	return nil
}

// Eigenvalues returns the spectrum of the Hermitian h in ascending order.
func Eigenvalues(h *cmat3.Matrix[float64]) ([3]float64, error) {
	vals, _, err := decompose(h)
	if err != nil {
		return [3]float64{}, err
	}
	return [3]float64{vals[0], vals[2], vals[4]}, nil
}

func decompose(h *cmat3.Matrix[float64]) ([]float64, *mat.Dense, error) {
	if !cmat3.IsFinite(h) {
		return nil, nil, ErrNotFinite
	}
	if !cmat3.IsHermitian(h, hermitianRelTol*maxAbs(h)) {
		return nil, nil, ErrNotHermitian
	}

	var es mat.EigenSym
	if ok := es.Factorize(embed(h), true); !ok {
		return nil, nil, ErrFactorization
	}

	var vecs mat.Dense
	es.VectorsTo(&vecs)
	return es.Values(nil), &vecs, nil
}

func embed(h *cmat3.Matrix[float64]) *mat.SymDense {
	data := make([]float64, 36)
	for i := range 3 {
		for j := range 3 {
			a, b := h[i][j].Re, h[i][j].Im
			data[i*6+j] = a
			data[(i+3)*6+j+3] = a
			data[i*6+j+3] = -b
			data[(i+3)*6+j] = b
		}
	}
	return mat.NewSymDense(6, data)
}

func maxAbs(h *cmat3.Matrix[float64]) float64 {
	var m float64
	for i := range 3 {
		for j := range 3 {
			m = math.Max(m, math.Max(math.Abs(h[i][j].Re), math.Abs(h[i][j].Im)))
		}
	}
	return m
}
