package testutil

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-nuosc/osc/cmat3"
)

// RequireSliceNearlyEqual fails t if got and want differ in length or if
// any element pair exceeds eps (absolute tolerance).
func RequireSliceNearlyEqual(t *testing.T, got, want []float64, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		diff := math.Abs(got[i] - want[i])
		if diff > eps {
			t.Fatalf("index %d: got %v, want %v (diff %v > eps %v)", i, got[i], want[i], diff, eps)
		}
	}
}

// RequireFinite fails t if any element is NaN or Inf.
func RequireFinite(t *testing.T, data []float64) {
	t.Helper()
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}

// RequireMatrixNearlyEqual fails t if any component of got and want
// differs by more than eps.
func RequireMatrixNearlyEqual[F cmat3.Float](t *testing.T, got, want *cmat3.Matrix[F], eps float64) {
	t.Helper()
	for i := range 3 {
		for j := range 3 {
			dr := math.Abs(float64(got[i][j].Re - want[i][j].Re))
			di := math.Abs(float64(got[i][j].Im - want[i][j].Im))
			if dr > eps || di > eps {
				t.Fatalf("entry (%d,%d): got %v, want %v (eps %v)", i, j, got[i][j], want[i][j], eps)
			}
		}
	}
}

// RequireStochastic fails t unless every entry of p lies in [0, 1] and
// every row and column sums to 1 within eps.
func RequireStochastic[F cmat3.Float](t *testing.T, p *[3][3]F, eps float64) {
	t.Helper()
	for i := range 3 {
		var row, col float64
		for j := range 3 {
			v := float64(p[i][j])
			if math.IsNaN(v) || v < -eps || v > 1+eps {
				t.Fatalf("entry (%d,%d) = %v outside [0, 1]", i, j, v)
			}
			row += v
			col += float64(p[j][i])
		}
		if math.Abs(row-1) > eps {
			t.Fatalf("row %d sums to %v", i, row)
		}
		if math.Abs(col-1) > eps {
			t.Fatalf("column %d sums to %v", i, col)
		}
	}
}
