package earth

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-nuosc/internal/testutil"
)

func TestLayersThroughCenter(t *testing.T) {
	m := PREM4()
	densities, distances, err := m.Layers(-1, DefaultGeometry())
	if err != nil {
		t.Fatalf("Layers: %v", err)
	}

	crust := 3.3 * YeMantle
	mantle := 5.0 * YeMantle
	outer := 11.3 * YeOuterCore
	inner := 13.0 * YeInnerCore

	testutil.RequireSliceNearlyEqual(t, distances,
		[]float64{20, 670, 2221, 2258.5, 2443, 2258.5, 2221, 668}, 1e-9)
	testutil.RequireSliceNearlyEqual(t, densities,
		[]float64{0, crust, mantle, outer, inner, outer, mantle, crust}, 1e-15)
}

func TestLayersDownGoing(t *testing.T) {
	densities, distances, err := PREM4().Layers(1, DefaultGeometry())
	if err != nil {
		t.Fatalf("Layers: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, distances, []float64{20, 2}, 1e-9)
	testutil.RequireSliceNearlyEqual(t, densities, []float64{0, 3.3 * YeMantle}, 1e-15)
}

func TestLayersHorizontal(t *testing.T) {
	_, distances, err := PREM4().Layers(0, DefaultGeometry())
	if err != nil {
		t.Fatalf("Layers: %v", err)
	}
	inEarth := math.Sqrt(6371*6371 - 6369*6369)
	total := math.Sqrt(6391*6391 - 6369*6369)
	testutil.RequireSliceNearlyEqual(t, distances, []float64{total - inEarth, inEarth}, 1e-9)
}

func TestLayersSumToBaseline(t *testing.T) {
	m := PREM4()
	g := Geometry{DetectorDepth: 1.5, ProductionHeight: 15}
	for cz := -1.0; cz <= 1.0; cz += 0.01 {
		densities, distances, err := m.Layers(cz, g)
		if err != nil {
			t.Fatalf("cz=%v: %v", cz, err)
		}
		if len(densities) != len(distances) {
			t.Fatalf("cz=%v: %d densities, %d distances", cz, len(densities), len(distances))
		}
		testutil.RequireFinite(t, densities)

		want, err := m.BaselineLength(cz, g)
		if err != nil {
			t.Fatal(err)
		}
		var sum float64
		for _, d := range distances {
			if d <= 0 {
				t.Fatalf("cz=%v: non-positive segment %v", cz, d)
			}
			sum += d
		}
		if math.Abs(sum-want) > 1e-8 {
			t.Fatalf("cz=%v: segments sum to %v, baseline %v", cz, sum, want)
		}
		if densities[0] != 0 {
			t.Fatalf("cz=%v: first segment density %v, want atmosphere", cz, densities[0])
		}
	}
}

func TestBaselineLength(t *testing.T) {
	m := PREM4()
	g := DefaultGeometry()
	tests := []struct {
		cz   float64
		want float64
	}{
		{-1, 2*6371 - 2 + 20},
		{1, 22},
		{0, math.Sqrt(6391*6391 - 6369*6369)},
	}
	for _, tt := range tests {
		got, err := m.BaselineLength(tt.cz, g)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Fatalf("cz=%v: got %v, want %v", tt.cz, got, tt.want)
		}
	}
}

func TestLayersErrors(t *testing.T) {
	m := PREM4()
	tests := []struct {
		name string
		cz   float64
		g    Geometry
		err  error
	}{
		{"cz-high", 1.01, DefaultGeometry(), ErrInvalidCosZen},
		{"cz-nan", math.NaN(), DefaultGeometry(), ErrInvalidCosZen},
		{"depth", 0, Geometry{DetectorDepth: 7000}, ErrInvalidGeometry},
		{"height", 0, Geometry{ProductionHeight: -1}, ErrInvalidGeometry},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := m.Layers(tt.cz, tt.g); !errors.Is(err, tt.err) {
				t.Fatalf("err = %v, want %v", err, tt.err)
			}
		})
	}

	if _, _, err := (&Model{}).Layers(0, DefaultGeometry()); !errors.Is(err, ErrEmptyModel) {
		t.Fatalf("empty model: err = %v", err)
	}
}
