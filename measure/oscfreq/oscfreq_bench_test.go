package oscfreq

import (
	"testing"

	"github.com/cwbudde/algo-nuosc/internal/testutil"
)

func BenchmarkAnalyze(b *testing.B) {
	prob := testutil.TwoFlavorCurve(2.5e-3, 0.95, 10, 4096)
	cfg := Config{LOverEStep: 10}

	b.ReportAllocs()
	for b.Loop() {
		if _, err := Analyze(prob, cfg); err != nil {
			b.Fatal(err)
		}
	}
}
