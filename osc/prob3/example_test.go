package prob3_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-nuosc/osc/cmat3"
	"github.com/cwbudde/algo-nuosc/osc/prob3"
)

// Two-flavor mu-tau mixing at the first oscillation maximum.
func ExamplePropagator_Probabilities() {
	s, c := math.Sincos(math.Pi / 4)
	mix := prob3.Matrix{
		{cmat3.Cplx[prob3.Real](1, 0), {}, {}},
		{{}, cmat3.Cplx(prob3.Real(c), 0), cmat3.Cplx(prob3.Real(s), 0)},
		{{}, cmat3.Cplx(prob3.Real(-s), 0), cmat3.Cplx(prob3.Real(c), 0)},
	}

	const dm31 = 2.5e-3
	dm := prob3.RealMatrix{
		{0, 0, -dm31},
		{0, 0, -dm31},
		{dm31, dm31, 0},
	}

	p := prob3.NewPropagator(&mix, &dm, nil)

	length := prob3.Real(math.Pi / (2.534 * dm31))
	var prob [3][3]prob3.Real
	if err := p.Probabilities(&prob, prob3.Neutrino, 1, []prob3.Real{0}, []prob3.Real{length}); err != nil {
		fmt.Println(err)
		return
	}

	fmt.Printf("P(e->e)    = %.4f\n", prob[0][0])
	fmt.Printf("P(mu->mu)  = %.4f\n", prob[1][1])
	fmt.Printf("P(mu->tau) = %.4f\n", prob[1][2])
	// Output:
	// P(e->e)    = 1.0000
	// P(mu->mu)  = 0.0000
	// P(mu->tau) = 1.0000
}

func ExampleConvertFromMassEigenstate() {
	mix := cmat3.Identity[prob3.Real]()
	var pure prob3.Vector
	if err := prob3.ConvertFromMassEigenstate(&pure, 2, &mix); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(pure[0].Re, pure[1].Re, pure[2].Re)

	err := prob3.ConvertFromMassEigenstate(&pure, 4, &mix)
	fmt.Println(err)
	// Output:
	// 0 1 0
	// prob3: mass eigenstate must be 1, 2 or 3: got 4
}
