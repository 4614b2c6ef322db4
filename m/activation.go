package m

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Sigmoid is the only activation the network uses, on both layers.
type Sigmoid struct{}

func (s Sigmoid) Activate(i, j int, sum float64) float64 {
	return 1.0 / (1.0 + math.Exp(-sum))
}

// Deactivate returns out ⊙ (1 - out), the sigmoid derivative evaluated at
// outputs that have already been through Activate.
func (s Sigmoid) Deactivate(out mat.Vector) *mat.VecDense {
	n := out.Len()
	d := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		o := out.AtVec(i)
		d.SetVec(i, o*(1-o))
	}
	return d
}

func (s Sigmoid) String() string {
	return "sigmoid"
}
