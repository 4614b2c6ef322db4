package m

import (
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// newSource seeds the initialisation RNG. A zero seed means "use the clock".
func newSource(seed int64) rand.Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.NewSource(uint64(seed))
}

// randomArray draws size values independently from Uniform[0,1).
func randomArray(size int, src rand.Source) []float64 {
	dist := distuv.Uniform{
		Min: 0,
		Max: 1,
		Src: src,
	}

	data := make([]float64, size)
	for i := 0; i < size; i++ {
		data[i] = dist.Rand()
	}
	return data
}

func apply(fn func(i, j int, v float64) float64, v mat.Vector) *mat.VecDense {
	n := v.Len()
	o := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		o.SetVec(i, fn(i, 0, v.AtVec(i)))
	}
	return o
}

func multiply(a, b mat.Vector) *mat.VecDense {
	o := mat.NewVecDense(a.Len(), nil)
	o.MulElemVec(a, b)
	return o
}

func subtract(a, b mat.Vector) *mat.VecDense {
	o := mat.NewVecDense(a.Len(), nil)
	o.SubVec(a, b)
	return o
}

func rowOf(m *mat.Dense, i int) []float64 {
	_, c := m.Dims()
	row := make([]float64, c)
	mat.Row(row, i, m)
	return row
}

func vecData(v mat.Vector) []float64 {
	out := make([]float64, v.Len())
	for i := range out {
		out[i] = v.AtVec(i)
	}
	return out
}
