package ml

import (
	"fmt"
	"math/rand/v2"
)

// syntheticBands builds n rows of (temp, humidity, precip) with labels that
// depend only on temperature and precipitation.
func syntheticBands(n int, seed uint64) ([][]float64, []string) {
	rng := rand.New(rand.NewPCG(seed, seed))
	X := make([][]float64, n)
	y := make([]string, n)
	for i := range X {
		temp := rng.Float64()*35 - 2
		humidity := rng.Float64() * 100
		precip := 0.0
		if rng.IntN(3) == 0 {
			precip = rng.Float64() * 12
		}
		X[i] = []float64{temp, humidity, precip}

		tier := "Ameno"
		switch {
		case temp < 15:
			tier = "Frio"
		case temp >= 25:
			tier = "Quente"
		}
		cond := "Seco"
		if precip > 0 {
			cond = "Chuvoso"
		}
		y[i] = fmt.Sprintf("%s_%s", tier, cond)
	}
	return X, y
}

func smallParams() Params {
	p := DefaultParams()
	p.Forest.Trees = 25
	return p
}
