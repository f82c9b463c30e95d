// Package datasettest builds synthetic INMET-shaped datasets for tests.
package datasettest

import (
	"math/rand/v2"
	"strconv"

	"github.com/lox/faixaclima/internal/band"
	"github.com/lox/faixaclima/internal/models"
)

// Records returns a header plus n rows with every FullFeatures column and a
// label derived from the band rules, so temperature and precipitation fully
// determine the target.
func Records(n int, seed uint64) [][]string {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	header := append(append([]string(nil), models.FullFeatures.Columns...), models.Target)
	records := [][]string{header}
	for range n {
		temp := rng.Float64()*35 - 2
		precip := 0.0
		if rng.IntN(3) == 0 {
			precip = rng.Float64() * 12
		}
		row := []float64{
			temp,
			20 + rng.Float64()*80,
			precip,
			rng.Float64() * 3500,
			rng.Float64() * 8,
			940 + rng.Float64()*20,
			float64(rng.IntN(24)),
		}
		rec := make([]string, 0, len(row)+1)
		for _, v := range row {
			rec = append(rec, strconv.FormatFloat(v, 'f', 2, 64))
		}
		// Label from the rounded values so the CSV is self-consistent.
		t, _ := strconv.ParseFloat(rec[0], 64)
		p, _ := strconv.ParseFloat(rec[2], 64)
		rec = append(rec, band.Classify(t, p).String())
		records = append(records, rec)
	}
	return records
}

// Constant returns a header plus n rows that all carry label, with
// temperature drawn below maxTemp and no rain.
func Constant(n int, label string, maxTemp float64, seed uint64) [][]string {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	header := append(append([]string(nil), models.FullFeatures.Columns...), models.Target)
	records := [][]string{header}
	for range n {
		row := []float64{
			rng.Float64() * maxTemp,
			50 + rng.Float64()*50,
			0,
			rng.Float64() * 1000,
			rng.Float64() * 4,
			945 + rng.Float64()*10,
			float64(rng.IntN(24)),
		}
		rec := make([]string, 0, len(row)+1)
		for _, v := range row {
			rec = append(rec, strconv.FormatFloat(v, 'f', 2, 64))
		}
		records = append(records, append(rec, label))
	}
	return records
}
