package ml

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
)

func TestStandardScaler(t *testing.T) {
	X := [][]float64{
		{1, 10, 5},
		{2, 20, 5},
		{3, 30, 5},
		{4, 40, 5},
	}
	s := FitScaler(X)

	if diff := cmp.Diff([]float64{2.5, 25, 5}, s.Mean, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("Mean mismatch (-want +got):\n%s", diff)
	}
	// Constant column keeps unit scale.
	assert.Equal(t, 1.0, s.Scale[2])

	out := s.Transform(X)
	for j := 0; j < 2; j++ {
		var sum, sq float64
		for _, row := range out {
			sum += row[j]
			sq += row[j] * row[j]
		}
		assert.InDelta(t, 0, sum/4, 1e-12)
		assert.InDelta(t, 1, sq/4, 1e-12)
	}
	for _, row := range out {
		assert.Equal(t, 0.0, row[2])
	}
}

func TestStandardScaler_UsesTrainingStatistics(t *testing.T) {
	s := FitScaler([][]float64{{0}, {2}})
	got := s.TransformRow([]float64{4})
	assert.InDelta(t, 3.0, got[0], 1e-12)
}
