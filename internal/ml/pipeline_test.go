package ml

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testFeatures = []string{"temp_c", "umidade_pct", "precipitacao_mm"}

func TestFit_Deterministic(t *testing.T) {
	X, y := syntheticBands(400, 21)

	_, first, err := Fit(testFeatures, X, y, smallParams())
	require.NoError(t, err)
	_, second, err := Fit(testFeatures, X, y, smallParams())
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("reports differ between fits (-first +second):\n%s", diff)
	}
}

func TestFit_ReportBounds(t *testing.T) {
	X, y := syntheticBands(500, 22)
	_, report, err := Fit(testFeatures, X, y, smallParams())
	require.NoError(t, err)

	assert.Equal(t, 150, report.TestRows)
	assert.Equal(t, 350, report.TrainRows)
	assert.GreaterOrEqual(t, report.Accuracy, 0.0)
	assert.LessOrEqual(t, report.Accuracy, 1.0)

	support := 0
	for _, c := range report.Classes {
		for _, v := range []float64{c.Precision, c.Recall, c.F1} {
			assert.GreaterOrEqual(t, v, 0.0, c.Label)
			assert.LessOrEqual(t, v, 1.0, c.Label)
		}
		support += c.Support
	}
	assert.Equal(t, report.TestRows, support)
}

func TestPipeline_Predict(t *testing.T) {
	X, y := syntheticBands(400, 23)
	pipe, _, err := Fit(testFeatures, X, y, smallParams())
	require.NoError(t, err)

	label, probs, err := pipe.Predict([]float64{3, 60, 0})
	require.NoError(t, err)
	assert.Equal(t, "Frio_Seco", label)
	assert.Len(t, probs, len(pipe.Classes()))

	sum := 0.0
	best, bestP := "", -1.0
	for c, p := range probs {
		sum += p
		if p > bestP {
			best, bestP = c, p
		}
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
	assert.Equal(t, best, label)
}

func TestPipeline_PredictFeatureCount(t *testing.T) {
	X, y := syntheticBands(100, 24)
	pipe, _, err := Fit(testFeatures, X, y, smallParams())
	require.NoError(t, err)

	_, _, err = pipe.Predict([]float64{1, 2})
	assert.ErrorIs(t, err, ErrFeatureCount)
}

func TestPipeline_NotFitted(t *testing.T) {
	var pipe *Pipeline
	_, _, err := pipe.Predict([]float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrNotFitted)

	_, err = (&Pipeline{}).Importances()
	assert.ErrorIs(t, err, ErrNotFitted)
}

func TestPipeline_ImportancesRanked(t *testing.T) {
	X, y := syntheticBands(400, 25)
	pipe, _, err := Fit(testFeatures, X, y, smallParams())
	require.NoError(t, err)

	imp, err := pipe.Importances()
	require.NoError(t, err)
	require.Len(t, imp, len(testFeatures))
	sum := 0.0
	for i, v := range imp {
		sum += v.Score
		if i > 0 {
			assert.GreaterOrEqual(t, imp[i-1].Score, v.Score)
		}
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestFit_Misaligned(t *testing.T) {
	_, _, err := Fit(testFeatures, [][]float64{{1, 2, 3}}, nil, smallParams())
	assert.ErrorIs(t, err, ErrMisalignedXY)
}
