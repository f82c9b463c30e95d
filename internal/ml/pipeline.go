package ml

import (
	"errors"
	"fmt"
	"sort"

	"github.com/lox/faixaclima/internal/models"
)

var (
	ErrNotFitted    = errors.New("pipeline not fitted")
	ErrFeatureCount = errors.New("feature count mismatch")
	ErrMisalignedXY = errors.New("features and labels have different lengths")
)

// Params mirrors the training configuration of the dashboard model.
type Params struct {
	TestSize float64
	Seed     uint64
	Forest   ForestParams
}

func DefaultParams() Params {
	return Params{
		TestSize: 0.30,
		Seed:     42,
		Forest: ForestParams{
			Trees:           300,
			MaxDepth:        20,
			MinSamplesSplit: 2,
			MinSamplesLeaf:  1,
			Seed:            42,
		},
	}
}

// Pipeline is a fitted scaler followed by a fitted forest.
type Pipeline struct {
	features []string
	scaler   *StandardScaler
	forest   *Forest
}

// Fit splits X/y, fits the scaler and forest on the training partition and
// evaluates on the held-out partition.
func Fit(features []string, X [][]float64, y []string, p Params) (*Pipeline, models.Report, error) {
	if len(X) != len(y) {
		return nil, models.Report{}, ErrMisalignedXY
	}
	trainIdx, testIdx, err := StratifiedSplit(y, p.TestSize, p.Seed)
	if err != nil {
		return nil, models.Report{}, fmt.Errorf("split: %w", err)
	}

	xTrain, yTrain := gather(X, y, trainIdx)
	xTest, yTest := gather(X, y, testIdx)

	scaler := FitScaler(xTrain)
	forest, err := FitForest(scaler.Transform(xTrain), yTrain, p.Forest)
	if err != nil {
		return nil, models.Report{}, fmt.Errorf("fit forest: %w", err)
	}

	pipe := &Pipeline{
		features: append([]string(nil), features...),
		scaler:   scaler,
		forest:   forest,
	}

	yPred := make([]string, len(xTest))
	for i, row := range scaler.Transform(xTest) {
		yPred[i] = forest.Predict(row)
	}
	report := Evaluate(yTest, yPred)
	report.TrainRows = len(trainIdx)
	return pipe, report, nil
}

func gather(X [][]float64, y []string, idx []int) ([][]float64, []string) {
	xs := make([][]float64, len(idx))
	ys := make([]string, len(idx))
	for i, k := range idx {
		xs[i] = X[k]
		ys[i] = y[k]
	}
	return xs, ys
}

func (p *Pipeline) fitted() bool {
	return p != nil && p.scaler != nil && p.forest != nil
}

func (p *Pipeline) Features() []string {
	if p == nil {
		return nil
	}
	return p.features
}

func (p *Pipeline) Classes() []string {
	if !p.fitted() {
		return nil
	}
	return p.forest.Classes()
}

// Predict scales x and returns the most likely label with the probability
// of every training class.
func (p *Pipeline) Predict(x []float64) (string, map[string]float64, error) {
	if !p.fitted() {
		return "", nil, ErrNotFitted
	}
	if len(x) != len(p.features) {
		return "", nil, fmt.Errorf("%w: got %d, want %d", ErrFeatureCount, len(x), len(p.features))
	}
	proba := p.forest.PredictProba(p.scaler.TransformRow(x))
	classes := p.forest.Classes()
	out := make(map[string]float64, len(classes))
	for i, c := range classes {
		out[c] = proba[i]
	}
	return classes[argmax(proba)], out, nil
}

// Importances ranks the pipeline features by forest importance, highest
// first. Ties keep feature order.
func (p *Pipeline) Importances() ([]models.Importance, error) {
	if !p.fitted() {
		return nil, ErrNotFitted
	}
	scores := p.forest.FeatureImportances()
	out := make([]models.Importance, len(p.features))
	for i, f := range p.features {
		out[i] = models.Importance{Feature: f, Score: scores[i]}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out, nil
}
