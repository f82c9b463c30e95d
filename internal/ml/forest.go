package ml

import (
	"errors"
	"math"
	"math/rand/v2"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
)

var ErrEmptyTrainingSet = errors.New("empty training set")

type ForestParams struct {
	Trees           int
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
	Seed            uint64
	// Workers bounds parallel tree construction. Zero means runtime.NumCPU().
	Workers int
}

// Forest is a bagged ensemble of CART trees. Each tree sees a bootstrap
// sample of the rows and sqrt(features) candidate features per split.
type Forest struct {
	classes   []string
	nFeatures int
	trees     []*Tree
}

func FitForest(X [][]float64, y []string, p ForestParams) (*Forest, error) {
	if len(X) == 0 || len(X) != len(y) {
		return nil, ErrEmptyTrainingSet
	}
	if p.Trees < 1 {
		p.Trees = 1
	}
	if p.MaxDepth < 1 {
		p.MaxDepth = math.MaxInt32
	}
	if p.MinSamplesSplit < 2 {
		p.MinSamplesSplit = 2
	}
	if p.MinSamplesLeaf < 1 {
		p.MinSamplesLeaf = 1
	}
	workers := p.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	classes, yIdx := encodeLabels(y)
	nFeatures := len(X[0])
	tp := treeParams{
		maxDepth:    p.MaxDepth,
		minSplit:    p.MinSamplesSplit,
		minLeaf:     p.MinSamplesLeaf,
		maxFeatures: max(1, int(math.Sqrt(float64(nFeatures)))),
	}

	// Seeds are drawn before any goroutine starts so the forest does not
	// depend on scheduling order.
	master := rand.New(rand.NewPCG(p.Seed, p.Seed))
	seeds := make([]uint64, p.Trees)
	for i := range seeds {
		seeds[i] = master.Uint64()
	}

	trees := make([]*Tree, p.Trees)
	var g errgroup.Group
	g.SetLimit(workers)
	n := len(X)
	for i := range trees {
		g.Go(func() error {
			rng := rand.New(rand.NewPCG(seeds[i], uint64(i)))
			rows := make([]int, n)
			for k := range rows {
				rows[k] = rng.IntN(n)
			}
			trees[i] = buildTree(X, yIdx, rows, len(classes), tp, rng)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Forest{classes: classes, nFeatures: nFeatures, trees: trees}, nil
}

func encodeLabels(y []string) ([]string, []int) {
	seen := make(map[string]struct{})
	for _, label := range y {
		seen[label] = struct{}{}
	}
	classes := make([]string, 0, len(seen))
	for label := range seen {
		classes = append(classes, label)
	}
	sort.Strings(classes)

	index := make(map[string]int, len(classes))
	for i, c := range classes {
		index[c] = i
	}
	enc := make([]int, len(y))
	for i, label := range y {
		enc[i] = index[label]
	}
	return classes, enc
}

// Classes returns the sorted training labels. Probability vectors follow
// this order.
func (f *Forest) Classes() []string {
	return f.classes
}

func (f *Forest) PredictProba(x []float64) []float64 {
	probs := make([]float64, len(f.classes))
	for _, t := range f.trees {
		for c, v := range t.leafValue(x) {
			probs[c] += v
		}
	}
	for c := range probs {
		probs[c] /= float64(len(f.trees))
	}
	return probs
}

// Predict returns the class with the highest averaged probability. Ties go
// to the class that sorts first.
func (f *Forest) Predict(x []float64) string {
	return f.classes[argmax(f.PredictProba(x))]
}

// FeatureImportances is the mean decrease in impurity. Each tree's
// decreases are normalised to 1 before averaging; trees without a split
// are skipped. A forest of single-leaf trees scores every feature 0.
func (f *Forest) FeatureImportances() []float64 {
	total := make([]float64, f.nFeatures)
	used := 0
	for _, t := range f.trees {
		if t.splits() == 0 {
			continue
		}
		sum := 0.0
		for _, v := range t.importance {
			sum += v
		}
		if sum <= 0 {
			continue
		}
		for j, v := range t.importance {
			total[j] += v / sum
		}
		used++
	}
	if used == 0 {
		return total
	}
	sum := 0.0
	for j := range total {
		total[j] /= float64(used)
		sum += total[j]
	}
	for j := range total {
		total[j] /= sum
	}
	return total
}

func argmax(v []float64) int {
	best := 0
	for i := 1; i < len(v); i++ {
		if v[i] > v[best] {
			best = i
		}
	}
	return best
}
