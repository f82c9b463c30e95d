package ml

import (
	"math/rand/v2"
	"slices"
)

const leaf = -1

type node struct {
	feature     int
	threshold   float64
	left, right int
	// value holds the class frequencies of the training rows that reached
	// this node. Only read at leaves.
	value []float64
}

// Tree is a CART classification tree grown with the gini criterion.
type Tree struct {
	nodes []node
	// importance accumulates the weighted impurity decrease per feature.
	importance []float64
}

type treeParams struct {
	maxDepth    int
	minSplit    int
	minLeaf     int
	maxFeatures int
}

type treeBuilder struct {
	X        [][]float64
	y        []int
	nClasses int
	params   treeParams
	rng      *rand.Rand
	tree     *Tree
}

type split struct {
	feature   int
	threshold float64
	impurity  float64
	leftImp   float64
	rightImp  float64
}

func buildTree(X [][]float64, y []int, rows []int, nClasses int, p treeParams, rng *rand.Rand) *Tree {
	b := &treeBuilder{
		X:        X,
		y:        y,
		nClasses: nClasses,
		params:   p,
		rng:      rng,
		tree:     &Tree{importance: make([]float64, len(X[0]))},
	}
	b.grow(rows, 0)
	return b.tree
}

func (b *treeBuilder) grow(rows []int, depth int) int {
	counts := make([]float64, b.nClasses)
	for _, r := range rows {
		counts[b.y[r]]++
	}
	n := float64(len(rows))
	imp := gini(counts, n)

	value := make([]float64, b.nClasses)
	for c, k := range counts {
		value[c] = k / n
	}
	id := len(b.tree.nodes)
	b.tree.nodes = append(b.tree.nodes, node{feature: leaf, value: value})

	if depth >= b.params.maxDepth ||
		len(rows) < b.params.minSplit ||
		len(rows) < 2*b.params.minLeaf ||
		imp == 0 {
		return id
	}

	best, ok := b.bestSplit(rows, counts, imp)
	if !ok {
		return id
	}

	var left, right []int
	for _, r := range rows {
		if b.X[r][best.feature] <= best.threshold {
			left = append(left, r)
		} else {
			right = append(right, r)
		}
	}
	b.tree.importance[best.feature] += n*imp -
		float64(len(left))*best.leftImp -
		float64(len(right))*best.rightImp

	l := b.grow(left, depth+1)
	r := b.grow(right, depth+1)
	b.tree.nodes[id].feature = best.feature
	b.tree.nodes[id].threshold = best.threshold
	b.tree.nodes[id].left = l
	b.tree.nodes[id].right = r
	return id
}

type sample struct {
	v     float64
	class int
}

// bestSplit draws features in random order and scores every threshold
// between distinct consecutive values. At least maxFeatures non-constant
// features are examined; more are drawn while no valid split exists.
func (b *treeBuilder) bestSplit(rows []int, counts []float64, parentImp float64) (split, bool) {
	best := split{impurity: parentImp + 1}
	found := false
	n := len(rows)
	samples := make([]sample, n)
	leftCounts := make([]float64, b.nClasses)
	rightCounts := make([]float64, b.nClasses)

	visited := 0
	for _, f := range b.rng.Perm(len(b.X[0])) {
		if visited >= b.params.maxFeatures && found {
			break
		}
		for i, r := range rows {
			samples[i] = sample{v: b.X[r][f], class: b.y[r]}
		}
		slices.SortFunc(samples, func(a, c sample) int {
			switch {
			case a.v < c.v:
				return -1
			case a.v > c.v:
				return 1
			}
			return 0
		})
		if samples[0].v == samples[n-1].v {
			continue
		}
		visited++

		clear(leftCounts)
		copy(rightCounts, counts)
		for i := 0; i < n-1; i++ {
			c := samples[i].class
			leftCounts[c]++
			rightCounts[c]--
			if samples[i].v == samples[i+1].v {
				continue
			}
			nl, nr := i+1, n-i-1
			if nl < b.params.minLeaf || nr < b.params.minLeaf {
				continue
			}
			gl := gini(leftCounts, float64(nl))
			gr := gini(rightCounts, float64(nr))
			weighted := (float64(nl)*gl + float64(nr)*gr) / float64(n)
			if weighted < best.impurity {
				threshold := (samples[i].v + samples[i+1].v) / 2
				if threshold >= samples[i+1].v {
					threshold = samples[i].v
				}
				best = split{feature: f, threshold: threshold, impurity: weighted, leftImp: gl, rightImp: gr}
				found = true
			}
		}
	}
	return best, found
}

func gini(counts []float64, n float64) float64 {
	if n == 0 {
		return 0
	}
	sum := 0.0
	for _, k := range counts {
		p := k / n
		sum += p * p
	}
	return 1 - sum
}

// leafValue walks x down to its leaf and returns the class frequencies there.
func (t *Tree) leafValue(x []float64) []float64 {
	i := 0
	for t.nodes[i].feature != leaf {
		nd := t.nodes[i]
		if x[nd.feature] <= nd.threshold {
			i = nd.left
		} else {
			i = nd.right
		}
	}
	return t.nodes[i].value
}

func (t *Tree) splits() int {
	k := 0
	for _, nd := range t.nodes {
		if nd.feature != leaf {
			k++
		}
	}
	return k
}
