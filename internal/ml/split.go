package ml

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
)

var ErrSplitTooSmall = errors.New("not enough rows for a train/test split")

// StratifiedSplit partitions row indices into train and test sets so each
// label keeps its share of the data. The test partition holds
// ceil(testSize*n) rows. Both index slices are returned in ascending order.
func StratifiedSplit(y []string, testSize float64, seed uint64) (train, test []int, err error) {
	n := len(y)
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, fmt.Errorf("test size %v outside (0, 1)", testSize)
	}
	nTest := int(math.Ceil(testSize * float64(n)))
	if nTest < 1 || n-nTest < 1 {
		return nil, nil, fmt.Errorf("%w: %d rows", ErrSplitTooSmall, n)
	}

	members := make(map[string][]int)
	for i, label := range y {
		members[label] = append(members[label], i)
	}
	labels := make([]string, 0, len(members))
	for label := range members {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	alloc := allocate(labels, members, nTest, n)

	rng := rand.New(rand.NewPCG(seed, seed))
	for _, label := range labels {
		idx := append([]int(nil), members[label]...)
		rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
		k := alloc[label]
		test = append(test, idx[:k]...)
		train = append(train, idx[k:]...)
	}
	sort.Ints(train)
	sort.Ints(test)
	return train, test, nil
}

// allocate distributes nTest rows across labels: the floor of each label's
// proportional share first, then the leftover rows to the largest remainders.
func allocate(labels []string, members map[string][]int, nTest, n int) map[string]int {
	type share struct {
		label string
		rem   float64
	}
	alloc := make(map[string]int, len(labels))
	shares := make([]share, 0, len(labels))
	assigned := 0
	for _, label := range labels {
		exact := float64(len(members[label])) * float64(nTest) / float64(n)
		k := int(math.Floor(exact))
		alloc[label] = k
		assigned += k
		shares = append(shares, share{label: label, rem: exact - float64(k)})
	}
	sort.SliceStable(shares, func(i, j int) bool { return shares[i].rem > shares[j].rem })
	for i := 0; assigned < nTest && i < len(shares); i++ {
		label := shares[i].label
		if alloc[label] < len(members[label]) {
			alloc[label]++
			assigned++
		}
	}
	return alloc
}
