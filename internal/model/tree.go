package model

import (
	"cmp"
	"math/rand/v2"
	"slices"
)

const leafFeature = -1

// Node is a single node of a flattened regression tree.
// Leaves have Feature == -1; internal nodes send x[Feature] <= Threshold to Left.
type Node struct {
	Feature   int32
	Threshold float64
	Left      int32
	Right     int32
	Value     float64
}

type Tree struct {
	Nodes []Node
}

func (t *Tree) Predict(x []float64) float64 {
	return t.Nodes[t.apply(x)].Value
}

// apply returns the index of the leaf x falls into.
func (t *Tree) apply(x []float64) int32 {
	var i int32
	for t.Nodes[i].Feature != leafFeature {
		n := t.Nodes[i]
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
	return i
}

func (t *Tree) Leaves() int {
	count := 0
	for _, n := range t.Nodes {
		if n.Feature == leafFeature {
			count++
		}
	}
	return count
}

type treeParams struct {
	maxDepth       int
	minSamplesLeaf int
	// maxFeatures is the number of non-constant features inspected per split
	maxFeatures int
}

type valueTarget struct {
	x float64
	y float64
}

type split struct {
	feature   int
	threshold float64
	score     float64
}

type treeBuilder struct {
	X      [][]float64
	y      []float64
	params treeParams
	rnd    *rand.Rand
	nodes  []Node
	pairs  []valueTarget
}

// buildTree grows a variance-reduction regression tree over the rows in idx.
// idx may contain duplicates (bootstrap samples).
func buildTree(X [][]float64, y []float64, idx []int, params treeParams, rnd *rand.Rand) *Tree {
	b := &treeBuilder{
		X:      X,
		y:      y,
		params: params,
		rnd:    rnd,
		pairs:  make([]valueTarget, 0, len(idx)),
	}
	b.build(idx, 0)
	return &Tree{Nodes: b.nodes}
}

func (b *treeBuilder) build(idx []int, depth int) int32 {
	id := int32(len(b.nodes))
	sum, pure := b.stats(idx)
	mean := sum / float64(len(idx))
	b.nodes = append(b.nodes, Node{Feature: leafFeature, Value: mean})

	if pure || depth >= b.params.maxDepth || len(idx) < 2*b.params.minSamplesLeaf {
		return id
	}

	best, ok := b.findSplit(idx, sum)
	if !ok {
		return id
	}

	left := make([]int, 0, len(idx))
	right := make([]int, 0, len(idx))
	for _, i := range idx {
		if b.X[i][best.feature] <= best.threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	l := b.build(left, depth+1)
	r := b.build(right, depth+1)
	b.nodes[id] = Node{
		Feature:   int32(best.feature),
		Threshold: best.threshold,
		Left:      l,
		Right:     r,
		Value:     mean,
	}
	return id
}

func (b *treeBuilder) stats(idx []int) (sum float64, pure bool) {
	pure = true
	first := b.y[idx[0]]
	for _, i := range idx {
		sum += b.y[i]
		if b.y[i] != first {
			pure = false
		}
	}
	return sum, pure
}

// findSplit maximizes sumL²/nL + sumR²/nR, which is the same as minimizing the
// summed squared error of both children.
func (b *treeBuilder) findSplit(idx []int, total float64) (split, bool) {
	n := len(idx)
	minLeaf := b.params.minSamplesLeaf
	best := split{feature: -1, score: total * total / float64(n)}

	nFeatures := len(b.X[idx[0]])
	tried := 0
	for _, f := range b.rnd.Perm(nFeatures) {
		if tried >= b.params.maxFeatures && best.feature >= 0 {
			break
		}

		b.pairs = b.pairs[:0]
		for _, i := range idx {
			b.pairs = append(b.pairs, valueTarget{x: b.X[i][f], y: b.y[i]})
		}
		slices.SortFunc(b.pairs, func(a, c valueTarget) int {
			return cmp.Compare(a.x, c.x)
		})
		if b.pairs[0].x == b.pairs[n-1].x {
			continue
		}
		tried++

		var leftSum float64
		for k := 0; k < n-1; k++ {
			leftSum += b.pairs[k].y
			nl := k + 1
			nr := n - nl
			if b.pairs[k].x == b.pairs[k+1].x || nl < minLeaf || nr < minLeaf {
				continue
			}
			rightSum := total - leftSum
			score := leftSum*leftSum/float64(nl) + rightSum*rightSum/float64(nr)
			if score > best.score {
				threshold := (b.pairs[k].x + b.pairs[k+1].x) / 2
				if threshold >= b.pairs[k+1].x {
					threshold = b.pairs[k].x
				}
				best = split{feature: f, threshold: threshold, score: score}
			}
		}
	}

	return best, best.feature >= 0
}
