package model

import (
	"context"
	"math/rand/v2"
	"slices"
)

// boostingStream separates the boosting random stream from the per-tree forest streams.
const boostingStream = 1 << 62

// Boosting is gradient boosting with absolute error loss. Every stage fits a tree to
// the sign of the residuals and then replaces each leaf value with the median residual
// of the rows that reached it.
type Boosting struct {
	Init         float64
	LearningRate float64
	Trees        []*Tree
}

func fitBoosting(ctx context.Context, X [][]float64, y []float64, cfg BoostingConfig, seed uint64) (*Boosting, error) {
	n := len(X)
	if n == 0 {
		return nil, ErrEmptyTrainingSet
	}

	rnd := rand.New(rand.NewPCG(seed, boostingStream))
	params := treeParams{
		maxDepth:       cfg.MaxDepth,
		minSamplesLeaf: cfg.MinSamplesLeaf,
		maxFeatures:    len(X[0]),
	}
	inBag := max(1, int(cfg.Subsample*float64(n)))

	b := &Boosting{
		Init:         median(y),
		LearningRate: cfg.LearningRate,
		Trees:        make([]*Tree, 0, cfg.Stages),
	}

	current := make([]float64, n)
	for i := range current {
		current[i] = b.Init
	}
	residuals := make([]float64, n)
	signs := make([]float64, n)

	for stage := 0; stage < cfg.Stages; stage++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		for i := range residuals {
			residuals[i] = y[i] - current[i]
			signs[i] = sign(residuals[i])
		}

		idx := rnd.Perm(n)[:inBag]
		slices.Sort(idx)
		tree := buildTree(X, signs, idx, params, rnd)

		byLeaf := map[int32][]float64{}
		for _, i := range idx {
			leaf := tree.apply(X[i])
			byLeaf[leaf] = append(byLeaf[leaf], residuals[i])
		}
		for leaf, rs := range byLeaf {
			tree.Nodes[leaf].Value = median(rs)
		}

		for i := range current {
			current[i] += b.LearningRate * tree.Predict(X[i])
		}
		b.Trees = append(b.Trees, tree)
	}

	return b, nil
}

func (b *Boosting) Predict(x []float64) float64 {
	pred := b.Init
	for _, t := range b.Trees {
		pred += b.LearningRate * t.Predict(x)
	}
	return pred
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
