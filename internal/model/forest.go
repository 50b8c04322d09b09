package model

import (
	"context"
	"math"
	"math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Forest is a bagged ensemble of regression trees.
type Forest struct {
	Trees []*Tree
}

// fitForest grows every tree on its own bootstrap sample. Each tree draws from a
// stream derived from (seed, tree index), so the result does not depend on scheduling.
func fitForest(ctx context.Context, X [][]float64, y []float64, cfg ForestConfig, seed uint64) (*Forest, error) {
	if len(X) == 0 {
		return nil, ErrEmptyTrainingSet
	}

	nFeatures := len(X[0])
	params := treeParams{
		maxDepth:       cfg.MaxDepth,
		minSamplesLeaf: cfg.MinSamplesLeaf,
		maxFeatures:    max(1, int(math.Sqrt(float64(nFeatures)))),
	}

	trees := make([]*Tree, cfg.Trees)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range trees {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rnd := rand.New(rand.NewPCG(seed, uint64(i)))
			idx := make([]int, len(X))
			for j := range idx {
				idx[j] = rnd.IntN(len(X))
			}
			trees[i] = buildTree(X, y, idx, params, rnd)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Forest{Trees: trees}, nil
}

// Predict averages the trees.
func (f *Forest) Predict(x []float64) float64 {
	var sum float64
	for _, t := range f.Trees {
		sum += t.Predict(x)
	}
	return sum / float64(len(f.Trees))
}
