package model

import (
	"context"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

// Ensemble averages the forest and the boosting predictions with fixed weights.
type Ensemble struct {
	Forest   *Forest
	Boosting *Boosting
	Weights  []float64
}

func fitEnsemble(ctx context.Context, X [][]float64, y []float64, cfg Config) (*Ensemble, error) {
	e := &Ensemble{
		Weights: []float64{cfg.ForestWeight, cfg.BoostingWeight},
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		forest, err := fitForest(ctx, X, y, cfg.Forest, cfg.Seed)
		if err != nil {
			return err
		}
		e.Forest = forest
		return nil
	})
	g.Go(func() error {
		boosting, err := fitBoosting(ctx, X, y, cfg.Boosting, cfg.Seed)
		if err != nil {
			return err
		}
		e.Boosting = boosting
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return e, nil
}

func (e *Ensemble) Predict(x []float64) float64 {
	preds := []float64{e.Forest.Predict(x), e.Boosting.Predict(x)}
	return floats.Dot(preds, e.Weights) / floats.Sum(e.Weights)
}
