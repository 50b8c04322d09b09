package model

import (
	"context"
	"fmt"
	"time"

	"github.com/2beens/weightrec/internal/features"
)

// Pipeline is a fitted preprocessor plus regressor. A Pipeline is never mutated after
// Fit returns, so it is safe for concurrent Predict calls.
type Pipeline struct {
	Preprocessor *Preprocessor
	Ensemble     *Ensemble
	Config       Config
	TrainedAt    time.Time
	TrainingRows int
}

// Fit trains a new pipeline from scratch on all the given samples.
func Fit(ctx context.Context, cfg Config, samples []features.Sample) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, ErrEmptyTrainingSet
	}

	rows, y := unzip(samples)
	pre, err := FitPreprocessor(rows)
	if err != nil {
		return nil, fmt.Errorf("fit preprocessor: %w", err)
	}
	X, err := pre.TransformAll(rows)
	if err != nil {
		return nil, fmt.Errorf("transform training rows: %w", err)
	}

	ensemble, err := fitEnsemble(ctx, X, y, cfg)
	if err != nil {
		return nil, fmt.Errorf("fit ensemble: %w", err)
	}

	return &Pipeline{
		Preprocessor: pre,
		Ensemble:     ensemble,
		Config:       cfg,
		TrainedAt:    time.Now().UTC(),
		TrainingRows: len(samples),
	}, nil
}

func (p *Pipeline) Predict(v features.FeatureVector) (float64, error) {
	x, err := p.Preprocessor.Transform(v)
	if err != nil {
		return 0, err
	}
	return p.Ensemble.Predict(x), nil
}

func (p *Pipeline) PredictBatch(rows []features.FeatureVector) ([]float64, error) {
	X, err := p.Preprocessor.TransformAll(rows)
	if err != nil {
		return nil, err
	}
	preds := make([]float64, len(X))
	for i, x := range X {
		preds[i] = p.Ensemble.Predict(x)
	}
	return preds, nil
}

func unzip(samples []features.Sample) ([]features.FeatureVector, []float64) {
	rows := make([]features.FeatureVector, len(samples))
	y := make([]float64, len(samples))
	for i, s := range samples {
		rows[i] = s.Features
		y[i] = s.Weight
	}
	return rows, y
}
