package model

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/2beens/weightrec/internal/features"
)

// CVResult holds the per-fold mean absolute errors.
type CVResult struct {
	Scores []float64 `json:"scores"`
	Mean   float64   `json:"mean"`
	Std    float64   `json:"std"`
}

func (r CVResult) String() string {
	return fmt.Sprintf("%.2f kg ± %.2f kg", r.Mean, r.Std)
}

func MeanAbsoluteError(actual, predicted []float64) float64 {
	if len(actual) == 0 {
		return 0
	}
	return floats.Distance(actual, predicted, 1) / float64(len(actual))
}

// Evaluate returns the mean absolute error of p over the samples.
func Evaluate(p *Pipeline, samples []features.Sample) (float64, error) {
	rows, y := unzip(samples)
	preds, err := p.PredictBatch(rows)
	if err != nil {
		return 0, err
	}
	return MeanAbsoluteError(y, preds), nil
}

// foldBounds splits n rows into k contiguous folds, the first n%k folds one row larger.
func foldBounds(n, k int) [][2]int {
	bounds := make([][2]int, k)
	start := 0
	for f := 0; f < k; f++ {
		size := n / k
		if f < n%k {
			size++
		}
		bounds[f] = [2]int{start, start + size}
		start += size
	}
	return bounds
}

// CrossValidate fits one pipeline per fold, each from scratch, and scores it on the
// held-out fold. Folds are contiguous and unshuffled.
func CrossValidate(ctx context.Context, cfg Config, samples []features.Sample) (CVResult, error) {
	if err := cfg.Validate(); err != nil {
		return CVResult{}, err
	}
	k := cfg.CVFolds
	if len(samples) < k {
		return CVResult{}, fmt.Errorf("%w: %d samples for %d folds", ErrEmptyTrainingSet, len(samples), k)
	}

	scores := make([]float64, k)
	g, ctx := errgroup.WithContext(ctx)
	for f, b := range foldBounds(len(samples), k) {
		g.Go(func() error {
			train := make([]features.Sample, 0, len(samples)-(b[1]-b[0]))
			train = append(train, samples[:b[0]]...)
			train = append(train, samples[b[1]:]...)

			p, err := Fit(ctx, cfg, train)
			if err != nil {
				return fmt.Errorf("fold %d: %w", f, err)
			}
			mae, err := Evaluate(p, samples[b[0]:b[1]])
			if err != nil {
				return fmt.Errorf("fold %d: %w", f, err)
			}
			scores[f] = mae
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return CVResult{}, err
	}

	mean, std := stat.PopMeanStdDev(scores, nil)
	return CVResult{Scores: scores, Mean: mean, Std: std}, nil
}
