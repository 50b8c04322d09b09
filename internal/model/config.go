package model

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyTrainingSet = errors.New("empty training set")
	ErrInvalidConfig    = errors.New("invalid model config")
)

type ForestConfig struct {
	Trees          int `toml:"trees"`
	MaxDepth       int `toml:"max_depth"`
	MinSamplesLeaf int `toml:"min_samples_leaf"`
}

type BoostingConfig struct {
	Stages         int     `toml:"stages"`
	MaxDepth       int     `toml:"max_depth"`
	MinSamplesLeaf int     `toml:"min_samples_leaf"`
	LearningRate   float64 `toml:"learning_rate"`
	Subsample      float64 `toml:"subsample"`
}

// Config holds the hyper-parameters of the whole pipeline.
type Config struct {
	Seed           uint64         `toml:"seed"`
	ForestWeight   float64        `toml:"forest_weight"`
	BoostingWeight float64        `toml:"boosting_weight"`
	CVFolds        int            `toml:"cv_folds"`
	Forest         ForestConfig   `toml:"forest"`
	Boosting       BoostingConfig `toml:"boosting"`
}

func DefaultConfig() Config {
	return Config{
		Seed:           42,
		ForestWeight:   0.6,
		BoostingWeight: 0.4,
		CVFolds:        5,
		Forest: ForestConfig{
			Trees:          400,
			MaxDepth:       15,
			MinSamplesLeaf: 2,
		},
		Boosting: BoostingConfig{
			Stages:         300,
			MaxDepth:       8,
			MinSamplesLeaf: 1,
			LearningRate:   0.05,
			Subsample:      0.8,
		},
	}
}

func (c Config) Validate() error {
	switch {
	case c.ForestWeight < 0 || c.BoostingWeight < 0 || c.ForestWeight+c.BoostingWeight <= 0:
		return fmt.Errorf("%w: ensemble weights %v/%v", ErrInvalidConfig, c.ForestWeight, c.BoostingWeight)
	case c.Forest.Trees <= 0 || c.Forest.MaxDepth <= 0 || c.Forest.MinSamplesLeaf <= 0:
		return fmt.Errorf("%w: forest %+v", ErrInvalidConfig, c.Forest)
	case c.Boosting.Stages <= 0 || c.Boosting.MaxDepth <= 0 || c.Boosting.MinSamplesLeaf <= 0:
		return fmt.Errorf("%w: boosting %+v", ErrInvalidConfig, c.Boosting)
	case c.Boosting.LearningRate <= 0:
		return fmt.Errorf("%w: learning rate %v", ErrInvalidConfig, c.Boosting.LearningRate)
	case c.Boosting.Subsample <= 0 || c.Boosting.Subsample > 1:
		return fmt.Errorf("%w: subsample %v", ErrInvalidConfig, c.Boosting.Subsample)
	case c.CVFolds < 2:
		return fmt.Errorf("%w: cv folds %d", ErrInvalidConfig, c.CVFolds)
	}
	return nil
}
