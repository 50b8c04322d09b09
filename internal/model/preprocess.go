package model

import (
	"errors"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/2beens/weightrec/internal/features"
)

var ErrUnknownCategory = errors.New("unknown category")

var NumericColumns = []string{
	"sets",
	"reps",
	"volume",
	"intensity_score",
	"fatigue_score",
	"previous_success",
	"base_progression_rate",
	"total_load",
	"avg_rep_weight",
}

var CategoricalColumns = []string{
	"workout_type",
	"exercise_category",
	"experience_level",
}

func numericValues(v features.FeatureVector) []float64 {
	return []float64{
		float64(v.Sets),
		float64(v.Reps),
		v.Volume,
		v.IntensityScore,
		v.FatigueScore,
		v.PreviousSuccessValue(),
		v.BaseProgressionRate,
		v.TotalLoad,
		v.AvgRepWeight,
	}
}

func categoricalValues(v features.FeatureVector) []string {
	return []string{
		v.WorkoutType,
		string(v.ExerciseCategory),
		string(v.ExperienceLevel),
	}
}

// Preprocessor standardizes numeric columns and one-hot encodes categorical ones.
// For every categorical column the lexicographically first category is the dropped
// reference, so it encodes to all zeros.
type Preprocessor struct {
	Means      []float64
	Scales     []float64
	Categories [][]string
}

func FitPreprocessor(rows []features.FeatureVector) (*Preprocessor, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyTrainingSet
	}

	p := &Preprocessor{
		Means:      make([]float64, len(NumericColumns)),
		Scales:     make([]float64, len(NumericColumns)),
		Categories: make([][]string, len(CategoricalColumns)),
	}

	columns := make([][]float64, len(NumericColumns))
	for c := range columns {
		columns[c] = make([]float64, len(rows))
	}
	seen := make([]map[string]struct{}, len(CategoricalColumns))
	for c := range seen {
		seen[c] = map[string]struct{}{}
	}

	for r, row := range rows {
		for c, val := range numericValues(row) {
			columns[c][r] = val
		}
		for c, val := range categoricalValues(row) {
			seen[c][val] = struct{}{}
		}
	}

	for c, col := range columns {
		mean, std := stat.PopMeanStdDev(col, nil)
		p.Means[c] = mean
		p.Scales[c] = std
		if std == 0 {
			p.Scales[c] = 1
		}
	}

	for c, set := range seen {
		cats := make([]string, 0, len(set))
		for cat := range set {
			cats = append(cats, cat)
		}
		slices.Sort(cats)
		p.Categories[c] = cats
	}

	return p, nil
}

// Width is the length of a transformed row.
func (p *Preprocessor) Width() int {
	w := len(p.Means)
	for _, cats := range p.Categories {
		w += len(cats) - 1
	}
	return w
}

func (p *Preprocessor) Transform(v features.FeatureVector) ([]float64, error) {
	out := make([]float64, 0, p.Width())
	for c, val := range numericValues(v) {
		out = append(out, (val-p.Means[c])/p.Scales[c])
	}

	for c, val := range categoricalValues(v) {
		cats := p.Categories[c]
		pos, found := slices.BinarySearch(cats, val)
		if !found {
			return nil, fmt.Errorf("%w: %s=%q", ErrUnknownCategory, CategoricalColumns[c], val)
		}
		for i := 1; i < len(cats); i++ {
			if i == pos {
				out = append(out, 1)
			} else {
				out = append(out, 0)
			}
		}
	}

	return out, nil
}

func (p *Preprocessor) TransformAll(rows []features.FeatureVector) ([][]float64, error) {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		x, err := p.Transform(row)
		if err != nil {
			return nil, err
		}
		out[i] = x
	}
	return out, nil
}
