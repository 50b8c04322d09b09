package features

import (
	"errors"
	"fmt"
	"math"

	"github.com/2beens/weightrec/internal/catalog"
)

var ErrInvalidInput = errors.New("invalid input")

// FeatureVector is the model input derived from a single workout prescription.
// TotalLoad and AvgRepWeight depend on the weight, which is the prediction target,
// so at inference time they are filled by a provisional prediction (see WithWeight).
type FeatureVector struct {
	Sets                int              `json:"sets"`
	Reps                int              `json:"reps"`
	WorkoutType         string           `json:"workoutType"`
	Volume              float64          `json:"volume"`
	IntensityScore      float64          `json:"intensityScore"`
	FatigueScore        float64          `json:"fatigueScore"`
	ExerciseCategory    catalog.Category `json:"exerciseCategory"`
	ExperienceLevel     catalog.Level    `json:"experienceLevel"`
	PreviousSuccess     bool             `json:"previousSuccess"`
	BaseProgressionRate float64          `json:"baseProgressionRate"`
	TotalLoad           float64          `json:"totalLoad"`
	AvgRepWeight        float64          `json:"avgRepWeight"`
}

// Sample is a labeled training row.
type Sample struct {
	Features FeatureVector
	Weight   float64
}

type Input struct {
	Exercise        string
	Sets            int
	Reps            int
	ExperienceLevel string
	PreviousSuccess bool
	// Weight is 0 when unknown (prediction time).
	Weight float64
}

func Intensity(reps int) float64 {
	return 1.1 - 0.025*float64(reps)
}

func Fatigue(sets int) float64 {
	return math.Exp(-0.08 * float64(sets))
}

func Compute(in Input) (FeatureVector, error) {
	if in.Sets <= 0 {
		return FeatureVector{}, fmt.Errorf("%w: sets must be positive, got %d", ErrInvalidInput, in.Sets)
	}
	if in.Reps <= 0 {
		return FeatureVector{}, fmt.Errorf("%w: reps must be positive, got %d", ErrInvalidInput, in.Reps)
	}
	if in.Weight < 0 || math.IsNaN(in.Weight) || math.IsInf(in.Weight, 0) {
		return FeatureVector{}, fmt.Errorf("%w: weight %v", ErrInvalidInput, in.Weight)
	}

	spec, err := catalog.Lookup(in.Exercise)
	if err != nil {
		return FeatureVector{}, err
	}
	level, err := catalog.ParseLevel(in.ExperienceLevel)
	if err != nil {
		return FeatureVector{}, err
	}

	v := FeatureVector{
		Sets:                in.Sets,
		Reps:                in.Reps,
		WorkoutType:         spec.Name,
		Volume:              float64(in.Sets) * float64(in.Reps),
		IntensityScore:      Intensity(in.Reps),
		FatigueScore:        Fatigue(in.Sets),
		ExerciseCategory:    spec.Category,
		ExperienceLevel:     level,
		PreviousSuccess:     in.PreviousSuccess,
		BaseProgressionRate: spec.ProgressionRate,
	}
	return v.WithWeight(in.Weight), nil
}

// WithWeight returns a copy with the weight-derived features recomputed.
// Reps is guaranteed positive by Compute.
func (v FeatureVector) WithWeight(weight float64) FeatureVector {
	v.TotalLoad = weight * v.Volume
	v.AvgRepWeight = weight / float64(v.Reps)
	return v
}

func (v FeatureVector) PreviousSuccessValue() float64 {
	if v.PreviousSuccess {
		return 1
	}
	return 0
}
