package catalog

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrUnknownExercise = errors.New("unknown exercise")
	ErrUnknownLevel    = errors.New("unknown experience level")
	ErrUnknownGoal     = errors.New("unknown goal")
)

type Category string

const (
	CategoryCompoundLower  Category = "compound_lower"
	CategoryCompoundUpper  Category = "compound_upper"
	CategoryIsolationUpper Category = "isolation_upper"
	CategoryIsolationLower Category = "isolation_lower"
)

// ExerciseSpec holds the fixed parameters of a single exercise.
// BaseWeight is in kilos; bodyweight exercises have a base of 0.
type ExerciseSpec struct {
	Name            string   `json:"name"`
	BaseWeight      float64  `json:"baseWeight"`
	Specificity     float64  `json:"specificity"`
	ProgressionRate float64  `json:"progressionRate"`
	Category        Category `json:"category"`
}

var exercises = map[string]ExerciseSpec{
	"deadlift":          {Name: "deadlift", BaseWeight: 140, Specificity: 1.2, ProgressionRate: 5.0, Category: CategoryCompoundLower},
	"bench_press":       {Name: "bench_press", BaseWeight: 80, Specificity: 1.0, ProgressionRate: 2.5, Category: CategoryCompoundUpper},
	"squat":             {Name: "squat", BaseWeight: 120, Specificity: 1.15, ProgressionRate: 5.0, Category: CategoryCompoundLower},
	"overhead_press":    {Name: "overhead_press", BaseWeight: 50, Specificity: 0.9, ProgressionRate: 2.0, Category: CategoryCompoundUpper},
	"barbell_row":       {Name: "barbell_row", BaseWeight: 70, Specificity: 0.95, ProgressionRate: 2.5, Category: CategoryCompoundUpper},
	"bicep_curl":        {Name: "bicep_curl", BaseWeight: 20, Specificity: 0.8, ProgressionRate: 1.0, Category: CategoryIsolationUpper},
	"tricep_extension":  {Name: "tricep_extension", BaseWeight: 25, Specificity: 0.8, ProgressionRate: 1.0, Category: CategoryIsolationUpper},
	"leg_press":         {Name: "leg_press", BaseWeight: 150, Specificity: 1.1, ProgressionRate: 10.0, Category: CategoryCompoundLower},
	"romanian_deadlift": {Name: "romanian_deadlift", BaseWeight: 100, Specificity: 1.1, ProgressionRate: 4.0, Category: CategoryCompoundLower},
	"front_squat":       {Name: "front_squat", BaseWeight: 90, Specificity: 1.1, ProgressionRate: 4.0, Category: CategoryCompoundLower},
	"incline_bench":     {Name: "incline_bench", BaseWeight: 65, Specificity: 0.95, ProgressionRate: 2.0, Category: CategoryCompoundUpper},
	"pull_ups":          {Name: "pull_ups", BaseWeight: 0, Specificity: 1.0, ProgressionRate: 1.0, Category: CategoryCompoundUpper},
	"dips":              {Name: "dips", BaseWeight: 0, Specificity: 1.0, ProgressionRate: 1.0, Category: CategoryCompoundUpper},
	"lateral_raise":     {Name: "lateral_raise", BaseWeight: 10, Specificity: 0.7, ProgressionRate: 0.5, Category: CategoryIsolationUpper},
	"face_pull":         {Name: "face_pull", BaseWeight: 15, Specificity: 0.7, ProgressionRate: 1.0, Category: CategoryIsolationUpper},
	"calf_raise":        {Name: "calf_raise", BaseWeight: 100, Specificity: 0.8, ProgressionRate: 5.0, Category: CategoryIsolationLower},
	"leg_extension":     {Name: "leg_extension", BaseWeight: 50, Specificity: 0.8, ProgressionRate: 2.5, Category: CategoryIsolationLower},
	"leg_curl":          {Name: "leg_curl", BaseWeight: 45, Specificity: 0.8, ProgressionRate: 2.5, Category: CategoryIsolationLower},
}

// sorted once, so anything iterating the catalog (e.g. the synthetic generator) is deterministic
var exerciseNames = func() []string {
	names := make([]string, 0, len(exercises))
	for name := range exercises {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}()

func Lookup(name string) (ExerciseSpec, error) {
	spec, ok := exercises[name]
	if !ok {
		return ExerciseSpec{}, fmt.Errorf("%w: %s", ErrUnknownExercise, name)
	}
	return spec, nil
}

// Names returns the catalog exercise names in lexicographic order.
func Names() []string {
	names := make([]string, len(exerciseNames))
	copy(names, exerciseNames)
	return names
}

func All() []ExerciseSpec {
	specs := make([]ExerciseSpec, 0, len(exerciseNames))
	for _, name := range exerciseNames {
		specs = append(specs, exercises[name])
	}
	return specs
}
