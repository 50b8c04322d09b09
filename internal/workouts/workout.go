package workouts

import (
	"time"

	"github.com/2beens/weightrec/internal/catalog"
	"github.com/2beens/weightrec/internal/features"
)

// Workout is a performed set scheme with the weight actually lifted.
type Workout struct {
	ID              int       `json:"id"`
	Exercise        string    `json:"exercise" validate:"required"`
	Sets            int       `json:"sets" validate:"gt=0,lte=50"`
	Reps            int       `json:"reps" validate:"gt=0,lte=200"`
	Weight          float64   `json:"weight" validate:"gte=0,lte=1000"`
	ExperienceLevel string    `json:"experienceLevel" validate:"omitempty,oneof=beginner intermediate advanced"`
	PreviousSuccess bool      `json:"previousSuccess"`
	CreatedAt       time.Time `json:"createdAt"`
}

func (w *Workout) Input() features.Input {
	level := w.ExperienceLevel
	if level == "" {
		level = string(catalog.LevelIntermediate)
	}
	return features.Input{
		Exercise:        w.Exercise,
		Sets:            w.Sets,
		Reps:            w.Reps,
		ExperienceLevel: level,
		PreviousSuccess: w.PreviousSuccess,
		Weight:          w.Weight,
	}
}
