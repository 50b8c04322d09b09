package catalog

import (
	"fmt"
	"sort"
)

type Goal string

const (
	GoalStrength    Goal = "strength"
	GoalHypertrophy Goal = "hypertrophy"
	GoalEndurance   Goal = "endurance"
)

type SetsReps struct {
	Sets int `json:"sets"`
	Reps int `json:"reps"`
}

// Template is a single exercise prescription of a goal plan.
type Template struct {
	Exercise string
	SetsReps
}

var goals = map[Goal]map[string]SetsReps{
	GoalStrength: {
		"deadlift":       {Sets: 5, Reps: 5},
		"squat":          {Sets: 5, Reps: 5},
		"bench_press":    {Sets: 5, Reps: 5},
		"overhead_press": {Sets: 5, Reps: 5},
	},
	GoalHypertrophy: {
		"bench_press":      {Sets: 4, Reps: 8},
		"barbell_row":      {Sets: 4, Reps: 8},
		"tricep_extension": {Sets: 3, Reps: 12},
		"bicep_curl":       {Sets: 3, Reps: 12},
	},
	GoalEndurance: {
		"leg_press":   {Sets: 3, Reps: 15},
		"bench_press": {Sets: 3, Reps: 15},
		"barbell_row": {Sets: 3, Reps: 15},
	},
}

func ParseGoal(s string) (Goal, error) {
	if _, ok := goals[Goal(s)]; !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownGoal, s)
	}
	return Goal(s), nil
}

// GoalTemplates returns the fixed plan for a goal, ordered by exercise name.
func GoalTemplates(goal Goal) ([]Template, error) {
	plan, ok := goals[goal]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGoal, goal)
	}

	templates := make([]Template, 0, len(plan))
	for exercise, sr := range plan {
		templates = append(templates, Template{Exercise: exercise, SetsReps: sr})
	}
	sort.Slice(templates, func(i, j int) bool {
		return templates[i].Exercise < templates[j].Exercise
	})
	return templates, nil
}

func Goals() []Goal {
	return []Goal{GoalStrength, GoalHypertrophy, GoalEndurance}
}
