package catalog

import "fmt"

type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

var Levels = []Level{LevelBeginner, LevelIntermediate, LevelAdvanced}

// ExperienceModifier scales the simulated weight by lifter experience.
var ExperienceModifier = map[Level]float64{
	LevelBeginner:     0.7,
	LevelIntermediate: 1.0,
	LevelAdvanced:     1.4,
}

func ParseLevel(s string) (Level, error) {
	switch Level(s) {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return Level(s), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownLevel, s)
	}
}
