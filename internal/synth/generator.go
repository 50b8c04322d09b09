package synth

import (
	"math"
	"math/rand/v2"

	"github.com/2beens/weightrec/internal/catalog"
	"github.com/2beens/weightrec/internal/features"
)

const (
	DefaultSamples = 3000
	DefaultSeed    = 42

	minWeight = 5.0
)

type Config struct {
	Samples int
	Seed    uint64
}

func DefaultConfig() Config {
	return Config{
		Samples: DefaultSamples,
		Seed:    DefaultSeed,
	}
}

type weighted[T any] struct {
	value T
	p     float64
}

var levelDistribution = []weighted[catalog.Level]{
	{catalog.LevelBeginner, 0.3},
	{catalog.LevelIntermediate, 0.5},
	{catalog.LevelAdvanced, 0.2},
}

var successDistribution = []weighted[bool]{
	{false, 0.2},
	{true, 0.8},
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Generate simulates labeled workouts. The same config always yields the same rows.
func Generate(cfg Config) []features.Sample {
	if cfg.Samples <= 0 {
		cfg.Samples = DefaultSamples
	}
	rnd := newRand(cfg.Seed)
	exercises := catalog.All()

	samples := make([]features.Sample, 0, cfg.Samples)
	for i := 0; i < cfg.Samples; i++ {
		sets := 2 + rnd.IntN(6)  // [2, 8)
		reps := 3 + rnd.IntN(17) // [3, 20)
		spec := exercises[rnd.IntN(len(exercises))]
		level := pick(rnd, levelDistribution)
		success := pick(rnd, successDistribution)

		weight := SimulateWeight(spec, sets, reps, level, success, rnd.NormFloat64())

		// all inputs come from the catalog, so Compute cannot fail here
		v, err := features.Compute(features.Input{
			Exercise:        spec.Name,
			Sets:            sets,
			Reps:            reps,
			ExperienceLevel: string(level),
			PreviousSuccess: success,
			Weight:          weight,
		})
		if err != nil {
			panic(err)
		}
		samples = append(samples, features.Sample{Features: v, Weight: weight})
	}

	return samples
}

// SimulateWeight returns the ground truth weight for a prescription.
// z is a standard normal draw, scaled to 2% of the exercise base weight.
func SimulateWeight(
	spec catalog.ExerciseSpec,
	sets, reps int,
	level catalog.Level,
	previousSuccess bool,
	z float64,
) float64 {
	intensityFactor := features.Intensity(reps)
	volumeFactor := 1 + 0.015*float64(sets)
	fatigueFactor := features.Fatigue(sets)
	successBonus := 1.0
	if previousSuccess {
		successBonus += 0.07
	}

	weight := spec.BaseWeight *
		intensityFactor *
		volumeFactor *
		fatigueFactor *
		spec.Specificity *
		catalog.ExperienceModifier[level] *
		successBonus

	noise := z * spec.BaseWeight * 0.02
	return math.Max(minWeight, weight+noise)
}

func pick[T any](rnd *rand.Rand, dist []weighted[T]) T {
	u := rnd.Float64()
	var cumulative float64
	for _, w := range dist {
		cumulative += w.p
		if u < cumulative {
			return w.value
		}
	}
	return dist[len(dist)-1].value
}
