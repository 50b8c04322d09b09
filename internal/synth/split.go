package synth

import (
	"math"

	"github.com/2beens/weightrec/internal/features"
)

const DefaultTestFraction = 0.15

// Split shuffles the samples with the given seed and holds out testFraction of them.
// The input slice is not modified.
func Split(samples []features.Sample, testFraction float64, seed uint64) (train, test []features.Sample) {
	if testFraction <= 0 || testFraction >= 1 {
		testFraction = DefaultTestFraction
	}

	rnd := newRand(seed)
	perm := rnd.Perm(len(samples))

	testSize := int(math.Ceil(float64(len(samples)) * testFraction))
	test = make([]features.Sample, 0, testSize)
	train = make([]features.Sample, 0, len(samples)-testSize)
	for i, idx := range perm {
		if i < testSize {
			test = append(test, samples[idx])
		} else {
			train = append(train, samples[idx])
		}
	}
	return train, test
}
