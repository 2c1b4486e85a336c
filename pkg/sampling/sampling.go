// Package sampling draws slice ordinals from a tomographic stack for
// stereological analysis. Two schemes are provided: uniform random
// sampling without replacement, where every k-subset of the stack is
// equally likely, and systematic uniform random sampling, where the
// selected slices are equally spaced with a random start offset.
package sampling

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/habi/STEPanizerizer/internal/models"
	"github.com/habi/STEPanizerizer/pkg/stepanizer"
)

// Uniform draws k distinct ordinals uniformly at random from [0, n)
// without replacement and returns them in ascending order. Every
// combination of k ordinals is equally likely. The same seed yields
// the same sample; a zero seed draws a fresh one from the clock.
func Uniform(n, k int, seed int64) (models.Sample, error) {
	if err := checkArgs(n, k); err != nil {
		return nil, err
	}

	// Shuffle-and-take: the first k entries of a random permutation
	// of [0, n) form a uniform sample without replacement.
	picked := newRand(seed).Perm(n)[:k]
	sort.Ints(picked)
	return models.Sample(picked), nil
}

// Systematic draws ordinals with a fixed step of round(n/k) starting
// at a random offset within the first step. This is the classic
// systematic uniform random sampling of stereology: equal spacing
// between slices, different start each run. Due to the rounding of
// the step the sample size is approximately, not exactly, k.
func Systematic(n, k int, seed int64) (models.Sample, error) {
	if err := checkArgs(n, k); err != nil {
		return nil, err
	}

	step := int(math.Round(float64(n) / float64(k)))
	if step < 1 {
		step = 1
	}
	start := newRand(seed).Intn(step)

	sample := make(models.Sample, 0, k+1)
	for i := start; i < n; i += step {
		sample = append(sample, i)
	}
	return sample, nil
}

// Spacing returns the mean and standard deviation of the gaps between
// consecutive sampled ordinals. Both are zero for samples with fewer
// than two members.
func Spacing(sample models.Sample) (mean, stddev float64) {
	if len(sample) < 2 {
		return 0, 0
	}
	gaps := make([]float64, len(sample)-1)
	for i := 1; i < len(sample); i++ {
		gaps[i-1] = float64(sample[i] - sample[i-1])
	}
	mean = stat.Mean(gaps, nil)
	stddev = stat.StdDev(gaps, nil)
	if math.IsNaN(stddev) {
		// StdDev of a single gap
		stddev = 0
	}
	return mean, stddev
}

// checkArgs validates a sample request against the stack size
func checkArgs(n, k int) error {
	if n <= 0 {
		return fmt.Errorf("stack size %d must be positive: %w", n, stepanizer.ErrInvalidArgument)
	}
	if k <= 0 {
		return fmt.Errorf("sample size %d must be positive: %w", k, stepanizer.ErrInvalidArgument)
	}
	if k > n {
		return fmt.Errorf("sample size %d exceeds stack size %d: %w", k, n, stepanizer.ErrInvalidArgument)
	}
	return nil
}

// newRand returns a seeded source, or a clock-seeded one for seed 0
func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
