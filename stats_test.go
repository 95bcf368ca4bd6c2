package molcom

import (
	"math"
	"testing"

	"github.com/iti/rngstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeStepStats(t *testing.T) {
	ss, err := ComputeStepStats([]int{30, 50, 70})
	require.NoError(t, err)
	assert.Equal(t, 3, ss.Count)
	assert.Equal(t, 30, ss.Min)
	assert.Equal(t, 70, ss.Max)
	assert.InDelta(t, 50.0, ss.Mean, 1e-12)
	assert.Equal(t, 50.0, ss.Median)
	assert.InDelta(t, 800.0/3.0, ss.Variance, 1e-9)
	assert.InDelta(t, math.Sqrt(800.0/3.0), ss.StdDev, 1e-9)
	assert.Equal(t, 0, ss.BinWidth)
}

func TestComputeStepStatsEvenMedian(t *testing.T) {
	ss, err := ComputeStepStats([]int{1, 2, 4, 9})
	require.NoError(t, err)
	assert.Equal(t, 3.0, ss.Median)
	assert.InDelta(t, 4.0, ss.Mean, 1e-12)
}

func TestBinWidth(t *testing.T) {
	tests := map[int]int{
		0:     0,
		99:    0,
		550:   5,
		999:   9,
		1000:  10,
		2500:  20,
		12345: 120,
	}
	for maximum, want := range tests {
		assert.Equal(t, want, binWidth(maximum), "maximum=%d", maximum)
	}
}

func TestComputeStepStatsIdempotent(t *testing.T) {
	steps := []int{3, 8, 8, 15, 400, 1200}
	first, err := ComputeStepStats(steps)
	require.NoError(t, err)
	second, err := ComputeStepStats(steps)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, []int{3, 8, 8, 15, 400, 1200}, steps)
}

func TestComputeStepStatsErrors(t *testing.T) {
	_, err := ComputeStepStats(nil)
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = ComputeStepStats([]int{})
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = ComputeStepStats([]int{5, 1})
	assert.ErrorIs(t, err, ErrFormat)
}

func TestBootstrapMean(t *testing.T) {
	steps := []int{10, 12, 14, 16, 18, 20, 22, 24, 26, 28}
	rng := rngstream.New("bootstrap-test")

	iv, err := BootstrapMean(steps, 500, rng)
	require.NoError(t, err)
	assert.LessOrEqual(t, iv.Lo, iv.Hi)
	assert.GreaterOrEqual(t, iv.Lo, 10.0)
	assert.LessOrEqual(t, iv.Hi, 28.0)
	assert.True(t, iv.Lo <= 19.0 && 19.0 <= iv.Hi, "interval %v should cover the sample mean", iv)

	// a constant series has a degenerate interval
	iv, err = BootstrapMean([]int{7, 7, 7}, 50, rng)
	require.NoError(t, err)
	assert.Equal(t, Interval{Lo: 7, Hi: 7}, iv)

	_, err = BootstrapMean(nil, 10, rng)
	assert.ErrorIs(t, err, ErrEmptyInput)
	_, err = BootstrapMean(steps, 0, rng)
	assert.Error(t, err)
}
