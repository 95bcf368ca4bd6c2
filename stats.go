package molcom

// stats.go computes descriptive statistics of the delivery step counts of a configuration

import (
	"fmt"
	"math"

	"github.com/iti/rngstream"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/stat"
)

// StepStats summarizes a StepSeries
type StepStats struct {
	Count    int     `json:"count" yaml:"count"`
	Min      int     `json:"min" yaml:"min"`
	Max      int     `json:"max" yaml:"max"`
	BinWidth int     `json:"binwidth" yaml:"binwidth"`
	Variance float64 `json:"variance" yaml:"variance"`
	StdDev   float64 `json:"stddev" yaml:"stddev"`
	Median   float64 `json:"median" yaml:"median"`
	Mean     float64 `json:"mean" yaml:"mean"`
}

// ComputeStepStats summarizes steps, which must be sorted ascending.
// Variance and StdDev are population statistics (the series is every trial run)
func ComputeStepStats(steps []int) (*StepStats, error) {
	if len(steps) == 0 {
		return nil, fmt.Errorf("%w: step series holds no trials", ErrEmptyInput)
	}
	if !slices.IsSorted(steps) {
		return nil, formatErr("step series is not sorted")
	}

	x := toFloats(steps)
	ss := new(StepStats)
	ss.Count = len(steps)
	ss.Min = steps[0]
	ss.Max = steps[len(steps)-1]
	ss.BinWidth = binWidth(ss.Max)
	ss.Mean, ss.Variance = stat.PopMeanVariance(x, nil)
	ss.StdDev = math.Sqrt(ss.Variance)
	ss.Median = median(steps)
	return ss, nil
}

// binWidth is the histogram bin width used when plotting a series whose largest value is maximum
func binWidth(maximum int) int {
	width := (maximum / 1000) * 10
	if width == 0 {
		width = maximum / 100
	}
	return width
}

// median of a sorted series; the mean of the two middle values when the length is even
func median(sorted []int) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return float64(sorted[n/2])
	}
	return float64(sorted[n/2-1]+sorted[n/2]) / 2.0
}

// Interval is a closed range of values
type Interval struct {
	Lo float64 `json:"lo" yaml:"lo"`
	Hi float64 `json:"hi" yaml:"hi"`
}

// BootstrapMean resamples steps with replacement replicas times, drawing from rng,
// and returns the 2.5% and 97.5% empirical quantiles of the resampled means
func BootstrapMean(steps []int, replicas int, rng *rngstream.RngStream) (Interval, error) {
	if len(steps) == 0 {
		return Interval{}, fmt.Errorf("%w: step series holds no trials", ErrEmptyInput)
	}
	if replicas < 1 {
		return Interval{}, fmt.Errorf("bootstrap needs at least one replica, got %d", replicas)
	}

	n := len(steps)
	means := make([]float64, replicas)
	sample := make([]float64, n)
	for rep := 0; rep < replicas; rep++ {
		for idx := 0; idx < n; idx++ {
			pick := int(rng.RandU01() * float64(n))
			if pick >= n {
				pick = n - 1
			}
			sample[idx] = float64(steps[pick])
		}
		means[rep] = stat.Mean(sample, nil)
	}
	slices.Sort(means)

	return Interval{
		Lo: stat.Quantile(0.025, stat.Empirical, means, nil),
		Hi: stat.Quantile(0.975, stat.Empirical, means, nil),
	}, nil
}
