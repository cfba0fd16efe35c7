package result

import (
	"errors"
	"math"

	moremath "github.com/aclements/go-moremath/stats"
	"github.com/cloud-bulldozer/nx/pkg/sample"
	stats "github.com/montanaflynn/stats"
)

// ErrNoSamples is returned when aggregating an empty series.
var ErrNoSamples = errors.New("no samples recorded")

// Aggregate holds the summary of a series, one Sample per statistic.
// Every dimension is computed on its own, so Min.Real and Min.User may
// come from different runs.
type Aggregate struct {
	Mean   sample.Sample `json:"mean"`
	Min    sample.Sample `json:"min"`
	Max    sample.Sample `json:"max"`
	Stddev sample.Sample `json:"stddev"`
}

// Collector is the ordered series of samples of one run.
type Collector struct {
	samples []sample.Sample
}

// NewCollector returns a Collector with room for n samples.
func NewCollector(n int) *Collector {
	if n < 0 {
		n = 0
	}
	return &Collector{samples: make([]sample.Sample, 0, n)}
}

// Record appends s to the series.
func (c *Collector) Record(s sample.Sample) {
	c.samples = append(c.samples, s)
}

// Len is the number of recorded samples.
func (c *Collector) Len() int {
	return len(c.samples)
}

// Samples returns a copy of the series in execution order.
func (c *Collector) Samples() []sample.Sample {
	out := make([]sample.Sample, len(c.samples))
	copy(out, c.samples)
	return out
}

// Series returns the values of one dimension in execution order.
func (c *Collector) Series(d sample.Dimension) []float64 {
	vals := make([]float64, len(c.samples))
	for i, s := range c.samples {
		vals[i] = s.Value(d)
	}
	return vals
}

// Aggregate computes min, max, mean and population standard deviation for
// every dimension. It does not modify the series.
func (c *Collector) Aggregate() (Aggregate, error) {
	var agg Aggregate
	if len(c.samples) == 0 {
		return agg, ErrNoSamples
	}
	for _, d := range sample.Dimensions {
		vals := c.Series(d)
		lo, err := stats.Min(vals)
		if err != nil {
			return agg, err
		}
		hi, err := stats.Max(vals)
		if err != nil {
			return agg, err
		}
		mean, err := Average(vals)
		if err != nil {
			return agg, err
		}
		// sum/N can round one ulp past the extremes, e.g. three equal values.
		mean = math.Min(math.Max(mean, lo), hi)
		sd, err := stats.StandardDeviationPopulation(vals)
		if err != nil {
			return agg, err
		}
		agg.Min = agg.Min.With(d, lo)
		agg.Max = agg.Max.With(d, hi)
		agg.Mean = agg.Mean.With(d, mean)
		agg.Stddev = agg.Stddev.With(d, sd)
	}
	return agg, nil
}

// Median returns the median of one dimension.
func (c *Collector) Median(d sample.Dimension) (float64, error) {
	if len(c.samples) == 0 {
		return 0, ErrNoSamples
	}
	return stats.Median(c.Series(d))
}

// Confidence returns the ci confidence interval around the mean of one
// dimension. It needs at least two samples; with fewer, lo and hi are 0.
func (c *Collector) Confidence(d sample.Dimension, ci float64) (lo, hi float64) {
	if len(c.samples) < 2 {
		return 0, 0
	}
	_, lo, hi = confidenceInterval(c.Series(d), ci)
	return lo, hi
}

// Average accepts array of floats to calculate average
func Average(vals []float64) (float64, error) {
	return stats.Mean(vals)
}

// Percentile accepts array of floats and the desired %tile to calculate
func Percentile(vals []float64, ptile float64) (float64, error) {
	return stats.Percentile(vals, ptile)
}

// confidenceInterval accepts array of floats to calculate the mean and its interval
func confidenceInterval(vals []float64, ci float64) (float64, float64, float64) {
	return moremath.MeanCI(vals, ci)
}
