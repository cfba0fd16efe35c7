package result

import (
	"math"
	"math/rand"
	"testing"

	"github.com/cloud-bulldozer/nx/pkg/sample"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(samples ...sample.Sample) *Collector {
	c := NewCollector(len(samples))
	for _, s := range samples {
		c.Record(s)
	}
	return c
}

func TestAggregateEmpty(t *testing.T) {
	_, err := NewCollector(4).Aggregate()
	assert.ErrorIs(t, err, ErrNoSamples)
	_, err = NewCollector(0).Median(sample.Real)
	assert.ErrorIs(t, err, ErrNoSamples)
}

func TestAggregateSingleSample(t *testing.T) {
	s := sample.Sample{Real: 0.123456, User: 0.1, Sys: 0.0003}
	agg, err := collect(s).Aggregate()
	require.NoError(t, err)
	assert.Equal(t, s, agg.Min)
	assert.Equal(t, s, agg.Max)
	assert.Equal(t, s, agg.Mean)
	assert.Equal(t, sample.Sample{}, agg.Stddev)
}

func TestAggregateKnownValues(t *testing.T) {
	c := collect(
		sample.Sample{Real: 2, User: 1, Sys: 10},
		sample.Sample{Real: 4, User: 1, Sys: 30},
		sample.Sample{Real: 4, User: 1, Sys: 20},
		sample.Sample{Real: 4, User: 1, Sys: 40},
		sample.Sample{Real: 5, User: 1, Sys: 50},
		sample.Sample{Real: 5, User: 1, Sys: 60},
		sample.Sample{Real: 7, User: 1, Sys: 70},
		sample.Sample{Real: 9, User: 1, Sys: 80},
	)
	agg, err := c.Aggregate()
	require.NoError(t, err)

	assert.Equal(t, sample.Sample{Real: 2, User: 1, Sys: 10}, agg.Min)
	assert.Equal(t, sample.Sample{Real: 9, User: 1, Sys: 80}, agg.Max)
	assert.InDelta(t, 5.0, agg.Mean.Real, 1e-12)
	assert.InDelta(t, 1.0, agg.Mean.User, 1e-12)
	assert.InDelta(t, 45.0, agg.Mean.Sys, 1e-12)
	// Population standard deviation: divisor is N, not N-1.
	assert.InDelta(t, 2.0, agg.Stddev.Real, 1e-12)
	assert.Equal(t, 0.0, agg.Stddev.User)
	assert.InDelta(t, math.Sqrt(4200.0/8), agg.Stddev.Sys, 1e-9)
}

// A spread in one dimension must not leak into another one's stddev.
func TestAggregateDimensionsIndependent(t *testing.T) {
	c := collect(
		sample.Sample{Real: 1, User: 0, Sys: 3},
		sample.Sample{Real: 1, User: 10, Sys: 3},
		sample.Sample{Real: 1, User: 20, Sys: 3},
	)
	agg, err := c.Aggregate()
	require.NoError(t, err)
	assert.Equal(t, 0.0, agg.Stddev.Real)
	assert.Equal(t, 0.0, agg.Stddev.Sys)
	assert.Greater(t, agg.Stddev.User, 0.0)

	// Minimum of each dimension from a different run.
	c = collect(
		sample.Sample{Real: 1, User: 9, Sys: 5},
		sample.Sample{Real: 9, User: 1, Sys: 9},
		sample.Sample{Real: 5, User: 5, Sys: 1},
	)
	agg, err = c.Aggregate()
	require.NoError(t, err)
	assert.Equal(t, sample.Sample{Real: 1, User: 1, Sys: 1}, agg.Min)
	assert.Equal(t, sample.Sample{Real: 9, User: 9, Sys: 9}, agg.Max)
}

func TestAggregateMeanWithinBounds(t *testing.T) {
	// 0.1+0.1+0.1 rounds above 0.3, so a plain sum/N lands past max.
	c := collect(
		sample.Sample{Real: 0.1, User: 0.1, Sys: 0.1},
		sample.Sample{Real: 0.1, User: 0.1, Sys: 0.1},
		sample.Sample{Real: 0.1, User: 0.1, Sys: 0.1},
	)
	agg, err := c.Aggregate()
	require.NoError(t, err)
	assert.Equal(t, agg.Max, agg.Mean)

	rng := rand.New(rand.NewSource(1))
	for n := 1; n <= 200; n++ {
		c := NewCollector(n)
		for i := 0; i < n; i++ {
			c.Record(sample.Sample{Real: rng.Float64() * 10, User: rng.Float64(), Sys: rng.Float64() / 100})
		}
		agg, err := c.Aggregate()
		require.NoError(t, err)
		for _, d := range sample.Dimensions {
			assert.LessOrEqual(t, agg.Min.Value(d), agg.Mean.Value(d), "n=%d %s", n, d)
			assert.LessOrEqual(t, agg.Mean.Value(d), agg.Max.Value(d), "n=%d %s", n, d)
			assert.GreaterOrEqual(t, agg.Stddev.Value(d), 0.0)
		}
	}
}

func TestAggregateIdempotent(t *testing.T) {
	c := collect(
		sample.Sample{Real: 0.5, User: 0.2, Sys: 0.1},
		sample.Sample{Real: 0.7, User: 0.3, Sys: 0.05},
		sample.Sample{Real: 0.6, User: 0.25, Sys: 0.2},
	)
	before := c.Samples()
	a1, err := c.Aggregate()
	require.NoError(t, err)
	a2, err := c.Aggregate()
	require.NoError(t, err)
	assert.Equal(t, a1, a2)
	assert.Equal(t, before, c.Samples())
}

func TestCollectorSeries(t *testing.T) {
	c := collect(
		sample.Sample{Real: 1, User: 2, Sys: 3},
		sample.Sample{Real: 4, User: 5, Sys: 6},
	)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, []float64{1, 4}, c.Series(sample.Real))
	assert.Equal(t, []float64{2, 5}, c.Series(sample.User))
	assert.Equal(t, []float64{3, 6}, c.Series(sample.Sys))

	got := c.Samples()
	got[0].Real = 100
	assert.Equal(t, 1.0, c.Series(sample.Real)[0], "Samples must return a copy")
}

func TestMedianAndConfidence(t *testing.T) {
	c := collect(
		sample.Sample{Real: 1},
		sample.Sample{Real: 3},
		sample.Sample{Real: 2},
	)
	med, err := c.Median(sample.Real)
	require.NoError(t, err)
	assert.Equal(t, 2.0, med)

	lo, hi := c.Confidence(sample.Real, 0.95)
	assert.Less(t, lo, 2.0)
	assert.Greater(t, hi, 2.0)

	lo, hi = collect(sample.Sample{Real: 1}).Confidence(sample.Real, 0.95)
	assert.Zero(t, lo)
	assert.Zero(t, hi)
}
