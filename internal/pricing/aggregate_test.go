package pricing

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMedianTwoBranch(t *testing.T) {
	tests := []struct {
		name   string
		prices []float64
		want   float64
	}{
		{"odd", []float64{3, 1, 2}, 2},
		{"even", []float64{4, 1, 3, 2}, 2.5},
		{"single", []float64{7.5}, 7.5},
		{"duplicates", []float64{2, 2, 2, 2}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Median(tt.prices)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.Nil(t, s.Median)
	assert.Nil(t, s.Average)
	assert.Zero(t, s.SampleSize)
}

func TestSummaryEstimatesWithinRange(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 100; i++ {
		n := 1 + rng.Intn(30)
		prices := make([]float64, n)
		min, max := math.Inf(1), math.Inf(-1)
		for j := range prices {
			prices[j] = rng.Float64() * 100
			min = math.Min(min, prices[j])
			max = math.Max(max, prices[j])
		}

		s := Summarize(prices)
		require.NotNil(t, s.Median)
		require.NotNil(t, s.Average)
		assert.GreaterOrEqual(t, *s.Median, min)
		assert.LessOrEqual(t, *s.Median, max)
		assert.GreaterOrEqual(t, *s.Average, min)
		assert.LessOrEqual(t, *s.Average, max)
	}
}

func TestAggregateSoldEmpty(t *testing.T) {
	agg := AggregateSold(nil, DefaultOptions())
	assert.Nil(t, agg.Median)
	assert.Nil(t, agg.Average)
	assert.Zero(t, agg.SampleSize)
	assert.Zero(t, agg.RawCount)
}

func TestAggregateSoldDropsMisTitledVariant(t *testing.T) {
	// Three sales: two for the base card, one for a much dearer
	// mis-titled listing. Too thin for the IQR pass, but the band
	// catches it.
	agg := AggregateSold([]float64{5.0, 5.5, 40.0}, DefaultOptions())

	require.NotNil(t, agg.Median)
	require.NotNil(t, agg.Average)
	assert.Equal(t, 5.25, *agg.Median)
	assert.Equal(t, 5.25, *agg.Average)
	assert.Equal(t, 2, agg.SampleSize)
	assert.Equal(t, 3, agg.RawCount)
	assert.Equal(t, 1, agg.FilteredOut())
}

func TestAggregateSoldBandBoundary(t *testing.T) {
	// Provisional median exactly 10.00 keeps the tight 40% band: a
	// price 45% off the median must be dropped. Strictly above 10, the
	// 50% band would have kept it.
	agg := AggregateSold([]float64{10, 14.5}, DefaultOptions())
	require.NotNil(t, agg.Median)
	// provisional median (10+14.5)/2 = 12.25 > 10 → loose band; build
	// a sample whose provisional median lands exactly on 10 instead.
	agg = AggregateSold([]float64{10, 10, 10, 14.2}, DefaultOptions())
	require.NotNil(t, agg.Median)
	assert.Equal(t, 10.0, *agg.Median)
	assert.Equal(t, 3, agg.SampleSize, "price 42%% off a 10.00 median must not survive the 0.4 band")
}

func TestAggregateSoldLooseBandAboveBreakpoint(t *testing.T) {
	// Provisional median 20 → loose 50% band keeps a 29 sale that the
	// tight band would drop.
	agg := AggregateSold([]float64{20, 20, 20, 29}, DefaultOptions())
	require.NotNil(t, agg.Median)
	assert.Equal(t, 4, agg.SampleSize)
}

func TestAggregateSoldZeroMedianMeansNoTrustworthyPrice(t *testing.T) {
	// Non-positive prices are stray invalid input: ignored, never a
	// division by zero.
	agg := AggregateSold([]float64{0, 0, 0}, DefaultOptions())
	assert.Nil(t, agg.Median)
	assert.Nil(t, agg.Average)
	assert.Zero(t, agg.SampleSize)
	assert.Zero(t, agg.RawCount)
}

func TestAggregateSoldIgnoresInvalidPrices(t *testing.T) {
	agg := AggregateSold([]float64{5.0, math.NaN(), -3, math.Inf(1), 5.5}, DefaultOptions())
	require.NotNil(t, agg.Median)
	assert.Equal(t, 5.25, *agg.Median)
	assert.Equal(t, 2, agg.RawCount)
}

func TestAggregateSoldInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(99))

	for i := 0; i < 100; i++ {
		n := rng.Intn(25)
		prices := make([]float64, n)
		for j := range prices {
			prices[j] = 0.5 + rng.Float64()*60
		}

		agg := AggregateSold(prices, DefaultOptions())
		assert.LessOrEqual(t, agg.SampleSize, agg.RawCount)
		if agg.SampleSize == 0 {
			assert.Nil(t, agg.Median)
			assert.Nil(t, agg.Average)
		} else {
			assert.NotNil(t, agg.Median)
			assert.NotNil(t, agg.Average)
		}
	}
}
