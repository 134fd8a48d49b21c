package pricing

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterOutliersThinSamplesUnchanged(t *testing.T) {
	samples := [][]float64{
		nil,
		{},
		{5},
		{5, 500},
		{1, 2, 1000},
	}
	for _, sample := range samples {
		got := FilterOutliers(sample, 1.5)
		assert.Equal(t, sample, got)
	}
}

func TestFilterOutliersRemovesExtreme(t *testing.T) {
	got := FilterOutliers([]float64{1, 2, 2, 3, 3, 3, 100}, 1.5)
	assert.Equal(t, []float64{1, 2, 2, 3, 3, 3}, got)

	med := Median(got)
	require.NotNil(t, med)
	assert.Equal(t, 2.5, *med)
}

func TestFilterOutliersBoundsInclusive(t *testing.T) {
	// Sorted: [1 2 3 4], Q1=2, Q3=4, IQR=2, bounds [-1, 7]. Every
	// element sits inside the fences, including the quartiles.
	got := FilterOutliers([]float64{4, 1, 3, 2}, 1.5)
	assert.Equal(t, []float64{4, 1, 3, 2}, got)
}

func TestFilterOutliersKeepsInputOrder(t *testing.T) {
	got := FilterOutliers([]float64{3, 100, 1, 2, 2, 3, 3}, 1.5)
	assert.Equal(t, []float64{3, 1, 2, 2, 3, 3}, got)
}

// The filter should be a fixpoint on its own output for typical price
// distributions. That is not structurally guaranteed (a pathological
// quartile layout can tighten the fences on a second pass), so verify
// the common case empirically: over generated listing-like samples the
// violation rate must stay negligible.
func TestFilterOutliersEmpiricallyIdempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	violations := 0
	for i := 0; i < 200; i++ {
		n := 12 + rng.Intn(30)
		sample := make([]float64, 0, n+2)
		base := 1 + rng.Float64()*50
		for j := 0; j < n; j++ {
			sample = append(sample, base*(0.8+rng.Float64()*0.4))
		}
		// a couple of junk listings
		sample = append(sample, base*10, base*0.01)

		once := FilterOutliers(sample, 1.5)
		twice := FilterOutliers(once, 1.5)
		if !assert.ObjectsAreEqual(once, twice) {
			violations++
		}
	}
	assert.LessOrEqual(t, violations, 4, "re-filtering changed the sample too often")
}
