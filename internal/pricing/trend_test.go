package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultTrend(t *testing.T) TrendOptions {
	t.Helper()
	opts, err := TrendPreset("default")
	require.NoError(t, err)
	return opts
}

func TestClassifyTrendInsufficientHistory(t *testing.T) {
	opts := defaultTrend(t)

	histories := [][]float64{
		nil,
		{42},
		{42, 43},
	}
	for _, history := range histories {
		signal := ClassifyTrend(history, opts)
		assert.Equal(t, LabelUnknown, signal.Trend)
		assert.Equal(t, LabelUnknown, signal.SpikeTrend)
		assert.Nil(t, signal.Last)
		assert.Nil(t, signal.Prior)
		assert.Nil(t, signal.WindowAverage)
		assert.Nil(t, signal.PctChange)
		assert.Nil(t, signal.SpikePctChange)
	}
}

func TestClassifyTrendLabels(t *testing.T) {
	opts := defaultTrend(t)

	tests := []struct {
		name    string
		history []float64 // newest first
		wantPct float64
		want    Label
	}{
		{"up", []float64{12, 11, 10}, 20, LabelUp},
		{"down", []float64{8, 9, 10}, -20, LabelDown},
		{"flat", []float64{10.2, 10.1, 10}, 2, LabelFlat},
		{"boundary_up_is_flat", []float64{10.5, 10.2, 10}, 5, LabelFlat},
		{"boundary_down_is_flat", []float64{9.5, 9.8, 10}, -5, LabelFlat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signal := ClassifyTrend(tt.history, opts)
			require.NotNil(t, signal.PctChange)
			assert.Equal(t, tt.wantPct, *signal.PctChange)
			assert.Equal(t, tt.want, signal.Trend)
		})
	}
}

func TestClassifyTrendUsesThirdMostRecent(t *testing.T) {
	opts := defaultTrend(t)

	// Second-most-recent point is noise; the smoothed trend compares
	// against index 2.
	signal := ClassifyTrend([]float64{10, 12, 10, 11, 9}, opts)
	require.NotNil(t, signal.Prior)
	assert.Equal(t, 10.0, *signal.Prior)
	require.NotNil(t, signal.PctChange)
	assert.Equal(t, 0.0, *signal.PctChange)
	assert.Equal(t, LabelFlat, signal.Trend)

	// The spike signal sees the short-lag move instead.
	require.NotNil(t, signal.SpikePctChange)
	assert.Equal(t, -16.67, *signal.SpikePctChange)
	assert.Equal(t, LabelDown, signal.SpikeTrend)
}

func TestClassifyTrendZeroPriorIsUnknown(t *testing.T) {
	opts := defaultTrend(t)

	signal := ClassifyTrend([]float64{5, 4, 0}, opts)
	assert.Nil(t, signal.PctChange)
	assert.Equal(t, LabelUnknown, signal.Trend)
}

func TestClassifyTrendRoundsPctChange(t *testing.T) {
	opts := defaultTrend(t)

	signal := ClassifyTrend([]float64{10, 10, 3}, opts)
	require.NotNil(t, signal.PctChange)
	assert.Equal(t, 233.33, *signal.PctChange)
}

func TestClassifyTrendWindowAverage(t *testing.T) {
	opts := defaultTrend(t)

	signal := ClassifyTrend([]float64{10, 11, 12, 13}, opts)
	require.NotNil(t, signal.WindowAverage)
	assert.Equal(t, 11.5, *signal.WindowAverage)
	assert.Equal(t, 4, signal.SampleSize)
}

func TestClassifyTrendFiltersHistoryOutliers(t *testing.T) {
	opts := defaultTrend(t)

	// A junk aggregate in the middle of the window must not become the
	// prior point.
	signal := ClassifyTrend([]float64{10, 10, 500, 10, 10, 10, 10}, opts)
	require.NotNil(t, signal.Prior)
	assert.Equal(t, 10.0, *signal.Prior)
	assert.Equal(t, LabelFlat, signal.Trend)
	assert.Equal(t, 6, signal.SampleSize)
}

func TestTrendPresets(t *testing.T) {
	def, err := TrendPreset("")
	require.NoError(t, err)
	assert.Equal(t, 5.0, def.UpThreshold)
	assert.Equal(t, -5.0, def.DownThreshold)
	assert.Equal(t, 2, def.Lag)

	momentum, err := TrendPreset("momentum")
	require.NoError(t, err)
	assert.Equal(t, 20.0, momentum.UpThreshold)
	assert.Equal(t, -15.0, momentum.DownThreshold)

	_, err = TrendPreset("aggressive")
	assert.Error(t, err)
}

func TestClassifyTrendMomentumPreset(t *testing.T) {
	momentum, err := TrendPreset("momentum")
	require.NoError(t, err)

	// +20% is UP for the default policy but still FLAT for momentum
	// (strict threshold).
	signal := ClassifyTrend([]float64{12, 11, 10}, momentum)
	assert.Equal(t, LabelFlat, signal.Trend)

	signal = ClassifyTrend([]float64{12.5, 11, 10}, momentum)
	assert.Equal(t, LabelUp, signal.Trend)
}
