package pricing

import "fmt"

// Label is the coarse direction of an item's price history.
type Label string

const (
	LabelUp      Label = "UP"
	LabelDown    Label = "DOWN"
	LabelFlat    Label = "FLAT"
	LabelUnknown Label = "UNKNOWN"
)

// TrendOptions tunes the trend classifier. The history feeding
// ClassifyTrend is ordered newest-first; Lag and SpikeLag are indexes
// into that filtered history.
type TrendOptions struct {
	// Lag selects the prior point for the smoothed trend. The default
	// of 2 compares "now" against the 3rd-most-recent aggregate to
	// smooth single-point noise.
	Lag int `mapstructure:"lag"`
	// SpikeLag selects the prior point for the short-term volatility
	// signal.
	SpikeLag int `mapstructure:"spike_lag"`
	// UpThreshold and DownThreshold are percent-change boundaries:
	// strictly above UpThreshold is UP, strictly below DownThreshold is
	// DOWN, anything between is FLAT.
	UpThreshold   float64 `mapstructure:"up_threshold"`
	DownThreshold float64 `mapstructure:"down_threshold"`
	// MinHistory is the number of usable points required after the
	// outlier pass; anything thinner classifies as UNKNOWN.
	MinHistory int `mapstructure:"min_history"`
	// OutlierMultiplier is applied to the history itself before lag
	// selection, so one junk aggregate cannot define a trend.
	OutlierMultiplier float64 `mapstructure:"outlier_multiplier"`
}

// TrendPreset returns a named classifier configuration. "default" is the
// symmetric ±5% policy over the 3rd-most-recent point; "momentum" is the
// looser +20/−15% policy that only reacts to sharp moves. An unknown
// name is a setup-time configuration error.
func TrendPreset(name string) (TrendOptions, error) {
	switch name {
	case "", "default":
		return TrendOptions{
			Lag:               2,
			SpikeLag:          1,
			UpThreshold:       5,
			DownThreshold:     -5,
			MinHistory:        3,
			OutlierMultiplier: 1.5,
		}, nil
	case "momentum":
		return TrendOptions{
			Lag:               2,
			SpikeLag:          1,
			UpThreshold:       20,
			DownThreshold:     -15,
			MinHistory:        3,
			OutlierMultiplier: 1.5,
		}, nil
	default:
		return TrendOptions{}, fmt.Errorf("pricing: unknown trend preset %q", name)
	}
}

// Signal is a fully derived trend for one item. Numeric fields are nil
// exactly when Trend is UNKNOWN (insufficient history or a zero prior).
// The spike pair is the same computation at the shorter lag, labeled
// independently.
type Signal struct {
	Last           *float64
	Prior          *float64
	WindowAverage  *float64
	PctChange      *float64
	Trend          Label
	SpikePctChange *float64
	SpikeTrend     Label
	SampleSize     int
}

// ClassifyTrend derives a Signal from an item's aggregate medians,
// ordered newest-first. The history is IQR-filtered before lag selection.
func ClassifyTrend(history []float64, opts TrendOptions) Signal {
	signal := Signal{Trend: LabelUnknown, SpikeTrend: LabelUnknown}

	filtered := FilterOutliers(history, opts.OutlierMultiplier)
	signal.SampleSize = len(filtered)
	if len(filtered) < opts.MinHistory {
		return signal
	}

	last := filtered[0]
	signal.Last = &last

	avg := Round2(*Average(filtered))
	signal.WindowAverage = &avg

	if opts.Lag < len(filtered) {
		prior := filtered[opts.Lag]
		signal.Prior = &prior
		signal.PctChange, signal.Trend = labelChange(last, prior, opts)
	}
	if opts.SpikeLag < len(filtered) {
		signal.SpikePctChange, signal.SpikeTrend = labelChange(last, filtered[opts.SpikeLag], opts)
	}

	return signal
}

func labelChange(last, prior float64, opts TrendOptions) (*float64, Label) {
	if prior == 0 {
		return nil, LabelUnknown
	}
	pct := Round2((last - prior) / prior * 100)
	switch {
	case pct > opts.UpThreshold:
		return &pct, LabelUp
	case pct < opts.DownThreshold:
		return &pct, LabelDown
	default:
		return &pct, LabelFlat
	}
}
