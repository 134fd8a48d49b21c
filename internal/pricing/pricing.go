// Package pricing implements the statistical core of the price pipeline:
// outlier filtering, sample aggregation, trend classification and the
// recommendation rule engine. Everything in this package is pure, with
// no database, clock or network access, so each pipeline stage can be
// exercised directly in tests and reused across batch strategies.
package pricing

import "math"

// Options holds the statistical tuning knobs for sample cleaning. The
// defaults reproduce the calibration the pipeline was tuned with; treat
// them as configuration, not constants.
type Options struct {
	// OutlierMultiplier is the IQR fence multiplier.
	OutlierMultiplier float64 `mapstructure:"outlier_multiplier"`
	// BandTight is the relative deviation band applied when the
	// provisional median is at or below BandBreakpoint.
	BandTight float64 `mapstructure:"band_tight"`
	// BandLoose applies when the provisional median is strictly above
	// BandBreakpoint. Cheaper cards get the tighter band because a small
	// absolute swing is a large relative one.
	BandLoose float64 `mapstructure:"band_loose"`
	// BandBreakpoint is the provisional-median boundary, in currency
	// units, between the two bands.
	BandBreakpoint float64 `mapstructure:"band_breakpoint"`
}

// DefaultOptions returns the calibrated defaults: 1.5×IQR fences and a
// 40%/50% relative band split at 10 currency units.
func DefaultOptions() Options {
	return Options{
		OutlierMultiplier: 1.5,
		BandTight:         0.4,
		BandLoose:         0.5,
		BandBreakpoint:    10,
	}
}

// Round2 rounds to 2 decimals, the reporting precision for every derived
// statistic.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// validPrice reports whether a price is usable by the aggregator. The
// upstream collector is expected to reject invalid listings, but a stray
// bad value must be ignored here rather than poison a whole batch.
func validPrice(p float64) bool {
	return !math.IsNaN(p) && !math.IsInf(p, 0) && p > 0
}
