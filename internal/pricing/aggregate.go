package pricing

import (
	"math"
	"sort"
)

// Summary holds the point estimates for one filtered sample. Median and
// Average are nil together exactly when SampleSize is 0.
type Summary struct {
	Median     *float64
	Average    *float64
	SampleSize int
}

// Aggregate is one cleaned per-period price point. FilteredOut reports
// how many raw observations the cleaning passes discarded.
type Aggregate struct {
	Median     *float64
	Average    *float64
	SampleSize int
	RawCount   int
}

// FilteredOut returns the number of observations removed by cleaning.
func (a Aggregate) FilteredOut() int {
	return a.RawCount - a.SampleSize
}

// Median computes the two-branch median: the exact middle element for
// odd-length input, the mean of the two middle elements for even length.
// Returns nil for an empty sample.
func Median(prices []float64) *float64 {
	n := len(prices)
	if n == 0 {
		return nil
	}
	sorted := make([]float64, n)
	copy(sorted, prices)
	sort.Float64s(sorted)

	mid := n / 2
	var m float64
	if n%2 == 0 {
		m = (sorted[mid-1] + sorted[mid]) / 2
	} else {
		m = sorted[mid]
	}
	return &m
}

// Average computes the arithmetic mean; nil for an empty sample.
func Average(prices []float64) *float64 {
	if len(prices) == 0 {
		return nil
	}
	var sum float64
	for _, p := range prices {
		sum += p
	}
	avg := sum / float64(len(prices))
	return &avg
}

// Summarize computes median, average and count for an already-cleaned
// sample.
func Summarize(prices []float64) Summary {
	return Summary{
		Median:     Median(prices),
		Average:    Average(prices),
		SampleSize: len(prices),
	}
}

// AggregateSold cleans and summarizes one day's sold-listing prices with
// the two-pass policy: IQR fences first, then a relative band around the
// provisional median. The second pass exists because IQR alone is too
// permissive for thin or bimodal samples. A card mixed with its
// mis-titled foil variant survives the fences but not the band.
//
// A provisional median of 0 (or an empty first pass) yields an empty
// survivor set: no trustworthy price, never a division by zero. Stray
// non-finite or non-positive prices are dropped up front.
func AggregateSold(prices []float64, opts Options) Aggregate {
	valid := make([]float64, 0, len(prices))
	for _, p := range prices {
		if validPrice(p) {
			valid = append(valid, p)
		}
	}

	agg := Aggregate{RawCount: len(valid)}

	step1 := FilterOutliers(valid, opts.OutlierMultiplier)
	provisional := Median(step1)
	if provisional == nil || *provisional == 0 {
		return agg
	}

	// Band is strictly looser above the breakpoint: a 10.00 median
	// still gets the tight band.
	band := opts.BandTight
	if *provisional > opts.BandBreakpoint {
		band = opts.BandLoose
	}

	survivors := make([]float64, 0, len(step1))
	for _, p := range step1 {
		if math.Abs(p-*provisional) / *provisional <= band {
			survivors = append(survivors, p)
		}
	}

	s := Summarize(survivors)
	agg.Median = s.Median
	agg.Average = s.Average
	agg.SampleSize = s.SampleSize
	return agg
}
