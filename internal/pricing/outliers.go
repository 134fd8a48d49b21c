package pricing

import "sort"

// FilterOutliers removes statistically extreme prices using positional
// interquartile fences: Q1 and Q3 are the sorted elements at n/4 and
// 3n/4 (floor division), not interpolated quantiles. Downstream medians
// depend on this exact quartile method, so it must not be swapped for a
// textbook one.
//
// Samples smaller than 4 are returned unchanged: too thin for a
// meaningful IQR, and over-filtering them loses real sales. Survivors
// keep their input order.
func FilterOutliers(prices []float64, multiplier float64) []float64 {
	if len(prices) < 4 {
		return prices
	}

	sorted := make([]float64, len(prices))
	copy(sorted, prices)
	sort.Float64s(sorted)

	n := len(sorted)
	q1 := sorted[n/4]
	q3 := sorted[n*3/4]
	iqr := q3 - q1
	lower := q1 - multiplier*iqr
	upper := q3 + multiplier*iqr

	filtered := make([]float64, 0, len(prices))
	for _, p := range prices {
		if p >= lower && p <= upper {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
