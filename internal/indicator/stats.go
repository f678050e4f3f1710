package indicator

import (
	"math"
	"sort"
)

// Mean returns the arithmetic mean of values, skipping NaN.
// Returns NaN when no finite value is present.
func Mean(values []float64) float64 {
	var sum float64
	var n int
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// SampleStdDev returns the sample (n-1) standard deviation of values, skipping NaN.
// Returns NaN with fewer than two observations.
func SampleStdDev(values []float64) float64 {
	mean := Mean(values)
	var variance float64
	var n int
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		variance += (v - mean) * (v - mean)
		n++
	}
	if n < 2 {
		return math.NaN()
	}
	return math.Sqrt(variance / float64(n-1))
}

// Median returns the median of values, skipping NaN
func Median(values []float64) float64 {
	sorted := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			sorted = append(sorted, v)
		}
	}
	if len(sorted) == 0 {
		return math.NaN()
	}
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// StdDev calculates a rolling sample standard deviation.
// Returns slice of length: len(values) - period + 1
func StdDev(values []float64, period int) []float64 {
	if period < 2 {
		return []float64{}
	}
	return Rolling(values, period, SampleStdDev)
}

// Pearson returns the correlation coefficient of x and y over pairs where
// both values are present. NaN when fewer than two pairs or zero variance.
func Pearson(x, y []float64) float64 {
	n := min(len(x), len(y))

	var sx, sy float64
	var count int
	for i := 0; i < n; i++ {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		sx += x[i]
		sy += y[i]
		count++
	}
	if count < 2 {
		return math.NaN()
	}
	mx, my := sx/float64(count), sy/float64(count)

	var cov, vx, vy float64
	for i := 0; i < n; i++ {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		dx, dy := x[i]-mx, y[i]-my
		cov += dx * dy
		vx += dx * dx
		vy += dy * dy
	}
	if vx == 0 || vy == 0 {
		return math.NaN()
	}
	return cov / math.Sqrt(vx*vy)
}
