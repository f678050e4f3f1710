package indicator

// SMA calculates a trailing simple moving average.
// Returns slice of length: len(values) - period + 1
func SMA(values []float64, period int) []float64 {
	if period < 1 || len(values) < period {
		return []float64{}
	}

	result := make([]float64, 0, len(values)-period+1)

	var sum float64
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			result = append(result, sum/float64(period))
		}
	}

	return result
}

// Rolling applies fn to every trailing window of the given period.
// Returns slice of length: len(values) - period + 1
func Rolling(values []float64, period int, fn func(window []float64) float64) []float64 {
	if period < 1 || len(values) < period {
		return []float64{}
	}

	result := make([]float64, 0, len(values)-period+1)
	for end := period; end <= len(values); end++ {
		result = append(result, fn(values[end-period:end]))
	}
	return result
}
