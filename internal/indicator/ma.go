package indicator

import "math"

// SMA computes the rolling simple moving average. Entries before the first
// full window are NaN.
func SMA(values []float64, period int) []float64 {
	out := undefinedSeries(len(values))
	if period <= 0 || len(values) < period {
		return out
	}
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out
}

// EMA computes the rolling exponential moving average, seeded with the SMA
// of the first full window. Entries before the seed are NaN.
func EMA(values []float64, period int) []float64 {
	out := undefinedSeries(len(values))
	if period <= 0 || len(values) < period {
		return out
	}
	seed := 0.0
	for i := 0; i < period; i++ {
		seed += values[i]
	}
	seed /= float64(period)
	out[period-1] = seed

	k := 2.0 / float64(period+1)
	prev := seed
	for i := period; i < len(values); i++ {
		prev = values[i]*k + prev*(1-k)
		out[i] = prev
	}
	return out
}

// MACD computes the MACD(12,26,9) line and its signal line. The signal line
// is the EMA(9) of the MACD line, seeded once 9 MACD values exist.
func MACD(values []float64) (macd, signal []float64) {
	fast := EMA(values, 12)
	slow := EMA(values, 26)
	macd = undefinedSeries(len(values))
	for i := range values {
		if !math.IsNaN(fast[i]) && !math.IsNaN(slow[i]) {
			macd[i] = fast[i] - slow[i]
		}
	}

	signal = undefinedSeries(len(values))
	// MACD becomes defined at index 25; collect its defined suffix for the EMA.
	start := -1
	for i, v := range macd {
		if !math.IsNaN(v) {
			start = i
			break
		}
	}
	if start < 0 {
		return macd, signal
	}
	sigTail := EMA(macd[start:], 9)
	for i, v := range sigTail {
		signal[start+i] = v
	}
	return macd, signal
}

func undefinedSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
