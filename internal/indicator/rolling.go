package indicator

import "math"

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// stddev returns the population (sample=false) or sample standard deviation.
func stddev(xs []float64, sample bool) float64 {
	n := len(xs)
	if n == 0 || (sample && n < 2) {
		return 0
	}
	m := mean(xs)
	var ss float64
	for _, x := range xs {
		ss += (x - m) * (x - m)
	}
	d := float64(n)
	if sample {
		d = float64(n - 1)
	}
	return math.Sqrt(ss / d)
}

// RollingStd returns the rolling standard deviation aligned to values.
func RollingStd(values []float64, period int, sample bool) []float64 {
	out := nanLine(len(values))
	if period <= 0 {
		return out
	}
	for i := period - 1; i < len(values); i++ {
		out[i] = stddev(values[i-period+1:i+1], sample)
	}
	return out
}

// RollingMax returns the highest value of each trailing window.
func RollingMax(values []float64, period int) []float64 {
	out := nanLine(len(values))
	if period <= 0 {
		return out
	}
	for i := period - 1; i < len(values); i++ {
		hi := values[i-period+1]
		for _, v := range values[i-period+2 : i+1] {
			hi = math.Max(hi, v)
		}
		out[i] = hi
	}
	return out
}

// RollingMin returns the lowest value of each trailing window.
func RollingMin(values []float64, period int) []float64 {
	out := nanLine(len(values))
	if period <= 0 {
		return out
	}
	for i := period - 1; i < len(values); i++ {
		lo := values[i-period+1]
		for _, v := range values[i-period+2 : i+1] {
			lo = math.Min(lo, v)
		}
		out[i] = lo
	}
	return out
}
