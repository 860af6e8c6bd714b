package indicator

// EMAState is the carried accumulator of an exponential moving average.
// The average is seeded with the simple mean of the first Period inputs and
// then follows value = (x - value) * 2/(Period+1) + value.
type EMAState struct {
	Period int
	Count  int
	Sum    float64
	Value  float64
}

// NewEMA returns an empty EMA accumulator.
func NewEMA(period int) EMAState {
	return EMAState{Period: period}
}

// Ready reports whether the seed window has been filled.
func (s EMAState) Ready() bool {
	return s.Period > 0 && s.Count >= s.Period
}

// Step folds one input into the accumulator and returns the new state.
func (s EMAState) Step(x float64) EMAState {
	s.Count++
	switch {
	case s.Count < s.Period:
		s.Sum += x
	case s.Count == s.Period:
		s.Sum += x
		s.Value = s.Sum / float64(s.Period)
	default:
		multiplier := 2.0 / float64(s.Period+1)
		s.Value = (x-s.Value)*multiplier + s.Value
	}
	return s
}

// WilderState is the carried accumulator of Wilder's smoothing (alpha = 1/Period).
// The average is seeded with the simple mean of the first Period inputs.
type WilderState struct {
	Period int
	Count  int
	Sum    float64
	Value  float64
}

// NewWilder returns an empty Wilder accumulator.
func NewWilder(period int) WilderState {
	return WilderState{Period: period}
}

// Ready reports whether the seed window has been filled.
func (s WilderState) Ready() bool {
	return s.Period > 0 && s.Count >= s.Period
}

// Step folds one input into the accumulator and returns the new state.
func (s WilderState) Step(x float64) WilderState {
	s.Count++
	switch {
	case s.Count < s.Period:
		s.Sum += x
	case s.Count == s.Period:
		s.Sum += x
		s.Value = s.Sum / float64(s.Period)
	default:
		n := float64(s.Period)
		s.Value = (s.Value*(n-1) + x) / n
	}
	return s
}

// SMA calculates the simple moving average aligned to values.
// Indices before period-1 are NaN.
func SMA(values []float64, period int) []float64 {
	return smaFrom(values, period, 0)
}

// smaFrom averages values starting at index start, the first defined input.
// Each window is summed afresh so equal windows give identical means.
func smaFrom(values []float64, period, start int) []float64 {
	out := nanLine(len(values))
	if period <= 0 {
		return out
	}
	for i := start + period - 1; i < len(values); i++ {
		var sum float64
		for _, v := range values[i-period+1 : i+1] {
			sum += v
		}
		out[i] = sum / float64(period)
	}
	return out
}

// EMA calculates the exponential moving average aligned to values.
// Indices before period-1 are NaN.
func EMA(values []float64, period int) []float64 {
	return emaFrom(values, period, 0)
}

func emaFrom(values []float64, period, start int) []float64 {
	out := nanLine(len(values))
	if period <= 0 {
		return out
	}
	ema := NewEMA(period)
	for i := start; i < len(values); i++ {
		ema = ema.Step(values[i])
		if ema.Ready() {
			out[i] = ema.Value
		}
	}
	return out
}
