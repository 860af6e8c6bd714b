package indicator

import "github.com/newthinker/algonex/internal/core"

// Line names produced by the price-level indicators.
const (
	LineIBS         = "ibs"
	LineRetracement = "retracement"
	LineSwingHigh   = "swing_high"
	LineSwingLow    = "swing_low"
)

// IBS calculates the Internal Bar Strength (close-low)/(high-low) of every bar.
// A bar with no range scores 0.5.
func IBS(bars []core.PriceBar) Output {
	out := make([]float64, len(bars))
	for i, b := range bars {
		if rng := b.High - b.Low; rng != 0 {
			out[i] = (b.Close - b.Low) / rng
		} else {
			out[i] = 0.5
		}
	}
	return Output{Start: 0, Lines: map[string][]float64{LineIBS: out}}
}

// Fibonacci calculates the retracement price high - level*(high-low) of the
// swing high and low over the last period bars.
func Fibonacci(bars []core.PriceBar, period int, level float64) Output {
	hh := RollingMax(column(bars, highOf), period)
	ll := RollingMin(column(bars, lowOf), period)
	ret := nanLine(len(bars))
	for i := period - 1; i < len(bars); i++ {
		ret[i] = hh[i] - level*(hh[i]-ll[i])
	}
	return Output{
		Start: period - 1,
		Lines: map[string][]float64{
			LineRetracement: ret,
			LineSwingHigh:   hh,
			LineSwingLow:    ll,
		},
	}
}
