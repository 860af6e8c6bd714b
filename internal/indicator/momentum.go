package indicator

import (
	"math"

	"github.com/newthinker/algonex/internal/core"
)

// Line names produced by the momentum oscillators.
const (
	LineRSI       = "rsi"
	LineK         = "k"
	LineD         = "d"
	LineWilliamsR = "williams_r"
	LineCMO       = "cmo"
)

// ratioIndex maps an up/down ratio onto 0..100. A zero down side scores 100.
func ratioIndex(up, down float64) float64 {
	if down == 0 {
		return 100
	}
	return 100 - 100/(1+up/down)
}

// RSI calculates Wilder's Relative Strength Index.
// The first value appears at index period (period+1 bars).
func RSI(bars []core.PriceBar, period int) Output {
	out := nanLine(len(bars))
	gain, loss := NewWilder(period), NewWilder(period)
	for i := 1; i < len(bars); i++ {
		change := bars[i].Close - bars[i-1].Close
		gain = gain.Step(math.Max(change, 0))
		loss = loss.Step(math.Max(-change, 0))
		if loss.Ready() {
			out[i] = ratioIndex(gain.Value, loss.Value)
		}
	}
	return Output{Start: period, Lines: map[string][]float64{LineRSI: out}}
}

// Stochastic calculates the %K and %D lines of the stochastic oscillator.
// A bar whose window range is zero repeats the previous %K, or 50 when none exists.
func Stochastic(bars []core.PriceBar, kPeriod, dPeriod int) Output {
	k := nanLine(len(bars))
	hh := RollingMax(column(bars, highOf), kPeriod)
	ll := RollingMin(column(bars, lowOf), kPeriod)

	prev := 50.0
	for i := kPeriod - 1; i < len(bars); i++ {
		if rng := hh[i] - ll[i]; rng != 0 {
			prev = 100 * (bars[i].Close - ll[i]) / rng
		}
		k[i] = prev
	}

	return Output{
		Start: kPeriod + dPeriod - 2,
		Lines: map[string][]float64{
			LineK: k,
			LineD: smaFrom(k, dPeriod, kPeriod-1),
		},
	}
}

// WilliamsR calculates Williams %R on the -100..0 scale.
// A zero-range window repeats the previous value, or -50 when none exists.
func WilliamsR(bars []core.PriceBar, period int) Output {
	out := nanLine(len(bars))
	hh := RollingMax(column(bars, highOf), period)
	ll := RollingMin(column(bars, lowOf), period)

	prev := -50.0
	for i := period - 1; i < len(bars); i++ {
		if rng := hh[i] - ll[i]; rng != 0 {
			prev = -100 * (hh[i] - bars[i].Close) / rng
		}
		out[i] = prev
	}
	return Output{Start: period - 1, Lines: map[string][]float64{LineWilliamsR: out}}
}

// CMO calculates the Chande Momentum Oscillator over the last period changes.
// A window without any price movement scores 0.
func CMO(bars []core.PriceBar, period int) Output {
	out := nanLine(len(bars))
	for i := period; i < len(bars); i++ {
		var up, down float64
		for j := i - period + 1; j <= i; j++ {
			change := bars[j].Close - bars[j-1].Close
			if change > 0 {
				up += change
			} else {
				down -= change
			}
		}
		if up+down == 0 {
			out[i] = 0
			continue
		}
		out[i] = 100 * (up - down) / (up + down)
	}
	return Output{Start: period, Lines: map[string][]float64{LineCMO: out}}
}
