package indicator

import (
	"math"

	"github.com/newthinker/algonex/internal/core"
)

// Line names produced by the volatility indicators.
const (
	LineMiddle = "middle"
	LineUpper  = "upper"
	LineLower  = "lower"
	LineTR     = "tr"
	LineATR    = "atr"
	LineRVI    = "rvi"
	LineZScore = "zscore"
)

// Bollinger calculates Bollinger Bands: the rolling mean of close plus or
// minus numStd population standard deviations.
func Bollinger(bars []core.PriceBar, window int, numStd float64) Output {
	return bands(bars, window, numStd, false)
}

// StdBands calculates rolling mean bands using the sample standard deviation.
func StdBands(bars []core.PriceBar, period int, multiplier float64) Output {
	return bands(bars, period, multiplier, true)
}

func bands(bars []core.PriceBar, period int, width float64, sample bool) Output {
	closes := core.Closes(bars)
	middle := SMA(closes, period)
	std := RollingStd(closes, period, sample)
	upper, lower := nanLine(len(bars)), nanLine(len(bars))
	for i := period - 1; i < len(bars); i++ {
		upper[i] = middle[i] + width*std[i]
		lower[i] = middle[i] - width*std[i]
	}
	return Output{
		Start: period - 1,
		Lines: map[string][]float64{
			LineMiddle: middle,
			LineUpper:  upper,
			LineLower:  lower,
		},
	}
}

// ZScore calculates (close - mean) / std over a rolling window using the
// population standard deviation. A flat window scores 0.
func ZScore(bars []core.PriceBar, window int) Output {
	closes := core.Closes(bars)
	middle := SMA(closes, window)
	std := RollingStd(closes, window, false)
	z := nanLine(len(bars))
	for i := window - 1; i < len(bars); i++ {
		if std[i] == 0 {
			z[i] = 0
			continue
		}
		z[i] = (closes[i] - middle[i]) / std[i]
	}
	return Output{Start: window - 1, Lines: map[string][]float64{LineZScore: z}}
}

// ATR calculates Wilder's Average True Range and the volatility bands around
// the previous close. The band at index i uses ATR from index i-1, so the
// first band appears at index period+1.
//
// True range at index 0 is high-low; the average is seeded with the mean of
// the true ranges at indices 1..period.
func ATR(bars []core.PriceBar, period int, multiplier float64) Output {
	n := len(bars)
	tr, atr := nanLine(n), nanLine(n)
	upper, lower := nanLine(n), nanLine(n)
	if n == 0 {
		return atrOutput(period, tr, atr, upper, lower)
	}

	tr[0] = bars[0].High - bars[0].Low
	avg := NewWilder(period)
	for i := 1; i < n; i++ {
		tr[i] = TrueRange(bars[i], bars[i-1])
		avg = avg.Step(tr[i])
		if avg.Ready() {
			atr[i] = avg.Value
		}
		if !math.IsNaN(atr[i-1]) {
			upper[i] = bars[i-1].Close + multiplier*atr[i-1]
			lower[i] = bars[i-1].Close - multiplier*atr[i-1]
		}
	}
	return atrOutput(period, tr, atr, upper, lower)
}

func atrOutput(period int, tr, atr, upper, lower []float64) Output {
	return Output{
		Start: period + 1,
		Lines: map[string][]float64{
			LineTR:    tr,
			LineATR:   atr,
			LineUpper: upper,
			LineLower: lower,
		},
	}
}

// RVI calculates the Relative Volatility Index. The population standard
// deviation of close over period is attributed to the up side on bars whose
// close rose and to the down side on bars whose close fell; both sides are
// Wilder-smoothed and RVI = 100*U/(U+D). No volatility on either side scores 50.
func RVI(bars []core.PriceBar, period int) Output {
	out := nanLine(len(bars))
	std := RollingStd(core.Closes(bars), period, false)
	up, down := NewWilder(period), NewWilder(period)

	for i := period - 1; i < len(bars); i++ {
		var u, d float64
		if i > 0 {
			switch change := bars[i].Close - bars[i-1].Close; {
			case change > 0:
				u = std[i]
			case change < 0:
				d = std[i]
			}
		}
		up, down = up.Step(u), down.Step(d)
		if !up.Ready() {
			continue
		}
		if sum := up.Value + down.Value; sum != 0 {
			out[i] = 100 * up.Value / sum
		} else {
			out[i] = 50
		}
	}
	return Output{Start: 2*period - 2, Lines: map[string][]float64{LineRVI: out}}
}
