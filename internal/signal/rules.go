package signal

import (
	"math"

	"github.com/newthinker/algonex/internal/core"
	"github.com/newthinker/algonex/internal/indicator"
)

// Threshold maps an oscillator value onto a signal: at or below oversold
// buys, at or above overbought sells.
func Threshold(v, overbought, oversold float64) float64 {
	switch {
	case v <= oversold:
		return 1
	case v >= overbought:
		return -1
	default:
		return 0
	}
}

// Band maps a price against a band: below lower buys, above upper sells.
func Band(price, lower, upper float64) float64 {
	switch {
	case price < lower:
		return 1
	case price > upper:
		return -1
	default:
		return 0
	}
}

func thresholdRule(line string) func([]core.PriceBar, indicator.Output, Params) []float64 {
	return func(bars []core.PriceBar, out indicator.Output, p Params) []float64 {
		src := out.Line(line)
		ob, os := p.Float("overbought"), p.Float("oversold")
		signals := make([]float64, len(src))
		for i, v := range src {
			signals[i] = Threshold(v, ob, os)
		}
		return signals
	}
}

// crossRule signals sign(fast - slow) of two output lines.
func crossRule(fast, slow string) func([]core.PriceBar, indicator.Output, Params) []float64 {
	return func(bars []core.PriceBar, out indicator.Output, p Params) []float64 {
		a, b := out.Line(fast), out.Line(slow)
		signals := make([]float64, len(a))
		for i := range a {
			signals[i] = indicator.Sign(a[i] - b[i])
		}
		return signals
	}
}

// priceRule signals sign(close - reference line).
func priceRule(reference string) func([]core.PriceBar, indicator.Output, Params) []float64 {
	return func(bars []core.PriceBar, out indicator.Output, p Params) []float64 {
		ref := out.Line(reference)
		signals := make([]float64, len(bars))
		for i, b := range bars {
			signals[i] = indicator.Sign(b.Close - ref[i])
		}
		return signals
	}
}

func bandRule(bars []core.PriceBar, out indicator.Output, p Params) []float64 {
	lower, upper := out.Line(indicator.LineLower), out.Line(indicator.LineUpper)
	signals := make([]float64, len(bars))
	for i, b := range bars {
		if math.IsNaN(lower[i]) {
			continue
		}
		signals[i] = Band(b.Close, lower[i], upper[i])
	}
	return signals
}

// meanReversionRule enters at +-entry_z and holds the position until z
// reverts past exit_z toward the mean.
func meanReversionRule(bars []core.PriceBar, out indicator.Output, p Params) []float64 {
	z := out.Line(indicator.LineZScore)
	entry, exit := p.Float("entry_z"), p.Float("exit_z")
	signals := make([]float64, len(z))

	prev := 0.0
	for i := out.Start; i < len(z); i++ {
		var s float64
		switch {
		case z[i] <= -entry:
			s = 1
		case z[i] >= entry:
			s = -1
		case prev == 1 && z[i] < -exit:
			s = 1
		case prev == -1 && z[i] > exit:
			s = -1
		}
		signals[i] = s
		prev = s
	}
	return signals
}

func adxRule(bars []core.PriceBar, out indicator.Output, p Params) []float64 {
	adx := out.Line(indicator.LineADX)
	plus, minus := out.Line(indicator.LinePlusDI), out.Line(indicator.LineMinusDI)
	threshold := p.Float("threshold")
	signals := make([]float64, len(adx))
	for i := range adx {
		if adx[i] >= threshold {
			signals[i] = indicator.Sign(plus[i] - minus[i])
		}
	}
	return signals
}
