package indicator

import "github.com/newthinker/algonex/internal/core"

// Line names produced by the volume indicators.
const (
	LineMFI     = "mfi"
	LineOBV     = "obv"
	LineOBVMean = "obv_mean"
	LineVWAP    = "vwap"
)

// MFI calculates the Money Flow Index over the last period typical-price changes.
// Raw money flow is typical price times volume, positive when the typical
// price rose and negative when it fell. A window without negative flow scores 100.
func MFI(bars []core.PriceBar, period int) Output {
	out := nanLine(len(bars))
	for i := period; i < len(bars); i++ {
		var pos, neg float64
		for j := i - period + 1; j <= i; j++ {
			tp, prev := bars[j].TypicalPrice(), bars[j-1].TypicalPrice()
			flow := tp * bars[j].Volume
			switch {
			case tp > prev:
				pos += flow
			case tp < prev:
				neg += flow
			}
		}
		out[i] = ratioIndex(pos, neg)
	}
	return Output{Start: period, Lines: map[string][]float64{LineMFI: out}}
}

// OBV calculates On-Balance Volume and its rolling mean over period.
func OBV(bars []core.PriceBar, period int) Output {
	obv := make([]float64, len(bars))
	for i := 1; i < len(bars); i++ {
		change := bars[i].Close - bars[i-1].Close
		obv[i] = obv[i-1] + Sign(change)*bars[i].Volume
	}
	return Output{
		Start: period - 1,
		Lines: map[string][]float64{
			LineOBV:     obv,
			LineOBVMean: SMA(obv, period),
		},
	}
}

// VWAP calculates the rolling volume-weighted average typical price.
// A window with no volume carries the previous VWAP forward, or the close
// when there is none.
func VWAP(bars []core.PriceBar, period int) Output {
	out := nanLine(len(bars))
	for i := period - 1; i < len(bars); i++ {
		var pv, vol float64
		for _, b := range bars[i-period+1 : i+1] {
			pv += b.TypicalPrice() * b.Volume
			vol += b.Volume
		}
		switch {
		case vol != 0:
			out[i] = pv / vol
		case i > period-1:
			out[i] = out[i-1]
		default:
			out[i] = bars[i].Close
		}
	}
	return Output{Start: period - 1, Lines: map[string][]float64{LineVWAP: out}}
}
