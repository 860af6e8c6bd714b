package indicator

import (
	"math"

	"github.com/newthinker/algonex/internal/core"
)

// Line names produced by the trend indicators.
const (
	LineShort     = "short"
	LineLong      = "long"
	LineMACD      = "macd"
	LinePPO       = "ppo"
	LineSignal    = "signal"
	LineHistogram = "histogram"
	LineADX       = "adx"
	LinePlusDI    = "plus_di"
	LineMinusDI   = "minus_di"
	LineSAR       = "sar"
	LineTrend     = "trend"
)

// MovingAverages returns the short and long simple moving averages of close.
func MovingAverages(bars []core.PriceBar, short, long int) Output {
	closes := core.Closes(bars)
	return Output{
		Start: long - 1,
		Lines: map[string][]float64{
			LineShort: SMA(closes, short),
			LineLong:  SMA(closes, long),
		},
	}
}

// ExponentialAverages returns the short and long exponential moving averages of close.
func ExponentialAverages(bars []core.PriceBar, short, long int) Output {
	closes := core.Closes(bars)
	return Output{
		Start: long - 1,
		Lines: map[string][]float64{
			LineShort: EMA(closes, short),
			LineLong:  EMA(closes, long),
		},
	}
}

// MACD calculates the MACD line, its signal line and histogram.
// Readiness is declared after slow+signal bars.
func MACD(bars []core.PriceBar, fast, slow, signal int) Output {
	macd, _ := macdLine(bars, fast, slow)
	return oscillator(LineMACD, macd, slow, signal)
}

// PPO calculates the Percentage Price Oscillator: 100 * MACD / EMA_slow.
// A zero slow average yields 0.
func PPO(bars []core.PriceBar, fast, slow, signal int) Output {
	macd, slowEMA := macdLine(bars, fast, slow)
	ppo := nanLine(len(bars))
	for i := slow - 1; i < len(bars); i++ {
		if slowEMA[i] == 0 {
			ppo[i] = 0
			continue
		}
		ppo[i] = 100 * macd[i] / slowEMA[i]
	}
	return oscillator(LinePPO, ppo, slow, signal)
}

func macdLine(bars []core.PriceBar, fast, slow int) (macd, slowEMA []float64) {
	closes := core.Closes(bars)
	fastEMA := EMA(closes, fast)
	slowEMA = EMA(closes, slow)
	macd = nanLine(len(bars))
	for i := slow - 1; i < len(bars); i++ {
		macd[i] = fastEMA[i] - slowEMA[i]
	}
	return macd, slowEMA
}

func oscillator(name string, line []float64, slow, signal int) Output {
	sig := emaFrom(line, signal, slow-1)
	hist := nanLine(len(line))
	for i := range line {
		hist[i] = line[i] - sig[i]
	}
	return Output{
		Start: slow + signal - 1,
		Lines: map[string][]float64{
			name:          line,
			LineSignal:    sig,
			LineHistogram: hist,
		},
	}
}

// TrueRange returns max(high-low, |high-prevClose|, |low-prevClose|).
func TrueRange(cur, prev core.PriceBar) float64 {
	return math.Max(cur.High-cur.Low,
		math.Max(math.Abs(cur.High-prev.Close), math.Abs(cur.Low-prev.Close)))
}

// ADXState is the carried accumulator of the Average Directional Index.
// TR, PlusDM and MinusDM use Wilder's running-sum smoothing; DX is averaged
// with WilderState.
type ADXState struct {
	Period  int
	Count   int
	TR      float64
	PlusDM  float64
	MinusDM float64
	PlusDI  float64
	MinusDI float64
	DX      float64
	ADX     WilderState
}

// NewADX returns an empty ADX accumulator.
func NewADX(period int) ADXState {
	return ADXState{Period: period, ADX: NewWilder(period)}
}

// DIReady reports whether the directional indicators are defined.
func (s ADXState) DIReady() bool {
	return s.Count >= s.Period
}

// Step folds the bar cur, following prev, into the accumulator.
func (s ADXState) Step(prev, cur core.PriceBar) ADXState {
	up := cur.High - prev.High
	down := prev.Low - cur.Low
	var plus, minus float64
	if up > down && up > 0 {
		plus = up
	}
	if down > up && down > 0 {
		minus = down
	}
	tr := TrueRange(cur, prev)

	s.Count++
	if s.Count <= s.Period {
		s.TR += tr
		s.PlusDM += plus
		s.MinusDM += minus
	} else {
		n := float64(s.Period)
		s.TR = s.TR - s.TR/n + tr
		s.PlusDM = s.PlusDM - s.PlusDM/n + plus
		s.MinusDM = s.MinusDM - s.MinusDM/n + minus
	}
	if !s.DIReady() {
		return s
	}

	s.PlusDI, s.MinusDI = 0, 0
	if s.TR != 0 {
		s.PlusDI = 100 * s.PlusDM / s.TR
		s.MinusDI = 100 * s.MinusDM / s.TR
	}
	s.DX = 0
	if sum := s.PlusDI + s.MinusDI; sum != 0 {
		s.DX = 100 * math.Abs(s.PlusDI-s.MinusDI) / sum
	}
	s.ADX = s.ADX.Step(s.DX)
	return s
}

// ADX calculates the Average Directional Index with the +DI and -DI lines.
// The first value appears at index 2*period-1.
func ADX(bars []core.PriceBar, period int) Output {
	adx, plus, minus := nanLine(len(bars)), nanLine(len(bars)), nanLine(len(bars))
	state := NewADX(period)
	for i := 1; i < len(bars); i++ {
		state = state.Step(bars[i-1], bars[i])
		if state.DIReady() {
			plus[i], minus[i] = state.PlusDI, state.MinusDI
		}
		if state.ADX.Ready() {
			adx[i] = state.ADX.Value
		}
	}
	return Output{
		Start: 2*period - 1,
		Lines: map[string][]float64{
			LineADX:     adx,
			LinePlusDI:  plus,
			LineMinusDI: minus,
		},
	}
}

// Trend direction of the parabolic SAR.
const (
	TrendDown = -1
	TrendUp   = 1
)

// SARState is the carried accumulator of the parabolic stop-and-reverse.
type SARState struct {
	SAR   float64
	Trend int
	AF    float64
	EP    float64
}

// SeedSAR initialises the SAR on the second bar. The trend starts up when
// the second close is not below the first.
func SeedSAR(first, second core.PriceBar, acceleration float64) SARState {
	if second.Close >= first.Close {
		return SARState{
			SAR:   first.Low,
			Trend: TrendUp,
			AF:    acceleration,
			EP:    math.Max(first.High, second.High),
		}
	}
	return SARState{
		SAR:   first.High,
		Trend: TrendDown,
		AF:    acceleration,
		EP:    math.Min(first.Low, second.Low),
	}
}

// Step advances the SAR onto cur. prev1 and prev2 are the two bars before cur.
func (s SARState) Step(prev2, prev1, cur core.PriceBar, acceleration, maximum float64) SARState {
	next := s.SAR + s.AF*(s.EP-s.SAR)

	if s.Trend == TrendUp {
		next = math.Min(next, math.Min(prev1.Low, prev2.Low))
		if cur.Low < next {
			return SARState{SAR: s.EP, Trend: TrendDown, AF: acceleration, EP: cur.Low}
		}
		if cur.High > s.EP {
			s.EP = cur.High
			s.AF = math.Min(s.AF+acceleration, maximum)
		}
	} else {
		next = math.Max(next, math.Max(prev1.High, prev2.High))
		if cur.High > next {
			return SARState{SAR: s.EP, Trend: TrendUp, AF: acceleration, EP: cur.High}
		}
		if cur.Low < s.EP {
			s.EP = cur.Low
			s.AF = math.Min(s.AF+acceleration, maximum)
		}
	}

	s.SAR = next
	return s
}

// ParabolicSAR calculates the stop level and trend for every bar from index 1.
func ParabolicSAR(bars []core.PriceBar, acceleration, maximum float64) Output {
	sar, trend := nanLine(len(bars)), nanLine(len(bars))
	if len(bars) < 2 {
		return Output{Start: 1, Lines: map[string][]float64{LineSAR: sar, LineTrend: trend}}
	}

	state := SeedSAR(bars[0], bars[1], acceleration)
	sar[1], trend[1] = state.SAR, float64(state.Trend)
	for i := 2; i < len(bars); i++ {
		state = state.Step(bars[i-2], bars[i-1], bars[i], acceleration, maximum)
		sar[i], trend[i] = state.SAR, float64(state.Trend)
	}
	return Output{Start: 1, Lines: map[string][]float64{LineSAR: sar, LineTrend: trend}}
}
