package signal

import (
	"github.com/newthinker/algonex/internal/core"
	"github.com/newthinker/algonex/internal/indicator"
)

const (
	maxPeriod     = 500
	maxLongPeriod = 1000
)

func period(name string, def, min, max float64) Param {
	return Param{Name: name, Default: def, Min: min, Max: max, Integer: true}
}

func bounded(name string, def, min, max float64) Param {
	return Param{Name: name, Default: def, Min: min, Max: max}
}

// positive accepts values in (0, max].
func positive(name string, def, max float64) Param {
	return Param{Name: name, Default: def, Min: 0, Max: max, ExclusiveMin: true}
}

// levels returns the overbought and oversold thresholds on scale [min, max].
func levels(overbought, oversold, min, max float64) []Param {
	return []Param{
		bounded("overbought", overbought, min, max),
		bounded("oversold", oversold, min, max),
	}
}

func withLevels(params []Param, overbought, oversold, min, max float64) []Param {
	return append(params, levels(overbought, oversold, min, max)...)
}

var levelsOrdered = less("oversold", "overbought")

// startAt returns a Start function reading one integer parameter.
func startAt(name string, offset int) func(Params) int {
	return func(p Params) int { return p.Int(name) + offset }
}

// Library returns freshly built definitions of every supported indicator.
func Library() []*Definition {
	return []*Definition{
		{
			ID:          "ma",
			Name:        "Moving Average Crossover",
			Category:    CategoryTrend,
			Description: "Buys while the short simple moving average is above the long one.",
			Params: []Param{
				period("short_window", 20, 1, maxLongPeriod),
				period("long_window", 50, 1, maxLongPeriod),
			},
			Check: less("short_window", "long_window"),
			Start: startAt("long_window", -1),
			Compute: func(bars []core.PriceBar, p Params) indicator.Output {
				return indicator.MovingAverages(bars, p.Int("short_window"), p.Int("long_window"))
			},
			Normalize: crossRule(indicator.LineShort, indicator.LineLong),
		},
		{
			ID:          "ema",
			Name:        "EMA Crossover",
			Category:    CategoryTrend,
			Description: "Buys while the short exponential moving average is above the long one.",
			Params: []Param{
				period("short_period", 12, 1, maxLongPeriod),
				period("long_period", 26, 1, maxLongPeriod),
			},
			Check: less("short_period", "long_period"),
			Start: startAt("long_period", -1),
			Compute: func(bars []core.PriceBar, p Params) indicator.Output {
				return indicator.ExponentialAverages(bars, p.Int("short_period"), p.Int("long_period"))
			},
			Normalize: crossRule(indicator.LineShort, indicator.LineLong),
		},
		{
			ID:          "rsi",
			Name:        "Relative Strength Index",
			Category:    CategoryMomentum,
			Description: "Buys when RSI is oversold and sells when it is overbought.",
			Params:      withLevels([]Param{period("period", 14, 2, maxPeriod)}, 70, 30, 0, 100),
			Check:       levelsOrdered,
			Start:       startAt("period", 0),
			Compute: func(bars []core.PriceBar, p Params) indicator.Output {
				return indicator.RSI(bars, p.Int("period"))
			},
			Normalize: thresholdRule(indicator.LineRSI),
		},
		{
			ID:          "bollinger",
			Name:        "Bollinger Bands",
			Category:    CategoryVolatility,
			Description: "Buys below the lower band and sells above the upper band.",
			Params: []Param{
				period("window", 20, 2, maxPeriod),
				positive("num_std", 2, 10),
			},
			Start: startAt("window", -1),
			Compute: func(bars []core.PriceBar, p Params) indicator.Output {
				return indicator.Bollinger(bars, p.Int("window"), p.Float("num_std"))
			},
			Normalize: bandRule,
		},
		{
			ID:          "mean_reversion",
			Name:        "Mean Reversion",
			Category:    CategoryVolatility,
			Description: "Enters against a z-score extreme and holds until the price reverts toward the mean.",
			Params: []Param{
				period("window", 20, 2, maxPeriod),
				positive("entry_z", 1, 10),
				bounded("exit_z", 0, 0, 10),
			},
			Check: less("exit_z", "entry_z"),
			Start: startAt("window", -1),
			Compute: func(bars []core.PriceBar, p Params) indicator.Output {
				return indicator.ZScore(bars, p.Int("window"))
			},
			Normalize: meanReversionRule,
		},
		{
			ID:          "mfi",
			Name:        "Money Flow Index",
			Category:    CategoryVolume,
			Description: "Volume-weighted RSI: buys when oversold and sells when overbought.",
			Params:      withLevels([]Param{period("period", 14, 2, maxPeriod)}, 80, 20, 0, 100),
			Check:       levelsOrdered,
			Start:       startAt("period", 0),
			Compute: func(bars []core.PriceBar, p Params) indicator.Output {
				return indicator.MFI(bars, p.Int("period"))
			},
			Normalize: thresholdRule(indicator.LineMFI),
		},
		{
			ID:          "sar",
			Name:        "Parabolic SAR",
			Category:    CategoryTrend,
			Description: "Buys while the close is above the stop-and-reverse level.",
			Params: []Param{
				positive("acceleration", 0.02, 1),
				positive("maximum", 0.2, 1),
			},
			Check: lessOrEqual("acceleration", "maximum"),
			Start: func(Params) int { return 1 },
			Compute: func(bars []core.PriceBar, p Params) indicator.Output {
				return indicator.ParabolicSAR(bars, p.Float("acceleration"), p.Float("maximum"))
			},
			Normalize: priceRule(indicator.LineSAR),
		},
		{
			ID:          "cmo",
			Name:        "Chande Momentum Oscillator",
			Category:    CategoryMomentum,
			Description: "Buys when momentum is oversold and sells when it is overbought.",
			Params:      withLevels([]Param{period("period", 14, 2, maxPeriod)}, 50, -50, -100, 100),
			Check:       levelsOrdered,
			Start:       startAt("period", 0),
			Compute: func(bars []core.PriceBar, p Params) indicator.Output {
				return indicator.CMO(bars, p.Int("period"))
			},
			Normalize: thresholdRule(indicator.LineCMO),
		},
		{
			ID:          "stochastic",
			Name:        "Stochastic Oscillator",
			Category:    CategoryMomentum,
			Description: "Buys when %D is oversold and sells when it is overbought.",
			Params: withLevels([]Param{
				period("k_period", 14, 2, maxPeriod),
				period("d_period", 3, 1, 100),
			}, 80, 20, 0, 100),
			Check: levelsOrdered,
			Start: func(p Params) int { return p.Int("k_period") + p.Int("d_period") - 2 },
			Compute: func(bars []core.PriceBar, p Params) indicator.Output {
				return indicator.Stochastic(bars, p.Int("k_period"), p.Int("d_period"))
			},
			Normalize: thresholdRule(indicator.LineD),
		},
		{
			ID:          "williams_r",
			Name:        "Williams %R",
			Category:    CategoryMomentum,
			Description: "Buys when %R is oversold and sells when it is overbought.",
			Params:      withLevels([]Param{period("period", 14, 2, maxPeriod)}, -20, -80, -100, 0),
			Check:       levelsOrdered,
			Start:       startAt("period", -1),
			Compute: func(bars []core.PriceBar, p Params) indicator.Output {
				return indicator.WilliamsR(bars, p.Int("period"))
			},
			Normalize: thresholdRule(indicator.LineWilliamsR),
		},
		{
			ID:          "macd",
			Name:        "MACD",
			Category:    CategoryTrend,
			Description: "Buys while the MACD line is above its signal line.",
			Params:      oscillatorParams(),
			Check:       less("fast_period", "slow_period"),
			Start:       oscillatorStart,
			Compute: func(bars []core.PriceBar, p Params) indicator.Output {
				return indicator.MACD(bars, p.Int("fast_period"), p.Int("slow_period"), p.Int("signal_period"))
			},
			Normalize: crossRule(indicator.LineMACD, indicator.LineSignal),
		},
		{
			ID:          "obv",
			Name:        "On-Balance Volume",
			Category:    CategoryVolume,
			Description: "Buys while on-balance volume is above its moving average.",
			Params:      []Param{period("period", 20, 1, maxPeriod)},
			Start:       startAt("period", -1),
			Compute: func(bars []core.PriceBar, p Params) indicator.Output {
				return indicator.OBV(bars, p.Int("period"))
			},
			Normalize: crossRule(indicator.LineOBV, indicator.LineOBVMean),
		},
		{
			ID:          "vwap",
			Name:        "Volume Weighted Average Price",
			Category:    CategoryVolume,
			Description: "Buys while the close is above the rolling VWAP.",
			Params:      []Param{period("period", 20, 1, maxPeriod)},
			Start:       startAt("period", -1),
			Compute: func(bars []core.PriceBar, p Params) indicator.Output {
				return indicator.VWAP(bars, p.Int("period"))
			},
			Normalize: priceRule(indicator.LineVWAP),
		},
		{
			ID:          "atr",
			Name:        "Average True Range",
			Category:    CategoryVolatility,
			Description: "Buys on a close more than multiplier ATRs below the previous close and sells on one above it.",
			Params: []Param{
				period("period", 14, 1, maxPeriod),
				positive("multiplier", 2, 20),
			},
			Start: startAt("period", 1),
			Compute: func(bars []core.PriceBar, p Params) indicator.Output {
				return indicator.ATR(bars, p.Int("period"), p.Float("multiplier"))
			},
			Normalize: bandRule,
		},
		{
			ID:          "ibs",
			Name:        "Internal Bar Strength",
			Category:    CategoryLevels,
			Description: "Buys on closes near the bar low and sells on closes near the bar high.",
			Params:      levels(0.8, 0.2, 0, 1),
			Check:       levelsOrdered,
			Start:       func(Params) int { return 0 },
			Compute: func(bars []core.PriceBar, p Params) indicator.Output {
				return indicator.IBS(bars)
			},
			Normalize: thresholdRule(indicator.LineIBS),
		},
		{
			ID:          "fibonacci",
			Name:        "Fibonacci Retracement",
			Category:    CategoryLevels,
			Description: "Buys while the close is above the retracement level of the recent swing.",
			Params: []Param{
				period("period", 20, 2, maxPeriod),
				bounded("retracement_level", 0.618, 0, 1),
			},
			Start: startAt("period", -1),
			Compute: func(bars []core.PriceBar, p Params) indicator.Output {
				return indicator.Fibonacci(bars, p.Int("period"), p.Float("retracement_level"))
			},
			Normalize: priceRule(indicator.LineRetracement),
		},
		{
			ID:          "ppo",
			Name:        "Percentage Price Oscillator",
			Category:    CategoryMomentum,
			Description: "Buys while the PPO line is above its signal line.",
			Params:      oscillatorParams(),
			Check:       less("fast_period", "slow_period"),
			Start:       oscillatorStart,
			Compute: func(bars []core.PriceBar, p Params) indicator.Output {
				return indicator.PPO(bars, p.Int("fast_period"), p.Int("slow_period"), p.Int("signal_period"))
			},
			Normalize: crossRule(indicator.LinePPO, indicator.LineSignal),
		},
		{
			ID:          "adx",
			Name:        "Average Directional Index",
			Category:    CategoryTrend,
			Description: "Follows the dominant directional indicator while ADX shows a strong trend.",
			Params: []Param{
				period("period", 14, 2, 250),
				bounded("threshold", 25, 0, 100),
			},
			Start: func(p Params) int { return 2*p.Int("period") - 1 },
			Compute: func(bars []core.PriceBar, p Params) indicator.Output {
				return indicator.ADX(bars, p.Int("period"))
			},
			Normalize: adxRule,
		},
		{
			ID:          "std",
			Name:        "Standard Deviation Bands",
			Category:    CategoryVolatility,
			Description: "Buys below the lower sample standard deviation band and sells above the upper one.",
			Params: []Param{
				period("period", 20, 2, maxPeriod),
				positive("multiplier", 2, 10),
			},
			Start: startAt("period", -1),
			Compute: func(bars []core.PriceBar, p Params) indicator.Output {
				return indicator.StdBands(bars, p.Int("period"), p.Float("multiplier"))
			},
			Normalize: bandRule,
		},
		{
			ID:          "rvi",
			Name:        "Relative Volatility Index",
			Category:    CategoryVolatility,
			Description: "Buys when volatility skews to the down side and sells when it skews up.",
			Params:      withLevels([]Param{period("period", 14, 2, 250)}, 60, 40, 0, 100),
			Check:       levelsOrdered,
			Start:       func(p Params) int { return 2*p.Int("period") - 2 },
			Compute: func(bars []core.PriceBar, p Params) indicator.Output {
				return indicator.RVI(bars, p.Int("period"))
			},
			Normalize: thresholdRule(indicator.LineRVI),
		},
	}
}

func oscillatorParams() []Param {
	return []Param{
		period("fast_period", 12, 1, maxPeriod),
		period("slow_period", 26, 2, maxPeriod),
		period("signal_period", 9, 1, 100),
	}
}

func oscillatorStart(p Params) int {
	return p.Int("slow_period") + p.Int("signal_period") - 1
}
