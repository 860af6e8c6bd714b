package backtest

import (
	"math"

	"github.com/newthinker/algonex/internal/core"
)

// RoundTrips pairs each BUY of the trade log with the following SELL. An open
// position is valued at lastClose.
func RoundTrips(trades []core.Trade, lastClose float64) []RoundTrip {
	var trips []RoundTrip
	var open *RoundTrip

	for _, t := range trades {
		switch t.Action {
		case core.ActionBuy:
			if open == nil {
				open = &RoundTrip{Entry: t, EntryPrice: t.Price}
			}
		case core.ActionSell:
			if open != nil {
				exit := t
				open.Exit = &exit
				open.ExitPrice = t.Price
				open.Return = fractionalReturn(open.EntryPrice, open.ExitPrice)
				trips = append(trips, *open)
				open = nil
			}
		}
	}

	if open != nil {
		open.ExitPrice = lastClose
		open.Return = fractionalReturn(open.EntryPrice, lastClose)
		trips = append(trips, *open)
	}
	return trips
}

func fractionalReturn(entry, exit float64) float64 {
	if entry == 0 {
		return 0
	}
	return (exit - entry) / entry
}

// CalculateStats computes performance statistics from round trips
func CalculateStats(trips []RoundTrip) Stats {
	if len(trips) == 0 {
		return Stats{}
	}

	var winning, losing int
	var totalReturn float64
	var returns []float64

	for _, t := range trips {
		if !t.IsClosed() {
			continue
		}
		returns = append(returns, t.Return)
		totalReturn += t.Return
		if t.IsWin() {
			winning++
		} else {
			losing++
		}
	}

	closed := winning + losing
	var winRate float64
	if closed > 0 {
		winRate = float64(winning) / float64(closed) * 100
	}

	return Stats{
		RoundTrips:    len(trips),
		WinningTrades: winning,
		LosingTrades:  losing,
		WinRate:       winRate,
		TotalReturn:   totalReturn * 100,
		MaxDrawdown:   calculateMaxDrawdown(returns) * 100,
		SharpeRatio:   calculateSharpeRatio(returns),
	}
}

// calculateMaxDrawdown finds the largest peak-to-trough decline of the
// compounded round-trip returns
func calculateMaxDrawdown(returns []float64) float64 {
	var maxDD float64
	peak := 1.0
	cumulative := 1.0

	for _, r := range returns {
		cumulative *= (1 + r)
		peak = math.Max(peak, cumulative)
		if dd := (peak - cumulative) / peak; dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

// calculateSharpeRatio computes the annualized risk-adjusted return,
// assuming a risk-free rate of 0 and 252 periods a year
func calculateSharpeRatio(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}

	var sum float64
	for _, r := range returns {
		sum += r
	}
	mean := sum / float64(len(returns))

	var variance float64
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	stdDev := math.Sqrt(variance / float64(len(returns)-1))
	// Equal returns leave only rounding noise in the deviation.
	if stdDev <= 1e-12*math.Max(1, math.Abs(mean)) {
		return 0
	}
	return mean / stdDev * math.Sqrt(252)
}

// CalculateEquity replays the trade log through an all-in capital account:
// each BUY invests all capital and each SELL liquidates. A position left open
// is valued at the last trade's price. The return percentage is rounded to
// two decimals.
func CalculateEquity(trades []core.Trade, initialCapital float64) Equity {
	eq := Equity{InitialCapital: initialCapital, FinalCapital: initialCapital}
	if len(trades) == 0 {
		return eq
	}

	capital := initialCapital
	var units float64
	for _, t := range trades {
		switch {
		case t.Action == core.ActionBuy && units == 0 && t.Price > 0:
			units = capital / t.Price
			capital = 0
		case t.Action == core.ActionSell && units > 0:
			capital = units * t.Price
			units = 0
		}
	}

	eq.FinalCapital = capital
	if units > 0 {
		eq.FinalCapital = units * trades[len(trades)-1].Price
	}
	eq.PnL = eq.FinalCapital - initialCapital
	if initialCapital != 0 {
		eq.TotalReturnPct = math.Round(eq.PnL/initialCapital*100*100) / 100
	}
	return eq
}
