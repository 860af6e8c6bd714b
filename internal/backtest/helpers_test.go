package backtest

import (
	"time"

	"github.com/newthinker/algonex/internal/core"
	"github.com/newthinker/algonex/internal/indicator"
	"github.com/newthinker/algonex/internal/signal"
	"github.com/newthinker/algonex/internal/strategy"
)

// tapeDef replays each bar's volume as its signal, ready from index "start".
var tapeDef = &signal.Definition{
	ID:       "tape",
	Name:     "Tape",
	Category: "test",
	Params: []signal.Param{
		{Name: "start", Default: 0, Min: 0, Max: 1000, Integer: true},
	},
	Start: func(p signal.Params) int { return p.Int("start") },
	Compute: func(bars []core.PriceBar, p signal.Params) indicator.Output {
		return indicator.Output{Start: p.Int("start")}
	},
	Normalize: func(bars []core.PriceBar, out indicator.Output, p signal.Params) []float64 {
		values := make([]float64, len(bars))
		for i, b := range bars {
			values[i] = b.Volume
		}
		return values
	},
}

func testBuilder() *strategy.Builder {
	r := signal.DefaultRegistry()
	r.Register(tapeDef)
	return strategy.NewBuilder(r)
}

func tapeConfig(start float64) strategy.Config {
	return strategy.Single("tape", map[string]float64{"start": start})
}

func day(i int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)
}

// tapeBars builds bars whose volume carries the scripted signal.
func tapeBars(closes, signals []float64) []core.PriceBar {
	bars := make([]core.PriceBar, len(closes))
	for i, c := range closes {
		bars[i] = core.PriceBar{Date: day(i), Open: c, High: c, Low: c, Close: c, Volume: signals[i]}
	}
	return bars
}

// risingBars is a strictly increasing series from 1 to n with open, high and
// low equal to the close.
func risingBars(n int) []core.PriceBar {
	bars := make([]core.PriceBar, n)
	for i := range bars {
		c := float64(i + 1)
		bars[i] = core.PriceBar{Date: day(i), Open: c, High: c, Low: c, Close: c, Volume: 1000}
	}
	return bars
}
