package strategy

import (
	"math"
	"time"

	"github.com/newthinker/algonex/internal/core"
	"github.com/newthinker/algonex/internal/indicator"
	"github.com/newthinker/algonex/internal/signal"
)

// fixedDef emits a constant signal from index "start" onward.
var fixedDef = &signal.Definition{
	ID:       "fixed",
	Name:     "Fixed",
	Category: "test",
	Params: []signal.Param{
		{Name: "value", Default: 0, Min: -1, Max: 1},
		{Name: "start", Default: 0, Min: 0, Max: 1000, Integer: true},
	},
	Start: func(p signal.Params) int { return p.Int("start") },
	Compute: func(bars []core.PriceBar, p signal.Params) indicator.Output {
		return indicator.Output{Start: p.Int("start")}
	},
	Normalize: func(bars []core.PriceBar, out indicator.Output, p signal.Params) []float64 {
		values := make([]float64, len(bars))
		for i := range values {
			values[i] = p.Float("value")
		}
		return values
	},
}

func testBuilder() *Builder {
	r := signal.DefaultRegistry()
	r.Register(fixedDef)
	return NewBuilder(r)
}

func fixed(value, weight float64) IndicatorConfig {
	return IndicatorConfig{ID: "fixed", Weight: weight, Parameters: map[string]float64{"value": value}}
}

func waveBars(n int) []core.PriceBar {
	start := time.Date(2022, 1, 3, 0, 0, 0, 0, time.UTC)
	bars := make([]core.PriceBar, n)
	for i := range bars {
		x := float64(i)
		c := 100 + 12*math.Sin(x/6) + 4*math.Sin(x/1.7)
		bars[i] = core.PriceBar{
			Date:   start.AddDate(0, 0, i),
			Open:   c,
			High:   c + 2,
			Low:    c - 2,
			Close:  c,
			Volume: 1000 + 300*math.Cos(x/5),
		}
	}
	return bars
}

func actions(decisions []Decision) []core.Action {
	out := make([]core.Action, len(decisions))
	for i, d := range decisions {
		out[i] = d.Action
	}
	return out
}
