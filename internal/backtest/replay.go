package backtest

import (
	"fmt"
	"math"

	"github.com/newthinker/algonex/internal/core"
	"github.com/newthinker/algonex/internal/strategy"
)

// Replay runs the composite strategy over bars in chronological order and
// returns the resulting trade log. Every fill happens at the deciding bar's
// close; a BUY while long and a SELL while flat are ignored. A position still
// open after the last bar is reported, not closed.
//
// Replay is deterministic and performs no I/O.
func Replay(bars []core.PriceBar, composite *strategy.Composite) (*Result, error) {
	if err := ValidateBars(bars); err != nil {
		return nil, err
	}
	if need := composite.Warmup(); len(bars) < need {
		return nil, core.FieldError(core.ErrInsufficientData, "bars",
			"need %d bars, have %d", need, len(bars))
	}

	decisions := composite.Evaluate(bars)
	indicatorColumns := composite.Columns()
	columns := make([]string, 0, len(indicatorColumns)+1)
	columns = append(columns, indicatorColumns...)
	columns = append(columns, CompositeColumn)
	result := &Result{
		Trades: []core.Trade{},
		Panel: Panel{
			Columns: columns,
			Rows:    make([]PanelRow, len(bars)),
		},
		FinalPosition: core.PositionFlat,
	}

	position := core.PositionFlat
	for i, d := range decisions {
		bar := bars[i]
		switch {
		case d.Action == core.ActionBuy && position == core.PositionFlat:
			position = core.PositionLong
			result.Trades = append(result.Trades, core.Trade{Action: core.ActionBuy, Date: bar.Date, Price: bar.Close})
		case d.Action == core.ActionSell && position == core.PositionLong:
			position = core.PositionFlat
			result.Trades = append(result.Trades, core.Trade{Action: core.ActionSell, Date: bar.Date, Price: bar.Close})
		}

		result.Panel.Rows[i] = PanelRow{
			Date:           bar.Date,
			Close:          bar.Close,
			Signals:        d.Signals,
			IndicatorReady: d.IndicatorReady,
			Composite:      d.Composite,
			Ready:          d.Ready,
			Action:         d.Action,
			Position:       position,
		}
	}

	result.FinalPosition = position
	result.Summary = Summarize(result.Trades)
	return result, nil
}

// ValidateBars checks that bars are non-empty, finite and strictly ascending in date.
func ValidateBars(bars []core.PriceBar) error {
	if len(bars) == 0 {
		return core.FieldError(core.ErrNoData, "bars", "empty price series")
	}
	for i, b := range bars {
		field := fmt.Sprintf("bars[%d]", i)
		for _, v := range []float64{b.Open, b.High, b.Low, b.Close, b.Volume} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return core.FieldError(core.ErrDataInvalid, field, "non-finite value on %s", b.Date.Format("2006-01-02"))
			}
		}
		if i > 0 && !b.Date.After(bars[i-1].Date) {
			return core.FieldError(core.ErrDataInvalid, field+".date",
				"%s does not follow %s", b.Date.Format("2006-01-02"), bars[i-1].Date.Format("2006-01-02"))
		}
	}
	return nil
}
