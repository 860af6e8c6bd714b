package backtest

import (
	"time"

	"github.com/newthinker/algonex/internal/core"
	"github.com/newthinker/algonex/internal/strategy"
)

// CompositeColumn names the composite score in the diagnostic panel.
const CompositeColumn = "composite_signal"

// Result holds the output of one replay.
type Result struct {
	Trades        []core.Trade  `json:"trades"`
	Summary       Summary       `json:"summary"`
	Panel         Panel         `json:"panel"`
	FinalPosition core.Position `json:"final_position"`
}

// Summary counts the trade log.
type Summary struct {
	TotalTrades int `json:"total_trades"`
	BuyTrades   int `json:"buy_trades"`
	SellTrades  int `json:"sell_trades"`
}

// Summarize derives the counts from a trade log.
func Summarize(trades []core.Trade) Summary {
	s := Summary{TotalTrades: len(trades)}
	for _, t := range trades {
		switch t.Action {
		case core.ActionBuy:
			s.BuyTrades++
		case core.ActionSell:
			s.SellTrades++
		}
	}
	return s
}

// Panel is the per-bar diagnostic table of a replay.
type Panel struct {
	// Columns names the signal columns: one per indicator, then the composite.
	Columns []string   `json:"columns"`
	Rows    []PanelRow `json:"rows"`
}

// PanelRow records the decision inputs and outcome of one bar.
type PanelRow struct {
	Date           time.Time     `json:"date"`
	Close          float64       `json:"close"`
	Signals        []float64     `json:"signals"`
	IndicatorReady []bool        `json:"indicator_ready"`
	Composite      float64       `json:"composite_signal"`
	Ready          bool          `json:"ready"`
	Action         core.Action   `json:"action"`
	Position       core.Position `json:"position"`
}

// RoundTrip pairs an entry with its exit. Exit is nil while the position is open.
type RoundTrip struct {
	Entry      core.Trade  `json:"entry"`
	Exit       *core.Trade `json:"exit,omitempty"`
	EntryPrice float64     `json:"entry_price"`
	ExitPrice  float64     `json:"exit_price"`
	Return     float64     `json:"return"` // fractional return
}

// IsWin returns true if the round trip was profitable
func (r RoundTrip) IsWin() bool {
	return r.Return > 0
}

// IsClosed returns true if the round trip has an exit
func (r RoundTrip) IsClosed() bool {
	return r.Exit != nil
}

// Stats holds round-trip performance statistics
type Stats struct {
	RoundTrips    int     `json:"round_trips"`
	WinningTrades int     `json:"winning_trades"`
	LosingTrades  int     `json:"losing_trades"`
	WinRate       float64 `json:"win_rate"`     // Percentage of profitable closed round trips
	TotalReturn   float64 `json:"total_return"` // Sum of closed returns, percent
	MaxDrawdown   float64 `json:"max_drawdown"` // Largest peak-to-trough decline, percent
	SharpeRatio   float64 `json:"sharpe_ratio"` // Annualized, risk-free rate 0
}

// Equity is the all-in capital account of a trade log.
type Equity struct {
	InitialCapital float64 `json:"initial_capital"`
	FinalCapital   float64 `json:"final_capital"`
	PnL            float64 `json:"pnl"`
	TotalReturnPct float64 `json:"total_return_pct"`
}

// Request describes one backtest run.
type Request struct {
	Symbol   string          `json:"symbol"`
	Start    time.Time       `json:"start"`
	End      time.Time       `json:"end"`
	Strategy strategy.Config `json:"strategy"`
}

// Report is the complete, archivable outcome of a backtest run.
type Report struct {
	RunID         string          `json:"run_id"`
	Symbol        string          `json:"symbol"`
	Start         time.Time       `json:"start"`
	End           time.Time       `json:"end"`
	Strategy      strategy.Config `json:"strategy"`
	Bars          int             `json:"bars"`
	Trades        []core.Trade    `json:"trades"`
	Summary       Summary         `json:"summary"`
	FinalPosition core.Position   `json:"final_position"`
	Stats         Stats           `json:"stats"`
	Equity        Equity          `json:"equity"`
	Panel         Panel           `json:"panel"`
	CreatedAt     time.Time       `json:"created_at"`
	Duration      time.Duration   `json:"duration_ns"`
	ArchivePath   string          `json:"archive_path,omitempty"`
}
