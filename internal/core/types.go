package core

import "time"

// PriceBar represents one OHLCV candlestick.
type PriceBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// TypicalPrice returns (high + low + close) / 3.
func (b PriceBar) TypicalPrice() float64 {
	return (b.High + b.Low + b.Close) / 3
}

// Closes extracts the closing prices of bars.
func Closes(bars []PriceBar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// Action represents a per-bar trading decision
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
	ActionHold Action = "HOLD"
)

// Position is the engine's holding state
type Position string

const (
	PositionFlat Position = "FLAT"
	PositionLong Position = "LONG"
)

// Trade is one entry of the trade log.
type Trade struct {
	Action Action    `json:"action"`
	Date   time.Time `json:"date"`
	Price  float64   `json:"price"`
}
