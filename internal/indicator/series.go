// Package indicator implements the technical indicator formulas.
//
// Every function is a pure function of its inputs. Output lines are aligned
// index-for-index with the input bars; values before Output.Start are not ready
// and hold NaN.
package indicator

import (
	"math"

	"github.com/newthinker/algonex/internal/core"
)

// Output holds one or more aligned indicator lines sharing a readiness start.
type Output struct {
	// Start is the first index at which every line is ready.
	Start int
	Lines map[string][]float64
}

// Line returns the named line, or nil when the indicator does not produce it.
func (o Output) Line(name string) []float64 {
	return o.Lines[name]
}

// Ready reports whether index i is past the warm-up.
func (o Output) Ready(i int) bool {
	return i >= o.Start
}

// Warmup returns the number of bars needed for the first ready value.
func (o Output) Warmup() int {
	return o.Start + 1
}

func nanLine(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// Sign returns -1, 0 or +1.
func Sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

// column extracts one numeric field from every bar.
func column(bars []core.PriceBar, field func(core.PriceBar) float64) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = field(b)
	}
	return out
}

func highOf(b core.PriceBar) float64  { return b.High }
func lowOf(b core.PriceBar) float64   { return b.Low }
