package strategy

import (
	"sync"
	"time"

	"github.com/newthinker/algonex/internal/core"
	"github.com/newthinker/algonex/internal/signal"
)

type component struct {
	def    *signal.Definition
	params signal.Params
	weight float64
	column string
}

// Composite combines up to three weighted indicator signals into one
// decision per bar. It is immutable and safe for concurrent use.
type Composite struct {
	config     Config
	components []component
	threshold  float64
	confirm    bool
}

// Decision is the composite verdict for one bar.
type Decision struct {
	Date           time.Time
	Signals        []float64
	IndicatorReady []bool
	Composite      float64
	// Ready is false until every indicator has warmed up.
	Ready  bool
	Action core.Action
}

// Config returns the resolved configuration with defaults filled in.
func (c *Composite) Config() Config {
	return c.config.Clone()
}

// Columns returns the diagnostic column name of every indicator signal.
func (c *Composite) Columns() []string {
	cols := make([]string, len(c.components))
	for i, comp := range c.components {
		cols[i] = comp.column
	}
	return cols
}

// Warmup returns the number of bars needed before the first ready decision.
func (c *Composite) Warmup() int {
	var w int
	for _, comp := range c.components {
		w = max(w, comp.def.Warmup(comp.params))
	}
	return w
}

// Evaluate decides every bar. The decision at index i depends only on bars[:i+1].
func (c *Composite) Evaluate(bars []core.PriceBar) []Decision {
	tracks := make([]signal.Track, len(c.components))
	var wg sync.WaitGroup
	for i, comp := range c.components {
		wg.Add(1)
		go func(i int, comp component) {
			defer wg.Done()
			tracks[i] = signal.Evaluate(comp.def, bars, comp.params)
		}(i, comp)
	}
	wg.Wait()

	decisions := make([]Decision, len(bars))
	for t, bar := range bars {
		d := Decision{
			Date:           bar.Date,
			Signals:        make([]float64, len(tracks)),
			IndicatorReady: make([]bool, len(tracks)),
			Ready:          true,
			Action:         core.ActionHold,
		}
		var weighted, weights float64
		for i, track := range tracks {
			ready := track.Ready(t)
			d.IndicatorReady[i] = ready
			if !ready {
				d.Ready = false
				continue
			}
			d.Signals[i] = track.Values[t]
			weighted += c.components[i].weight * track.Values[t]
			weights += c.components[i].weight
		}
		if d.Ready && weights > 0 {
			d.Composite = weighted / weights
			d.Action = Decide(d.Composite, c.threshold)
			if d.Action != core.ActionHold && c.confirm && !Confirmed(d.Signals, d.Composite) {
				d.Action = core.ActionHold
			}
		}
		decisions[t] = d
	}
	return decisions
}

// Decide applies the threshold to a composite score. Equality acts; a zero
// composite always holds.
func Decide(composite, threshold float64) core.Action {
	switch {
	case composite == 0:
		return core.ActionHold
	case composite >= threshold:
		return core.ActionBuy
	case composite <= -threshold:
		return core.ActionSell
	default:
		return core.ActionHold
	}
}

// Confirmed reports whether the individual signals agree with the composite's
// direction. One indicator always confirms; two require every non-zero signal
// to agree; three require at least two agreeing signals.
func Confirmed(signals []float64, composite float64) bool {
	if composite == 0 {
		return false
	}
	var agree, disagree int
	for _, s := range signals {
		switch {
		case s == 0:
		case (s > 0) == (composite > 0):
			agree++
		default:
			disagree++
		}
	}

	switch len(signals) {
	case 1:
		return true
	case 2:
		return disagree == 0 && agree > 0
	default:
		return agree >= 2
	}
}
