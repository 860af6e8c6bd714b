// Package signal maps indicator outputs onto discrete trading signals.
//
// A Definition binds one indicator formula to its parameter schema, its
// warm-up and the rule that turns its raw lines into -1 (sell), 0 (neutral)
// or +1 (buy) per bar. The Registry holds the definitions by id.
package signal

import (
	"math"
	"sort"
	"sync"

	"github.com/newthinker/algonex/internal/core"
	"github.com/newthinker/algonex/internal/indicator"
)

// Categories of indicator definitions.
const (
	CategoryTrend      = "trend"
	CategoryMomentum   = "momentum"
	CategoryVolatility = "volatility"
	CategoryVolume     = "volume"
	CategoryLevels     = "levels"
)

// Definition describes one selectable indicator.
type Definition struct {
	ID          string
	Name        string
	Category    string
	Description string
	Params      []Param

	// Check validates constraints spanning more than one parameter.
	Check func(Params) error
	// Start returns the first ready bar index for resolved params.
	Start     func(Params) int
	Compute   func(bars []core.PriceBar, p Params) indicator.Output
	Normalize func(bars []core.PriceBar, out indicator.Output, p Params) []float64
}

// Warmup returns the number of bars needed before the first ready signal.
func (d *Definition) Warmup(p Params) int {
	return d.Start(p) + 1
}

// Track is the normalized signal series of one indicator.
type Track struct {
	Values []float64
	// Start is the first ready index; Values before it are 0.
	Start int
}

// Ready reports whether the signal at index i is past the warm-up.
func (t Track) Ready(i int) bool {
	return i >= t.Start
}

// Evaluate computes the indicator over bars and normalizes it to signals.
// Signals before the warm-up, or where the raw series is undefined, are 0.
func Evaluate(d *Definition, bars []core.PriceBar, p Params) Track {
	out := d.Compute(bars, p)
	values := d.Normalize(bars, out, p)
	for i := range values {
		if i < out.Start || math.IsNaN(values[i]) {
			values[i] = 0
		}
	}
	return Track{Values: values, Start: out.Start}
}

// Registry manages indicator definitions by id.
type Registry struct {
	mu          sync.RWMutex
	definitions map[string]*Definition
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		definitions: make(map[string]*Definition),
	}
}

// Register adds a definition, replacing any with the same id.
func (r *Registry) Register(d *Definition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.definitions[d.ID] = d
}

// Get retrieves a definition by id.
func (r *Registry) Get(id string) (*Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.definitions[id]
	return d, ok
}

// IDs returns the registered ids in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.definitions))
	for id := range r.definitions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// GetAll returns all definitions sorted by id.
func (r *Registry) GetAll() []*Definition {
	ids := r.IDs()

	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*Definition, 0, len(ids))
	for _, id := range ids {
		if d, ok := r.definitions[id]; ok {
			result = append(result, d)
		}
	}
	return result
}

// DefaultRegistry returns a registry holding the full indicator library.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, d := range Library() {
		r.Register(d)
	}
	return r
}
