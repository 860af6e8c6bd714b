package signal

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/newthinker/algonex/internal/core"
)

// Param describes one tunable input of an indicator.
type Param struct {
	Name    string  `json:"name"`
	Default float64 `json:"default"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	// ExclusiveMin makes the lower bound open: Min < v <= Max.
	ExclusiveMin bool `json:"exclusive_min,omitempty"`
	Integer      bool `json:"integer,omitempty"`
}

// Range returns the accepted interval in mathematical notation.
func (p Param) Range() string {
	open := "["
	if p.ExclusiveMin {
		open = "("
	}
	return fmt.Sprintf("%s%g, %g]", open, p.Min, p.Max)
}

func (p Param) check(v float64) *core.Error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return core.FieldError(core.ErrParamOutOfRange, p.Name, "must be finite")
	}
	if p.Integer && v != math.Trunc(v) {
		return core.FieldError(core.ErrParamOutOfRange, p.Name, "must be an integer, got %g", v)
	}
	below := v < p.Min || (p.ExclusiveMin && v == p.Min)
	if below || v > p.Max {
		return core.FieldError(core.ErrParamOutOfRange, p.Name, "%g not in %s", v, p.Range())
	}
	return nil
}

// Params holds resolved parameter values by name.
type Params map[string]float64

// Float returns the named value.
func (p Params) Float(name string) float64 {
	return p[name]
}

// Int returns the named value as an integer.
func (p Params) Int(name string) int {
	return int(p[name])
}

// Clone returns an independent copy.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Resolve validates raw against the definition's schema and fills defaults for
// omitted parameters. Errors carry the field "parameters.<name>".
func (d *Definition) Resolve(raw map[string]float64) (Params, error) {
	known := make(map[string]bool, len(d.Params))
	for _, p := range d.Params {
		known[p.Name] = true
	}

	var unknown []string
	for name := range raw {
		if !known[name] {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, core.FieldError(core.ErrParamOutOfRange, "parameters."+unknown[0],
			"unknown parameter for %s (accepted: %s)", d.ID, strings.Join(d.ParamNames(), ", "))
	}

	params := make(Params, len(d.Params))
	for _, p := range d.Params {
		v, ok := raw[p.Name]
		if !ok {
			v = p.Default
		}
		if err := p.check(v); err != nil {
			return nil, err.Within("parameters")
		}
		params[p.Name] = v
	}

	if d.Check != nil {
		if err := d.Check(params); err != nil {
			if ce, ok := err.(*core.Error); ok {
				return nil, ce.Within("parameters")
			}
			return nil, core.WrapError(core.ErrParamOutOfRange, err)
		}
	}
	return params, nil
}

// Defaults returns the default value of every parameter.
func (d *Definition) Defaults() Params {
	params := make(Params, len(d.Params))
	for _, p := range d.Params {
		params[p.Name] = p.Default
	}
	return params
}

// ParamNames lists the accepted parameter names in declaration order.
func (d *Definition) ParamNames() []string {
	names := make([]string, len(d.Params))
	for i, p := range d.Params {
		names[i] = p.Name
	}
	return names
}

// less returns a cross-parameter check requiring params[lo] < params[hi].
func less(lo, hi string) func(Params) error {
	return func(p Params) error {
		if p[lo] >= p[hi] {
			return core.FieldError(core.ErrParamOutOfRange, lo,
				"%s (%g) must be less than %s (%g)", lo, p[lo], hi, p[hi])
		}
		return nil
	}
}

func lessOrEqual(lo, hi string) func(Params) error {
	return func(p Params) error {
		if p[lo] > p[hi] {
			return core.FieldError(core.ErrParamOutOfRange, lo,
				"%s (%g) must not exceed %s (%g)", lo, p[lo], hi, p[hi])
		}
		return nil
	}
}
