package strategy

import (
	"fmt"

	"github.com/newthinker/algonex/internal/core"
	"github.com/newthinker/algonex/internal/signal"
)

// MaxIndicators is the largest number of indicators in one strategy.
const MaxIndicators = 3

// Builder validates strategy configurations against an indicator registry.
type Builder struct {
	registry *signal.Registry
}

// NewBuilder creates a builder. A nil registry selects the default library.
func NewBuilder(registry *signal.Registry) *Builder {
	if registry == nil {
		registry = signal.DefaultRegistry()
	}
	return &Builder{registry: registry}
}

// Registry returns the registry the builder resolves ids against.
func (b *Builder) Registry() *signal.Registry {
	return b.registry
}

// Build validates cfg and returns an immutable composite strategy.
// Every returned error is a configuration error naming the offending field.
func (b *Builder) Build(cfg Config) (*Composite, error) {
	n := len(cfg.Indicators)
	if n == 0 {
		return nil, core.FieldError(core.ErrConfigMissing, "indicators", "at least one indicator is required")
	}
	if n > MaxIndicators {
		return nil, core.FieldError(core.ErrConfigInvalid, "indicators",
			"%d indicators given, at most %d allowed", n, MaxIndicators)
	}
	if !finite(cfg.SignalThreshold) || cfg.SignalThreshold <= 0 || cfg.SignalThreshold > 1 {
		return nil, core.FieldError(core.ErrConfigInvalid, "signal_threshold",
			"%g not in (0, 1]", cfg.SignalThreshold)
	}

	resolved := cfg.Clone()
	components := make([]component, n)
	seen := make(map[string]int, n)
	for i, ind := range cfg.Indicators {
		field := fmt.Sprintf("indicators[%d]", i)
		if ind.ID == "" {
			return nil, core.FieldError(core.ErrConfigMissing, field+".id", "indicator id is required")
		}
		def, ok := b.registry.Get(ind.ID)
		if !ok {
			return nil, core.FieldError(core.ErrUnknownIndicator, field+".id", "%q", ind.ID)
		}
		if !finite(ind.Weight) || ind.Weight <= 0 {
			return nil, core.FieldError(core.ErrConfigInvalid, field+".weight",
				"weight must be positive, got %g", ind.Weight)
		}
		params, err := def.Resolve(ind.Parameters)
		if err != nil {
			if ce, ok := err.(*core.Error); ok {
				return nil, ce.Within(field)
			}
			return nil, err
		}

		seen[ind.ID]++
		column := ind.ID + "_signal"
		if seen[ind.ID] > 1 {
			column = fmt.Sprintf("%s_%d", column, seen[ind.ID])
		}
		components[i] = component{
			def:    def,
			params: params,
			weight: ind.Weight,
			column: column,
		}
		resolved.Indicators[i].Parameters = params.Clone()
		if resolved.Indicators[i].Name == "" {
			resolved.Indicators[i].Name = def.Name
		}
	}

	return &Composite{
		config:     resolved,
		components: components,
		threshold:  cfg.SignalThreshold,
		confirm:    cfg.RequireConfirmation,
	}, nil
}
