package strategy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/newthinker/algonex/internal/core"
	"gopkg.in/yaml.v3"
)

// DefaultThreshold is the composite magnitude used by the multi-indicator shortcuts.
const DefaultThreshold = 0.5

// IndicatorConfig selects one indicator of a strategy.
type IndicatorConfig struct {
	ID string `json:"id" yaml:"id" mapstructure:"id"`
	// Name is informational only.
	Name       string             `json:"name,omitempty" yaml:"name,omitempty" mapstructure:"name"`
	Weight     float64            `json:"weight" yaml:"weight" mapstructure:"weight"`
	Parameters map[string]float64 `json:"parameters,omitempty" yaml:"parameters,omitempty" mapstructure:"parameters"`
}

// Config is the external representation of a composite strategy.
type Config struct {
	Indicators          []IndicatorConfig `json:"indicators" yaml:"indicators" mapstructure:"indicators"`
	SignalThreshold     float64           `json:"signal_threshold" yaml:"signal_threshold" mapstructure:"signal_threshold"`
	RequireConfirmation bool              `json:"require_confirmation" yaml:"require_confirmation" mapstructure:"require_confirmation"`
}

// Clone returns a deep copy of c.
func (c Config) Clone() Config {
	out := c
	out.Indicators = make([]IndicatorConfig, len(c.Indicators))
	for i, ind := range c.Indicators {
		out.Indicators[i] = ind
		if ind.Parameters != nil {
			out.Indicators[i].Parameters = make(map[string]float64, len(ind.Parameters))
			for k, v := range ind.Parameters {
				out.Indicators[i].Parameters[k] = v
			}
		}
	}
	return out
}

// Single returns a one-indicator strategy with weight 1 and no confirmation.
func Single(id string, params map[string]float64) Config {
	return Config{
		Indicators:      []IndicatorConfig{{ID: id, Weight: 1, Parameters: params}},
		SignalThreshold: DefaultThreshold,
	}
}

// Dual returns a confirmed two-indicator strategy.
func Dual(first, second IndicatorConfig) Config {
	return Config{
		Indicators:          []IndicatorConfig{first, second},
		SignalThreshold:     DefaultThreshold,
		RequireConfirmation: true,
	}
}

// Triple returns a confirmed three-indicator strategy.
func Triple(first, second, third IndicatorConfig) Config {
	return Config{
		Indicators:          []IndicatorConfig{first, second, third},
		SignalThreshold:     DefaultThreshold,
		RequireConfirmation: true,
	}
}

// Default returns the 50/200 moving average crossover.
func Default() Config {
	return Single("ma", map[string]float64{"short_window": 50, "long_window": 200})
}

// ParseParams converts a loosely typed parameter map, such as a decoded
// request body, into numeric parameters. Numbers and numeric strings are accepted.
func ParseParams(raw map[string]any) (map[string]float64, error) {
	if raw == nil {
		return nil, nil
	}

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	params := make(map[string]float64, len(raw))
	for _, name := range names {
		v, err := toFloat(raw[name])
		if err != nil {
			return nil, core.FieldError(core.ErrConfigInvalid, name, "%v", err)
		}
		params[name] = v
	}
	return params, nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, fmt.Errorf("not a number: %q", n)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("unsupported value type %T", v)
	}
}

// MarshalConfigJSON encodes c as indented JSON.
func MarshalConfigJSON(c Config) ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// UnmarshalConfigJSON decodes a strategy, rejecting unknown fields.
func UnmarshalConfigJSON(data []byte) (Config, error) {
	var c Config
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		return Config{}, core.WrapError(core.ErrConfigInvalid, err)
	}
	return c, nil
}

// MarshalConfigYAML encodes c as YAML.
func MarshalConfigYAML(c Config) ([]byte, error) {
	return yaml.Marshal(c)
}

// UnmarshalConfigYAML decodes a strategy, rejecting unknown fields.
func UnmarshalConfigYAML(data []byte) (Config, error) {
	var c Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return Config{}, core.WrapError(core.ErrConfigInvalid, err)
	}
	return c, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
