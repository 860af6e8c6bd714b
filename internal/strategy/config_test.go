package strategy

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/newthinker/algonex/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlStrategy = `
indicators:
  - id: rsi
    name: Relative Strength Index
    weight: 0.6
    parameters: {period: 14, overbought: 70, oversold: 30}
  - id: bollinger
    weight: 0.4
    parameters:
      window: 20
      num_std: 2
signal_threshold: 0.5
require_confirmation: true
`

const jsonStrategy = `{
  "indicators": [
    {"id": "macd", "weight": 1, "parameters": {"fast_period": 8, "slow_period": 21}}
  ],
  "signal_threshold": 0.7,
  "require_confirmation": false
}`

func TestUnmarshalConfigYAML(t *testing.T) {
	cfg, err := UnmarshalConfigYAML([]byte(yamlStrategy))

	require.NoError(t, err)
	require.Len(t, cfg.Indicators, 2)
	assert.Equal(t, "rsi", cfg.Indicators[0].ID)
	assert.Equal(t, 0.6, cfg.Indicators[0].Weight)
	assert.Equal(t, 14.0, cfg.Indicators[0].Parameters["period"])
	assert.Equal(t, 2.0, cfg.Indicators[1].Parameters["num_std"])
	assert.Equal(t, 0.5, cfg.SignalThreshold)
	assert.True(t, cfg.RequireConfirmation)
}

func TestUnmarshalConfigJSON(t *testing.T) {
	cfg, err := UnmarshalConfigJSON([]byte(jsonStrategy))

	require.NoError(t, err)
	assert.Equal(t, Config{
		Indicators: []IndicatorConfig{
			{ID: "macd", Weight: 1, Parameters: map[string]float64{"fast_period": 8, "slow_period": 21}},
		},
		SignalThreshold: 0.7,
	}, cfg)
}

func TestUnmarshal_RejectsUnknownFields(t *testing.T) {
	_, err := UnmarshalConfigJSON([]byte(`{"indicators": [], "threshold": 0.5}`))
	assert.True(t, errors.Is(err, core.ErrConfigInvalid))

	_, err = UnmarshalConfigYAML([]byte("indicators: []\nconfirm: true\n"))
	assert.True(t, errors.Is(err, core.ErrConfigInvalid))
}

func TestUnmarshal_Malformed(t *testing.T) {
	_, err := UnmarshalConfigJSON([]byte(`{"indicators": [`))
	assert.True(t, core.IsConfigError(err))

	_, err = UnmarshalConfigYAML([]byte("indicators: [\n"))
	assert.True(t, core.IsConfigError(err))
}

func TestConfig_RoundTripReproducesDecisions(t *testing.T) {
	original, err := UnmarshalConfigYAML([]byte(yamlStrategy))
	require.NoError(t, err)
	bars := waveBars(120)
	b := NewBuilder(nil)
	want, err := b.Build(original)
	require.NoError(t, err)

	asJSON, err := MarshalConfigJSON(want.Config())
	require.NoError(t, err)
	fromJSON, err := UnmarshalConfigJSON(asJSON)
	require.NoError(t, err)

	asYAML, err := MarshalConfigYAML(fromJSON)
	require.NoError(t, err)
	fromYAML, err := UnmarshalConfigYAML(asYAML)
	require.NoError(t, err)

	assert.Equal(t, want.Config(), fromYAML)
	got, err := b.Build(fromYAML)
	require.NoError(t, err)
	assert.Equal(t, want.Evaluate(bars), got.Evaluate(bars))
}

func TestParseParams(t *testing.T) {
	var number json.Number = "2.5"
	params, err := ParseParams(map[string]any{
		"period":     14,
		"overbought": "70",
		"oversold":   30.0,
		"num_std":    number,
		"window":     int64(20),
	})

	require.NoError(t, err)
	assert.Equal(t, map[string]float64{
		"period": 14, "overbought": 70, "oversold": 30, "num_std": 2.5, "window": 20,
	}, params)
}

func TestParseParams_Rejects(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
	}{
		{"bool", map[string]any{"period": true}},
		{"text", map[string]any{"period": "fourteen"}},
		{"nested", map[string]any{"period": []int{14}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseParams(tt.raw)

			require.Error(t, err)
			var ce *core.Error
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, "period", ce.Field)
			assert.True(t, core.IsConfigError(err))
		})
	}
}

func TestParseParams_Nil(t *testing.T) {
	params, err := ParseParams(nil)

	assert.NoError(t, err)
	assert.Nil(t, params)
}
