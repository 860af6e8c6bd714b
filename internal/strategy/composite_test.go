package strategy

import (
	"testing"

	"github.com/newthinker/algonex/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name      string
		composite float64
		want      core.Action
	}{
		{"at threshold", 0.5, core.ActionBuy},
		{"just below threshold", 0.499999, core.ActionHold},
		{"at negative threshold", -0.5, core.ActionSell},
		{"just above negative threshold", -0.499999, core.ActionHold},
		{"full buy", 1, core.ActionBuy},
		{"zero", 0, core.ActionHold},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.composite, 0.5))
		})
	}
}

func TestDecide_ZeroNeverActs(t *testing.T) {
	assert.Equal(t, core.ActionHold, Decide(0, 1e-12))
}

func TestConfirmed(t *testing.T) {
	tests := []struct {
		name      string
		signals   []float64
		composite float64
		want      bool
	}{
		{"single", []float64{-1}, 0.4, true},
		{"pair unanimous", []float64{1, 1}, 1, true},
		{"pair one neutral", []float64{1, 0}, 0.7, true},
		{"pair split", []float64{1, -1}, 0.6, false},
		{"triple two agree", []float64{1, 1, -1}, 0.33, true},
		{"triple one nonzero", []float64{1, 0, 0}, 0.8, false},
		{"triple two against", []float64{1, -1, -1}, 0.2, false},
		{"triple sell", []float64{-1, -1, 0}, -0.7, true},
		{"zero composite", []float64{1, -1}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Confirmed(tt.signals, tt.composite))
		})
	}
}

func evaluateOne(t *testing.T, cfg Config) Decision {
	t.Helper()
	c, err := testBuilder().Build(cfg)
	require.NoError(t, err)
	decisions := c.Evaluate(waveBars(3))
	require.Len(t, decisions, 3)
	return decisions[2]
}

func TestComposite_OffsettingPairHolds(t *testing.T) {
	for _, confirm := range []bool{false, true} {
		cfg := Config{
			Indicators:          []IndicatorConfig{fixed(1, 0.5), fixed(-1, 0.5)},
			SignalThreshold:     0.01,
			RequireConfirmation: confirm,
		}

		d := evaluateOne(t, cfg)

		assert.True(t, d.Ready)
		assert.Equal(t, 0.0, d.Composite)
		assert.Equal(t, core.ActionHold, d.Action, "confirm=%v", confirm)
	}
}

func TestComposite_PairWithNeutralBuysUnderConfirmation(t *testing.T) {
	d := evaluateOne(t, Config{
		Indicators:          []IndicatorConfig{fixed(1, 0.7), fixed(0, 0.3)},
		SignalThreshold:     0.5,
		RequireConfirmation: true,
	})

	assert.InDelta(t, 0.7, d.Composite, 1e-12)
	assert.Equal(t, []float64{1, 0}, d.Signals)
	assert.Equal(t, core.ActionBuy, d.Action)
}

func TestComposite_ConfirmationVetoes(t *testing.T) {
	cfg := Config{
		Indicators:      []IndicatorConfig{fixed(1, 0.8), fixed(-1, 0.2)},
		SignalThreshold: 0.5,
	}
	assert.Equal(t, core.ActionBuy, evaluateOne(t, cfg).Action)

	cfg.RequireConfirmation = true
	d := evaluateOne(t, cfg)
	assert.InDelta(t, 0.6, d.Composite, 1e-12)
	assert.Equal(t, core.ActionHold, d.Action)
}

func TestComposite_TripleMajority(t *testing.T) {
	d := evaluateOne(t, Config{
		Indicators:          []IndicatorConfig{fixed(-1, 1), fixed(-1, 1), fixed(1, 1)},
		SignalThreshold:     0.3,
		RequireConfirmation: true,
	})
	assert.InDelta(t, -1.0/3.0, d.Composite, 1e-12)
	assert.Equal(t, core.ActionSell, d.Action)

	d = evaluateOne(t, Config{
		Indicators:          []IndicatorConfig{fixed(1, 0.8), fixed(0, 0.1), fixed(0, 0.1)},
		SignalThreshold:     0.5,
		RequireConfirmation: true,
	})
	assert.Equal(t, core.ActionHold, d.Action)
}

func TestComposite_WeightsNeedNotSumToOne(t *testing.T) {
	d := evaluateOne(t, Config{
		Indicators:      []IndicatorConfig{fixed(1, 3), fixed(0, 1)},
		SignalThreshold: 0.75,
	})

	assert.Equal(t, 0.75, d.Composite)
	assert.Equal(t, core.ActionBuy, d.Action)
}

func TestComposite_NotReadyForcesHold(t *testing.T) {
	late := fixed(1, 1)
	late.Parameters["start"] = 4
	c, err := testBuilder().Build(Config{
		Indicators:      []IndicatorConfig{fixed(1, 1), late},
		SignalThreshold: 0.5,
	})
	require.NoError(t, err)

	decisions := c.Evaluate(waveBars(6))

	for i := 0; i < 4; i++ {
		d := decisions[i]
		assert.False(t, d.Ready, "index %d", i)
		assert.Equal(t, []bool{true, false}, d.IndicatorReady, "index %d", i)
		assert.Equal(t, 0.0, d.Composite, "index %d", i)
		assert.Equal(t, core.ActionHold, d.Action, "index %d", i)
	}
	assert.True(t, decisions[4].Ready)
	assert.Equal(t, core.ActionBuy, decisions[4].Action)
	assert.Equal(t, 5, c.Warmup())
}

func TestComposite_SingleConfirmationIsTrivial(t *testing.T) {
	bars := waveBars(150)
	ids := []string{"rsi", "bollinger", "macd", "stochastic", "cmo", "williams_r"}
	for _, id := range ids {
		plain := Single(id, nil)
		confirmed := plain.Clone()
		confirmed.RequireConfirmation = true

		a, err := NewBuilder(nil).Build(plain)
		require.NoError(t, err)
		b, err := NewBuilder(nil).Build(confirmed)
		require.NoError(t, err)

		assert.Equal(t, actions(a.Evaluate(bars)), actions(b.Evaluate(bars)), id)
	}
}

func TestComposite_Deterministic(t *testing.T) {
	c, err := NewBuilder(nil).Build(Triple(
		IndicatorConfig{ID: "rsi", Weight: 0.5},
		IndicatorConfig{ID: "ma", Weight: 0.3, Parameters: map[string]float64{"short_window": 5, "long_window": 20}},
		IndicatorConfig{ID: "sar", Weight: 0.2},
	))
	require.NoError(t, err)
	bars := waveBars(120)

	first := c.Evaluate(bars)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, c.Evaluate(bars))
	}
}

func TestComposite_Causal(t *testing.T) {
	c, err := NewBuilder(nil).Build(Dual(
		IndicatorConfig{ID: "mean_reversion", Weight: 0.5},
		IndicatorConfig{ID: "adx", Weight: 0.5, Parameters: map[string]float64{"period": 5}},
	))
	require.NoError(t, err)
	bars := waveBars(100)

	full := c.Evaluate(bars)
	for _, k := range []int{30, 57, 99} {
		assert.Equal(t, full[:k], c.Evaluate(bars[:k]), "prefix %d", k)
	}
}

func TestComposite_EvaluateEmpty(t *testing.T) {
	c, err := NewBuilder(nil).Build(Single("rsi", nil))
	require.NoError(t, err)

	assert.Empty(t, c.Evaluate(nil))
}
