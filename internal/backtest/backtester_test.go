package backtest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/newthinker/algonex/internal/core"
	"github.com/newthinker/algonex/internal/metrics"
	"github.com/newthinker/algonex/internal/storage/archive"
	"github.com/newthinker/algonex/internal/strategy"
)

type mockProvider struct {
	bars  []core.PriceBar
	err   error
	calls int
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) FetchHistory(ctx context.Context, symbol string, start, end time.Time) ([]core.PriceBar, error) {
	m.calls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.bars, m.err
}

type failingStore struct{ archive.Store }

func (failingStore) Write(ctx context.Context, path string, data []byte) error {
	return errors.New("disk full")
}

func fixedClock() func() time.Time {
	t := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return t }
}

func scriptedRequest() Request {
	return Request{Symbol: "spy", Strategy: tapeConfig(0)}
}

func scriptedProvider() *mockProvider {
	return &mockProvider{bars: tapeBars(
		[]float64{10, 11, 12, 13, 14, 15, 16},
		[]float64{0, 1, 1, -1, -1, 1, 0},
	)}
}

func TestBacktester_Run(t *testing.T) {
	provider := scriptedProvider()
	store, err := archive.NewLocalFS(t.TempDir())
	require.NoError(t, err)
	reg := metrics.NewRegistry()

	b := New(provider,
		WithBuilder(testBuilder()),
		WithArchive(store),
		WithMetrics(reg),
		WithClock(fixedClock()),
	)
	report, err := b.Run(context.Background(), scriptedRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, "spy", report.Symbol)
	assert.Equal(t, 7, report.Bars)
	assert.Equal(t, Summary{TotalTrades: 3, BuyTrades: 2, SellTrades: 1}, report.Summary)
	assert.Equal(t, core.PositionLong, report.FinalPosition)
	assert.Equal(t, 18.18, report.Equity.TotalReturnPct)
	assert.Equal(t, DefaultInitialCapital, report.Equity.InitialCapital)
	assert.Equal(t, 2, report.Stats.RoundTrips)
	assert.Equal(t, 1.0, report.Strategy.Indicators[0].Weight)
	assert.Equal(t, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC), report.CreatedAt)

	want := "runs/SPY/2024-06-01/" + report.RunID + ".json"
	assert.Equal(t, want, report.ArchivePath)

	var stored Report
	require.NoError(t, archive.LoadJSON(context.Background(), store, want, &stored))
	assert.Equal(t, report.RunID, stored.RunID)
	assert.Equal(t, report.Trades, stored.Trades)
}

func TestBacktester_RunIDsUnique(t *testing.T) {
	b := New(scriptedProvider(), WithBuilder(testBuilder()))

	first, err := b.Run(context.Background(), scriptedRequest())
	require.NoError(t, err)
	second, err := b.Run(context.Background(), scriptedRequest())
	require.NoError(t, err)

	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Equal(t, first.Trades, second.Trades)
}

func TestBacktester_ConfigErrorBeforeFetch(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want *core.Error
	}{
		{"no indicators", Request{Symbol: "SPY"}, core.ErrConfigMissing},
		{"unknown indicator", Request{Symbol: "SPY", Strategy: strategy.Single("nope", nil)}, core.ErrUnknownIndicator},
		{"bad param", Request{Symbol: "SPY", Strategy: strategy.Single("rsi", map[string]float64{"period": 1})}, core.ErrParamOutOfRange},
		{"empty symbol", Request{Strategy: strategy.Default()}, core.ErrConfigMissing},
		{"reversed range", Request{Symbol: "SPY", Start: day(5), End: day(1), Strategy: strategy.Default()}, core.ErrConfigInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := scriptedProvider()
			report, err := New(provider).Run(context.Background(), tt.req)

			assert.Nil(t, report)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, core.IsConfigError(err))
			assert.Zero(t, provider.calls)
		})
	}
}

func TestBacktester_InvalidCapital(t *testing.T) {
	provider := scriptedProvider()
	_, err := New(provider, WithBuilder(testBuilder()), WithInitialCapital(0)).Run(context.Background(), scriptedRequest())

	assert.ErrorIs(t, err, core.ErrConfigInvalid)
	assert.Zero(t, provider.calls)
}

func TestBacktester_DataErrors(t *testing.T) {
	b := New(&mockProvider{bars: []core.PriceBar{}}, WithBuilder(testBuilder()))
	_, err := b.Run(context.Background(), scriptedRequest())
	assert.ErrorIs(t, err, core.ErrNoData)

	short := New(&mockProvider{bars: risingBars(10)})
	_, err = short.Run(context.Background(), Request{Symbol: "SPY", Strategy: strategy.Default()})
	assert.ErrorIs(t, err, core.ErrInsufficientData)
}

func TestBacktester_SourceFailure(t *testing.T) {
	reg := metrics.NewRegistry()
	b := New(&mockProvider{err: errors.New("connection refused")},
		WithBuilder(testBuilder()), WithMetrics(reg))

	report, err := b.Run(context.Background(), scriptedRequest())

	assert.Nil(t, report)
	assert.ErrorIs(t, err, core.ErrSourceFailed)
	assert.Contains(t, err.Error(), "connection refused")
	assert.False(t, core.IsDataError(err))
}

func TestBacktester_ProviderDataErrorPassesThrough(t *testing.T) {
	b := New(&mockProvider{err: core.FieldError(core.ErrNoData, "symbol", "no bars for SPY")},
		WithBuilder(testBuilder()))

	_, err := b.Run(context.Background(), scriptedRequest())
	assert.ErrorIs(t, err, core.ErrNoData)
	assert.NotErrorIs(t, err, core.ErrSourceFailed)
}

func TestBacktester_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	provider := scriptedProvider()
	_, err := New(provider, WithBuilder(testBuilder())).Run(ctx, scriptedRequest())

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, provider.calls)
}

func TestBacktester_ArchiveFailureKeepsReport(t *testing.T) {
	obs, logs := observer.New(zap.DebugLevel)
	b := New(scriptedProvider(),
		WithBuilder(testBuilder()),
		WithArchive(failingStore{}),
		WithLogger(zap.New(obs)),
	)

	report, err := b.Run(context.Background(), scriptedRequest())
	require.NoError(t, err)
	assert.Empty(t, report.ArchivePath)
	assert.Equal(t, 1, logs.FilterMessage("archiving report failed").Len())
}

func TestBacktester_Logs(t *testing.T) {
	obs, logs := observer.New(zap.InfoLevel)
	b := New(scriptedProvider(), WithBuilder(testBuilder()), WithLogger(zap.New(obs)))

	report, err := b.Run(context.Background(), scriptedRequest())
	require.NoError(t, err)

	finished := logs.FilterMessage("backtest finished").All()
	require.Len(t, finished, 1)
	fields := finished[0].ContextMap()
	assert.Equal(t, report.RunID, fields["run_id"])
	assert.Equal(t, int64(7), fields["bars"])
	assert.Equal(t, int64(3), fields["trades"])

	_, err = b.Run(context.Background(), Request{Symbol: "SPY"})
	require.Error(t, err)
	assert.Equal(t, 1, logs.FilterMessage("backtest failed").Len())
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, metrics.StatusOK},
		{context.Canceled, metrics.StatusCanceled},
		{context.DeadlineExceeded, metrics.StatusCanceled},
		{core.ErrUnknownIndicator, metrics.StatusConfigError},
		{core.ErrInsufficientData, metrics.StatusDataError},
		{core.WrapError(core.ErrSourceFailed, errors.New("x")), metrics.StatusSourceError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, outcome(tt.err), "outcome(%v)", tt.err)
	}
}
