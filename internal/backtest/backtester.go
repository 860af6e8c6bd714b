package backtest

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/newthinker/algonex/internal/core"
	"github.com/newthinker/algonex/internal/datasource"
	"github.com/newthinker/algonex/internal/metrics"
	"github.com/newthinker/algonex/internal/storage/archive"
	"github.com/newthinker/algonex/internal/strategy"
)

// DefaultInitialCapital seeds the equity account of a report.
const DefaultInitialCapital = 10000.0

// Backtester runs strategy backtests against historical data
type Backtester struct {
	provider datasource.Provider
	builder  *strategy.Builder
	logger   *zap.Logger
	metrics  *metrics.Registry
	archive  archive.Store
	capital  float64
	now      func() time.Time
}

// Option configures a Backtester.
type Option func(*Backtester)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *zap.Logger) Option {
	return func(b *Backtester) { b.logger = l }
}

// WithMetrics records run outcomes in reg.
func WithMetrics(reg *metrics.Registry) Option {
	return func(b *Backtester) { b.metrics = reg }
}

// WithArchive stores every successful report in s.
func WithArchive(s archive.Store) Option {
	return func(b *Backtester) { b.archive = s }
}

// WithBuilder replaces the default strategy builder.
func WithBuilder(builder *strategy.Builder) Option {
	return func(b *Backtester) { b.builder = builder }
}

// WithInitialCapital sets the starting capital of the equity account.
func WithInitialCapital(capital float64) Option {
	return func(b *Backtester) { b.capital = capital }
}

// WithClock overrides the wall clock used for run timestamps.
func WithClock(now func() time.Time) Option {
	return func(b *Backtester) { b.now = now }
}

// New creates a new Backtester reading bars from provider
func New(provider datasource.Provider, opts ...Option) *Backtester {
	b := &Backtester{
		provider: provider,
		logger:   zap.NewNop(),
		capital:  DefaultInitialCapital,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.builder == nil {
		b.builder = strategy.NewBuilder(nil)
	}
	return b
}

// Run builds the requested strategy, fetches bars and replays them. It
// returns either a complete report or a typed error, never both.
func (b *Backtester) Run(ctx context.Context, req Request) (*Report, error) {
	started := b.now()
	report, err := b.run(ctx, req, started)
	elapsed := b.now().Sub(started)

	if b.metrics != nil {
		b.metrics.RecordBacktest(outcome(err), elapsed.Seconds())
	}
	if err != nil {
		b.logger.Warn("backtest failed",
			zap.String("symbol", req.Symbol),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return nil, err
	}

	report.Duration = elapsed
	if b.metrics != nil {
		b.metrics.RecordReplay(report.Bars, report.Summary.BuyTrades, report.Summary.SellTrades,
			indicatorIDs(report.Strategy), float64(started.Unix()))
	}
	b.store(ctx, report)

	b.logger.Info("backtest finished",
		zap.String("run_id", report.RunID),
		zap.String("symbol", report.Symbol),
		zap.Int("bars", report.Bars),
		zap.Int("trades", report.Summary.TotalTrades),
		zap.String("final_position", string(report.FinalPosition)),
		zap.Float64("total_return_pct", report.Equity.TotalReturnPct),
		zap.Duration("elapsed", elapsed),
	)
	return report, nil
}

func (b *Backtester) run(ctx context.Context, req Request, started time.Time) (*Report, error) {
	symbol := strings.TrimSpace(req.Symbol)
	if symbol == "" {
		return nil, core.FieldError(core.ErrConfigMissing, "symbol", "symbol is required")
	}
	if !req.Start.IsZero() && !req.End.IsZero() && !req.Start.Before(req.End) {
		return nil, core.FieldError(core.ErrConfigInvalid, "start",
			"start %s must be before end %s", req.Start.Format("2006-01-02"), req.End.Format("2006-01-02"))
	}
	if !(b.capital > 0) {
		return nil, core.FieldError(core.ErrConfigInvalid, "backtest.initial_capital",
			"initial capital must be positive, got %g", b.capital)
	}

	composite, err := b.builder.Build(req.Strategy)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.logger.Debug("fetching bars",
		zap.String("symbol", symbol),
		zap.String("provider", b.provider.Name()),
		zap.Time("start", req.Start),
		zap.Time("end", req.End),
	)
	bars, err := b.provider.FetchHistory(ctx, symbol, req.Start, req.End)
	if err != nil {
		return nil, sourceError(ctx, err)
	}

	result, err := Replay(bars, composite)
	if err != nil {
		return nil, err
	}

	lastClose := bars[len(bars)-1].Close
	return &Report{
		RunID:         uuid.NewString(),
		Symbol:        symbol,
		Start:         req.Start,
		End:           req.End,
		Strategy:      composite.Config(),
		Bars:          len(bars),
		Trades:        result.Trades,
		Summary:       result.Summary,
		FinalPosition: result.FinalPosition,
		Stats:         CalculateStats(RoundTrips(result.Trades, lastClose)),
		Equity:        CalculateEquity(result.Trades, b.capital),
		Panel:         result.Panel,
		CreatedAt:     started.UTC(),
	}, nil
}

// store archives the report. A failed write is logged and metered but does
// not fail the run.
func (b *Backtester) store(ctx context.Context, report *Report) {
	if b.archive == nil {
		return
	}
	p := archive.ReportPath(report.Symbol, report.CreatedAt, report.RunID)
	err := archive.SaveJSON(ctx, b.archive, p, report)
	if b.metrics != nil {
		b.metrics.RecordArchive(err == nil)
	}
	if err != nil {
		b.logger.Error("archiving report failed", zap.String("run_id", report.RunID), zap.Error(err))
		return
	}
	report.ArchivePath = p
	b.logger.Debug("report archived", zap.String("run_id", report.RunID), zap.String("path", p))
}

// sourceError classifies a provider failure. Cancellation and data errors
// pass through, anything else becomes ErrSourceFailed.
func sourceError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return ctxErr
	}
	if core.IsDataError(err) || core.IsConfigError(err) {
		return err
	}
	return core.WrapError(core.ErrSourceFailed, err)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.StatusOK
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return metrics.StatusCanceled
	case core.IsConfigError(err):
		return metrics.StatusConfigError
	case core.IsDataError(err):
		return metrics.StatusDataError
	default:
		return metrics.StatusSourceError
	}
}

func indicatorIDs(cfg strategy.Config) []string {
	ids := make([]string, len(cfg.Indicators))
	for i, ind := range cfg.Indicators {
		ids[i] = ind.ID
	}
	return ids
}
