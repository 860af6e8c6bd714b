package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Backtest run outcomes used as the status label.
const (
	StatusOK          = "ok"
	StatusConfigError = "config_error"
	StatusDataError   = "data_error"
	StatusSourceError = "source_error"
	StatusCanceled    = "canceled"
)

// Registry holds all Prometheus metrics.
type Registry struct {
	*prometheus.Registry

	backtestsTotal       *prometheus.CounterVec
	backtestDuration     prometheus.Histogram
	barsReplayed         prometheus.Counter
	tradesTotal          *prometheus.CounterVec
	indicatorSelections  *prometheus.CounterVec
	archiveWrites        *prometheus.CounterVec
	lastRunTimestamp     prometheus.Gauge
	lastRunCompositeSize prometheus.Gauge
}

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	// Register Go runtime metrics
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{Registry: reg}

	r.backtestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "algonex_backtests_total",
			Help: "Total number of backtest runs by outcome",
		},
		[]string{"status"},
	)
	r.backtestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "algonex_backtest_duration_seconds",
			Help:    "Backtest run duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		},
	)
	r.barsReplayed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "algonex_bars_replayed_total",
			Help: "Total number of price bars replayed",
		},
	)
	r.tradesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "algonex_trades_total",
			Help: "Total number of trades emitted by replays",
		},
		[]string{"action"},
	)
	r.indicatorSelections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "algonex_indicator_selections_total",
			Help: "Number of successful runs using each indicator",
		},
		[]string{"indicator"},
	)
	r.archiveWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "algonex_archive_writes_total",
			Help: "Report archive writes by outcome",
		},
		[]string{"status"},
	)
	r.lastRunTimestamp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "algonex_last_run_timestamp_seconds",
			Help: "Unix time of the last successful backtest",
		},
	)
	r.lastRunCompositeSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "algonex_last_run_indicators",
			Help: "Number of indicators in the last successful strategy",
		},
	)

	reg.MustRegister(r.backtestsTotal)
	reg.MustRegister(r.backtestDuration)
	reg.MustRegister(r.barsReplayed)
	reg.MustRegister(r.tradesTotal)
	reg.MustRegister(r.indicatorSelections)
	reg.MustRegister(r.archiveWrites)
	reg.MustRegister(r.lastRunTimestamp)
	reg.MustRegister(r.lastRunCompositeSize)

	return r
}

// RecordBacktest records a backtest completion.
func (r *Registry) RecordBacktest(status string, duration float64) {
	r.backtestsTotal.WithLabelValues(status).Inc()
	r.backtestDuration.Observe(duration)
}

// RecordReplay records the volume of a successful replay.
func (r *Registry) RecordReplay(bars, buys, sells int, indicators []string, unixTime float64) {
	r.barsReplayed.Add(float64(bars))
	r.tradesTotal.WithLabelValues("BUY").Add(float64(buys))
	r.tradesTotal.WithLabelValues("SELL").Add(float64(sells))
	for _, id := range indicators {
		r.indicatorSelections.WithLabelValues(id).Inc()
	}
	r.lastRunTimestamp.Set(unixTime)
	r.lastRunCompositeSize.Set(float64(len(indicators)))
}

// RecordArchive records the outcome of a report archive write.
func (r *Registry) RecordArchive(ok bool) {
	status := "ok"
	if !ok {
		status = "error"
	}
	r.archiveWrites.WithLabelValues(status).Inc()
}

// WriteTextfile writes every gathered metric to path in the Prometheus text
// format, for collection by the node exporter textfile collector.
func (r *Registry) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.Registry)
}
