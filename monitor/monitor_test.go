package monitor

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Pouseidon-949/poseidon-monitor/config"
	"github.com/Pouseidon-949/poseidon-monitor/eventlog"
	"github.com/Pouseidon-949/poseidon-monitor/metric"
)

func newTestMonitor(t *testing.T, opts ...Option) *Monitor {
	t.Helper()

	dir := t.TempDir()
	cfg := config.Default()
	cfg.DBPath = filepath.Join(dir, "test.db")
	cfg.LogFile = filepath.Join(dir, "test.log")

	m, err := New(cfg, opts...)
	assert.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })

	return m
}

func TestLogTradeAssignsExecutionID(t *testing.T) {
	t.Parallel()

	m := newTestMonitor(t)

	tr, err := m.LogTrade(TradeInput{Symbol: "BTCUSDT", Side: metric.Buy, Quantity: 1, Price: 100})
	assert.NoError(t, err)
	assert.NotEmpty(t, tr.ExecutionID)
	assert.InDelta(t, 100, tr.NotionalValue, 1e-9)

	// The supplied ID is kept verbatim.
	tr, err = m.LogTrade(TradeInput{Symbol: "BTCUSDT", Side: metric.Sell, Quantity: 1, Price: 100, ExecutionID: "my-id"})
	assert.NoError(t, err)
	assert.Equal(t, "my-id", tr.ExecutionID)

	stored, err := m.Collector().Trades(0, "")
	assert.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestLogTradeNotifiesCallbacks(t *testing.T) {
	t.Parallel()

	m := newTestMonitor(t)

	var got []metric.Trade
	m.OnTrade(func(tr metric.Trade) { got = append(got, tr) })

	_, err := m.LogTrade(TradeInput{Symbol: "ETHUSDT", Side: metric.Buy, Quantity: 2, Price: 50})
	assert.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, "ETHUSDT", got[0].Symbol)
}

func TestCallbackPanicIsContained(t *testing.T) {
	t.Parallel()

	m := newTestMonitor(t)

	called := false
	m.OnTrade(func(metric.Trade) { panic("subscriber bug") })
	m.OnTrade(func(metric.Trade) { called = true })

	_, err := m.LogTrade(TradeInput{Symbol: "BTCUSDT", Side: metric.Buy, Quantity: 1, Price: 1})
	assert.NoError(t, err)

	// The panic is logged and the remaining callbacks still run.
	assert.True(t, called)
	panics := 0
	for _, e := range m.Events().Recent(0, eventlog.KindError, "") {
		if e.Data["error_type"] == "callback_panic" {
			panics++
		}
	}
	assert.Equal(t, 1, panics)
}

func TestTrackTradesDisabled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := config.Default()
	cfg.DBPath = filepath.Join(dir, "test.db")
	cfg.LogFile = filepath.Join(dir, "test.log")
	cfg.TrackTrades = false

	m, err := New(cfg)
	assert.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })

	tr, err := m.LogTrade(TradeInput{Symbol: "BTCUSDT", Side: metric.Buy, Quantity: 1, Price: 1})
	assert.NoError(t, err)
	assert.Empty(t, tr.ExecutionID)

	stored, err := m.Collector().Trades(0, "")
	assert.NoError(t, err)
	assert.Empty(t, stored)
}

func TestLogErrorLevels(t *testing.T) {
	t.Parallel()

	m := newTestMonitor(t)

	var got []ErrorEvent
	m.OnError(func(e ErrorEvent) { got = append(got, e) })

	m.LogError(ErrorEvent{Type: "api_error", Message: "timeout"})
	m.LogError(ErrorEvent{Type: "db_error", Message: "corrupt", Critical: true})

	assert.Len(t, got, 2)

	entries := m.Events().Recent(0, eventlog.KindError, "")
	assert.Len(t, entries, 2)
	assert.Equal(t, "ERROR", entries[0].Level)
	assert.Equal(t, "CRITICAL", entries[1].Level)
	assert.Equal(t, "db_error", entries[1].Data["error_type"])
}

func TestLoopLifecycle(t *testing.T) {
	t.Parallel()

	m := newTestMonitor(t)

	m.StartLoop("loop-1")
	m.EndLoop("loop-1", true, 3)

	loops := m.Events().Recent(0, eventlog.KindLoop, "")
	assert.Len(t, loops, 1)
	assert.Equal(t, "loop-1", loops[0].Data["loop_id"])
	assert.Equal(t, true, loops[0].Data["success"])
	assert.Equal(t, 3, loops[0].Data["trades_executed"])

	// A matching duration sample lands in the performance table.
	samples, err := m.Collector().PerformanceSamples(0, "loop_duration_seconds")
	assert.NoError(t, err)
	assert.Len(t, samples, 1)
	assert.Equal(t, "loop-1", samples[0].ExecutionID)
}

func TestEndLoopUnknownID(t *testing.T) {
	t.Parallel()

	m := newTestMonitor(t)

	m.EndLoop("ghost", true, 0)

	errs := m.Events().Recent(0, eventlog.KindError, "")
	assert.Len(t, errs, 1)
	assert.Equal(t, "loop_tracking", errs[0].Data["error_type"])
	assert.Empty(t, m.Events().Recent(0, eventlog.KindLoop, ""))
}

func TestLogPerformanceMetric(t *testing.T) {
	t.Parallel()

	m := newTestMonitor(t)

	var got []metric.Performance
	m.OnPerformance(func(p metric.Performance) { got = append(got, p) })

	assert.NoError(t, m.LogPerformanceMetric("latency_ms", metric.Number(12), "ms", "", nil))
	assert.Len(t, got, 1)
	assert.Equal(t, "latency_ms", got[0].MetricName)

	stats, err := m.Collector().PerformanceSummary(24)
	assert.NoError(t, err)
	assert.InDelta(t, 12, stats["latency_ms"].Current, 1e-9)
}

func TestLogLiquidityAnalysisStampsTimestamp(t *testing.T) {
	t.Parallel()

	m := newTestMonitor(t)

	assert.NoError(t, m.LogLiquidityAnalysis(metric.Liquidity{Symbol: "BTCUSDT", Spread: 0.2}))

	samples, err := m.Collector().LiquiditySamples(0, "BTCUSDT")
	assert.NoError(t, err)
	assert.Len(t, samples, 1)
	assert.NotEmpty(t, samples[0].Timestamp)
}

func TestInvalidConfigRepairedNotFatal(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := config.Default()
	cfg.DBPath = filepath.Join(dir, "test.db")
	cfg.LogFile = filepath.Join(dir, "test.log")
	cfg.RetentionDays = -5
	cfg.MetricsInterval = "whenever"

	m, err := New(cfg)
	assert.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })

	// The repaired values are in effect.
	assert.Equal(t, config.Default().RetentionDays, m.cfg.RetentionDays)
	assert.Equal(t, config.Default().MetricsInterval, m.cfg.MetricsInterval)
}

func TestStartStop(t *testing.T) {
	t.Parallel()

	m := newTestMonitor(t, WithBalanceFunc(func() float64 { return 1000 }))

	m.Start(context.Background())
	assert.True(t, m.running())

	// A second Start while running is a no-op; one Stop still drains the jobs.
	m.Start(context.Background())
	assert.NoError(t, m.Stop())
	assert.False(t, m.running())

	// Stop without a prior Start is a no-op.
	assert.NoError(t, m.Stop())

	// The monitor can be restarted after a clean Stop.
	m.Start(context.Background())
	assert.True(t, m.running())
	assert.NoError(t, m.Stop())
}

func TestHealthWarnsWithoutTrades(t *testing.T) {
	t.Parallel()

	m := newTestMonitor(t)

	h, err := m.Health()
	assert.NoError(t, err)
	assert.Equal(t, "warning", h.Status)
	assert.False(t, h.Running)
	assert.Equal(t, int64(0), h.DatabaseRows["trades"])

	_, err = m.LogTrade(TradeInput{Symbol: "BTCUSDT", Side: metric.Buy, Quantity: 1, Price: 1})
	assert.NoError(t, err)

	h, err = m.Health()
	assert.NoError(t, err)
	assert.Equal(t, "healthy", h.Status)
	assert.Equal(t, int64(1), h.DatabaseRows["trades"])
}
