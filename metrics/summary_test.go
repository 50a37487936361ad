package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Pouseidon-949/poseidon-monitor/metric"
)

func TestTradingSummaryEmptyWindow(t *testing.T) {
	t.Parallel()

	c := newTestCollector(t, 100)

	s, err := c.TradingSummary(24)
	assert.NoError(t, err)
	assert.Equal(t, 0, s.TotalTrades)
	assert.InDelta(t, 0, s.WinRate, 1e-9)
	assert.NotNil(t, s.VolumeBySymbol)
	assert.Empty(t, s.VolumeBySymbol)
}

func TestTradingSummaryTwoTrades(t *testing.T) {
	t.Parallel()

	c := newTestCollector(t, 100)

	a := metric.NewTrade("BTCUSDT", metric.Buy, 0.1, 50000) // notional 5000
	a.Fee = 2
	a.ExecutionTimeMS = 10
	a.SlippageBPS = -1 // filled better than quoted
	a.ProfitLoss = 30

	b := metric.NewTrade("ETHUSDT", metric.Sell, 1, 2500) // notional 2500
	b.Fee = 1
	b.ExecutionTimeMS = 5
	b.SlippageBPS = 2
	b.ProfitLoss = -10

	assert.NoError(t, c.RecordTrade(a))
	assert.NoError(t, c.RecordTrade(b))

	s, err := c.TradingSummary(24)
	assert.NoError(t, err)
	assert.Equal(t, 2, s.TotalTrades)
	assert.InDelta(t, 7500, s.TotalVolume, 1e-9)
	assert.InDelta(t, 3, s.TotalFees, 1e-9)
	assert.InDelta(t, 20, s.TotalPnL, 1e-9)
	assert.InDelta(t, 7.5, s.AvgExecutionTime, 1e-9)
	assert.InDelta(t, 0.5, s.AvgSlippage, 1e-9)
	assert.InDelta(t, 50, s.WinRate, 1e-9)
	assert.InDelta(t, 5000, s.VolumeBySymbol["BTCUSDT"], 1e-9)
	assert.InDelta(t, 2500, s.VolumeBySymbol["ETHUSDT"], 1e-9)
}

func TestGrowthSummaryStreak(t *testing.T) {
	t.Parallel()

	c := newTestCollector(t, 100)

	// Oldest to newest: +5, -2, +3, +4. The streak counts back from the
	// newest record and stops at the first non-positive growth.
	base := 1000.0
	for _, delta := range []float64{5, -2, 3, 4} {
		base += delta
		_, err := c.RecordHourlyGrowth(base, 0, 0)
		assert.NoError(t, err)
	}

	s, err := c.GrowthSummary(24)
	assert.NoError(t, err)
	assert.Equal(t, 2, s.GrowthStreak)
	assert.Equal(t, 3, s.PositivePeriods) // includes the initial 1005 jump from zero
	assert.InDelta(t, -2, s.MinHourlyGrowth, 1e-9)
	assert.InDelta(t, 1005, s.MaxHourlyGrowth, 1e-9)
	assert.InDelta(t, 1010, s.TotalGrowth, 1e-9)
}

func TestGrowthSummaryEmpty(t *testing.T) {
	t.Parallel()

	c := newTestCollector(t, 100)

	s, err := c.GrowthSummary(24)
	assert.NoError(t, err)
	assert.Equal(t, GrowthSummary{}, s)
}

func TestLiquiditySummary(t *testing.T) {
	t.Parallel()

	c := newTestCollector(t, 100)

	samples := []metric.Liquidity{
		{Timestamp: metric.Now(), Symbol: "BTCUSDT", Spread: 0.2, MarketDepth: 100, Volatility24h: 1.5, Volume24h: 10},
		{Timestamp: metric.Now(), Symbol: "BTCUSDT", Spread: 0.4, MarketDepth: 300, Volatility24h: 2.5, Volume24h: 20},
		{Timestamp: metric.Now(), Symbol: "ETHUSDT", Spread: 9.9, MarketDepth: 1, Volatility24h: 9, Volume24h: 5},
	}
	for _, l := range samples {
		assert.NoError(t, c.RecordLiquidity(l))
	}

	s, err := c.LiquiditySummary("BTCUSDT", 24)
	assert.NoError(t, err)
	assert.Equal(t, "BTCUSDT", s.Symbol)
	assert.Equal(t, 2, s.DataPoints)
	assert.InDelta(t, 0.3, s.AvgSpread, 1e-9)
	assert.InDelta(t, 0.2, s.MinSpread, 1e-9)
	assert.InDelta(t, 0.4, s.MaxSpread, 1e-9)
	assert.InDelta(t, 200, s.AvgMarketDepth, 1e-9)
	assert.InDelta(t, 2, s.AvgVolatility, 1e-9)
	assert.InDelta(t, 30, s.TotalVolume, 1e-9)
}

func TestLiquiditySummaryNoData(t *testing.T) {
	t.Parallel()

	c := newTestCollector(t, 100)

	s, err := c.LiquiditySummary("BTCUSDT", 24)
	assert.NoError(t, err)
	assert.Equal(t, "BTCUSDT", s.Symbol)
	assert.Equal(t, 0, s.DataPoints)
}

func TestPerformanceSummaryNumericOnly(t *testing.T) {
	t.Parallel()

	c := newTestCollector(t, 100)

	now := time.Now().UTC()
	record := func(offset time.Duration, name string, v metric.Value) {
		assert.NoError(t, c.RecordPerformance(metric.Performance{
			Timestamp:  metric.FormatTime(now.Add(offset)),
			MetricName: name,
			Value:      v,
		}))
	}

	record(-3*time.Minute, "latency_ms", metric.Number(30))
	record(-2*time.Minute, "latency_ms", metric.Number(10))
	record(-1*time.Minute, "latency_ms", metric.Number(20))
	record(-1*time.Minute, "strategy_state", metric.Text("warmup"))

	s, err := c.PerformanceSummary(24)
	assert.NoError(t, err)

	// Text-valued names are stored but never aggregated.
	assert.NotContains(t, s, "strategy_state")

	stats := s["latency_ms"]
	assert.Equal(t, 3, stats.Count)
	assert.InDelta(t, 20, stats.Current, 1e-9) // newest sample
	assert.InDelta(t, 20, stats.Average, 1e-9)
	assert.InDelta(t, 10, stats.Min, 1e-9)
	assert.InDelta(t, 30, stats.Max, 1e-9)
}
