package metrics

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Pouseidon-949/poseidon-monitor/metric"
	"github.com/Pouseidon-949/poseidon-monitor/store"
)

func newTestCollector(t *testing.T, maxDataPoints int) *Collector {
	t.Helper()

	st, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	assert.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	return NewCollector(st, maxDataPoints)
}

func TestRecordTradeWriteThrough(t *testing.T) {
	t.Parallel()

	c := newTestCollector(t, 100)

	tr := metric.NewTrade("BTCUSDT", metric.Buy, 2, 100)
	assert.NoError(t, c.RecordTrade(tr))

	// Both the durable store and the recent ring must hold the trade.
	recent := c.RecentTrades(10)
	assert.Len(t, recent, 1)
	assert.Equal(t, tr, recent[0])

	stored, err := c.Trades(0, "")
	assert.NoError(t, err)
	assert.Len(t, stored, 1)
	assert.Equal(t, tr.Timestamp, stored[0].Timestamp)
}

func TestRecentTradesBounded(t *testing.T) {
	t.Parallel()

	c := newTestCollector(t, 3)

	for i := 0; i < 5; i++ {
		assert.NoError(t, c.RecordTrade(metric.NewTrade("BTCUSDT", metric.Buy, float64(i+1), 100)))
	}

	// Cache keeps the newest 3; the store keeps all 5.
	recent := c.RecentTrades(10)
	assert.Len(t, recent, 3)
	assert.InDelta(t, 3, recent[0].Quantity, 1e-9)
	assert.InDelta(t, 5, recent[2].Quantity, 1e-9)

	stored, err := c.Trades(0, "")
	assert.NoError(t, err)
	assert.Len(t, stored, 5)
}

func TestRecordHourlyGrowthAdvancesCursor(t *testing.T) {
	t.Parallel()

	c := newTestCollector(t, 100)

	// First record: zero cursor, no percentage.
	g, err := c.RecordHourlyGrowth(1000, 3, 15)
	assert.NoError(t, err)
	assert.InDelta(t, 0, g.PreviousBalance, 1e-9)
	assert.InDelta(t, 1000, g.GrowthAmount, 1e-9)
	assert.InDelta(t, 0, g.GrowthPercentage, 1e-9)
	assert.Equal(t, 3, g.TradeCount)

	g, err = c.RecordHourlyGrowth(1100, 1, 5)
	assert.NoError(t, err)
	assert.InDelta(t, 1000, g.PreviousBalance, 1e-9)
	assert.InDelta(t, 100, g.GrowthAmount, 1e-9)
	assert.InDelta(t, 10, g.GrowthPercentage, 1e-9)

	assert.InDelta(t, 1100, c.LastBalance(), 1e-9)
}

func TestGrowthAmountsTelescope(t *testing.T) {
	t.Parallel()

	c := newTestCollector(t, 100)

	var wg sync.WaitGroup
	for i := 1; i <= 16; i++ {
		wg.Add(1)
		go func(balance float64) {
			defer wg.Done()
			_, err := c.RecordHourlyGrowth(balance, 0, 0)
			assert.NoError(t, err)
		}(float64(i * 100))
	}
	wg.Wait()

	// Concurrent recordings in any interleaving must telescope: the growth
	// amounts sum to the final cursor minus the initial (zero) balance.
	records, err := c.GrowthRecords(0)
	assert.NoError(t, err)
	assert.Len(t, records, 16)

	var sum float64
	for _, g := range records {
		sum += g.GrowthAmount
	}
	assert.InDelta(t, c.LastBalance(), sum, 1e-6)
}

func TestPurgeOlderThanRetention(t *testing.T) {
	t.Parallel()

	c := newTestCollector(t, 100)

	old := metric.NewTrade("BTCUSDT", metric.Buy, 1, 100)
	old.Timestamp = metric.FormatTime(time.Now().UTC().AddDate(0, 0, -40))
	assert.NoError(t, c.RecordTrade(old))
	assert.NoError(t, c.RecordTrade(metric.NewTrade("BTCUSDT", metric.Buy, 1, 100)))

	deleted, err := c.PurgeOlderThan(30)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	stored, err := c.Trades(0, "")
	assert.NoError(t, err)
	assert.Len(t, stored, 1)
}
