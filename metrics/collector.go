// Package metrics ingests typed metric records and answers time-windowed
// summary queries over them.
//
// Writes are write-through: the durable store insert and the in-memory ring
// append happen under one lock, so a reader never observes a cache entry
// without its durable row. Summaries re-query the store and are therefore
// consistent as of query time, not snapshot-isolated from concurrent writes.
package metrics

import (
	"sync"
	"time"

	"github.com/Pouseidon-949/poseidon-monitor/cache"
	"github.com/Pouseidon-949/poseidon-monitor/metric"
	"github.com/Pouseidon-949/poseidon-monitor/store"
)

// growthWindow keeps one week of hourly growth records in memory.
const growthWindow = 168

// Collector owns the durable store, the recent-window rings, and the growth
// tracker cursor.
type Collector struct {
	mu          sync.Mutex
	store       *store.Store
	trades      *cache.Ring[metric.Trade]
	performance *cache.Ring[metric.Performance]
	growth      *cache.Ring[metric.Growth]
	liquidity   *cache.Ring[metric.Liquidity]

	// lastBalance is the growth tracker cursor: zero until the first
	// RecordHourlyGrowth call, then the most recently recorded balance.
	// It is not reconstructed from the store on restart.
	lastBalance float64
}

// NewCollector wires a collector over st. maxDataPoints bounds the trade,
// performance and liquidity rings; growth always keeps one week of hours.
func NewCollector(st *store.Store, maxDataPoints int) *Collector {
	return &Collector{
		store:       st,
		trades:      cache.New[metric.Trade](maxDataPoints),
		performance: cache.New[metric.Performance](maxDataPoints),
		growth:      cache.New[metric.Growth](growthWindow),
		liquidity:   cache.New[metric.Liquidity](maxDataPoints),
	}
}

// RecordTrade persists t and mirrors it into the recent ring.
func (c *Collector) RecordTrade(t metric.Trade) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.RecordTrade(t); err != nil {
		return err
	}
	c.trades.Append(t)
	return nil
}

// RecordPerformance persists p and mirrors it into the recent ring.
func (c *Collector) RecordPerformance(p metric.Performance) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.RecordPerformance(p); err != nil {
		return err
	}
	c.performance.Append(p)
	return nil
}

// RecordLiquidity persists l and mirrors it into the recent ring.
func (c *Collector) RecordLiquidity(l metric.Liquidity) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.RecordLiquidity(l); err != nil {
		return err
	}
	c.liquidity.Append(l)
	return nil
}

// RecordHourlyGrowth computes the growth delta against the tracker cursor,
// persists the record, and advances the cursor to balance. The cursor
// mutation and the store write share the collector lock: two concurrent calls
// can never read the same stale cursor, so growth amounts always telescope to
// finalBalance - initialBalance.
func (c *Collector) RecordHourlyGrowth(balance float64, tradeCount int, pnl float64) (metric.Growth, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now().UTC()
	prev := c.lastBalance
	amount := balance - prev
	pct := 0.0
	if prev > 0 {
		pct = amount / prev * 100
	}

	g := metric.Growth{
		Timestamp:        metric.FormatTime(now),
		Hour:             now.Hour(),
		AccountBalance:   balance,
		PreviousBalance:  prev,
		GrowthAmount:     amount,
		GrowthPercentage: pct,
		TradeCount:       tradeCount,
		ProfitLoss:       pnl,
	}

	if err := c.store.RecordGrowth(g); err != nil {
		// Cursor stays put on a failed write so the delta is not lost.
		return metric.Growth{}, err
	}
	c.growth.Append(g)
	c.lastBalance = balance
	return g, nil
}

// LastBalance returns the growth tracker cursor.
func (c *Collector) LastBalance() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastBalance
}

// RecentTrades returns up to n of the newest cached trades, oldest first.
func (c *Collector) RecentTrades(n int) []metric.Trade {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.trades.Tail(n)
}

// RecentPerformance returns up to n of the newest cached samples, oldest first.
func (c *Collector) RecentPerformance(n int) []metric.Performance {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.performance.Tail(n)
}

// RecentGrowth returns up to n of the newest cached growth records, oldest first.
func (c *Collector) RecentGrowth(n int) []metric.Growth {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.growth.Tail(n)
}

// RecentLiquidity returns up to n of the newest cached observations, oldest first.
func (c *Collector) RecentLiquidity(n int) []metric.Liquidity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.liquidity.Tail(n)
}

// Trades reads trades from the store for the trailing window, newest first.
func (c *Collector) Trades(hours int, symbol string) ([]metric.Trade, error) {
	return c.store.Trades(windowStart(hours), symbol)
}

// PerformanceSamples reads samples from the store for the trailing window,
// newest first.
func (c *Collector) PerformanceSamples(hours int, name string) ([]metric.Performance, error) {
	return c.store.PerformanceSamples(windowStart(hours), name)
}

// GrowthRecords reads growth records from the store for the trailing window,
// oldest first.
func (c *Collector) GrowthRecords(hours int) ([]metric.Growth, error) {
	return c.store.GrowthRecords(windowStart(hours))
}

// LiquiditySamples reads liquidity rows from the store for the trailing
// window, newest first.
func (c *Collector) LiquiditySamples(hours int, symbol string) ([]metric.Liquidity, error) {
	return c.store.LiquiditySamples(windowStart(hours), symbol)
}

// PurgeOlderThan deletes rows older than the retention horizon from every
// table. The rings are untouched: cache eviction is capacity-based only.
func (c *Collector) PurgeOlderThan(retentionDays int) (int64, error) {
	cutoff := metric.FormatTime(time.Now().UTC().AddDate(0, 0, -retentionDays))
	return c.store.PurgeOlderThan(cutoff)
}

// Stats returns per-table row counts from the store.
func (c *Collector) Stats() (map[string]int64, error) {
	return c.store.Stats()
}

// windowStart formats the lower bound of a trailing window ending now.
// hours <= 0 means no bound.
func windowStart(hours int) string {
	if hours <= 0 {
		return ""
	}
	return metric.FormatTime(time.Now().UTC().Add(-time.Duration(hours) * time.Hour))
}
