package monitor

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Pouseidon-949/poseidon-monitor/eventlog"
	"github.com/Pouseidon-949/poseidon-monitor/metric"
	"github.com/Pouseidon-949/poseidon-monitor/resource"
)

// retentionEvery is how often expired rows are purged.
const retentionEvery = 24 * time.Hour

// job is one periodic background task. Returned errors are logged and the
// job keeps running; only context cancellation stops it.
type job struct {
	name  string
	every time.Duration
	run   func(context.Context) error
}

// runJobs drives every enabled background job on its own ticker until ctx is
// cancelled.
func (m *Monitor) runJobs(ctx context.Context) error {
	jobs := []job{
		{name: "retention", every: retentionEvery, run: m.purgeExpired},
	}
	if m.cfg.PerformanceMonitoring {
		jobs = append(jobs, job{name: "system-metrics", every: m.cfg.MetricsEvery(), run: m.sampleSystem})
	}
	if m.cfg.HourlyGrowth && m.balance != nil {
		jobs = append(jobs, job{name: "hourly-growth", every: time.Hour, run: m.trackGrowth})
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, j := range jobs {
		j := j
		g.Go(func() error {
			ticker := time.NewTicker(j.every)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-ticker.C:
					if err := j.run(ctx); err != nil {
						m.events.Error("background job failed", eventlog.KindError, map[string]any{
							"error_type": "scheduler_error",
							"job":        j.name,
							"error":      err.Error(),
						})
					}
				}
			}
		})
	}
	return g.Wait()
}

// sampleSystem records one round of system_* performance samples. Hosts
// without an observing sampler are skipped silently.
func (m *Monitor) sampleSystem(_ context.Context) error {
	usage, err := m.sampler.Sample()
	if errors.Is(err, resource.ErrUnavailable) {
		return nil
	}
	if err != nil {
		return err
	}

	samples := []struct {
		name  string
		value float64
		unit  string
	}{
		{"system_cpu_percent", usage.CPUPercent, "percent"},
		{"system_memory_percent", usage.MemoryPercent, "percent"},
		{"system_memory_mb", usage.MemoryMB, "megabytes"},
		{"system_disk_percent", usage.DiskPercent, "percent"},
		{"system_load_1m", usage.Load1, "load"},
	}
	for _, s := range samples {
		if err := m.LogPerformanceMetric(s.name, metric.Number(s.value), s.unit, "", nil); err != nil {
			return err
		}
	}
	return nil
}

// trackGrowth records one hourly growth data point from the balance callback,
// with the trade count and realized P&L of the trailing hour.
func (m *Monitor) trackGrowth(_ context.Context) error {
	trades, err := m.collector.Trades(1, "")
	if err != nil {
		return err
	}
	var pnl float64
	for _, t := range trades {
		pnl += t.ProfitLoss
	}

	g, err := m.collector.RecordHourlyGrowth(m.balance(), len(trades), pnl)
	if err != nil {
		return err
	}

	m.events.Info("hourly growth recorded", eventlog.KindGrowth, map[string]any{
		"account_balance":   g.AccountBalance,
		"growth_amount":     g.GrowthAmount,
		"growth_percentage": g.GrowthPercentage,
		"trade_count":       g.TradeCount,
	})
	return nil
}

// purgeExpired removes rows beyond the retention horizon.
func (m *Monitor) purgeExpired(_ context.Context) error {
	deleted, err := m.collector.PurgeOlderThan(m.cfg.RetentionDays)
	if err != nil {
		return err
	}
	if deleted > 0 {
		m.events.Info("expired metrics purged", eventlog.KindSystem, map[string]any{
			"rows_deleted":   deleted,
			"retention_days": m.cfg.RetentionDays,
		})
	}
	return nil
}
